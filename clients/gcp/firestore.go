package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// ClientOptions returns the credential options for Google clients. An empty
// credential document means application default credentials.
func ClientOptions(credentials []byte) []option.ClientOption {
	if len(credentials) == 0 {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsJSON(credentials)}
}

func CreateFirestore(ctx context.Context, projectID string, credentials []byte) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, projectID, ClientOptions(credentials)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}
