package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

func CreateStorage(ctx context.Context, credentials []byte) (*storage.Client, error) {
	client, err := storage.NewClient(ctx, ClientOptions(credentials)...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return client, nil
}
