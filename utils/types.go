package utils

import (
	"fmt"

	"cloud.google.com/go/firestore"
)

// Identifiable is implemented by document structs that keep their Firestore id
// outside of the stored fields.
type Identifiable interface {
	SetID(id string)
}

func ToPointer[T any](value T) *T {
	return &value
}

func GetAllToStructs[T any, PT interface {
	*T
	Identifiable
}](docs []*firestore.DocumentSnapshot) ([]T, error) {
	result := make([]T, len(docs))
	for i, doc := range docs {
		item, err := DocToStruct[T, PT](doc)
		if err != nil {
			return nil, err
		}
		result[i] = *item
	}
	return result, nil
}

func DocToStruct[T any, PT interface {
	*T
	Identifiable
}](doc *firestore.DocumentSnapshot) (*T, error) {
	var item T
	if err := doc.DataTo(&item); err != nil {
		return nil, fmt.Errorf("failed to convert doc %s: %w", doc.Ref.ID, err)
	}
	PT(&item).SetID(doc.Ref.ID)
	return &item, nil
}
