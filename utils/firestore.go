package utils

import (
	"context"
	"errors"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/fatih/structs"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// ListOrdered returns every document in col ordered by field. Ordering needs an
// index; when the ordered query fails the collection is scanned unordered instead.
func ListOrdered(ctx context.Context, col *firestore.CollectionRef, field string, dir firestore.Direction) ([]*firestore.DocumentSnapshot, error) {
	docs, err := collect(col.OrderBy(field, dir).Documents(ctx))
	if err == nil {
		return docs, nil
	}
	log.Warn().Err(err).Str("collection", col.ID).Str("field", field).Msg("Could not order collection, fetching unordered")
	return collect(col.Documents(ctx))
}

func collect(iter *firestore.DocumentIterator) ([]*firestore.DocumentSnapshot, error) {
	defer iter.Stop()
	docs := make([]*firestore.DocumentSnapshot, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Updates turns a patch struct into Firestore field updates. Fields are named by
// their `structs` tag; nil fields tagged omitempty are left out.
func Updates(patch any) []firestore.Update {
	m := structs.Map(patch)
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	updates := make([]firestore.Update, 0, len(paths))
	for _, path := range paths {
		updates = append(updates, firestore.Update{Path: path, Value: m[path]})
	}
	return updates
}

func NonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
