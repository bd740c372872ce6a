package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
)

const publicHost = "https://storage.googleapis.com"

// Bucket writes publicly readable objects into a single GCS bucket.
type Bucket struct {
	client *storage.Client
	name   string
}

func NewBucket(client *storage.Client, name string) *Bucket {
	return &Bucket{
		client: client,
		name:   name,
	}
}

// PublicURL is the deterministic public address of an object in the bucket.
func (b *Bucket) PublicURL(objectName string) string {
	return PublicURL(b.name, objectName)
}

func PublicURL(bucketName, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", publicHost, bucketName, objectName)
}

// Put uploads data to objectName, makes it readable by everyone and returns its public URL.
func (b *Bucket) Put(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*60*2)
	defer cancel()

	obj := b.client.Bucket(b.name).Object(objectName)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("Object(%q).Write: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("Object(%q).Close: %w", objectName, err)
	}
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("Object(%q).ACL().Set: %w", objectName, err)
	}

	log.Debug().Str("objectName", objectName).Str("bucket", b.name).Msg("Blob uploaded successfully")
	return b.PublicURL(objectName), nil
}

func (b *Bucket) Delete(ctx context.Context, objectName string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*60)
	defer cancel()

	if err := b.client.Bucket(b.name).Object(objectName).Delete(ctx); err != nil {
		return fmt.Errorf("Object(%q).Delete: %w", objectName, err)
	}
	return nil
}
