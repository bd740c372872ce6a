package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	b := NewBucket(nil, "capture.appspot.com")
	assert.Equal(t, "https://storage.googleapis.com/capture.appspot.com/events/abc_photo.jpg", b.PublicURL("events/abc_photo.jpg"))
}
