package utils

import (
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
)

type testPatch struct {
	Name *string   `structs:"name,omitempty,omitnested"`
	Tags *[]string `structs:"tags,omitempty,omitnested"`
	Year *string   `structs:"year,omitempty,omitnested"`
}

func TestUpdates(t *testing.T) {
	name := "Photo Walk"
	empty := []string{}

	updates := Updates(testPatch{Name: &name, Tags: &empty})

	assert.Equal(t, []firestore.Update{
		{Path: "name", Value: &name},
		{Path: "tags", Value: &empty},
	}, updates)
}

func TestUpdatesEmptyPatch(t *testing.T) {
	assert.Empty(t, Updates(testPatch{}))
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, NonNil[string](nil))
	assert.Equal(t, []string{"a"}, NonNil([]string{"a"}))
}
