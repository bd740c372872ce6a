package faculty

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcetCapture/services/media"
	"tcetCapture/utils"
)

type fakeMedia struct {
	uploads int
	deleted []*media.ImageRef
}

func (f *fakeMedia) Upload(_ context.Context, folder media.Folder, file media.File) (*media.ImageRef, error) {
	f.uploads++
	path := string(folder) + "/" + uuid.NewString() + "_" + file.Name
	return &media.ImageRef{Provider: media.ProviderCloudinary, Path: path, URL: "https://res.cloudinary.com/demo/image/upload/v1/" + path}, nil
}

func (f *fakeMedia) Delete(_ context.Context, ref *media.ImageRef) {
	if ref != nil {
		f.deleted = append(f.deleted, ref)
	}
}

func setupFacultyService(t *testing.T) (Service, *fakeMedia) {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("skipping: FIRESTORE_EMULATOR_HOST is not set")
	}
	client, err := firestore.NewClient(context.Background(), "capture-test")
	if err != nil {
		t.Skipf("skipping: cannot connect to firestore emulator: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	m := &fakeMedia{}
	return NewFacultyService(client, m), m
}

func TestCreateRequiresNameAndRole(t *testing.T) {
	m := &fakeMedia{}
	s := &facultyService{media: m}

	tests := []struct {
		name  string
		draft Draft
	}{
		{"missing name", Draft{Role: "HOD"}},
		{"missing role", Draft{Name: "Dr. Rao"}},
		{"markup only", Draft{Name: "<br>", Role: "HOD"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.draft.Image = &media.File{Name: "a.jpg", Data: []byte("1")}
			_, err := s.Create(context.Background(), tt.draft)
			assert.ErrorIs(t, err, ErrNameRequired)
		})
	}
	assert.Zero(t, m.uploads)
}

func TestCreateUpdateDelete(t *testing.T) {
	s, m := setupFacultyService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, Draft{Name: "Dr. Rao", Role: "Faculty Coordinator", Image: &media.File{Name: "rao.jpg", Data: []byte("1")}})
	require.NoError(t, err)
	assert.Equal(t, "", created.Description)
	require.NotNil(t, created.Image)

	updated, err := s.Update(ctx, created.ID, Patch{Description: utils.ToPointer("Mentor since 2019")})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", updated.Name)
	assert.Equal(t, "Mentor since 2019", updated.Description)
	assert.Equal(t, created.ImageURL, updated.ImageURL)
	assert.Empty(t, m.deleted)

	_, err = s.Update(ctx, created.ID, Patch{Name: utils.ToPointer("")})
	assert.ErrorIs(t, err, ErrNameRequired)

	require.NoError(t, s.Delete(ctx, created.ID))
	require.Len(t, m.deleted, 1)
	assert.Equal(t, created.Image.Path, m.deleted[0].Path)

	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, NotFound)
}

func TestClientImageURLIsNeverDeleted(t *testing.T) {
	s, m := setupFacultyService(t)
	ctx := context.Background()

	shared := "https://storage.googleapis.com/capture.appspot.com/faculty/shared_rao.jpg"
	created, err := s.Create(ctx, Draft{Name: "Dr. Rao", Role: "HOD", ImageURL: shared})
	require.NoError(t, err)
	require.NotNil(t, created.Image)
	assert.Equal(t, media.ProviderExternal, created.Image.Provider)

	require.NoError(t, s.Delete(ctx, created.ID))
	require.Len(t, m.deleted, 1)
	assert.False(t, m.deleted[0].Uploaded())
	assert.Equal(t, shared, m.deleted[0].URL)
}

func TestListIncludesCreated(t *testing.T) {
	s, _ := setupFacultyService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, Draft{Name: "Prof. Iyer", Role: "Advisor"})
	require.NoError(t, err)

	members, err := s.List(ctx)
	require.NoError(t, err)
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	assert.Contains(t, ids, created.ID)
}
