package team

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
	deleted []*media.ImageRef
}

func (f *fakeMedia) Upload(_ context.Context, folder media.Folder, file media.File) (*media.ImageRef, error) {
	path := string(folder) + "/" + uuid.NewString() + "_" + file.Name
	return &media.ImageRef{Provider: media.ProviderStorage, Path: path, URL: "https://storage.googleapis.com/test/" + path}, nil
}

func (f *fakeMedia) Delete(_ context.Context, ref *media.ImageRef) {
	f.deleted = append(f.deleted, ref)
}

func setupTeamService(t *testing.T) (Service, *fakeMedia) {
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
	return NewTeamService(client, m), m
}

func TestCreateRequiresYear(t *testing.T) {
	s := &teamService{media: &fakeMedia{}}

	_, err := s.Create(context.Background(), Draft{Year: "  "})
	assert.ErrorIs(t, err, ErrYearRequired)
}

func TestCreateWithPlaceholderLead(t *testing.T) {
	s, _ := setupTeamService(t)

	created, err := s.Create(context.Background(), Draft{
		Year:  "2024-25",
		Leads: []LeadInput{{Name: "Asha", Role: "Head", HasNewPhoto: false}},
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-25", created.Year)
	require.Len(t, created.Leads, 1)
	assert.Equal(t, PlaceholderPhoto, created.Leads[0].Photo)
	assert.Equal(t, "", created.TeamPhoto)
}

func TestCreateWithoutLeadsStoresEmptyArray(t *testing.T) {
	s, _ := setupTeamService(t)

	created, err := s.Create(context.Background(), Draft{Year: "2019-20"})
	require.NoError(t, err)
	assert.Equal(t, []Lead{}, created.Leads)
}

func TestUpdateReplacesPhotos(t *testing.T) {
	s, m := setupTeamService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, Draft{
		Year:      "2023-24",
		TeamPhoto: &media.File{Name: "team.jpg"},
		Leads: []LeadInput{
			{Name: "A", PhotoKey: "a"},
			{Name: "B", PhotoKey: "b"},
		},
		LeadPhotos: LeadPhotos{Keyed: map[string]media.File{"a": {Name: "a.jpg"}, "b": {Name: "b.jpg"}}},
	})
	require.NoError(t, err)
	require.Len(t, created.Leads, 2)

	leads := []LeadInput{
		{Name: "A", Photo: created.Leads[0].Photo},
		{Name: "C", PhotoKey: "c"},
	}
	updated, err := s.Update(ctx, created.ID, Patch{
		Leads:      &leads,
		TeamPhoto:  &media.File{Name: "team2.jpg"},
		LeadPhotos: LeadPhotos{Keyed: map[string]media.File{"c": {Name: "c.jpg"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "2023-24", updated.Year)
	assert.Equal(t, created.Leads[0].PhotoRef, updated.Leads[0].PhotoRef)
	assert.Contains(t, updated.Leads[1].Photo, "c.jpg")
	assert.NotEqual(t, created.TeamPhoto, updated.TeamPhoto)

	paths := make([]string, len(m.deleted))
	for i, ref := range m.deleted {
		paths[i] = ref.Path
	}
	assert.ElementsMatch(t, []string{created.Leads[1].PhotoRef.Path, created.TeamPhotoRef.Path}, paths)
}

func TestUpdateWithoutLeadsKeepsThem(t *testing.T) {
	s, m := setupTeamService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, Draft{Year: "2022-23", Leads: []LeadInput{{Name: "A"}}})
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, Patch{Year: utils.ToPointer("2022-2023")})
	require.NoError(t, err)
	assert.Equal(t, "2022-2023", updated.Year)
	assert.Equal(t, created.Leads, updated.Leads)
	assert.Empty(t, m.deleted)
}

func TestDeleteRemovesAllPhotos(t *testing.T) {
	s, m := setupTeamService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, Draft{
		Year:       "2021-22",
		TeamPhoto:  &media.File{Name: "team.jpg"},
		Leads:      []LeadInput{{Name: "A", PhotoKey: "a"}, {Name: "B"}},
		LeadPhotos: LeadPhotos{Keyed: map[string]media.File{"a": {Name: "a.jpg"}}},
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	var paths []string
	for _, ref := range m.deleted {
		paths = append(paths, ref.Path)
	}
	assert.ElementsMatch(t, []string{created.TeamPhotoRef.Path, created.Leads[0].PhotoRef.Path}, paths)

	_, err = s.Get(ctx, created.ID)
	assert.ErrorIs(t, err, NotFound)
}

func TestDeleteLeavesBorrowedLeadPhotos(t *testing.T) {
	s, m := setupTeamService(t)
	ctx := context.Background()

	shared := "https://storage.googleapis.com/capture.appspot.com/teams/shared_logo.jpg"
	created, err := s.Create(ctx, Draft{Year: "2020-21", Leads: []LeadInput{{Name: "A", Photo: shared}}})
	require.NoError(t, err)
	require.NotNil(t, created.Leads[0].PhotoRef)
	assert.Equal(t, media.ProviderExternal, created.Leads[0].PhotoRef.Provider)

	require.NoError(t, s.Delete(ctx, created.ID))
	assert.Empty(t, m.deleted)
}
