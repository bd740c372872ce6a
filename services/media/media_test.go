package media

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcetCapture/api"
	"tcetCapture/clients/cloudinary"
)

type fakeHost struct {
	err       error
	uploads   []cloudinary.UploadParams
	destroyed []string
}

func (f *fakeHost) Upload(_ context.Context, params cloudinary.UploadParams, fileName string, data []byte) (*cloudinary.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploads = append(f.uploads, params)
	id := params.Folder + "/" + params.PublicID
	return &cloudinary.UploadResult{
		PublicID:  id,
		SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/" + id + ".jpg",
	}, nil
}

func (f *fakeHost) Destroy(_ context.Context, publicID string) error {
	f.destroyed = append(f.destroyed, publicID)
	return f.err
}

type fakeBlobs struct {
	err     error
	objects map[string][]byte
	deleted []string
}

func (f *fakeBlobs) Put(_ context.Context, objectName, _ string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[objectName] = data
	return "https://storage.googleapis.com/bucket/" + objectName, nil
}

func (f *fakeBlobs) Delete(_ context.Context, objectName string) error {
	f.deleted = append(f.deleted, objectName)
	return f.err
}

func newTestService(host ImageHost, blobs BlobStore) *service {
	s := NewService(host, blobs).(*service)
	s.newID = func() string { return "abc" }
	return s
}

func TestUploadToImageHost(t *testing.T) {
	host := &fakeHost{}
	s := newTestService(host, nil)

	ref, err := s.Upload(context.Background(), Events, File{Name: "photo.walk.jpg", ContentType: "image/jpeg", Data: []byte("x")})
	require.NoError(t, err)

	assert.Equal(t, ProviderCloudinary, ref.Provider)
	assert.Equal(t, "tcet-capture/events/abc_photo.walk", ref.Path)
	require.Len(t, host.uploads, 1)
	assert.Equal(t, "tcet-capture/events", host.uploads[0].Folder)
	assert.Equal(t, "c_limit,h_800,w_1200/q_auto", host.uploads[0].Transformation)
}

func TestUploadFallsBackToBlobStore(t *testing.T) {
	blobs := &fakeBlobs{}
	s := newTestService(&fakeHost{err: errors.New("cloudinary down")}, blobs)

	ref, err := s.Upload(context.Background(), Teams, File{Name: "team.png", ContentType: "image/png", Data: []byte("png")})
	require.NoError(t, err)

	assert.Equal(t, &ImageRef{
		Provider: ProviderStorage,
		Path:     "teams/abc_team.png",
		URL:      "https://storage.googleapis.com/bucket/teams/abc_team.png",
	}, ref)
	assert.Equal(t, []byte("png"), blobs.objects["teams/abc_team.png"])
}

func TestUploadWithoutHostUsesBlobStore(t *testing.T) {
	s := newTestService(nil, &fakeBlobs{})

	ref, err := s.Upload(context.Background(), Faculty, File{Name: "dr.jpg", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, ProviderStorage, ref.Provider)
}

func TestUploadFailsWhenNothingAccepts(t *testing.T) {
	tests := []struct {
		name  string
		blobs BlobStore
	}{
		{"no fallback", nil},
		{"fallback fails", &fakeBlobs{err: errors.New("permission denied")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(&fakeHost{err: errors.New("Invalid Signature")}, tt.blobs)

			_, err := s.Upload(context.Background(), Events, File{Name: "a.jpg", Data: []byte("x")})
			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, api.KindUpload, apiErr.Kind)
			assert.Equal(t, "Invalid Signature", apiErr.Details)
		})
	}
}

func TestUploadSizeBoundary(t *testing.T) {
	host := &fakeHost{}
	s := newTestService(host, nil)

	_, err := s.Upload(context.Background(), Events, File{Name: "max.jpg", Data: bytes.Repeat([]byte{1}, MaxUploadSize)})
	assert.NoError(t, err)

	_, err = s.Upload(context.Background(), Events, File{Name: "big.jpg", Data: bytes.Repeat([]byte{1}, MaxUploadSize+1)})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Len(t, host.uploads, 1)
}

func TestDelete(t *testing.T) {
	host := &fakeHost{}
	blobs := &fakeBlobs{}
	s := newTestService(host, blobs)

	s.Delete(context.Background(), &ImageRef{Provider: ProviderCloudinary, Path: "tcet-capture/events/a"})
	s.Delete(context.Background(), &ImageRef{Provider: ProviderStorage, Path: "events/b.jpg"})
	s.Delete(context.Background(), nil)
	s.Delete(context.Background(), &ImageRef{Provider: "unknown", Path: "c"})

	assert.Equal(t, []string{"tcet-capture/events/a"}, host.destroyed)
	assert.Equal(t, []string{"events/b.jpg"}, blobs.deleted)
}

func TestDeleteLeavesExternalImages(t *testing.T) {
	host := &fakeHost{}
	blobs := &fakeBlobs{}
	s := newTestService(host, blobs)

	shared := "https://res.cloudinary.com/demo/image/upload/v1/tcet-capture/events/shared_banner.jpg"
	s.Delete(context.Background(), External(shared))
	s.Delete(context.Background(), RefOrLegacy(External(shared), shared))
	s.Delete(context.Background(), &ImageRef{Provider: ProviderExternal, Path: "tcet-capture/events/shared_banner", URL: shared})

	assert.Empty(t, host.destroyed)
	assert.Empty(t, blobs.deleted)
}

func TestExternal(t *testing.T) {
	assert.Nil(t, External(""))

	ref := External("https://example.com/a.jpg")
	assert.Equal(t, &ImageRef{Provider: ProviderExternal, URL: "https://example.com/a.jpg"}, ref)
	assert.False(t, ref.Uploaded())
	assert.True(t, (&ImageRef{Provider: ProviderStorage, Path: "x"}).Uploaded())
	assert.False(t, (*ImageRef)(nil).Uploaded())
}

func TestDeleteSwallowsErrors(t *testing.T) {
	s := newTestService(&fakeHost{err: errors.New("boom")}, nil)

	assert.NotPanics(t, func() {
		s.Delete(context.Background(), &ImageRef{Provider: ProviderCloudinary, Path: "x"})
		s.Delete(context.Background(), &ImageRef{Provider: ProviderStorage, Path: "y"})
	})
}

func TestLegacyRef(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want *ImageRef
	}{
		{
			name: "cloudinary with version",
			url:  "https://res.cloudinary.com/demo/image/upload/v1712345/tcet-capture/events/abc_photo.jpg",
			want: &ImageRef{Provider: ProviderCloudinary, Path: "tcet-capture/events/abc_photo"},
		},
		{
			name: "cloudinary transformation without version",
			url:  "https://res.cloudinary.com/demo/image/upload/c_limit,h_800,w_1200/q_auto/tcet-capture/events/abc_photo.jpg",
			want: &ImageRef{Provider: ProviderCloudinary, Path: "tcet-capture/events/abc_photo"},
		},
		{
			name: "cloudinary transformation before version",
			url:  "https://res.cloudinary.com/demo/image/upload/c_limit,w_1200/v1712345/tcet-capture/faculty/abc_dr.png",
			want: &ImageRef{Provider: ProviderCloudinary, Path: "tcet-capture/faculty/abc_dr"},
		},
		{
			name: "cloudinary without version or transformation",
			url:  "https://res.cloudinary.com/demo/image/upload/tcet-capture/teams/abc_team.jpg",
			want: &ImageRef{Provider: ProviderCloudinary, Path: "tcet-capture/teams/abc_team"},
		},
		{
			name: "storage bucket",
			url:  "https://storage.googleapis.com/capture.appspot.com/events/abc_photo.jpg",
			want: &ImageRef{Provider: ProviderStorage, Path: "events/abc_photo.jpg"},
		},
		{name: "placeholder", url: "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=200"},
		{name: "empty", url: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LegacyRef(tt.url)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Provider, got.Provider)
			assert.Equal(t, tt.want.Path, got.Path)
			assert.Equal(t, tt.url, got.URL)
		})
	}
}
