package media

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tcetCapture/api"
	"tcetCapture/clients/cloudinary"
)

const (
	rootFolder = "tcet-capture"
	// Fit inside 1200x800 without upscaling, then let Cloudinary pick the quality.
	transformation = "c_limit,h_800,w_1200/q_auto"
)

// ImageHost is the primary image service.
type ImageHost interface {
	Upload(ctx context.Context, params cloudinary.UploadParams, fileName string, data []byte) (*cloudinary.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// BlobStore is the fallback used when the image host cannot take an upload.
type BlobStore interface {
	Put(ctx context.Context, objectName, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, objectName string) error
}

type Service interface {
	// Upload stores file under folder and returns where it ended up. Files over
	// MaxUploadSize are rejected with a validation error.
	Upload(ctx context.Context, folder Folder, file File) (*ImageRef, error)
	// Delete removes the referenced image. External refs are left alone.
	// Failures are logged, never returned.
	Delete(ctx context.Context, ref *ImageRef)
}

type service struct {
	host  ImageHost
	blobs BlobStore
	newID func() string
}

var _ Service = (*service)(nil)

// NewService creates the upload adapter. blobs may be nil when no fallback bucket is configured.
func NewService(host ImageHost, blobs BlobStore) Service {
	return &service{
		host:  host,
		blobs: blobs,
		newID: func() string { return uuid.NewString() },
	}
}

var ErrFileTooLarge = api.NewValidationError(
	"File too large",
	"The uploaded file exceeds the 20MB limit. Please compress your images or use smaller files.",
)

func CheckSize(size int64) error {
	if size > MaxUploadSize {
		return ErrFileTooLarge
	}
	return nil
}

func (s *service) Upload(ctx context.Context, folder Folder, file File) (*ImageRef, error) {
	if err := CheckSize(int64(len(file.Data))); err != nil {
		return nil, err
	}
	id := s.newID()
	name := path.Base(file.Name)

	ref, err := s.uploadToHost(ctx, folder, id, name, file)
	if err == nil {
		log.Info().Str("url", ref.URL).Msg("Image uploaded to Cloudinary")
		return ref, nil
	}
	log.Error().Err(err).Str("folder", string(folder)).Msg("Error uploading to Cloudinary")

	if s.blobs == nil {
		return nil, api.NewUploadError("Failed to upload image", err)
	}
	objectName := fmt.Sprintf("%s/%s_%s", folder, id, name)
	u, storageErr := s.blobs.Put(ctx, objectName, file.ContentType, file.Data)
	if storageErr != nil {
		log.Error().Err(storageErr).Str("object", objectName).Msg("Error uploading to storage bucket")
		return nil, api.NewUploadError("Failed to upload image", err)
	}
	log.Info().Str("url", u).Msg("Image uploaded to storage bucket")
	return &ImageRef{Provider: ProviderStorage, Path: objectName, URL: u}, nil
}

func (s *service) uploadToHost(ctx context.Context, folder Folder, id, name string, file File) (*ImageRef, error) {
	if s.host == nil {
		return nil, cloudinary.ErrNotConfigured
	}
	res, err := s.host.Upload(ctx, cloudinary.UploadParams{
		Folder:         rootFolder + "/" + string(folder),
		PublicID:       id + "_" + strings.TrimSuffix(name, path.Ext(name)),
		Transformation: transformation,
	}, name, file.Data)
	if err != nil {
		return nil, err
	}
	return &ImageRef{Provider: ProviderCloudinary, Path: res.PublicID, URL: res.SecureURL}, nil
}

func (s *service) Delete(ctx context.Context, ref *ImageRef) {
	if ref == nil || ref.Provider == ProviderExternal || ref.Path == "" {
		return
	}
	var err error
	switch ref.Provider {
	case ProviderCloudinary:
		if s.host == nil {
			err = cloudinary.ErrNotConfigured
			break
		}
		err = s.host.Destroy(ctx, ref.Path)
	case ProviderStorage:
		if s.blobs == nil {
			err = fmt.Errorf("no storage bucket configured")
			break
		}
		err = s.blobs.Delete(ctx, ref.Path)
	default:
		err = fmt.Errorf("unknown image provider %q", ref.Provider)
	}
	if err != nil {
		log.Error().Err(err).Str("provider", string(ref.Provider)).Str("path", ref.Path).Msg("Error deleting image")
		return
	}
	log.Info().Str("provider", string(ref.Provider)).Str("path", ref.Path).Msg("Image deleted")
}

var (
	versionSegment        = regexp.MustCompile(`^v\d+$`)
	// c_limit,h_800,w_1200 or q_auto: comma separated <param>_<value> pairs.
	transformationSegment = regexp.MustCompile(`^[a-z]{1,3}_[^,/]+(,[a-z]{1,3}_[^,/]+)*$`)
)

// LegacyRef recovers a reference for documents stored before refs were recorded.
// Every URL written since carries a ref, client supplied ones marked external, so
// this is only reached for those older documents. It returns nil for URLs that
// are not on Cloudinary or the storage bucket.
func LegacyRef(rawURL string) *ImageRef {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch {
	case u.Host == cloudinary.Host:
		// /<cloud>/image/upload/[transformations/][v123/]<public id>.<ext>
		i := indexOf(segments, "upload")
		if i < 0 || i == len(segments)-1 {
			return nil
		}
		rest := segments[i+1:]
		versioned := false
		for j, seg := range rest {
			if versionSegment.MatchString(seg) {
				rest = rest[j+1:]
				versioned = true
				break
			}
		}
		// Without a version segment, transformations come straight before the public id.
		for !versioned && len(rest) > 1 && transformationSegment.MatchString(rest[0]) {
			rest = rest[1:]
		}
		publicID := strings.Join(rest, "/")
		publicID = strings.TrimSuffix(publicID, path.Ext(publicID))
		if publicID == "" {
			return nil
		}
		return &ImageRef{Provider: ProviderCloudinary, Path: publicID, URL: rawURL}
	case u.Host == "storage.googleapis.com":
		// /<bucket>/<object>
		if len(segments) < 2 {
			return nil
		}
		return &ImageRef{Provider: ProviderStorage, Path: strings.Join(segments[1:], "/"), URL: rawURL}
	}
	return nil
}

// RefOrLegacy returns ref when present, otherwise whatever can be recovered from rawURL.
func RefOrLegacy(ref *ImageRef, rawURL string) *ImageRef {
	if ref != nil {
		return ref
	}
	return LegacyRef(rawURL)
}

func indexOf(items []string, target string) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return -1
}
