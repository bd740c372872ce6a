package media

// Provider names the service an image was stored with.
type Provider string

const (
	ProviderCloudinary Provider = "cloudinary"
	ProviderStorage    Provider = "storage"
	// ProviderExternal marks a URL a client supplied. It is never deleted.
	ProviderExternal Provider = "external"
)

// ImageRef locates an uploaded image. Path is the Cloudinary public id or the
// object name in the storage bucket.
type ImageRef struct {
	Provider Provider `json:"provider" firestore:"provider"`
	Path     string   `json:"path" firestore:"path"`
	URL      string   `json:"url" firestore:"url"`
}

// External records a client supplied URL so it is never taken for an upload.
func External(rawURL string) *ImageRef {
	if rawURL == "" {
		return nil
	}
	return &ImageRef{Provider: ProviderExternal, URL: rawURL}
}

// Uploaded reports whether the image was stored by this service.
func (r *ImageRef) Uploaded() bool {
	return r != nil && (r.Provider == ProviderCloudinary || r.Provider == ProviderStorage)
}

// Folder groups uploads per collection.
type Folder string

const (
	Events  Folder = "events"
	Faculty Folder = "faculty"
	Teams   Folder = "teams"
)

// File is an upload held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// MaxUploadSize is the largest accepted file, inclusive.
const MaxUploadSize = 20 << 20
