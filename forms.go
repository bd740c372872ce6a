package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"tcetCapture/api"
	"tcetCapture/services/media"
	"tcetCapture/services/team"
	"tcetCapture/utils"
)

const (
	leadPhotoPrefix = "leadPhoto."
	maxLeadPhotos   = 10
)

// fileLimits names the file fields a route accepts and how many files each may carry.
type fileLimits struct {
	fields map[string]int
	// keyedLeads admits leadPhoto.<key> fields, one file each.
	keyedLeads bool
}

var (
	imageFiles = fileLimits{fields: map[string]int{"image": 1}}
	teamFiles  = fileLimits{fields: map[string]int{"teamPhoto": 1, "leadPhotos": maxLeadPhotos}, keyedLeads: true}
)

func (l fileLimits) check(files map[string][]*multipart.FileHeader) error {
	leads := 0
	for field, headers := range files {
		limit, ok := l.fields[field]
		keyed := l.keyedLeads && strings.HasPrefix(field, leadPhotoPrefix) && len(field) > len(leadPhotoPrefix)
		if keyed {
			limit, ok = 1, true
		}
		if !ok {
			return api.NewValidationError("File upload error", "unexpected file field "+field)
		}
		if len(headers) > limit {
			return api.NewValidationError("File upload error", fmt.Sprintf("too many files for %s, at most %d", field, limit))
		}
		if keyed || field == "leadPhotos" {
			leads += len(headers)
		}
	}
	if leads > maxLeadPhotos {
		return api.NewValidationError("File upload error", fmt.Sprintf("too many lead photos, at most %d", maxLeadPhotos))
	}
	return nil
}

// formFiles holds every file of a request, read and checked up front so a
// bad upload is rejected before anything is written.
type formFiles map[string][]media.File

func readFormFiles(c *gin.Context, limits fileLimits) (formFiles, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return formFiles{}, nil
	}
	if err != nil {
		return nil, api.NewValidationError("File upload error", err.Error())
	}

	if err := limits.check(form.File); err != nil {
		return nil, err
	}
	for _, headers := range form.File {
		for _, fh := range headers {
			if err := media.CheckSize(fh.Size); err != nil {
				return nil, err
			}
		}
	}

	files := formFiles{}
	for field, headers := range form.File {
		for _, fh := range headers {
			file, err := readFile(fh)
			if err != nil {
				return nil, err
			}
			files[field] = append(files[field], file)
		}
	}
	return files, nil
}

func readFile(fh *multipart.FileHeader) (media.File, error) {
	f, err := fh.Open()
	if err != nil {
		return media.File{}, api.NewValidationError("File upload error", err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return media.File{}, api.NewValidationError("File upload error", err.Error())
	}
	return media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// single returns the first file sent under field, or nil.
func (f formFiles) single(field string) *media.File {
	if files := f[field]; len(files) > 0 {
		return &files[0]
	}
	return nil
}

func (f formFiles) leadPhotos() team.LeadPhotos {
	photos := team.LeadPhotos{
		Keyed:   map[string]media.File{},
		Ordered: f["leadPhotos"],
	}
	for field, files := range f {
		key, ok := strings.CutPrefix(field, leadPhotoPrefix)
		if ok && key != "" && len(files) > 0 {
			photos.Keyed[key] = files[0]
		}
	}
	return photos
}

// optional returns the form value for key, or nil when the key was not sent.
func optional(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

// stringList decodes a JSON array form field. Elements may be plain strings or
// legacy {type, value} objects. Nil means the field was not sent.
func (s *Server) stringList(c *gin.Context, key string) (*[]string, error) {
	raw, ok := c.GetPostForm(key)
	if !ok {
		return nil, nil
	}
	if strings.TrimSpace(raw) == "" {
		return utils.ToPointer([]string{}), nil
	}
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		if s.LenientArrays {
			log.Warn().Err(err).Str("field", key).Msg("Malformed list, using empty list")
			return utils.ToPointer([]string{}), nil
		}
		return nil, api.NewValidationError("Invalid "+key+" data format", err.Error())
	}
	return utils.ToPointer(utils.NormalizeStrings(items)), nil
}

// leadList decodes the leads JSON array. Nil means the field was not sent.
func leadList(c *gin.Context) (*[]team.LeadInput, error) {
	raw, ok := c.GetPostForm("leads")
	if !ok {
		return nil, nil
	}
	leads := []team.LeadInput{}
	if strings.TrimSpace(raw) == "" {
		return &leads, nil
	}
	if err := json.Unmarshal([]byte(raw), &leads); err != nil {
		return nil, api.NewValidationError("Invalid leads data format", err.Error())
	}
	return &leads, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// eventDate parses the eventDate field. An empty value clears the date; set
// reports whether the field was sent at all.
func eventDate(c *gin.Context) (date *time.Time, set bool, err error) {
	raw, ok := c.GetPostForm("eventDate")
	if !ok {
		return nil, false, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, true, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, true, nil
		}
	}
	return nil, true, api.NewValidationError("Invalid eventDate", "expected an RFC 3339 timestamp or YYYY-MM-DD date")
}

func deref[T any](p *[]T) []T {
	if p == nil {
		return nil
	}
	return *p
}
