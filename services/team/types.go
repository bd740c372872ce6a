package team

import (
	"time"

	"tcetCapture/services/media"
)

// PlaceholderPhoto is shown for leads that never had a photo uploaded.
const PlaceholderPhoto = "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=200"

type Lead struct {
	Name     string          `json:"name" firestore:"name"`
	Role     string          `json:"role" firestore:"role"`
	Photo    string          `json:"photo" firestore:"photo"`
	PhotoRef *media.ImageRef `json:"photoRef,omitempty" firestore:"photoRef,omitempty"`
}

type Team struct {
	ID           string          `json:"id" firestore:"-"`
	Year         string          `json:"year" firestore:"year"`
	TeamPhoto    string          `json:"teamPhoto" firestore:"teamPhoto"`
	TeamPhotoRef *media.ImageRef `json:"teamPhotoRef,omitempty" firestore:"teamPhotoRef,omitempty"`
	Leads        []Lead          `json:"leads" firestore:"leads"`
	CreatedAt    time.Time       `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt    time.Time       `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

func (t *Team) SetID(id string) {
	t.ID = id
}

// LeadInput is a lead as submitted by the admin form. PhotoKey names the
// multipart file carrying its new photo. HasNewPhoto without a key is the older
// form, where files are matched to flagged leads in submission order.
type LeadInput struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Photo       string `json:"photo"`
	PhotoKey    string `json:"photoKey,omitempty"`
	HasNewPhoto bool   `json:"hasNewPhoto,omitempty"`
}

// LeadPhotos are the lead photo files of one request.
type LeadPhotos struct {
	Keyed   map[string]media.File
	Ordered []media.File
}

type Draft struct {
	Year       string
	Leads      []LeadInput
	TeamPhoto  *media.File
	LeadPhotos LeadPhotos
}

// Patch holds the fields sent with an update. Nil means the field was absent.
type Patch struct {
	Year       *string
	Leads      *[]LeadInput
	TeamPhoto  *media.File
	LeadPhotos LeadPhotos
}

type fields struct {
	Year         *string         `structs:"year,omitempty,omitnested"`
	TeamPhoto    *string         `structs:"teamPhoto,omitempty,omitnested"`
	TeamPhotoRef *media.ImageRef `structs:"teamPhotoRef,omitempty,omitnested"`
	Leads        *[]Lead         `structs:"leads,omitempty,omitnested"`
}
