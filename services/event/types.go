package event

import (
	"time"

	"tcetCapture/services/media"
	"tcetCapture/utils"
)

type Event struct {
	ID             string          `json:"id" firestore:"-"`
	EventName      string          `json:"eventName" firestore:"eventName"`
	OrganizingClub string          `json:"organizingClub" firestore:"organizingClub"`
	ImageURL       string          `json:"imageUrl" firestore:"imageUrl"`
	Image          *media.ImageRef `json:"image,omitempty" firestore:"image,omitempty"`
	ViewPhotosLink string          `json:"viewPhotosLink" firestore:"viewPhotosLink"`
	WorksLink      string          `json:"worksLink" firestore:"worksLink"`
	Tags           []string        `json:"tags" firestore:"tags"`
	EventTypes     []string        `json:"eventTypes" firestore:"eventTypes"`
	EventDate      *time.Time      `json:"eventDate" firestore:"eventDate"`
	CreatedAt      time.Time       `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt      time.Time       `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// stored mirrors Event as read back from Firestore, where tags may still hold
// legacy {type, value} objects.
type stored struct {
	ID             string          `firestore:"-"`
	EventName      string          `firestore:"eventName"`
	OrganizingClub string          `firestore:"organizingClub"`
	ImageURL       string          `firestore:"imageUrl"`
	Image          *media.ImageRef `firestore:"image"`
	ViewPhotosLink string          `firestore:"viewPhotosLink"`
	WorksLink      string          `firestore:"worksLink"`
	Tags           []any           `firestore:"tags"`
	EventTypes     []any           `firestore:"eventTypes"`
	EventDate      *time.Time      `firestore:"eventDate"`
	CreatedAt      time.Time       `firestore:"createdAt"`
	UpdatedAt      time.Time       `firestore:"updatedAt"`
}

func (s *stored) SetID(id string) {
	s.ID = id
}

func (s stored) toEvent() Event {
	return Event{
		ID:             s.ID,
		EventName:      s.EventName,
		OrganizingClub: s.OrganizingClub,
		ImageURL:       s.ImageURL,
		Image:          s.Image,
		ViewPhotosLink: s.ViewPhotosLink,
		WorksLink:      s.WorksLink,
		Tags:           utils.NormalizeStrings(s.Tags),
		EventTypes:     utils.NormalizeStrings(s.EventTypes),
		EventDate:      s.EventDate,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// Draft is the input for a new event. Image, when set, replaces ImageURL.
type Draft struct {
	EventName      string
	OrganizingClub string
	ImageURL       string
	ViewPhotosLink string
	WorksLink      string
	Tags           []string
	EventTypes     []string
	EventDate      *time.Time
	Image          *media.File
}

// Patch holds the fields sent with an update. Nil means the field was absent.
// The image URL only changes through a new Image.
type Patch struct {
	EventName      *string
	OrganizingClub *string
	ViewPhotosLink *string
	WorksLink      *string
	Tags           *[]string
	EventTypes     *[]string
	// EventDateSet distinguishes clearing the date (nil EventDate) from leaving it alone.
	EventDateSet bool
	EventDate    *time.Time
	Image        *media.File
}

type fields struct {
	EventName      *string         `structs:"eventName,omitempty,omitnested"`
	OrganizingClub *string         `structs:"organizingClub,omitempty,omitnested"`
	ImageURL       *string         `structs:"imageUrl,omitempty,omitnested"`
	Image          *media.ImageRef `structs:"image,omitempty,omitnested"`
	ViewPhotosLink *string         `structs:"viewPhotosLink,omitempty,omitnested"`
	WorksLink      *string         `structs:"worksLink,omitempty,omitnested"`
	Tags           *[]string       `structs:"tags,omitempty,omitnested"`
	EventTypes     *[]string       `structs:"eventTypes,omitempty,omitnested"`
}
