package faculty

import (
	"time"

	"tcetCapture/services/media"
)

type Member struct {
	ID          string          `json:"id" firestore:"-"`
	Name        string          `json:"name" firestore:"name"`
	Role        string          `json:"role" firestore:"role"`
	Description string          `json:"description" firestore:"description"`
	ImageURL    string          `json:"imageUrl" firestore:"imageUrl"`
	Image       *media.ImageRef `json:"image,omitempty" firestore:"image,omitempty"`
	CreatedAt   time.Time       `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time       `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

func (m *Member) SetID(id string) {
	m.ID = id
}

type Draft struct {
	Name        string
	Role        string
	Description string
	ImageURL    string
	Image       *media.File
}

// Patch holds the fields sent with an update. Nil means the field was absent.
type Patch struct {
	Name        *string
	Role        *string
	Description *string
	Image       *media.File
}

type fields struct {
	Name        *string         `structs:"name,omitempty,omitnested"`
	Role        *string         `structs:"role,omitempty,omitnested"`
	Description *string         `structs:"description,omitempty,omitnested"`
	ImageURL    *string         `structs:"imageUrl,omitempty,omitnested"`
	Image       *media.ImageRef `structs:"image,omitempty,omitnested"`
}
