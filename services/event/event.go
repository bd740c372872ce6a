package event

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"

	"tcetCapture/api"
	"tcetCapture/services/media"
	"tcetCapture/set"
	"tcetCapture/utils"
)

type Service interface {
	// List returns every event, newest first.
	List(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, ID string) (*Event, error)
	Create(ctx context.Context, draft Draft) (*Event, error)
	// Update applies the fields present in patch. A new image replaces the old
	// one, which is removed from its provider once the document is written.
	Update(ctx context.Context, ID string, patch Patch) (*Event, error)
	Delete(ctx context.Context, ID string) error
}

type eventService struct {
	db    *firestore.Client
	media media.Service
}

var _ Service = (*eventService)(nil)

const eventCollection = "events"

func NewEventService(client *firestore.Client, mediaService media.Service) Service {
	return &eventService{
		db:    client,
		media: mediaService,
	}
}

var NotFound = api.NewNotFoundError("Event not found")

func (s *eventService) List(ctx context.Context) ([]Event, error) {
	docs, err := utils.ListOrdered(ctx, s.db.Collection(eventCollection), "createdAt", firestore.Desc)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	records, err := utils.GetAllToStructs[stored](docs)
	if err != nil {
		return nil, err
	}
	events := make([]Event, len(records))
	for i, r := range records {
		events[i] = r.toEvent()
	}
	return events, nil
}

func (s *eventService) Get(ctx context.Context, ID string) (*Event, error) {
	doc, err := s.db.Collection(eventCollection).Doc(ID).Get(ctx)
	if utils.IsNotFound(err) {
		return nil, NotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", ID, err)
	}
	r, err := utils.DocToStruct[stored](doc)
	if err != nil {
		return nil, err
	}
	e := r.toEvent()
	return &e, nil
}

func (s *eventService) Create(ctx context.Context, draft Draft) (*Event, error) {
	e := Event{
		EventName:      utils.StripTags(draft.EventName),
		OrganizingClub: utils.StripTags(draft.OrganizingClub),
		ImageURL:       draft.ImageURL,
		Image:          media.External(draft.ImageURL),
		ViewPhotosLink: draft.ViewPhotosLink,
		WorksLink:      draft.WorksLink,
		Tags:           cleanList(draft.Tags),
		EventTypes:     cleanList(draft.EventTypes),
		EventDate:      draft.EventDate,
	}
	if draft.Image != nil {
		ref, err := s.media.Upload(ctx, media.Events, *draft.Image)
		if err != nil {
			return nil, err
		}
		e.Image = ref
		e.ImageURL = ref.URL
	}

	doc, _, err := s.db.Collection(eventCollection).Add(ctx, e)
	if err != nil {
		s.media.Delete(ctx, e.Image)
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	log.Info().Str("id", doc.ID).Str("eventName", e.EventName).Msg("Event created")
	return s.Get(ctx, doc.ID)
}

func (s *eventService) Update(ctx context.Context, ID string, patch Patch) (*Event, error) {
	existing, err := s.Get(ctx, ID)
	if err != nil {
		return nil, err
	}

	f := fields{
		EventName:      utils.StripTagsPtr(patch.EventName),
		OrganizingClub: utils.StripTagsPtr(patch.OrganizingClub),
		ViewPhotosLink: patch.ViewPhotosLink,
		WorksLink:      patch.WorksLink,
	}
	if patch.Tags != nil {
		f.Tags = utils.ToPointer(cleanList(*patch.Tags))
	}
	if patch.EventTypes != nil {
		f.EventTypes = utils.ToPointer(cleanList(*patch.EventTypes))
	}

	var uploaded *media.ImageRef
	if patch.Image != nil {
		uploaded, err = s.media.Upload(ctx, media.Events, *patch.Image)
		if err != nil {
			return nil, err
		}
		f.Image = uploaded
		f.ImageURL = &uploaded.URL
	}

	updates := utils.Updates(f)
	if patch.EventDateSet {
		updates = append(updates, firestore.Update{Path: "eventDate", Value: patch.EventDate})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	if _, err := s.db.Collection(eventCollection).Doc(ID).Update(ctx, updates); err != nil {
		s.media.Delete(ctx, uploaded)
		if utils.IsNotFound(err) {
			return nil, NotFound
		}
		return nil, fmt.Errorf("failed to update event %s: %w", ID, err)
	}
	if uploaded != nil {
		s.media.Delete(ctx, media.RefOrLegacy(existing.Image, existing.ImageURL))
	}
	return s.Get(ctx, ID)
}

func (s *eventService) Delete(ctx context.Context, ID string) error {
	existing, err := s.Get(ctx, ID)
	if err != nil {
		return err
	}
	s.media.Delete(ctx, media.RefOrLegacy(existing.Image, existing.ImageURL))

	if _, err := s.db.Collection(eventCollection).Doc(ID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", ID, err)
	}
	log.Info().Str("id", ID).Msg("Event deleted")
	return nil
}

// cleanList drops blanks and repeats while keeping submission order.
func cleanList(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range set.Unique(items) {
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
