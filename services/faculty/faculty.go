package faculty

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"

	"tcetCapture/api"
	"tcetCapture/services/media"
	"tcetCapture/utils"
)

type Service interface {
	List(ctx context.Context) ([]Member, error)
	Get(ctx context.Context, ID string) (*Member, error)
	// Create requires a name and a role.
	Create(ctx context.Context, draft Draft) (*Member, error)
	Update(ctx context.Context, ID string, patch Patch) (*Member, error)
	Delete(ctx context.Context, ID string) error
}

type facultyService struct {
	db    *firestore.Client
	media media.Service
}

var _ Service = (*facultyService)(nil)

const facultyCollection = "faculty"

func NewFacultyService(client *firestore.Client, mediaService media.Service) Service {
	return &facultyService{
		db:    client,
		media: mediaService,
	}
}

var (
	NotFound        = api.NewNotFoundError("Faculty member not found")
	ErrNameRequired = api.NewValidationError("Name and role are required", "")
)

func (s *facultyService) List(ctx context.Context) ([]Member, error) {
	docs, err := utils.ListOrdered(ctx, s.db.Collection(facultyCollection), "createdAt", firestore.Desc)
	if err != nil {
		return nil, fmt.Errorf("failed to list faculty: %w", err)
	}
	return utils.GetAllToStructs[Member](docs)
}

func (s *facultyService) Get(ctx context.Context, ID string) (*Member, error) {
	doc, err := s.db.Collection(facultyCollection).Doc(ID).Get(ctx)
	if utils.IsNotFound(err) {
		return nil, NotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get faculty member %s: %w", ID, err)
	}
	return utils.DocToStruct[Member](doc)
}

func (s *facultyService) Create(ctx context.Context, draft Draft) (*Member, error) {
	m := Member{
		Name:        utils.StripTags(draft.Name),
		Role:        utils.StripTags(draft.Role),
		Description: utils.StripTags(draft.Description),
		ImageURL:    draft.ImageURL,
		Image:       media.External(draft.ImageURL),
	}
	if m.Name == "" || m.Role == "" {
		return nil, ErrNameRequired
	}
	if draft.Image != nil {
		ref, err := s.media.Upload(ctx, media.Faculty, *draft.Image)
		if err != nil {
			return nil, err
		}
		m.Image = ref
		m.ImageURL = ref.URL
	}

	doc, _, err := s.db.Collection(facultyCollection).Add(ctx, m)
	if err != nil {
		s.media.Delete(ctx, m.Image)
		return nil, fmt.Errorf("failed to create faculty member: %w", err)
	}
	log.Info().Str("id", doc.ID).Str("name", m.Name).Msg("Faculty member created")
	return s.Get(ctx, doc.ID)
}

func (s *facultyService) Update(ctx context.Context, ID string, patch Patch) (*Member, error) {
	existing, err := s.Get(ctx, ID)
	if err != nil {
		return nil, err
	}

	f := fields{
		Name:        utils.StripTagsPtr(patch.Name),
		Role:        utils.StripTagsPtr(patch.Role),
		Description: utils.StripTagsPtr(patch.Description),
	}
	if (f.Name != nil && *f.Name == "") || (f.Role != nil && *f.Role == "") {
		return nil, ErrNameRequired
	}

	var uploaded *media.ImageRef
	if patch.Image != nil {
		uploaded, err = s.media.Upload(ctx, media.Faculty, *patch.Image)
		if err != nil {
			return nil, err
		}
		f.Image = uploaded
		f.ImageURL = &uploaded.URL
	}

	updates := append(utils.Updates(f), firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
	if _, err := s.db.Collection(facultyCollection).Doc(ID).Update(ctx, updates); err != nil {
		s.media.Delete(ctx, uploaded)
		if utils.IsNotFound(err) {
			return nil, NotFound
		}
		return nil, fmt.Errorf("failed to update faculty member %s: %w", ID, err)
	}
	if uploaded != nil {
		s.media.Delete(ctx, media.RefOrLegacy(existing.Image, existing.ImageURL))
	}
	return s.Get(ctx, ID)
}

func (s *facultyService) Delete(ctx context.Context, ID string) error {
	existing, err := s.Get(ctx, ID)
	if err != nil {
		return err
	}
	s.media.Delete(ctx, media.RefOrLegacy(existing.Image, existing.ImageURL))

	if _, err := s.db.Collection(facultyCollection).Doc(ID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete faculty member %s: %w", ID, err)
	}
	log.Info().Str("id", ID).Msg("Faculty member deleted")
	return nil
}
