package team

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
	// List returns every team, latest year first.
	List(ctx context.Context) ([]Team, error)
	Get(ctx context.Context, ID string) (*Team, error)
	// Create requires a year. Lead photos that fail to upload fall back to the
	// placeholder instead of failing the request.
	Create(ctx context.Context, draft Draft) (*Team, error)
	Update(ctx context.Context, ID string, patch Patch) (*Team, error)
	// Delete removes the team together with its team photo and every lead photo.
	Delete(ctx context.Context, ID string) error
}

type teamService struct {
	db    *firestore.Client
	media media.Service
}

var _ Service = (*teamService)(nil)

const teamCollection = "teams"

func NewTeamService(client *firestore.Client, mediaService media.Service) Service {
	return &teamService{
		db:    client,
		media: mediaService,
	}
}

var (
	NotFound        = api.NewNotFoundError("Team not found")
	ErrYearRequired = api.NewValidationError("Year is required", "")
)

func (s *teamService) List(ctx context.Context) ([]Team, error) {
	docs, err := utils.ListOrdered(ctx, s.db.Collection(teamCollection), "year", firestore.Desc)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	teams, err := utils.GetAllToStructs[Team](docs)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		teams[i].Leads = utils.NonNil(teams[i].Leads)
	}
	return teams, nil
}

func (s *teamService) Get(ctx context.Context, ID string) (*Team, error) {
	doc, err := s.db.Collection(teamCollection).Doc(ID).Get(ctx)
	if utils.IsNotFound(err) {
		return nil, NotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", ID, err)
	}
	t, err := utils.DocToStruct[Team](doc)
	if err != nil {
		return nil, err
	}
	t.Leads = utils.NonNil(t.Leads)
	return t, nil
}

func (s *teamService) Create(ctx context.Context, draft Draft) (*Team, error) {
	t := Team{Year: utils.StripTags(draft.Year)}
	if t.Year == "" {
		return nil, ErrYearRequired
	}
	if draft.TeamPhoto != nil {
		ref, err := s.upload(ctx, *draft.TeamPhoto)
		if err != nil {
			return nil, err
		}
		t.TeamPhoto = ref.URL
		t.TeamPhotoRef = ref
	}
	leads, uploaded := resolveLeads(ctx, draft.Leads, draft.LeadPhotos, nil, s.upload)
	t.Leads = leads

	doc, _, err := s.db.Collection(teamCollection).Add(ctx, t)
	if err != nil {
		s.cleanup(ctx, append(uploaded, t.TeamPhotoRef))
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	log.Info().Str("id", doc.ID).Str("year", t.Year).Int("leads", len(t.Leads)).Msg("Team created")
	return s.Get(ctx, doc.ID)
}

func (s *teamService) Update(ctx context.Context, ID string, patch Patch) (*Team, error) {
	existing, err := s.Get(ctx, ID)
	if err != nil {
		return nil, err
	}

	f := fields{Year: utils.StripTagsPtr(patch.Year)}
	if f.Year != nil && *f.Year == "" {
		return nil, ErrYearRequired
	}

	var uploaded []*media.ImageRef
	if patch.TeamPhoto != nil {
		ref, err := s.upload(ctx, *patch.TeamPhoto)
		if err != nil {
			return nil, err
		}
		f.TeamPhoto = &ref.URL
		f.TeamPhotoRef = ref
		uploaded = append(uploaded, ref)
	}
	var orphans []*media.ImageRef
	if patch.Leads != nil {
		leads, leadUploads := resolveLeads(ctx, *patch.Leads, patch.LeadPhotos, existing.Leads, s.upload)
		f.Leads = &leads
		uploaded = append(uploaded, leadUploads...)
		orphans = orphanedRefs(existing.Leads, leads)
	}

	updates := append(utils.Updates(f), firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
	if _, err := s.db.Collection(teamCollection).Doc(ID).Update(ctx, updates); err != nil {
		s.cleanup(ctx, uploaded)
		if utils.IsNotFound(err) {
			return nil, NotFound
		}
		return nil, fmt.Errorf("failed to update team %s: %w", ID, err)
	}

	if f.TeamPhotoRef != nil {
		orphans = append(orphans, media.RefOrLegacy(existing.TeamPhotoRef, existing.TeamPhoto))
	}
	s.cleanup(ctx, orphans)
	return s.Get(ctx, ID)
}

func (s *teamService) Delete(ctx context.Context, ID string) error {
	existing, err := s.Get(ctx, ID)
	if err != nil {
		return err
	}
	refs := []*media.ImageRef{media.RefOrLegacy(existing.TeamPhotoRef, existing.TeamPhoto)}
	for _, lead := range existing.Leads {
		refs = append(refs, media.RefOrLegacy(lead.PhotoRef, lead.Photo))
	}
	s.cleanup(ctx, refs)

	if _, err := s.db.Collection(teamCollection).Doc(ID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete team %s: %w", ID, err)
	}
	log.Info().Str("id", ID).Msg("Team deleted")
	return nil
}

func (s *teamService) upload(ctx context.Context, file media.File) (*media.ImageRef, error) {
	return s.media.Upload(ctx, media.Teams, file)
}

// cleanup deletes refs on a best effort basis. Nil and external entries are skipped.
func (s *teamService) cleanup(ctx context.Context, refs []*media.ImageRef) {
	for _, ref := range refs {
		if ref.Uploaded() {
			s.media.Delete(ctx, ref)
		}
	}
}
