package team

import (
	"context"

	"github.com/rs/zerolog/log"

	"tcetCapture/services/media"
	"tcetCapture/set"
	"tcetCapture/utils"
)

type uploadFunc func(ctx context.Context, file media.File) (*media.ImageRef, error)

// resolveLeads turns submitted leads into stored ones. New photos are uploaded,
// leads keeping a photo they already had inherit its ref from previous, any
// other URL a client sent is marked external, and leads left without any photo
// get the placeholder. It also returns the refs it
// uploaded so the caller can clean them up if the document write fails.
func resolveLeads(ctx context.Context, inputs []LeadInput, photos LeadPhotos, previous []Lead, upload uploadFunc) ([]Lead, []*media.ImageRef) {
	known := map[string]*media.ImageRef{}
	for _, lead := range previous {
		if ref := media.RefOrLegacy(lead.PhotoRef, lead.Photo); ref != nil {
			known[lead.Photo] = ref
		}
	}

	var (
		uploaded []*media.ImageRef
		next     int
	)
	leads := make([]Lead, 0, len(inputs))
	for i, in := range inputs {
		lead := Lead{
			Name:  utils.StripTags(in.Name),
			Role:  utils.StripTags(in.Role),
			Photo: in.Photo,
		}

		var file *media.File
		if in.PhotoKey != "" {
			if f, ok := photos.Keyed[in.PhotoKey]; ok {
				file = &f
			}
		} else if in.HasNewPhoto && next < len(photos.Ordered) {
			file = &photos.Ordered[next]
			next++
		}

		if file != nil {
			ref, err := upload(ctx, *file)
			if err != nil {
				log.Error().Err(err).Int("lead", i).Msg("Error uploading lead photo, keeping previous")
			} else {
				lead.Photo = ref.URL
				lead.PhotoRef = ref
				uploaded = append(uploaded, ref)
			}
		}
		if lead.PhotoRef == nil && lead.Photo != "" {
			lead.PhotoRef = known[lead.Photo]
		}
		switch {
		case lead.Photo == "":
			lead.Photo = PlaceholderPhoto
		case lead.PhotoRef == nil && lead.Photo != PlaceholderPhoto:
			lead.PhotoRef = media.External(lead.Photo)
		}
		leads = append(leads, lead)
	}
	return leads, uploaded
}

// orphanedRefs returns the refs of previous leads whose photo is no longer used by current.
func orphanedRefs(previous, current []Lead) []*media.ImageRef {
	inUse := set.New[string]()
	for _, lead := range current {
		inUse.Add(lead.Photo)
	}

	var orphans []*media.ImageRef
	for _, lead := range previous {
		if inUse.Contains(lead.Photo) {
			continue
		}
		if ref := media.RefOrLegacy(lead.PhotoRef, lead.Photo); ref.Uploaded() {
			orphans = append(orphans, ref)
		}
	}
	return orphans
}
