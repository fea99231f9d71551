package store

import (
	"context"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// MediaLinkInput is the create payload for a media link. All targets may be
// nil, which leaves the media free-floating in its tree.
type MediaLinkInput struct {
	PersonID  *string
	EventID   *string
	SourceID  *string
	FamilyID  *string
	SortOrder int
}

// CreateMediaLink attaches a media record to at most one target entity.
func (s *Store) CreateMediaLink(ctx context.Context, mediaID string, input MediaLinkInput) (domain.MediaLink, error) {
	if _, err := s.GetMedia(ctx, mediaID); err != nil {
		return domain.MediaLink{}, err
	}
	if countTargets(input.PersonID, input.EventID, input.SourceID, input.FamilyID) > 1 {
		return domain.MediaLink{}, domain.ValidationError("media link accepts at most one target")
	}
	if err := s.checkMediaLinkTarget(ctx, input); err != nil {
		return domain.MediaLink{}, err
	}

	id, err := s.newID()
	if err != nil {
		return domain.MediaLink{}, err
	}

	link := domain.MediaLink{
		ID:        id,
		MediaID:   mediaID,
		PersonID:  input.PersonID,
		EventID:   input.EventID,
		SourceID:  input.SourceID,
		FamilyID:  input.FamilyID,
		SortOrder: input.SortOrder,
	}
	if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
		s.logError("media_link.create", err)
		return domain.MediaLink{}, dbError(err)
	}
	return link, nil
}

// GetMediaLink returns a media link by id.
func (s *Store) GetMediaLink(ctx context.Context, id string) (domain.MediaLink, error) {
	return getByID[domain.MediaLink](s, ctx, "MediaLink", id)
}

// DeleteMediaLink hard-deletes a media link.
func (s *Store) DeleteMediaLink(ctx context.Context, id string) error {
	return hardDelete[domain.MediaLink](s, ctx, "MediaLink", id)
}

// ListMediaLinks returns a media record's links in sort order.
func (s *Store) ListMediaLinks(ctx context.Context, mediaID string) ([]domain.MediaLink, error) {
	if _, err := s.GetMedia(ctx, mediaID); err != nil {
		return nil, err
	}
	var links []domain.MediaLink
	err := s.db.WithContext(ctx).
		Where("media_id = ?", mediaID).
		Order("sort_order ASC, id ASC").
		Find(&links).Error
	if err != nil {
		s.logError("media_link.list", err)
		return nil, dbError(err)
	}
	return links, nil
}

func (s *Store) checkMediaLinkTarget(ctx context.Context, input MediaLinkInput) error {
	switch {
	case input.PersonID != nil:
		_, err := s.GetPerson(ctx, *input.PersonID)
		return err
	case input.EventID != nil:
		_, err := s.GetEvent(ctx, *input.EventID)
		return err
	case input.SourceID != nil:
		_, err := s.GetSource(ctx, *input.SourceID)
		return err
	case input.FamilyID != nil:
		_, err := s.GetFamily(ctx, *input.FamilyID)
		return err
	default:
		return nil
	}
}
