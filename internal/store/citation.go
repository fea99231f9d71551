package store

import (
	"context"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// CitationInput is the create payload for a citation.
type CitationInput struct {
	SourceID   string
	PersonID   *string
	EventID    *string
	FamilyID   *string
	Page       *string
	Confidence domain.Confidence
	Text       *string
}

// CitationPatch is the three-valued update payload for a citation. The
// source and target bindings are immutable.
type CitationPatch struct {
	Page       domain.Field[string]
	Confidence domain.Field[domain.Confidence]
	Text       domain.Field[string]
}

// CreateCitation ties a source to exactly one target entity.
func (s *Store) CreateCitation(ctx context.Context, input CitationInput) (domain.Citation, error) {
	if _, err := s.GetSource(ctx, input.SourceID); err != nil {
		return domain.Citation{}, err
	}
	if countTargets(input.PersonID, input.EventID, input.FamilyID) != 1 {
		return domain.Citation{}, domain.ValidationError("citation requires exactly one of person_id, event_id or family_id")
	}
	if err := s.checkCitationTarget(ctx, input.PersonID, input.EventID, input.FamilyID); err != nil {
		return domain.Citation{}, err
	}

	id, err := s.newID()
	if err != nil {
		return domain.Citation{}, err
	}

	now := s.now()
	citation := domain.Citation{
		ID:         id,
		SourceID:   input.SourceID,
		PersonID:   input.PersonID,
		EventID:    input.EventID,
		FamilyID:   input.FamilyID,
		Page:       input.Page,
		Confidence: input.Confidence,
		Text:       input.Text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(&citation).Error; err != nil {
		s.logError("citation.create", err)
		return domain.Citation{}, dbError(err)
	}
	return citation, nil
}

// GetCitation returns a citation by id.
func (s *Store) GetCitation(ctx context.Context, id string) (domain.Citation, error) {
	return getByID[domain.Citation](s, ctx, "Citation", id)
}

// UpdateCitation applies a partial update and refreshes updated_at.
func (s *Store) UpdateCitation(ctx context.Context, id string, patch CitationPatch) (domain.Citation, error) {
	if patch.Confidence.Present && patch.Confidence.Null {
		return domain.Citation{}, domain.ValidationError("confidence cannot be null")
	}

	updates := map[string]any{}
	patch.Page.Apply(updates, "page")
	patch.Confidence.Apply(updates, "confidence")
	patch.Text.Apply(updates, "text")

	return applyUpdate[domain.Citation](s, ctx, "Citation", id, updates)
}

// DeleteCitation hard-deletes a citation.
func (s *Store) DeleteCitation(ctx context.Context, id string) error {
	return hardDelete[domain.Citation](s, ctx, "Citation", id)
}

// ListCitations returns the citations of one source in id order.
func (s *Store) ListCitations(ctx context.Context, sourceID string) ([]domain.Citation, error) {
	if _, err := s.GetSource(ctx, sourceID); err != nil {
		return nil, err
	}
	var citations []domain.Citation
	err := s.db.WithContext(ctx).
		Where("source_id = ?", sourceID).
		Order("id ASC").
		Find(&citations).Error
	if err != nil {
		s.logError("citation.list", err)
		return nil, dbError(err)
	}
	return citations, nil
}

func (s *Store) checkCitationTarget(ctx context.Context, personID, eventID, familyID *string) error {
	switch {
	case personID != nil:
		_, err := s.GetPerson(ctx, *personID)
		return err
	case eventID != nil:
		_, err := s.GetEvent(ctx, *eventID)
		return err
	default:
		_, err := s.GetFamily(ctx, *familyID)
		return err
	}
}
