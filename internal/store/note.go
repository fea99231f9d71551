package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// NoteInput is the create payload for a note.
type NoteInput struct {
	Text     string
	PersonID *string
	EventID  *string
	FamilyID *string
	SourceID *string
}

// NotePatch is the three-valued update payload for a note. The target
// binding is immutable.
type NotePatch struct {
	Text domain.Field[string]
}

// NoteFilter narrows a note listing to one target entity.
type NoteFilter struct {
	PersonID *string
	EventID  *string
	FamilyID *string
	SourceID *string
}

// CreateNote attaches free text to exactly one target entity.
func (s *Store) CreateNote(ctx context.Context, treeID string, input NoteInput) (domain.Note, error) {
	if err := s.requireTree(ctx, treeID); err != nil {
		return domain.Note{}, err
	}
	if strings.TrimSpace(input.Text) == "" {
		return domain.Note{}, domain.ValidationError("note text is required")
	}
	if countTargets(input.PersonID, input.EventID, input.FamilyID, input.SourceID) != 1 {
		return domain.Note{}, domain.ValidationError("note requires exactly one of person_id, event_id, family_id or source_id")
	}
	if err := s.checkNoteTarget(ctx, input); err != nil {
		return domain.Note{}, err
	}

	id, err := s.newID()
	if err != nil {
		return domain.Note{}, err
	}

	now := s.now()
	note := domain.Note{
		ID:        id,
		TreeID:    treeID,
		Text:      input.Text,
		PersonID:  input.PersonID,
		EventID:   input.EventID,
		FamilyID:  input.FamilyID,
		SourceID:  input.SourceID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		s.logError("note.create", err)
		return domain.Note{}, dbError(err)
	}
	return note, nil
}

// GetNote returns a live note by id.
func (s *Store) GetNote(ctx context.Context, id string) (domain.Note, error) {
	return getByID[domain.Note](s, ctx, "Note", id)
}

// UpdateNote applies a partial update and refreshes updated_at.
func (s *Store) UpdateNote(ctx context.Context, id string, patch NotePatch) (domain.Note, error) {
	if patch.Text.Present && (patch.Text.Null || strings.TrimSpace(patch.Text.Value) == "") {
		return domain.Note{}, domain.ValidationError("note text cannot be empty")
	}

	updates := map[string]any{}
	patch.Text.Apply(updates, "text")

	return applyUpdate[domain.Note](s, ctx, "Note", id, updates)
}

// DeleteNote soft-deletes a note.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	return softDelete[domain.Note](s, ctx, "Note", id)
}

// ListNotes pages through a tree's live notes in id order with optional
// target filters.
func (s *Store) ListNotes(ctx context.Context, treeID string, filter NoteFilter, params domain.PageParams) (domain.Connection[domain.Note], error) {
	return paginate(func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&domain.Note{}).Where("tree_id = ?", treeID)
		if filter.PersonID != nil {
			query = query.Where("person_id = ?", *filter.PersonID)
		}
		if filter.EventID != nil {
			query = query.Where("event_id = ?", *filter.EventID)
		}
		if filter.FamilyID != nil {
			query = query.Where("family_id = ?", *filter.FamilyID)
		}
		if filter.SourceID != nil {
			query = query.Where("source_id = ?", *filter.SourceID)
		}
		return query
	}, params, func(n domain.Note) string { return n.ID })
}

func (s *Store) checkNoteTarget(ctx context.Context, input NoteInput) error {
	switch {
	case input.PersonID != nil:
		_, err := s.GetPerson(ctx, *input.PersonID)
		return err
	case input.EventID != nil:
		_, err := s.GetEvent(ctx, *input.EventID)
		return err
	case input.FamilyID != nil:
		_, err := s.GetFamily(ctx, *input.FamilyID)
		return err
	default:
		_, err := s.GetSource(ctx, *input.SourceID)
		return err
	}
}
