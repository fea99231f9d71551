package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// SourceInput is the create payload for a source.
type SourceInput struct {
	Title          string
	Author         *string
	Publisher      *string
	Abbreviation   *string
	RepositoryName *string
}

// SourcePatch is the three-valued update payload for a source.
type SourcePatch struct {
	Title          domain.Field[string]
	Author         domain.Field[string]
	Publisher      domain.Field[string]
	Abbreviation   domain.Field[string]
	RepositoryName domain.Field[string]
}

// CreateSource inserts a documentary source in a tree.
func (s *Store) CreateSource(ctx context.Context, treeID string, input SourceInput) (domain.Source, error) {
	if err := s.requireTree(ctx, treeID); err != nil {
		return domain.Source{}, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return domain.Source{}, domain.ValidationError("source title is required")
	}

	id, err := s.newID()
	if err != nil {
		return domain.Source{}, err
	}

	now := s.now()
	source := domain.Source{
		ID:             id,
		TreeID:         treeID,
		Title:          input.Title,
		Author:         input.Author,
		Publisher:      input.Publisher,
		Abbreviation:   input.Abbreviation,
		RepositoryName: input.RepositoryName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.db.WithContext(ctx).Create(&source).Error; err != nil {
		s.logError("source.create", err)
		return domain.Source{}, dbError(err)
	}
	return source, nil
}

// GetSource returns a live source by id.
func (s *Store) GetSource(ctx context.Context, id string) (domain.Source, error) {
	return getByID[domain.Source](s, ctx, "Source", id)
}

// UpdateSource applies a partial update and refreshes updated_at.
func (s *Store) UpdateSource(ctx context.Context, id string, patch SourcePatch) (domain.Source, error) {
	if patch.Title.Present && (patch.Title.Null || strings.TrimSpace(patch.Title.Value) == "") {
		return domain.Source{}, domain.ValidationError("source title cannot be empty")
	}

	updates := map[string]any{}
	patch.Title.Apply(updates, "title")
	patch.Author.Apply(updates, "author")
	patch.Publisher.Apply(updates, "publisher")
	patch.Abbreviation.Apply(updates, "abbreviation")
	patch.RepositoryName.Apply(updates, "repository_name")

	return applyUpdate[domain.Source](s, ctx, "Source", id, updates)
}

// DeleteSource soft-deletes a source. Citations of the source remain and
// resolve to nothing at read time.
func (s *Store) DeleteSource(ctx context.Context, id string) error {
	return softDelete[domain.Source](s, ctx, "Source", id)
}

// ListSources pages through a tree's live sources in id order.
func (s *Store) ListSources(ctx context.Context, treeID string, params domain.PageParams) (domain.Connection[domain.Source], error) {
	return paginate(func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&domain.Source{}).Where("tree_id = ?", treeID)
	}, params, func(src domain.Source) string { return src.ID })
}
