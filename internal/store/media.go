package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// MediaInput is the create payload for a media record. Only metadata is
// stored; the file itself lives outside the engine.
type MediaInput struct {
	FileName    string
	MimeType    string
	FilePath    string
	FileSize    int64
	Title       *string
	Description *string
}

// MediaPatch is the three-valued update payload for a media record.
type MediaPatch struct {
	FileName    domain.Field[string]
	MimeType    domain.Field[string]
	FilePath    domain.Field[string]
	FileSize    domain.Field[int64]
	Title       domain.Field[string]
	Description domain.Field[string]
}

// CreateMedia inserts a media record in a tree.
func (s *Store) CreateMedia(ctx context.Context, treeID string, input MediaInput) (domain.Media, error) {
	if err := s.requireTree(ctx, treeID); err != nil {
		return domain.Media{}, err
	}
	if strings.TrimSpace(input.FileName) == "" {
		return domain.Media{}, domain.ValidationError("media file_name is required")
	}
	if strings.TrimSpace(input.FilePath) == "" {
		return domain.Media{}, domain.ValidationError("media file_path is required")
	}

	id, err := s.newID()
	if err != nil {
		return domain.Media{}, err
	}

	now := s.now()
	media := domain.Media{
		ID:          id,
		TreeID:      treeID,
		FileName:    input.FileName,
		MimeType:    input.MimeType,
		FilePath:    input.FilePath,
		FileSize:    input.FileSize,
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&media).Error; err != nil {
		s.logError("media.create", err)
		return domain.Media{}, dbError(err)
	}
	return media, nil
}

// GetMedia returns a live media record by id.
func (s *Store) GetMedia(ctx context.Context, id string) (domain.Media, error) {
	return getByID[domain.Media](s, ctx, "Media", id)
}

// UpdateMedia applies a partial update and refreshes updated_at.
func (s *Store) UpdateMedia(ctx context.Context, id string, patch MediaPatch) (domain.Media, error) {
	if patch.FileName.Present && (patch.FileName.Null || strings.TrimSpace(patch.FileName.Value) == "") {
		return domain.Media{}, domain.ValidationError("media file_name cannot be empty")
	}
	if patch.FilePath.Present && (patch.FilePath.Null || strings.TrimSpace(patch.FilePath.Value) == "") {
		return domain.Media{}, domain.ValidationError("media file_path cannot be empty")
	}

	updates := map[string]any{}
	patch.FileName.Apply(updates, "file_name")
	patch.MimeType.Apply(updates, "mime_type")
	patch.FilePath.Apply(updates, "file_path")
	patch.FileSize.Apply(updates, "file_size")
	patch.Title.Apply(updates, "title")
	patch.Description.Apply(updates, "description")

	return applyUpdate[domain.Media](s, ctx, "Media", id, updates)
}

// DeleteMedia soft-deletes a media record and hard-deletes its links.
func (s *Store) DeleteMedia(ctx context.Context, id string) error {
	if _, err := s.GetMedia(ctx, id); err != nil {
		return err
	}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Media{}).Where("id = ?", id).Update("deleted_at", s.now()).Error; err != nil {
			return err
		}
		return tx.Where("media_id = ?", id).Delete(&domain.MediaLink{}).Error
	})
	if txErr != nil {
		s.logError("media.delete", txErr)
		return dbError(txErr)
	}
	return nil
}

// ListMedia pages through a tree's live media records in id order.
func (s *Store) ListMedia(ctx context.Context, treeID string, params domain.PageParams) (domain.Connection[domain.Media], error) {
	return paginate(func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&domain.Media{}).Where("tree_id = ?", treeID)
	}, params, func(m domain.Media) string { return m.ID })
}
