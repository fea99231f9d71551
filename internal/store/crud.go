package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// Shared command helpers. Models with a gorm.DeletedAt column are filtered
// and soft-deleted through gorm's soft-delete scope; the rest are
// hard-deleted.

// getByID loads one live row or reports NotFound.
func getByID[M any](s *Store, ctx context.Context, entity, id string) (M, error) {
	var model M
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model, domain.NotFoundError(entity, id)
	}
	if err != nil {
		s.logError(entity+".get", err)
		return model, dbError(err)
	}
	return model, nil
}

// applyUpdate merges a column-update map into an existing row, refreshing
// updated_at, and returns the reloaded entity. Columns not present in the
// map keep their previous values.
func applyUpdate[M any](s *Store, ctx context.Context, entity, id string, updates map[string]any) (M, error) {
	existing, err := getByID[M](s, ctx, entity, id)
	if err != nil {
		return existing, err
	}

	updates["updated_at"] = s.now()
	if err := s.db.WithContext(ctx).Model(&existing).Where("id = ?", id).Updates(updates).Error; err != nil {
		s.logError(entity+".update", err)
		var zero M
		return zero, dbError(err)
	}

	return getByID[M](s, ctx, entity, id)
}

// softDelete stamps deleted_at on a live row. Deleting an already-deleted
// row reports NotFound because the scope hides it.
func softDelete[M any](s *Store, ctx context.Context, entity, id string) error {
	existing, err := getByID[M](s, ctx, entity, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&existing).Where("id = ?", id).Update("deleted_at", s.now()).Error; err != nil {
		s.logError(entity+".delete", err)
		return dbError(err)
	}
	return nil
}

// hardDelete removes a row permanently.
func hardDelete[M any](s *Store, ctx context.Context, entity, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(M))
	if result.Error != nil {
		s.logError(entity+".delete", result.Error)
		return dbError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError(entity, id)
	}
	return nil
}

// countTargets counts how many of the given foreign keys are set.
func countTargets(ids ...*string) int {
	count := 0
	for _, id := range ids {
		if id != nil && *id != "" {
			count++
		}
	}
	return count
}
