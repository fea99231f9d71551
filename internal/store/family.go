package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// CreateFamily inserts an empty union in a tree.
func (s *Store) CreateFamily(ctx context.Context, treeID string) (domain.Family, error) {
	if err := s.requireTree(ctx, treeID); err != nil {
		return domain.Family{}, err
	}

	id, err := s.newID()
	if err != nil {
		return domain.Family{}, err
	}

	now := s.now()
	family := domain.Family{
		ID:        id,
		TreeID:    treeID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&family).Error; err != nil {
		s.logError("family.create", err)
		return domain.Family{}, dbError(err)
	}
	return family, nil
}

// GetFamily returns a live family by id.
func (s *Store) GetFamily(ctx context.Context, id string) (domain.Family, error) {
	return getByID[domain.Family](s, ctx, "Family", id)
}

// TouchFamily refreshes updated_at. Families carry no editable columns of
// their own; their content lives in the membership tables.
func (s *Store) TouchFamily(ctx context.Context, id string) (domain.Family, error) {
	return applyUpdate[domain.Family](s, ctx, "Family", id, map[string]any{})
}

// DeleteFamily soft-deletes a family. Membership rows stay in place as
// orphans and are filtered through the family at read time; the closure is
// untouched.
func (s *Store) DeleteFamily(ctx context.Context, id string) error {
	return softDelete[domain.Family](s, ctx, "Family", id)
}

// ListFamilies pages through a tree's live families in id order.
func (s *Store) ListFamilies(ctx context.Context, treeID string, params domain.PageParams) (domain.Connection[domain.Family], error) {
	return paginate(func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&domain.Family{}).Where("tree_id = ?", treeID)
	}, params, func(f domain.Family) string { return f.ID })
}
