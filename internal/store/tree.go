package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// TreePatch is the three-valued update payload for a tree.
type TreePatch struct {
	Name        domain.Field[string]
	Description domain.Field[string]
}

// CreateTree inserts a new tenant root.
func (s *Store) CreateTree(ctx context.Context, name string, description *string) (domain.Tree, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Tree{}, domain.ValidationError("tree name is required")
	}

	id, err := s.newID()
	if err != nil {
		return domain.Tree{}, err
	}

	now := s.now()
	tree := domain.Tree{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&tree).Error; err != nil {
		s.logError("tree.create", err)
		return domain.Tree{}, dbError(err)
	}
	return tree, nil
}

// GetTree returns a tree by id, excluding soft-deleted trees.
func (s *Store) GetTree(ctx context.Context, id string) (domain.Tree, error) {
	var tree domain.Tree
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&tree).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Tree{}, domain.NotFoundError("Tree", id)
	}
	if err != nil {
		s.logError("tree.get", err)
		return domain.Tree{}, dbError(err)
	}
	return tree, nil
}

// UpdateTree applies a partial update and refreshes updated_at.
func (s *Store) UpdateTree(ctx context.Context, id string, patch TreePatch) (domain.Tree, error) {
	if patch.Name.Present && (patch.Name.Null || strings.TrimSpace(patch.Name.Value) == "") {
		return domain.Tree{}, domain.ValidationError("tree name cannot be empty")
	}

	updates := map[string]any{}
	patch.Name.Apply(updates, "name")
	patch.Description.Apply(updates, "description")

	return applyUpdate[domain.Tree](s, ctx, "Tree", id, updates)
}

// DeleteTree soft-deletes a tree. Deleting a deleted tree is NotFound.
func (s *Store) DeleteTree(ctx context.Context, id string) error {
	return softDelete[domain.Tree](s, ctx, "Tree", id)
}

// ListTrees pages through all live trees in id order.
func (s *Store) ListTrees(ctx context.Context, params domain.PageParams) (domain.Connection[domain.Tree], error) {
	return paginate(func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&domain.Tree{})
	}, params, func(t domain.Tree) string { return t.ID })
}

// requireTree verifies the tenant root exists and is live; every child
// entity write goes through this guard.
func (s *Store) requireTree(ctx context.Context, treeID string) error {
	_, err := s.GetTree(ctx, treeID)
	return err
}
