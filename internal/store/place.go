package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// PlaceInput is the create payload for a place.
type PlaceInput struct {
	Name      string
	Latitude  *float64
	Longitude *float64
}

// PlacePatch is the three-valued update payload for a place.
type PlacePatch struct {
	Name      domain.Field[string]
	Latitude  domain.Field[float64]
	Longitude domain.Field[float64]
}

// CreatePlace inserts a place in a tree.
func (s *Store) CreatePlace(ctx context.Context, treeID string, input PlaceInput) (domain.Place, error) {
	if err := s.requireTree(ctx, treeID); err != nil {
		return domain.Place{}, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return domain.Place{}, domain.ValidationError("place name is required")
	}

	id, err := s.newID()
	if err != nil {
		return domain.Place{}, err
	}

	now := s.now()
	place := domain.Place{
		ID:        id,
		TreeID:    treeID,
		Name:      input.Name,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&place).Error; err != nil {
		s.logError("place.create", err)
		return domain.Place{}, dbError(err)
	}
	return place, nil
}

// GetPlace returns a place by id.
func (s *Store) GetPlace(ctx context.Context, id string) (domain.Place, error) {
	return getByID[domain.Place](s, ctx, "Place", id)
}

// UpdatePlace applies a partial update and refreshes updated_at.
func (s *Store) UpdatePlace(ctx context.Context, id string, patch PlacePatch) (domain.Place, error) {
	if patch.Name.Present && (patch.Name.Null || strings.TrimSpace(patch.Name.Value) == "") {
		return domain.Place{}, domain.ValidationError("place name cannot be empty")
	}

	updates := map[string]any{}
	patch.Name.Apply(updates, "name")
	patch.Latitude.Apply(updates, "latitude")
	patch.Longitude.Apply(updates, "longitude")

	return applyUpdate[domain.Place](s, ctx, "Place", id, updates)
}

// DeletePlace hard-deletes a place. Events keep their dangling place_id;
// readers treat an unresolvable place as absent.
func (s *Store) DeletePlace(ctx context.Context, id string) error {
	return hardDelete[domain.Place](s, ctx, "Place", id)
}

// ListPlaces pages through a tree's places in id order, optionally narrowed
// by a case-insensitive name substring.
func (s *Store) ListPlaces(ctx context.Context, treeID, search string, params domain.PageParams) (domain.Connection[domain.Place], error) {
	return paginate(func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&domain.Place{}).Where("tree_id = ?", treeID)
		if search != "" {
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		return query
	}, params, func(p domain.Place) string { return p.ID })
}

// findPlaceByName returns a tree's place with an exact name, used by the
// GEDCOM importer to deduplicate places.
func (s *Store) findPlaceByName(tx *gorm.DB, treeID, name string) (*domain.Place, error) {
	var place domain.Place
	err := tx.Where("tree_id = ? AND name = ?", treeID, name).Take(&place).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &place, nil
}
