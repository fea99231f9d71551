package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// PersonPatch is the three-valued update payload for a person.
type PersonPatch struct {
	Sex domain.Field[domain.Sex]
}

// CreatePerson inserts a person together with the closure-table self-row.
func (s *Store) CreatePerson(ctx context.Context, treeID string, sex domain.Sex) (domain.Person, error) {
	if err := s.requireTree(ctx, treeID); err != nil {
		return domain.Person{}, err
	}

	id, err := s.newID()
	if err != nil {
		return domain.Person{}, err
	}
	selfRowID, err := s.newID()
	if err != nil {
		return domain.Person{}, err
	}

	now := s.now()
	person := domain.Person{
		ID:        id,
		TreeID:    treeID,
		Sex:       sex,
		CreatedAt: now,
		UpdatedAt: now,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&person).Error; err != nil {
			return err
		}
		selfRow := domain.PersonAncestry{
			ID:           selfRowID,
			TreeID:       treeID,
			AncestorID:   id,
			DescendantID: id,
			Depth:        0,
		}
		return tx.Create(&selfRow).Error
	})
	if txErr != nil {
		s.logError("person.create", txErr)
		return domain.Person{}, dbError(txErr)
	}
	return person, nil
}

// GetPerson returns a live person by id.
func (s *Store) GetPerson(ctx context.Context, id string) (domain.Person, error) {
	return getByID[domain.Person](s, ctx, "Person", id)
}

// UpdatePerson applies a partial update and refreshes updated_at.
func (s *Store) UpdatePerson(ctx context.Context, id string, patch PersonPatch) (domain.Person, error) {
	if patch.Sex.Present && patch.Sex.Null {
		return domain.Person{}, domain.ValidationError("sex cannot be null")
	}

	updates := map[string]any{}
	patch.Sex.Apply(updates, "sex")
	return applyUpdate[domain.Person](s, ctx, "Person", id, updates)
}

// DeletePerson soft-deletes a person and hard-deletes their names. The
// closure rows stay in place; ancestry queries filter deleted persons at
// read time.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	if _, err := s.GetPerson(ctx, id); err != nil {
		return err
	}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Person{}).Where("id = ?", id).Update("deleted_at", s.now()).Error; err != nil {
			return err
		}
		return tx.Where("person_id = ?", id).Delete(&domain.PersonName{}).Error
	})
	if txErr != nil {
		s.logError("person.delete", txErr)
		return dbError(txErr)
	}
	return nil
}

// ListPersons pages through a tree's live persons in id order.
func (s *Store) ListPersons(ctx context.Context, treeID string, params domain.PageParams) (domain.Connection[domain.Person], error) {
	return paginate(func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&domain.Person{}).Where("tree_id = ?", treeID)
	}, params, func(p domain.Person) string { return p.ID })
}
