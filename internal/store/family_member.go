package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// FamilySpouseInput is the create payload for a spouse membership.
type FamilySpouseInput struct {
	PersonID  string
	Role      domain.SpouseRole
	SortOrder int
}

// FamilyChildInput is the create payload for a child membership.
type FamilyChildInput struct {
	PersonID  string
	ChildType domain.ChildType
	SortOrder int
}

// AddSpouse links a person into a family as a parent figure. Every existing
// child of the family gains the new spouse as a parent in the closure, all
// in one transaction.
func (s *Store) AddSpouse(ctx context.Context, familyID string, input FamilySpouseInput) (domain.FamilySpouse, error) {
	family, person, err := s.membershipTargets(ctx, familyID, input.PersonID)
	if err != nil {
		return domain.FamilySpouse{}, err
	}

	id, err := s.newID()
	if err != nil {
		return domain.FamilySpouse{}, err
	}
	spouse := domain.FamilySpouse{
		ID:        id,
		FamilyID:  family.ID,
		PersonID:  person.ID,
		Role:      input.Role,
		SortOrder: input.SortOrder,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&domain.FamilySpouse{}).
			Where("family_id = ? AND person_id = ?", family.ID, person.ID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ValidationError("person %s is already a spouse in family %s", person.ID, family.ID)
		}
		if err := tx.Create(&spouse).Error; err != nil {
			return err
		}
		var children []domain.FamilyChild
		if err := tx.Where("family_id = ?", family.ID).Find(&children).Error; err != nil {
			return err
		}
		for _, child := range children {
			if err := s.linkParentChild(tx, family.TreeID, person.ID, child.PersonID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		s.logError("family.add_spouse", txErr)
		return domain.FamilySpouse{}, dbError(txErr)
	}
	return spouse, nil
}

// GetFamilySpouse returns a spouse membership row by id.
func (s *Store) GetFamilySpouse(ctx context.Context, id string) (domain.FamilySpouse, error) {
	return getByID[domain.FamilySpouse](s, ctx, "FamilySpouse", id)
}

// GetFamilyChild returns a child membership row by id.
func (s *Store) GetFamilyChild(ctx context.Context, id string) (domain.FamilyChild, error) {
	return getByID[domain.FamilyChild](s, ctx, "FamilyChild", id)
}

// RemoveSpouse deletes a spouse membership and re-materializes the closure
// subtree of every child of the family.
func (s *Store) RemoveSpouse(ctx context.Context, id string) error {
	spouse, err := s.GetFamilySpouse(ctx, id)
	if err != nil {
		return err
	}
	family, err := s.GetFamily(ctx, spouse.FamilyID)
	if err != nil {
		return err
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Delete(&domain.FamilySpouse{}).Error; err != nil {
			return err
		}
		var children []domain.FamilyChild
		if err := tx.Where("family_id = ?", family.ID).Find(&children).Error; err != nil {
			return err
		}
		for _, child := range children {
			if err := s.rebuildSubtree(tx, family.TreeID, child.PersonID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		s.logError("family.remove_spouse", txErr)
		return dbError(txErr)
	}
	return nil
}

// AddChild links a person into a family as a child. Every current spouse of
// the family becomes a parent of the child in the closure; a cycle fails the
// whole transaction.
func (s *Store) AddChild(ctx context.Context, familyID string, input FamilyChildInput) (domain.FamilyChild, error) {
	family, person, err := s.membershipTargets(ctx, familyID, input.PersonID)
	if err != nil {
		return domain.FamilyChild{}, err
	}

	id, err := s.newID()
	if err != nil {
		return domain.FamilyChild{}, err
	}
	child := domain.FamilyChild{
		ID:        id,
		FamilyID:  family.ID,
		PersonID:  person.ID,
		ChildType: input.ChildType,
		SortOrder: input.SortOrder,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&domain.FamilyChild{}).
			Where("family_id = ? AND person_id = ?", family.ID, person.ID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ValidationError("person %s is already a child in family %s", person.ID, family.ID)
		}
		if err := tx.Create(&child).Error; err != nil {
			return err
		}
		var spouses []domain.FamilySpouse
		if err := tx.Where("family_id = ?", family.ID).Find(&spouses).Error; err != nil {
			return err
		}
		for _, spouse := range spouses {
			if err := s.linkParentChild(tx, family.TreeID, spouse.PersonID, person.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		s.logError("family.add_child", txErr)
		return domain.FamilyChild{}, dbError(txErr)
	}
	return child, nil
}

// RemoveChild deletes a child membership and re-materializes the closure
// subtree rooted at the removed child.
func (s *Store) RemoveChild(ctx context.Context, id string) error {
	child, err := s.GetFamilyChild(ctx, id)
	if err != nil {
		return err
	}
	family, err := s.GetFamily(ctx, child.FamilyID)
	if err != nil {
		return err
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).Delete(&domain.FamilyChild{}).Error; err != nil {
			return err
		}
		return s.rebuildSubtree(tx, family.TreeID, child.PersonID)
	})
	if txErr != nil {
		s.logError("family.remove_child", txErr)
		return dbError(txErr)
	}
	return nil
}

// ListSpouses returns a family's spouse memberships in sort order.
func (s *Store) ListSpouses(ctx context.Context, familyID string) ([]domain.FamilySpouse, error) {
	if _, err := s.GetFamily(ctx, familyID); err != nil {
		return nil, err
	}
	var spouses []domain.FamilySpouse
	err := s.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("sort_order ASC, id ASC").
		Find(&spouses).Error
	if err != nil {
		s.logError("family.list_spouses", err)
		return nil, dbError(err)
	}
	return spouses, nil
}

// ListChildren returns a family's child memberships in sort order.
func (s *Store) ListChildren(ctx context.Context, familyID string) ([]domain.FamilyChild, error) {
	if _, err := s.GetFamily(ctx, familyID); err != nil {
		return nil, err
	}
	var children []domain.FamilyChild
	err := s.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("sort_order ASC, id ASC").
		Find(&children).Error
	if err != nil {
		s.logError("family.list_children", err)
		return nil, dbError(err)
	}
	return children, nil
}

// membershipTargets resolves and validates the family and person of a
// membership write; both must be live and in the same tree.
func (s *Store) membershipTargets(ctx context.Context, familyID, personID string) (domain.Family, domain.Person, error) {
	family, err := s.GetFamily(ctx, familyID)
	if err != nil {
		return domain.Family{}, domain.Person{}, err
	}
	person, err := s.GetPerson(ctx, personID)
	if err != nil {
		return domain.Family{}, domain.Person{}, err
	}
	if person.TreeID != family.TreeID {
		return domain.Family{}, domain.Person{}, domain.ValidationError("person %s belongs to a different tree than family %s", personID, familyID)
	}
	return family, person, nil
}
