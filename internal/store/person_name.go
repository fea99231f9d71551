package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// PersonNameInput is the create payload for a person name.
type PersonNameInput struct {
	NameType   domain.NameType
	GivenNames *string
	Surname    *string
	Prefix     *string
	Suffix     *string
	Nickname   *string
	IsPrimary  bool
}

// PersonNamePatch is the three-valued update payload for a person name.
type PersonNamePatch struct {
	NameType   domain.Field[domain.NameType]
	GivenNames domain.Field[string]
	Surname    domain.Field[string]
	Prefix     domain.Field[string]
	Suffix     domain.Field[string]
	Nickname   domain.Field[string]
	IsPrimary  domain.Field[bool]
}

// CreatePersonName adds a name record. When the new name is primary, any
// previous primary name of the person is demoted so that at most one
// primary name exists.
func (s *Store) CreatePersonName(ctx context.Context, personID string, input PersonNameInput) (domain.PersonName, error) {
	if _, err := s.GetPerson(ctx, personID); err != nil {
		return domain.PersonName{}, err
	}

	id, err := s.newID()
	if err != nil {
		return domain.PersonName{}, err
	}

	now := s.now()
	name := domain.PersonName{
		ID:         id,
		PersonID:   personID,
		NameType:   input.NameType,
		GivenNames: input.GivenNames,
		Surname:    input.Surname,
		Prefix:     input.Prefix,
		Suffix:     input.Suffix,
		Nickname:   input.Nickname,
		IsPrimary:  input.IsPrimary,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.IsPrimary {
			if err := demotePrimaryNames(tx, personID, ""); err != nil {
				return err
			}
		}
		return tx.Create(&name).Error
	})
	if txErr != nil {
		s.logError("person_name.create", txErr)
		return domain.PersonName{}, dbError(txErr)
	}
	return name, nil
}

// GetPersonName returns a name record by id.
func (s *Store) GetPersonName(ctx context.Context, id string) (domain.PersonName, error) {
	return getByID[domain.PersonName](s, ctx, "PersonName", id)
}

// UpdatePersonName applies a partial update; promoting a name to primary
// demotes the person's other names.
func (s *Store) UpdatePersonName(ctx context.Context, id string, patch PersonNamePatch) (domain.PersonName, error) {
	if patch.NameType.Present && patch.NameType.Null {
		return domain.PersonName{}, domain.ValidationError("name_type cannot be null")
	}
	if patch.IsPrimary.Present && patch.IsPrimary.Null {
		return domain.PersonName{}, domain.ValidationError("is_primary cannot be null")
	}

	existing, err := s.GetPersonName(ctx, id)
	if err != nil {
		return domain.PersonName{}, err
	}

	updates := map[string]any{}
	patch.NameType.Apply(updates, "name_type")
	patch.GivenNames.Apply(updates, "given_names")
	patch.Surname.Apply(updates, "surname")
	patch.Prefix.Apply(updates, "prefix")
	patch.Suffix.Apply(updates, "suffix")
	patch.Nickname.Apply(updates, "nickname")
	patch.IsPrimary.Apply(updates, "is_primary")
	updates["updated_at"] = s.now()

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if patch.IsPrimary.Present && patch.IsPrimary.Value {
			if err := demotePrimaryNames(tx, existing.PersonID, id); err != nil {
				return err
			}
		}
		return tx.Model(&domain.PersonName{}).Where("id = ?", id).Updates(updates).Error
	})
	if txErr != nil {
		s.logError("person_name.update", txErr)
		return domain.PersonName{}, dbError(txErr)
	}
	return s.GetPersonName(ctx, id)
}

// DeletePersonName hard-deletes a name record.
func (s *Store) DeletePersonName(ctx context.Context, id string) error {
	return hardDelete[domain.PersonName](s, ctx, "PersonName", id)
}

// ListPersonNames returns all names of a person, primary first.
func (s *Store) ListPersonNames(ctx context.Context, personID string) ([]domain.PersonName, error) {
	var names []domain.PersonName
	err := s.db.WithContext(ctx).
		Where("person_id = ?", personID).
		Order("is_primary DESC, id ASC").
		Find(&names).Error
	if err != nil {
		s.logError("person_name.list", err)
		return nil, dbError(err)
	}
	return names, nil
}

// demotePrimaryNames clears is_primary on every name of a person except the
// one being promoted.
func demotePrimaryNames(tx *gorm.DB, personID, exceptID string) error {
	query := tx.Model(&domain.PersonName{}).Where("person_id = ? AND is_primary = ?", personID, true)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	return query.Update("is_primary", false).Error
}
