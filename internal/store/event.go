package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// EventInput is the create payload for an event.
type EventInput struct {
	EventType   domain.EventType
	DateValue   *string
	DateSort    *time.Time
	PlaceID     *string
	PersonID    *string
	FamilyID    *string
	Description *string
}

// EventPatch is the three-valued update payload for an event. The target
// columns are not patchable; an event stays attached to the entity it was
// created for.
type EventPatch struct {
	EventType   domain.Field[domain.EventType]
	DateValue   domain.Field[string]
	DateSort    domain.Field[time.Time]
	PlaceID     domain.Field[string]
	Description domain.Field[string]
}

// EventFilter narrows an event listing. Zero values mean no filter.
type EventFilter struct {
	EventType *domain.EventType
	PersonID  *string
	FamilyID  *string
}

// CreateEvent inserts an event after checking the target invariant: exactly
// one of person and family is set, and the event type matches the target
// side.
func (s *Store) CreateEvent(ctx context.Context, treeID string, input EventInput) (domain.Event, error) {
	if err := s.requireTree(ctx, treeID); err != nil {
		return domain.Event{}, err
	}
	if err := s.validateEventTarget(ctx, input.EventType, input.PersonID, input.FamilyID); err != nil {
		return domain.Event{}, err
	}
	if input.PlaceID != nil {
		if _, err := s.GetPlace(ctx, *input.PlaceID); err != nil {
			return domain.Event{}, err
		}
	}

	id, err := s.newID()
	if err != nil {
		return domain.Event{}, err
	}

	now := s.now()
	event := domain.Event{
		ID:          id,
		TreeID:      treeID,
		EventType:   input.EventType,
		DateValue:   input.DateValue,
		DateSort:    input.DateSort,
		PlaceID:     input.PlaceID,
		PersonID:    input.PersonID,
		FamilyID:    input.FamilyID,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		s.logError("event.create", err)
		return domain.Event{}, dbError(err)
	}
	return event, nil
}

// GetEvent returns a live event by id.
func (s *Store) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	return getByID[domain.Event](s, ctx, "Event", id)
}

// UpdateEvent applies a partial update and refreshes updated_at.
func (s *Store) UpdateEvent(ctx context.Context, id string, patch EventPatch) (domain.Event, error) {
	if patch.EventType.Present && patch.EventType.Null {
		return domain.Event{}, domain.ValidationError("event_type cannot be null")
	}

	existing, err := s.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if patch.EventType.Present {
		err := s.validateEventTarget(ctx, patch.EventType.Value, existing.PersonID, existing.FamilyID)
		if err != nil {
			return domain.Event{}, err
		}
	}
	if patch.PlaceID.Present && !patch.PlaceID.Null {
		if _, err := s.GetPlace(ctx, patch.PlaceID.Value); err != nil {
			return domain.Event{}, err
		}
	}

	updates := map[string]any{}
	patch.EventType.Apply(updates, "event_type")
	patch.DateValue.Apply(updates, "date_value")
	patch.DateSort.Apply(updates, "date_sort")
	patch.PlaceID.Apply(updates, "place_id")
	patch.Description.Apply(updates, "description")

	return applyUpdate[domain.Event](s, ctx, "Event", id, updates)
}

// DeleteEvent soft-deletes an event.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	return softDelete[domain.Event](s, ctx, "Event", id)
}

// ListEvents pages through a tree's live events in id order with optional
// equality filters.
func (s *Store) ListEvents(ctx context.Context, treeID string, filter EventFilter, params domain.PageParams) (domain.Connection[domain.Event], error) {
	return paginate(func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&domain.Event{}).Where("tree_id = ?", treeID)
		if filter.EventType != nil {
			query = query.Where("event_type = ?", *filter.EventType)
		}
		if filter.PersonID != nil {
			query = query.Where("person_id = ?", *filter.PersonID)
		}
		if filter.FamilyID != nil {
			query = query.Where("family_id = ?", *filter.FamilyID)
		}
		return query
	}, params, func(e domain.Event) string { return e.ID })
}

// validateEventTarget enforces the person-XOR-family invariant, checks the
// target exists, and rejects type/target mismatches. The "other" event type
// attaches to either side.
func (s *Store) validateEventTarget(ctx context.Context, eventType domain.EventType, personID, familyID *string) error {
	switch countTargets(personID, familyID) {
	case 0:
		return domain.ValidationError("event requires exactly one of person_id or family_id")
	case 2:
		return domain.ValidationError("event cannot reference both person_id and family_id")
	}
	if personID != nil {
		if eventType.IsFamily() {
			return domain.ValidationError("event type %s requires family_id, not person_id", eventType)
		}
		if _, err := s.GetPerson(ctx, *personID); err != nil {
			return err
		}
		return nil
	}
	if eventType.IsIndividual() {
		return domain.ValidationError("event type %s requires person_id, not family_id", eventType)
	}
	if _, err := s.GetFamily(ctx, *familyID); err != nil {
		return err
	}
	return nil
}
