package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/oxidgene/oxidgene/internal/database"
	"github.com/oxidgene/oxidgene/internal/domain"
)

// sequentialIDProvider issues valid UUIDv7-shaped identifiers in strictly
// ascending order so tests can predict pagination and export ordering.
type sequentialIDProvider struct {
	next int
}

func (g *sequentialIDProvider) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("00000000-0000-7000-8000-%012d", g.next), nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	testStore, err := NewStore(StoreConfig{
		Database:   db,
		Clock:      func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		IDProvider: &sequentialIDProvider{},
	})
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	return testStore
}

func mustCreateTree(t *testing.T, s *Store) domain.Tree {
	t.Helper()
	tree, err := s.CreateTree(context.Background(), "Test Tree", nil)
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	return tree
}

func mustCreatePerson(t *testing.T, s *Store, treeID string) domain.Person {
	t.Helper()
	person, err := s.CreatePerson(context.Background(), treeID, domain.SexUnknown)
	if err != nil {
		t.Fatalf("failed to create person: %v", err)
	}
	return person
}

func mustCreateFamily(t *testing.T, s *Store, treeID string) domain.Family {
	t.Helper()
	family, err := s.CreateFamily(context.Background(), treeID)
	if err != nil {
		t.Fatalf("failed to create family: %v", err)
	}
	return family
}

func mustAddSpouse(t *testing.T, s *Store, familyID, personID string) domain.FamilySpouse {
	t.Helper()
	spouse, err := s.AddSpouse(context.Background(), familyID, FamilySpouseInput{
		PersonID: personID,
		Role:     domain.SpouseRolePartner,
	})
	if err != nil {
		t.Fatalf("failed to add spouse: %v", err)
	}
	return spouse
}

func mustAddChild(t *testing.T, s *Store, familyID, personID string) domain.FamilyChild {
	t.Helper()
	child, err := s.AddChild(context.Background(), familyID, FamilyChildInput{
		PersonID:  personID,
		ChildType: domain.ChildTypeBiological,
	})
	if err != nil {
		t.Fatalf("failed to add child: %v", err)
	}
	return child
}

// linkParent wires parent -> child through a fresh single-parent family.
func linkParent(t *testing.T, s *Store, treeID, parentID, childID string) domain.Family {
	t.Helper()
	family := mustCreateFamily(t, s, treeID)
	mustAddSpouse(t, s, family.ID, parentID)
	mustAddChild(t, s, family.ID, childID)
	return family
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error, got nil")
	}
	if kind := domain.KindOf(err); kind != domain.ErrorKindValidation {
		t.Fatalf("expected validation error, got %s: %v", kind, err)
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected not-found error, got nil")
	}
	if kind := domain.KindOf(err); kind != domain.ErrorKindNotFound {
		t.Fatalf("expected not-found error, got %s: %v", kind, err)
	}
}

func strPtr(value string) *string { return &value }
