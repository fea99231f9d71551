package store

import (
	"context"
	"testing"

	"github.com/oxidgene/oxidgene/internal/domain"
)

func TestCreatePrimaryNameDemotesPreviousPrimary(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)
	person := mustCreatePerson(t, s, tree.ID)

	first, err := s.CreatePersonName(context.Background(), person.ID, PersonNameInput{
		NameType:  domain.NameTypeBirth,
		Surname:   strPtr("Curie"),
		IsPrimary: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.CreatePersonName(context.Background(), person.ID, PersonNameInput{
		NameType:  domain.NameTypeMarried,
		Surname:   strPtr("Sklodowska-Curie"),
		IsPrimary: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloadedFirst, err := s.GetPersonName(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloadedFirst.IsPrimary {
		t.Fatalf("previous primary name should have been demoted")
	}
	if !second.IsPrimary {
		t.Fatalf("new name should be primary")
	}
}

func TestPromoteNameDemotesSiblings(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)
	person := mustCreatePerson(t, s, tree.ID)

	first, err := s.CreatePersonName(context.Background(), person.ID, PersonNameInput{
		NameType:  domain.NameTypeBirth,
		Surname:   strPtr("Darwin"),
		IsPrimary: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.CreatePersonName(context.Background(), person.ID, PersonNameInput{
		NameType: domain.NameTypeNickname,
		Nickname: strPtr("Charlie"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	promoted, err := s.UpdatePersonName(context.Background(), second.ID, PersonNamePatch{
		IsPrimary: domain.Set(true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !promoted.IsPrimary {
		t.Fatalf("expected name promoted to primary")
	}

	demoted, err := s.GetPersonName(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if demoted.IsPrimary {
		t.Fatalf("expected previous primary demoted")
	}
}

func TestListPersonNamesPrimaryFirst(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)
	person := mustCreatePerson(t, s, tree.ID)

	if _, err := s.CreatePersonName(context.Background(), person.ID, PersonNameInput{
		NameType: domain.NameTypeNickname,
		Nickname: strPtr("Lise"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	primary, err := s.CreatePersonName(context.Background(), person.ID, PersonNameInput{
		NameType:  domain.NameTypeBirth,
		Surname:   strPtr("Meitner"),
		IsPrimary: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names, err := s.ListPersonNames(context.Background(), person.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %d", len(names))
	}
	if names[0].ID != primary.ID {
		t.Fatalf("expected primary name first, got %s", names[0].ID)
	}
}

func TestUpdatePersonNameRejectsNullType(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)
	person := mustCreatePerson(t, s, tree.ID)
	name, err := s.CreatePersonName(context.Background(), person.ID, PersonNameInput{
		NameType: domain.NameTypeBirth,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = s.UpdatePersonName(context.Background(), name.ID, PersonNamePatch{
		NameType: domain.SetNull[domain.NameType](),
	})
	assertValidation(t, err)
}
