package store

import (
	"context"
	"testing"

	"github.com/oxidgene/oxidgene/internal/domain"
)

func TestCreateTreeRequiresName(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateTree(context.Background(), "   ", nil)
	assertValidation(t, err)
}

func TestUpdateTreeAppliesPartialPatch(t *testing.T) {
	s := newTestStore(t)
	tree, err := s.CreateTree(context.Background(), "Ancestry", strPtr("first draft"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := s.UpdateTree(context.Background(), tree.ID, TreePatch{
		Name: domain.Set("Family Ancestry"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Family Ancestry" {
		t.Fatalf("expected name to change, got %q", updated.Name)
	}
	if updated.Description == nil || *updated.Description != "first draft" {
		t.Fatalf("untouched description should survive, got %#v", updated.Description)
	}
	if !updated.UpdatedAt.After(tree.UpdatedAt) && !updated.UpdatedAt.Equal(tree.UpdatedAt) {
		t.Fatalf("updated_at went backwards")
	}
}

func TestUpdateTreeClearsDescriptionOnExplicitNull(t *testing.T) {
	s := newTestStore(t)
	tree, err := s.CreateTree(context.Background(), "Ancestry", strPtr("to be removed"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := s.UpdateTree(context.Background(), tree.ID, TreePatch{
		Description: domain.SetNull[string](),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description != nil {
		t.Fatalf("expected description cleared, got %q", *updated.Description)
	}
	if updated.Name != "Ancestry" {
		t.Fatalf("name should be untouched, got %q", updated.Name)
	}
}

func TestUpdateTreeRejectsNullName(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)
	_, err := s.UpdateTree(context.Background(), tree.ID, TreePatch{
		Name: domain.SetNull[string](),
	})
	assertValidation(t, err)
}

func TestDeleteTreeHidesItFromReads(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)

	if err := s.DeleteTree(context.Background(), tree.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := s.GetTree(context.Background(), tree.ID)
	assertNotFound(t, err)

	// Deleting again reports NotFound, not success.
	assertNotFound(t, s.DeleteTree(context.Background(), tree.ID))
}

func TestListTreesExcludesDeleted(t *testing.T) {
	s := newTestStore(t)
	kept := mustCreateTree(t, s)
	removed := mustCreateTree(t, s)
	if err := s.DeleteTree(context.Background(), removed.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page, err := s.ListTrees(context.Background(), domain.PageParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Edges) != 1 {
		t.Fatalf("expected 1 tree, got %d", len(page.Edges))
	}
	if page.Edges[0].Node.ID != kept.ID {
		t.Fatalf("expected surviving tree %s, got %s", kept.ID, page.Edges[0].Node.ID)
	}
	if page.TotalCount != 1 {
		t.Fatalf("expected total 1, got %d", page.TotalCount)
	}
}
