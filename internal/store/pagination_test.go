package store

import (
	"context"
	"testing"

	"github.com/oxidgene/oxidgene/internal/domain"
)

func TestPaginationWalksFullSetAtBoundary(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)
	for i := 0; i < 101; i++ {
		mustCreatePerson(t, s, tree.ID)
	}

	first, err := s.ListPersons(context.Background(), tree.ID, domain.PageParams{First: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Edges) != 100 {
		t.Fatalf("expected 100 edges, got %d", len(first.Edges))
	}
	if !first.PageInfo.HasNextPage {
		t.Fatalf("expected a next page")
	}
	if first.TotalCount != 101 {
		t.Fatalf("expected total 101, got %d", first.TotalCount)
	}

	second, err := s.ListPersons(context.Background(), tree.ID, domain.PageParams{
		First: 100,
		After: *first.PageInfo.EndCursor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Edges) != 1 {
		t.Fatalf("expected 1 remaining edge, got %d", len(second.Edges))
	}
	if second.PageInfo.HasNextPage {
		t.Fatalf("expected no page after the last")
	}
	if second.Edges[0].Node.ID == first.Edges[99].Node.ID {
		t.Fatalf("pages overlap")
	}
}

func TestPaginationClampsFirst(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)
	for i := 0; i < 30; i++ {
		mustCreatePerson(t, s, tree.ID)
	}

	// Zero falls back to the default page size.
	page, err := s.ListPersons(context.Background(), tree.ID, domain.PageParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Edges) != domain.DefaultPageSize {
		t.Fatalf("expected default page of %d, got %d", domain.DefaultPageSize, len(page.Edges))
	}

	// Oversized requests clamp to the maximum.
	page, err = s.ListPersons(context.Background(), tree.ID, domain.PageParams{First: 10_000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Edges) != 30 {
		t.Fatalf("expected all 30 rows under the max, got %d", len(page.Edges))
	}

	// Negative requests clamp up to one.
	page, err = s.ListPersons(context.Background(), tree.ID, domain.PageParams{First: -5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Edges) != 1 {
		t.Fatalf("expected single row for negative first, got %d", len(page.Edges))
	}
}

func TestPaginationRejectsMalformedCursor(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)
	_, err := s.ListPersons(context.Background(), tree.ID, domain.PageParams{After: "not-a-uuid"})
	assertValidation(t, err)
}

func TestPaginationOrdersByIDAscending(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)
	for i := 0; i < 5; i++ {
		mustCreatePerson(t, s, tree.ID)
	}

	page, err := s.ListPersons(context.Background(), tree.ID, domain.PageParams{First: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(page.Edges); i++ {
		if page.Edges[i-1].Node.ID >= page.Edges[i].Node.ID {
			t.Fatalf("ids not strictly ascending at index %d", i)
		}
	}
}
