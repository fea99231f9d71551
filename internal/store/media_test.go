package store

import (
	"context"
	"testing"

	"github.com/oxidgene/oxidgene/internal/domain"
)

func mustCreateMedia(t *testing.T, s *Store, treeID string) domain.Media {
	t.Helper()
	media, err := s.CreateMedia(context.Background(), treeID, MediaInput{
		FileName: "portrait.jpg",
		MimeType: "image/jpeg",
		FilePath: "media/portrait.jpg",
		FileSize: 2048,
	})
	if err != nil {
		t.Fatalf("failed to create media: %v", err)
	}
	return media
}

func TestCreateMediaRequiresFileNameAndPath(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)

	_, err := s.CreateMedia(context.Background(), tree.ID, MediaInput{FilePath: "a/b"})
	assertValidation(t, err)
	_, err = s.CreateMedia(context.Background(), tree.ID, MediaInput{FileName: "b"})
	assertValidation(t, err)
}

func TestMediaLinkAcceptsAtMostOneTarget(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)
	media := mustCreateMedia(t, s, tree.ID)
	person := mustCreatePerson(t, s, tree.ID)
	family := mustCreateFamily(t, s, tree.ID)

	_, err := s.CreateMediaLink(context.Background(), media.ID, MediaLinkInput{
		PersonID: &person.ID,
		FamilyID: &family.ID,
	})
	assertValidation(t, err)

	// A free-floating link with no target is legal.
	if _, err := s.CreateMediaLink(context.Background(), media.ID, MediaLinkInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteMediaRemovesLinks(t *testing.T) {
	s := newTestStore(t)
	tree := mustCreateTree(t, s)
	media := mustCreateMedia(t, s, tree.ID)
	person := mustCreatePerson(t, s, tree.ID)

	if _, err := s.CreateMediaLink(context.Background(), media.ID, MediaLinkInput{PersonID: &person.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.DeleteMedia(context.Background(), media.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := s.GetMedia(context.Background(), media.ID)
	assertNotFound(t, err)

	var linkCount int64
	if err := s.db.Model(&domain.MediaLink{}).Where("media_id = ?", media.ID).Count(&linkCount).Error; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if linkCount != 0 {
		t.Fatalf("expected links hard-deleted with media, %d remain", linkCount)
	}
}
