package server

import (
	"context"

	"github.com/oxidgene/oxidgene/internal/domain"
)

// Every route is nested under a tree, but entities are addressed by globally
// unique ids. The helpers here resolve an entity and re-check its tree so an
// id from another tenant reads as NotFound rather than leaking.

func (h *httpHandler) personInTree(ctx context.Context, treeID, personID string) (domain.Person, error) {
	person, err := h.store.GetPerson(ctx, personID)
	if err != nil {
		return domain.Person{}, err
	}
	if person.TreeID != treeID {
		return domain.Person{}, domain.NotFoundError("Person", personID)
	}
	return person, nil
}

func (h *httpHandler) familyInTree(ctx context.Context, treeID, familyID string) (domain.Family, error) {
	family, err := h.store.GetFamily(ctx, familyID)
	if err != nil {
		return domain.Family{}, err
	}
	if family.TreeID != treeID {
		return domain.Family{}, domain.NotFoundError("Family", familyID)
	}
	return family, nil
}

func (h *httpHandler) eventInTree(ctx context.Context, treeID, eventID string) (domain.Event, error) {
	event, err := h.store.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	if event.TreeID != treeID {
		return domain.Event{}, domain.NotFoundError("Event", eventID)
	}
	return event, nil
}

func (h *httpHandler) placeInTree(ctx context.Context, treeID, placeID string) (domain.Place, error) {
	place, err := h.store.GetPlace(ctx, placeID)
	if err != nil {
		return domain.Place{}, err
	}
	if place.TreeID != treeID {
		return domain.Place{}, domain.NotFoundError("Place", placeID)
	}
	return place, nil
}

func (h *httpHandler) sourceInTree(ctx context.Context, treeID, sourceID string) (domain.Source, error) {
	source, err := h.store.GetSource(ctx, sourceID)
	if err != nil {
		return domain.Source{}, err
	}
	if source.TreeID != treeID {
		return domain.Source{}, domain.NotFoundError("Source", sourceID)
	}
	return source, nil
}

func (h *httpHandler) mediaInTree(ctx context.Context, treeID, mediaID string) (domain.Media, error) {
	media, err := h.store.GetMedia(ctx, mediaID)
	if err != nil {
		return domain.Media{}, err
	}
	if media.TreeID != treeID {
		return domain.Media{}, domain.NotFoundError("Media", mediaID)
	}
	return media, nil
}

func (h *httpHandler) noteInTree(ctx context.Context, treeID, noteID string) (domain.Note, error) {
	note, err := h.store.GetNote(ctx, noteID)
	if err != nil {
		return domain.Note{}, err
	}
	if note.TreeID != treeID {
		return domain.Note{}, domain.NotFoundError("Note", noteID)
	}
	return note, nil
}

// citationInTree scopes through the owning source, the only tree-bearing
// entity a citation always references.
func (h *httpHandler) citationInTree(ctx context.Context, treeID, citationID string) (domain.Citation, error) {
	citation, err := h.store.GetCitation(ctx, citationID)
	if err != nil {
		return domain.Citation{}, err
	}
	if _, err := h.sourceInTree(ctx, treeID, citation.SourceID); err != nil {
		return domain.Citation{}, domain.NotFoundError("Citation", citationID)
	}
	return citation, nil
}

func (h *httpHandler) mediaLinkInTree(ctx context.Context, treeID, linkID string) (domain.MediaLink, error) {
	link, err := h.store.GetMediaLink(ctx, linkID)
	if err != nil {
		return domain.MediaLink{}, err
	}
	if _, err := h.mediaInTree(ctx, treeID, link.MediaID); err != nil {
		return domain.MediaLink{}, domain.NotFoundError("MediaLink", linkID)
	}
	return link, nil
}

func (h *httpHandler) requireTree(ctx context.Context, treeID string) error {
	_, err := h.store.GetTree(ctx, treeID)
	return err
}
