package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

type createNoteRequest struct {
	Text     string  `json:"text"`
	PersonID *string `json:"person_id"`
	EventID  *string `json:"event_id"`
	FamilyID *string `json:"family_id"`
	SourceID *string `json:"source_id"`
}

type updateNoteRequest struct {
	Text domain.Field[string] `json:"text"`
}

func (h *httpHandler) handleListNotes(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.requireTree(ctx, c.Param("tree_id")); err != nil {
		h.writeError(c, err)
		return
	}
	params, err := pageParams(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	filter := store.NoteFilter{
		PersonID: queryPtr(c, "person_id"),
		EventID:  queryPtr(c, "event_id"),
		FamilyID: queryPtr(c, "family_id"),
		SourceID: queryPtr(c, "source_id"),
	}
	page, err := h.store.ListNotes(ctx, c.Param("tree_id"), filter, params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *httpHandler) handleCreateNote(c *gin.Context) {
	var payload createNoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	note, err := h.store.CreateNote(c.Request.Context(), c.Param("tree_id"), store.NoteInput{
		Text:     payload.Text,
		PersonID: payload.PersonID,
		EventID:  payload.EventID,
		FamilyID: payload.FamilyID,
		SourceID: payload.SourceID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *httpHandler) handleGetNote(c *gin.Context) {
	note, err := h.noteInTree(c.Request.Context(), c.Param("tree_id"), c.Param("note_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *httpHandler) handleUpdateNote(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.noteInTree(ctx, c.Param("tree_id"), c.Param("note_id")); err != nil {
		h.writeError(c, err)
		return
	}
	var payload updateNoteRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	note, err := h.store.UpdateNote(ctx, c.Param("note_id"), store.NotePatch{Text: payload.Text})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *httpHandler) handleDeleteNote(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.noteInTree(ctx, c.Param("tree_id"), c.Param("note_id")); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeleteNote(ctx, c.Param("note_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
