package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

type createMediaRequest struct {
	FileName    string  `json:"file_name"`
	MimeType    string  `json:"mime_type"`
	FilePath    string  `json:"file_path"`
	FileSize    int64   `json:"file_size"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type updateMediaRequest struct {
	FileName    domain.Field[string] `json:"file_name"`
	MimeType    domain.Field[string] `json:"mime_type"`
	FilePath    domain.Field[string] `json:"file_path"`
	FileSize    domain.Field[int64]  `json:"file_size"`
	Title       domain.Field[string] `json:"title"`
	Description domain.Field[string] `json:"description"`
}

type createMediaLinkRequest struct {
	MediaID   string  `json:"media_id"`
	PersonID  *string `json:"person_id"`
	EventID   *string `json:"event_id"`
	SourceID  *string `json:"source_id"`
	FamilyID  *string `json:"family_id"`
	SortOrder int     `json:"sort_order"`
}

func (h *httpHandler) handleListMedia(c *gin.Context) {
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
	page, err := h.store.ListMedia(ctx, c.Param("tree_id"), params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *httpHandler) handleCreateMedia(c *gin.Context) {
	var payload createMediaRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	media, err := h.store.CreateMedia(c.Request.Context(), c.Param("tree_id"), store.MediaInput{
		FileName:    payload.FileName,
		MimeType:    payload.MimeType,
		FilePath:    payload.FilePath,
		FileSize:    payload.FileSize,
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, media)
}

func (h *httpHandler) handleGetMedia(c *gin.Context) {
	media, err := h.mediaInTree(c.Request.Context(), c.Param("tree_id"), c.Param("media_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

func (h *httpHandler) handleUpdateMedia(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.mediaInTree(ctx, c.Param("tree_id"), c.Param("media_id")); err != nil {
		h.writeError(c, err)
		return
	}
	var payload updateMediaRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	media, err := h.store.UpdateMedia(ctx, c.Param("media_id"), store.MediaPatch{
		FileName:    payload.FileName,
		MimeType:    payload.MimeType,
		FilePath:    payload.FilePath,
		FileSize:    payload.FileSize,
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

func (h *httpHandler) handleDeleteMedia(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.mediaInTree(ctx, c.Param("tree_id"), c.Param("media_id")); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeleteMedia(ctx, c.Param("media_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListMediaLinks(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.mediaInTree(ctx, c.Param("tree_id"), c.Param("media_id")); err != nil {
		h.writeError(c, err)
		return
	}
	links, err := h.store.ListMediaLinks(ctx, c.Param("media_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h *httpHandler) handleCreateMediaLink(c *gin.Context) {
	ctx := c.Request.Context()
	var payload createMediaLinkRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	if _, err := h.mediaInTree(ctx, c.Param("tree_id"), payload.MediaID); err != nil {
		h.writeError(c, err)
		return
	}
	link, err := h.store.CreateMediaLink(ctx, payload.MediaID, store.MediaLinkInput{
		PersonID:  payload.PersonID,
		EventID:   payload.EventID,
		SourceID:  payload.SourceID,
		FamilyID:  payload.FamilyID,
		SortOrder: payload.SortOrder,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *httpHandler) handleDeleteMediaLink(c *gin.Context) {
	ctx := c.Request.Context()
	link, err := h.mediaLinkInTree(ctx, c.Param("tree_id"), c.Param("link_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeleteMediaLink(ctx, link.ID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
