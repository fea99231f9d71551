package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

type createSourceRequest struct {
	Title          string  `json:"title"`
	Author         *string `json:"author"`
	Publisher      *string `json:"publisher"`
	Abbreviation   *string `json:"abbreviation"`
	RepositoryName *string `json:"repository_name"`
}

type updateSourceRequest struct {
	Title          domain.Field[string] `json:"title"`
	Author         domain.Field[string] `json:"author"`
	Publisher      domain.Field[string] `json:"publisher"`
	Abbreviation   domain.Field[string] `json:"abbreviation"`
	RepositoryName domain.Field[string] `json:"repository_name"`
}

func (h *httpHandler) handleListSources(c *gin.Context) {
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
	page, err := h.store.ListSources(ctx, c.Param("tree_id"), params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *httpHandler) handleCreateSource(c *gin.Context) {
	var payload createSourceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	source, err := h.store.CreateSource(c.Request.Context(), c.Param("tree_id"), store.SourceInput{
		Title:          payload.Title,
		Author:         payload.Author,
		Publisher:      payload.Publisher,
		Abbreviation:   payload.Abbreviation,
		RepositoryName: payload.RepositoryName,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, source)
}

func (h *httpHandler) handleGetSource(c *gin.Context) {
	source, err := h.sourceInTree(c.Request.Context(), c.Param("tree_id"), c.Param("source_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, source)
}

func (h *httpHandler) handleUpdateSource(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.sourceInTree(ctx, c.Param("tree_id"), c.Param("source_id")); err != nil {
		h.writeError(c, err)
		return
	}
	var payload updateSourceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	source, err := h.store.UpdateSource(ctx, c.Param("source_id"), store.SourcePatch{
		Title:          payload.Title,
		Author:         payload.Author,
		Publisher:      payload.Publisher,
		Abbreviation:   payload.Abbreviation,
		RepositoryName: payload.RepositoryName,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, source)
}

func (h *httpHandler) handleDeleteSource(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.sourceInTree(ctx, c.Param("tree_id"), c.Param("source_id")); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeleteSource(ctx, c.Param("source_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
