package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

type createTreeRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type updateTreeRequest struct {
	Name        domain.Field[string] `json:"name"`
	Description domain.Field[string] `json:"description"`
}

func (h *httpHandler) handleListTrees(c *gin.Context) {
	params, err := pageParams(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	page, err := h.store.ListTrees(c.Request.Context(), params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *httpHandler) handleCreateTree(c *gin.Context) {
	var payload createTreeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	tree, err := h.store.CreateTree(c.Request.Context(), payload.Name, payload.Description)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tree)
}

func (h *httpHandler) handleGetTree(c *gin.Context) {
	tree, err := h.store.GetTree(c.Request.Context(), c.Param("tree_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (h *httpHandler) handleUpdateTree(c *gin.Context) {
	var payload updateTreeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	tree, err := h.store.UpdateTree(c.Request.Context(), c.Param("tree_id"), store.TreePatch{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (h *httpHandler) handleDeleteTree(c *gin.Context) {
	if err := h.store.DeleteTree(c.Request.Context(), c.Param("tree_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
