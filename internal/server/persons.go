package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

type createPersonRequest struct {
	Sex *string `json:"sex"`
}

type updatePersonRequest struct {
	Sex domain.Field[string] `json:"sex"`
}

// ancestryNode is one hop of an ancestry listing, ordered by depth.
type ancestryNode struct {
	PersonID string `json:"person_id"`
	Depth    int    `json:"depth"`
}

func (h *httpHandler) handleListPersons(c *gin.Context) {
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
	page, err := h.store.ListPersons(ctx, c.Param("tree_id"), params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *httpHandler) handleCreatePerson(c *gin.Context) {
	var payload createPersonRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	sex := domain.SexUnknown
	if payload.Sex != nil {
		parsed, err := parseEnum(*payload.Sex, domain.ParseSex)
		if err != nil {
			h.writeError(c, err)
			return
		}
		sex = parsed
	}
	person, err := h.store.CreatePerson(c.Request.Context(), c.Param("tree_id"), sex)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, person)
}

func (h *httpHandler) handleGetPerson(c *gin.Context) {
	person, err := h.personInTree(c.Request.Context(), c.Param("tree_id"), c.Param("person_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

func (h *httpHandler) handleUpdatePerson(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.personInTree(ctx, c.Param("tree_id"), c.Param("person_id")); err != nil {
		h.writeError(c, err)
		return
	}
	var payload updatePersonRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	sex, err := parseEnumField(payload.Sex, domain.ParseSex)
	if err != nil {
		h.writeError(c, err)
		return
	}
	person, err := h.store.UpdatePerson(ctx, c.Param("person_id"), store.PersonPatch{Sex: sex})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, person)
}

func (h *httpHandler) handleDeletePerson(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.personInTree(ctx, c.Param("tree_id"), c.Param("person_id")); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeletePerson(ctx, c.Param("person_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleAncestors(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.personInTree(ctx, c.Param("tree_id"), c.Param("person_id")); err != nil {
		h.writeError(c, err)
		return
	}
	maxDepth, err := maxDepthParam(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	rows, err := h.store.Ancestors(ctx, c.Param("person_id"), maxDepth)
	if err != nil {
		h.writeError(c, err)
		return
	}
	nodes := make([]ancestryNode, 0, len(rows))
	for _, row := range rows {
		nodes = append(nodes, ancestryNode{PersonID: row.AncestorID, Depth: row.Depth})
	}
	c.JSON(http.StatusOK, nodes)
}

func (h *httpHandler) handleDescendants(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.personInTree(ctx, c.Param("tree_id"), c.Param("person_id")); err != nil {
		h.writeError(c, err)
		return
	}
	maxDepth, err := maxDepthParam(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	rows, err := h.store.Descendants(ctx, c.Param("person_id"), maxDepth)
	if err != nil {
		h.writeError(c, err)
		return
	}
	nodes := make([]ancestryNode, 0, len(rows))
	for _, row := range rows {
		nodes = append(nodes, ancestryNode{PersonID: row.DescendantID, Depth: row.Depth})
	}
	c.JSON(http.StatusOK, nodes)
}
