package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

type addSpouseRequest struct {
	PersonID  string `json:"person_id"`
	Role      string `json:"role"`
	SortOrder int    `json:"sort_order"`
}

type addChildRequest struct {
	PersonID  string  `json:"person_id"`
	ChildType *string `json:"child_type"`
	SortOrder int     `json:"sort_order"`
}

func (h *httpHandler) handleListFamilies(c *gin.Context) {
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
	page, err := h.store.ListFamilies(ctx, c.Param("tree_id"), params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *httpHandler) handleCreateFamily(c *gin.Context) {
	family, err := h.store.CreateFamily(c.Request.Context(), c.Param("tree_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, family)
}

func (h *httpHandler) handleGetFamily(c *gin.Context) {
	family, err := h.familyInTree(c.Request.Context(), c.Param("tree_id"), c.Param("family_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, family)
}

// handleUpdateFamily bumps updated_at. A family has no columns of its own to
// edit; the operation exists so clients can mark the union as touched.
func (h *httpHandler) handleUpdateFamily(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.familyInTree(ctx, c.Param("tree_id"), c.Param("family_id")); err != nil {
		h.writeError(c, err)
		return
	}
	family, err := h.store.TouchFamily(ctx, c.Param("family_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, family)
}

func (h *httpHandler) handleDeleteFamily(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.familyInTree(ctx, c.Param("tree_id"), c.Param("family_id")); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeleteFamily(ctx, c.Param("family_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListSpouses(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.familyInTree(ctx, c.Param("tree_id"), c.Param("family_id")); err != nil {
		h.writeError(c, err)
		return
	}
	spouses, err := h.store.ListSpouses(ctx, c.Param("family_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, spouses)
}

func (h *httpHandler) handleAddSpouse(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.familyInTree(ctx, c.Param("tree_id"), c.Param("family_id")); err != nil {
		h.writeError(c, err)
		return
	}
	var payload addSpouseRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	role, err := parseEnum(payload.Role, domain.ParseSpouseRole)
	if err != nil {
		h.writeError(c, err)
		return
	}
	spouse, err := h.store.AddSpouse(ctx, c.Param("family_id"), store.FamilySpouseInput{
		PersonID:  payload.PersonID,
		Role:      role,
		SortOrder: payload.SortOrder,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, spouse)
}

func (h *httpHandler) handleRemoveSpouse(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.familyInTree(ctx, c.Param("tree_id"), c.Param("family_id")); err != nil {
		h.writeError(c, err)
		return
	}
	spouse, err := h.store.GetFamilySpouse(ctx, c.Param("spouse_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if spouse.FamilyID != c.Param("family_id") {
		h.writeError(c, domain.NotFoundError("FamilySpouse", c.Param("spouse_id")))
		return
	}
	if err := h.store.RemoveSpouse(ctx, spouse.ID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListChildren(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.familyInTree(ctx, c.Param("tree_id"), c.Param("family_id")); err != nil {
		h.writeError(c, err)
		return
	}
	children, err := h.store.ListChildren(ctx, c.Param("family_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, children)
}

func (h *httpHandler) handleAddChild(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.familyInTree(ctx, c.Param("tree_id"), c.Param("family_id")); err != nil {
		h.writeError(c, err)
		return
	}
	var payload addChildRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	childType := domain.ChildTypeBiological
	if payload.ChildType != nil {
		parsed, err := parseEnum(*payload.ChildType, domain.ParseChildType)
		if err != nil {
			h.writeError(c, err)
			return
		}
		childType = parsed
	}
	child, err := h.store.AddChild(ctx, c.Param("family_id"), store.FamilyChildInput{
		PersonID:  payload.PersonID,
		ChildType: childType,
		SortOrder: payload.SortOrder,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, child)
}

func (h *httpHandler) handleRemoveChild(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.familyInTree(ctx, c.Param("tree_id"), c.Param("family_id")); err != nil {
		h.writeError(c, err)
		return
	}
	child, err := h.store.GetFamilyChild(ctx, c.Param("child_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if child.FamilyID != c.Param("family_id") {
		h.writeError(c, domain.NotFoundError("FamilyChild", c.Param("child_id")))
		return
	}
	if err := h.store.RemoveChild(ctx, child.ID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
