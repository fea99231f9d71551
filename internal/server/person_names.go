package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

type createPersonNameRequest struct {
	NameType   string  `json:"name_type"`
	GivenNames *string `json:"given_names"`
	Surname    *string `json:"surname"`
	Prefix     *string `json:"prefix"`
	Suffix     *string `json:"suffix"`
	Nickname   *string `json:"nickname"`
	IsPrimary  bool    `json:"is_primary"`
}

type updatePersonNameRequest struct {
	NameType   domain.Field[string] `json:"name_type"`
	GivenNames domain.Field[string] `json:"given_names"`
	Surname    domain.Field[string] `json:"surname"`
	Prefix     domain.Field[string] `json:"prefix"`
	Suffix     domain.Field[string] `json:"suffix"`
	Nickname   domain.Field[string] `json:"nickname"`
	IsPrimary  domain.Field[bool]   `json:"is_primary"`
}

func (h *httpHandler) handleListPersonNames(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.personInTree(ctx, c.Param("tree_id"), c.Param("person_id")); err != nil {
		h.writeError(c, err)
		return
	}
	names, err := h.store.ListPersonNames(ctx, c.Param("person_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func (h *httpHandler) handleCreatePersonName(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.personInTree(ctx, c.Param("tree_id"), c.Param("person_id")); err != nil {
		h.writeError(c, err)
		return
	}
	var payload createPersonNameRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	nameType, err := parseEnum(payload.NameType, domain.ParseNameType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	name, err := h.store.CreatePersonName(ctx, c.Param("person_id"), store.PersonNameInput{
		NameType:   nameType,
		GivenNames: payload.GivenNames,
		Surname:    payload.Surname,
		Prefix:     payload.Prefix,
		Suffix:     payload.Suffix,
		Nickname:   payload.Nickname,
		IsPrimary:  payload.IsPrimary,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, name)
}

func (h *httpHandler) handleUpdatePersonName(c *gin.Context) {
	ctx := c.Request.Context()
	name, err := h.personNameInScope(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var payload updatePersonNameRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	nameType, err := parseEnumField(payload.NameType, domain.ParseNameType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	updated, err := h.store.UpdatePersonName(ctx, name.ID, store.PersonNamePatch{
		NameType:   nameType,
		GivenNames: payload.GivenNames,
		Surname:    payload.Surname,
		Prefix:     payload.Prefix,
		Suffix:     payload.Suffix,
		Nickname:   payload.Nickname,
		IsPrimary:  payload.IsPrimary,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *httpHandler) handleDeletePersonName(c *gin.Context) {
	name, err := h.personNameInScope(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeletePersonName(c.Request.Context(), name.ID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// personNameInScope resolves a name record and checks it hangs off the person
// and tree in the path.
func (h *httpHandler) personNameInScope(c *gin.Context) (domain.PersonName, error) {
	ctx := c.Request.Context()
	if _, err := h.personInTree(ctx, c.Param("tree_id"), c.Param("person_id")); err != nil {
		return domain.PersonName{}, err
	}
	name, err := h.store.GetPersonName(ctx, c.Param("name_id"))
	if err != nil {
		return domain.PersonName{}, err
	}
	if name.PersonID != c.Param("person_id") {
		return domain.PersonName{}, domain.NotFoundError("PersonName", c.Param("name_id"))
	}
	return name, nil
}
