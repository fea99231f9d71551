package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

type createPlaceRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type updatePlaceRequest struct {
	Name      domain.Field[string]  `json:"name"`
	Latitude  domain.Field[float64] `json:"latitude"`
	Longitude domain.Field[float64] `json:"longitude"`
}

func (h *httpHandler) handleListPlaces(c *gin.Context) {
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
	search := strings.TrimSpace(c.Query("search"))
	page, err := h.store.ListPlaces(ctx, c.Param("tree_id"), search, params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *httpHandler) handleCreatePlace(c *gin.Context) {
	var payload createPlaceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	place, err := h.store.CreatePlace(c.Request.Context(), c.Param("tree_id"), store.PlaceInput{
		Name:      payload.Name,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, place)
}

func (h *httpHandler) handleGetPlace(c *gin.Context) {
	place, err := h.placeInTree(c.Request.Context(), c.Param("tree_id"), c.Param("place_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *httpHandler) handleUpdatePlace(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.placeInTree(ctx, c.Param("tree_id"), c.Param("place_id")); err != nil {
		h.writeError(c, err)
		return
	}
	var payload updatePlaceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	place, err := h.store.UpdatePlace(ctx, c.Param("place_id"), store.PlacePatch{
		Name:      payload.Name,
		Latitude:  payload.Latitude,
		Longitude: payload.Longitude,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *httpHandler) handleDeletePlace(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.placeInTree(ctx, c.Param("tree_id"), c.Param("place_id")); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeletePlace(ctx, c.Param("place_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
