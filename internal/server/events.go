package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

type createEventRequest struct {
	EventType   string     `json:"event_type"`
	DateValue   *string    `json:"date_value"`
	DateSort    *time.Time `json:"date_sort"`
	PlaceID     *string    `json:"place_id"`
	PersonID    *string    `json:"person_id"`
	FamilyID    *string    `json:"family_id"`
	Description *string    `json:"description"`
}

type updateEventRequest struct {
	EventType   domain.Field[string]    `json:"event_type"`
	DateValue   domain.Field[string]    `json:"date_value"`
	DateSort    domain.Field[time.Time] `json:"date_sort"`
	PlaceID     domain.Field[string]    `json:"place_id"`
	Description domain.Field[string]    `json:"description"`
}

func (h *httpHandler) handleListEvents(c *gin.Context) {
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
	filter := store.EventFilter{
		PersonID: queryPtr(c, "person_id"),
		FamilyID: queryPtr(c, "family_id"),
	}
	if raw := queryPtr(c, "event_type"); raw != nil {
		eventType, err := parseEnum(*raw, domain.ParseEventType)
		if err != nil {
			h.writeError(c, err)
			return
		}
		filter.EventType = &eventType
	}
	page, err := h.store.ListEvents(ctx, c.Param("tree_id"), filter, params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *httpHandler) handleCreateEvent(c *gin.Context) {
	var payload createEventRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	eventType, err := parseEnum(payload.EventType, domain.ParseEventType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	event, err := h.store.CreateEvent(c.Request.Context(), c.Param("tree_id"), store.EventInput{
		EventType:   eventType,
		DateValue:   payload.DateValue,
		DateSort:    payload.DateSort,
		PlaceID:     payload.PlaceID,
		PersonID:    payload.PersonID,
		FamilyID:    payload.FamilyID,
		Description: payload.Description,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *httpHandler) handleGetEvent(c *gin.Context) {
	event, err := h.eventInTree(c.Request.Context(), c.Param("tree_id"), c.Param("event_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *httpHandler) handleUpdateEvent(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.eventInTree(ctx, c.Param("tree_id"), c.Param("event_id")); err != nil {
		h.writeError(c, err)
		return
	}
	var payload updateEventRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	eventType, err := parseEnumField(payload.EventType, domain.ParseEventType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	event, err := h.store.UpdateEvent(ctx, c.Param("event_id"), store.EventPatch{
		EventType:   eventType,
		DateValue:   payload.DateValue,
		DateSort:    payload.DateSort,
		PlaceID:     payload.PlaceID,
		Description: payload.Description,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *httpHandler) handleDeleteEvent(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.eventInTree(ctx, c.Param("tree_id"), c.Param("event_id")); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeleteEvent(ctx, c.Param("event_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
