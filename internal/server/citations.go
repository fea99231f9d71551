package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxidgene/oxidgene/internal/domain"
	"github.com/oxidgene/oxidgene/internal/store"
)

type createCitationRequest struct {
	SourceID   string  `json:"source_id"`
	PersonID   *string `json:"person_id"`
	EventID    *string `json:"event_id"`
	FamilyID   *string `json:"family_id"`
	Page       *string `json:"page"`
	Confidence *string `json:"confidence"`
	Text       *string `json:"text"`
}

type updateCitationRequest struct {
	Page       domain.Field[string] `json:"page"`
	Confidence domain.Field[string] `json:"confidence"`
	Text       domain.Field[string] `json:"text"`
}

func (h *httpHandler) handleListCitations(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.sourceInTree(ctx, c.Param("tree_id"), c.Param("source_id")); err != nil {
		h.writeError(c, err)
		return
	}
	citations, err := h.store.ListCitations(ctx, c.Param("source_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, citations)
}

func (h *httpHandler) handleCreateCitation(c *gin.Context) {
	ctx := c.Request.Context()
	var payload createCitationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	if _, err := h.sourceInTree(ctx, c.Param("tree_id"), payload.SourceID); err != nil {
		h.writeError(c, err)
		return
	}
	confidence := domain.ConfidenceNormal
	if payload.Confidence != nil {
		parsed, err := parseEnum(*payload.Confidence, domain.ParseConfidence)
		if err != nil {
			h.writeError(c, err)
			return
		}
		confidence = parsed
	}
	citation, err := h.store.CreateCitation(ctx, store.CitationInput{
		SourceID:   payload.SourceID,
		PersonID:   payload.PersonID,
		EventID:    payload.EventID,
		FamilyID:   payload.FamilyID,
		Page:       payload.Page,
		Confidence: confidence,
		Text:       payload.Text,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, citation)
}

func (h *httpHandler) handleGetCitation(c *gin.Context) {
	citation, err := h.citationInTree(c.Request.Context(), c.Param("tree_id"), c.Param("citation_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, citation)
}

func (h *httpHandler) handleUpdateCitation(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.citationInTree(ctx, c.Param("tree_id"), c.Param("citation_id")); err != nil {
		h.writeError(c, err)
		return
	}
	var payload updateCitationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	confidence, err := parseEnumField(payload.Confidence, domain.ParseConfidence)
	if err != nil {
		h.writeError(c, err)
		return
	}
	citation, err := h.store.UpdateCitation(ctx, c.Param("citation_id"), store.CitationPatch{
		Page:       payload.Page,
		Confidence: confidence,
		Text:       payload.Text,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, citation)
}

func (h *httpHandler) handleDeleteCitation(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.citationInTree(ctx, c.Param("tree_id"), c.Param("citation_id")); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.store.DeleteCitation(ctx, c.Param("citation_id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
