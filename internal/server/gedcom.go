package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oxidgene/oxidgene/internal/domain"
)

type importGedcomRequest struct {
	Gedcom string `json:"gedcom"`
}

func (h *httpHandler) handleImportGedcom(c *gin.Context) {
	var payload importGedcomRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.invalidBody(c, err)
		return
	}
	if strings.TrimSpace(payload.Gedcom) == "" {
		h.writeError(c, domain.ValidationError("gedcom content is required"))
		return
	}
	summary, err := h.store.ImportGedcom(c.Request.Context(), c.Param("tree_id"), payload.Gedcom)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (h *httpHandler) handleExportGedcom(c *gin.Context) {
	data, err := h.store.ExportGedcom(c.Request.Context(), c.Param("tree_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
