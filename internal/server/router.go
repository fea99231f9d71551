package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oxidgene/oxidgene/internal/store"
)

var errMissingStore = errors.New("store dependency required")

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	Store      *store.Store
	Logger     *zap.Logger
	CORSOrigin string
}

// NewHTTPHandler assembles the REST surface under /api/v1/trees.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Store == nil {
		return nil, errMissingStore
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	origin := deps.CORSOrigin
	if origin == "" {
		origin = "*"
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{origin},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{store: deps.Store, logger: logger}

	router.GET("/healthz", handler.handleHealth)

	trees := router.Group("/api/v1/trees")
	trees.GET("", handler.handleListTrees)
	trees.POST("", handler.handleCreateTree)
	trees.GET("/:tree_id", handler.handleGetTree)
	trees.PUT("/:tree_id", handler.handleUpdateTree)
	trees.DELETE("/:tree_id", handler.handleDeleteTree)

	trees.GET("/:tree_id/persons", handler.handleListPersons)
	trees.POST("/:tree_id/persons", handler.handleCreatePerson)
	trees.GET("/:tree_id/persons/:person_id", handler.handleGetPerson)
	trees.PUT("/:tree_id/persons/:person_id", handler.handleUpdatePerson)
	trees.DELETE("/:tree_id/persons/:person_id", handler.handleDeletePerson)
	trees.GET("/:tree_id/persons/:person_id/ancestors", handler.handleAncestors)
	trees.GET("/:tree_id/persons/:person_id/descendants", handler.handleDescendants)

	trees.GET("/:tree_id/persons/:person_id/names", handler.handleListPersonNames)
	trees.POST("/:tree_id/persons/:person_id/names", handler.handleCreatePersonName)
	trees.PUT("/:tree_id/persons/:person_id/names/:name_id", handler.handleUpdatePersonName)
	trees.DELETE("/:tree_id/persons/:person_id/names/:name_id", handler.handleDeletePersonName)

	trees.GET("/:tree_id/families", handler.handleListFamilies)
	trees.POST("/:tree_id/families", handler.handleCreateFamily)
	trees.GET("/:tree_id/families/:family_id", handler.handleGetFamily)
	trees.PUT("/:tree_id/families/:family_id", handler.handleUpdateFamily)
	trees.DELETE("/:tree_id/families/:family_id", handler.handleDeleteFamily)

	trees.GET("/:tree_id/families/:family_id/spouses", handler.handleListSpouses)
	trees.POST("/:tree_id/families/:family_id/spouses", handler.handleAddSpouse)
	trees.DELETE("/:tree_id/families/:family_id/spouses/:spouse_id", handler.handleRemoveSpouse)
	trees.GET("/:tree_id/families/:family_id/children", handler.handleListChildren)
	trees.POST("/:tree_id/families/:family_id/children", handler.handleAddChild)
	trees.DELETE("/:tree_id/families/:family_id/children/:child_id", handler.handleRemoveChild)

	trees.GET("/:tree_id/events", handler.handleListEvents)
	trees.POST("/:tree_id/events", handler.handleCreateEvent)
	trees.GET("/:tree_id/events/:event_id", handler.handleGetEvent)
	trees.PUT("/:tree_id/events/:event_id", handler.handleUpdateEvent)
	trees.DELETE("/:tree_id/events/:event_id", handler.handleDeleteEvent)

	trees.GET("/:tree_id/places", handler.handleListPlaces)
	trees.POST("/:tree_id/places", handler.handleCreatePlace)
	trees.GET("/:tree_id/places/:place_id", handler.handleGetPlace)
	trees.PUT("/:tree_id/places/:place_id", handler.handleUpdatePlace)
	trees.DELETE("/:tree_id/places/:place_id", handler.handleDeletePlace)

	trees.GET("/:tree_id/sources", handler.handleListSources)
	trees.POST("/:tree_id/sources", handler.handleCreateSource)
	trees.GET("/:tree_id/sources/:source_id", handler.handleGetSource)
	trees.PUT("/:tree_id/sources/:source_id", handler.handleUpdateSource)
	trees.DELETE("/:tree_id/sources/:source_id", handler.handleDeleteSource)
	trees.GET("/:tree_id/sources/:source_id/citations", handler.handleListCitations)

	trees.POST("/:tree_id/citations", handler.handleCreateCitation)
	trees.GET("/:tree_id/citations/:citation_id", handler.handleGetCitation)
	trees.PUT("/:tree_id/citations/:citation_id", handler.handleUpdateCitation)
	trees.DELETE("/:tree_id/citations/:citation_id", handler.handleDeleteCitation)

	trees.GET("/:tree_id/media", handler.handleListMedia)
	trees.POST("/:tree_id/media", handler.handleCreateMedia)
	trees.GET("/:tree_id/media/:media_id", handler.handleGetMedia)
	trees.PUT("/:tree_id/media/:media_id", handler.handleUpdateMedia)
	trees.DELETE("/:tree_id/media/:media_id", handler.handleDeleteMedia)
	trees.GET("/:tree_id/media/:media_id/links", handler.handleListMediaLinks)

	trees.POST("/:tree_id/media-links", handler.handleCreateMediaLink)
	trees.DELETE("/:tree_id/media-links/:link_id", handler.handleDeleteMediaLink)

	trees.GET("/:tree_id/notes", handler.handleListNotes)
	trees.POST("/:tree_id/notes", handler.handleCreateNote)
	trees.GET("/:tree_id/notes/:note_id", handler.handleGetNote)
	trees.PUT("/:tree_id/notes/:note_id", handler.handleUpdateNote)
	trees.DELETE("/:tree_id/notes/:note_id", handler.handleDeleteNote)

	trees.POST("/:tree_id/import", handler.handleImportGedcom)
	trees.GET("/:tree_id/export", handler.handleExportGedcom)

	return router, nil
}

type httpHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
