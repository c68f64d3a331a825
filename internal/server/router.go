package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mindtreelog/collectibles/internal/collections"
)

var errMissingCollectionsService = errors.New("collections service dependency required")

// Dependencies wires the reconciliation service and logger into the router.
type Dependencies struct {
	Collections *collections.Service
	Logger      *zap.Logger
}

// NewHTTPHandler builds the gin router serving the collections API.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Collections == nil {
		return nil, errMissingCollectionsService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	handler := &httpHandler{
		collections: deps.Collections,
		logger:      logger,
	}

	router.GET("/", handler.handleHome)
	router.GET("/collections/:kind", handler.handleList)
	router.POST("/collections/:kind", handler.handleAdd)
	router.POST("/collections/:kind/items/:id/delete", handler.handleDelete)
	router.POST("/collections/:kind/items/:id/resync", handler.handleResync)

	// Legacy paths kept for bookmarked clients.
	router.GET("/list", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/collections/youtube")
	})
	router.GET("/xlist", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/collections/twitter")
	})

	return router, nil
}

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	})
}

type httpHandler struct {
	collections *collections.Service
	logger      *zap.Logger
}

type addRequestPayload struct {
	ItemURL string `json:"item_url"`
}

type listResponsePayload struct {
	Kind  string `json:"kind"`
	Items any    `json:"items"`
}

type noticeResponsePayload struct {
	Notice collections.Outcome `json:"notice"`
}

func (h *httpHandler) handleHome(c *gin.Context) {
	c.Redirect(http.StatusFound, "/collections/youtube")
}

func (h *httpHandler) handleList(c *gin.Context) {
	kind, err := collections.ParseKind(c.Param("kind"))
	if err != nil {
		// The unified list view falls back to the default collection
		// rather than erroring on a bad bookmark.
		c.Redirect(http.StatusFound, "/collections/youtube")
		return
	}

	items, err := h.listItems(c, kind)
	if err != nil {
		h.respondServiceError(c, "list operation failed", err)
		return
	}

	c.JSON(http.StatusOK, listResponsePayload{Kind: kind.String(), Items: items})
}

func (h *httpHandler) listItems(c *gin.Context, kind collections.Kind) (any, error) {
	ctx := c.Request.Context()
	switch kind {
	case collections.KindYouTube:
		return h.collections.ListVideos(ctx)
	case collections.KindTwitter:
		return h.collections.ListPosts(ctx)
	case collections.KindArxiv:
		return h.collections.ListPapers(ctx)
	case collections.KindGitHub:
		return h.collections.ListRepos(ctx)
	default:
		return nil, errors.New("unreachable kind")
	}
}

func (h *httpHandler) handleAdd(c *gin.Context) {
	kind, err := collections.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_kind"})
		return
	}

	var request addRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if strings.TrimSpace(request.ItemURL) == "" {
		c.JSON(http.StatusOK, noticeResponsePayload{
			Notice: collections.Outcome{
				Level:   collections.NoticeError,
				Message: "Please enter a " + kind.DisplayName() + " URL",
			},
		})
		return
	}

	outcome, err := h.collections.Add(c.Request.Context(), kind, request.ItemURL)
	if err != nil {
		h.respondServiceError(c, "add operation failed", err)
		return
	}

	c.JSON(http.StatusOK, noticeResponsePayload{Notice: outcome})
}

func (h *httpHandler) handleDelete(c *gin.Context) {
	kind, recordID, ok := h.bindRecordRef(c)
	if !ok {
		return
	}

	outcome, err := h.collections.Delete(c.Request.Context(), kind, recordID)
	if err != nil {
		h.respondServiceError(c, "delete operation failed", err)
		return
	}

	c.JSON(http.StatusOK, noticeResponsePayload{Notice: outcome})
}

func (h *httpHandler) handleResync(c *gin.Context) {
	kind, recordID, ok := h.bindRecordRef(c)
	if !ok {
		return
	}

	outcome, err := h.collections.Resync(c.Request.Context(), kind, recordID)
	if err != nil {
		h.respondServiceError(c, "resync operation failed", err)
		return
	}

	c.JSON(http.StatusOK, noticeResponsePayload{Notice: outcome})
}

func (h *httpHandler) bindRecordRef(c *gin.Context) (collections.Kind, uint, bool) {
	kind, err := collections.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_kind"})
		return "", 0, false
	}

	recordID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_record_id"})
		return "", 0, false
	}

	return kind, uint(recordID), true
}

func (h *httpHandler) respondServiceError(c *gin.Context, message string, err error) {
	h.logger.Error(message, zap.Error(err))

	payload := gin.H{"error": "operation_failed"}
	var serviceErr *collections.ServiceError
	if errors.As(err, &serviceErr) {
		payload["code"] = serviceErr.Code()
	}
	c.JSON(http.StatusInternalServerError, payload)
}
