package search

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"photomind/internal/pkg/response"
)

type Handler struct {
	service *Service
	lister  Lister
}

// NewHandler wires the search routes. lister answers /search when no query
// is given.
func NewHandler(service *Service, lister Lister) *Handler {
	return &Handler{service: service, lister: lister}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/deepsearch", h.DeepSearch)
	rg.GET("/category/:category", h.Category)
	rg.GET("/llm/:query", h.LLM)
}

// Search lists every image when query is absent. With a query it runs tag
// matching and returns the matching images alongside the tags.
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		images, err := h.lister.ListAll(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
			return
		}
		c.JSON(http.StatusOK, images)
		return
	}

	result, err := h.service.SearchImages(c.Request.Context(), query)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"query":   query,
		"results": result.Matches,
		"images":  result.Images,
		"count":   len(result.Images),
	})
}

func (h *Handler) DeepSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Query parameter is required")
		return
	}

	matches, err := h.service.MatchTags(c.Request.Context(), query)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"query":   query,
		"results": matches,
	})
}

func (h *Handler) Category(c *gin.Context) {
	category := strings.TrimSpace(c.Param("category"))

	matches, err := h.service.MatchTags(c.Request.Context(), category)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"category": category,
		"results":  matches,
	})
}

// LLM returns the model's raw answer, with no tag constraint.
func (h *Handler) LLM(c *gin.Context) {
	query := strings.TrimSpace(c.Param("query"))

	text, err := h.service.Ask(c.Request.Context(), query)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"query":   query,
		"results": text,
		"source":  h.service.SourceName(),
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrQueryParse):
		response.Error(c, http.StatusBadRequest, "QUERY_PARSE_ERROR", err.Error())
	case errors.Is(err, ErrLanguageModel):
		response.Error(c, http.StatusInternalServerError, "LANGUAGE_MODEL_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
