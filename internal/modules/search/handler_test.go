package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"photomind/internal/database"
	"photomind/internal/domain"
	"photomind/internal/modules/gallery"
	"photomind/internal/pkg/llm"
	"photomind/internal/repository"
)

func setupRouter(t *testing.T, model *llm.StubClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)

	images := repository.NewImageRepository(db)
	tags := repository.NewTagRepository(db)
	require.NoError(t, images.EnsureSchema(t.Context()))
	require.NoError(t, tags.EnsureSchema(t.Context()))
	require.NoError(t, tags.Upsert(t.Context(), []string{"forest", "beach", "city"}))

	require.NoError(t, images.Create(t.Context(), &domain.Image{
		ID: "sand", Tags: []domain.Tag{{Name: "Beach", Confidence: 97}}, DateModified: "200", Filename: "sand.jpg",
	}))
	require.NoError(t, images.Create(t.Context(), &domain.Image{
		ID: "trees", Tags: []domain.Tag{{Name: "Forest", Confidence: 88}}, DateModified: "100", Filename: "trees.jpg",
	}))

	svc := NewService(tags, images, model, Options{}, zap.NewNop())
	lister := gallery.NewService(images, nil, gallery.Options{}, zap.NewNop())

	router := gin.New()
	NewHandler(svc, lister).RegisterRoutes(router.Group("/api"))
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHandler_DeepSearch(t *testing.T) {
	model := llm.NewStubClient(`[{"tag":"beach","confidence":90}]`)
	router := setupRouter(t, model)

	rr := get(router, "/api/deepsearch?query=vacation+photos")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"query":"vacation photos","results":[{"tag":"beach","confidence":90}]}`, rr.Body.String())
	assert.Contains(t, model.Prompts()[0], "beach, city, forest")
}

func TestHandler_DeepSearch_MissingQuery(t *testing.T) {
	model := llm.NewStubClient()
	router := setupRouter(t, model)

	rr := get(router, "/api/deepsearch")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, model.Calls())
}

func TestHandler_DeepSearch_UnparseableAnswer(t *testing.T) {
	model := llm.NewStubClient("no idea")
	router := setupRouter(t, model)

	rr := get(router, "/api/deepsearch?query=vacation")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "QUERY_PARSE_ERROR")
	assert.Equal(t, 2, model.Calls())
}

func TestHandler_Category(t *testing.T) {
	model := llm.NewStubClient(`[{"tag":"forest","confidence":75}]`)
	router := setupRouter(t, model)

	rr := get(router, "/api/category/nature")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"category":"nature","results":[{"tag":"forest","confidence":75}]}`, rr.Body.String())
	assert.Contains(t, model.Prompts()[0], `"nature"`)
}

func TestHandler_LLM(t *testing.T) {
	model := llm.NewStubClient("Sunsets are best photographed at golden hour.")
	router := setupRouter(t, model)

	rr := get(router, "/api/llm/sunset%20tips")

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "sunset tips", body["query"])
	assert.Equal(t, "Sunsets are best photographed at golden hour.", body["results"])
	assert.Equal(t, "Stub", body["source"])
}

func TestHandler_Search_WithoutQueryListsEverything(t *testing.T) {
	model := llm.NewStubClient()
	router := setupRouter(t, model)

	rr := get(router, "/api/search")

	require.Equal(t, http.StatusOK, rr.Code)
	var images []domain.Image
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &images))
	require.Len(t, images, 2)
	assert.Equal(t, "sand", images[0].ID)
	assert.Equal(t, 0, model.Calls())
}

func TestHandler_Search_WithQueryDelegatesToTagMatch(t *testing.T) {
	model := llm.NewStubClient(`[{"tag":"beach","confidence":92}]`)
	router := setupRouter(t, model)

	rr := get(router, "/api/search?query=seaside")

	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Success bool              `json:"success"`
		Results []domain.TagMatch `json:"results"`
		Images  []domain.Image    `json:"images"`
		Count   int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []domain.TagMatch{{Tag: "beach", Confidence: 92}}, body.Results)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "sand", body.Images[0].ID)
}
