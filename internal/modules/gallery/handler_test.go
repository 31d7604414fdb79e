package gallery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photomind/internal/domain"
)

type galleryResponse struct {
	Success    bool        `json:"success"`
	Images     []ImageView `json:"images"`
	TotalCount int         `json:"total_count"`
}

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, images, _ := setupService(t)
	require.NoError(t, images.Create(t.Context(), &domain.Image{
		ID:           "first",
		StorageURL:   "/uploads/first_a.png",
		Tags:         []domain.Tag{{Name: "Beach", Confidence: 94.5}},
		UserID:       "test-user",
		DateModified: "1700000000.000000",
		Filename:     "a.png",
	}))
	require.NoError(t, images.Create(t.Context(), &domain.Image{
		ID:           "second",
		StorageURL:   "/uploads/second_b.png",
		UserID:       "test-user",
		DateModified: "1700000500.000000",
		Filename:     "b.png",
	}))

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api"))
	return router, svc
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandler_Gallery(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodGet, "/api/gallery")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp galleryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.TotalCount)
	require.Len(t, resp.Images, 2)
	assert.Equal(t, "second", resp.Images[0].ID)
	assert.Equal(t, "/api/thumbnail/second", resp.Images[0].ThumbnailURL)
	assert.Equal(t, []domain.Tag{{Name: "Beach", Confidence: 94.5}}, resp.Images[1].Tags)
}

func TestHandler_GetImage(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodGet, "/api/image/first")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"image_details"`)
	assert.Contains(t, rr.Body.String(), `"s3Url":"/uploads/first_a.png"`)

	rr = doRequest(router, http.MethodGet, "/api/image/unknown")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Image not found","code":"NOT_FOUND"}`, rr.Body.String())
}

func TestHandler_DeleteImage(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodDelete, "/api/image/first")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(router, http.MethodGet, "/api/image/first")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(router, http.MethodDelete, "/api/image/first")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Thumbnail_MissingObject(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, http.MethodGet, "/api/thumbnail/first")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "STORAGE_ERROR")

	rr = doRequest(router, http.MethodGet, "/api/thumbnail/unknown")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
