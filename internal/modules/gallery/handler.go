package gallery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"photomind/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/gallery", h.Gallery)
	rg.GET("/image/:image_id", h.GetImage)
	rg.DELETE("/image/:image_id", h.DeleteImage)
	rg.GET("/thumbnail/:image_id", h.Thumbnail)
}

func (h *Handler) Gallery(c *gin.Context) {
	images, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	views := make([]ImageView, 0, len(images))
	for _, img := range images {
		views = append(views, newImageView(img))
	}
	response.OK(c, http.StatusOK, gin.H{
		"images":      views,
		"total_count": len(views),
	})
}

func (h *Handler) GetImage(c *gin.Context) {
	img, err := h.service.GetByID(c.Request.Context(), c.Param("image_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"image_details": newImageView(*img)})
}

func (h *Handler) DeleteImage(c *gin.Context) {
	id := c.Param("image_id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"image_id": id,
		"message":  "Image deleted",
	})
}

func (h *Handler) Thumbnail(c *gin.Context) {
	id := c.Param("image_id")
	url, err := h.service.Thumbnail(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"image_id":      id,
		"thumbnail_url": url,
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case IsNotFound(err):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Image not found")
	case errors.Is(err, ErrThumbnail):
		response.Error(c, http.StatusUnprocessableEntity, "UNSUPPORTED_IMAGE", err.Error())
	case errors.Is(err, ErrStorage):
		response.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
