package upload

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"photomind/internal/pkg/response"
)

// FormField is the multipart field carrying the image.
const FormField = "image"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.Upload)
}

// Upload accepts one image in the "image" form field and answers with the
// created record.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile(FormField)
	if err != nil {
		if isTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "image exceeds the upload size limit")
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No image file provided")
		return
	}
	if strings.TrimSpace(fileHeader.Filename) == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No image selected")
		return
	}

	data, err := readAll(fileHeader)
	if err != nil {
		if isTooLarge(err) {
			response.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "image exceeds the upload size limit")
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "could not read uploaded image")
		return
	}

	img, err := h.service.Ingest(c.Request.Context(), IngestInput{
		Data:        data,
		ContentType: contentType(fileHeader, data),
		Filename:    fileHeader.Filename,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrStorage):
			response.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", err.Error())
		case errors.Is(err, ErrLabeling):
			response.Error(c, http.StatusInternalServerError, "LABELING_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, img)
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// contentType prefers the part's declared type and sniffs the bytes when the
// client sent none.
func contentType(fh *multipart.FileHeader, data []byte) string {
	ct := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if ct != "" && ct != DefaultContentType {
		return ct
	}
	return http.DetectContentType(data)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
