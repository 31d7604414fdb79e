package gallery

import (
	"errors"

	"photomind/internal/domain"
)

var (
	ErrImageNotFound = domain.ErrImageNotFound
	ErrStorage       = errors.New("storage error")
	ErrThumbnail     = errors.New("thumbnail could not be generated")
)
