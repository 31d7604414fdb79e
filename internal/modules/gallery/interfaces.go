package gallery

import (
	"context"

	"photomind/internal/domain"
)

type ImageRepository interface {
	List(ctx context.Context) ([]domain.Image, error)
	GetByID(ctx context.Context, id string) (*domain.Image, error)
	Delete(ctx context.Context, id string) error
}

type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	URL(key string) string
}
