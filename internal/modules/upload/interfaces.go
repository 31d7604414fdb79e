package upload

import (
	"context"

	"photomind/internal/domain"
	"photomind/internal/pkg/vision"
)

// ObjectStore receives the raw image bytes.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Bucket() string
}

// Labeler tags an object already written to the store.
type Labeler interface {
	DetectLabels(ctx context.Context, ref vision.ObjectRef, maxLabels int, minConfidence float64) ([]vision.Label, error)
}

type ImageRepository interface {
	Create(ctx context.Context, img *domain.Image) error
}

// TagCatalog collects every label name seen at upload time.
type TagCatalog interface {
	Upsert(ctx context.Context, names []string) error
}
