package search

import (
	"context"

	"photomind/internal/domain"
)

// TagCatalog is the vocabulary source for tag matching.
type TagCatalog interface {
	ListNames(ctx context.Context) ([]string, error)
}

type ImageFinder interface {
	ListByTagNames(ctx context.Context, names []string) ([]domain.Image, error)
}

// LanguageModel is satisfied by llm.Client.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	SourceName() string
}

// Lister answers /search without a query.
type Lister interface {
	ListAll(ctx context.Context) ([]domain.Image, error)
}
