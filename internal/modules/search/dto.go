package search

import (
	"time"

	"photomind/internal/domain"
)

// Options tunes tag matching. Zero values fall back to defaults.
type Options struct {
	MaxAttempts int
	MaxResults  int
	MaxTokens   int
	// Strict drops answers naming unknown tags or out-of-range confidences.
	Strict      bool
	CallTimeout time.Duration
}

// ImageSearchResult is a tag match plus the images carrying the matched tags.
type ImageSearchResult struct {
	Matches []domain.TagMatch
	Images  []domain.Image
}
