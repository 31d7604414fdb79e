package upload

import "time"

// IngestInput is one image as received from the client.
type IngestInput struct {
	Data        []byte `validate:"required,min=1"`
	ContentType string
	Filename    string `validate:"required"`
}

// Options tunes the pipeline. Zero values fall back to defaults.
type Options struct {
	OwnerID       string
	MaxLabels     int
	MinConfidence float64
	CallTimeout   time.Duration

	// RestrictExtensions rejects filenames outside AllowedExtensions.
	RestrictExtensions bool
}
