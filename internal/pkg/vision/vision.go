// Package vision obtains descriptive labels for stored images.
package vision

import "context"

// ObjectRef points at an image in the object store.
type ObjectRef struct {
	Bucket string
	Key    string
}

// Label is one detected label. Confidence is in [0,100].
type Label struct {
	Name       string
	Confidence float64
}

// Labeler returns at most maxLabels labels, each with confidence of at least
// minConfidence, ordered as the provider ranks them.
type Labeler interface {
	DetectLabels(ctx context.Context, ref ObjectRef, maxLabels int, minConfidence float64) ([]Label, error)
}
