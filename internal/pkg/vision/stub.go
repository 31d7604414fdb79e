package vision

import (
	"context"
	"crypto/sha256"
)

var stubVocabulary = []string{
	"Outdoors", "Nature", "Landscape", "Sky", "Tree", "Beach", "City",
	"Building", "Person", "Animal", "Food", "Water", "Mountain", "Night",
	"Forest", "Car", "Flower", "Indoors", "Portrait", "Sunset",
}

// StubLabeler is a deterministic, no-network labeler for local development
// and tests. The same key always yields the same labels.
type StubLabeler struct{}

func NewStubLabeler() *StubLabeler { return &StubLabeler{} }

func (StubLabeler) DetectLabels(ctx context.Context, ref ObjectRef, maxLabels int, minConfidence float64) ([]Label, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(ref.Bucket + "/" + ref.Key))

	span := 100 - minConfidence
	if span < 0 {
		span = 0
	}
	labels := make([]Label, 0, maxLabels)
	used := make(map[int]bool)
	confidence := 100.0
	for i := 0; i < len(sum) && len(labels) < maxLabels && len(labels) < 5; i++ {
		idx := int(sum[i]) % len(stubVocabulary)
		if used[idx] {
			continue
		}
		used[idx] = true
		// Non-increasing, never below minConfidence.
		step := span * float64(sum[(i+7)%len(sum)]) / 255 / 5
		confidence -= step
		if confidence < minConfidence {
			confidence = minConfidence
		}
		labels = append(labels, Label{Name: stubVocabulary[idx], Confidence: confidence})
	}
	return labels, nil
}
