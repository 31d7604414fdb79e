package vision

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRekognition struct {
	in  *rekognition.DetectLabelsInput
	out *rekognition.DetectLabelsOutput
	err error
}

func (f *fakeRekognition) DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.in = in
	return f.out, f.err
}

func TestRekognitionLabeler_DetectLabels(t *testing.T) {
	fake := &fakeRekognition{out: &rekognition.DetectLabelsOutput{
		Labels: []types.Label{
			{Name: aws.String("Beach"), Confidence: aws.Float32(99.5)},
			{Name: aws.String("Sea"), Confidence: aws.Float32(80.25)},
		},
	}}
	l := NewRekognitionLabeler(fake, zap.NewNop())

	labels, err := l.DetectLabels(context.Background(), ObjectRef{Bucket: "photos", Key: "id_beach.jpg"}, 10, 75)

	require.NoError(t, err)
	assert.Equal(t, []Label{{Name: "Beach", Confidence: 99.5}, {Name: "Sea", Confidence: 80.25}}, labels)
	assert.Equal(t, "photos", aws.ToString(fake.in.Image.S3Object.Bucket))
	assert.Equal(t, "id_beach.jpg", aws.ToString(fake.in.Image.S3Object.Name))
	assert.Equal(t, int32(10), aws.ToInt32(fake.in.MaxLabels))
	assert.Equal(t, float32(75), aws.ToFloat32(fake.in.MinConfidence))
}

func TestRekognitionLabeler_Error(t *testing.T) {
	fake := &fakeRekognition{err: errors.New("InvalidS3ObjectException")}
	l := NewRekognitionLabeler(fake, zap.NewNop())

	_, err := l.DetectLabels(context.Background(), ObjectRef{Bucket: "b", Key: "k"}, 10, 75)
	assert.ErrorContains(t, err, "InvalidS3ObjectException")
}

func TestStubLabeler_Bounds(t *testing.T) {
	l := NewStubLabeler()
	for i := 0; i < 200; i++ {
		ref := ObjectRef{Bucket: "b", Key: fmt.Sprintf("%d_photo.png", i)}
		labels, err := l.DetectLabels(context.Background(), ref, 10, 75)
		require.NoError(t, err)

		require.NotEmpty(t, labels)
		assert.LessOrEqual(t, len(labels), 10)
		seen := map[string]bool{}
		prev := 100.0
		for _, lbl := range labels {
			assert.GreaterOrEqual(t, lbl.Confidence, float64(75))
			assert.LessOrEqual(t, lbl.Confidence, prev)
			assert.False(t, seen[lbl.Name], "duplicate label %s", lbl.Name)
			seen[lbl.Name] = true
			prev = lbl.Confidence
		}
	}
}

func TestStubLabeler_Deterministic(t *testing.T) {
	l := NewStubLabeler()
	ref := ObjectRef{Bucket: "b", Key: "same.png"}

	a, err := l.DetectLabels(context.Background(), ref, 3, 90)
	require.NoError(t, err)
	b, err := l.DetectLabels(context.Background(), ref, 3, 90)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.LessOrEqual(t, len(a), 3)
}

func TestStubLabeler_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStubLabeler().DetectLabels(ctx, ObjectRef{Key: "k"}, 10, 75)
	assert.ErrorIs(t, err, context.Canceled)
}
