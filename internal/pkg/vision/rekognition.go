package vision

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"go.uber.org/zap"
)

// RekognitionAPI is the subset of the Rekognition client in use.
type RekognitionAPI interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

type RekognitionLabeler struct {
	client RekognitionAPI
	log    *zap.Logger
}

func NewRekognitionLabeler(client RekognitionAPI, log *zap.Logger) *RekognitionLabeler {
	return &RekognitionLabeler{client: client, log: log}
}

func (l *RekognitionLabeler) DetectLabels(ctx context.Context, ref ObjectRef, maxLabels int, minConfidence float64) ([]Label, error) {
	out, err := l.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(ref.Bucket),
				Name:   aws.String(ref.Key),
			},
		},
		MaxLabels:     aws.Int32(int32(maxLabels)),
		MinConfidence: aws.Float32(float32(minConfidence)),
	})
	if err != nil {
		l.log.Error("Rekognition DetectLabels failed",
			zap.String("bucket", ref.Bucket),
			zap.String("key", ref.Key),
			zap.Error(err))
		return nil, err
	}

	labels := make([]Label, 0, len(out.Labels))
	for _, lbl := range out.Labels {
		labels = append(labels, Label{
			Name:       aws.ToString(lbl.Name),
			Confidence: float64(aws.ToFloat32(lbl.Confidence)),
		})
	}

	l.log.Debug("Labels detected",
		zap.String("key", ref.Key),
		zap.Int("count", len(labels)))

	return labels, nil
}
