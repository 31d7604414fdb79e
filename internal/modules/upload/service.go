package upload

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"photomind/internal/domain"
	"photomind/internal/pkg/metrics"
	"photomind/internal/pkg/validator"
	"photomind/internal/pkg/vision"
)

const (
	DefaultMaxLabels     = 10
	DefaultMinConfidence = 75
	DefaultContentType   = "application/octet-stream"
)

// AllowedExtensions lists the image formats accepted when
// Options.RestrictExtensions is set.
var AllowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// Service ingests one image: object store write, vision labeling, then a
// single metadata write. Nothing is retried and nothing is rolled back.
type Service struct {
	store   ObjectStore
	labeler Labeler
	images  ImageRepository
	catalog TagCatalog
	opts    Options
	log     *zap.Logger
	now     func() time.Time
}

func NewService(store ObjectStore, labeler Labeler, images ImageRepository, catalog TagCatalog, opts Options, log *zap.Logger) *Service {
	if opts.MaxLabels <= 0 {
		opts.MaxLabels = DefaultMaxLabels
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = DefaultMinConfidence
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:   store,
		labeler: labeler,
		images:  images,
		catalog: catalog,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

// Ingest stores, labels and records one image and returns the persisted
// record.
func (s *Service) Ingest(ctx context.Context, in IngestInput) (*domain.Image, error) {
	if err := s.validate(in); err != nil {
		metrics.UploadTotal.WithLabelValues("validation_error").Inc()
		return nil, err
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	id := uuid.NewString()
	key := domain.ObjectKey(id, in.Filename)

	url, err := s.put(ctx, key, in.Data, contentType)
	if err != nil {
		metrics.UploadTotal.WithLabelValues("storage_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	labels, err := s.detect(ctx, vision.ObjectRef{Bucket: s.store.Bucket(), Key: key})
	if err != nil {
		metrics.UploadTotal.WithLabelValues("labeling_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrLabeling, err)
	}

	img := &domain.Image{
		ID:           id,
		StorageURL:   url,
		Tags:         toTags(labels),
		UserID:       s.opts.OwnerID,
		DateModified: domain.FormatTimestamp(s.now()),
		Filename:     in.Filename,
	}

	if err := s.create(ctx, img); err != nil {
		// The object and labels stay behind; there is no compensation.
		s.log.Error("image record not saved",
			zap.String("image_id", id),
			zap.String("object_key", key),
			zap.Error(err))
		metrics.UploadTotal.WithLabelValues("persist_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	s.recordTags(ctx, img)

	metrics.UploadTotal.WithLabelValues("ok").Inc()
	s.log.Info("image ingested",
		zap.String("image_id", id),
		zap.String("object_key", key),
		zap.Int("tags", len(img.Tags)))
	return img, nil
}

func (s *Service) validate(in IngestInput) error {
	if errs := validator.Validate(in); errs != nil {
		if _, ok := errs["Filename"]; ok {
			return fmt.Errorf("%w: no image selected", ErrValidation)
		}
		return fmt.Errorf("%w: no image provided", ErrValidation)
	}
	if s.opts.RestrictExtensions && !AllowedFilename(in.Filename) {
		return fmt.Errorf("%w: file type not allowed", ErrValidation)
	}
	return nil
}

func (s *Service) put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.store.Put(ctx, key, data, contentType)
}

func (s *Service) detect(ctx context.Context, ref vision.ObjectRef) ([]vision.Label, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.labeler.DetectLabels(ctx, ref, s.opts.MaxLabels, s.opts.MinConfidence)
}

func (s *Service) create(ctx context.Context, img *domain.Image) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.images.Create(ctx, img)
}

// recordTags adds the image's labels to the tag catalog. Failures are logged
// and never fail the upload.
func (s *Service) recordTags(ctx context.Context, img *domain.Image) {
	if s.catalog == nil || len(img.Tags) == 0 {
		return
	}
	names := make([]string, 0, len(img.Tags))
	for _, t := range img.Tags {
		names = append(names, t.Name)
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()
	if err := s.catalog.Upsert(ctx, names); err != nil {
		s.log.Warn("tag catalog not updated", zap.String("image_id", img.ID), zap.Error(err))
	}
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.CallTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.CallTimeout)
	}
	return context.WithCancel(ctx)
}

// AllowedFilename reports whether filename has an accepted image extension.
func AllowedFilename(filename string) bool {
	return AllowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

func toTags(labels []vision.Label) []domain.Tag {
	tags := make([]domain.Tag, 0, len(labels))
	for _, l := range labels {
		tags = append(tags, domain.Tag{Name: l.Name, Confidence: l.Confidence})
	}
	return tags
}
