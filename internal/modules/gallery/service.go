package gallery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"photomind/internal/domain"
	"photomind/internal/pkg/thumbnail"
)

type Options struct {
	ThumbnailSize    int
	ThumbnailQuality int
	CallTimeout      time.Duration
}

type Service struct {
	images ImageRepository
	store  ObjectStore
	opts   Options
	log    *zap.Logger
}

func NewService(images ImageRepository, store ObjectStore, opts Options, log *zap.Logger) *Service {
	if opts.ThumbnailSize <= 0 {
		opts.ThumbnailSize = thumbnail.DefaultSize
	}
	if opts.ThumbnailQuality <= 0 {
		opts.ThumbnailQuality = thumbnail.DefaultQuality
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{images: images, store: store, opts: opts, log: log}
}

// ListAll returns every image, newest first. The whole table is read on
// each call; there is no paging.
func (s *Service) ListAll(ctx context.Context) ([]domain.Image, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	images, err := s.images.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	if images == nil {
		images = []domain.Image{}
	}
	domain.SortByRecency(images)
	return images, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Image, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.images.GetByID(ctx, id)
}

// Delete removes the image record. The stored object is left in place.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	if err := s.images.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("image deleted", zap.String("image_id", id))
	return nil
}

// Thumbnail returns the URL of the image's thumbnail, rendering and storing
// it on first request.
func (s *Service) Thumbnail(ctx context.Context, id string) (string, error) {
	img, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	key := domain.ThumbnailKey(img.ID)
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if exists {
		return s.store.URL(key), nil
	}

	original, err := s.store.Get(ctx, img.ObjectKey())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	thumb, err := thumbnail.Make(original, s.opts.ThumbnailSize, s.opts.ThumbnailSize, s.opts.ThumbnailQuality)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrThumbnail, err)
	}

	url, err := s.store.Put(ctx, key, thumb, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.log.Info("thumbnail created", zap.String("image_id", img.ID), zap.Int("bytes", len(thumb)))
	return url, nil
}

// IsNotFound reports whether err means the image does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrImageNotFound)
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.CallTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.CallTimeout)
	}
	return context.WithCancel(ctx)
}
