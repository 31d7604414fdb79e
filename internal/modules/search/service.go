package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"photomind/internal/domain"
	"photomind/internal/pkg/metrics"
)

const (
	DefaultMaxAttempts = 2
	DefaultMaxResults  = 3
	DefaultMaxTokens   = 512
)

// Service resolves free text into tags from the catalog through a language
// model.
type Service struct {
	catalog TagCatalog
	images  ImageFinder
	model   LanguageModel
	opts    Options
	log     *zap.Logger
}

func NewService(catalog TagCatalog, images ImageFinder, model LanguageModel, opts Options, log *zap.Logger) *Service {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.MaxResults < 1 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.MaxTokens < 1 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{catalog: catalog, images: images, model: model, opts: opts, log: log}
}

// MatchTags returns the model's ranked tag choices for query.
//
// Only unparseable answers are retried. A failing model call is returned at
// once, without another attempt.
func (s *Service) MatchTags(ctx context.Context, query string) ([]domain.TagMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}

	names, err := s.listNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalog, err)
	}
	vocab := Vocabulary(names)

	var parseErr error
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		prompt := BuildPrompt(query, vocab, s.opts.MaxResults)

		text, err := s.complete(ctx, prompt)
		if err != nil {
			metrics.TagMatchAttemptsTotal.WithLabelValues("model_error").Inc()
			return nil, fmt.Errorf("%w: %v", ErrLanguageModel, err)
		}

		matches, err := ParseMatches(text)
		if err != nil {
			metrics.TagMatchAttemptsTotal.WithLabelValues("parse_error").Inc()
			s.log.Warn("unparseable tag match answer",
				zap.String("query", query),
				zap.Int("attempt", attempt),
				zap.String("source", s.model.SourceName()),
				zap.Error(err))
			parseErr = err
			continue
		}

		metrics.TagMatchAttemptsTotal.WithLabelValues("ok").Inc()
		if s.opts.Strict {
			matches = filterStrict(matches, vocab, s.opts.MaxResults)
		}
		s.log.Debug("tag match resolved",
			zap.String("query", query),
			zap.Int("attempt", attempt),
			zap.Int("vocabulary", len(vocab)),
			zap.Int("matches", len(matches)))
		return matches, nil
	}

	return nil, fmt.Errorf("%w %q after %d attempts: %v", ErrQueryParse, query, s.opts.MaxAttempts, parseErr)
}

// Ask sends query to the model as is and returns the raw completion.
func (s *Service) Ask(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: query is required", ErrValidation)
	}
	text, err := s.complete(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLanguageModel, err)
	}
	return text, nil
}

// SearchImages matches query to tags and returns the images carrying any of
// them, newest first.
func (s *Service) SearchImages(ctx context.Context, query string) (*ImageSearchResult, error) {
	matches, err := s.MatchTags(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &ImageSearchResult{Matches: matches, Images: []domain.Image{}}
	if len(matches) == 0 {
		return result, nil
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Tag)
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()
	images, err := s.images.ListByTagNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalog, err)
	}
	domain.SortByRecency(images)
	result.Images = images
	return result, nil
}

// SourceName names the model backing this service.
func (s *Service) SourceName() string {
	return s.model.SourceName()
}

func (s *Service) listNames(ctx context.Context) ([]string, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.catalog.ListNames(ctx)
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()
	text, err := s.model.Complete(ctx, prompt, s.opts.MaxTokens)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		s.log.Warn("language model call timed out", zap.Duration("timeout", s.opts.CallTimeout))
	}
	return text, err
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.CallTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.CallTimeout)
	}
	return context.WithCancel(ctx)
}
