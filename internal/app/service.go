package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"chunker/api/internal/config"
	"chunker/api/internal/htmlchunk"
	"chunker/api/internal/metrics"
	"chunker/api/internal/prosemirror"
	"chunker/api/internal/translation"
)

// Translator is the part of translation.Translator the API uses.
type Translator interface {
	Translate(ctx context.Context, content, source, target string, isHTML bool) (translation.Result, error)
	TranslateWithFallbackToEnglish(ctx context.Context, content, source, target string, isHTML bool) (translation.Result, error)
	SupportedLanguages() map[string][]string
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type SplitInput struct {
	HTML         string          `json:"html"`
	Doc          json.RawMessage `json:"doc,omitempty"`
	MaxChunkSize *int            `json:"maxChunkSize,omitempty"`
}

type MergeInput struct {
	Chunks []string `json:"chunks"`
}

type TranslateInput struct {
	Content           string `json:"content"`
	SourceLanguage    string `json:"sourceLanguage"`
	TargetLanguage    string `json:"targetLanguage"`
	IsHTML            bool   `json:"isHtml"`
	FallbackToEnglish bool   `json:"fallbackToEnglish"`
}

type Service struct {
	cfg        config.Config
	translator Translator
	cache      Pinger
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// New builds the service. cache may be nil when translations are not cached.
func New(cfg config.Config, translator Translator, cache Pinger, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		cfg:        cfg,
		translator: translator,
		cache:      cache,
		metrics:    m,
		logger:     logger,
	}
}

// Split chunks the html of in, or the ProseMirror document when doc is set.
func (s *Service) Split(ctx context.Context, in SplitInput) ([]string, error) {
	maxChunkSize := s.cfg.MaxChunkSize
	if in.MaxChunkSize != nil {
		maxChunkSize = *in.MaxChunkSize
	}
	if maxChunkSize < 0 {
		return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "maxChunkSize must not be negative", map[string]any{"maxChunkSize": maxChunkSize})
	}

	markup := in.HTML
	if len(in.Doc) > 0 && string(in.Doc) != "null" {
		if in.HTML != "" {
			return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "Provide html or doc, not both", nil)
		}
		doc, err := prosemirror.Parse(in.Doc)
		if err != nil {
			return nil, domainError(http.StatusBadRequest, "INVALID_DOC", err.Error(), nil)
		}
		markup = prosemirror.ToHTML(doc)
	}

	chunks, err := htmlchunk.Split(markup, htmlchunk.Options{MaxChunkSize: maxChunkSize})
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	s.metrics.ObserveSplit(len(chunks))
	s.logger.Debug().
		Int("size", len(markup)).
		Int("max_chunk_size", maxChunkSize).
		Int("chunks", len(chunks)).
		Msg("split document")
	return chunks, nil
}

func (s *Service) Merge(ctx context.Context, in MergeInput) (string, error) {
	merged, err := htmlchunk.Merge(in.Chunks)
	if err != nil {
		return "", fmt.Errorf("merge: %w", err)
	}
	s.metrics.ObserveMerge()
	return merged, nil
}

func (s *Service) Translate(ctx context.Context, in TranslateInput) (translation.Result, error) {
	if strings.TrimSpace(in.TargetLanguage) == "" {
		return translation.Result{}, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "targetLanguage is required", nil)
	}
	if s.translator == nil {
		return translation.Result{}, translation.ErrNoEngines
	}
	if in.FallbackToEnglish {
		return s.translator.TranslateWithFallbackToEnglish(ctx, in.Content, in.SourceLanguage, in.TargetLanguage, in.IsHTML)
	}
	return s.translator.Translate(ctx, in.Content, in.SourceLanguage, in.TargetLanguage, in.IsHTML)
}

func (s *Service) Languages() map[string][]string {
	if s.translator == nil {
		return map[string][]string{}
	}
	return s.translator.SupportedLanguages()
}

// Ping checks the translation cache, if one is configured.
func (s *Service) Ping(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Ping(ctx)
}
