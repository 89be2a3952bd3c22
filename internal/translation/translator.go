package translation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"chunker/api/internal/cache"
	"chunker/api/internal/htmlchunk"
	"chunker/api/internal/metrics"
)

// chunkMargin is left free below an engine's limit when splitting, for the
// markup the chunk wrappers add.
const chunkMargin = 1000

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrNoEngines           = errors.New("no translation engines configured")
)

// Cache stores translated chunks.
type Cache interface {
	Get(ctx context.Context, k cache.Key) (string, error)
	Set(ctx context.Context, k cache.Key, translation string) error
}

// Result is a translated document.
type Result struct {
	Content string
	Engine  string
	Chunks  int
}

type Translator struct {
	engines     []Engine
	prefs       Preferences
	cache       Cache
	metrics     *metrics.Metrics
	concurrency int
	logger      zerolog.Logger
}

type Option func(*Translator)

func WithCache(c Cache) Option {
	return func(t *Translator) { t.cache = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Translator) { t.metrics = m }
}

// WithConcurrency bounds the number of chunks translated at once.
func WithConcurrency(n int) Option {
	return func(t *Translator) { t.concurrency = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(t *Translator) { t.logger = l }
}

// WithPreferences sets the engine order used to pick an engine.
func WithPreferences(p Preferences) Option {
	return func(t *Translator) { t.prefs = p }
}

// New returns a translator trying engines in order.
func New(engines []Engine, opts ...Option) *Translator {
	t := &Translator{
		engines:     engines,
		concurrency: 4,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.concurrency < 1 {
		t.concurrency = 1
	}
	return t
}

// Translate translates content from source to target. An empty source is
// detected by the engine. Identical languages return content unchanged.
func (t *Translator) Translate(ctx context.Context, content, source, target string, isHTML bool) (Result, error) {
	source, target = NormalizeLanguage(source), NormalizeLanguage(target)
	if source == target {
		return Result{Content: content}, nil
	}
	engine, codes, err := t.selectEngine(source, target)
	if err != nil {
		return Result{}, err
	}
	out, chunks, err := t.translateWithEngine(ctx, engine, Params{
		Content: content,
		IsHTML:  isHTML,
		Source:  codes[0],
		Target:  codes[1],
	})
	t.metrics.ObserveTranslation(engine.Name(), err)
	if err != nil {
		return Result{}, fmt.Errorf("translate with %s: %w", engine.Name(), err)
	}
	return Result{Content: out, Engine: engine.Name(), Chunks: chunks}, nil
}

// TranslateWithFallbackToEnglish translates to English when no engine
// supports target.
func (t *Translator) TranslateWithFallbackToEnglish(ctx context.Context, content, source, target string, isHTML bool) (Result, error) {
	if !t.IsLanguageSupported(target) {
		target = "en"
	}
	return t.Translate(ctx, content, source, target, isHTML)
}

// IsLanguageSupported reports whether any engine knows lang.
func (t *Translator) IsLanguageSupported(lang string) bool {
	for _, e := range t.engines {
		if _, ok := e.Supports(lang, false); ok {
			return true
		}
	}
	return false
}

// SupportedLanguages returns the language codes of each engine.
func (t *Translator) SupportedLanguages() map[string][]string {
	out := make(map[string][]string, len(t.engines))
	for _, e := range t.engines {
		out[e.Name()] = e.Languages()
	}
	return out
}

// AllLanguages returns the union of all engines' languages, sorted.
func (t *Translator) AllLanguages() []string {
	seen := make(map[string]struct{})
	for _, e := range t.engines {
		for _, lang := range e.Languages() {
			seen[lang] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for lang := range seen {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// selectEngine picks the first engine supporting both languages, preferring
// exact matches over base language matches.
func (t *Translator) selectEngine(source, target string) (Engine, [2]string, error) {
	if len(t.engines) == 0 {
		return nil, [2]string{}, ErrNoEngines
	}
	engines := t.prefs.Order(t.engines, source, target)
	for _, strict := range []bool{true, false} {
		for _, e := range engines {
			src := ""
			if source != "" {
				var ok bool
				if src, ok = e.Supports(source, strict); !ok {
					continue
				}
			}
			if tgt, ok := e.Supports(target, strict); ok {
				return e, [2]string{src, tgt}, nil
			}
		}
	}

	var unsupported []string
	for _, lang := range []string{source, target} {
		if lang != "" && !t.IsLanguageSupported(lang) {
			unsupported = append(unsupported, lang)
		}
	}
	if len(unsupported) == 0 {
		// Each language is known, but not to the same engine.
		unsupported = []string{source + ">" + target}
	}
	return nil, [2]string{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, strings.Join(unsupported, ", "))
}

func (t *Translator) translateWithEngine(ctx context.Context, e Engine, p Params) (string, int, error) {
	limit := e.CharLimit()
	if !p.IsHTML || utf8.RuneCountInString(p.Content) < limit {
		out, err := t.translateChunk(ctx, e, p)
		return out, 1, err
	}

	chunks, err := htmlchunk.Split(p.Content, htmlchunk.Options{MaxChunkSize: max(limit-chunkMargin, 1)})
	if err != nil {
		return "", 0, fmt.Errorf("split content: %w", err)
	}
	t.metrics.ObserveSplit(len(chunks))

	results := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			cp := p
			cp.Content = chunk
			out, err := t.translateChunk(gctx, e, cp)
			if err != nil {
				return fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", 0, err
	}

	merged, err := htmlchunk.Merge(results)
	if err != nil {
		return "", 0, fmt.Errorf("merge chunks: %w", err)
	}
	t.metrics.ObserveMerge()
	t.logger.Debug().
		Str("engine", e.Name()).
		Int("chunks", len(chunks)).
		Int("limit", limit).
		Msg("translated in chunks")
	return merged, len(chunks), nil
}

func (t *Translator) translateChunk(ctx context.Context, e Engine, p Params) (string, error) {
	if t.cache == nil {
		return e.Translate(ctx, p)
	}
	key := cache.Key{Engine: e.Name(), Source: p.Source, Target: p.Target, Content: p.Content}
	cached, err := t.cache.Get(ctx, key)
	switch {
	case err == nil:
		t.metrics.ObserveCache(true)
		return cached, nil
	case errors.Is(err, cache.ErrCacheMiss):
		t.metrics.ObserveCache(false)
	default:
		t.logger.Warn().Err(err).Str("engine", e.Name()).Msg("translation cache lookup failed")
	}

	out, err := e.Translate(ctx, p)
	if err != nil {
		return "", err
	}
	if err := t.cache.Set(ctx, key, out); err != nil {
		t.logger.Warn().Err(err).Str("engine", e.Name()).Msg("translation cache store failed")
	}
	return out, nil
}
