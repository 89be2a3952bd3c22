package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"chunker/api/internal/cache"
	"chunker/api/internal/metrics"
)

type fakeEngine struct {
	name     string
	limit    int
	langs    []string
	replacer *strings.Replacer
	fail     error

	calls      atomic.Int32
	lastTarget atomic.Value
}

func newFakeEngine(name string, limit int, langs ...string) *fakeEngine {
	return &fakeEngine{
		name:     name,
		limit:    limit,
		langs:    langs,
		replacer: strings.NewReplacer("item", "entry"),
	}
}

func (f *fakeEngine) Name() string        { return f.name }
func (f *fakeEngine) CharLimit() int      { return f.limit }
func (f *fakeEngine) Languages() []string { return f.langs }

func (f *fakeEngine) Supports(lang string, strict bool) (string, bool) {
	return matchLanguage(f.langs, lang, strict)
}

func (f *fakeEngine) Translate(_ context.Context, p Params) (string, error) {
	f.calls.Add(1)
	f.lastTarget.Store(p.Target)
	if f.fail != nil {
		return "", f.fail
	}
	return f.replacer.Replace(p.Content), nil
}

func itemList(n int) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for i := range n {
		fmt.Fprintf(&b, "<li>item %d</li>", i)
	}
	b.WriteString("</ul>")
	return b.String()
}

func TestTranslateSameLanguage(t *testing.T) {
	engine := newFakeEngine("fake", 1000, "en", "nl")
	tr := New([]Engine{engine})

	res, err := tr.Translate(context.Background(), "<p>item</p>", "EN", "en", true)
	require.NoError(t, err)
	require.Equal(t, "<p>item</p>", res.Content)
	require.Empty(t, res.Engine)
	require.Zero(t, engine.calls.Load())
}

func TestTranslateBelowLimit(t *testing.T) {
	engine := newFakeEngine("fake", 1000, "en", "nl")
	tr := New([]Engine{engine})

	res, err := tr.Translate(context.Background(), "one item", "en", "nl", false)
	require.NoError(t, err)
	require.Equal(t, Result{Content: "one entry", Engine: "fake", Chunks: 1}, res)
	require.EqualValues(t, 1, engine.calls.Load())
}

func TestTranslateSplitsLargeHTML(t *testing.T) {
	doc := itemList(100)
	engine := newFakeEngine("fake", 1200, "en", "nl")
	m := metrics.New()
	tr := New([]Engine{engine}, WithConcurrency(3), WithMetrics(m))

	res, err := tr.Translate(context.Background(), doc, "en", "nl", true)
	require.NoError(t, err)
	require.Greater(t, res.Chunks, 1)
	require.EqualValues(t, res.Chunks, engine.calls.Load())
	require.Equal(t, strings.ReplaceAll(doc, "item", "entry"), res.Content)
}

func TestTranslateLargePlainTextIsNotSplit(t *testing.T) {
	text := strings.Repeat("item ", 500)
	engine := newFakeEngine("fake", 1200, "en", "nl")
	tr := New([]Engine{engine})

	res, err := tr.Translate(context.Background(), text, "en", "nl", false)
	require.NoError(t, err)
	require.Equal(t, 1, res.Chunks)
	require.EqualValues(t, 1, engine.calls.Load())
}

func TestTranslateTinyLimit(t *testing.T) {
	// A limit below the margin still splits, one node per chunk.
	doc := itemList(3)
	engine := newFakeEngine("fake", 10, "en", "nl")
	tr := New([]Engine{engine}, WithConcurrency(0))

	res, err := tr.Translate(context.Background(), doc, "en", "nl", true)
	require.NoError(t, err)
	require.Equal(t, strings.ReplaceAll(doc, "item", "entry"), res.Content)
	require.Equal(t, 3, res.Chunks)
}

func TestEngineSelectionPrefersStrictMatch(t *testing.T) {
	base := newFakeEngine("base", 1000, "en", "nl")
	dialect := newFakeEngine("dialect", 1000, "en", "en-gb", "nl")
	french := newFakeEngine("french", 1000, "fr", "nl")
	tr := New([]Engine{base, dialect, french})
	ctx := context.Background()

	res, err := tr.Translate(ctx, "x", "nl", "en-GB", false)
	require.NoError(t, err)
	require.Equal(t, "dialect", res.Engine)
	require.Equal(t, "en-gb", dialect.lastTarget.Load())

	res, err = tr.Translate(ctx, "x", "nl", "fr_BE", false)
	require.NoError(t, err)
	require.Equal(t, "french", res.Engine)
	require.Equal(t, "fr", french.lastTarget.Load())

	res, err = tr.Translate(ctx, "x", "", "en", false)
	require.NoError(t, err)
	require.Equal(t, "base", res.Engine)
}

func TestTranslateUnsupportedLanguage(t *testing.T) {
	tr := New([]Engine{
		newFakeEngine("a", 1000, "en", "nl"),
		newFakeEngine("b", 1000, "fr", "de"),
	})
	ctx := context.Background()

	_, err := tr.Translate(ctx, "x", "en", "xx", false)
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
	require.Contains(t, err.Error(), "xx")

	// Both known, but by different engines.
	_, err = tr.Translate(ctx, "x", "nl", "fr", false)
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
	require.Contains(t, err.Error(), "nl>fr")

	_, err = New(nil).Translate(ctx, "x", "en", "nl", false)
	require.ErrorIs(t, err, ErrNoEngines)
}

func TestTranslateWithFallbackToEnglish(t *testing.T) {
	engine := newFakeEngine("fake", 1000, "en", "nl")
	tr := New([]Engine{engine})

	res, err := tr.TranslateWithFallbackToEnglish(context.Background(), "item", "nl", "xx", false)
	require.NoError(t, err)
	require.Equal(t, "entry", res.Content)
	require.Equal(t, "en", engine.lastTarget.Load())
}

func TestTranslateEngineError(t *testing.T) {
	boom := errors.New("boom")
	engine := newFakeEngine("fake", 100, "en", "nl")
	engine.fail = boom
	tr := New([]Engine{engine})

	_, err := tr.Translate(context.Background(), itemList(20), "en", "nl", true)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "translate with fake")
}

func TestTranslateUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := cache.NewRedisCacheWithClient(client, time.Hour)
	t.Cleanup(func() { _ = c.Close() })

	engine := newFakeEngine("fake", 1200, "en", "nl")
	tr := New([]Engine{engine}, WithCache(c), WithMetrics(metrics.New()))
	doc := itemList(100)
	ctx := context.Background()

	first, err := tr.Translate(ctx, doc, "en", "nl", true)
	require.NoError(t, err)
	calls := engine.calls.Load()
	require.EqualValues(t, first.Chunks, calls)
	require.Len(t, mr.Keys(), first.Chunks)

	second, err := tr.Translate(ctx, doc, "en", "nl", true)
	require.NoError(t, err)
	require.Equal(t, first.Content, second.Content)
	require.Equal(t, calls, engine.calls.Load())
}

func TestTranslateCacheUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := cache.NewRedisCacheWithClient(client, time.Hour)
	mr.Close()

	engine := newFakeEngine("fake", 1000, "en", "nl")
	tr := New([]Engine{engine}, WithCache(c))

	res, err := tr.Translate(context.Background(), "item", "en", "nl", false)
	require.NoError(t, err)
	require.Equal(t, "entry", res.Content)
}

func TestSupportedLanguages(t *testing.T) {
	tr := New([]Engine{
		newFakeEngine("a", 1000, "en", "nl"),
		newFakeEngine("b", 1000, "de", "en"),
	})
	require.Equal(t, map[string][]string{
		"a": {"en", "nl"},
		"b": {"de", "en"},
	}, tr.SupportedLanguages())
	require.Equal(t, []string{"de", "en", "nl"}, tr.AllLanguages())
	require.True(t, tr.IsLanguageSupported("de-AT"))
	require.False(t, tr.IsLanguageSupported("ja"))
}
