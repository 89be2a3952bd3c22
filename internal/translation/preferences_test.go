package translation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func engineNames(engines []Engine) []string {
	names := make([]string, len(engines))
	for i, e := range engines {
		names[i] = e.Name()
	}
	return names
}

func TestPreferencesOrder(t *testing.T) {
	engines := []Engine{
		newFakeEngine("azure", 1000, "en", "nl"),
		newFakeEngine("deepl", 1000, "en", "nl"),
		newFakeEngine("google", 1000, "en", "nl"),
	}

	var none Preferences
	require.Equal(t, []string{"azure", "deepl", "google"}, engineNames(none.Order(engines, "nl", "en")))

	prefs := Preferences{
		General: []string{"google", "deepl"},
		Pairs:   ParsePairs("nl:en=azure, fr:de=deepl, broken, x=y"),
	}
	require.Equal(t, map[string]string{"nl:en": "azure", "fr:de": "deepl"}, prefs.Pairs)
	require.Equal(t, []string{"google", "deepl", "azure"}, engineNames(prefs.Order(engines, "en", "nl")))
	require.Equal(t, []string{"azure", "google", "deepl"}, engineNames(prefs.Order(engines, "NL", "en")))
	require.Equal(t, []string{"azure", "deepl", "google"}, engineNames(engines), "input is not reordered")
}

func TestTranslateUsesPreferredEngine(t *testing.T) {
	first := newFakeEngine("first", 1000, "en", "nl")
	second := newFakeEngine("second", 1000, "en", "nl")
	tr := New([]Engine{first, second}, WithPreferences(Preferences{
		Pairs: map[string]string{PairKey("en", "nl"): "second"},
	}))
	ctx := context.Background()

	res, err := tr.Translate(ctx, "x", "en", "nl", false)
	require.NoError(t, err)
	require.Equal(t, "second", res.Engine)

	res, err = tr.Translate(ctx, "x", "nl", "en", false)
	require.NoError(t, err)
	require.Equal(t, "first", res.Engine)
}

func TestPreferencesKeepStrictMatchFirst(t *testing.T) {
	base := newFakeEngine("base", 1000, "en", "nl")
	dialect := newFakeEngine("dialect", 1000, "en-gb", "nl")
	tr := New([]Engine{dialect, base}, WithPreferences(Preferences{General: []string{"base"}}))

	res, err := tr.Translate(context.Background(), "x", "nl", "en-gb", false)
	require.NoError(t, err)
	require.Equal(t, "dialect", res.Engine)
}
