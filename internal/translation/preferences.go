package translation

import (
	"slices"
	"strings"
)

// Preferences orders engines by name. Engines listed in General are tried
// first, in that order. An engine set for a language pair in Pairs is tried
// before any other for that pair.
type Preferences struct {
	General []string
	// Pairs maps PairKey(source, target) to an engine name.
	Pairs map[string]string
}

// PairKey identifies a language pair in Preferences.Pairs.
func PairKey(source, target string) string {
	return NormalizeLanguage(source) + ":" + NormalizeLanguage(target)
}

// ParsePairs reads pair preferences written as "nl:en=deepl,fr:de=other".
// Malformed entries are skipped.
func ParsePairs(s string) map[string]string {
	pairs := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		key, engine, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok || engine == "" {
			continue
		}
		source, target, ok := strings.Cut(key, ":")
		if !ok || source == "" || target == "" {
			continue
		}
		pairs[PairKey(source, target)] = strings.TrimSpace(engine)
	}
	return pairs
}

// Order returns a copy of engines sorted for translating source to target.
// Engines without a preference keep their relative order.
func (p Preferences) Order(engines []Engine, source, target string) []Engine {
	ordered := slices.Clone(engines)
	if len(p.General) == 0 && len(p.Pairs) == 0 {
		return ordered
	}
	pairEngine := p.Pairs[PairKey(source, target)]
	rank := func(e Engine) int {
		if pairEngine != "" && e.Name() == pairEngine {
			return -1
		}
		if i := slices.Index(p.General, e.Name()); i >= 0 {
			return i
		}
		return len(p.General)
	}
	slices.SortStableFunc(ordered, func(a, b Engine) int {
		return rank(a) - rank(b)
	})
	return ordered
}
