// Package feature matches and normalizes the per-article section flags.
//
// Stored documents carry flag bags written by several generations of tooling,
// so the same flag appears as "breaking_news", "Breaking News" or "breakingNews".
// The canonical form is snake_case; every other spelling is an import format.
package feature

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

const (
	BreakingNews = "breaking_news"
	TrendingNews = "trending_news"
	Home         = "home"
	Articles     = "articles"
	BestOfWeek   = "best_of_week"
	Bookmarks    = "bookmarks"
	Categories   = "categories"
	History      = "history"
	JobsCareers  = "jobs_careers"
)

// CanonicalKeys lists every canonical key in display order.
var CanonicalKeys = []string{
	BreakingNews, TrendingNews, Home, Articles, BestOfWeek,
	Bookmarks, Categories, History, JobsCareers,
}

// historical spellings seen in stored documents, per canonical key
var aliases = map[string][]string{
	BreakingNews: {"Breaking News", "breakingNews", "breaking"},
	TrendingNews: {"Trending News", "trendingNews", "trending"},
	Home:         {"Home"},
	Articles:     {"Articles"},
	BestOfWeek:   {"Best of Week", "bestOfWeek"},
	Bookmarks:    {"Bookmarks"},
	Categories:   {"Categories"},
	History:      {"History"},
	JobsCareers:  {"Jobs/Careers", "jobsCareers"},
}

// snake-cased short forms that do not derive mechanically from the canonical key
var shortForms = map[string]string{
	"breaking": BreakingNews,
	"trending": TrendingNews,
}

var whitespace = regexp.MustCompile(`\s+`)

// Variants returns the spellings probed for name, most literal first.
func Variants(name string) []string {
	lower := strings.ToLower(name)

	capitalized := ""
	if r := []rune(name); len(r) > 0 {
		capitalized = string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
	}

	words := strings.Split(name, "_")
	for i, w := range words {
		if r := []rune(w); len(r) > 0 {
			words[i] = string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
		}
	}

	return []string{
		name,
		lower,
		strings.ToLower(whitespace.ReplaceAllString(name, "_")),
		strings.ReplaceAll(name, "_", " "),
		capitalized,
		strings.Join(words, " "),
	}
}

// HasFeature reports whether any known spelling of name is set to true in flags.
func HasFeature(flags map[string]bool, name string) bool {
	if len(flags) == 0 || name == "" {
		return false
	}
	for _, v := range Variants(name) {
		if flags[v] {
			return true
		}
	}
	canonical := Canonical(name)
	if flags[canonical] {
		return true
	}
	for _, alias := range aliases[canonical] {
		if flags[alias] {
			return true
		}
	}
	return false
}

// Canonical maps any spelling of a flag onto its snake_case key.
func Canonical(name string) string {
	key := snake(name)
	if c, ok := shortForms[key]; ok {
		return c
	}
	return key
}

func snake(name string) string {
	var b strings.Builder
	runes := []rune(strings.TrimSpace(name))
	pendingSep := false
	for i, r := range runes {
		switch {
		case r == ' ' || r == '_' || r == '-' || r == '/':
			pendingSep = b.Len() > 0
			continue
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			pendingSep = b.Len() > 0
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Normalize rewrites flags onto canonical keys. Spellings that collide are
// merged with logical OR. changed reports whether any key was rewritten.
func Normalize(flags map[string]bool) (normalized map[string]bool, changed bool) {
	normalized = make(map[string]bool, len(flags))
	for k, v := range flags {
		c := Canonical(k)
		if c != k {
			changed = true
		}
		normalized[c] = normalized[c] || v
	}
	return normalized, changed
}

// FromRaw converts a stored flag bag into booleans. Values follow the loose
// truthiness of the tools that wrote them: non-empty strings and non-zero
// numbers count as set.
func FromRaw(raw map[string]interface{}) (flags map[string]bool, allBool bool) {
	flags = make(map[string]bool, len(raw))
	allBool = true
	for k, v := range raw {
		if _, ok := v.(bool); !ok {
			allBool = false
		}
		flags[k] = Truthy(v)
	}
	return flags, allBool
}

func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case float32:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	default:
		return true
	}
}
