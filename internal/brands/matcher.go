package brands

import (
	"sort"
	"strings"
)

// Set is a deduplicated, sorted collection of brand names. The zero value is
// an empty set.
type Set []string

func NewSet(names ...string) Set {
	if len(names) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(names))
	set := make(Set, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		set = append(set, name)
	}
	sort.Strings(set)

	return set
}

func (s Set) Has(name string) bool {
	i := sort.SearchStrings(s, name)
	return i < len(s) && s[i] == name
}

func (s Set) Len() int {
	return len(s)
}

func (s Set) IsEmpty() bool {
	return len(s) == 0
}

// String joins the set with ";" for flat exports.
func (s Set) String() string {
	return strings.Join(s, ";")
}

func Normalize(text string) string {
	return strings.ToLower(text)
}

// Match returns every brand in vocabulary that occurs as a substring of text,
// ignoring case. Whole-word boundaries are not checked, so "lg" also matches
// "bulge".
func Match(text string, vocabulary []string) Set {
	if text == "" {
		return nil
	}

	normalized := Normalize(text)

	var hits []string
	for _, brand := range vocabulary {
		if brand == "" {
			continue
		}
		if strings.Contains(normalized, brand) {
			hits = append(hits, brand)
		}
	}

	return NewSet(hits...)
}

// NewVocabulary lowercases, trims and deduplicates a configured brand list,
// keeping the configured order.
func NewVocabulary(names []string) []string {
	vocabulary := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		name = Normalize(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		vocabulary = append(vocabulary, name)
	}

	return vocabulary
}
