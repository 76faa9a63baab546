package registry

import (
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jingkaihe/skillctl/pkg/skill"
)

// Matcher ranks registry entries against a task intent. The matching
// policy is deliberately pluggable: the default keyword matcher is
// deterministic and dependency-free, while consumers with semantic or
// model-backed matching can supply their own implementation.
type Matcher interface {
	// Rank returns candidate skill names ordered best-first. An empty
	// result is valid and means no skill applies.
	Rank(intent string, entries []skill.RegistryEntry) []string
}

// KeywordMatcher scores entries by token overlap between the intent
// and the entry's name and description. Ties preserve registry order,
// so ranking is stable for a fixed registry.
type KeywordMatcher struct{}

func (KeywordMatcher) Rank(intent string, entries []skill.RegistryEntry) []string {
	intentTokens := tokenize(intent)
	if len(intentTokens) == 0 {
		return nil
	}

	type candidate struct {
		name  string
		score int
		order int
	}

	var candidates []candidate
	for i, e := range entries {
		entryTokens := make(map[string]bool)
		for _, t := range tokenize(e.Name + " " + e.Description) {
			entryTokens[t] = true
		}

		score := 0
		for _, t := range intentTokens {
			if entryTokens[t] {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, candidate{name: e.Name, score: score, order: i})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].order < candidates[j].order
	})

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.name)
	}
	return names
}

// stopwords excluded from keyword scoring so intents like "use when
// designing an API" don't match every entry that says "Use when".
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "for": true, "i": true,
	"in": true, "is": true, "of": true, "on": true, "the": true,
	"to": true, "use": true, "when": true, "with": true,
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !stopwords[f] {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// GlobMatcher treats the intent as a glob pattern matched against
// skill names. Useful for scripted consumers that already know which
// family of skills they want (e.g. "*-api-design").
type GlobMatcher struct{}

func (GlobMatcher) Rank(intent string, entries []skill.RegistryEntry) []string {
	g, err := glob.Compile(intent)
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if g.Match(e.Name) {
			names = append(names, e.Name)
		}
	}
	return names
}

// FilterByAllowlist returns the registry restricted to entries whose
// names match at least one allowlist pattern. Patterns are globs;
// an empty allowlist keeps everything.
func FilterByAllowlist(reg skill.Registry, allowed []string) skill.Registry {
	if len(allowed) == 0 {
		return reg
	}

	globs := make([]glob.Glob, 0, len(allowed))
	for _, pattern := range allowed {
		if g, err := glob.Compile(pattern); err == nil {
			globs = append(globs, g)
		}
	}

	var filtered []skill.RegistryEntry
	for _, e := range reg.Entries {
		for _, g := range globs {
			if g.Match(e.Name) {
				filtered = append(filtered, e)
				break
			}
		}
	}
	return skill.Registry{Entries: filtered}
}
