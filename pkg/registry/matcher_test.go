package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jingkaihe/skillctl/pkg/skill"
)

var matcherEntries = []skill.RegistryEntry{
	{Name: "rest-api-design", Description: "Use when designing REST APIs: pagination, versioning and error payloads."},
	{Name: "graphql-api-design", Description: "Use when designing GraphQL schemas and resolvers."},
	{Name: "api-observability", Description: "Use when adding health checks, metrics or tracing to an API service."},
	{Name: "spring-testing", Description: "Use when writing tests for Spring Boot services."},
}

func TestKeywordMatcherRank(t *testing.T) {
	m := KeywordMatcher{}

	t.Run("best match first", func(t *testing.T) {
		names := m.Rank("designing pagination for a REST API", matcherEntries)
		assert.NotEmpty(t, names)
		assert.Equal(t, "rest-api-design", names[0])
	})

	t.Run("no applicable skill", func(t *testing.T) {
		names := m.Rank("bake a sourdough loaf", matcherEntries)
		assert.Empty(t, names)
	})

	t.Run("empty intent", func(t *testing.T) {
		assert.Empty(t, m.Rank("", matcherEntries))
	})

	t.Run("stopwords alone do not match", func(t *testing.T) {
		assert.Empty(t, m.Rank("use when the and for", matcherEntries))
	})

	t.Run("deterministic for equal scores", func(t *testing.T) {
		first := m.Rank("designing an api", matcherEntries)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, m.Rank("designing an api", matcherEntries))
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		lower := m.Rank("graphql resolvers", matcherEntries)
		upper := m.Rank("GraphQL Resolvers", matcherEntries)
		assert.Equal(t, lower, upper)
		assert.Contains(t, lower, "graphql-api-design")
	})
}

func TestGlobMatcherRank(t *testing.T) {
	m := GlobMatcher{}

	t.Run("suffix pattern", func(t *testing.T) {
		names := m.Rank("*-api-design", matcherEntries)
		assert.Equal(t, []string{"rest-api-design", "graphql-api-design"}, names)
	})

	t.Run("exact name", func(t *testing.T) {
		names := m.Rank("spring-testing", matcherEntries)
		assert.Equal(t, []string{"spring-testing"}, names)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, m.Rank("database-*", matcherEntries))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		assert.Empty(t, m.Rank("[", matcherEntries))
	})
}

func TestFilterByAllowlist(t *testing.T) {
	reg := skill.Registry{Entries: matcherEntries}

	t.Run("empty allowlist keeps everything", func(t *testing.T) {
		assert.Equal(t, reg, FilterByAllowlist(reg, nil))
	})

	t.Run("exact names", func(t *testing.T) {
		filtered := FilterByAllowlist(reg, []string{"spring-testing"})
		assert.Equal(t, []string{"spring-testing"}, filtered.Names())
	})

	t.Run("glob patterns", func(t *testing.T) {
		filtered := FilterByAllowlist(reg, []string{"*-api-design"})
		assert.Equal(t, []string{"rest-api-design", "graphql-api-design"}, filtered.Names())
	})

	t.Run("unknown names filter everything out", func(t *testing.T) {
		filtered := FilterByAllowlist(reg, []string{"no-such-skill"})
		assert.Empty(t, filtered.Entries)
	})
}
