package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillctl/pkg/skill"
)

const sampleRegistry = `# Skills

Pick a skill from the table and load its manifest.

| Skill | Description |
|-------|-------------|
| ` + "`rest-api-design`" + ` | Use when designing REST APIs. |
| ` + "`api-observability`" + ` | Use when adding health checks and metrics. |
`

func TestParse(t *testing.T) {
	reg, err := Parse([]byte(sampleRegistry))
	require.NoError(t, err)

	require.Len(t, reg.Entries, 2)
	assert.Equal(t, skill.RegistryEntry{
		Name:        "rest-api-design",
		Description: "Use when designing REST APIs.",
	}, reg.Entries[0])
	assert.Equal(t, "api-observability", reg.Entries[1].Name)
}

func TestParsePlainNames(t *testing.T) {
	src := `| Skill | Description |
|---|---|
| rest-api-design | No backticks here. |
`
	reg, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, reg.Entries, 1)
	assert.Equal(t, "rest-api-design", reg.Entries[0].Name)
}

func TestParseNoTable(t *testing.T) {
	reg, err := Parse([]byte("# Skills\n\nNothing tabular here.\n"))
	require.NoError(t, err)
	assert.Empty(t, reg.Entries)
}

func TestParseDuplicate(t *testing.T) {
	src := `| Skill | Description |
|---|---|
| dup-skill | First. |
| dup-skill | Second. |
`
	reg, err := Parse([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")
	// The first occurrence is kept
	require.Len(t, reg.Entries, 1)
	assert.Equal(t, "First.", reg.Entries[0].Description)
}

func TestParseInvalidName(t *testing.T) {
	src := `| Skill | Description |
|---|---|
| Bad_Name | Not kebab-case. |
| good-name | Fine. |
`
	reg, err := Parse([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kebab-case")
	require.Len(t, reg.Entries, 1)
	assert.Equal(t, "good-name", reg.Entries[0].Name)
}

func TestParseEmptyDescription(t *testing.T) {
	src := `| Skill | Description |
|---|---|
| bare-skill | |
`
	_, err := Parse([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description must not be empty")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleRegistry), 0o644))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rest-api-design", "api-observability"}, reg.Names())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "README.md"))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`skills:
  - name: rest-api-design
    description: Use when designing REST APIs.
  - name: spring-testing
    description: Use when testing Spring services.
`), 0o644))

	reg, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rest-api-design", "spring-testing"}, reg.Names())
}

func TestLoadYAMLInvalid(t *testing.T) {
	t.Run("duplicate name", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "registry.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`skills:
  - name: dup-skill
    description: one
  - name: dup-skill
    description: two
`), 0o644))

		_, err := LoadYAML(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than once")
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "registry.yaml")
		require.NoError(t, os.WriteFile(path, []byte("skills: ["), 0o644))

		_, err := LoadYAML(path)
		assert.Error(t, err)
	})
}

func TestRenderRoundTrip(t *testing.T) {
	reg := skill.Registry{Entries: []skill.RegistryEntry{
		{Name: "rest-api-design", Description: "Use when designing REST APIs."},
		{Name: "spring-testing", Description: "Use when testing Spring services."},
	}}

	parsed, err := Parse([]byte(Render(reg)))
	require.NoError(t, err)
	assert.Equal(t, reg, parsed)
}

func TestRegistryLookup(t *testing.T) {
	reg := skill.Registry{Entries: []skill.RegistryEntry{
		{Name: "rest-api-design", Description: "REST"},
	}}

	e, ok := reg.Lookup("rest-api-design")
	require.True(t, ok)
	assert.Equal(t, "REST", e.Description)

	_, ok = reg.Lookup("unknown")
	assert.False(t, ok)
}
