package reference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillctl/pkg/skill"
)

func setupSkill(t *testing.T, refs map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()
	skillDir := filepath.Join(tmpDir, "api-observability")
	require.NoError(t, os.MkdirAll(skillDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte("---\nname: api-observability\ndescription: d\n---\n"), 0o644))

	for rel, content := range refs {
		path := filepath.Join(skillDir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return tmpDir
}

func TestResolve(t *testing.T) {
	tmpDir := setupSkill(t, map[string]string{
		"references/java-spring.md": "# Spring Actuator\n",
	})

	resolver, err := NewResolver(WithSkillsDir(tmpDir))
	require.NoError(t, err)

	content, err := resolver.Resolve("api-observability", "references/java-spring.md")
	require.NoError(t, err)
	assert.Equal(t, "# Spring Actuator\n", content)
}

func TestResolveNotFound(t *testing.T) {
	tmpDir := setupSkill(t, map[string]string{
		"references/java-spring.md": "content",
	})

	resolver, err := NewResolver(WithSkillsDir(tmpDir))
	require.NoError(t, err)

	_, err = resolver.Resolve("api-observability", "references/kotlin-spring.md")
	require.Error(t, err)

	var notFound *skill.ReferenceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "api-observability", notFound.Skill)
	assert.Equal(t, "references/kotlin-spring.md", notFound.Path)
}

func TestResolvePathEscape(t *testing.T) {
	tmpDir := setupSkill(t, nil)

	// A file outside the skill directory that a traversal would reach
	secret := filepath.Join(tmpDir, "secret.md")
	require.NoError(t, os.WriteFile(secret, []byte("not yours"), 0o644))

	resolver, err := NewResolver(WithSkillsDir(tmpDir))
	require.NoError(t, err)

	for _, path := range []string{
		"references/../../secret.md",
		"../api-observability/references/x.md",
		"references/../../../etc/passwd",
		"/etc/passwd",
	} {
		_, err := resolver.Resolve("api-observability", path)
		require.Error(t, err, "path %q must be rejected", path)

		var escape *skill.PathEscapeError
		assert.ErrorAs(t, err, &escape, "path %q should be a PathEscapeError", path)
	}
}

func TestResolveOutsideReferences(t *testing.T) {
	tmpDir := setupSkill(t, nil)

	resolver, err := NewResolver(WithSkillsDir(tmpDir))
	require.NoError(t, err)

	// Inside the skill directory but not under references/
	_, err = resolver.Resolve("api-observability", "SKILL.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "references/")

	_, err = resolver.Resolve("api-observability", "")
	assert.Error(t, err)
}

func TestResolveInvalidSkillName(t *testing.T) {
	resolver, err := NewResolver(WithSkillsDir(t.TempDir()))
	require.NoError(t, err)

	_, err = resolver.Resolve("Not Valid", "references/x.md")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	tmpDir := setupSkill(t, map[string]string{
		"references/java-spring.md":      "a",
		"references/slo.md":              "b",
		"references/deep/dive.md":        "c",
		"references/notes.txt":           "not markdown",
		"references/java-spring.md.orig": "not markdown either",
	})

	resolver, err := NewResolver(WithSkillsDir(tmpDir))
	require.NoError(t, err)

	refs, err := resolver.List("api-observability")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"references/deep/dive.md",
		"references/java-spring.md",
		"references/slo.md",
	}, refs)
}

func TestListNoReferencesDir(t *testing.T) {
	tmpDir := setupSkill(t, nil)

	resolver, err := NewResolver(WithSkillsDir(tmpDir))
	require.NoError(t, err)

	refs, err := resolver.List("api-observability")
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestListUnknownSkill(t *testing.T) {
	resolver, err := NewResolver(WithSkillsDir(t.TempDir()))
	require.NoError(t, err)

	_, err = resolver.List("missing-skill")
	assert.ErrorIs(t, err, skill.ErrNotFound)
}
