package skill

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidName(t *testing.T) {
	valid := []string{"rest-api-design", "a", "skill2", "api-observability"}
	for _, name := range valid {
		assert.True(t, ValidName(name), "%q should be valid", name)
	}

	invalid := []string{"", "Rest-API", "has space", "under_score", "dots.md", "../up", "trailing/"}
	for _, name := range invalid {
		assert.False(t, ValidName(name), "%q should be invalid", name)
	}
}

func TestRegistryNames(t *testing.T) {
	reg := Registry{Entries: []RegistryEntry{
		{Name: "alpha-skill"},
		{Name: "beta-skill"},
	}}
	assert.Equal(t, []string{"alpha-skill", "beta-skill"}, reg.Names())
	assert.Empty(t, Registry{}.Names())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t,
		`registry lists skill "codegen-helper" but no manifest exists at skills/codegen-helper/SKILL.md`,
		(&MissingManifestError{Name: "codegen-helper"}).Error())

	assert.Contains(t,
		(&MalformedManifestError{Path: "skills/x/SKILL.md", Reason: "missing frontmatter"}).Error(),
		"missing frontmatter")

	assert.Contains(t,
		(&ReferenceNotFoundError{Skill: "api-observability", Path: "references/kotlin-spring.md"}).Error(),
		"references/kotlin-spring.md")

	assert.Contains(t,
		(&PathEscapeError{Skill: "x", Path: "references/../../etc"}).Error(),
		"escapes")
}

func TestErrNotFoundWrapping(t *testing.T) {
	err := errors.Wrap(ErrNotFound, "skill \"x\"")
	assert.ErrorIs(t, err, ErrNotFound)
}
