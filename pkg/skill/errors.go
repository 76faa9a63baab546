package skill

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound indicates that no SKILL.md exists for the requested name.
var ErrNotFound = errors.New("skill not found")

// MissingManifestError reports a registry row with no backing SKILL.md.
// It is surfaced rather than skipped so documentation drift is caught.
type MissingManifestError struct {
	Name string
}

func (e *MissingManifestError) Error() string {
	return fmt.Sprintf("registry lists skill %q but no manifest exists at skills/%s/SKILL.md", e.Name, e.Name)
}

// MalformedManifestError reports a SKILL.md that exists but violates the
// manifest schema (missing frontmatter, empty name/description, or a
// frontmatter name that disagrees with the directory).
type MalformedManifestError struct {
	Path   string
	Reason string
}

func (e *MalformedManifestError) Error() string {
	return fmt.Sprintf("malformed manifest %s: %s", e.Path, e.Reason)
}

// ReferenceNotFoundError reports a reference path that a manifest names
// but that does not exist under the skill's references/ directory.
type ReferenceNotFoundError struct {
	Skill string
	Path  string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("skill %q references %s which does not exist", e.Skill, e.Path)
}

// PathEscapeError reports a reference path that would resolve outside the
// owning skill's directory. Authored content must never traverse out of
// its own skill via ".." or absolute paths.
type PathEscapeError struct {
	Skill string
	Path  string
}

func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("reference path %q escapes the directory of skill %q", e.Path, e.Skill)
}
