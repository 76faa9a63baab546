// Package reference resolves a skill's reference documents: the
// longer, topic-specific files under references/ that are loaded only
// when a manifest explicitly names them. The resolver never enumerates
// or reads references on its own initiative; callers pass the exact
// path a manifest declared, which keeps the context a consumer pulls
// in bounded per task.
package reference

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillctl/pkg/skill"
)

const referencesDir = "references"

// Resolver loads reference documents for skills under a skills directory.
type Resolver struct {
	skillsDir string
}

// Option is a function that configures a Resolver
type Option func(*Resolver) error

// WithSkillsDir sets a custom skills directory
func WithSkillsDir(dir string) Option {
	return func(r *Resolver) error {
		if dir == "" {
			return errors.New("skills directory must not be empty")
		}
		r.skillsDir = dir
		return nil
	}
}

// NewResolver creates a new reference resolver
func NewResolver(opts ...Option) (*Resolver, error) {
	r := &Resolver{skillsDir: "skills"}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Resolve loads one reference document for a skill. relPath is the
// path a manifest declared, relative to the skill directory, e.g.
// "references/java-spring.md". Paths that are absolute, contain ".."
// segments, or point outside references/ are rejected with a
// *skill.PathEscapeError before any file is touched.
func (r *Resolver) Resolve(skillName, relPath string) (string, error) {
	if !skill.ValidName(skillName) {
		return "", errors.Errorf("invalid skill name %q: must be kebab-case ([a-z0-9-]+)", skillName)
	}

	if err := validatePath(skillName, relPath); err != nil {
		return "", err
	}

	skillDir := filepath.Join(r.skillsDir, skillName)
	full := filepath.Join(skillDir, filepath.FromSlash(relPath))

	// The joined path must still be inside the skill directory
	rel, err := filepath.Rel(skillDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &skill.PathEscapeError{Skill: skillName, Path: relPath}
	}

	content, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &skill.ReferenceNotFoundError{Skill: skillName, Path: relPath}
		}
		return "", errors.Wrapf(err, "failed to read reference %s for skill %q", relPath, skillName)
	}

	return string(content), nil
}

// List enumerates every markdown file under the skill's references/
// directory, sorted, as slash-separated paths relative to the skill
// directory. Used by the consistency checker for orphan detection;
// consumers loading context should resolve declared paths instead.
func (r *Resolver) List(skillName string) ([]string, error) {
	if !skill.ValidName(skillName) {
		return nil, errors.Errorf("invalid skill name %q: must be kebab-case ([a-z0-9-]+)", skillName)
	}

	skillDir := filepath.Join(r.skillsDir, skillName)
	if _, err := os.Stat(skillDir); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(skill.ErrNotFound, "skill %q", skillName)
		}
		return nil, errors.Wrapf(err, "failed to stat skill directory for %q", skillName)
	}

	matches, err := doublestar.Glob(os.DirFS(skillDir), referencesDir+"/**/*.md")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to scan references for skill %q", skillName)
	}

	sort.Strings(matches)
	return matches, nil
}

// validatePath enforces the reference path contract on the declared
// (slash-separated) form before it ever reaches the filesystem.
func validatePath(skillName, relPath string) error {
	if relPath == "" {
		return errors.New("reference path must not be empty")
	}
	if path.IsAbs(relPath) || filepath.IsAbs(relPath) {
		return &skill.PathEscapeError{Skill: skillName, Path: relPath}
	}

	for _, seg := range strings.Split(relPath, "/") {
		if seg == ".." {
			return &skill.PathEscapeError{Skill: skillName, Path: relPath}
		}
	}

	cleaned := path.Clean(relPath)
	if cleaned != relPath || !strings.HasPrefix(cleaned, referencesDir+"/") {
		return errors.Errorf("reference path %q must live under %s/ within the skill directory", relPath, referencesDir)
	}

	return nil
}
