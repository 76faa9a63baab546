// Package manifest loads and validates SKILL.md manifests. A manifest
// is the always-loaded half of a skill: YAML frontmatter carrying the
// name and trigger description, followed by a markdown body of
// condensed guidance. Reference documents under references/ are never
// touched here; see the reference package for on-demand loading.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/jingkaihe/skillctl/pkg/skill"
)

const skillFileName = "SKILL.md"

// refPattern matches references/*.md paths mentioned in manifest body
// prose. Kept as a fallback for manifests that predate the structured
// see_also frontmatter list.
var refPattern = regexp.MustCompile(`references/[A-Za-z0-9._/-]+\.md`)

// Loader resolves skill names to manifests under a skills directory.
type Loader struct {
	skillsDir string
}

// Option is a function that configures a Loader
type Option func(*Loader) error

// WithSkillsDir sets a custom skills directory
func WithSkillsDir(dir string) Option {
	return func(l *Loader) error {
		if dir == "" {
			return errors.New("skills directory must not be empty")
		}
		l.skillsDir = dir
		return nil
	}
}

// WithDefaultDir points the loader at ./skills, the conventional
// location of the corpus in this repository.
func WithDefaultDir() Option {
	return func(l *Loader) error {
		l.skillsDir = "skills"
		return nil
	}
}

// NewLoader creates a new manifest loader
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{}

	if len(opts) == 0 {
		if err := WithDefaultDir()(l); err != nil {
			return nil, err
		}
	} else {
		for _, opt := range opts {
			if err := opt(l); err != nil {
				return nil, err
			}
		}
	}

	return l, nil
}

// SkillsDir returns the directory the loader reads manifests from.
func (l *Loader) SkillsDir() string {
	return l.skillsDir
}

// Load resolves a skill name to its full manifest. It returns
// skill.ErrNotFound when no SKILL.md exists for the name and a
// *skill.MalformedManifestError when the file violates the schema.
// Repeated loads of the same name return identical content for a
// fixed commit.
func (l *Loader) Load(name string) (*skill.Manifest, error) {
	if !skill.ValidName(name) {
		return nil, errors.Errorf("invalid skill name %q: must be kebab-case ([a-z0-9-]+)", name)
	}

	dir := filepath.Join(l.skillsDir, name)
	path := filepath.Join(dir, skillFileName)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(skill.ErrNotFound, "skill %q", name)
		}
		return nil, errors.Wrapf(err, "failed to read manifest for skill %q", name)
	}

	m, err := parse(content, path)
	if err != nil {
		return nil, err
	}

	if m.Name != name {
		return nil, &skill.MalformedManifestError{
			Path:   path,
			Reason: fmt.Sprintf("frontmatter name %q does not match directory %q", m.Name, name),
		}
	}

	m.Directory = dir
	return m, nil
}

// List returns the names of all skill directories that contain a
// SKILL.md, sorted, without parsing the manifests.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.skillsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read skills directory %s", l.skillsDir)
	}

	var names []string
	for _, entry := range entries {
		entryPath := filepath.Join(l.skillsDir, entry.Name())

		// Stat instead of entry.IsDir so symlinked skill directories work
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		if _, err := os.Stat(filepath.Join(entryPath, skillFileName)); err != nil {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}

// Discover loads every manifest under the skills directory. Valid
// manifests are returned keyed by name; malformed ones are aggregated
// into the returned error so drift is reported rather than silently
// skipped. The map is usable even when the error is non-nil.
func (l *Loader) Discover() (map[string]*skill.Manifest, error) {
	names, err := l.List()
	if err != nil {
		return nil, err
	}

	manifests := make(map[string]*skill.Manifest)
	var merr *multierror.Error

	for _, name := range names {
		m, err := l.Load(name)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		manifests[name] = m
	}

	return manifests, merr.ErrorOrNil()
}

// References returns every reference path a manifest declares, in
// order: the structured see_also list first, then any references/*.md
// paths mentioned in the body prose that see_also did not already
// cover. Paths are relative to the skill directory.
func References(m *skill.Manifest) []string {
	seen := make(map[string]bool, len(m.SeeAlso))
	refs := make([]string, 0, len(m.SeeAlso))

	for _, p := range m.SeeAlso {
		if !seen[p] {
			seen[p] = true
			refs = append(refs, p)
		}
	}

	for _, p := range refPattern.FindAllString(m.Body, -1) {
		if !seen[p] {
			seen[p] = true
			refs = append(refs, p)
		}
	}

	return refs
}

// parse extracts frontmatter and body from raw SKILL.md content.
func parse(content []byte, path string) (*skill.Manifest, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrapf(err, "failed to parse markdown in %s", path)
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, &skill.MalformedManifestError{Path: path, Reason: "missing frontmatter"}
	}

	var fm skill.Metadata
	if err := mapstructure.Decode(metaData, &fm); err != nil {
		return nil, &skill.MalformedManifestError{Path: path, Reason: "invalid frontmatter: " + err.Error()}
	}

	if fm.Name == "" {
		return nil, &skill.MalformedManifestError{Path: path, Reason: "name is required in frontmatter"}
	}
	if !skill.ValidName(fm.Name) {
		return nil, &skill.MalformedManifestError{Path: path, Reason: "name must be kebab-case ([a-z0-9-]+)"}
	}
	if fm.Description == "" {
		return nil, &skill.MalformedManifestError{Path: path, Reason: "description is required in frontmatter"}
	}

	return &skill.Manifest{
		Name:        fm.Name,
		Description: fm.Description,
		Body:        extractBody(string(content)),
		SeeAlso:     fm.SeeAlso,
	}, nil
}

// extractBody removes YAML frontmatter and returns the markdown body
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}
