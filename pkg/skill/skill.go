// Package skill defines the core types of the skill documentation
// convention: manifests (SKILL.md files with YAML frontmatter), the
// registry that indexes them, and the errors raised when the two
// drift apart. All types are plain values read from committed files;
// nothing here mutates state at consumption time.
package skill

import "regexp"

// namePattern is the naming convention shared by skill directories,
// frontmatter names and registry rows.
var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidName reports whether name is a well-formed kebab-case skill name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Manifest is a fully loaded SKILL.md: the always-loaded unit of a skill.
type Manifest struct {
	Name        string   // Unique name from frontmatter, matches the directory name
	Description string   // Trigger description used for candidate selection
	Directory   string   // Full path to the skill directory
	Body        string   // Markdown body with frontmatter stripped
	SeeAlso     []string // Declared reference paths, relative to Directory
}

// Metadata is the YAML frontmatter schema of a SKILL.md file.
type Metadata struct {
	Name        string   `mapstructure:"name" yaml:"name"`
	Description string   `mapstructure:"description" yaml:"description"`
	SeeAlso     []string `mapstructure:"see_also" yaml:"see_also,omitempty"`
}

// RegistryEntry is one row of the skill registry.
type RegistryEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Registry is an immutable snapshot of the registry index. Consumers
// receive it explicitly rather than re-reading the filesystem at call
// sites, so lookups stay deterministic for a fixed commit.
type Registry struct {
	Entries []RegistryEntry
}

// Lookup returns the entry for name if the registry lists it.
func (r Registry) Lookup(name string) (RegistryEntry, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return RegistryEntry{}, false
}

// Names returns all registered skill names in registry order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		names = append(names, e.Name)
	}
	return names
}
