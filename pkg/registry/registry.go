// Package registry parses the skill registry: the index a consuming
// agent scans to shortlist skills before loading any manifest. The
// canonical registry is the markdown table in skills/README.md; a
// machine-readable registry.yaml is supported as an alternative for
// tooling that prefers structured input.
package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/skillctl/pkg/skill"
)

// Parse extracts registry entries from markdown source. Every row of
// every table is treated as an entry: first cell is the skill name
// (backticks allowed), second cell the trigger description. Duplicate
// or malformed names are aggregated into the returned error.
func Parse(src []byte) (skill.Registry, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
	)
	doc := md.Parser().Parse(text.NewReader(src))

	var entries []skill.RegistryEntry
	var merr *multierror.Error
	seen := make(map[string]bool)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		row, ok := n.(*east.TableRow)
		if !ok {
			return ast.WalkContinue, nil
		}

		cells := cellTexts(row, src)
		if len(cells) < 2 {
			return ast.WalkSkipChildren, nil
		}

		name := strings.TrimSpace(cells[0])
		description := strings.TrimSpace(cells[1])

		if name == "" {
			return ast.WalkSkipChildren, nil
		}
		if !skill.ValidName(name) {
			merr = multierror.Append(merr, errors.Errorf("registry row %q: name must be kebab-case ([a-z0-9-]+)", name))
			return ast.WalkSkipChildren, nil
		}
		if seen[name] {
			merr = multierror.Append(merr, errors.Errorf("registry lists skill %q more than once", name))
			return ast.WalkSkipChildren, nil
		}
		if description == "" {
			merr = multierror.Append(merr, errors.Errorf("registry row %q: description must not be empty", name))
			return ast.WalkSkipChildren, nil
		}

		seen[name] = true
		entries = append(entries, skill.RegistryEntry{Name: name, Description: description})
		return ast.WalkSkipChildren, nil
	})

	return skill.Registry{Entries: entries}, merr.ErrorOrNil()
}

// LoadFile reads and parses a markdown registry, conventionally
// skills/README.md.
func LoadFile(path string) (skill.Registry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return skill.Registry{}, errors.Wrapf(err, "failed to read registry %s", path)
	}

	reg, err := Parse(src)
	if err != nil {
		return reg, errors.Wrapf(err, "invalid registry %s", path)
	}
	return reg, nil
}

// yamlRegistry is the schema of a registry.yaml file.
type yamlRegistry struct {
	Skills []skill.RegistryEntry `yaml:"skills"`
}

// LoadYAML reads a machine-readable registry.yaml with a top-level
// skills list of {name, description} pairs.
func LoadYAML(path string) (skill.Registry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return skill.Registry{}, errors.Wrapf(err, "failed to read registry %s", path)
	}

	var doc yamlRegistry
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return skill.Registry{}, errors.Wrapf(err, "failed to parse registry %s", path)
	}

	seen := make(map[string]bool)
	var merr *multierror.Error
	for _, e := range doc.Skills {
		if !skill.ValidName(e.Name) {
			merr = multierror.Append(merr, errors.Errorf("registry entry %q: name must be kebab-case ([a-z0-9-]+)", e.Name))
			continue
		}
		if seen[e.Name] {
			merr = multierror.Append(merr, errors.Errorf("registry lists skill %q more than once", e.Name))
			continue
		}
		if e.Description == "" {
			merr = multierror.Append(merr, errors.Errorf("registry entry %q: description must not be empty", e.Name))
			continue
		}
		seen[e.Name] = true
	}

	if err := merr.ErrorOrNil(); err != nil {
		return skill.Registry{}, errors.Wrapf(err, "invalid registry %s", path)
	}

	return skill.Registry{Entries: doc.Skills}, nil
}

// cellTexts collects the plain text of each cell in a table row.
// Header rows are a separate AST node type and never reach here.
func cellTexts(row ast.Node, src []byte) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*east.TableCell); !ok {
			continue
		}
		var sb strings.Builder
		collectText(cell, src, &sb)
		cells = append(cells, sb.String())
	}
	return cells
}

// collectText walks a node's subtree appending all literal text,
// which flattens code spans and emphasis inside table cells.
func collectText(n ast.Node, src []byte, sb *strings.Builder) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
			continue
		}
		collectText(c, src, sb)
	}
}

// Render writes a registry back out as the canonical markdown table.
func Render(reg skill.Registry) string {
	var sb strings.Builder
	sb.WriteString("| Skill | Description |\n")
	sb.WriteString("|-------|-------------|\n")
	for _, e := range reg.Entries {
		fmt.Fprintf(&sb, "| `%s` | %s |\n", e.Name, e.Description)
	}
	return sb.String()
}
