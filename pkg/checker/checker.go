// Package checker validates that the registry, the manifests and the
// reference documents stay mutually consistent. It is meant to run in
// CI: a single pass aggregates every violation it finds instead of
// stopping at the first, so one run surfaces all drift.
package checker

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jingkaihe/skillctl/pkg/logger"
	"github.com/jingkaihe/skillctl/pkg/manifest"
	"github.com/jingkaihe/skillctl/pkg/reference"
	"github.com/jingkaihe/skillctl/pkg/skill"
	"github.com/jingkaihe/skillctl/pkg/telemetry"
)

// Policy controls how non-fatal findings are treated. Whether orphaned
// reference files should break the build is a per-repository decision,
// so it is configuration rather than a constant.
type Policy struct {
	// OrphansFatal promotes orphaned reference files from warnings to
	// violations.
	OrphansFatal bool
}

// Report is the outcome of a consistency check. Violations break the
// build; Warnings are advisory.
type Report struct {
	Violations []error
	Warnings   []string
}

// OK reports whether the check passed.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Err returns all violations as a single aggregated error, or nil.
func (r *Report) Err() error {
	var merr *multierror.Error
	for _, v := range r.Violations {
		merr = multierror.Append(merr, v)
	}
	return merr.ErrorOrNil()
}

// Render writes a human-readable summary of the report.
func (r *Report) Render(w io.Writer) {
	for _, v := range r.Violations {
		fmt.Fprintf(w, "error: %v\n", v)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	fmt.Fprintf(w, "%d violation(s), %d warning(s)\n", len(r.Violations), len(r.Warnings))
}

// Checker runs the consistency pass over a registry snapshot and the
// skills directory behind the given loader and resolver.
type Checker struct {
	registry skill.Registry
	loader   *manifest.Loader
	resolver *reference.Resolver
	policy   Policy
}

// New creates a checker for the given registry snapshot.
func New(registry skill.Registry, loader *manifest.Loader, resolver *reference.Resolver, policy Policy) *Checker {
	return &Checker{
		registry: registry,
		loader:   loader,
		resolver: resolver,
		policy:   policy,
	}
}

// Check runs the full consistency pass:
//
//  1. every registry entry must load as a manifest with a matching name
//  2. every manifest on disk must have a registry entry
//  3. every reference a manifest declares must resolve
//  4. every file under references/ should be declared by its manifest
//     (orphans; warnings unless the policy makes them fatal)
func (c *Checker) Check(ctx context.Context) (*Report, error) {
	report := &Report{}

	err := telemetry.WithSpan(ctx, "checker.Check", func(ctx context.Context) error {
		loaded := c.checkRegistry(ctx, report)
		c.checkUnregistered(report)
		c.checkReferences(report, loaded)
		telemetry.SetAttributes(ctx,
			attribute.Int("check.violations", len(report.Violations)),
			attribute.Int("check.warnings", len(report.Warnings)),
		)
		return nil
	}, attribute.Int("registry.entries", len(c.registry.Entries)))
	if err != nil {
		return nil, err
	}

	logger.G(ctx).WithField("violations", len(report.Violations)).
		WithField("warnings", len(report.Warnings)).
		Debug("consistency check complete")

	return report, nil
}

// checkRegistry loads every registered manifest, recording missing and
// malformed ones. Returns the manifests that did load, keyed by name.
func (c *Checker) checkRegistry(ctx context.Context, report *Report) map[string]*skill.Manifest {
	loaded := make(map[string]*skill.Manifest)

	for _, entry := range c.registry.Entries {
		m, err := c.loader.Load(entry.Name)
		if err != nil {
			if errors.Is(err, skill.ErrNotFound) {
				report.Violations = append(report.Violations, &skill.MissingManifestError{Name: entry.Name})
			} else {
				report.Violations = append(report.Violations, err)
			}
			continue
		}

		logger.G(ctx).WithField("skill", entry.Name).Debug("manifest loaded")
		loaded[entry.Name] = m
	}

	return loaded
}

// checkUnregistered flags manifests on disk that the registry does not
// list, including malformed ones in unregistered directories.
func (c *Checker) checkUnregistered(report *Report) {
	names, err := c.loader.List()
	if err != nil {
		report.Violations = append(report.Violations, err)
		return
	}

	for _, name := range names {
		if _, registered := c.registry.Lookup(name); registered {
			continue
		}

		// Unregistered directories still get schema-checked so a
		// malformed manifest is reported alongside the missing row.
		if _, err := c.loader.Load(name); err != nil {
			report.Violations = append(report.Violations, err)
		}

		report.Violations = append(report.Violations,
			errors.Errorf("skill %q has a manifest but no registry entry", name))
	}
}

// checkReferences resolves every declared reference and detects
// orphaned files under references/.
func (c *Checker) checkReferences(report *Report, loaded map[string]*skill.Manifest) {
	names := make([]string, 0, len(loaded))
	for name := range loaded {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := loaded[name]
		declared := make(map[string]bool)

		for _, ref := range manifest.References(m) {
			declared[ref] = true
			if _, err := c.resolver.Resolve(name, ref); err != nil {
				report.Violations = append(report.Violations, err)
			}
		}

		present, err := c.resolver.List(name)
		if err != nil {
			report.Violations = append(report.Violations, err)
			continue
		}

		for _, ref := range present {
			if declared[ref] {
				continue
			}
			if c.policy.OrphansFatal {
				report.Violations = append(report.Violations,
					errors.Errorf("skill %q has orphaned reference %s (present but never declared)", name, ref))
			} else {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("skill %q has orphaned reference %s (present but never declared)", name, ref))
			}
		}
	}
}
