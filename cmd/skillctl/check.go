package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillctl/pkg/checker"
	"github.com/jingkaihe/skillctl/pkg/logger"
	"github.com/jingkaihe/skillctl/pkg/presenter"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check registry, manifests and references for drift",
	Long: `Run the consistency check over the skills directory: every registry
entry must have a well-formed manifest, every manifest must be
registered, and every declared reference must resolve. All violations
are reported in one pass. Orphaned reference files are warnings unless
--strict-orphans is set.

Examples:
  skillctl check
  skillctl check --strict-orphans
  skillctl check --watch`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		strictOrphans, _ := cmd.Flags().GetBool("strict-orphans")
		watch, _ := cmd.Flags().GetBool("watch")

		run := func(ctx context.Context) (bool, error) {
			reg, err := loadRegistry()
			if err != nil {
				return false, err
			}
			loader, err := newLoader()
			if err != nil {
				return false, err
			}
			resolver, err := newResolver()
			if err != nil {
				return false, err
			}

			c := checker.New(reg, loader, resolver, checker.Policy{OrphansFatal: strictOrphans})
			report, err := c.Check(ctx)
			if err != nil {
				return false, err
			}

			report.Render(os.Stdout)
			return report.OK(), nil
		}

		if !watch {
			ok, err := run(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("consistency check failed")
			}
			presenter.Success("skills are consistent")
			return nil
		}

		return watchAndCheck(ctx, run)
	},
}

func init() {
	checkCmd.Flags().Bool("strict-orphans", false, "Treat orphaned reference files as violations")
	checkCmd.Flags().Bool("watch", false, "Re-run the check when the skills directory changes")
}

// watchAndCheck re-runs the consistency check whenever files under the
// skills directory change, debouncing bursts of filesystem events.
func watchAndCheck(ctx context.Context, run func(context.Context) (bool, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create filesystem watcher")
	}
	defer watcher.Close()

	dir := skillsDir()
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && d.IsDir() {
			_ = watcher.Add(path)
		}
		return nil
	})

	if _, err := run(ctx); err != nil {
		return err
	}
	presenter.Info(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", dir))

	var debounce *time.Timer
	rerun := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.G(ctx).WithField("event", event.String()).Debug("filesystem event")

			// New directories need to be watched too
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(300*time.Millisecond, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Warn("filesystem watcher error")
		case <-rerun:
			presenter.Section(time.Now().Format(time.TimeOnly))
			if _, err := run(ctx); err != nil {
				presenter.Error(err, "check failed")
			}
		}
	}
}
