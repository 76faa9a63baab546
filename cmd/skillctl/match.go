package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillctl/pkg/presenter"
	"github.com/jingkaihe/skillctl/pkg/registry"
)

var matchCmd = &cobra.Command{
	Use:   "match <intent>...",
	Short: "Rank skills against a task intent",
	Long: `Rank registered skills against a natural-language task intent using
the configured matcher. An empty result means no skill applies.

Examples:
  skillctl match designing pagination for a REST API
  skillctl match --matcher glob '*-api-design'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		matcherName, _ := cmd.Flags().GetString("matcher")
		var matcher registry.Matcher
		switch matcherName {
		case "keyword":
			matcher = registry.KeywordMatcher{}
		case "glob":
			matcher = registry.GlobMatcher{}
		default:
			return errors.Errorf("unknown matcher %q (expected keyword or glob)", matcherName)
		}

		intent := strings.Join(args, " ")
		names := matcher.Rank(intent, reg.Entries)
		if len(names) == 0 {
			presenter.Info("No applicable skill")
			return nil
		}

		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().String("matcher", "keyword", "Matching strategy (keyword, glob)")
}
