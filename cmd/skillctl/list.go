package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillctl/pkg/presenter"
	"github.com/jingkaihe/skillctl/pkg/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered skills",
	Long: `List all skills in the registry with their trigger descriptions.

Examples:
  skillctl list
  skillctl list --allow 'rest-*' --allow graphql-api-design`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		allow, _ := cmd.Flags().GetStringSlice("allow")
		reg = registry.FilterByAllowlist(reg, allow)

		if len(reg.Entries) == 0 {
			presenter.Info("No skills registered")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDESCRIPTION")
		for _, e := range reg.Entries {
			fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.Description)
		}
		return tw.Flush()
	},
}

func init() {
	listCmd.Flags().StringSlice("allow", nil, "Only list skills matching these glob patterns")
}
