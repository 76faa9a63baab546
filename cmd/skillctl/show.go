package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillctl/pkg/manifest"
	"github.com/jingkaihe/skillctl/pkg/presenter"
)

var showCmd = &cobra.Command{
	Use:   "show <skill>",
	Short: "Show a skill's manifest",
	Long: `Load a skill's SKILL.md and print its body. This is the always-loaded
part of a skill; reference documents it declares are listed at the end
but not loaded (use "skillctl refs" for those).

Examples:
  skillctl show rest-api-design
  skillctl show api-observability --body-only`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}

		m, err := loader.Load(args[0])
		if err != nil {
			return err
		}

		bodyOnly, _ := cmd.Flags().GetBool("body-only")
		if bodyOnly {
			fmt.Println(m.Body)
			return nil
		}

		presenter.Section(m.Name)
		presenter.Info(m.Description)
		fmt.Println()
		fmt.Println(m.Body)

		if refs := manifest.References(m); len(refs) > 0 {
			presenter.Section("references (load on demand)")
			for _, ref := range refs {
				presenter.Info(ref)
			}
		}
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("body-only", false, "Print only the manifest body")
}
