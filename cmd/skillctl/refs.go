package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillctl/pkg/manifest"
	"github.com/jingkaihe/skillctl/pkg/presenter"
)

var refsCmd = &cobra.Command{
	Use:   "refs <skill> [path]",
	Short: "List or load a skill's reference documents",
	Long: `Without a path, list the reference documents a skill's manifest
declares. With a path, load that single document.

Examples:
  skillctl refs api-observability
  skillctl refs api-observability references/java-spring.md`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		skillName := args[0]

		if len(args) == 2 {
			resolver, err := newResolver()
			if err != nil {
				return err
			}

			content, err := resolver.Resolve(skillName, args[1])
			if err != nil {
				return err
			}
			fmt.Print(content)
			return nil
		}

		loader, err := newLoader()
		if err != nil {
			return err
		}

		m, err := loader.Load(skillName)
		if err != nil {
			return err
		}

		refs := manifest.References(m)
		if len(refs) == 0 {
			presenter.Info("No references declared")
			return nil
		}
		for _, ref := range refs {
			fmt.Println(ref)
		}
		return nil
	},
}
