package main

import (
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillctl/pkg/logger"
	"github.com/jingkaihe/skillctl/pkg/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve skills to agent runtimes over MCP stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing the
skill corpus: list_skills, load_skill and read_reference. Host agents
connect this as an MCP server to load skills and their reference
documents on demand.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		loader, err := newLoader()
		if err != nil {
			return err
		}
		resolver, err := newResolver()
		if err != nil {
			return err
		}

		logger.G(ctx).WithField("skills", len(reg.Entries)).Info("starting MCP server on stdio")
		return mcpserver.New(reg, loader, resolver).ServeStdio()
	},
}
