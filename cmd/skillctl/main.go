package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillctl/pkg/logger"
	"github.com/jingkaihe/skillctl/pkg/manifest"
	"github.com/jingkaihe/skillctl/pkg/presenter"
	"github.com/jingkaihe/skillctl/pkg/reference"
	"github.com/jingkaihe/skillctl/pkg/registry"
	"github.com/jingkaihe/skillctl/pkg/skill"
	"github.com/jingkaihe/skillctl/pkg/telemetry"
	"github.com/jingkaihe/skillctl/pkg/version"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillctl")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillctl",
	Short: "Load, match and validate skill documentation",
	Long: `skillctl works with skill documentation laid out as
skills/<name>/SKILL.md manifests, on-demand references/*.md documents
and a skills/README.md registry table. It lists and loads manifests,
ranks skills against a task intent, resolves reference documents and
checks that the registry, manifests and references stay consistent.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

// bindFlags binds a flag set to viper keys, mapping dashes to underscores.
func bindFlags(flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		viper.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}
}

func skillsDir() string {
	return viper.GetString("skills_dir")
}

func newLoader() (*manifest.Loader, error) {
	return manifest.NewLoader(manifest.WithSkillsDir(skillsDir()))
}

func newResolver() (*reference.Resolver, error) {
	return reference.NewResolver(reference.WithSkillsDir(skillsDir()))
}

// loadRegistry reads the registry snapshot: skills/README.md by
// default, or a registry.yaml when pointed at one.
func loadRegistry() (skill.Registry, error) {
	path := viper.GetString("registry")
	if path == "" {
		path = filepath.Join(skillsDir(), "README.md")
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return registry.LoadYAML(path)
	}
	return registry.LoadFile(path)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	flags := rootCmd.PersistentFlags()
	flags.String("skills-dir", "skills", "Directory containing skill subdirectories")
	flags.String("registry", "", "Registry file (defaults to <skills-dir>/README.md; .yaml files are parsed as registry.yaml)")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.Bool("quiet", false, "Suppress informational output")
	bindFlags(flags, "skills-dir", "registry", "log-level", "log-format", "quiet")

	shutdown, err := telemetry.InitTracer(ctx, telemetry.Config{
		Enabled:        viper.GetBool("tracing.enabled"),
		ServiceName:    "skillctl",
		ServiceVersion: version.Version,
	})
	if err != nil {
		presenter.Error(err, "failed to initialize tracing")
		os.Exit(1)
	}
	defer shutdown(context.Background())

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(refsCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
