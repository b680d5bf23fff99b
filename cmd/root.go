package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/scenelingo/internal/config"
	"github.com/abhisek/scenelingo/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "scenelingo",
	Short: "Learn Japanese vocabulary one scene at a time",
	Long: `SceneLingo is a terminal flashcard app for everyday Japanese. Pick a scene
(a coffee shop, a subway station, a meeting) and study the words an AI model
generates for it, with illustrations and text-to-speech.

Set GEMINI_API_KEY (or SCENELINGO_OPENAI_API_KEY, SCENELINGO_ANTHROPIC_API_KEY,
SCENELINGO_OPENROUTER_API_KEY) to generate vocabulary. Illustrations need a
Gemini key. Without a key every scene shows a single placeholder card.

Settings are read from the config file, then SCENELINGO_* environment
variables, then flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, appOptions{})
	},
}

// Execute runs the root command with ctx, which is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to the TOML config file (default $XDG_CONFIG_HOME/scenelingo/config.toml)")
	flags.String("db", "", "Path to SQLite database file (overrides SCENELINGO_DB)")
	flags.String("provider", "", "Vocabulary provider: gemini, openai, anthropic, openrouter or mock")
	flags.Bool("no-speech", false, "Disable text-to-speech")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Storage.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.LLM.Provider = p
	}
	if off, _ := cmd.Flags().GetBool("no-speech"); off {
		cfg.Speech.Disabled = true
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG location.
func resolveDBPath(cfg *config.Config) (string, error) {
	if p := cfg.Storage.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
