package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aescanero/netqa-router/internal/app"
	"github.com/aescanero/netqa-router/internal/config"
)

var (
	cfg    *config.Config
	svc    *app.Services
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "netqa",
	Short: "Answer network engineering questions from local evidence",
	Long: `Routes a question to a definition, a concept card or a troubleshooting
playbook and prints the JSON answer. Configuration comes from the same
environment variables as the worker; flags override them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlags(cmd, c)
		cfg = c

		logger, err = app.NewLogger(cfg.LogLevel, "stderr")
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		svc, err = app.Build(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("build pipeline: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("corpus", "", "corpus YAML file (overrides CORPUS_PATH)")
	f.String("concepts", "", "concept card directory (overrides CONCEPTS_DIR)")
	f.String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	f.Float64("blend-weight", 0, "BM25 blend weight in [0,1] (overrides RETRIEVAL_BLEND_WEIGHT)")
}

// applyFlags copies explicitly set persistent flags over the env config
func applyFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("corpus") {
		c.CorpusPath, _ = f.GetString("corpus")
	}
	if f.Changed("concepts") {
		c.ConceptsDir, _ = f.GetString("concepts")
	}
	if f.Changed("log-level") {
		c.LogLevel, _ = f.GetString("log-level")
	}
	if f.Changed("blend-weight") {
		c.BlendWeight, _ = f.GetFloat64("blend-weight")
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
