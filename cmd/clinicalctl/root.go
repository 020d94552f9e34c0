package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clinical-scoring-mcp-server/internal/app"
	"github.com/clinical-scoring-mcp-server/internal/config"
	"github.com/clinical-scoring-mcp-server/internal/logging"
)

type rootOptions struct {
	configFile string
	logLevel   string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "clinicalctl",
		Short: "Clinical scoring instruments, Boston Criteria and trial summaries",
		Long: "clinicalctl evaluates validated clinical scoring instruments, classifies\n" +
			"cerebral amyloid angiopathy by the Boston Criteria v2.0 and summarizes\n" +
			"comparative trial outcomes. It can also run the HTTP and MCP servers.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "ignoring .env: %v\n", err)
			}
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level for command output on stderr")
	f.BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		newInstrumentsCmd(opts),
		newEvaluateCmd(opts),
		newClassifyCmd(opts),
		newTrialsCmd(opts),
		newSummarizeCmd(opts),
		newRatesCmd(opts),
		newAuditCmd(opts),
		newServeCmd(opts),
		newSetupCmd(),
	)
	return root
}

// loadApp builds the application from configuration. Logs go to stderr so
// command output stays clean.
func loadApp(cmd *cobra.Command, opts *rootOptions) (*app.App, *config.Manager, error) {
	cm, err := config.NewManager(config.WithConfigFile(opts.configFile))
	if err != nil {
		return nil, nil, err
	}
	if err := cm.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	cfg := cm.GetConfig()
	level := opts.logLevel
	if !cmd.Flags().Changed("log-level") && cmd.Name() == "serve" {
		level = cfg.Logging.Level
	}
	logger := logging.New(level, cfg.Logging.Format, cmd.ErrOrStderr())

	a, err := app.Build(cmd.Context(), cm, logger)
	if err != nil {
		return nil, nil, err
	}
	return a, cm, nil
}

// printResult writes v as indented JSON, or display when JSON was not requested.
func printResult(w io.Writer, opts *rootOptions, v any, display string) error {
	if !opts.jsonOutput {
		_, err := fmt.Fprintln(w, display)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
