package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinical-scoring-mcp-server/internal/config"
	"github.com/clinical-scoring-mcp-server/internal/setup"
)

func newSetupCmd() *cobra.Command {
	var (
		configPath string
		opts       setup.Options
		status     bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the lite MCP server with Claude Desktop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if configPath == "" {
				p, err := setup.ClaudeDesktopConfigPath()
				if err != nil {
					return err
				}
				configPath = p
			}

			if status {
				st, err := setup.Inspect(configPath, config.DefaultLiteConfig().DataDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Config:     %s\n", st.ConfigPath)
				fmt.Fprintf(out, "Registered: %t\n", st.Configured)
				if st.ServerPath != "" {
					fmt.Fprintf(out, "Server:     %s\n", st.ServerPath)
				}
				fmt.Fprintf(out, "Data dir:   %s\n", st.DataDir)
				for _, issue := range st.Issues {
					fmt.Fprintf(out, "  ! %s\n", issue)
				}
				return nil
			}

			entry, err := setup.Configure(configPath, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Registered %s -> %s in %s\n", setup.ServerName, entry.Command, configPath)
			fmt.Fprintln(out, "Restart Claude Desktop to load the server.")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "desktop-config", "", "Claude Desktop config file (default: platform location)")
	f.StringVar(&opts.BinaryPath, "binary", "", "path to mcp-server-lite (default: search PATH)")
	f.StringVar(&opts.DataDir, "data-dir", "", "data directory passed as "+setup.DataDirEnv)
	f.StringVar(&opts.LogLevel, "server-log-level", "", "log level passed to the server")
	f.BoolVar(&status, "status", false, "show the current registration instead of writing it")
	return cmd
}
