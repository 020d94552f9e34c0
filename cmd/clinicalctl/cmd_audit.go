package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newAuditCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect, export or import the assessment audit trail",
	}
	cmd.AddCommand(newAuditListCmd(opts), newAuditExportCmd(opts), newAuditImportCmd(opts))
	return cmd
}

func newAuditListCmd(opts *rootOptions) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			page, err := a.Service.ListAudit(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			var b strings.Builder
			for _, r := range page.Records {
				fmt.Fprintf(&b, "%s  %-10s %-14s %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"), r.Kind, r.Subject, r.Summary)
			}
			fmt.Fprintf(&b, "%d of %d records", len(page.Records), page.Total)
			return printResult(cmd.OutOrStdout(), opts, page, b.String())
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "records per page (max 500)")
	cmd.Flags().IntVar(&offset, "offset", 0, "records to skip")
	return cmd
}

func newAuditExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export the audit trail as JSON to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return a.Audit.ExportJSON(cmd.Context(), w)
		},
	}
}

func newAuditImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import records from a JSON export, skipping known IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			imported, skipped, err := a.Audit.ImportJSON(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", imported, skipped)
			return nil
		},
	}
}
