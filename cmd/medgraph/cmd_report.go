package main

import (
	"github.com/spf13/cobra"
)

func newReportCmd(opts *options) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Audit and compliance reports over the recorded queries",
	}

	reportCmd.AddCommand(
		&cobra.Command{
			Use:   "summary",
			Short: "Average accuracy, latency, hallucination rate and satisfaction",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := opts.openMedgraph(cmd)
				if err != nil {
					return err
				}
				defer closeQuietly(m)

				summary, err := m.Summary(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			},
		},
		&cobra.Command{
			Use:   "compliance",
			Short: "Regulation nodes visited per query",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := opts.openMedgraph(cmd)
				if err != nil {
					return err
				}
				defer closeQuietly(m)

				report, err := m.ComplianceReport(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			},
		},
		&cobra.Command{
			Use:   "gaps",
			Short: "Queries with negative feedback by frequency",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := opts.openMedgraph(cmd)
				if err != nil {
					return err
				}
				defer closeQuietly(m)

				gaps, err := m.KnowledgeGaps(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), gaps)
			},
		},
		&cobra.Command{
			Use:   "csv",
			Short: "Export the audit log as CSV",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := opts.openMedgraph(cmd)
				if err != nil {
					return err
				}
				defer closeQuietly(m)

				return m.ExportCSV(cmd.Context(), cmd.OutOrStdout())
			},
		},
	)

	return reportCmd
}
