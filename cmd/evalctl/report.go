package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		query string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the evaluation dashboard (Diretor only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireLogin(cmd.Context()); err != nil {
				return err
			}
			report, err := a.api.Report(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("could not load evaluations: %w", err)
			}

			out := cmd.OutOrStdout()
			m := report.Metrics
			if !m.HasData {
				fmt.Fprintln(out, "no evaluations yet")
				return nil
			}
			fmt.Fprintf(out, "evaluations: %d\naverage:     %.1f\n\n", m.Total, m.AverageScore)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MEMBER\tRESPONSES")
			for _, r := range m.ResponsesByMember {
				fmt.Fprintf(w, "%s\t%d\n", r.Name, r.Count)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "EVALUATOR\tAVERAGE")
			for _, s := range m.AverageBySubmitter {
				fmt.Fprintf(w, "%s\t%.1f\n", s.Name, s.Average)
			}
			fmt.Fprintln(w)

			fmt.Fprintln(w, "DATE\tEVALUATOR\tMEMBER\tSCORE\tCOMMENT")
			for i, e := range report.Records {
				if limit > 0 && i == limit {
					break
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n",
					e.CreatedAt.Local().Format("2006-01-02"), e.SubmitterName, e.SubjectName, e.Score(), e.Comment)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only list records whose evaluator or member matches")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum records to list (0 for all)")
	return cmd
}
