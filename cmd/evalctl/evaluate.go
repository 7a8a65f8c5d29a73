package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/serraej/member-evaluations/internal/client"
)

// evaluationFlags are the form fields shared by evaluate and draft save.
type evaluationFlags struct {
	subjectID   string
	subjectName string
	ratings     map[string]int
	comment     string
	highlight   bool
}

func (f *evaluationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.subjectID, "subject-id", "", "stable id of the member")
	cmd.Flags().StringVar(&f.subjectName, "subject", "", "name of the member being evaluated")
	cmd.Flags().StringToIntVar(&f.ratings, "rating", nil, "criterion=score, repeatable (see the rubric)")
	cmd.Flags().StringVar(&f.comment, "comment", "", "free-text comment")
	cmd.Flags().BoolVar(&f.highlight, "highlight", false, "mark the member as a highlight")
	_ = cmd.MarkFlagRequired("subject")
}

// fill copies the flags into a form, rejecting unknown criteria and
// out-of-range scores as they are entered.
func (f *evaluationFlags) fill(form *client.Form) error {
	form.SetSubject(f.subjectID, f.subjectName)
	criteria := make([]string, 0, len(f.ratings))
	for c := range f.ratings {
		criteria = append(criteria, c)
	}
	sort.Strings(criteria)
	for _, c := range criteria {
		if err := form.Rate(c, f.ratings[c]); err != nil {
			return err
		}
	}
	form.SetComment(f.comment)
	form.SetHighlight(f.highlight)
	return nil
}

func newEvaluateCmd(a *app) *cobra.Command {
	var flags evaluationFlags
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Submit one evaluation",
		Example: `  evalctl evaluate --subject João \
    --rating proatividade=5 --rating comunicacao=4 --rating tecnico=3 \
    --rating equipe=5 --rating entregas=4 --comment "Great work"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.requireLogin(cmd.Context())
			if err != nil {
				return err
			}
			rubric, err := a.api.Rubric(cmd.Context())
			if err != nil {
				return err
			}

			form := client.NewForm(rubric.Domain())
			if err := flags.fill(form); err != nil {
				return err
			}
			res, err := form.Submit(cmd.Context(), snap.UserID, a.api)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "evaluation of %s saved (score %.1f)\n", res.SubjectName, res.Score)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDraftCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage pending evaluations",
		Long: `Manage pending evaluations.

Drafts are kept by the server until "evalctl submit" persists all of them
at once. A draft is keyed by the member's stable id; saving again replaces it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			_, err := a.requireLogin(cmd.Context())
			return err
		},
	}
	cmd.AddCommand(newDraftSaveCmd(a), newDraftListCmd(a), newDraftDiscardCmd(a))
	return cmd
}

func newDraftSaveCmd(a *app) *cobra.Command {
	var flags evaluationFlags
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save or replace a pending evaluation",
		RunE: func(cmd *cobra.Command, args []string) error {
			rubric, err := a.api.Rubric(cmd.Context())
			if err != nil {
				return err
			}
			form := client.NewForm(rubric.Domain())
			if err := flags.fill(form); err != nil {
				return err
			}

			saved, err := a.api.SaveDraft(cmd.Context(), form.Draft())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "draft for %s saved (%d/%d criteria)\n",
				saved.SubjectName, len(saved.Ratings), len(rubric.Criteria))
			return nil
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("subject-id")
	return cmd
}

func newDraftListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending evaluations",
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := a.api.Drafts(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(drafts) == 0 {
				fmt.Fprintln(out, "no pending evaluations")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMEMBER\tCRITERIA\tSCORE\tSAVED")
			for _, d := range drafts {
				fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%s\n",
					d.SubjectID, d.SubjectName, len(d.Ratings), d.Ratings.Score(), d.SavedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newDraftDiscardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <subject-id>",
		Short: "Discard a pending evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.DiscardDraft(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "draft %s discarded\n", args[0])
			return nil
		},
	}
}

func newSubmitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Submit every pending evaluation at once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireLogin(cmd.Context()); err != nil {
				return err
			}
			res, err := a.api.SubmitDrafts(cmd.Context())
			if err != nil {
				// Drafts are untouched on failure; the message is the storage's own.
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d evaluations submitted for %s (batch %s)\n", res.Count, res.Period, res.BatchID)
			return nil
		},
	}
}
