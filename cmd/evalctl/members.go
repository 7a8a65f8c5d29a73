package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/serraej/member-evaluations/internal/client"
)

func newMembersCmd(a *app) *cobra.Command {
	var (
		assessoria string
		all        bool
	)
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List the members you can evaluate",
		Long: `List the members of your assessoria, without yourself.

--all lists every member in the directory and needs no login. The ID
column is what "draft save --subject-id" expects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				members []client.Member
				err     error
			)
			if all {
				members, err = a.api.AllMembers(cmd.Context())
			} else {
				if _, err := a.requireLogin(cmd.Context()); err != nil {
					return err
				}
				members, err = a.api.Members(cmd.Context(), assessoria)
			}
			if err != nil {
				return fmt.Errorf("could not load members: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(members) == 0 {
				fmt.Fprintln(out, "no members found")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, m := range members {
				fmt.Fprintf(w, "%s\t%s\n", m.ID, m.Name)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&assessoria, "assessoria", "", "list another assessoria instead of your own")
	cmd.Flags().BoolVar(&all, "all", false, "list every member")
	return cmd
}
