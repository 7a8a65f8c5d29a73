package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/serraej/member-evaluations/internal/client"
	"github.com/serraej/member-evaluations/internal/core/domain"
)

func newSignUpCmd(a *app) *cobra.Command {
	var req client.SignUpRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an identity and its profile",
		Long: `Create an identity and its profile.

The name must match your entry in the workspace directory; run
"evalctl members --all" to list the valid names. Gestor accounts also need
a project.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := a.api.SignUp(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", identity.Email, identity.Role())
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", os.Getenv("EVALCTL_PASSWORD"), "password (default $EVALCTL_PASSWORD)")
	cmd.Flags().StringVar(&req.NotionName, "name", "", "your name as listed in the directory")
	cmd.Flags().StringVar(&req.UserRole, "role", domain.RoleDirector, "Gestor or Diretor")
	cmd.Flags().StringVar(&req.ProjectName, "project", "", "project name (Gestor only)")
	cmd.Flags().StringVar(&req.Assessoria, "assessoria", "", "your assessoria")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("assessoria")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			a.state.Token = res.Token
			a.state.UserID = res.Identity.ID
			a.state.Email = res.Identity.Email
			if err := a.save(); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			name := res.Identity.Email
			if res.Identity.Profile != nil {
				name = res.Identity.Profile.NotionName
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", os.Getenv("EVALCTL_PASSWORD"), "password (default $EVALCTL_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var apiErr error
			if a.state.LoggedIn() {
				apiErr = a.api.Logout(cmd.Context())
			}

			// The local session is forgotten even if the server call failed.
			a.state.Token, a.state.UserID, a.state.Email = "", "", ""
			if err := a.save(); err != nil {
				return err
			}
			if apiErr != nil {
				a.log.Warn().Err(apiErr).Msg("server logout failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoAmICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.requireLogin(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if snap.Profile == nil {
				fmt.Fprintf(out, "%s (no profile)\n", a.state.Email)
				return nil
			}
			p := snap.Profile
			fmt.Fprintf(out, "%s\n  email: %s\n  role:  %s\n", p.NotionName, a.state.Email, p.UserRole)
			if ctx := p.Context(); ctx != "" {
				fmt.Fprintf(out, "  %s: %s\n", contextLabel(p), ctx)
			}
			return nil
		},
	}
}

func contextLabel(p *domain.Profile) string {
	if p.UserRole == domain.RoleManager {
		return "project"
	}
	return "assessoria"
}
