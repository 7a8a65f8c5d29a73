// Command evalctl is the command line client of the member evaluations API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/serraej/member-evaluations/internal/client"
	"github.com/serraej/member-evaluations/pkg/logger"
)

var errLoginRequired = errors.New("login required")

// app is the state shared by every command of one invocation.
type app struct {
	statePath string
	server    string
	verbose   bool

	state *client.CLIState
	api   *client.Client
	log   zerolog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "evalctl",
		Short:         "Rate members and read the evaluation dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.statePath, "state", "", "state file (default $XDG_CONFIG_HOME/evalctl/state.yaml)")
	root.PersistentFlags().StringVar(&a.server, "server", "", "API base URL (overrides the state file and EVALCTL_BASE_URL)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newSignUpCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoAmICmd(a),
		newMembersCmd(a),
		newEvaluateCmd(a),
		newDraftCmd(a),
		newSubmitCmd(a),
		newReportCmd(a),
	)
	return root
}

func (a *app) load() error {
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.log = logger.Init(logger.Options{Level: level, Pretty: true, Output: os.Stderr, Service: "evalctl"})

	if a.statePath == "" {
		path, err := client.DefaultStatePath()
		if err != nil {
			return err
		}
		a.statePath = path
	}

	st, err := client.LoadState(a.statePath)
	if err != nil {
		return err
	}
	if a.server != "" {
		st.BaseURL = a.server
	}
	a.state = st
	a.api = client.New(st.BaseURL, client.WithToken(st.Token))
	a.log.Debug().Str("server", st.BaseURL).Str("state", a.statePath).Msg("state loaded")
	return nil
}

func (a *app) save() error {
	return client.SaveState(a.statePath, *a.state)
}

// requireLogin resolves the identity session and refuses to go on when the
// guard sends the user to the login view.
func (a *app) requireLogin(ctx context.Context) (client.Snapshot, error) {
	userID := ""
	if a.state.LoggedIn() {
		userID = a.state.UserID
	}

	snap := client.NewIdentitySession(a.api).Change(ctx, userID)
	if client.Guard(snap) != client.RouteProtected {
		if snap.Err != nil {
			a.log.Debug().Err(snap.Err).Msg("session rejected")
		}
		return snap, errLoginRequired
	}
	if snap.Err != nil {
		return snap, snap.Err
	}
	return snap, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{log: zerolog.Nop()}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "evalctl:", err)
		stop()
		os.Exit(1)
	}
}
