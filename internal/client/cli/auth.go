package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/natorvoice/natorvoice/internal/client/config"
	"github.com/natorvoice/natorvoice/internal/client/models"
	"github.com/natorvoice/natorvoice/internal/common"
)

// getPassword is swapped in tests.
var getPassword = GetPassword

func (a *App) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register [EMAIL]",
		Short: "Create an account and sign in",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.authenticate(cmd.Context(), args, a.client.Register)
		},
	}
}

func (a *App) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login [EMAIL]",
		Short: "Sign in and remember the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.authenticate(cmd.Context(), args, a.client.Login)
		},
	}
}

type credentialsFunc func(ctx context.Context, email, password string) (*models.Session, error)

// authenticate prompts for whatever credentials were not given on the
// command line, calls fn and stores the resulting session.
func (a *App) authenticate(ctx context.Context, args []string, fn credentialsFunc) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	session, err := fn(ctx, email, string(password))
	if err != nil {
		return explain(err)
	}
	if err := a.saveSession(session.Token, session.User.Email); err != nil {
		return err
	}
	a.printf("Signed in as %s\n", session.User.Email)
	return nil
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.ClearSession(a.config.SessionFile); err != nil {
				return err
			}
			a.session = &config.Session{}
			a.client.SetToken("")
			a.printf("Signed out\n")
			return nil
		},
	}
}

func (a *App) meCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return explain(err)
			}
			a.printf("%s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
}

var errNotSignedIn = errors.New("not signed in; run `natorvoice login` first")

func (a *App) requireSession() error {
	if a.session == nil || a.session.Token == "" {
		return errNotSignedIn
	}
	return nil
}
