package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/natorvoice/natorvoice/internal/client/client"
	"github.com/natorvoice/natorvoice/internal/client/config"
)

// App carries the state shared by all commands.
type App struct {
	config  *config.Config
	client  client.Client
	session *config.Session
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp loads the stored session and builds an API client for cfg.
func NewApp(cfg *config.Config) (*App, error) {
	session, err := config.LoadSession(cfg.SessionFile)
	if err != nil {
		return nil, err
	}
	api := client.New(cfg.ServerURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		client.WithToken(session.Token),
	)
	return newApp(cfg, api, session, os.Stdin, os.Stdout), nil
}

func newApp(cfg *config.Config, api client.Client, session *config.Session, in io.Reader, out io.Writer) *App {
	return &App{
		config:  cfg,
		client:  api,
		session: session,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Run executes the command line in args.
func (a *App) Run(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.out)
	return root.ExecuteContext(ctx)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// saveSession persists the token so later invocations stay logged in.
func (a *App) saveSession(token, email string) error {
	a.session = &config.Session{Token: token, Email: email}
	a.client.SetToken(token)
	return config.SaveSession(a.config.SessionFile, a.session)
}

// explain turns API errors into a hint for the common cases.
func explain(err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("%w\nRun `natorvoice login` to sign in again.", err)
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Errorf("%w\nIs the server running? Set --server or NATORVOICE_SERVER.", err)
	}
	return err
}
