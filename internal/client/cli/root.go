package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/natorvoice/natorvoice/internal/client/client"
)

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "natorvoice",
		Short:         "Turn scripts into voice clips",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if f := cmd.Flags().Lookup("server"); f != nil && f.Changed {
				a.client = client.New(a.config.ServerURL,
					client.WithHTTPClient(&http.Client{Timeout: a.config.Timeout}),
					client.WithToken(a.session.Token),
				)
			}
		},
	}
	root.PersistentFlags().StringVar(&a.config.ServerURL, "server", a.config.ServerURL, "API server base URL")
	// Read by config.LoadConfig before cobra runs; declared so cobra accepts it.
	root.PersistentFlags().StringP("config", "c", "", "path to a JSON or YAML config file")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.meCommand(),
		a.voicesCommand(),
		a.sayCommand(),
		a.trimCommand(),
		a.clipsCommand(),
		a.usageCommand(),
	)
	return root
}
