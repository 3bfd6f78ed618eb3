package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *App) usageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show today's character usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			u, err := a.client.Usage(cmd.Context())
			if err != nil {
				return explain(err)
			}
			a.printf("%s (%s UTC)\n", usageLine(u.Used, u.Limit), u.Day)
			a.printf("%s characters left\n", humanize.Comma(int64(u.Remaining())))
			return nil
		},
	}
}

func usageLine(used, limit int) string {
	return fmt.Sprintf("Used %s of %s characters today", humanize.Comma(int64(used)), humanize.Comma(int64(limit)))
}
