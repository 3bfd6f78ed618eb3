package cli

import (
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/natorvoice/natorvoice/internal/client/models"
)

func (a *App) voicesCommand() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List the voices of the active provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := a.client.Voices(cmd.Context())
			if err != nil {
				return explain(err)
			}

			a.printf("Provider: %s\n", catalog.Provider)
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			defer tw.Flush()
			tw.Write([]byte("ID\tNAME\tCATEGORY\tDETAILS\n"))
			for _, v := range catalog.Voices {
				if filter != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(filter)) {
					continue
				}
				tw.Write([]byte(v.ID + "\t" + v.Name + "\t" + v.Category + "\t" + details(v) + "\n"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only show voices whose name contains this text")
	return cmd
}

func details(v models.Voice) string {
	var parts []string
	for _, p := range []*string{v.Accent, v.Gender, v.Age} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, ", ")
}
