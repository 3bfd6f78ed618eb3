package cli

import (
	"os"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/natorvoice/natorvoice/internal/client/models"
)

const previewLength = 48

func (a *App) clipsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clips",
		Short: "List recent scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			list, err := a.client.Clips(cmd.Context())
			if err != nil {
				return explain(err)
			}
			if len(list) == 0 {
				a.printf("No clips yet\n")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			defer tw.Flush()
			tw.Write([]byte("ID\tWHEN\tVOICE\tCHARS\tTEXT\n"))
			for _, c := range list {
				tw.Write([]byte(c.ID + "\t" + humanize.Time(c.CreatedAt) + "\t" + c.VoiceName + "\t" +
					humanize.Comma(int64(c.Chars)) + "\t" + preview(c.Text) + "\n"))
			}
			return nil
		},
	}
	cmd.AddCommand(a.clipSaveCommand(), a.clipAudioCommand())
	return cmd
}

func (a *App) clipSaveCommand() *cobra.Command {
	var voice, voiceName string
	cmd := &cobra.Command{
		Use:   "save TEXT",
		Short: "Record a script in the history without synthesizing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if voiceName == "" {
				voiceName = voice
			}
			clip := models.NewClip{
				Text:      args[0],
				VoiceID:   voice,
				VoiceName: voiceName,
				Chars:     utf8.RuneCountInString(args[0]),
			}
			if err := a.client.SaveClip(cmd.Context(), clip); err != nil {
				return explain(err)
			}
			a.printf("Saved\n")
			return nil
		},
	}
	cmd.Flags().StringVarP(&voice, "voice", "v", "", "voice id")
	cmd.Flags().StringVar(&voiceName, "voice-name", "", "voice display name")
	_ = cmd.MarkFlagRequired("voice")
	return cmd
}

func (a *App) clipAudioCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "audio ID",
		Short: "Download the archived audio of a clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			url, err := a.client.ClipAudioURL(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			data, err := a.client.Download(cmd.Context(), url)
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0] + ".mp3"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			a.printf("Saved %s (%s)\n", out, formatSize(len(data)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: ID.mp3)")
	return cmd
}

// preview shortens text to previewLength runes.
func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	return string([]rune(text)[:previewLength-1]) + "…"
}
