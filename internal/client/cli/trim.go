package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/natorvoice/natorvoice/internal/audio"
)

func (a *App) trimCommand() *cobra.Command {
	var (
		out         string
		threshold   float64
		minDuration int
	)
	cmd := &cobra.Command{
		Use:   "trim FILE",
		Short: "Trim silence from a local WAV or MP3 file and save it as WAV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			data, err := os.ReadFile(in)
			if err != nil {
				return err
			}

			res, err := audio.Process(data, audio.Options{Threshold: &threshold, MinDurationMs: &minDuration})
			if err != nil {
				return fmt.Errorf("trimming isn't available for %s: %w", in, err)
			}

			if out == "" {
				out = withExt(in, ".trimmed.wav")
			}
			if err := os.WriteFile(out, res.WAV, 0o644); err != nil {
				return err
			}
			a.printTrim(res)
			a.printf("Saved %s (%s)\n", out, formatSize(len(res.WAV)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: FILE.trimmed.wav)")
	cmd.Flags().Float64Var(&threshold, "threshold", audio.DefaultThreshold, "silence threshold, 0.002 to 0.1")
	cmd.Flags().IntVar(&minDuration, "min-duration", audio.DefaultMinDurationMs, "shortest clip a trim may leave, in ms (120 to 1000)")
	return cmd
}
