package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/natorvoice/natorvoice/internal/audio"
	"github.com/natorvoice/natorvoice/internal/client/models"
)

const defaultClipName = "voice-clip.mp3"

type sayOptions struct {
	voice       string
	voiceName   string
	model       string
	out         string
	trim        bool
	threshold   float64
	minDuration int

	stability    float64
	similarity   float64
	style        float64
	speed        float64
	speakerBoost bool
}

func (a *App) sayCommand() *cobra.Command {
	o := &sayOptions{}
	cmd := &cobra.Command{
		Use:   "say TEXT",
		Short: "Synthesize TEXT and save the clip (use - to read stdin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "-" {
				data, err := io.ReadAll(a.reader)
				if err != nil {
					return err
				}
				text = strings.TrimSpace(string(data))
			}
			req := models.SpeechRequest{
				Text:          text,
				VoiceID:       o.voice,
				VoiceName:     o.voiceName,
				ModelID:       o.model,
				VoiceSettings: o.settings(cmd),
			}
			return a.say(cmd, req, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.voice, "voice", "v", "", "voice id (see `natorvoice voices`)")
	f.StringVar(&o.voiceName, "voice-name", "", "display name stored with the clip")
	f.StringVar(&o.model, "model", "", "provider model id")
	f.StringVarP(&o.out, "out", "o", "", "output file (default: server-suggested name)")
	f.BoolVar(&o.trim, "trim", false, "trim leading and trailing silence and save as WAV")
	f.Float64Var(&o.threshold, "threshold", audio.DefaultThreshold, "silence threshold, 0.002 to 0.1")
	f.IntVar(&o.minDuration, "min-duration", audio.DefaultMinDurationMs, "shortest clip a trim may leave, in ms (120 to 1000)")
	f.Float64Var(&o.stability, "stability", 0, "voice stability, 0 to 1")
	f.Float64Var(&o.similarity, "similarity", 0, "similarity boost, 0 to 1")
	f.Float64Var(&o.style, "style", 0, "style exaggeration, 0 to 1")
	f.Float64Var(&o.speed, "speed", 0, "speaking speed, 0.7 to 1.2")
	f.BoolVar(&o.speakerBoost, "speaker-boost", true, "enable speaker boost")
	_ = cmd.MarkFlagRequired("voice")
	return cmd
}

// settings returns only the knobs set on the command line, or nil.
func (o *sayOptions) settings(cmd *cobra.Command) *models.VoiceSettings {
	changed := cmd.Flags().Changed
	s := &models.VoiceSettings{}
	set := false
	pick := func(name string, v float64, dst **float64) {
		if changed(name) {
			*dst = &v
			set = true
		}
	}
	pick("stability", o.stability, &s.Stability)
	pick("similarity", o.similarity, &s.SimilarityBoost)
	pick("style", o.style, &s.Style)
	pick("speed", o.speed, &s.Speed)
	if changed("speaker-boost") {
		s.UseSpeakerBoost = &o.speakerBoost
		set = true
	}
	if !set {
		return nil
	}
	return s
}

func (a *App) say(cmd *cobra.Command, req models.SpeechRequest, o *sayOptions) error {
	speech, err := a.client.Synthesize(cmd.Context(), req)
	if err != nil {
		return explain(err)
	}

	data := speech.Data
	name := o.out
	if name == "" {
		name = speech.Filename
	}
	if name == "" {
		name = defaultClipName
	}

	if o.trim {
		res, err := audio.Process(data, audio.Options{Threshold: &o.threshold, MinDurationMs: &o.minDuration})
		switch {
		case errors.Is(err, audio.ErrDecode):
			a.printf("Trimming isn't available for this clip; saving the original audio.\n")
		case err != nil:
			return err
		default:
			data = res.WAV
			if o.out == "" {
				name = withExt(name, ".wav")
			}
			a.printTrim(res)
		}
	} else if bars, ms, err := audio.Analyze(data, audio.DefaultBars); err == nil {
		a.printf("%s %s\n", sparkline(bars), formatMs(ms))
	}

	if err := os.WriteFile(name, data, 0o644); err != nil {
		return err
	}
	a.printf("Saved %s (%s)\n", name, formatSize(len(data)))
	if speech.Used != nil && speech.Limit != nil {
		a.printf("%s\n", usageLine(*speech.Used, *speech.Limit))
	}
	return nil
}
