package cli

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/natorvoice/natorvoice/internal/audio"
)

var sparks = []rune("▁▂▃▄▅▆▇█")

// sparkline renders waveform bars in [0, 1] as block characters.
func sparkline(bars []float64) string {
	var b strings.Builder
	for _, v := range bars {
		i := int(v * float64(len(sparks)-1))
		i = max(0, min(i, len(sparks)-1))
		b.WriteRune(sparks[i])
	}
	return b.String()
}

func formatMs(ms int) string {
	return (time.Duration(ms) * time.Millisecond).String()
}

func formatSize(n int) string {
	return humanize.Bytes(uint64(n))
}

// withExt swaps the extension of name.
func withExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

func (a *App) printTrim(res *audio.Result) {
	if !res.DidTrim {
		a.printf("No silence to trim (%s)\n", formatMs(res.DurationMs))
	} else {
		a.printf("Trimmed %s leading, %s trailing; %s remain\n",
			formatMs(res.LeadingMs), formatMs(res.TrailingMs), formatMs(res.DurationMs))
	}
	a.printf("%s\n", sparkline(res.Bars))
}
