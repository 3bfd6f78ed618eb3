package audio

// DefaultBars is the waveform resolution used by Process.
const DefaultBars = 48

const (
	minPeakFloor = 0.01
	minBar       = 0.04
)

// Waveform summarizes channel 0 into bars peak heights normalized to the
// loudest bar and clamped to [0.04, 1]. A buffer shorter than bars repeats
// the first frames rather than producing empty blocks.
func Waveform(buf *Buffer, bars int) []float64 {
	if bars <= 0 {
		bars = DefaultBars
	}
	out := make([]float64, bars)
	var samples []float32
	if buf.NumChannels() > 0 {
		samples = buf.Channels[0]
	}

	block := len(samples) / bars
	if block == 0 {
		block = 1
	}

	maxPeak := minPeakFloor
	for i := range out {
		start := i * block
		end := min(start+block, len(samples))
		var peak float64
		for j := start; j < end; j++ {
			v := float64(samples[j])
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		out[i] = peak
		maxPeak = max(maxPeak, peak)
	}

	for i, v := range out {
		out[i] = clamp(v/maxPeak, minBar, 1)
	}
	return out
}
