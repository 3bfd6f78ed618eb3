package audio

import "math"

const (
	DefaultThreshold     = 0.015
	MinThreshold         = 0.002
	MaxThreshold         = 0.1
	DefaultMinDurationMs = 250
	MinMinDurationMs     = 120
	MaxMinDurationMs     = 1000
)

// TrimResult describes the outcome of TrimSilence. When DidTrim is false
// Buffer is the input buffer and both offsets are zero.
type TrimResult struct {
	Buffer     *Buffer
	LeadingMs  int
	TrailingMs int
	DidTrim    bool
}

// ClampThreshold clamps v into [MinThreshold, MaxThreshold]. NaN selects
// the default.
func ClampThreshold(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultThreshold
	}
	return clamp(v, MinThreshold, MaxThreshold)
}

// ClampMinDuration clamps ms into [MinMinDurationMs, MaxMinDurationMs].
func ClampMinDuration(ms int) int {
	return int(clamp(float64(ms), MinMinDurationMs, MaxMinDurationMs))
}

// TrimSilence drops leading and trailing frames whose peak across channels is
// below threshold. The trim is refused when nothing would be removed, when
// everything would be removed, or when the kept span is shorter than
// minDurationMs. Callers pass values already clamped when they want the
// documented bounds; see ClampThreshold and ClampMinDuration.
func TrimSilence(buf *Buffer, threshold float64, minDurationMs int) TrimResult {
	untouched := TrimResult{Buffer: buf}
	n := buf.Length()
	if n == 0 || buf.SampleRate <= 0 {
		return untouched
	}

	minSamples := int(math.Floor(float64(minDurationMs) / 1000 * float64(buf.SampleRate)))
	th := float32(threshold)

	start := 0
	for start < n && buf.peakAt(start) < th {
		start++
	}
	end := n - 1
	for end > start && buf.peakAt(end) < th {
		end--
	}

	kept := end - start + 1
	if kept <= 0 || kept >= n || kept < minSamples {
		return untouched
	}

	rate := float64(buf.SampleRate)
	return TrimResult{
		Buffer:     buf.Slice(start, end+1),
		LeadingMs:  int(math.Floor(float64(start) / rate * 1000)),
		TrailingMs: int(math.Floor(float64(n-1-end) / rate * 1000)),
		DidTrim:    true,
	}
}
