// Package audio decodes synthesized clips, trims leading and trailing
// silence, summarizes amplitude for display and re-encodes to 16-bit PCM WAV.
// Everything runs locally; nothing here touches the network.
package audio

import (
	"errors"
	"time"
)

// ErrDecode is returned when a clip cannot be parsed into samples.
var ErrDecode = errors.New("audio: unable to decode clip")

// Buffer holds planar float samples in [-1, 1], one slice per channel.
// All channels have the same length.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// NewBuffer allocates a silent buffer.
func NewBuffer(sampleRate, channels, length int) *Buffer {
	b := &Buffer{SampleRate: sampleRate, Channels: make([][]float32, channels)}
	for i := range b.Channels {
		b.Channels[i] = make([]float32, length)
	}
	return b
}

// Length is the number of sample frames.
func (b *Buffer) Length() int {
	if b == nil || len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	if b == nil {
		return 0
	}
	return len(b.Channels)
}

// Duration is the playback length at the native sample rate.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Length()) * time.Second / time.Duration(b.SampleRate)
}

// DurationMs is Duration floored to whole milliseconds.
func (b *Buffer) DurationMs() int {
	return int(b.Duration() / time.Millisecond)
}

// Slice copies frames [start, end) into a new buffer.
func (b *Buffer) Slice(start, end int) *Buffer {
	out := &Buffer{SampleRate: b.SampleRate, Channels: make([][]float32, len(b.Channels))}
	for i, ch := range b.Channels {
		out.Channels[i] = append([]float32(nil), ch[start:end]...)
	}
	return out
}

// peakAt is the largest absolute sample across channels at frame i.
func (b *Buffer) peakAt(i int) float32 {
	var peak float32
	for _, ch := range b.Channels {
		v := ch[i]
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
