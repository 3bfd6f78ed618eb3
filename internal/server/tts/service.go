// Package tts talks to the upstream text-to-speech vendors. Each vendor is a
// Provider; a Registry picks one per request from configuration.
package tts

import (
	"context"
	"math"
)

// Provider names.
const (
	ElevenLabs = "elevenlabs"
	Deepgram   = "deepgram"
)

// Provider converts text to audio and lists the voices it offers.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Capabilities reports which request knobs the provider honors.
	Capabilities() Capabilities

	// Synthesize returns the audio for req. Failures are *SynthesisError.
	Synthesize(ctx context.Context, req Request) (*Audio, error)

	// ListVoices returns the voice catalog sorted by name.
	ListVoices(ctx context.Context) ([]Voice, error)
}

// Capabilities tells clients which controls to expose.
type Capabilities struct {
	ModelSelection bool `json:"modelSelection"`
	VoiceSettings  bool `json:"voiceSettings"`
}

// Request is one synthesis call.
type Request struct {
	Text     string
	VoiceID  string
	ModelID  string
	Settings VoiceSettings
}

// Audio is a synthesized clip.
type Audio struct {
	Data        []byte
	ContentType string
}

// Voice is one catalog entry. Optional attributes are nil when unknown.
type Voice struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Accent     *string `json:"accent"`
	Gender     *string `json:"gender"`
	Age        *string `json:"age"`
	PreviewURL *string `json:"previewUrl"`
}

// VoiceSettings shapes the generated voice.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	Speed           float64 `json:"speed"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings returns the settings used for absent fields.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.45,
		SimilarityBoost: 0.75,
		Style:           0.25,
		Speed:           1,
		UseSpeakerBoost: true,
	}
}

// ParseVoiceSettings reads caller-supplied settings decoded from JSON
// (camelCase keys). Missing or mistyped fields take their default; numbers
// are clamped into range.
func ParseVoiceSettings(raw any) VoiceSettings {
	s := DefaultVoiceSettings()
	in, ok := raw.(map[string]any)
	if !ok {
		return s
	}
	s.Stability = pick(in["stability"], s.Stability, 0, 1)
	s.SimilarityBoost = pick(in["similarityBoost"], s.SimilarityBoost, 0, 1)
	s.Style = pick(in["style"], s.Style, 0, 1)
	s.Speed = pick(in["speed"], s.Speed, 0.7, 1.2)
	if b, ok := in["useSpeakerBoost"].(bool); ok {
		s.UseSpeakerBoost = b
	}
	return s
}

func pick(v any, def, lo, hi float64) float64 {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return min(hi, max(lo, f))
}
