package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sort"
)

const (
	// DefaultElevenLabsBaseURL is the public ElevenLabs API root.
	DefaultElevenLabsBaseURL = "https://api.elevenlabs.io"
	// DefaultElevenLabsModel is used when a request names no model.
	DefaultElevenLabsModel = "eleven_multilingual_v2"

	elevenLabsOutputFormat = "mp3_44100_128"
	defaultVoiceCategory   = "general"
)

// elevenLabsVoicePaths are tried in order until one answers.
var elevenLabsVoicePaths = []string{
	"/v2/voices?page_size=100&include_total_count=false",
	"/v1/voices?show_legacy=true",
	"/v1/voices/search?page_size=100",
}

// ElevenLabsService implements Provider on the ElevenLabs API.
type ElevenLabsService struct {
	upstream
	apiKey string
	model  string
}

// NewElevenLabs creates an ElevenLabs provider. An empty model selects
// DefaultElevenLabsModel.
func NewElevenLabs(apiKey, model string, opts ...Option) *ElevenLabsService {
	if model == "" {
		model = DefaultElevenLabsModel
	}
	return &ElevenLabsService{
		upstream: newUpstream(ElevenLabs, DefaultElevenLabsBaseURL, opts),
		apiKey:   apiKey,
		model:    model,
	}
}

// Name returns the provider identifier.
func (s *ElevenLabsService) Name() string {
	return ElevenLabs
}

// Capabilities reports support for model selection and voice settings.
func (s *ElevenLabsService) Capabilities() Capabilities {
	return Capabilities{ModelSelection: true, VoiceSettings: true}
}

type elevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Synthesize converts text to MP3 audio.
func (s *ElevenLabsService) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	model := req.ModelID
	if model == "" {
		model = s.model
	}
	path := "/v1/text-to-speech/" + url.PathEscape(req.VoiceID) + "?output_format=" + elevenLabsOutputFormat
	return s.synthesize(ctx, path, s.header("audio/mpeg"), elevenLabsRequest{
		Text:          req.Text,
		ModelID:       model,
		VoiceSettings: req.Settings,
	})
}

// ListVoices walks the known voice endpoints and returns the first usable
// catalog. Authentication and rate-limit failures stop the walk.
func (s *ElevenLabsService) ListVoices(ctx context.Context) ([]Voice, error) {
	var lastErr error
	for _, path := range elevenLabsVoicePaths {
		_, data, err := s.do(ctx, OpVoices, http.MethodGet, path, s.header("application/json"), nil)
		if err != nil {
			lastErr = err
			var se *SynthesisError
			if errors.As(err, &se) && isTerminalStatus(se.StatusCode) {
				break
			}
			continue
		}

		voices, err := parseElevenLabsVoices(data)
		if err != nil {
			lastErr = &SynthesisError{Provider: ElevenLabs, Op: OpVoices, Reason: ReasonUnreadable, Cause: err}
			continue
		}
		return voices, nil
	}
	if lastErr == nil {
		lastErr = &SynthesisError{Provider: ElevenLabs, Op: OpVoices, Reason: ReasonEmpty}
	}
	return nil, lastErr
}

func (s *ElevenLabsService) header(accept string) http.Header {
	h := http.Header{}
	h.Set("xi-api-key", s.apiKey)
	h.Set("Accept", accept)
	return h
}

func isTerminalStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusTooManyRequests
}

type elevenLabsVoice struct {
	VoiceID    string         `json:"voice_id"`
	Name       string         `json:"name"`
	Category   string         `json:"category"`
	Labels     map[string]any `json:"labels"`
	PreviewURL string         `json:"preview_url"`
}

// parseElevenLabsVoices accepts either a bare array or {"voices": [...]}.
// Entries without an id or name are skipped.
func parseElevenLabsVoices(data []byte) ([]Voice, error) {
	var raw []elevenLabsVoice
	if err := json.Unmarshal(data, &raw); err != nil {
		var wrapped struct {
			Voices []elevenLabsVoice `json:"voices"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		raw = wrapped.Voices
	}

	voices := make([]Voice, 0, len(raw))
	for _, v := range raw {
		if v.VoiceID == "" || v.Name == "" {
			continue
		}
		category := v.Category
		if category == "" {
			category = defaultVoiceCategory
		}
		voices = append(voices, Voice{
			ID:         v.VoiceID,
			Name:       v.Name,
			Category:   category,
			Accent:     label(v.Labels, "accent"),
			Gender:     label(v.Labels, "gender"),
			Age:        label(v.Labels, "age"),
			PreviewURL: optional(v.PreviewURL),
		})
	}
	sortVoices(voices)
	return voices, nil
}

func label(labels map[string]any, key string) *string {
	s, _ := labels[key].(string)
	return optional(s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sortVoices(voices []Voice) {
	sort.SliceStable(voices, func(i, j int) bool {
		return voices[i].Name < voices[j].Name
	})
}
