package tts

import (
	"context"
	"net/http"
	"net/url"
)

// DefaultDeepgramBaseURL is the public Deepgram API root.
const DefaultDeepgramBaseURL = "https://api.deepgram.com"

// DeepgramService implements Provider on the Deepgram Aura API. It ignores
// model selection and voice settings.
type DeepgramService struct {
	upstream
	apiKey string
}

// NewDeepgram creates a Deepgram provider.
func NewDeepgram(apiKey string, opts ...Option) *DeepgramService {
	return &DeepgramService{
		upstream: newUpstream(Deepgram, DefaultDeepgramBaseURL, opts),
		apiKey:   apiKey,
	}
}

// Name returns the provider identifier.
func (s *DeepgramService) Name() string {
	return Deepgram
}

// Capabilities reports that no request knobs beyond the voice are honored.
func (s *DeepgramService) Capabilities() Capabilities {
	return Capabilities{}
}

type deepgramRequest struct {
	Text string `json:"text"`
}

// Synthesize converts text to audio; the voice id doubles as the model.
func (s *DeepgramService) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	h := http.Header{}
	h.Set("Authorization", "Token "+s.apiKey)
	h.Set("Accept", "audio/mpeg")
	path := "/v1/speak?model=" + url.QueryEscape(req.VoiceID)
	return s.synthesize(ctx, path, h, deepgramRequest{Text: req.Text})
}

// ListVoices returns the static Aura catalog.
func (s *DeepgramService) ListVoices(context.Context) ([]Voice, error) {
	return DeepgramVoices(), nil
}
