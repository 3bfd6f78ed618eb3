package services

import (
	"context"

	"github.com/natorvoice/natorvoice/internal/server/tts"
)

// VoiceCatalog is the voice list of the active provider.
type VoiceCatalog struct {
	Provider     string           `json:"provider"`
	Capabilities tts.Capabilities `json:"capabilities"`
	Voices       []tts.Voice      `json:"voices"`
}

// VoiceService lists the voices of the resolved provider.
type VoiceService struct {
	providers *tts.Registry
}

// NewVoiceService constructs a VoiceService.
func NewVoiceService(providers *tts.Registry) *VoiceService {
	return &VoiceService{providers: providers}
}

// List returns the catalog, sorted by name.
func (s *VoiceService) List(ctx context.Context) (*VoiceCatalog, error) {
	provider, err := s.providers.Resolve()
	if err != nil {
		return nil, err
	}
	voices, err := provider.ListVoices(ctx)
	if err != nil {
		return nil, tts.Normalize(err)
	}
	if voices == nil {
		voices = []tts.Voice{}
	}
	return &VoiceCatalog{
		Provider:     provider.Name(),
		Capabilities: provider.Capabilities(),
		Voices:       voices,
	}, nil
}
