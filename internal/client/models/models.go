// Package models defines the API payloads seen by the CLI.
package models

import "time"

// User is the public account projection returned by the server.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the result of a successful register or login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Voice is one entry of a provider's catalog.
type Voice struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Accent     *string `json:"accent"`
	Gender     *string `json:"gender"`
	Age        *string `json:"age"`
	PreviewURL *string `json:"previewUrl"`
}

// Capabilities lists the request knobs the active provider honors.
type Capabilities struct {
	ModelSelection bool `json:"modelSelection"`
	VoiceSettings  bool `json:"voiceSettings"`
}

// VoiceCatalog is the /api/voices response.
type VoiceCatalog struct {
	Provider     string       `json:"provider"`
	Capabilities Capabilities `json:"capabilities"`
	Voices       []Voice      `json:"voices"`
}

// VoiceSettings tune ElevenLabs synthesis. Nil fields use server defaults.
type VoiceSettings struct {
	Stability       *float64 `json:"stability,omitempty"`
	SimilarityBoost *float64 `json:"similarityBoost,omitempty"`
	Style           *float64 `json:"style,omitempty"`
	Speed           *float64 `json:"speed,omitempty"`
	UseSpeakerBoost *bool    `json:"useSpeakerBoost,omitempty"`
}

// SpeechRequest is the /api/tts request body.
type SpeechRequest struct {
	Text          string         `json:"text"`
	VoiceID       string         `json:"voiceId"`
	VoiceName     string         `json:"voiceName,omitempty"`
	ModelID       string         `json:"modelId,omitempty"`
	VoiceSettings *VoiceSettings `json:"voiceSettings,omitempty"`
}

// Speech is a synthesized clip. Used and Limit are set only for
// authenticated callers.
type Speech struct {
	Data        []byte
	ContentType string
	Filename    string
	Used        *int
	Limit       *int
}

// Clip is one entry of the caller's recent-script history.
type Clip struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	VoiceID   string    `json:"voiceId"`
	VoiceName string    `json:"voiceName"`
	Chars     int       `json:"chars"`
	CreatedAt time.Time `json:"createdAt"`
	AudioKey  string    `json:"audioKey,omitempty"`
}

// NewClip is the /api/clips request body.
type NewClip struct {
	Text      string `json:"text"`
	VoiceID   string `json:"voiceId"`
	VoiceName string `json:"voiceName"`
	Chars     int    `json:"chars"`
}

// Usage is the caller's consumption for a UTC day.
type Usage struct {
	Day   string `json:"day"`
	Used  int    `json:"used"`
	Limit int    `json:"limit"`
}

// Remaining is the number of characters left today, never negative.
func (u Usage) Remaining() int {
	return max(u.Limit-u.Used, 0)
}
