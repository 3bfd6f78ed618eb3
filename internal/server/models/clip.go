package models

import "time"

// Clip is one entry of a user's recent-script history.
// AudioKey is the object key of the archived audio, empty if none.
type Clip struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	VoiceID   string    `json:"voiceId"`
	VoiceName string    `json:"voiceName"`
	Chars     int       `json:"chars"`
	CreatedAt time.Time `json:"createdAt"`
	AudioKey  string    `json:"audioKey,omitempty"`
}

// SameScript reports whether c and other share the (text, voiceId) pair used
// for de-duplication.
func (c *Clip) SameScript(other *Clip) bool {
	return c.Text == other.Text && c.VoiceID == other.VoiceID
}
