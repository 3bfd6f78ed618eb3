package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/logging"
	"github.com/natorvoice/natorvoice/internal/server/models"
	"github.com/natorvoice/natorvoice/internal/server/repositories/clips"
)

// MaxVoiceFieldLength caps stored voice ids and names.
const MaxVoiceFieldLength = 120

// AudioArchive stores clip audio and presigns downloads.
type AudioArchive interface {
	Put(ctx context.Context, userID string, data []byte, contentType string) (string, error)
	URL(ctx context.Context, key string) (string, error)
}

// ClipInput is a client-submitted history entry. Chars is nil when absent
// or not a number.
type ClipInput struct {
	Text      string
	VoiceID   string
	VoiceName string
	Chars     *float64
}

// ClipService manages users' recent-script histories.
type ClipService struct {
	repo    clips.Repository
	archive AudioArchive
	log     logging.Logger
	now     func() time.Time
}

// NewClipService constructs a ClipService. archive may be nil when audio
// archiving is disabled.
func NewClipService(repo clips.Repository, archive AudioArchive, log logging.Logger) *ClipService {
	return &ClipService{repo: repo, archive: archive, log: log, now: time.Now}
}

// List returns userID's history, newest first.
func (s *ClipService) List(ctx context.Context, userID string) ([]models.Clip, error) {
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing clips: %w", err)
	}
	if list == nil {
		list = []models.Clip{}
	}
	return list, nil
}

// Save validates, truncates and records a client-submitted entry.
func (s *ClipService) Save(ctx context.Context, userID string, in ClipInput) error {
	text := strings.TrimSpace(in.Text)
	voiceID := strings.TrimSpace(in.VoiceID)
	voiceName := strings.TrimSpace(in.VoiceName)
	if text == "" || voiceID == "" || voiceName == "" || in.Chars == nil ||
		math.IsNaN(*in.Chars) || math.IsInf(*in.Chars, 0) {
		return common.NewError(common.KindValidation, "text, voiceId, voiceName, and chars are required.", nil)
	}

	chars := int(min(common.MaxTextLength, max(0, math.Floor(*in.Chars))))
	return s.Record(ctx, userID, models.Clip{
		Text:      truncate(text, common.MaxTextLength),
		VoiceID:   truncate(voiceID, MaxVoiceFieldLength),
		VoiceName: truncate(voiceName, MaxVoiceFieldLength),
		Chars:     chars,
	})
}

// Record stores clip at the front of userID's history. ID and CreatedAt are
// assigned here.
func (s *ClipService) Record(ctx context.Context, userID string, clip models.Clip) error {
	clip.ID = uuid.NewString()
	clip.CreatedAt = s.now().UTC()
	if err := s.repo.Upsert(ctx, userID, clip); err != nil {
		return fmt.Errorf("error saving clip: %w", err)
	}
	return nil
}

// Archive uploads clip audio and returns its key. It returns "" when
// archiving is disabled or fails; failures are logged, not returned.
func (s *ClipService) Archive(ctx context.Context, userID string, data []byte, contentType string) string {
	if s.archive == nil {
		return ""
	}
	key, err := s.archive.Put(ctx, userID, data, contentType)
	if err != nil {
		s.log.Warn(ctx, "clip archive failed", "user_id", userID, "error", err)
		return ""
	}
	return key
}

// AudioURL returns a short-lived download link for an archived clip.
func (s *ClipService) AudioURL(ctx context.Context, userID, clipID string) (string, error) {
	notFound := common.NewError(common.KindNotFound, "Clip audio not found.", common.ErrorNotFound)
	if s.archive == nil {
		return "", notFound
	}

	clip, err := s.repo.Get(ctx, userID, clipID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", notFound
		}
		return "", fmt.Errorf("error loading clip: %w", err)
	}
	if clip.AudioKey == "" {
		return "", notFound
	}

	url, err := s.archive.URL(ctx, clip.AudioKey)
	if err != nil {
		return "", fmt.Errorf("error presigning clip audio: %w", err)
	}
	return url, nil
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
