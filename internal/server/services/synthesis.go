package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/natorvoice/natorvoice/internal/common"
	"github.com/natorvoice/natorvoice/internal/logging"
	"github.com/natorvoice/natorvoice/internal/server/metrics"
	"github.com/natorvoice/natorvoice/internal/server/models"
	"github.com/natorvoice/natorvoice/internal/server/tts"
)

// SynthesisRequest is a caller's request to generate one clip.
type SynthesisRequest struct {
	Text      string
	VoiceID   string
	VoiceName string
	ModelID   string
	Settings  tts.VoiceSettings
}

// Caller identifies who is asking. User is nil for anonymous callers.
type Caller struct {
	User     *models.User
	ClientIP string
}

// SynthesisResult is a successful synthesis.
type SynthesisResult struct {
	Audio     *tts.Audio
	Provider  string
	Usage     models.Usage
	CreatedAt time.Time
}

// SynthesisService validates requests, enforces quotas, calls the resolved
// provider and records usage and history.
type SynthesisService struct {
	providers *tts.Registry
	ledger    *UsageLedger
	clips     *ClipService
	metrics   *metrics.Metrics
	log       logging.Logger
	now       func() time.Time
}

// NewSynthesisService constructs a SynthesisService.
func NewSynthesisService(providers *tts.Registry, ledger *UsageLedger, clips *ClipService, m *metrics.Metrics, log logging.Logger) *SynthesisService {
	return &SynthesisService{
		providers: providers,
		ledger:    ledger,
		clips:     clips,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// Synthesize runs one request through validation, quota pre-check, the
// upstream call and the usage commit. A request is never partially charged.
func (s *SynthesisService) Synthesize(ctx context.Context, caller Caller, req SynthesisRequest) (*SynthesisResult, error) {
	text := strings.TrimSpace(req.Text)
	voiceID := strings.TrimSpace(req.VoiceID)
	if err := validateSynthesis(text, voiceID); err != nil {
		s.metrics.RecordSynthesis("", metrics.OutcomeInvalid)
		return nil, err
	}

	provider, err := s.providers.Resolve()
	if err != nil {
		return nil, err
	}
	name := provider.Name()

	id, callerClass := s.identity(caller)
	day := s.ledger.Today()
	chars := utf8.RuneCountInString(text)

	exceeded, used, err := s.ledger.WouldExceed(ctx, id.Key, day, chars, id.Limit)
	if err != nil {
		return nil, err
	}
	if exceeded {
		s.metrics.RecordSynthesis(name, metrics.OutcomeQuotaExceeded)
		return nil, QuotaExceeded(used, id.Limit)
	}

	start := time.Now()
	audio, err := provider.Synthesize(ctx, tts.Request{
		Text:     text,
		VoiceID:  voiceID,
		ModelID:  strings.TrimSpace(req.ModelID),
		Settings: req.Settings,
	})
	s.metrics.ObserveUpstream(name, time.Since(start))
	if err != nil {
		s.metrics.RecordSynthesis(name, metrics.OutcomeUpstreamError)
		return nil, tts.Normalize(err)
	}

	total, err := s.ledger.Commit(ctx, id, day, chars)
	if err != nil {
		if common.IsKind(err, common.KindQuotaExceeded) {
			s.metrics.RecordSynthesis(name, metrics.OutcomeQuotaExceeded)
		}
		return nil, err
	}
	s.metrics.RecordSynthesis(name, metrics.OutcomeSuccess)
	s.metrics.AddCharacters(callerClass, chars)

	if caller.User != nil {
		s.remember(ctx, caller.User.ID, text, voiceID, req.VoiceName, chars, audio)
	}

	return &SynthesisResult{
		Audio:     audio,
		Provider:  name,
		Usage:     models.Usage{Day: day, Used: total, Limit: id.Limit},
		CreatedAt: s.now().UTC(),
	}, nil
}

func (s *SynthesisService) identity(caller Caller) (Identity, string) {
	if caller.User != nil {
		return s.ledger.UserIdentity(caller.User.ID), metrics.CallerUser
	}
	return s.ledger.AnonymousIdentity(caller.ClientIP), metrics.CallerAnonymous
}

// remember records the clip in the caller's history. Failures are logged;
// the audio has already been paid for.
func (s *SynthesisService) remember(ctx context.Context, userID, text, voiceID, voiceName string, chars int, audio *tts.Audio) {
	voiceName = strings.TrimSpace(voiceName)
	if voiceName == "" {
		voiceName = voiceID
	}
	clip := models.Clip{
		Text:      text,
		VoiceID:   truncate(voiceID, MaxVoiceFieldLength),
		VoiceName: truncate(voiceName, MaxVoiceFieldLength),
		Chars:     chars,
		AudioKey:  s.clips.Archive(ctx, userID, audio.Data, audio.ContentType),
	}
	if err := s.clips.Record(ctx, userID, clip); err != nil {
		s.log.Warn(ctx, "clip history update failed", "user_id", userID, "error", err)
	}
}

func validateSynthesis(text, voiceID string) error {
	if text == "" {
		return common.NewError(common.KindValidation, "Text is required.", nil)
	}
	if utf8.RuneCountInString(text) > common.MaxTextLength {
		msg := fmt.Sprintf("Text must be %d characters or fewer.", common.MaxTextLength)
		return common.NewError(common.KindValidation, msg, nil)
	}
	if voiceID == "" {
		return common.NewError(common.KindValidation, "Voice selection is required.", nil)
	}
	return nil
}
