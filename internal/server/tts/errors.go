package tts

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/natorvoice/natorvoice/internal/common"
)

// Failure reasons carried by SynthesisError.
const (
	ReasonNetwork    = "network"
	ReasonStatus     = "status"
	ReasonEmpty      = "empty"
	ReasonUnreadable = "unreadable"
)

// Operations a SynthesisError can come from.
const (
	OpSynthesize = "synthesize"
	OpVoices     = "voices"
)

// SynthesisError describes an upstream failure. It never carries the raw
// upstream body.
type SynthesisError struct {
	Provider   string
	Op         string
	Reason     string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *SynthesisError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the same request may succeed later.
func (e *SynthesisError) Retryable() bool {
	return e.Reason == ReasonNetwork || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func newStatusError(provider, op string, status int) *SynthesisError {
	return &SynthesisError{Provider: provider, Op: op, Reason: ReasonStatus, StatusCode: status}
}

func newNetworkError(provider, op string, cause error) *SynthesisError {
	return &SynthesisError{Provider: provider, Op: op, Reason: ReasonNetwork, Cause: cause}
}

// DisplayName returns the human-facing vendor name.
func DisplayName(provider string) string {
	switch provider {
	case ElevenLabs:
		return "ElevenLabs"
	case Deepgram:
		return "Deepgram"
	default:
		return provider
	}
}

// Normalize maps any provider error onto the uniform taxonomy:
// 401/403 to Unauthorized, 429 to RateLimited, other 4xx to InvalidRequest,
// everything else to UpstreamUnavailable.
func Normalize(err error) *common.Error {
	var se *SynthesisError
	if !errors.As(err, &se) {
		if errors.Is(err, context.DeadlineExceeded) {
			return common.NewError(common.KindUpstreamUnavailable, "The voice provider did not respond in time. Try again.", err)
		}
		return common.AsError(err)
	}

	name := DisplayName(se.Provider)
	if se.Op == OpVoices {
		return normalizeVoices(se, name)
	}

	switch se.Reason {
	case ReasonNetwork:
		return common.NewError(common.KindUpstreamUnavailable, "Network issue while reaching "+name+". Try again.", se)
	case ReasonEmpty:
		return common.NewError(common.KindUpstreamUnavailable, name+" returned empty audio for this request.", se)
	case ReasonUnreadable:
		return common.NewError(common.KindUpstreamUnavailable, name+" returned an unreadable audio response.", se)
	}

	switch status := se.StatusCode; {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return common.NewError(common.KindUnauthorized, name+" authentication failed. Check your API key.", se)
	case status == http.StatusTooManyRequests:
		return common.NewError(common.KindRateLimited, name+" rate limit reached. Try again shortly.", se)
	case status >= 400 && status < 500:
		return common.NewError(common.KindInvalidRequest, "Invalid request for TTS generation. Adjust text or voice and retry.", se)
	default:
		return common.NewError(common.KindUpstreamUnavailable, name+" could not generate audio right now.", se)
	}
}

func normalizeVoices(se *SynthesisError, name string) *common.Error {
	switch {
	case se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden:
		return common.NewError(common.KindUnauthorized, name+" rejected authentication. Check your API key.", se)
	case se.StatusCode == http.StatusTooManyRequests:
		return common.NewError(common.KindRateLimited, "Rate limited by "+name+". Try again in a moment.", se)
	case se.Reason == ReasonNetwork:
		return common.NewError(common.KindUpstreamUnavailable, "Network issue while reaching "+name+". Try again.", se)
	default:
		return common.NewError(common.KindUpstreamUnavailable, "Unable to load voices from "+name+" right now.", se)
	}
}
