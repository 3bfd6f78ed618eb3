package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Status(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindInvalidRequest, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindQuotaExceeded, http.StatusTooManyRequests},
		{KindRateLimited, http.StatusTooManyRequests},
		{KindUpstreamUnavailable, http.StatusBadGateway},
		{KindServerMisconfigured, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
			assert.Equal(t, tt.want, NewError(tt.kind, "x", nil).Status())
		})
	}
}

func TestNewError_DefaultSeverity(t *testing.T) {
	assert.Equal(t, SeverityLow, NewError(KindValidation, "bad", nil).Severity)
	assert.Equal(t, SeverityMedium, NewError(KindRateLimited, "slow down", nil).Severity)
	assert.Equal(t, SeverityCritical, NewError(KindServerMisconfigured, "no key", nil).Severity)
	assert.Equal(t, SeverityHigh, NewError(KindInternal, "boom", nil).Severity)
}

func TestError_UnwrapAndMessage(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	e := NewError(KindUpstreamUnavailable, "Network issue.", cause)

	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "upstream_unavailable")
	assert.Contains(t, e.Error(), "dial tcp")

	wrapped := fmt.Errorf("synthesize: %w", e)
	assert.True(t, IsKind(wrapped, KindUpstreamUnavailable))
	assert.False(t, IsKind(wrapped, KindValidation))
	assert.Same(t, e, AsError(wrapped))
}

func TestAsError_Plain(t *testing.T) {
	e := AsError(errors.New("raw"))
	assert.Equal(t, KindInternal, e.Kind)
	assert.Equal(t, "Internal server error.", e.Message)
	assert.Equal(t, http.StatusInternalServerError, e.Status())
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "low", SeverityLow.String())
	assert.Equal(t, "critical", SeverityCritical.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
