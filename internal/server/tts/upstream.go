package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 15 * time.Second

// upstream holds the transport settings shared by every provider.
type upstream struct {
	name    string
	baseURL string
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// Option configures the transport of a provider.
type Option func(*upstream)

// WithBaseURL overrides the provider API root.
func WithBaseURL(url string) Option {
	return func(u *upstream) {
		if url != "" {
			u.baseURL = url
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(u *upstream) {
		u.client = client
	}
}

// WithTimeout sets the per-call deadline. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(u *upstream) {
		if d > 0 {
			u.timeout = d
		}
	}
}

// WithLimiter throttles outgoing calls. A nil limiter disables throttling.
func WithLimiter(l *rate.Limiter) Option {
	return func(u *upstream) {
		u.limiter = l
	}
}

// NewLimiter returns a limiter allowing rps calls per second, or nil when
// rps is not positive.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

func newUpstream(name, baseURL string, opts []Option) upstream {
	u := upstream{
		name:    name,
		baseURL: baseURL,
		client:  &http.Client{},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

// do sends one request under the call deadline and returns the response
// body. Non-2xx statuses become *SynthesisError with the status code.
func (u *upstream) do(ctx context.Context, op, method, path string, header http.Header, payload any) (*http.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return nil, nil, newNetworkError(u.name, op, err)
		}
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.baseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, nil, newNetworkError(u.name, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil, newStatusError(u.name, op, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, &SynthesisError{Provider: u.name, Op: op, Reason: ReasonUnreadable, StatusCode: resp.StatusCode, Cause: err}
	}
	return resp, data, nil
}

// synthesize posts payload and validates the audio response.
func (u *upstream) synthesize(ctx context.Context, path string, header http.Header, payload any) (*Audio, error) {
	resp, data, err := u.do(ctx, OpSynthesize, http.MethodPost, path, header, payload)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &SynthesisError{Provider: u.name, Op: OpSynthesize, Reason: ReasonEmpty, StatusCode: resp.StatusCode}
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "audio/mpeg"
	}
	return &Audio{Data: data, ContentType: ct}, nil
}
