package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/natorvoice/natorvoice/internal/client/models"
	"github.com/natorvoice/natorvoice/internal/common"
)

// DefaultTimeout bounds every request unless WithHTTPClient overrides it.
const DefaultTimeout = 30 * time.Second

// Client is the API contract used by the CLI.
type Client interface {
	SetToken(token string)
	Health(ctx context.Context) error
	Register(ctx context.Context, email, password string) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Me(ctx context.Context) (*models.User, error)
	Voices(ctx context.Context) (*models.VoiceCatalog, error)
	Synthesize(ctx context.Context, req models.SpeechRequest) (*models.Speech, error)
	Clips(ctx context.Context) ([]models.Clip, error)
	SaveClip(ctx context.Context, clip models.NewClip) error
	ClipAudioURL(ctx context.Context, id string) (string, error)
	Download(ctx context.Context, rawURL string) ([]byte, error)
	Usage(ctx context.Context) (*models.Usage, error)
}

// HTTPClient implements Client over net/http. It is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets the initial session token.
func WithToken(token string) Option {
	return func(c *HTTPClient) { c.token = token }
}

// New returns a client for the server at baseURL, e.g. http://127.0.0.1:8080.
func New(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Client = (*HTTPClient)(nil)

// SetToken replaces the bearer token. An empty token makes calls anonymous.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*models.Session, error) {
	return c.session(ctx, "/api/auth/register", email, password)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	return c.session(ctx, "/api/auth/login", email, password)
}

// session posts credentials and adopts the returned token.
func (c *HTTPClient) session(ctx context.Context, path, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var s models.Session
	if err := c.doJSON(ctx, http.MethodPost, path, body, &s); err != nil {
		return nil, err
	}
	c.SetToken(s.Token)
	return &s, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) Voices(ctx context.Context) (*models.VoiceCatalog, error) {
	var catalog models.VoiceCatalog
	if err := c.doJSON(ctx, http.MethodGet, "/api/voices", nil, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Synthesize returns the raw audio along with the usage headers, if any.
func (c *HTTPClient) Synthesize(ctx context.Context, req models.SpeechRequest) (*models.Speech, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/tts", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio: %w", ErrUnavailable, err)
	}

	speech := &models.Speech{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Used:        headerInt(resp.Header, common.UsageUsedHeaderName),
		Limit:       headerInt(resp.Header, common.UsageLimitHeaderName),
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		speech.Filename = params["filename"]
	}
	return speech, nil
}

func (c *HTTPClient) Clips(ctx context.Context) ([]models.Clip, error) {
	var resp struct {
		Clips []models.Clip `json:"clips"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/clips", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Clips, nil
}

func (c *HTTPClient) SaveClip(ctx context.Context, clip models.NewClip) error {
	return c.doJSON(ctx, http.MethodPost, "/api/clips", clip, nil)
}

// ClipAudioURL returns a short-lived download URL for an archived clip.
func (c *HTTPClient) ClipAudioURL(ctx context.Context, id string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/clips/"+url.PathEscape(id)+"/audio", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// Download fetches a presigned URL without the session token.
func (c *HTTPClient) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (c *HTTPClient) Usage(ctx context.Context) (*models.Usage, error) {
	var resp struct {
		Usage models.Usage `json:"usage"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/usage", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Usage, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// send performs the request and converts non-2xx responses to *APIError.
// On success the caller owns resp.Body.
func (c *HTTPClient) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, decodeError(resp)
}

func decodeError(resp *http.Response) error {
	var envelope struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Error == "" {
		envelope.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
}

func headerInt(h http.Header, name string) *int {
	v, err := strconv.Atoi(h.Get(name))
	if err != nil {
		return nil
	}
	return &v
}
