package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/natorvoice/natorvoice/internal/server/repositories/filestore"
	"github.com/natorvoice/natorvoice/internal/server/tts"
)

func newStore(t *testing.T) *filestore.Store {
	t.Helper()
	s, err := filestore.Open(filepath.Join(t.TempDir(), "cloud-sync.json"))
	require.NoError(t, err)
	return s
}

// fakeProvider is a scripted tts.Provider.
type fakeProvider struct {
	name   string
	audio  *tts.Audio
	err    error
	voices []tts.Voice

	mu    sync.Mutex
	calls []tts.Request
	// hook runs inside Synthesize before it returns.
	hook func()
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Capabilities() tts.Capabilities {
	return tts.Capabilities{ModelSelection: true}
}

func (p *fakeProvider) Synthesize(_ context.Context, req tts.Request) (*tts.Audio, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()
	if p.hook != nil {
		p.hook()
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.audio, nil
}

func (p *fakeProvider) ListVoices(context.Context) ([]tts.Voice, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.voices, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type fakeArchive struct {
	putKey string
	putErr error
	url    string
	puts   int
}

func (a *fakeArchive) Put(context.Context, string, []byte, string) (string, error) {
	a.puts++
	return a.putKey, a.putErr
}

func (a *fakeArchive) URL(_ context.Context, key string) (string, error) {
	return a.url + key, nil
}
