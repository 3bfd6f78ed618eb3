package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, DefaultServerURL, c.ServerURL)
	assert.Equal(t, DefaultTimeout, c.Timeout)
	assert.Equal(t, "session.json", filepath.Base(c.SessionFile))
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cli.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://file.test/\ntimeout: 5s\nsession_file: /tmp/s.json\n"), 0o600))

	cfg, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, "http://file.test", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/s.json", cfg.SessionFile)

	t.Setenv("NATORVOICE_SERVER", "http://env.test")
	t.Setenv("NATORVOICE_TIMEOUT", "2s")
	cfg, err = LoadConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, "http://env.test", cfg.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url":"http://json.test","timeout":"7s"}`), 0o600))

	cfg, err := LoadConfig([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, "http://json.test", cfg.ServerURL)
	assert.Equal(t, 7*time.Second, cfg.Timeout)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = LoadConfig([]string{"-c", bad})
	assert.Error(t, err)

	t.Setenv("NATORVOICE_TIMEOUT", "soon")
	_, err = LoadConfig(nil)
	assert.Error(t, err)
}

func TestSession_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := LoadSession(path)
	require.NoError(t, err)
	assert.Empty(t, s.Token)

	require.NoError(t, SaveSession(path, &Session{Token: "tok", Email: "a@b.co"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(SessionFileMode), info.Mode().Perm())

	s, err = LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, &Session{Token: "tok", Email: "a@b.co"}, s)

	require.NoError(t, ClearSession(path))
	require.NoError(t, ClearSession(path))
	s, err = LoadSession(path)
	require.NoError(t, err)
	assert.Empty(t, s.Token)
}

func TestSession_Errors(t *testing.T) {
	assert.Error(t, SaveSession("", &Session{}))

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err := LoadSession(path)
	assert.Error(t, err)
}
