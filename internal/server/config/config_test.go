package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8787", c.ListenAddr)
	assert.Equal(t, StoreFile, c.StoreDriver)
	assert.Equal(t, ".data/cloud-sync.json", c.DataFile)
	assert.Equal(t, "eleven_multilingual_v2", c.ElevenLabsModelID)
	assert.Equal(t, 15*time.Second, c.UpstreamTimeout)
	assert.Equal(t, 30*24*time.Hour, c.SessionTTL)
	assert.Equal(t, 5500, c.DailyCharLimit)
	assert.Equal(t, 1400, c.AnonDailyCharLimit)
	assert.Equal(t, "*", c.AllowedOrigin)
	assert.True(t, c.UsesDevSecret())
	assert.False(t, c.ArchiveEnabled())
}

func TestValidate(t *testing.T) {
	t.Run("normalizes limits", func(t *testing.T) {
		c := Config{}
		c.LoadDefaults()
		c.DailyCharLimit = -1
		c.AnonDailyCharLimit = 0
		c.UpstreamTimeout = 0
		c.UpstreamRPS = -3
		c.StoreDriver = " Redis "
		c.TTSProvider = "DeepGram"

		require.NoError(t, c.Validate())
		assert.Equal(t, DefaultDailyCharLimit, c.DailyCharLimit)
		assert.Equal(t, DefaultAnonDailyCharLimit, c.AnonDailyCharLimit)
		assert.Equal(t, 15*time.Second, c.UpstreamTimeout)
		assert.Zero(t, c.UpstreamRPS)
		assert.Equal(t, StoreRedis, c.StoreDriver)
		assert.Equal(t, "deepgram", c.TTSProvider)
	})

	t.Run("rejects empty secret", func(t *testing.T) {
		c := Config{}
		c.LoadDefaults()
		c.SessionSecret = "  "
		assert.Error(t, c.Validate())
	})

	t.Run("rejects unknown store", func(t *testing.T) {
		c := Config{}
		c.LoadDefaults()
		c.StoreDriver = "mongo"
		assert.Error(t, c.Validate())
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		c := Config{}
		c.LoadDefaults()
		c.TTSProvider = "polly"
		assert.Error(t, c.Validate())
	})
}

func TestParseFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"listen_addr": ":9000",
		"store_driver": "postgres",
		"upstream_timeout": "20s",
		"session_ttl": 3600000000000,
		"daily_char_limit": 9000
	}`), 0o600))

	c := &Config{}
	c.LoadDefaults()
	require.NoError(t, parseFile(c, []string{"-c", path}))

	assert.Equal(t, ":9000", c.ListenAddr)
	assert.Equal(t, StorePostgres, c.StoreDriver)
	assert.Equal(t, 20*time.Second, c.UpstreamTimeout)
	assert.Equal(t, time.Hour, c.SessionTTL)
	assert.Equal(t, 9000, c.DailyCharLimit)
	assert.Equal(t, 1400, c.AnonDailyCharLimit, "absent keys keep defaults")
}

func TestParseFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"store_driver: redis\nredis_addr: kv:6379\ntts_provider: deepgram\nupstream_rps: 2.5\n",
	), 0o600))

	c := &Config{}
	c.LoadDefaults()
	require.NoError(t, parseFile(c, []string{"-config=" + path}))

	assert.Equal(t, StoreRedis, c.StoreDriver)
	assert.Equal(t, "kv:6379", c.RedisAddr)
	assert.Equal(t, "deepgram", c.TTSProvider)
	assert.Equal(t, 2.5, c.UpstreamRPS)
}

func TestParseFile_Errors(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Error(t, parseFile(c, []string{"-c", filepath.Join(t.TempDir(), "missing.json")}))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	assert.Error(t, parseFile(c, []string{"-c", bad}))

	assert.NoError(t, parseFile(c, nil))
}

func TestParseEnv(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	err := parseEnv(c, map[string]string{
		"ELEVENLABS_API_KEY":    "xi-key",
		"DAILY_CHAR_LIMIT":      "20",
		"UPSTREAM_TIMEOUT":      "5s",
		"UPSTREAM_RPS":          "1.5",
		"REDIS_DB":              "3",
		"SESSION_SECRET":        "s3cret",
		"ANON_DAILY_CHAR_LIMIT": "10",
	})
	require.NoError(t, err)

	assert.Equal(t, "xi-key", c.ElevenLabsAPIKey)
	assert.Equal(t, 20, c.DailyCharLimit)
	assert.Equal(t, 10, c.AnonDailyCharLimit)
	assert.Equal(t, 5*time.Second, c.UpstreamTimeout)
	assert.Equal(t, 1.5, c.UpstreamRPS)
	assert.Equal(t, 3, c.RedisDB)
	assert.Equal(t, "s3cret", c.SessionSecret)
	assert.Equal(t, ":8787", c.ListenAddr, "unset variables keep their value")
}

func TestParseEnv_BadValue(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()
	assert.Error(t, parseEnv(c, map[string]string{"DAILY_CHAR_LIMIT": "lots"}))
}

func TestReadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DEEPGRAM_API_KEY=dg\n# comment\nTTS_PROVIDER=deepgram\n"), 0o600))

	got := readDotenv(path)
	want := map[string]string{"DEEPGRAM_API_KEY": "dg", "TTS_PROVIDER": "deepgram"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dotenv mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, readDotenv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestParseFlags(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	err := parseFlags(c, []string{
		"-c", "ignored.yaml",
		"-a", "127.0.0.1:9090",
		"-store", "postgres",
		"-d", "postgres://db",
		"-s", "flag-secret",
		"-provider", "elevenlabs",
		"-origin", "https://app.example",
		"-unknown", "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", c.ListenAddr)
	assert.Equal(t, StorePostgres, c.StoreDriver)
	assert.Equal(t, "postgres://db", c.DatabaseDSN)
	assert.Equal(t, "flag-secret", c.SessionSecret)
	assert.Equal(t, "elevenlabs", c.TTSProvider)
	assert.Equal(t, "https://app.example", c.AllowedOrigin)
}

func TestParseFlags_MissingValue(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()
	assert.Error(t, parseFlags(c, []string{"-a"}))
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"listen_addr":":7000","daily_char_limit":100,"allowed_origin":"https://file"}`), 0o600))

	t.Setenv("DAILY_CHAR_LIMIT", "200")
	t.Setenv("ALLOWED_ORIGIN", "https://env")

	c, err := LoadConfig([]string{"-c", path, "-origin", "https://flag"})
	require.NoError(t, err)

	assert.Equal(t, ":7000", c.ListenAddr, "file beats default")
	assert.Equal(t, 200, c.DailyCharLimit, "env beats file")
	assert.Equal(t, "https://flag", c.AllowedOrigin, "flag beats env")
}

func TestLoadConfig_InvalidStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")
	_, err := LoadConfig(nil)
	assert.Error(t, err)
}
