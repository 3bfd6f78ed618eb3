package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natorvoice/natorvoice/internal/flagx"
	"github.com/natorvoice/natorvoice/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Durations accept both
// "15s" strings and integer nanoseconds. Zero values leave the current
// setting untouched.
type FileConfig struct {
	ListenAddr         string         `json:"listen_addr" yaml:"listen_addr"`
	StoreDriver        string         `json:"store_driver" yaml:"store_driver"`
	DataFile           string         `json:"data_file" yaml:"data_file"`
	DatabaseDSN        string         `json:"database_dsn" yaml:"database_dsn"`
	RedisAddr          string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword      string         `json:"redis_password" yaml:"redis_password"`
	RedisDB            int            `json:"redis_db" yaml:"redis_db"`
	ElevenLabsAPIKey   string         `json:"elevenlabs_api_key" yaml:"elevenlabs_api_key"`
	ElevenLabsBaseURL  string         `json:"elevenlabs_base_url" yaml:"elevenlabs_base_url"`
	ElevenLabsModelID  string         `json:"elevenlabs_model_id" yaml:"elevenlabs_model_id"`
	DeepgramAPIKey     string         `json:"deepgram_api_key" yaml:"deepgram_api_key"`
	DeepgramBaseURL    string         `json:"deepgram_base_url" yaml:"deepgram_base_url"`
	TTSProvider        string         `json:"tts_provider" yaml:"tts_provider"`
	UpstreamTimeout    timex.Duration `json:"upstream_timeout" yaml:"upstream_timeout"`
	UpstreamRPS        float64        `json:"upstream_rps" yaml:"upstream_rps"`
	SessionSecret      string         `json:"session_secret" yaml:"session_secret"`
	SessionTTL         timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	DailyCharLimit     int            `json:"daily_char_limit" yaml:"daily_char_limit"`
	AnonDailyCharLimit int            `json:"anon_daily_char_limit" yaml:"anon_daily_char_limit"`
	AllowedOrigin      string         `json:"allowed_origin" yaml:"allowed_origin"`
	LogLevel           string         `json:"log_level" yaml:"log_level"`
	LogFormat          string         `json:"log_format" yaml:"log_format"`
	LogFile            string         `json:"log_file" yaml:"log_file"`
	S3Bucket           string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region           string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey        string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key" yaml:"s3_secret_key"`
}

// parseFile loads the file named by -c/-config in args, if any. Files ending
// in .yaml or .yml are decoded as YAML, everything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.ListenAddr, fc.ListenAddr)
	setString(&c.StoreDriver, fc.StoreDriver)
	setString(&c.DataFile, fc.DataFile)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.RedisAddr, fc.RedisAddr)
	setString(&c.RedisPassword, fc.RedisPassword)
	if fc.RedisDB != 0 {
		c.RedisDB = fc.RedisDB
	}
	setString(&c.ElevenLabsAPIKey, fc.ElevenLabsAPIKey)
	setString(&c.ElevenLabsBaseURL, fc.ElevenLabsBaseURL)
	setString(&c.ElevenLabsModelID, fc.ElevenLabsModelID)
	setString(&c.DeepgramAPIKey, fc.DeepgramAPIKey)
	setString(&c.DeepgramBaseURL, fc.DeepgramBaseURL)
	setString(&c.TTSProvider, fc.TTSProvider)
	if fc.UpstreamTimeout.Duration != 0 {
		c.UpstreamTimeout = fc.UpstreamTimeout.Duration
	}
	if fc.UpstreamRPS != 0 {
		c.UpstreamRPS = fc.UpstreamRPS
	}
	setString(&c.SessionSecret, fc.SessionSecret)
	if fc.SessionTTL.Duration != 0 {
		c.SessionTTL = fc.SessionTTL.Duration
	}
	if fc.DailyCharLimit != 0 {
		c.DailyCharLimit = fc.DailyCharLimit
	}
	if fc.AnonDailyCharLimit != 0 {
		c.AnonDailyCharLimit = fc.AnonDailyCharLimit
	}
	setString(&c.AllowedOrigin, fc.AllowedOrigin)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	setString(&c.LogFile, fc.LogFile)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.S3AccessKey, fc.S3AccessKey)
	setString(&c.S3SecretKey, fc.S3SecretKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
