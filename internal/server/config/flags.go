package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/natorvoice/natorvoice/internal/flagx"
)

// parseFlags applies the command-line overrides found in args.
//
// Supported flags:
//
//	-a string         listen address (e.g. ":8787")
//	-store string     store driver: file, redis or postgres
//	-data string      path of the JSON data file
//	-d string         PostgreSQL DSN
//	-redis string     Redis address
//	-s string         session signing secret
//	-provider string  preferred TTS provider
//	-origin string    allowed CORS origin
//	-log-level string log level
//
// args is filtered through flagx.FilterArgs first, so unknown flags (the
// config file flag included) never cause a parse failure here.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{
		"-a", "-store", "-data", "-d", "-redis", "-s", "-provider", "-origin", "-log-level",
	})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to listen on")
	fs.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "store driver (file, redis, postgres)")
	fs.StringVar(&cfg.DataFile, "data", cfg.DataFile, "JSON data file for the file store")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "session signing secret")
	fs.StringVar(&cfg.TTSProvider, "provider", cfg.TTSProvider, "preferred TTS provider")
	fs.StringVar(&cfg.AllowedOrigin, "origin", cfg.AllowedOrigin, "allowed CORS origin")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("config: flags: %w", err)
	}
	return nil
}
