// Package repomanager selects a storage backend and vends the user, clip and
// usage repositories bound to it.
package repomanager

import (
	"context"
	"fmt"

	"github.com/natorvoice/natorvoice/internal/server/config"
	"github.com/natorvoice/natorvoice/internal/server/repositories/clips"
	"github.com/natorvoice/natorvoice/internal/server/repositories/usage"
	"github.com/natorvoice/natorvoice/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Clips() clips.Repository
	Usage() usage.Repository
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the RepositoryManager for cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StoreDriver {
	case config.StoreFile:
		return NewFileRepositoryManager(cfg.DataFile)
	case config.StoreRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.StorePostgres:
		return OpenPostgres(ctx, cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
