package repomanager

import (
	"context"

	"github.com/natorvoice/natorvoice/internal/server/repositories/clips"
	"github.com/natorvoice/natorvoice/internal/server/repositories/filestore"
	"github.com/natorvoice/natorvoice/internal/server/repositories/usage"
	"github.com/natorvoice/natorvoice/internal/server/repositories/users"
)

// FileRepositoryManager serves all repositories from one JSON document.
type FileRepositoryManager struct {
	store *filestore.Store
}

func NewFileRepositoryManager(path string) (*FileRepositoryManager, error) {
	s, err := filestore.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileRepositoryManager{store: s}, nil
}

func (m *FileRepositoryManager) Users() users.Repository { return m.store.Users() }
func (m *FileRepositoryManager) Clips() clips.Repository { return m.store.Clips() }
func (m *FileRepositoryManager) Usage() usage.Repository { return m.store.Usage() }

func (m *FileRepositoryManager) Ping(context.Context) error { return nil }
func (m *FileRepositoryManager) Close() error               { return nil }
