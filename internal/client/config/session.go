package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natorvoice/natorvoice/internal/filex"
)

// SessionFileMode keeps the token readable by its owner only.
const SessionFileMode = 0o600

// Session is the persisted login state.
type Session struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// LoadSession reads the session at path. A missing file yields an empty
// session and no error.
func LoadSession(path string) (*Session, error) {
	if path == "" {
		return &Session{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	return &s, nil
}

// SaveSession writes s to path with SessionFileMode, creating parent
// directories as needed.
func SaveSession(path string, s *Session) error {
	if path == "" {
		return errors.New("no session file configured")
	}
	if _, err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(path, data, SessionFileMode)
}

// ClearSession removes the session file. Removing a missing file is not an
// error.
func ClearSession(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
