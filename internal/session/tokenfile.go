// File: internal/session/tokenfile.go
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TokenRecord is the persisted remainder of a signed-in session: just enough
// to attempt restoration against the identity provider on the next start.
// Never written for unverified accounts.
type TokenRecord struct {
	UID          string    `json:"uid"`
	RefreshToken string    `json:"refresh_token"`
	IDToken      string    `json:"id_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// TokenStore persists the session token record between runs.
type TokenStore interface {
	Load() (*TokenRecord, error)
	Save(rec *TokenRecord) error
	Clear() error
}

// FileTokenStore keeps the token record in a mode-0600 JSON file.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a file-backed token store. With an empty path the
// record lives under the user config dir.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine user config dir: %w", err)
		}
		path = filepath.Join(configDir, "quran-app", "session.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("could not create session dir: %w", err)
	}
	return &FileTokenStore{path: path}, nil
}

// Load returns the persisted record, or nil if none exists.
func (f *FileTokenStore) Load() (*TokenRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read session file: %w", err)
	}
	var rec TokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("could not parse session file: %w", err)
	}
	if rec.RefreshToken == "" {
		return nil, nil
	}
	return &rec, nil
}

func (f *FileTokenStore) Save(rec *TokenRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("could not encode session record: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("could not write session file: %w", err)
	}
	return nil
}

func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove session file: %w", err)
	}
	return nil
}
