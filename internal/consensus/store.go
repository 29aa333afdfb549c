package consensus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/quorum-cli/quorum/internal/errors"
)

const (
	// sessionsDirName is the per-project directory holding session records.
	sessionsDirName = ".quorum/sessions"
	// sessionFileName is the session record inside a session directory.
	sessionFileName = "session.json"
)

// SessionDir returns the storage directory for a session under baseDir.
func SessionDir(baseDir, sessionID string) string {
	return filepath.Join(baseDir, sessionsDirName, sessionID)
}

// SaveSession persists a session record as JSON. The write is atomic: the
// record is written to a temp file and renamed into place, so a session file
// is never observed half-written.
func SaveSession(baseDir string, session *Session) error {
	if session.ID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}

	dir := SessionDir(baseDir, session.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return atomicWriteFile(filepath.Join(dir, sessionFileName), data, 0644)
}

// LoadSession retrieves a session record by ID.
func LoadSession(baseDir, sessionID string) (*Session, error) {
	path := filepath.Join(SessionDir(baseDir, sessionID), sessionFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("session", sessionID)
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &session, nil
}

// ListSessions returns all stored sessions under baseDir, newest first.
func ListSessions(baseDir string) ([]*Session, error) {
	entries, err := os.ReadDir(filepath.Join(baseDir, sessionsDirName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessions []*Session
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		session, err := LoadSession(baseDir, entry.Name())
		if err != nil {
			continue // Skip unreadable or corrupt entries
		}
		sessions = append(sessions, session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions, nil
}

// LatestSession returns the most recently started session, or a not-found
// error when no sessions exist.
func LatestSession(baseDir string) (*Session, error) {
	sessions, err := ListSessions(baseDir)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, errors.NewNotFoundError("session", "latest")
	}
	return sessions[0], nil
}

// atomicWriteFile writes data to a temp file in the target directory and
// renames it into place.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
