// Package audit keeps a lightweight JSON trail of mutating encyclopedia
// operations. One file per event, UUID-named, so concurrent runs of the tool
// never clobber each other's records.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Event is a single recorded operation.
type Event struct {
	ID         string         `json:"id"`
	Operation  string         `json:"operation"`
	Movie      string         `json:"movie,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	Error      string         `json:"error,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// Trail writes events as JSON files under a single directory.
type Trail struct {
	Dir string
}

// NewTrail creates a trail rooted at dir. The directory is created lazily on
// the first Record call.
func NewTrail(dir string) *Trail {
	return &Trail{Dir: dir}
}

// Record persists one event and returns the file name it was written to.
// opErr, when non-nil, is stored alongside the event rather than failing it:
// a not-found delete is still worth recording.
func (t *Trail) Record(operation, movie string, details map[string]any, opErr error) (string, error) {
	if err := t.ensureDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	event := Event{
		ID:         uuid.New().String(),
		Operation:  operation,
		Movie:      movie,
		Details:    details,
		RecordedAt: time.Now().UTC(),
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}

	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit event: %w", err)
	}

	filename := event.ID + ".json"
	if err := os.WriteFile(filepath.Join(t.Dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}
	return filename, nil
}

func (t *Trail) ensureDir() error {
	if _, err := os.Stat(t.Dir); os.IsNotExist(err) {
		return os.MkdirAll(t.Dir, 0755)
	}
	return nil
}
