// Package audit keeps a local JSONL history of completed exports.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ExportRecord is one completed export run.
type ExportRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	RunID      string    `json:"run_id"`
	Profile    string    `json:"profile"`
	Region     string    `json:"region"`
	Scenario   string    `json:"scenario"`
	Critical   int       `json:"critical"`
	High       int       `json:"high"`
	OutputFile string    `json:"output_file,omitempty"`
}

// Log appends and reads export records at a fixed path.
type Log struct {
	path string
}

// NewLog opens the default history log under the user's home directory.
func NewLog() (*Log, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".inspex")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return NewLogAt(filepath.Join(dir, "history.jsonl")), nil
}

// NewLogAt opens a history log at an explicit path.
func NewLogAt(path string) *Log {
	return &Log{path: path}
}

// Append writes one record. A missing run id or timestamp is filled in.
func (l *Log) Append(rec ExportRecord) error {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open history log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("write history record: %w", err)
	}
	return nil
}

// History returns all records, newest first. Unparsable lines are skipped.
func (l *Log) History() ([]ExportRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open history log: %w", err)
	}
	defer f.Close()

	var records []ExportRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec ExportRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read history log: %w", err)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
