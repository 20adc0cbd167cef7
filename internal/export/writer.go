package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"moomoo-exporter/internal/types"
)

// TimestampLayout stamps snapshots and their file names. One-second
// resolution: two runs inside the same second overwrite each other's
// file for the same account, deliberately.
const TimestampLayout = "20060102_150405"

// SnapshotWriter serializes snapshots into a fixed output directory.
type SnapshotWriter struct {
	dir string
}

func NewSnapshotWriter(dir string) *SnapshotWriter {
	return &SnapshotWriter{dir: dir}
}

// Write serializes the snapshot as indented JSON under
// account_<last4>_data_<timestamp>.json and returns the file path.
// An existing file with the same name is silently overwritten.
func (w *SnapshotWriter) Write(snap types.Snapshot) (string, error) {
	b, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := fmt.Sprintf("account_%s_data_%s.json", snap.Account.AccID.Last4(), snap.Timestamp)
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}
