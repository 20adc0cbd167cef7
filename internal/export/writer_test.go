package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"moomoo-exporter/internal/types"
)

func sampleSnapshot(ts string) types.Snapshot {
	account := types.Account{
		AccID:       "281756459141",
		Currency:    "USD",
		TotalAssets: decimal.RequireFromString("500.00"),
	}
	return types.NewSnapshot(ts, account, nil)
}

func TestWriteFilename(t *testing.T) {
	dir := t.TempDir()
	w := NewSnapshotWriter(dir)

	path, err := w.Write(sampleSnapshot("20260830_101502"))
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "account_9141_data_20260830_101502.json")
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestWriteIndentedJSONWithEmptyPositions(t *testing.T) {
	w := NewSnapshotWriter(t.TempDir())

	path, err := w.Write(sampleSnapshot("20260830_101502"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Timestamp string           `json:"timestamp"`
		Account   map[string]any   `json:"account"`
		Positions []map[string]any `json:"positions"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Timestamp != "20260830_101502" {
		t.Errorf("timestamp = %s", decoded.Timestamp)
	}
	if decoded.Positions == nil {
		t.Error("positions must serialize as [], not null")
	}
	if total, ok := decoded.Account["total_assets"].(float64); !ok || total != 500 {
		t.Errorf("total_assets should be a JSON number, got %v", decoded.Account["total_assets"])
	}
	if !strings.Contains(string(b), "\n    \"") {
		t.Error("snapshot should be written with 4-space indentation")
	}
}

func TestWriteOverwritesSameSecond(t *testing.T) {
	dir := t.TempDir()
	w := NewSnapshotWriter(dir)

	first, err := w.Write(sampleSnapshot("20260830_101502"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := w.Write(sampleSnapshot("20260830_101502"))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("same-second writes should collide: %s vs %s", first, second)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file after overwrite, got %d", len(entries))
	}
}

func TestWriteDistinctSeconds(t *testing.T) {
	dir := t.TempDir()
	w := NewSnapshotWriter(dir)

	if _, err := w.Write(sampleSnapshot("20260830_101502")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(sampleSnapshot("20260830_101503")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 files across seconds, got %d", len(entries))
	}
}
