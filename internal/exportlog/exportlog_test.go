package exportlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppend(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EXPORTER_LOG_DIR", dir)

	err := Append(Entry{
		Account:     "1111",
		Outcome:     "EXPORTED",
		Path:        "account_1111_data_20260830_101502.json",
		TotalAssets: "500.00",
		Positions:   2,
	})
	if err != nil {
		t.Fatal(err)
	}

	p := filepath.Join(dir, time.Now().Format("2006-01-02")+".txt")
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	line := string(b)
	if !strings.Contains(line, `"account":"1111"`) {
		t.Errorf("journal line missing account: %s", line)
	}
	if !strings.Contains(line, `"outcome":"EXPORTED"`) {
		t.Errorf("journal line missing outcome: %s", line)
	}
}

func TestAppendAccumulates(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EXPORTER_LOG_DIR", dir)

	if err := Append(Entry{Account: "1111", Outcome: "EXPORTED"}); err != nil {
		t.Fatal(err)
	}
	if err := Append(Entry{Account: "2222", Outcome: "SKIPPED", Reason: "inactive"}); err != nil {
		t.Fatal(err)
	}

	p := filepath.Join(dir, time.Now().Format("2006-01-02")+".txt")
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 journal lines, got %d", len(lines))
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EXPORTER_LOG_DIR", dir)

	old := filepath.Join(dir, "2026-01-01.txt")
	if err := os.WriteFile(old, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	fresh := filepath.Join(dir, time.Now().Format("2006-01-02")+".txt")
	if err := os.WriteFile(fresh, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CompressOlder(7); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old journal should be removed after compression")
	}
	if _, err := os.Stat(old + ".gz"); err != nil {
		t.Error("old journal should have a gzip copy")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh journal must be left alone")
	}
}

func TestCompressOlderDisabled(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EXPORTER_LOG_DIR", dir)

	old := filepath.Join(dir, "2026-01-01.txt")
	if err := os.WriteFile(old, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CompressOlder(0); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(old); err != nil {
		t.Error("retention 0 must not touch journals")
	}
}
