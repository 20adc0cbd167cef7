package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "mode: EXPORT\n"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("default host = %s", cfg.Host)
	}
	if cfg.Port != 11111 {
		t.Errorf("default port = %d", cfg.Port)
	}
	if cfg.ProbeTimeout() != 3*time.Second {
		t.Errorf("default probe timeout = %v", cfg.ProbeTimeout())
	}
	if cfg.RetryInterval() != 500*time.Millisecond {
		t.Errorf("default retry interval = %v", cfg.RetryInterval())
	}
	if cfg.Market != "US" || cfg.SecurityFirm != "FUTUSG" || cfg.Currency != "USD" {
		t.Errorf("default session scope = %s/%s/%s", cfg.Market, cfg.SecurityFirm, cfg.Currency)
	}
	if cfg.Threshold().String() != "0.1" {
		t.Errorf("default threshold = %s", cfg.Threshold())
	}
	if cfg.DataSource != "STATIC" {
		t.Errorf("default data source = %s", cfg.DataSource)
	}
	if cfg.OutputDir != "." {
		t.Errorf("default output dir = %s", cfg.OutputDir)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("MOOMOO_PORT", "22222")
	t.Setenv("MOOMOO_ACTIVITY_THRESHOLD", "5.5")
	t.Setenv("MOOMOO_OUTPUT_DIR", "/tmp/export-out")

	cfg, err := LoadConfig(writeConfig(t, "mode: EXPORT\nport: 11111\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 22222 {
		t.Errorf("env override lost, port = %d", cfg.Port)
	}
	if cfg.Threshold().String() != "5.5" {
		t.Errorf("env override lost, threshold = %s", cfg.Threshold())
	}
	if cfg.OutputDir != "/tmp/export-out" {
		t.Errorf("env override lost, output dir = %s", cfg.OutputDir)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"bad mode", "mode: YOLO\n", "invalid mode"},
		{"bad port", "mode: EXPORT\nport: 99999\n", "port"},
		{"bad threshold", "mode: EXPORT\nactivity_threshold: \"lots\"\n", "activity_threshold"},
		{"negative threshold", "mode: EXPORT\nactivity_threshold: \"-1\"\n", "activity_threshold"},
		{"bad data source", "mode: EXPORT\ndata_source: MOCK\n", "data_source"},
		{"interval exceeds timeout", "mode: EXPORT\nprobe_timeout_seconds: 0.1\nretry_interval_ms: 500\n", "zero attempts"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
