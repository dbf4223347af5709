package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_UnknownConfigVersion(t *testing.T) {
	d := t.TempDir()
	cfg := filepath.Join(d, "unknown_version.cue")
	content := "{\n  configVersion: \"2\"\n  runners: {}\n}\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatalf("write cfg: %v", err)
	}
	_, err := Load(cfg)
	if err == nil {
		t.Fatalf("expected error")
	}
	want := "unsupported configVersion: \"2\" (supported: 1)"
	if err.Error() != want {
		t.Fatalf("unexpected error\nwant: %s\n got: %s", want, err.Error())
	}
}

func TestLoad_MissingConfigVersionAccepted(t *testing.T) {
	d := t.TempDir()
	cfg := filepath.Join(d, "noversion.yaml")
	if err := os.WriteFile(cfg, []byte("runners:\n  gm:\n    scriptPath: a.py\n"), 0o644); err != nil {
		t.Fatalf("write cfg: %v", err)
	}
	f, err := Load(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := f.Runners["gm"]; !ok {
		t.Fatalf("expected runner gm, got %+v", f.Runners)
	}
}
