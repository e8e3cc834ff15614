package patchbay

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestWriteConfigFile verifies that a written config loads back into an
// equivalent record.
func TestWriteConfigFile(t *testing.T) {
	loader := NewLoader().WithDefaultCID(testCID)
	s, err := loader.LoadBytes([]byte(`{"scope": "studio-3", "listen_port": 5569}`))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "broker.conf")
	if err := WriteConfigFile(path, s); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	reloaded, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Scope != "studio-3" || reloaded.ListenPort != 5569 || reloaded.CID != s.CID {
		t.Errorf("reloaded record = %q %d %v", reloaded.Scope, reloaded.ListenPort, reloaded.CID)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		t.Error("config file should end with a newline")
	}
}

// TestWriteConfigFileDefaults verifies that a pure default record, where the
// listen port has no document representation, still round-trips.
func TestWriteConfigFileDefaults(t *testing.T) {
	loader := NewLoader().WithDefaultCID(testCID)

	path := filepath.Join(t.TempDir(), "broker.conf")
	if err := WriteConfigFile(path, loader.Defaults()); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	reloaded, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.ListenPort != 0 {
		t.Errorf("listen port = %d, want 0", reloaded.ListenPort)
	}
	if origin, _ := reloaded.Origin("/listen_port"); origin != OriginDefault {
		t.Error("a null listen_port should reload as a default")
	}
	if reloaded.CID != testCID {
		t.Errorf("CID = %v, want the written identity %v", reloaded.CID, testCID)
	}
}

// TestWriteConfigFileCreatesDirs verifies parent directory creation.
func TestWriteConfigFileCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "patchbay", "broker.conf")

	if err := WriteConfigFile(path, NewLoader().Defaults()); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file missing: %v", err)
	}
}

// TestWriteConfigFileAtomic verifies that no temp files survive a write.
func TestWriteConfigFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broker.conf")

	if err := WriteConfigFile(path, NewLoader().Defaults()); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp.") {
			t.Errorf("leftover temp file %s", entry.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected only the config file, got %d entries", len(entries))
	}
}

// TestEnsureConfigFile verifies the seed-once behavior.
func TestEnsureConfigFile(t *testing.T) {
	loader := NewLoader().WithDefaultCID(testCID)
	path := filepath.Join(t.TempDir(), "broker.conf")

	wrote, err := EnsureConfigFile(path, loader.Defaults())
	if err != nil {
		t.Fatalf("EnsureConfigFile failed: %v", err)
	}
	if !wrote {
		t.Fatal("first call should write the file")
	}

	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// A second call must not touch the existing file, even with different
	// settings.
	other := NewLoader().Defaults()
	wrote, err = EnsureConfigFile(path, other)
	if err != nil {
		t.Fatalf("second EnsureConfigFile failed: %v", err)
	}
	if wrote {
		t.Error("second call should not rewrite the file")
	}

	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("existing config file was modified")
	}
}

// TestWriteConfigFileNil verifies the nil guard.
func TestWriteConfigFileNil(t *testing.T) {
	if err := WriteConfigFile(filepath.Join(t.TempDir(), "x.conf"), nil); err == nil {
		t.Error("expected an error for nil settings")
	}
}
