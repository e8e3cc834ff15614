package patchbay

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteConfigFile persists a settings record as a JSON config document with
// atomic write semantics: the document is written to a temp file in the
// target directory and renamed into place, so readers never observe a
// half-written config. Parent directories are created as needed.
//
// The written document round-trips: loading it back produces an equivalent
// record.
func WriteConfigFile(path string, s *Settings) error {
	if s == nil {
		return fmt.Errorf("patchbay: settings is nil")
	}

	// Marshal to indented JSON, newline-terminated for editors
	data, err := json.MarshalIndent(settingsDocument(s), "", "  ")
	if err != nil {
		return fmt.Errorf("patchbay: marshal config: %w", err)
	}
	data = append(data, '\n')

	// Create parent directories
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0755); mkdirErr != nil {
			return mkdirErr
		}
	}

	// Generate temp file name in same directory for atomic rename
	tempPath, err := generateTempFileName(path)
	if err != nil {
		return err
	}

	// Ensure temp file is cleaned up on any error
	var tempFileCreated bool
	defer func() {
		if tempFileCreated {
			_ = os.Remove(tempPath)
		}
	}()

	// Write to temp file
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	tempFileCreated = true

	// Atomic rename temp file to target path
	if err := os.Rename(tempPath, path); err != nil {
		return err
	}

	// Rename succeeded, don't clean up temp file (it's now the target)
	tempFileCreated = false

	return nil
}

// EnsureConfigFile seeds path with the given settings when no config file
// exists yet, reporting whether it wrote one. An existing file is left
// untouched, invalid or not; deciding what to do with a broken config is the
// caller's business.
//
// Harnesses call this at install or first start with Loader.Defaults() so
// the generated CID lands on disk and the broker keeps its identity across
// restarts.
func EnsureConfigFile(path string, s *Settings) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("patchbay: stat config file: %w", err)
	}

	if err := WriteConfigFile(path, s); err != nil {
		return false, err
	}
	return true, nil
}

// generateTempFileName generates a unique temporary file name for atomic
// writes. The temp file is placed in the same directory as the target to
// ensure atomic rename works (same filesystem).
// Format: path + ".tmp." + randomHex
func generateTempFileName(path string) (string, error) {
	// Generate 8 random bytes (16 hex chars)
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	suffix := hex.EncodeToString(randomBytes)
	return path + ".tmp." + suffix, nil
}
