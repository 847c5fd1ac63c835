package summarize

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const filenameMaxLen = 100

var (
	specialChars   = regexp.MustCompile(`[^\w\s]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// SanitizeTitle turns a thread title into a filesystem-safe base name:
// non-word, non-space characters are stripped, whitespace runs become a
// single underscore, and the result is capped at 100 characters. A title of
// only special characters sanitizes to the empty string.
func SanitizeTitle(title string) string {
	name := specialChars.ReplaceAllString(title, "")
	name = whitespaceRuns.ReplaceAllString(strings.TrimSpace(name), "_")
	if len(name) > filenameMaxLen {
		name = name[:filenameMaxLen]
	}
	return name
}

// Save writes content under outDir (created if absent) as
// <sanitized-title>_<YYYYMMDDHHMMSS>.txt and returns the path. Collisions
// are avoided by timestamp granularity, not detected.
func Save(outDir, title, content string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("Save: mkdir output dir: %w", err)
	}

	name := SanitizeTitle(title) + "_" + time.Now().Format("20060102150405") + ".txt"
	path := filepath.Join(outDir, name)

	if err := writeFileAtomic(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("Save: write transcript: %w", err)
	}
	return path, nil
}

// DumpJSON writes the raw thread payload somewhere inspectable.
func DumpJSON(path string, raw []byte) error {
	if err := writeFileAtomic(path, raw, 0o644); err != nil {
		return fmt.Errorf("DumpJSON: %w", err)
	}
	return nil
}

// WriteJSONAtomic marshals v and writes it atomically.
func WriteJSONAtomic(path string, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := writeFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp_output_*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
