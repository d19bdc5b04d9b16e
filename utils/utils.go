package utils

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

const DEFAULT_PROTOTYPE_ID = "prototype"

// SanitizeID normalizes a free-text name into an identifier usable both as a
// filename and as an engine id. Spaces become underscores, anything outside
// [A-Za-z0-9_-] is dropped.
func SanitizeID(s string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ':
			sb.WriteRune('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return DEFAULT_PROTOTYPE_ID
	}
	return sb.String()
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0777)
}

// SafeRemoveFile removes a regular file if it exists. Failures are logged
// and swallowed: a stale generated file is overwritten on the next write
// anyway.
func SafeRemoveFile(path string) {
	st, err := os.Stat(path)
	if err != nil || st.IsDir() {
		return
	}
	if err := os.Remove(path); err != nil {
		log.Printf("[utils] can't remove file %v: %v", path, err)
	}
}

// WriteTextFile writes UTF-8 text with \n line endings, creating parent
// directories as needed.
func WriteTextFile(path string, text string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0666)
}

func FileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
