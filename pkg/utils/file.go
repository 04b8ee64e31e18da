package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"card-intake/pkg/constants"
)

var (
	forbiddenChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// SanitizeFileName makes a person name safe to use as a file stem.
// Forbidden filesystem characters become spaces, whitespace runs
// collapse, and an empty result falls back to a placeholder.
func SanitizeFileName(name string) string {
	name = forbiddenChars.ReplaceAllString(name, " ")
	name = whitespaceRuns.ReplaceAllString(name, " ")
	name = strings.Trim(strings.TrimSpace(name), ". ")
	if name == "" {
		return constants.FallbackName
	}
	return name
}

// UniquePath returns a destination path in dir with the given stem and
// suffix that collides neither with the per-run reservation set nor
// with an existing file. Collisions escalate a numeric suffix:
// stem.jpg, stem_2.jpg, stem_3.jpg, ... The returned path is added to
// the reservation set.
func UniquePath(dir, stem, suffix string, reserved map[string]bool) string {
	for index := 1; ; index++ {
		name := stem + suffix
		if index > 1 {
			name = fmt.Sprintf("%s_%d%s", stem, index, suffix)
		}
		candidate := filepath.Join(dir, name)
		if reserved[candidate] {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			continue
		}
		reserved[candidate] = true
		return candidate
	}
}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, constants.DefaultDirPermission)
}

// IsImageFile reports whether the extension (with dot, any case)
// belongs to a supported card image format.
func IsImageFile(ext string) bool {
	return constants.ImageExtensions[strings.ToLower(ext)]
}

// ListImages returns the card images in dir, sorted by filename for a
// deterministic processing order. Hidden files are skipped.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapError(err, ErrorTypeIO, "failed to read input directory")
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if IsImageFile(filepath.Ext(entry.Name())) {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Stem returns the filename without directory or extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
