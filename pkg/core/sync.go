package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"card-intake/pkg/config"
	"card-intake/pkg/constants"
	"card-intake/pkg/logger"
	"card-intake/pkg/note"
	"card-intake/pkg/utils"
)

// SyncOptions configures a structure-sync pass over the people notes.
type SyncOptions struct {
	YamlRenames   map[string]string
	InlineRenames map[string]string
	Apply         bool // rewrite files; default is a dry run
}

// SyncReport summarizes one sync pass.
type SyncReport struct {
	Changed []string // notes that differ from the template structure
	Total   int
	Applied bool
}

// SyncNotes aligns every people note with the template structure:
// front-matter keys in template order and inline fields re-emitted as
// one block, with optional key and title renames. Without Apply it
// only reports which notes would change.
func SyncNotes(cfg *config.Config, log *logger.Logger, opts SyncOptions) (*SyncReport, error) {
	if cfg.TemplatePath == "" {
		cfg.TemplatePath = filepath.Join(cfg.VaultRoot, constants.DefaultTemplatePath)
	}
	if cfg.NotesDir == "" {
		cfg.NotesDir = filepath.Join(cfg.VaultRoot, constants.DefaultNotesDir)
	}
	if !dirExists(cfg.NotesDir) {
		return nil, utils.NewNotFoundError(fmt.Sprintf("notes directory not found: %s", cfg.NotesDir), nil)
	}

	tmpl, err := note.LoadTemplateStructure(cfg.TemplatePath)
	if err != nil {
		return nil, err
	}
	if err := note.ValidateRenames(opts.YamlRenames, opts.InlineRenames, tmpl); err != nil {
		return nil, err
	}

	notes, err := listNotes(cfg.NotesDir)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{Total: len(notes), Applied: opts.Apply}
	for _, path := range notes {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, utils.NewIOError(fmt.Sprintf("failed to read note: %s", path), err)
		}
		newText, changed := note.SyncNote(string(data), tmpl, opts.YamlRenames, opts.InlineRenames)
		if !changed {
			continue
		}
		report.Changed = append(report.Changed, path)
		log.ProgressAlways("✏️", "UPDATE %s", path)
		if !opts.Apply {
			continue
		}
		if err := os.WriteFile(path, []byte(newText), constants.DefaultFilePermission); err != nil {
			return nil, utils.NewIOError(fmt.Sprintf("failed to write note: %s", path), err)
		}
	}
	return report, nil
}

// listNotes returns the markdown files in dir sorted by name.
func listNotes(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to read notes directory")
	}
	var notes []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		notes = append(notes, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(notes)
	return notes, nil
}
