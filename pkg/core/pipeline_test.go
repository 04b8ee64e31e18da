package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"card-intake/pkg/config"
	"card-intake/pkg/logger"
	"card-intake/pkg/types"
)

const pipelineTemplate = `---
type: person
company:
name:
---
created: {{date}}

## 照片::
`

type pipelineDirs struct {
	input    string
	output   string
	notes    string
	template string
}

func setupPipelineDirs(t *testing.T, images ...string) pipelineDirs {
	t.Helper()
	root := t.TempDir()
	dirs := pipelineDirs{
		input:    filepath.Join(root, "input"),
		output:   filepath.Join(root, "output"),
		notes:    filepath.Join(root, "notes"),
		template: filepath.Join(root, "person.md"),
	}
	for _, dir := range []string{dirs.input, dirs.output, dirs.notes} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(dirs.template, []byte(pipelineTemplate), 0644); err != nil {
		t.Fatal(err)
	}
	for _, name := range images {
		if err := os.WriteFile(filepath.Join(dirs.input, name), []byte("img"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dirs
}

func pipelineConfig(dirs pipelineDirs) *config.Config {
	return &config.Config{
		VaultRoot:       filepath.Dir(dirs.input),
		InputDir:        dirs.input,
		OutputDir:       dirs.output,
		NotesDir:        dirs.notes,
		TemplatePath:    dirs.template,
		WikiImagePrefix: "商务/图/名片",
		Backend:         types.BackendNone,
		LogLevel:        "error",
	}
}

func newTestPipeline(t *testing.T, cfg *config.Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg, logger.NewLogger(cfg.LogLevel, false))
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

func TestPipelineProcessesBatch(t *testing.T) {
	dirs := setupPipelineDirs(t, "b.jpg", "a.jpg")
	p := newTestPipeline(t, pipelineConfig(dirs))

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("processed %d cards, want 2", len(report.Results))
	}

	// Filename order, and with backend none every card keeps its stem.
	if report.Results[0].PersonName != "a" || report.Results[1].PersonName != "b" {
		t.Errorf("unexpected order: %+v", report.Results)
	}
	if report.Results[0].Method != types.NameMethodNone {
		t.Errorf("method = %s, want none", report.Results[0].Method)
	}

	for _, name := range []string{"a.jpg", "b.jpg"} {
		if _, err := os.Stat(filepath.Join(dirs.output, name)); err != nil {
			t.Errorf("renamed image missing: %s", name)
		}
		if _, err := os.Stat(filepath.Join(dirs.input, name)); !os.IsNotExist(err) {
			t.Errorf("source image not moved: %s", name)
		}
	}

	note, err := os.ReadFile(filepath.Join(dirs.notes, "a.md"))
	if err != nil {
		t.Fatalf("note missing: %v", err)
	}
	content := string(note)
	if !strings.Contains(content, `name: "a"`) {
		t.Errorf("note front-matter not filled:\n%s", content)
	}
	if !strings.Contains(content, "## 照片:: ![[商务/图/名片/a.jpg]]") {
		t.Errorf("photo embed missing:\n%s", content)
	}
	if strings.Contains(content, "{{date}}") {
		t.Errorf("date placeholder not substituted:\n%s", content)
	}
}

func TestPipelineWritesLogAndUndo(t *testing.T) {
	dirs := setupPipelineDirs(t, "card.jpg")
	p := newTestPipeline(t, pipelineConfig(dirs))

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	logData, err := os.ReadFile(report.LogPath)
	if err != nil {
		t.Fatalf("run log missing: %v", err)
	}
	logText := string(logData)
	if !strings.HasPrefix(logText, "src,dst,name,backend,method,confidence,bbox_h,note_path") {
		t.Errorf("unexpected log header:\n%s", logText)
	}
	if !strings.Contains(logText, "card.jpg") || !strings.Contains(logText, "0.0000") {
		t.Errorf("log row incomplete:\n%s", logText)
	}

	undoData, err := os.ReadFile(report.UndoPath)
	if err != nil {
		t.Fatalf("undo script missing: %v", err)
	}
	undoText := string(undoData)
	if !strings.HasPrefix(undoText, "#!/bin/sh\nset -e\n") {
		t.Errorf("unexpected undo preamble:\n%s", undoText)
	}
	result := report.Results[0]
	if !strings.Contains(undoText, "mv "+result.Dst+" "+result.Src) &&
		!strings.Contains(undoText, "mv '"+result.Dst+"' '"+result.Src+"'") {
		t.Errorf("undo move missing:\n%s", undoText)
	}
	if !strings.Contains(undoText, "rm -f ") {
		t.Errorf("undo note removal missing:\n%s", undoText)
	}

	info, err := os.Stat(report.UndoPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0100 == 0 {
		t.Errorf("undo script not executable: %v", info.Mode())
	}
}

func TestPipelineUniqueDestinations(t *testing.T) {
	dirs := setupPipelineDirs(t, "card.jpg")
	if err := os.WriteFile(filepath.Join(dirs.output, "card.jpg"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	p := newTestPipeline(t, pipelineConfig(dirs))

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	result := report.Results[0]
	if filepath.Base(result.Dst) != "card_2.jpg" {
		t.Errorf("dst = %q, want card_2.jpg", result.Dst)
	}
	if result.PersonName != "card_2" {
		t.Errorf("person name = %q, want the escalated stem", result.PersonName)
	}
	if filepath.Base(result.NotePath) != "card_2.md" {
		t.Errorf("note = %q, want card_2.md", result.NotePath)
	}
}

func TestPipelineDryRunTouchesNothing(t *testing.T) {
	dirs := setupPipelineDirs(t, "card.jpg")
	cfg := pipelineConfig(dirs)
	cfg.DryRun = true
	p := newTestPipeline(t, cfg)

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !report.DryRun {
		t.Error("report should be marked dry-run")
	}
	if _, err := os.Stat(filepath.Join(dirs.input, "card.jpg")); err != nil {
		t.Error("source image was moved during dry run")
	}
	if _, err := os.Stat(filepath.Join(dirs.notes, "card.md")); !os.IsNotExist(err) {
		t.Error("note was written during dry run")
	}

	// The plan is still fully recorded.
	if _, err := os.Stat(report.LogPath); err != nil {
		t.Error("run log missing after dry run")
	}
	if _, err := os.Stat(report.UndoPath); err != nil {
		t.Error("undo script missing after dry run")
	}
}

func TestPipelineKeepsExistingNotes(t *testing.T) {
	dirs := setupPipelineDirs(t, "card.jpg")
	existing := filepath.Join(dirs.notes, "card.md")
	if err := os.WriteFile(existing, []byte("hand-written\n"), 0644); err != nil {
		t.Fatal(err)
	}
	p := newTestPipeline(t, pipelineConfig(dirs))

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hand-written\n" {
		t.Errorf("existing note overwritten:\n%s", data)
	}
}

func TestPipelineOverwriteNotes(t *testing.T) {
	dirs := setupPipelineDirs(t, "card.jpg")
	existing := filepath.Join(dirs.notes, "card.md")
	if err := os.WriteFile(existing, []byte("stale\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := pipelineConfig(dirs)
	cfg.OverwriteNotes = true
	p := newTestPipeline(t, cfg)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `name: "card"`) {
		t.Errorf("note not regenerated:\n%s", data)
	}
}

func TestPipelineEmptyInputDir(t *testing.T) {
	dirs := setupPipelineDirs(t)
	p := newTestPipeline(t, pipelineConfig(dirs))

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Results) != 0 || report.LogPath != "" {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestNewPipelineRequiresTemplate(t *testing.T) {
	dirs := setupPipelineDirs(t)
	cfg := pipelineConfig(dirs)
	cfg.TemplatePath = filepath.Join(dirs.input, "missing.md")

	if _, err := NewPipeline(cfg, logger.NewLogger("error", false)); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestNewPipelineRequiresInputDir(t *testing.T) {
	dirs := setupPipelineDirs(t)
	cfg := pipelineConfig(dirs)
	cfg.InputDir = filepath.Join(dirs.input, "missing")

	if _, err := NewPipeline(cfg, logger.NewLogger("error", false)); err == nil {
		t.Fatal("expected error for missing input directory")
	}
}

func TestResolvePathsProbesLegacyInputDir(t *testing.T) {
	root := t.TempDir()
	legacy := filepath.Join(root, "商务", "未处理名片")
	if err := os.MkdirAll(legacy, 0755); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{VaultRoot: root}
	if err := resolvePaths(cfg); err != nil {
		t.Fatalf("resolvePaths: %v", err)
	}
	if cfg.InputDir != legacy {
		t.Errorf("input dir = %q, want legacy fallback %q", cfg.InputDir, legacy)
	}
	if cfg.OutputDir != filepath.Join(root, "商务", "图", "名片") {
		t.Errorf("output dir = %q", cfg.OutputDir)
	}
}
