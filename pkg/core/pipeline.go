package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"card-intake/pkg/config"
	"card-intake/pkg/constants"
	"card-intake/pkg/extract"
	"card-intake/pkg/interfaces"
	"card-intake/pkg/logger"
	"card-intake/pkg/note"
	"card-intake/pkg/ocr"
	"card-intake/pkg/types"
	"card-intake/pkg/utils"
)

// Pipeline processes a batch of card images: OCR, name pick, contact
// extraction, note generation, and the audit trail. One Pipeline
// handles one run.
type Pipeline struct {
	cfg          *config.Config
	log          *logger.Logger
	backend      interfaces.Backend
	keywords     *extract.Keywords
	templateText string
	now          func() time.Time
}

// NewPipeline validates the configuration, resolves the vault-relative
// paths, loads the note template and keyword tables, and selects the
// OCR backend. Any failure here aborts before a single image is
// touched.
func NewPipeline(cfg *config.Config, log *logger.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := resolvePaths(cfg); err != nil {
		return nil, err
	}

	if !utils.FileExists(cfg.TemplatePath) {
		return nil, utils.NewNotFoundError(fmt.Sprintf("template not found: %s", cfg.TemplatePath), nil)
	}
	data, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		return nil, utils.NewIOError(fmt.Sprintf("failed to read template: %s", cfg.TemplatePath), err)
	}

	keywords := extract.DefaultKeywords()
	if cfg.KeywordsPath != "" {
		keywords, err = extract.LoadKeywords(cfg.KeywordsPath)
		if err != nil {
			return nil, err
		}
	}

	backend, err := ocr.SelectBackend(cfg, log)
	if err != nil {
		return nil, err
	}
	log.Progress("🔍", "Using OCR backend: %s", backend.Name())

	return &Pipeline{
		cfg:          cfg,
		log:          log,
		backend:      backend,
		keywords:     keywords,
		templateText: string(data),
		now:          time.Now,
	}, nil
}

// resolvePaths fills empty path settings from the vault layout. The
// input directory probes the current location first and falls back to
// the pre-reorganization one, so vaults that were never migrated keep
// working.
func resolvePaths(cfg *config.Config) error {
	if cfg.InputDir == "" {
		primary := filepath.Join(cfg.VaultRoot, constants.DefaultInputDir)
		legacy := filepath.Join(cfg.VaultRoot, constants.LegacyInputDir)
		switch {
		case dirExists(primary):
			cfg.InputDir = primary
		case dirExists(legacy):
			cfg.InputDir = legacy
		default:
			return utils.NewNotFoundError(fmt.Sprintf(
				"input directory not found, tried %s and %s", primary, legacy), nil)
		}
	} else if !dirExists(cfg.InputDir) {
		return utils.NewNotFoundError(fmt.Sprintf("input directory not found: %s", cfg.InputDir), nil)
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.VaultRoot, constants.DefaultOutputDir)
	}
	if cfg.NotesDir == "" {
		cfg.NotesDir = filepath.Join(cfg.VaultRoot, constants.DefaultNotesDir)
	}
	if cfg.TemplatePath == "" {
		cfg.TemplatePath = filepath.Join(cfg.VaultRoot, constants.DefaultTemplatePath)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Run processes every image in the input directory in filename order.
// OCR failures degrade the affected card to filename-based naming; any
// other failure aborts the run. The run log and undo script are
// flushed at the end, dry runs included.
func (p *Pipeline) Run(ctx context.Context) (*interfaces.RunReport, error) {
	if err := utils.EnsureDir(p.cfg.OutputDir); err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(p.cfg.NotesDir); err != nil {
		return nil, err
	}

	images, err := utils.ListImages(p.cfg.InputDir)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		p.log.ProgressAlways("📭", "No images found in %s", p.cfg.InputDir)
		return &interfaces.RunReport{DryRun: p.cfg.DryRun}, nil
	}

	ts := p.now().Format(constants.RunTimestamp)
	logPath := filepath.Join(p.cfg.OutputDir, fmt.Sprintf(constants.LogFilePattern, ts))
	undoPath := filepath.Join(p.cfg.OutputDir, fmt.Sprintf(constants.UndoFilePattern, ts))

	reserved := make(map[string]bool)
	results := make([]types.CardResult, 0, len(images))
	for _, src := range images {
		if err := ctx.Err(); err != nil {
			return nil, utils.NewError(utils.ErrorTypeSystem, "run cancelled", err)
		}
		result, err := p.processCard(ctx, src, reserved)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if err := WriteRunLog(logPath, results); err != nil {
		return nil, err
	}
	if err := WriteUndoScript(undoPath, results); err != nil {
		return nil, err
	}

	return &interfaces.RunReport{
		Results:  results,
		LogPath:  logPath,
		UndoPath: undoPath,
		DryRun:   p.cfg.DryRun,
	}, nil
}

// processCard handles one image end to end. A recoverable OCR failure
// marks the card's method as error and falls back to the source
// filename; the image is still renamed and logged so the batch stays
// complete.
func (p *Pipeline) processCard(ctx context.Context, src string, reserved map[string]bool) (types.CardResult, error) {
	var pick types.NamePick

	observations, err := p.backend.Observe(ctx, src)
	if err != nil {
		if !utils.IsCardRecoverable(err) {
			return types.CardResult{}, err
		}
		p.log.Warn("OCR failed for %s, keeping filename: %v", filepath.Base(src), err)
		observations = nil
		pick = types.NamePick{Method: types.NameMethodError}
	} else {
		pick = extract.PickName(observations, p.keywords)
	}

	picked := pick.Name
	if picked == "" {
		picked = utils.Stem(src)
	}

	personName := utils.SanitizeFileName(picked)
	dst := utils.UniquePath(p.cfg.OutputDir, personName, strings.ToLower(filepath.Ext(src)), reserved)
	dstStem := utils.Stem(dst)
	notePath := filepath.Join(p.cfg.NotesDir, dstStem+".md")

	lines := extract.CollectLines(observations)
	fields := extract.ContactFields(lines, dstStem, p.keywords)
	fields[types.FieldName] = dstStem

	embed := fmt.Sprintf("![[%s/%s]]", p.cfg.WikiImagePrefix, filepath.Base(dst))
	content := note.Merge(p.templateText, fields, embed, p.now())

	result := types.CardResult{
		Src:        src,
		Dst:        dst,
		PersonName: dstStem,
		Backend:    types.Backend(p.backend.Name()),
		Method:     pick.Method,
		Confidence: pick.Confidence,
		BBoxHeight: pick.BBoxHeight,
		NotePath:   notePath,
	}
	p.log.ProgressAlways("📇", "PLAN %s -> %s / NOTE %s",
		filepath.Base(src), filepath.Base(dst), filepath.Base(notePath))

	if p.cfg.DryRun {
		return result, nil
	}

	if err := os.Rename(src, dst); err != nil {
		return types.CardResult{}, utils.NewIOError(fmt.Sprintf("failed to move %s", src), err)
	}
	if utils.FileExists(notePath) && !p.cfg.OverwriteNotes {
		p.log.Debug("Note exists, not overwriting: %s", notePath)
		return result, nil
	}
	if err := os.WriteFile(notePath, []byte(content), constants.DefaultFilePermission); err != nil {
		return types.CardResult{}, utils.NewIOError(fmt.Sprintf("failed to write note %s", notePath), err)
	}
	return result, nil
}

var _ interfaces.CardPipeline = (*Pipeline)(nil)
