package cmd

import (
	"errors"
	"fmt"
	"log"

	"card-intake/pkg/config"
	"card-intake/pkg/core"
	"card-intake/pkg/logger"
	"card-intake/pkg/note"
	"card-intake/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	syncTemplate  string
	syncNotesDir  string
	yamlRenames   []string
	inlineRenames []string
	syncApply     bool
)

// syncCmd aligns existing person notes with the template structure
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync existing person notes with the template structure",
	Long: `Rewrite existing person notes to match the template: front-matter
keys in template order (missing keys added with template defaults) and
inline fields (## 标题::) collected into one block in template order.

Keys and field titles can be renamed during the sync. Every rename
target must exist in the template, so a typo cannot silently strip a
field from every note.

Without --apply the command only reports which notes would change.

Examples:
  card-intake sync                                  # Dry run
  card-intake sync --apply                          # Rewrite notes in place
  card-intake sync --yaml-rename 公司:company --apply
  card-intake sync --inline-rename 照片:图片 --apply`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSync(); err != nil {
			var appErr *utils.AppError
			if errors.As(err, &appErr) {
				log.Fatalf("Error (%s): %s", appErr.Type, appErr.Message)
			}
			log.Fatalf("Error: %v", err)
		}
	},
}

func runSync() error {
	yaml, err := note.ParseRenamePairs(yamlRenames, "--yaml-rename")
	if err != nil {
		return err
	}
	inline, err := note.ParseRenamePairs(inlineRenames, "--inline-rename")
	if err != nil {
		return err
	}

	cfg := config.LoadConfigWithEnvOverrides()
	if syncTemplate != "" {
		cfg.TemplatePath = syncTemplate
	}
	if syncNotesDir != "" {
		cfg.NotesDir = syncNotesDir
	}
	if verbose {
		cfg.EnableVerbose = true
	}
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.EnableVerbose)

	report, err := core.SyncNotes(cfg, appLogger, core.SyncOptions{
		YamlRenames:   yaml,
		InlineRenames: inline,
		Apply:         syncApply,
	})
	if err != nil {
		return err
	}

	mode := "Dry-run"
	if report.Applied {
		mode = "Applied"
	}
	fmt.Printf("%s: changed %d / %d files\n", mode, len(report.Changed), report.Total)
	return nil
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&syncTemplate, "template", "", "Person note template path")
	syncCmd.Flags().StringVar(&syncNotesDir, "notes-dir", "", "Directory of person notes to sync")
	syncCmd.Flags().StringArrayVar(&yamlRenames, "yaml-rename", nil,
		"Rename a front-matter key before sync, as OLD:NEW (repeatable)")
	syncCmd.Flags().StringArrayVar(&inlineRenames, "inline-rename", nil,
		"Rename an inline field title before sync, as OLD:NEW (repeatable)")
	syncCmd.Flags().BoolVar(&syncApply, "apply", false, "Write changes in place")
}
