package core

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"card-intake/pkg/constants"
	"card-intake/pkg/types"
	"card-intake/pkg/utils"
)

var runLogHeader = []string{"src", "dst", "name", "backend", "method", "confidence", "bbox_h", "note_path"}

// WriteRunLog writes the per-card audit records as CSV. The log is
// written on every run, dry runs included, so a plan can be reviewed
// before committing to it.
func WriteRunLog(path string, results []types.CardResult) error {
	f, err := os.Create(path)
	if err != nil {
		return utils.NewIOError(fmt.Sprintf("failed to create run log: %s", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(runLogHeader); err != nil {
		return utils.NewIOError(fmt.Sprintf("failed to write run log: %s", path), err)
	}
	for _, r := range results {
		row := []string{
			r.Src,
			r.Dst,
			r.PersonName,
			string(r.Backend),
			string(r.Method),
			fmt.Sprintf("%.4f", r.Confidence),
			fmt.Sprintf("%.4f", r.BBoxHeight),
			r.NotePath,
		}
		if err := w.Write(row); err != nil {
			return utils.NewIOError(fmt.Sprintf("failed to write run log: %s", path), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return utils.NewIOError(fmt.Sprintf("failed to write run log: %s", path), err)
	}
	return nil
}

// WriteUndoScript writes an executable shell script that reverses the
// run: moves each image back to its source path and deletes the note
// it created. rm -f keeps the script safe to run after a dry run or a
// partial manual cleanup.
func WriteUndoScript(path string, results []types.CardResult) error {
	var b strings.Builder
	b.WriteString("#!/bin/sh\nset -e\n")
	for _, r := range results {
		b.WriteString(fmt.Sprintf("mv %s %s\n", utils.ShellQuote(r.Dst), utils.ShellQuote(r.Src)))
		b.WriteString(fmt.Sprintf("rm -f %s\n", utils.ShellQuote(r.NotePath)))
	}
	if err := os.WriteFile(path, []byte(b.String()), constants.UndoScriptPermission); err != nil {
		return utils.NewIOError(fmt.Sprintf("failed to write undo script: %s", path), err)
	}
	return nil
}
