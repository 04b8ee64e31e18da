package interfaces

import (
	"context"

	"card-intake/pkg/types"
)

// RunReport summarizes one completed (or dry-run) batch
type RunReport struct {
	Results  []types.CardResult `json:"results"`
	LogPath  string             `json:"log_path"`
	UndoPath string             `json:"undo_path"`
	DryRun   bool               `json:"dry_run"`
}

// CardPipeline processes a batch of card images end to end
type CardPipeline interface {
	// Run processes every image in the input directory sequentially and
	// flushes the run log and undo script at the end
	Run(ctx context.Context) (*RunReport, error)
}
