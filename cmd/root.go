package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"card-intake/pkg/config"
	"card-intake/pkg/core"
	"card-intake/pkg/interfaces"
	"card-intake/pkg/logger"
	"card-intake/pkg/types"
	"card-intake/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	inputDir       string
	outputDir      string
	notesDir       string
	templatePath   string
	keywordsPath   string
	backendFlag    string
	overwriteNotes bool
	dryRun         bool
	verbose        bool
	showVersion    bool
)

// AppHandler encapsulates application main processing logic
type AppHandler struct {
	config   *config.Config
	logger   *logger.Logger
	pipeline interfaces.CardPipeline
}

// NewAppHandler creates an application handler
func NewAppHandler() *AppHandler {
	return &AppHandler{}
}

// ProcessCards is the main entry point for a card intake run
func (h *AppHandler) ProcessCards(ctx context.Context) error {
	if err := h.initialize(); err != nil {
		return err
	}

	report, err := h.pipeline.Run(ctx)
	if err != nil {
		return err
	}

	h.displayReport(report)
	return nil
}

// initialize initializes application components
func (h *AppHandler) initialize() error {
	h.config = config.LoadConfigWithEnvOverrides()
	h.applyCommandLineOverrides()

	h.logger = logger.NewLogger(h.config.LogLevel, h.config.EnableVerbose)

	pipeline, err := core.NewPipeline(h.config, h.logger)
	if err != nil {
		return err
	}
	h.pipeline = pipeline
	return nil
}

// applyCommandLineOverrides applies command line parameter overrides
func (h *AppHandler) applyCommandLineOverrides() {
	if inputDir != "" {
		h.config.InputDir = inputDir
	}
	if outputDir != "" {
		h.config.OutputDir = outputDir
	}
	if notesDir != "" {
		h.config.NotesDir = notesDir
	}
	if templatePath != "" {
		h.config.TemplatePath = templatePath
	}
	if keywordsPath != "" {
		h.config.KeywordsPath = keywordsPath
	}
	if backendFlag != "" {
		h.config.Backend = types.Backend(backendFlag)
	}
	if overwriteNotes {
		h.config.OverwriteNotes = true
	}
	if dryRun {
		h.config.DryRun = true
	}
	if verbose {
		h.config.EnableVerbose = true
	}
}

// displayReport renders the per-card plan and the run artifacts
func (h *AppHandler) displayReport(report *interfaces.RunReport) {
	if len(report.Results) == 0 {
		return
	}

	headers := []string{"Card", "Renamed To", "Method", "Conf", "Note"}
	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		rows = append(rows, []string{
			filepath.Base(r.Src),
			filepath.Base(r.Dst),
			string(r.Method),
			fmt.Sprintf("%.2f", r.Confidence),
			filepath.Base(r.NotePath),
		})
	}
	fmt.Println(renderTable(headers, rows, []columnAlignment{
		alignLeft, alignLeft, alignLeft, alignRight, alignLeft,
	}))

	if report.DryRun {
		fmt.Printf("\nDry run only. Processed: %d\n", len(report.Results))
	} else {
		fmt.Printf("\nDone. Processed: %d\n", len(report.Results))
	}
	fmt.Printf("Log: %s\n", report.LogPath)
	fmt.Printf("Undo script: %s\n", report.UndoPath)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "card-intake",
	Short: "Process business card photos into renamed images and person notes",
	Long: `A CLI tool that turns a folder of business card photos into renamed,
filed images plus one person note per card.

For every card image it runs OCR (tesseract), picks the person name
(Chinese name preferred over Latin), extracts contact fields (email,
web, phone, mobile, fax, address, role, nationality, company), renames
the image after the person, and generates a note from the person
template with the card photo embedded.

Every run writes a CSV log and an executable undo script next to the
renamed images, so a batch can always be reviewed and reversed.

Backends:
- auto:      use tesseract when installed, otherwise keep filenames
- tesseract: require tesseract; fail if missing
- none:      skip OCR entirely, every card keeps its filename

Examples:
  card-intake                                  # Process the default intake folder
  card-intake --dry-run                        # Plan only, move nothing
  card-intake --input-dir ./cards --backend none
  card-intake --overwrite-notes --verbose
  card-intake sync --apply                     # Align existing notes with the template
  card-intake config set tesseract_path /opt/homebrew/bin/tesseract`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Printf("card-intake %s\n", version)
			return
		}

		handler := NewAppHandler()
		if err := handler.ProcessCards(context.Background()); err != nil {
			var appErr *utils.AppError
			if errors.As(err, &appErr) {
				log.Fatalf("Error (%s): %s", appErr.Type, appErr.Message)
			}
			log.Fatalf("Error: %v", err)
		}
	},
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&inputDir, "input-dir", "",
		"Directory of unprocessed card images (default: probe the vault intake folders)")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "",
		"Directory renamed images are moved to")
	rootCmd.Flags().StringVar(&notesDir, "notes-dir", "",
		"Directory person notes are written to")
	rootCmd.Flags().StringVar(&templatePath, "template", "",
		"Person note template path")
	rootCmd.Flags().StringVar(&keywordsPath, "keywords", "",
		"YAML file overriding the built-in keyword tables")
	rootCmd.Flags().StringVar(&backendFlag, "backend", "",
		"OCR backend (auto, tesseract, none)")
	rootCmd.Flags().BoolVar(&overwriteNotes, "overwrite-notes", false,
		"Overwrite existing person notes instead of keeping them")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Plan the run without moving images or writing notes")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output to show progress information")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false,
		"Show version information")
}
