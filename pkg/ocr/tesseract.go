package ocr

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"card-intake/pkg/constants"
	"card-intake/pkg/interfaces"
	"card-intake/pkg/logger"
	"card-intake/pkg/types"
	"card-intake/pkg/utils"
)

// tsvColumns are the headers the TSV output must contain. Any other
// table shape is a parse error.
var tsvColumns = []string{
	"level", "block_num", "par_num", "line_num", "word_num",
	"left", "height", "conf", "text",
}

// TesseractBackend invokes the tesseract CLI in TSV output mode and
// aggregates its word table into line observations.
type TesseractBackend struct {
	path   string
	lang   string
	logger *logger.Logger
}

// NewTesseractBackend creates a tesseract backend. The recognition
// language is probed from the installed language packs: simplified
// Chinese is preferred, then traditional, then English only.
func NewTesseractBackend(path string, log *logger.Logger) *TesseractBackend {
	if path == "" {
		path = "tesseract"
	}
	b := &TesseractBackend{path: path, lang: "eng", logger: log}
	if b.Available() {
		b.lang = b.detectLanguage()
	}
	return b
}

// Name returns the backend name as recorded in the run log
func (b *TesseractBackend) Name() string {
	return "tesseract"
}

// Description returns a human-readable description of the backend
func (b *TesseractBackend) Description() string {
	return "Local tesseract CLI (TSV word table, lang " + b.lang + ")"
}

// Available reports whether the tesseract binary can be invoked
func (b *TesseractBackend) Available() bool {
	_, err := exec.LookPath(b.path)
	return err == nil
}

// detectLanguage probes installed language packs with --list-langs
func (b *TesseractBackend) detectLanguage() string {
	out, err := exec.Command(b.path, "--list-langs").Output()
	if err != nil {
		return "eng"
	}

	langs := make(map[string]bool)
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of available languages") {
			continue
		}
		langs[line] = true
	}

	switch {
	case langs["chi_sim"]:
		return "chi_sim+eng"
	case langs["chi_tra"]:
		return "chi_tra+eng"
	default:
		return "eng"
	}
}

// Observe runs tesseract on an image and returns aggregated text lines
func (b *TesseractBackend) Observe(ctx context.Context, imagePath string) ([]types.Observation, error) {
	cmd := exec.CommandContext(ctx, b.path, imagePath, "-", "-l", b.lang, "--psm", "6", "tsv")

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = "tesseract failed"
		}
		return nil, utils.NewBackendError(message, err)
	}

	words, err := ParseTSV(stdout.String())
	if err != nil {
		return nil, err
	}
	return Aggregate(words), nil
}

// ParseTSV parses tesseract's tab-separated word table into word
// tokens. The header row must contain all expected columns; word rows
// are identified by the word level, and rows with unparseable numeric
// fields or empty text are skipped.
func ParseTSV(output string) ([]Word, error) {
	var rows []string
	for _, row := range strings.Split(output, "\n") {
		if strings.TrimSpace(row) != "" {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx := make(map[string]int)
	for i, name := range strings.Split(rows[0], "\t") {
		idx[name] = i
	}
	for _, name := range tsvColumns {
		if _, ok := idx[name]; !ok {
			return nil, utils.NewParseError("unexpected tesseract TSV format", nil)
		}
	}

	var words []Word
	for _, row := range rows[1:] {
		cols := strings.Split(row, "\t")
		word, ok := parseWordRow(cols, idx)
		if !ok {
			continue
		}
		words = append(words, word)
	}
	return words, nil
}

// parseWordRow converts one TSV row into a Word token
func parseWordRow(cols []string, idx map[string]int) (Word, bool) {
	get := func(name string) (string, bool) {
		i := idx[name]
		if i >= len(cols) {
			return "", false
		}
		return cols[i], true
	}

	levelStr, ok := get("level")
	if !ok {
		return Word{}, false
	}
	level, err := strconv.Atoi(levelStr)
	if err != nil || level != constants.TesseractWordLevel {
		return Word{}, false
	}

	text, ok := get("text")
	if !ok {
		return Word{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Word{}, false
	}

	ints := make(map[string]int, 5)
	for _, name := range []string{"block_num", "par_num", "line_num", "word_num", "left"} {
		s, ok := get(name)
		if !ok {
			return Word{}, false
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return Word{}, false
		}
		ints[name] = v
	}

	heightStr, ok := get("height")
	if !ok {
		return Word{}, false
	}
	height, err := strconv.ParseFloat(heightStr, 64)
	if err != nil {
		return Word{}, false
	}

	confStr, ok := get("conf")
	if !ok {
		return Word{}, false
	}
	conf, err := strconv.ParseFloat(confStr, 64)
	if err != nil {
		return Word{}, false
	}

	return Word{
		Block:   ints["block_num"],
		Par:     ints["par_num"],
		Line:    ints["line_num"],
		WordNum: ints["word_num"],
		Left:    ints["left"],
		Height:  height,
		Conf:    conf,
		Text:    text,
	}, true
}

var _ interfaces.Backend = (*TesseractBackend)(nil)
