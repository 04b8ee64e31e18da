package constants

import "os"

// File and directory permissions
const (
	DefaultFilePermission os.FileMode = 0644
	DefaultDirPermission  os.FileMode = 0755
	UndoScriptPermission  os.FileMode = 0755
)

// OCR word filtering and name scoring tunables. These values are
// empirically chosen; they are named here so tests and callers can
// reference them instead of re-deriving "better" ones.
const (
	// MinWordConfidence is the raw tesseract confidence (0-100) below
	// which a word is dropped from its line, unless dropping would
	// leave the line empty.
	MinWordConfidence = 35.0

	// TesseractWordLevel identifies word rows in tesseract TSV output.
	TesseractWordLevel = 5

	// ChineseNameScoreBase guarantees any valid Chinese candidate
	// outranks any Latin candidate.
	ChineseNameScoreBase = 10000.0

	// EnglishQualityWeight multiplies the token-count quality score.
	EnglishQualityWeight = 1000.0

	// ConfidenceWeight scales [0,1] confidence into score points.
	ConfidenceWeight = 100.0

	// English name quality by token count: the common "First Last"
	// shape beats longer captures.
	EnglishQualityTwoTokens   = 10
	EnglishQualityThreeTokens = 9

	// MaxEnglishNameTokens caps greedy token capture on the Latin track.
	MaxEnglishNameTokens = 3

	// Chinese name candidates are runs of this many CJK characters.
	MinChineseNameRunes = 2
	MaxChineseNameRunes = 4
)

// Contact-field extraction tunables
const (
	// CompanyScanLines is how many leading lines are considered as
	// company-name candidates.
	CompanyScanLines = 6

	// MinCompanyLineLength rejects very short lines as company names.
	MinCompanyLineLength = 3

	// AddressMaxLines is how many matching lines are joined into the
	// address field.
	AddressMaxLines = 2

	// AddressJoinSeparator joins multiple address lines.
	AddressJoinSeparator = " ; "
)

// Output naming
const (
	LogFilePattern  = "card_intake_log_%s.csv"
	UndoFilePattern = "card_intake_undo_%s.sh"
	RunTimestamp    = "20060102_150405"
	DateLayout      = "2006-01-02"
	DatePlaceholder = "{{date}}"
)

// FallbackName is used when a sanitized filename would be empty.
const FallbackName = "未识别"

// ImageExtensions lists the card image formats accepted from the input
// directory (lowercase, with dot).
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Default vault-relative locations, matching the note vault layout the
// tool was built around. All are overridable by flags.
const (
	DefaultInputDir        = "商务/图/未处理名片"
	LegacyInputDir         = "商务/未处理名片"
	DefaultOutputDir       = "商务/图/名片"
	DefaultNotesDir        = "商务/人物"
	DefaultTemplatePath    = "模版/人物介绍.md"
	DefaultWikiImagePrefix = "商务/图/名片"
)
