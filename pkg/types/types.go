package types

// Backend represents the OCR backend selection
type Backend string

const (
	BackendAuto      Backend = "auto"      // Use tesseract when available, otherwise none
	BackendTesseract Backend = "tesseract" // Require tesseract; fail setup if missing
	BackendNone      Backend = "none"      // Skip OCR entirely, every card keeps its filename
)

// NameMethod records which track produced the chosen person name
type NameMethod string

const (
	NameMethodChinese NameMethod = "chinese"
	NameMethodEnglish NameMethod = "english"
	NameMethodNone    NameMethod = "none"
	NameMethodError   NameMethod = "error"
)

// Observation is one aggregated OCR text line.
// Immutable once produced by the line aggregator.
type Observation struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`  // mean word confidence, scaled to [0,1]
	BBoxHeight float64 `json:"bbox_height"` // max word height in the line
}

// NamePick is the outcome of name disambiguation for one card
type NamePick struct {
	Name       string     `json:"name"` // empty when Method is none or error
	Method     NameMethod `json:"method"`
	Confidence float64    `json:"confidence"`
	BBoxHeight float64    `json:"bbox_height"`
}

// FieldSet maps note front-matter keys to extracted string values.
// The key set is closed; values may be empty.
type FieldSet map[string]string

// Front-matter keys recognized by the extractor and the template merger.
// The last four are the template's literal (Chinese) keys.
const (
	FieldCompany     = "company"
	FieldBranch      = "branch"
	FieldName        = "name"
	FieldEmail       = "email"
	FieldWeb         = "web"
	FieldPhone       = "phone"
	FieldMobile      = "mobile"
	FieldFax         = "fax"
	FieldAddress     = "address"
	FieldNationality = "国籍"
	FieldRole        = "职位"
	FieldGender      = "性别"
	FieldAge         = "年龄"
)

// NewFieldSet returns a FieldSet with every known key present and the
// name key filled with the given person name.
func NewFieldSet(personName string) FieldSet {
	return FieldSet{
		FieldCompany:     "",
		FieldBranch:      "",
		FieldName:        personName,
		FieldEmail:       "",
		FieldWeb:         "",
		FieldPhone:       "",
		FieldMobile:      "",
		FieldFax:         "",
		FieldAddress:     "",
		FieldNationality: "",
		FieldRole:        "",
		FieldGender:      "",
		FieldAge:         "",
	}
}

// CardResult is the per-card audit record. One is created for every
// processed image, including skipped and errored cards, and persisted
// to the run log and undo script at end of run.
type CardResult struct {
	Src        string     `json:"src"`
	Dst        string     `json:"dst"`
	PersonName string     `json:"name"`
	Backend    Backend    `json:"backend"`
	Method     NameMethod `json:"method"`
	Confidence float64    `json:"confidence"`
	BBoxHeight float64    `json:"bbox_h"`
	NotePath   string     `json:"note_path"`
}
