package note

import (
	"regexp"
	"strings"
	"time"

	"card-intake/pkg/constants"
	"card-intake/pkg/types"
)

var (
	fmKeyValueRe  = regexp.MustCompile(`^([^:]+):(.*)$`)
	legacyColonRe = regexp.MustCompile(`:\s*$`)
)

// synthesizedKeyOrder is the canonical front-matter layout used when a
// template has no well-formed front-matter block of its own.
var synthesizedKeyOrder = []string{
	"type", "tags", "aliases",
	types.FieldCompany, types.FieldBranch, types.FieldName,
	types.FieldEmail, types.FieldWeb,
	types.FieldPhone, types.FieldMobile, types.FieldFax,
	types.FieldAddress,
	types.FieldNationality, types.FieldRole, types.FieldGender, types.FieldAge,
}

// Merge produces the note content for one card: date placeholder
// substitution, front-matter fill, then photo-marker injection. The
// whole merge is idempotent — running it on its own output with the
// same field set reproduces identical bytes.
func Merge(templateText string, fields types.FieldSet, embed string, now time.Time) string {
	content := ReplaceDate(templateText, now)
	content = FillFrontmatter(content, fields)
	return InjectPhoto(content, embed)
}

// ReplaceDate substitutes the template's date placeholder with the
// ISO-8601 date.
func ReplaceDate(text string, now time.Time) string {
	return strings.ReplaceAll(text, constants.DatePlaceholder, now.Format(constants.DateLayout))
}

// FillFrontmatter replaces the values of front-matter keys present in
// the field set, preserving the template's key order and leaving
// unknown keys untouched. Non-empty values are quoted, empty keys stay
// bare. A template without a well-formed block (opening and closing
// "---") gets one synthesized in canonical key order, with the
// original text appended as the body.
func FillFrontmatter(text string, fields types.FieldSet) string {
	lines := strings.Split(text, "\n")
	var out []string
	inBlock := false
	blockStarted := false
	blockEnded := false

	for _, line := range lines {
		if strings.TrimSpace(line) == "---" {
			if !blockStarted {
				blockStarted = true
				inBlock = true
			} else if inBlock {
				inBlock = false
				blockEnded = true
			}
			out = append(out, line)
			continue
		}

		if inBlock {
			if m := fmKeyValueRe.FindStringSubmatch(line); m != nil {
				key := strings.TrimSpace(m[1])
				if value, known := fields[key]; known {
					out = append(out, formatKeyValue(key, value))
					continue
				}
			}
		}
		out = append(out, line)
	}

	if !(blockStarted && blockEnded) {
		fm := []string{"---"}
		for _, key := range synthesizedKeyOrder {
			fm = append(fm, formatKeyValue(key, fields[key]))
		}
		fm = append(fm, "---", "")
		return strings.TrimRight(strings.Join(append(fm, lines...), "\n"), "\n") + "\n"
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n"
}

// formatKeyValue renders one front-matter line, quoting non-empty
// values.
func formatKeyValue(key, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return key + ":"
	}
	return key + ": " + quoteValue(value)
}

// quoteValue wraps a value in double quotes with embedded quotes
// escaped.
func quoteValue(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
}

// InjectPhoto inserts the image embed after the first photo-marker
// line. Inline-field markers keep the embed on the same line after the
// "::"; legacy single-colon markers are upgraded to inline style. An
// embed line already sitting under the marker is absorbed, so
// re-running the injection never duplicates it. Without any marker a
// new photo section is appended.
func InjectPhoto(text, embed string) string {
	lines := strings.Split(text, "\n")
	var out []string
	inserted := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !inserted && isPhotoMarker(line) {
			if strings.Contains(line, "::") {
				prefix := strings.SplitN(line, "::", 2)[0] + "::"
				out = append(out, prefix+" "+embed)
			} else {
				out = append(out, legacyColonRe.ReplaceAllString(line, "::")+" "+embed)
			}
			inserted = true

			// Absorb an embed a previous run left on the next line.
			if i+1 < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i+1]), "![[") {
				i++
			}
			continue
		}
		out = append(out, line)
	}

	if !inserted {
		out = append(out, "", "## 照片:: "+embed)
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n"
}

// isPhotoMarker recognizes both the heading and bare inline-field
// photo markers.
func isPhotoMarker(line string) bool {
	stripped := strings.TrimSpace(line)
	return strings.HasPrefix(stripped, "## 照片") ||
		strings.HasPrefix(stripped, "## 图片") ||
		strings.HasPrefix(stripped, "照片::") ||
		strings.HasPrefix(stripped, "图片::")
}
