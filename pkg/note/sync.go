package note

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"card-intake/pkg/utils"
)

var (
	inlineFieldRe = regexp.MustCompile(`^\s*##\s*(.+?)\s*::\s*(.*?)\s*$`)
	legacyFieldRe = regexp.MustCompile(`^\s*##\s*(.+?)\s*:\s*$`)
)

// Frontmatter is a parsed front-matter block. End is the line index of
// the closing delimiter and Lines the content between the delimiters.
type Frontmatter struct {
	End   int
	Lines []string
}

// InlineField is one "## 标题:: value" field declared by the template
// body, with its default value.
type InlineField struct {
	Title   string
	Default string
}

// TemplateStructure is the structural contract a people note is synced
// against: the template's front-matter key order and defaults, plus its
// inline fields.
type TemplateStructure struct {
	KeyOrder     []string
	KeyValues    map[string]string
	InlineFields []InlineField
}

// ParseFrontmatter returns the front-matter block opened by "---" on
// the first line, or nil when the note has none.
func ParseFrontmatter(lines []string) *Frontmatter {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return &Frontmatter{End: i, Lines: lines[1:i]}
		}
	}
	return nil
}

// ParseKeyValues extracts "key: value" pairs from front-matter lines,
// keeping first-seen key order. Lines without a colon are skipped.
func ParseKeyValues(fmLines []string) ([]string, map[string]string) {
	var order []string
	values := make(map[string]string)
	for _, raw := range fmLines {
		m := fmKeyValueRe.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		key := strings.TrimSpace(m[1])
		order = append(order, key)
		values[key] = strings.TrimSpace(m[2])
	}
	return order, values
}

// LoadTemplateStructure reads the template and extracts the structure
// notes are synced against. A template without front-matter is a
// validation error.
func LoadTemplateStructure(path string) (*TemplateStructure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.NewIOError(fmt.Sprintf("failed to read template: %s", path), err)
	}
	lines := strings.Split(string(data), "\n")
	fm := ParseFrontmatter(lines)
	if fm == nil {
		return nil, utils.NewValidationError(fmt.Sprintf("template frontmatter not found: %s", path), nil)
	}

	order, values := ParseKeyValues(fm.Lines)
	var fields []InlineField
	for _, line := range lines[fm.End+1:] {
		m := inlineFieldRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fields = append(fields, InlineField{
			Title:   strings.TrimSpace(m[1]),
			Default: strings.TrimSpace(m[2]),
		})
	}
	return &TemplateStructure{KeyOrder: order, KeyValues: values, InlineFields: fields}, nil
}

// ParseRenamePairs parses repeated "old:new" flag values into a rename
// map.
func ParseRenamePairs(items []string, flagName string) (map[string]string, error) {
	mapping := make(map[string]string)
	for _, item := range items {
		old, new, found := strings.Cut(item, ":")
		old = strings.TrimSpace(old)
		new = strings.TrimSpace(new)
		if !found || old == "" || new == "" {
			return nil, utils.NewValidationError(
				fmt.Sprintf("invalid %s pair '%s', expected old:new", flagName, item), nil)
		}
		mapping[old] = new
	}
	return mapping, nil
}

// ValidateRenames checks that every rename target exists in the
// template, so a typo cannot silently strip fields from every note.
func ValidateRenames(yamlRenames, inlineRenames map[string]string, tmpl *TemplateStructure) error {
	keySet := make(map[string]bool, len(tmpl.KeyOrder))
	for _, key := range tmpl.KeyOrder {
		keySet[key] = true
	}
	for _, target := range sortedValues(yamlRenames) {
		if !keySet[target] {
			return utils.NewValidationError(fmt.Sprintf(
				"--yaml-rename target '%s' not found in template YAML keys: %s",
				target, strings.Join(tmpl.KeyOrder, ", ")), nil)
		}
	}

	titleSet := make(map[string]bool, len(tmpl.InlineFields))
	titles := make([]string, 0, len(tmpl.InlineFields))
	for _, field := range tmpl.InlineFields {
		titleSet[field.Title] = true
		titles = append(titles, field.Title)
	}
	for _, target := range sortedValues(inlineRenames) {
		if !titleSet[target] {
			return utils.NewValidationError(fmt.Sprintf(
				"--inline-rename target '%s' not found in template inline fields: %s",
				target, strings.Join(titles, ", ")), nil)
		}
	}
	return nil
}

// sortedValues returns map values in deterministic order for stable
// error messages.
func sortedValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(m))
	for _, k := range keys {
		values = append(values, m[k])
	}
	return values
}

// ReorderFrontmatter rewrites a note's front-matter to the template's
// key order. Existing values survive reordering and renames; keys the
// note lacks pick up the template default. When a rename collides with
// a key that already holds a non-empty value, that value wins.
func ReorderFrontmatter(originalFM []string, tmpl *TemplateStructure, yamlRenames map[string]string) []string {
	oldOrder, oldValues := ParseKeyValues(originalFM)
	if len(yamlRenames) > 0 {
		renamedValues := make(map[string]string)
		for _, key := range oldOrder {
			target := key
			if t, ok := yamlRenames[key]; ok {
				target = t
			}
			if existing, seen := renamedValues[target]; seen && existing != "" {
				continue
			}
			renamedValues[target] = oldValues[key]
		}
		oldValues = renamedValues
	}

	out := make([]string, 0, len(tmpl.KeyOrder))
	for _, key := range tmpl.KeyOrder {
		value, ok := oldValues[key]
		if !ok {
			value = tmpl.KeyValues[key]
		}
		if value == "" {
			out = append(out, key+":")
		} else {
			out = append(out, key+": "+value)
		}
	}
	return out
}

// SyncInlineFields collects the note body's inline fields (including
// legacy "## 标题:" lines with the embed on the following line),
// applies renames, and re-emits them as one block in template order at
// the position of the first original field. Notes without any field
// get the block before the first horizontal rule, or appended.
func SyncInlineFields(body []string, tmpl *TemplateStructure, inlineRenames map[string]string) []string {
	if len(tmpl.InlineFields) == 0 {
		return body
	}

	existing := make(map[string]string)
	var kept []string
	insertPos := -1

	for i := 0; i < len(body); i++ {
		line := body[i]
		if m := inlineFieldRe.FindStringSubmatch(line); m != nil {
			if insertPos < 0 {
				insertPos = len(kept)
			}
			title := renameTitle(strings.TrimSpace(m[1]), inlineRenames)
			existing[title] = strings.TrimSpace(m[2])
			continue
		}

		if m := legacyFieldRe.FindStringSubmatch(line); m != nil {
			if insertPos < 0 {
				insertPos = len(kept)
			}
			title := renameTitle(strings.TrimSpace(m[1]), inlineRenames)
			value := ""
			if i+1 < len(body) {
				next := strings.TrimSpace(body[i+1])
				if strings.HasPrefix(next, "![[") && strings.HasSuffix(next, "]]") {
					value = next
					i++
				}
			}
			existing[title] = value
			continue
		}

		kept = append(kept, line)
	}

	synced := make([]string, 0, len(tmpl.InlineFields))
	for _, field := range tmpl.InlineFields {
		value, ok := existing[field.Title]
		if !ok {
			value = field.Default
		}
		synced = append(synced, strings.TrimRight("## "+field.Title+":: "+value, " "))
	}

	if insertPos < 0 {
		for idx, line := range kept {
			if strings.TrimSpace(line) == "---" {
				insertPos = idx
				break
			}
		}
	}
	if insertPos < 0 {
		insertPos = len(kept)
	}

	out := make([]string, 0, len(kept)+len(synced))
	out = append(out, kept[:insertPos]...)
	out = append(out, synced...)
	out = append(out, kept[insertPos:]...)
	return out
}

// renameTitle applies an inline-field rename if one is configured.
func renameTitle(title string, renames map[string]string) string {
	if target, ok := renames[title]; ok {
		return target
	}
	return title
}

// SyncNote rebuilds one note's front-matter and inline fields to match
// the template structure. It returns the new content and whether it
// differs from the original. Notes without front-matter are left
// alone.
func SyncNote(content string, tmpl *TemplateStructure, yamlRenames, inlineRenames map[string]string) (string, bool) {
	lines := strings.Split(content, "\n")
	fm := ParseFrontmatter(lines)
	if fm == nil {
		return content, false
	}

	newFM := ReorderFrontmatter(fm.Lines, tmpl, yamlRenames)
	newBody := SyncInlineFields(lines[fm.End+1:], tmpl, inlineRenames)

	rebuilt := make([]string, 0, len(newFM)+len(newBody)+2)
	rebuilt = append(rebuilt, "---")
	rebuilt = append(rebuilt, newFM...)
	rebuilt = append(rebuilt, "---")
	rebuilt = append(rebuilt, newBody...)

	newText := strings.TrimRight(strings.Join(rebuilt, "\n"), "\n") + "\n"
	return newText, newText != content
}
