package note

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const syncTemplate = `---
type: person
company:
name:
email:
---

## 照片::

## 备注:: none
`

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "person.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTemplateStructure(t *testing.T) {
	tmpl, err := LoadTemplateStructure(writeTemplate(t, syncTemplate))
	if err != nil {
		t.Fatalf("LoadTemplateStructure: %v", err)
	}

	wantKeys := []string{"type", "company", "name", "email"}
	if len(tmpl.KeyOrder) != len(wantKeys) {
		t.Fatalf("key order = %v, want %v", tmpl.KeyOrder, wantKeys)
	}
	for i, key := range wantKeys {
		if tmpl.KeyOrder[i] != key {
			t.Errorf("key[%d] = %q, want %q", i, tmpl.KeyOrder[i], key)
		}
	}
	if tmpl.KeyValues["type"] != "person" {
		t.Errorf("type default = %q, want person", tmpl.KeyValues["type"])
	}

	if len(tmpl.InlineFields) != 2 {
		t.Fatalf("inline fields = %+v, want 2", tmpl.InlineFields)
	}
	if tmpl.InlineFields[0].Title != "照片" || tmpl.InlineFields[1].Default != "none" {
		t.Errorf("unexpected inline fields: %+v", tmpl.InlineFields)
	}
}

func TestLoadTemplateStructureRequiresFrontmatter(t *testing.T) {
	_, err := LoadTemplateStructure(writeTemplate(t, "no frontmatter\n"))
	if err == nil {
		t.Fatal("expected error for template without frontmatter")
	}
}

func TestParseFrontmatter(t *testing.T) {
	fm := ParseFrontmatter([]string{"---", "a: 1", "b:", "---", "body"})
	if fm == nil || fm.End != 3 || len(fm.Lines) != 2 {
		t.Fatalf("unexpected frontmatter: %+v", fm)
	}
	if ParseFrontmatter([]string{"body only"}) != nil {
		t.Error("expected nil without opening delimiter")
	}
	if ParseFrontmatter([]string{"---", "never closed"}) != nil {
		t.Error("expected nil without closing delimiter")
	}
}

func TestReorderFrontmatterKeepsValuesAndOrder(t *testing.T) {
	tmpl := &TemplateStructure{
		KeyOrder:  []string{"type", "company", "name"},
		KeyValues: map[string]string{"type": "person"},
	}
	original := []string{`name: "张伟"`, `company: "Acme"`}

	out := ReorderFrontmatter(original, tmpl, nil)
	want := []string{"type: person", `company: "Acme"`, `name: "张伟"`}
	if len(out) != len(want) {
		t.Fatalf("out = %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, out[i], want[i])
		}
	}
}

func TestReorderFrontmatterAppliesRenames(t *testing.T) {
	tmpl := &TemplateStructure{KeyOrder: []string{"company", "name"}}
	original := []string{`公司: "Acme"`, `name: "张伟"`}

	out := ReorderFrontmatter(original, tmpl, map[string]string{"公司": "company"})
	if out[0] != `company: "Acme"` {
		t.Errorf("renamed key lost its value: %v", out)
	}
}

func TestReorderFrontmatterRenameKeepsNonEmptyTarget(t *testing.T) {
	tmpl := &TemplateStructure{KeyOrder: []string{"company"}}
	original := []string{`company: "Kept"`, `公司: "Dropped"`}

	out := ReorderFrontmatter(original, tmpl, map[string]string{"公司": "company"})
	if out[0] != `company: "Kept"` {
		t.Errorf("existing value overwritten by rename: %v", out)
	}
}

func TestSyncInlineFieldsCollectsBlock(t *testing.T) {
	tmpl := &TemplateStructure{InlineFields: []InlineField{
		{Title: "照片"}, {Title: "备注", Default: "none"},
	}}
	body := []string{
		"intro",
		"## 照片:: ![[a.jpg]]",
		"outro",
	}

	out := SyncInlineFields(body, tmpl, nil)
	want := []string{"intro", "## 照片:: ![[a.jpg]]", "## 备注:: none", "outro"}
	if strings.Join(out, "|") != strings.Join(want, "|") {
		t.Errorf("out = %v, want %v", out, want)
	}
}

func TestSyncInlineFieldsAbsorbsLegacyShape(t *testing.T) {
	tmpl := &TemplateStructure{InlineFields: []InlineField{{Title: "照片"}}}
	body := []string{"## 照片:", "![[a.jpg]]", "rest"}

	out := SyncInlineFields(body, tmpl, nil)
	want := []string{"## 照片:: ![[a.jpg]]", "rest"}
	if strings.Join(out, "|") != strings.Join(want, "|") {
		t.Errorf("out = %v, want %v", out, want)
	}
}

func TestSyncInlineFieldsInsertsBeforeRule(t *testing.T) {
	tmpl := &TemplateStructure{InlineFields: []InlineField{{Title: "照片"}}}
	body := []string{"text", "---", "footer"}

	out := SyncInlineFields(body, tmpl, nil)
	want := []string{"text", "## 照片::", "---", "footer"}
	if strings.Join(out, "|") != strings.Join(want, "|") {
		t.Errorf("out = %v, want %v", out, want)
	}
}

func TestSyncNoteReportsChange(t *testing.T) {
	tmpl := &TemplateStructure{
		KeyOrder:     []string{"type", "name"},
		KeyValues:    map[string]string{"type": "person"},
		InlineFields: []InlineField{{Title: "照片"}},
	}
	content := "---\nname: \"张伟\"\n---\n## 照片:: ![[a.jpg]]\n"

	newText, changed := SyncNote(content, tmpl, nil, nil)
	if !changed {
		t.Fatal("expected change for note missing the type key")
	}
	if !strings.Contains(newText, "type: person") {
		t.Errorf("missing key not added:\n%s", newText)
	}

	again, changed := SyncNote(newText, tmpl, nil, nil)
	if changed {
		t.Errorf("sync not idempotent:\n%s\nvs\n%s", newText, again)
	}
}

func TestSyncNoteSkipsNotesWithoutFrontmatter(t *testing.T) {
	out, changed := SyncNote("plain note\n", &TemplateStructure{KeyOrder: []string{"a"}}, nil, nil)
	if changed || out != "plain note\n" {
		t.Errorf("note without frontmatter should be untouched, got %q changed=%v", out, changed)
	}
}

func TestParseRenamePairs(t *testing.T) {
	pairs, err := ParseRenamePairs([]string{"公司:company", "a : b"}, "--yaml-rename")
	if err != nil {
		t.Fatalf("ParseRenamePairs: %v", err)
	}
	if pairs["公司"] != "company" || pairs["a"] != "b" {
		t.Errorf("pairs = %v", pairs)
	}

	for _, bad := range []string{"noseparator", ":new", "old:"} {
		if _, err := ParseRenamePairs([]string{bad}, "--yaml-rename"); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestValidateRenamesRejectsUnknownTargets(t *testing.T) {
	tmpl := &TemplateStructure{
		KeyOrder:     []string{"company"},
		InlineFields: []InlineField{{Title: "照片"}},
	}

	if err := ValidateRenames(map[string]string{"公司": "company"}, nil, tmpl); err != nil {
		t.Errorf("valid yaml rename rejected: %v", err)
	}
	if err := ValidateRenames(map[string]string{"公司": "nope"}, nil, tmpl); err == nil {
		t.Error("unknown yaml target accepted")
	}
	if err := ValidateRenames(nil, map[string]string{"图片": "照片"}, tmpl); err != nil {
		t.Errorf("valid inline rename rejected: %v", err)
	}
	if err := ValidateRenames(nil, map[string]string{"图片": "nope"}, tmpl); err == nil {
		t.Error("unknown inline target accepted")
	}
}
