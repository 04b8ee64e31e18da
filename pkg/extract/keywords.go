package extract

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"card-intake/pkg/utils"
)

// PhoneLabelSet routes phone-shaped numbers to a field by the keywords
// found on the same line. Order matters: the first category with a
// matching keyword wins.
type PhoneLabelSet struct {
	Field    string   `yaml:"field"`
	Keywords []string `yaml:"keywords"`
}

// Keywords holds the bilingual keyword tables driving name rejection
// and contact-field extraction. Each category is independently
// overridable from a YAML file, so tests and vault owners can
// substitute minimal or extended tables.
type Keywords struct {
	// Denylist rejects name candidates that look like company, role, or
	// contact-label text. Matched case-insensitively as substrings.
	Denylist []string `yaml:"denylist"`

	// NameStopTail is trimmed from the end of a Latin line before
	// tokenization. Matched exactly.
	NameStopTail []string `yaml:"name_stop_tail"`

	// PhoneLabels routes numbers to phone, mobile, or fax.
	PhoneLabels []PhoneLabelSet `yaml:"phone_labels"`

	// Address marks lines belonging to a postal address.
	Address []string `yaml:"address"`

	// Role marks job-title lines.
	Role []string `yaml:"role"`

	// RoleExclude disqualifies a role-keyword line that is really a
	// contact-detail line.
	RoleExclude []string `yaml:"role_exclude"`

	// Nationality marks country-name lines.
	Nationality []string `yaml:"nationality"`

	// CompanyBlocked disqualifies lines from being a company name.
	CompanyBlocked []string `yaml:"company_blocked"`
}

// DefaultKeywords returns the built-in bilingual tables
func DefaultKeywords() *Keywords {
	return &Keywords{
		Denylist: []string{
			"有限公司", "公司", "集团", "科技", "经理", "总监", "工程师", "顾问", "销售",
			"PHONE", "MOBILE", "FAX", "EMAIL", "ADDRESS", "SUITE", "ROAD", "ROW", "STREET",
			"INC", "LLC", "LTD", "COMPANY", "GROUP", "ENGINEER", "MANAGER", "DIRECTOR", "SALES",
		},
		NameStopTail: []string{"Phone", "Mobile", "Fax", "Email", "Tel", "Office", "Direct"},
		PhoneLabels: []PhoneLabelSet{
			{Field: "phone", Keywords: []string{"phone", "tel", "电话", "office", "直线"}},
			{Field: "mobile", Keywords: []string{"mobile", "cell", "手机"}},
			{Field: "fax", Keywords: []string{"fax", "传真"}},
		},
		Address: []string{
			"address", "suite", "road", "row", "street", "avenue", "blvd",
			"地址", "省", "市", "区",
		},
		Role: []string{
			"sales", "manager", "director", "engineer", "consultant",
			"president", "ceo", "经理", "总监", "工程师", "销售",
		},
		RoleExclude: []string{"phone", "mobile", "fax", "email", "address", "地址"},
		Nationality: []string{
			"usa", "canada", "mexico", "china", "japan", "korea",
			"德国", "法国", "中国", "美国",
		},
		CompanyBlocked: []string{
			"phone", "mobile", "fax", "address", "suite", "road", "row", "tel",
			"邮箱", "电话", "网址",
		},
	}
}

// LoadKeywords loads keyword tables from a YAML file. Categories
// present in the file replace the defaults; absent categories keep
// them.
func LoadKeywords(path string) (*Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to read keywords file")
	}

	keywords := DefaultKeywords()
	if err := yaml.Unmarshal(data, keywords); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeParse, "failed to parse keywords file")
	}
	return keywords, nil
}

// MatchesDenylist reports whether s contains any denylisted substring,
// case-insensitively.
func (k *Keywords) MatchesDenylist(s string) bool {
	return containsAnyFold(s, k.Denylist)
}

// containsAnyFold reports whether the upper-cased s contains any of
// the upper-cased keywords.
func containsAnyFold(s string, keywords []string) bool {
	up := strings.ToUpper(s)
	for _, keyword := range keywords {
		if strings.Contains(up, strings.ToUpper(keyword)) {
			return true
		}
	}
	return false
}

// containsAnyLower reports whether the lower-cased line contains any
// keyword (keywords are stored lower-case or script-neutral).
func containsAnyLower(line string, keywords []string) bool {
	low := strings.ToLower(line)
	for _, keyword := range keywords {
		if strings.Contains(low, keyword) {
			return true
		}
	}
	return false
}
