package extract

import (
	"regexp"
	"strings"

	"card-intake/pkg/constants"
	"card-intake/pkg/types"
)

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	webRe      = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?[A-Za-z0-9.-]+\.(?:com|net|org|cn|co|io|biz|us)`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`)
	zipRe      = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
	digitRe    = regexp.MustCompile(`\d`)
	companyBad = regexp.MustCompile(`@|\d{3,}`)
)

// CollectLines compacts observation texts into a deduplicated ordered
// line list for field extraction.
func CollectLines(observations []types.Observation) []string {
	var lines []string
	seen := make(map[string]bool)
	for _, obs := range observations {
		text := strings.TrimSpace(spaceRunsRe.ReplaceAllString(obs.Text, " "))
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		lines = append(lines, text)
	}
	return lines
}

// ContactFields extracts the contact attributes from the ordered line
// list. Rules run in a fixed order so later rules see already-filled
// fields and never overwrite them; every rule skips gracefully when
// nothing matches. The function never fails.
func ContactFields(lines []string, personName string, keywords *Keywords) types.FieldSet {
	fields := types.NewFieldSet(personName)
	joined := strings.Join(lines, "\n")

	fillEmail(fields, joined)
	fillWeb(fields, joined)
	fillPhoneFamily(fields, lines, keywords)
	fillAddress(fields, lines, keywords)
	fillRole(fields, lines, keywords)
	fillNationality(fields, lines, keywords)
	fillCompany(fields, lines, personName, keywords)

	return fields
}

// fillEmail takes the first email-shaped match across the whole text
func fillEmail(fields types.FieldSet, joined string) {
	if email := emailRe.FindString(joined); email != "" {
		fields[types.FieldEmail] = email
	}
}

// fillWeb takes the first bare or prefixed domain, unless it is just
// the domain suffix of the already-found email.
func fillWeb(fields types.FieldSet, joined string) {
	web := webRe.FindString(joined)
	if web == "" {
		return
	}
	email := fields[types.FieldEmail]
	if email != "" && strings.HasSuffix(strings.ToLower(email), strings.ToLower(web)) {
		return
	}
	fields[types.FieldWeb] = web
}

// fillPhoneFamily routes phone-shaped numbers to phone, mobile, or fax
// by keyword labels found on the same line, defaulting to phone. The
// first match per field wins; later matches are discarded.
func fillPhoneFamily(fields types.FieldSet, lines []string, keywords *Keywords) {
	for _, line := range lines {
		numbers := phoneRe.FindAllString(line, -1)
		if len(numbers) == 0 {
			continue
		}

		target := types.FieldPhone
		for _, labelSet := range keywords.PhoneLabels {
			if containsAnyLower(line, labelSet.Keywords) {
				target = labelSet.Field
				break
			}
		}

		for _, number := range numbers {
			if fields[target] == "" {
				fields[target] = normalizePhone(number)
			}
		}
	}
}

// fillAddress joins the first matching address-keyword lines; when no
// keyword line exists, a line with a 5-digit (optionally +4) postal
// code is used instead.
func fillAddress(fields types.FieldSet, lines []string, keywords *Keywords) {
	var matches []string
	for _, line := range lines {
		if containsAnyLower(line, keywords.Address) {
			matches = append(matches, line)
			if len(matches) == constants.AddressMaxLines {
				break
			}
		}
	}
	if len(matches) > 0 {
		fields[types.FieldAddress] = strings.Join(matches, constants.AddressJoinSeparator)
		return
	}

	for _, line := range lines {
		if zipRe.MatchString(line) {
			fields[types.FieldAddress] = line
			return
		}
	}
}

// fillRole takes the first role-keyword line that is not itself a
// contact-detail line.
func fillRole(fields types.FieldSet, lines []string, keywords *Keywords) {
	for _, line := range lines {
		if containsAnyLower(line, keywords.Role) && !containsAnyLower(line, keywords.RoleExclude) {
			fields[types.FieldRole] = line
			return
		}
	}
}

// fillNationality takes the first country-keyword line that carries no
// digits, email, or URL.
func fillNationality(fields types.FieldSet, lines []string, keywords *Keywords) {
	for _, line := range lines {
		low := strings.ToLower(line)
		if strings.Contains(low, "@") || strings.Contains(low, "http") || digitRe.MatchString(low) {
			continue
		}
		if containsAnyLower(line, keywords.Nationality) {
			fields[types.FieldNationality] = line
			return
		}
	}
}

// fillCompany scans the leading lines for the first plausible company
// name: not the person, not the email, no long digit run or '@', no
// contact label, and long enough to mean something.
func fillCompany(fields types.FieldSet, lines []string, personName string, keywords *Keywords) {
	limit := constants.CompanyScanLines
	if len(lines) < limit {
		limit = len(lines)
	}

	for _, line := range lines[:limit] {
		if maybeCompany(line, personName, fields[types.FieldEmail], keywords) {
			fields[types.FieldCompany] = line
			return
		}
	}
}

func maybeCompany(line, personName, email string, keywords *Keywords) bool {
	low := strings.ToLower(line)
	if personName != "" && strings.Contains(low, strings.ToLower(personName)) {
		return false
	}
	if email != "" && strings.Contains(low, strings.ToLower(email)) {
		return false
	}
	if companyBad.MatchString(line) {
		return false
	}
	if containsAnyLower(line, keywords.CompanyBlocked) {
		return false
	}
	return len([]rune(line)) >= constants.MinCompanyLineLength
}

// normalizePhone collapses whitespace runs inside a captured number
func normalizePhone(number string) string {
	return strings.TrimSpace(spaceRunsRe.ReplaceAllString(number, " "))
}
