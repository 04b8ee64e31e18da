package extract

import (
	"fmt"
	"regexp"
	"strings"

	"card-intake/pkg/constants"
	"card-intake/pkg/types"
)

var (
	cjkRe    = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)
	cjkRunRe = regexp.MustCompile(fmt.Sprintf(`[\x{4e00}-\x{9fff}]{%d,%d}`,
		constants.MinChineseNameRunes, constants.MaxChineseNameRunes))

	nonNameCharsRe = regexp.MustCompile(`[^A-Za-z .'-]`)
	spaceRunsRe    = regexp.MustCompile(`\s+`)

	// Latin name token shapes: Capitalized word (with optional hyphen
	// or apostrophe part), ALLCAPS acronym, or a single initial.
	capitalizedRe = regexp.MustCompile(`^[A-Z][a-z]+(?:[-'][A-Za-z]+)?$`)
	acronymRe     = regexp.MustCompile(`^[A-Z]{2,}$`)
	initialRe     = regexp.MustCompile(`^[A-Z]\.?,?$`)
)

type candidate struct {
	name  string
	conf  float64
	bboxH float64
	score float64
}

// PickName chooses the single best person-name candidate across all
// observation lines. Lines with any CJK character go to the Chinese
// track, the rest to the Latin track; a Chinese candidate always
// outranks a Latin one through the score base constant. Scoring, not
// arrival order, breaks ties, so the result is stable under input
// reordering; equal scores keep the first-seen candidate.
func PickName(observations []types.Observation, keywords *Keywords) types.NamePick {
	var bestChinese, bestEnglish *candidate

	for _, obs := range observations {
		line := strings.TrimSpace(obs.Text)
		if line == "" {
			continue
		}

		if cjkRe.MatchString(line) {
			name := extractChineseName(line, keywords)
			if name == "" {
				continue
			}
			score := constants.ChineseNameScoreBase + obs.BBoxHeight + obs.Confidence*constants.ConfidenceWeight
			if bestChinese == nil || score > bestChinese.score {
				bestChinese = &candidate{name, obs.Confidence, obs.BBoxHeight, score}
			}
			continue
		}

		name := extractEnglishName(line, keywords)
		if name == "" {
			continue
		}
		quality := englishNameQuality(name)
		score := float64(quality)*constants.EnglishQualityWeight + obs.BBoxHeight + obs.Confidence*constants.ConfidenceWeight
		if bestEnglish == nil || score > bestEnglish.score {
			bestEnglish = &candidate{name, obs.Confidence, obs.BBoxHeight, score}
		}
	}

	if bestChinese != nil {
		return types.NamePick{
			Name:       bestChinese.name,
			Method:     types.NameMethodChinese,
			Confidence: bestChinese.conf,
			BBoxHeight: bestChinese.bboxH,
		}
	}
	if bestEnglish != nil {
		return types.NamePick{
			Name:       bestEnglish.name,
			Method:     types.NameMethodEnglish,
			Confidence: bestEnglish.conf,
			BBoxHeight: bestEnglish.bboxH,
		}
	}
	return types.NamePick{Method: types.NameMethodNone}
}

// extractChineseName pulls the best CJK name run from a line. Runs
// containing denylisted company/role/label text are rejected; among
// the survivors the shortest wins — names are short, longer runs are
// usually two concatenated words or a title.
func extractChineseName(text string, keywords *Keywords) string {
	runs := cjkRunRe.FindAllString(text, -1)

	best := ""
	bestLen := 0
	for _, run := range runs {
		if keywords.MatchesDenylist(run) {
			continue
		}
		length := len([]rune(run))
		if best == "" || length < bestLen {
			best = run
			bestLen = length
		}
	}
	return best
}

// extractEnglishName pulls a Latin name candidate from a line: strip
// non-name characters, drop a trailing stoplist tail, then greedily
// take leading name-shaped tokens. At least two tokens are required.
func extractEnglishName(text string, keywords *Keywords) string {
	cleaned := nonNameCharsRe.ReplaceAllString(text, " ")
	cleaned = strings.TrimSpace(spaceRunsRe.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return ""
	}

	words := strings.Split(cleaned, " ")
	for len(words) > 0 && isStopWord(words[len(words)-1], keywords) {
		words = words[:len(words)-1]
	}

	var tokens []string
	for _, word := range words {
		if isStopWord(word, keywords) || !isNameToken(word) {
			break
		}
		tokens = append(tokens, strings.TrimRight(word, ","))
		if len(tokens) >= constants.MaxEnglishNameTokens {
			break
		}
	}
	if len(tokens) < 2 {
		return ""
	}

	name := strings.Join(tokens, " ")
	if keywords.MatchesDenylist(name) {
		return ""
	}
	return name
}

// englishNameQuality scores a Latin candidate by token count
func englishNameQuality(name string) int {
	count := len(strings.Fields(name))
	switch count {
	case 2:
		return constants.EnglishQualityTwoTokens
	case 3:
		return constants.EnglishQualityThreeTokens
	default:
		return 0
	}
}

func isNameToken(word string) bool {
	return capitalizedRe.MatchString(word) ||
		acronymRe.MatchString(word) ||
		initialRe.MatchString(word)
}

func isStopWord(word string, keywords *Keywords) bool {
	for _, stop := range keywords.NameStopTail {
		if word == stop {
			return true
		}
	}
	return false
}
