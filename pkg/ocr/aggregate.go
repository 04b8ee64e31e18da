package ocr

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"card-intake/pkg/constants"
	"card-intake/pkg/types"
)

// Word is one word-level OCR token tagged with its layout position
type Word struct {
	Block   int
	Par     int
	Line    int
	WordNum int
	Left    int
	Height  float64
	Conf    float64 // raw confidence, 0-100; negative means unknown
	Text    string
}

type lineKey struct {
	block, par, line int
}

// Aggregate clusters word tokens into per-line observations. Words
// sharing a (block, paragraph, line) layout key form one line, ordered
// by horizontal position. Words below the confidence threshold are
// dropped, unless dropping would empty the line, in which case the
// unfiltered join is used — one low-confidence glitch must not blank
// an otherwise readable line.
func Aggregate(words []Word) []types.Observation {
	groups := make(map[lineKey][]Word)
	var order []lineKey
	for _, w := range words {
		key := lineKey{w.Block, w.Par, w.Line}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], w)
	}

	var observations []types.Observation
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Left+group[i].WordNum < group[j].Left+group[j].WordNum
		})

		var kept []string
		for _, w := range group {
			if w.Conf >= constants.MinWordConfidence {
				kept = append(kept, w.Text)
			}
		}
		text := strings.TrimSpace(strings.Join(kept, " "))
		if text == "" {
			all := make([]string, 0, len(group))
			for _, w := range group {
				all = append(all, w.Text)
			}
			text = strings.TrimSpace(strings.Join(all, " "))
		}
		if text == "" {
			continue
		}

		var maxHeight float64
		var confSum float64
		confCount := 0
		for _, w := range group {
			if w.Height > maxHeight {
				maxHeight = w.Height
			}
			if w.Conf >= 0 {
				confSum += w.Conf
				confCount++
			}
		}
		confidence := 0.0
		if confCount > 0 {
			confidence = confSum / float64(confCount) / 100.0
		}

		observations = append(observations, types.Observation{
			Text:       norm.NFC.String(text),
			Confidence: confidence,
			BBoxHeight: maxHeight,
		})
	}
	return observations
}
