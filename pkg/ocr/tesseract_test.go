package ocr

import (
	"errors"
	"strings"
	"testing"

	"card-intake/pkg/utils"
)

const tsvHeader = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext"

func tsvRow(cols ...string) string {
	return strings.Join(cols, "\t")
}

func TestParseTSVExtractsWordRows(t *testing.T) {
	output := strings.Join([]string{
		tsvHeader,
		tsvRow("1", "1", "0", "0", "0", "0", "0", "0", "600", "400", "-1", ""),
		tsvRow("4", "1", "1", "1", "1", "0", "10", "10", "200", "30", "-1", ""),
		tsvRow("5", "1", "1", "1", "1", "1", "10", "10", "80", "28", "91.5", "Acme"),
		tsvRow("5", "1", "1", "1", "1", "2", "100", "10", "80", "30", "88.2", "Corp"),
	}, "\n")

	words, err := ParseTSV(output)
	if err != nil {
		t.Fatalf("ParseTSV: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 word rows, got %d", len(words))
	}
	if words[0].Text != "Acme" || words[0].Conf != 91.5 || words[0].Height != 28 {
		t.Errorf("unexpected first word: %+v", words[0])
	}
	if words[1].Left != 100 || words[1].WordNum != 2 {
		t.Errorf("unexpected second word: %+v", words[1])
	}
}

func TestParseTSVSkipsMalformedRows(t *testing.T) {
	output := strings.Join([]string{
		tsvHeader,
		tsvRow("5", "1", "x", "1", "1", "1", "10", "10", "80", "28", "90", "bad"),
		tsvRow("5", "1", "1", "1", "1", "1", "10", "10", "80", "28", "90", "  "),
		tsvRow("5", "1", "1", "1", "1", "1", "10", "10", "80", "28", "90", "good"),
	}, "\n")

	words, err := ParseTSV(output)
	if err != nil {
		t.Fatalf("ParseTSV: %v", err)
	}
	if len(words) != 1 || words[0].Text != "good" {
		t.Fatalf("expected only the well-formed row, got %+v", words)
	}
}

func TestParseTSVRejectsUnknownTableShape(t *testing.T) {
	_, err := ParseTSV("foo\tbar\n1\t2\n")
	if err == nil {
		t.Fatal("expected parse error for missing columns")
	}
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Type != utils.ErrorTypeParse {
		t.Errorf("expected parse error type, got %v", err)
	}
	if !utils.IsCardRecoverable(err) {
		t.Error("parse errors should be recoverable per card")
	}
}

func TestParseTSVEmptyOutput(t *testing.T) {
	words, err := ParseTSV("")
	if err != nil || words != nil {
		t.Fatalf("expected nil, nil for empty output, got %v, %v", words, err)
	}
}
