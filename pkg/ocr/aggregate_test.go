package ocr

import (
	"testing"
)

func TestAggregateGroupsWordsIntoLines(t *testing.T) {
	words := []Word{
		{Block: 1, Par: 1, Line: 1, WordNum: 1, Left: 10, Height: 20, Conf: 90, Text: "Acme"},
		{Block: 1, Par: 1, Line: 1, WordNum: 2, Left: 80, Height: 24, Conf: 85, Text: "Corp"},
		{Block: 1, Par: 1, Line: 2, WordNum: 1, Left: 10, Height: 16, Conf: 70, Text: "John"},
		{Block: 1, Par: 1, Line: 2, WordNum: 2, Left: 60, Height: 16, Conf: 75, Text: "Smith"},
	}

	obs := Aggregate(words)
	if len(obs) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(obs))
	}
	if obs[0].Text != "Acme Corp" {
		t.Errorf("line 1 text = %q, want %q", obs[0].Text, "Acme Corp")
	}
	if obs[1].Text != "John Smith" {
		t.Errorf("line 2 text = %q, want %q", obs[1].Text, "John Smith")
	}
	if obs[0].BBoxHeight != 24 {
		t.Errorf("line 1 bbox height = %v, want 24", obs[0].BBoxHeight)
	}
}

func TestAggregateOrdersWordsByPosition(t *testing.T) {
	words := []Word{
		{Block: 1, Par: 1, Line: 1, WordNum: 2, Left: 100, Conf: 90, Text: "Smith"},
		{Block: 1, Par: 1, Line: 1, WordNum: 1, Left: 10, Conf: 90, Text: "John"},
	}

	obs := Aggregate(words)
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(obs))
	}
	if obs[0].Text != "John Smith" {
		t.Errorf("text = %q, want %q", obs[0].Text, "John Smith")
	}
}

func TestAggregateDropsLowConfidenceWords(t *testing.T) {
	words := []Word{
		{Block: 1, Par: 1, Line: 1, WordNum: 1, Left: 10, Conf: 90, Text: "Acme"},
		{Block: 1, Par: 1, Line: 1, WordNum: 2, Left: 80, Conf: 12, Text: "#$%"},
	}

	obs := Aggregate(words)
	if obs[0].Text != "Acme" {
		t.Errorf("text = %q, want low-confidence word dropped", obs[0].Text)
	}
}

func TestAggregateFallsBackWhenAllWordsFiltered(t *testing.T) {
	words := []Word{
		{Block: 1, Par: 1, Line: 1, WordNum: 1, Left: 10, Conf: 20, Text: "faint"},
		{Block: 1, Par: 1, Line: 1, WordNum: 2, Left: 80, Conf: 22, Text: "print"},
	}

	obs := Aggregate(words)
	if len(obs) != 1 || obs[0].Text != "faint print" {
		t.Fatalf("expected unfiltered fallback to keep the line, got %+v", obs)
	}
}

func TestAggregateConfidenceIsMeanOverKnownWords(t *testing.T) {
	words := []Word{
		{Block: 1, Par: 1, Line: 1, WordNum: 1, Left: 10, Conf: 90, Text: "a"},
		{Block: 1, Par: 1, Line: 1, WordNum: 2, Left: 50, Conf: 50, Text: "b"},
		{Block: 1, Par: 1, Line: 1, WordNum: 3, Left: 90, Conf: -1, Text: "c"},
	}

	obs := Aggregate(words)
	if obs[0].Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7 (negative conf excluded)", obs[0].Confidence)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	if obs := Aggregate(nil); len(obs) != 0 {
		t.Errorf("expected no observations, got %d", len(obs))
	}
}
