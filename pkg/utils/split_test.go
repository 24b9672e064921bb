package utils

import (
	"strings"
	"testing"
)

func TestSplitMessageShortTextPassesThrough(t *testing.T) {
	got := SplitMessage("hello", 100)
	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("SplitMessage = %v, want the text untouched", got)
	}
}

func TestSplitMessageZeroLimitPassesThrough(t *testing.T) {
	got := SplitMessage("hello there", 0)
	if len(got) != 1 || got[0] != "hello there" {
		t.Errorf("SplitMessage = %v, want the text untouched", got)
	}
}

func TestSplitMessagePrefersParagraphBoundaries(t *testing.T) {
	first := strings.Repeat("a", 30)
	second := strings.Repeat("b", 30)
	third := strings.Repeat("c", 30)
	text := first + "\n\n" + second + "\n\n" + third

	got := SplitMessage(text, 65)
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2: %v", len(got), got)
	}
	if got[0] != first+"\n\n"+second {
		t.Errorf("first chunk = %q, want the first two paragraphs together", got[0])
	}
	if got[1] != third {
		t.Errorf("second chunk = %q, want the last paragraph alone", got[1])
	}
}

func TestSplitMessageBreaksLongParagraphAtWords(t *testing.T) {
	text := "one two three four five six seven eight nine ten"

	got := SplitMessage(text, 20)
	if len(got) < 2 {
		t.Fatalf("got %d chunks, want several: %v", len(got), got)
	}
	for _, chunk := range got {
		if len(chunk) > 20 {
			t.Errorf("chunk %q exceeds the limit", chunk)
		}
	}
	if strings.Join(strings.Fields(strings.Join(got, " ")), " ") != text {
		t.Errorf("chunks %v lose or reorder words", got)
	}
}

func TestSplitMessageNeverBreaksAWord(t *testing.T) {
	long := strings.Repeat("x", 40)
	got := SplitMessage("short "+long+" tail", 20)

	found := false
	for _, chunk := range got {
		if strings.Contains(chunk, long) {
			found = true
		}
	}
	if !found {
		t.Errorf("oversized word was broken apart: %v", got)
	}
}
