package utils

import "strings"

// SplitMessage breaks text into chunks of at most limit characters,
// preferring blank-line paragraph boundaries, then word boundaries within an
// oversized paragraph. A single word longer than the limit is kept whole.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		pieces := []string{paragraph}
		if len(paragraph) > limit {
			pieces = splitWords(paragraph, limit)
		}

		for _, piece := range pieces {
			switch {
			case current.Len() == 0:
				current.WriteString(piece)
			case current.Len()+2+len(piece) <= limit:
				current.WriteString("\n\n")
				current.WriteString(piece)
			default:
				flush()
				current.WriteString(piece)
			}
		}
	}
	flush()

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

func splitWords(paragraph string, limit int) []string {
	var pieces []string
	var current strings.Builder

	for _, word := range strings.Fields(paragraph) {
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case current.Len()+1+len(word) <= limit:
			current.WriteString(" ")
			current.WriteString(word)
		default:
			pieces = append(pieces, current.String())
			current.Reset()
			current.WriteString(word)
		}
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}
