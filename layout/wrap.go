package layout

import (
	"strings"
)

// splitParagraphs splits text by hard line breaks.
func splitParagraphs(text string) []string {
	// Normalize line endings
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return strings.Split(text, "\n")
}

// wrapText breaks text into lines no wider than maxWidth at the given size.
// Hard line breaks always start a new line and blank paragraphs produce
// empty lines. Words are joined with a single space; a word wider than
// maxWidth on its own is split into maximal character chunks.
func wrapText(text string, size int, maxWidth float64, m *memo) ([]string, error) {
	paragraphs := splitParagraphs(text)
	lines := make([]string, 0, len(paragraphs))

	for _, para := range paragraphs {
		paraLines, err := wrapParagraph(para, size, maxWidth, m)
		if err != nil {
			return nil, err
		}
		lines = append(lines, paraLines...)
	}
	return lines, nil
}

// wrapParagraph wraps a single paragraph (no hard line breaks).
func wrapParagraph(para string, size int, maxWidth float64, m *memo) ([]string, error) {
	words := strings.Fields(para)
	if len(words) == 0 {
		// Empty paragraph still produces a line
		return []string{""}, nil
	}

	var lines []string
	var current string
	open := false

	// startLine begins a new line with word, splitting it if it is too wide
	startLine := func(word string) error {
		w, err := m.width(word, size)
		if err != nil {
			return err
		}
		if w <= maxWidth {
			current, open = word, true
			return nil
		}
		chunks, err := splitWord(word, size, maxWidth, m)
		if err != nil {
			return err
		}
		lines = append(lines, chunks[:len(chunks)-1]...)
		current, open = chunks[len(chunks)-1], true
		return nil
	}

	for _, word := range words {
		if !open {
			if err := startLine(word); err != nil {
				return nil, err
			}
			continue
		}

		candidate := current + " " + word
		w, err := m.width(candidate, size)
		if err != nil {
			return nil, err
		}
		if w <= maxWidth {
			current = candidate
			continue
		}

		lines = append(lines, current)
		if err := startLine(word); err != nil {
			return nil, err
		}
	}

	if open {
		lines = append(lines, current)
	}
	return lines, nil
}

// splitWord cuts word into chunks that are each as long as possible while
// staying within maxWidth. Every chunk holds at least one rune, so a single
// glyph wider than maxWidth still makes progress.
func splitWord(word string, size int, maxWidth float64, m *memo) ([]string, error) {
	runes := []rune(word)
	var chunks []string
	start := 0

	for start < len(runes) {
		end := start + 1
		for end < len(runes) {
			w, err := m.width(string(runes[start:end+1]), size)
			if err != nil {
				return nil, err
			}
			if w > maxWidth {
				break
			}
			end++
		}
		chunks = append(chunks, string(runes[start:end]))
		start = end
	}
	return chunks, nil
}
