package translate

import (
	"fmt"
	"sync"
)

// History accumulates the dialogue already translated on a page.
// It is safe for concurrent use.
type History struct {
	mu    sync.Mutex
	lines []string
	limit int
}

// NewHistory creates a history that keeps at most limit entries; zero or
// negative keeps everything.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Add records a translated line.
func (h *History) Add(source, translated string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lines = append(h.lines, fmt.Sprintf("%s => %s", source, translated))
	if h.limit > 0 && len(h.lines) > h.limit {
		h.lines = h.lines[len(h.lines)-h.limit:]
	}
}

// Lines returns a copy of the recorded entries, oldest first.
func (h *History) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lines)
}

// Reset clears the history, e.g. between pages.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lines = nil
}
