// Package tui provides a Bubble Tea inspector for compiling and comparing
// triggers interactively.
package tui

// History is a fixed-size ring of submitted lines with cursor navigation.
type History struct {
	ring   []string
	start  int // index of the oldest entry
	n      int
	cursor int // -1 = not navigating, else 0..n-1 counted from the oldest
}

// NewHistory creates a history holding at most size entries.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{ring: make([]string, size), cursor: -1}
}

// Len returns the number of stored entries.
func (h *History) Len() int { return h.n }

func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Push records a line. Repeating the newest entry is a no-op; when full the
// oldest entry is overwritten.
func (h *History) Push(line string) {
	if h.n > 0 && h.at(h.n-1) == line {
		return
	}
	if h.n < len(h.ring) {
		h.ring[(h.start+h.n)%len(h.ring)] = line
		h.n++
		return
	}
	h.ring[h.start] = line
	h.start = (h.start + 1) % len(h.ring)
}

// Prev moves toward older entries, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if h.n == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = h.n - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next moves toward newer entries. Past the newest it returns false and
// stops navigating.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.n {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor stops navigating.
func (h *History) ResetCursor() {
	h.cursor = -1
}
