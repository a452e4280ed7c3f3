package ui

import "github.com/piwi3910/BoardPlace/internal/export"

const defaultMaxDepth = 20

// Snapshot is a solution shown in the viewer.
type Snapshot struct {
	Report export.Report
	Label  string // Usually the file the solution was loaded from
}

// History keeps back/forward stacks of viewed solutions.
type History struct {
	backStack    []Snapshot
	forwardStack []Snapshot
	maxDepth     int
}

// NewHistory creates a History with the default max depth.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push records the snapshot being left when a new solution is opened and
// clears the forward stack.
func (h *History) Push(s Snapshot) {
	h.backStack = append(h.backStack, s)
	if len(h.backStack) > h.maxDepth {
		h.backStack = h.backStack[len(h.backStack)-h.maxDepth:]
	}
	h.forwardStack = nil
}

// Back returns the previously viewed snapshot and moves current onto the
// forward stack. It returns false when there is nothing to go back to.
func (h *History) Back(current Snapshot) (Snapshot, bool) {
	if len(h.backStack) == 0 {
		return Snapshot{}, false
	}
	last := h.backStack[len(h.backStack)-1]
	h.backStack = h.backStack[:len(h.backStack)-1]
	h.forwardStack = append(h.forwardStack, current)
	return last, true
}

// Forward is the inverse of Back.
func (h *History) Forward(current Snapshot) (Snapshot, bool) {
	if len(h.forwardStack) == 0 {
		return Snapshot{}, false
	}
	last := h.forwardStack[len(h.forwardStack)-1]
	h.forwardStack = h.forwardStack[:len(h.forwardStack)-1]
	h.backStack = append(h.backStack, current)
	return last, true
}

func (h *History) CanGoBack() bool {
	return len(h.backStack) > 0
}

func (h *History) CanGoForward() bool {
	return len(h.forwardStack) > 0
}

// Clear removes all history.
func (h *History) Clear() {
	h.backStack = nil
	h.forwardStack = nil
}
