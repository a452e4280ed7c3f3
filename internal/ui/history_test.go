package ui

import (
	"fmt"
	"testing"
)

func snap(label string) Snapshot {
	return Snapshot{Label: label}
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanGoBack() {
		t.Error("new history should not go back")
	}
	if h.CanGoForward() {
		t.Error("new history should not go forward")
	}
}

func TestBackAndForward(t *testing.T) {
	h := NewHistory()
	h.Push(snap("first.json"))

	prev, ok := h.Back(snap("second.json"))
	if !ok {
		t.Fatal("back should succeed")
	}
	if prev.Label != "first.json" {
		t.Errorf("expected first.json, got %q", prev.Label)
	}
	if !h.CanGoForward() {
		t.Fatal("should be able to go forward after back")
	}

	next, ok := h.Forward(prev)
	if !ok {
		t.Fatal("forward should succeed")
	}
	if next.Label != "second.json" {
		t.Errorf("expected second.json, got %q", next.Label)
	}
	if !h.CanGoBack() || h.CanGoForward() {
		t.Error("expected back available and forward exhausted")
	}
}

func TestPushClearsForward(t *testing.T) {
	h := NewHistory()
	h.Push(snap("a"))
	if _, ok := h.Back(snap("b")); !ok {
		t.Fatal("back should succeed")
	}
	h.Push(snap("a"))

	if h.CanGoForward() {
		t.Error("push should clear the forward stack")
	}
}

func TestMaxDepth(t *testing.T) {
	h := NewHistory()
	for i := 0; i < defaultMaxDepth+5; i++ {
		h.Push(snap(fmt.Sprintf("s%d", i)))
	}
	if len(h.backStack) != defaultMaxDepth {
		t.Errorf("expected %d entries, got %d", defaultMaxDepth, len(h.backStack))
	}
	if h.backStack[0].Label != "s5" {
		t.Errorf("expected oldest entries dropped, first is %q", h.backStack[0].Label)
	}
}

func TestBackEmpty(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Back(snap("current")); ok {
		t.Error("back on empty history should fail")
	}
	if h.CanGoForward() {
		t.Error("failed back must not touch the forward stack")
	}
}

func TestForwardEmpty(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Forward(snap("current")); ok {
		t.Error("forward on empty history should fail")
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(snap("a"))
	h.Push(snap("b"))
	_, _ = h.Back(snap("c"))

	h.Clear()

	if h.CanGoBack() || h.CanGoForward() {
		t.Error("clear should empty both stacks")
	}
}
