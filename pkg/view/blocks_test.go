package view

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBlocksModes(t *testing.T) {
	b := NewBlocks()

	b.Start("scripts")
	_, _ = b.WriteString("<b.js>")
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	b.Start("scripts", ModeAppend)
	_, _ = b.Write([]byte("<c.js>"))
	_ = b.End()
	b.Start("scripts", ModePrepend)
	_, _ = b.WriteString("<a.js>")
	_ = b.End()

	if got := b.Fetch("scripts"); got != "<a.js><b.js><c.js>" {
		t.Fatalf("scripts = %q", got)
	}

	b.Start("scripts")
	_, _ = b.WriteString("<only.js>")
	_ = b.End()
	if got := b.Fetch("scripts"); got != "<only.js>" {
		t.Fatalf("replace mode kept old content: %q", got)
	}

	b.Append("title", "Home")
	b.Prepend("title", "Site | ")
	b.Assign("count", 3)
	if got := b.Fetch("title"); got != "Site | Home" {
		t.Fatalf("title = %q", got)
	}
	if got := b.Fetch("count"); got != "3" {
		t.Fatalf("count = %q", got)
	}
}

func TestBlocksNesting(t *testing.T) {
	b := NewBlocks()
	b.Start("outer")
	_, _ = b.WriteString("[")
	b.Start("inner")
	_, _ = b.WriteString("inner")
	if diff := cmp.Diff([]string{"outer", "inner"}, b.Active()); diff != "" {
		t.Fatalf("active mismatch (-want +got):\n%s", diff)
	}
	_ = b.End()
	_, _ = b.WriteString("]")
	_ = b.End()

	if b.Fetch("outer") != "[]" || b.Fetch("inner") != "inner" {
		t.Fatalf("unexpected blocks: outer=%q inner=%q", b.Fetch("outer"), b.Fetch("inner"))
	}
	if len(b.Active()) != 0 {
		t.Fatalf("stack not empty: %v", b.Active())
	}
}

func TestBlocksUnopened(t *testing.T) {
	b := NewBlocks()
	if err := b.End(); !errors.Is(err, ErrUnopenedBlock) {
		t.Fatalf("End on empty stack = %v", err)
	}
	if _, err := b.WriteString("x"); !errors.Is(err, ErrUnopenedBlock) {
		t.Fatalf("write on empty stack = %v", err)
	}
}

func TestBlocksUnclosedDrainsThenReports(t *testing.T) {
	b := NewBlocks()
	if err := b.Unclosed(); err != nil {
		t.Fatalf("Unclosed on empty stack = %v", err)
	}

	b.Start("sidebar")
	_, _ = b.WriteString("menu")
	b.Start("footer")
	_, _ = b.WriteString("bye")

	err := b.Unclosed()
	if !errors.Is(err, ErrUnclosedBlock) {
		t.Fatalf("expected ErrUnclosedBlock, got %v", err)
	}
	if len(b.Active()) != 0 {
		t.Fatalf("stack not drained: %v", b.Active())
	}
	if b.Fetch("sidebar") != "menu" || b.Fetch("footer") != "bye" {
		t.Fatalf("drained content lost: %v", b.Keys())
	}
}

func TestBlocksFetchExistsReset(t *testing.T) {
	b := NewBlocks()
	if b.Exists("title") {
		t.Fatalf("unexpected block")
	}
	if got := b.Fetch("title", "Untitled"); got != "Untitled" {
		t.Fatalf("fallback = %q", got)
	}
	b.Assign("title", "Home")
	b.Reset("title")
	if !b.Exists("title") {
		t.Fatalf("reset must keep the block")
	}
	if got := b.Fetch("title", "Untitled"); got != "Untitled" {
		t.Fatalf("empty block should fall back, got %q", got)
	}
	if diff := cmp.Diff([]string{"title"}, b.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}
