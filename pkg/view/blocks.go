package view

import (
	"fmt"
	"sort"
	"strings"
)

// Mode controls how a closed block merges into its stored content.
type Mode int

const (
	ModeReplace Mode = iota
	ModeAppend
	ModePrepend
)

// ContentBlock is the block a view's output is stored under before the
// layout renders.
const ContentBlock = "content"

type frame struct {
	name string
	mode Mode
	buf  strings.Builder
}

// Blocks is a named content store fed by a LIFO stack of open captures.
// While a block is open, writes go to the innermost one.
type Blocks struct {
	stack []*frame
	store map[string]string
}

// NewBlocks returns an empty block store.
func NewBlocks() *Blocks {
	return &Blocks{store: make(map[string]string)}
}

// Start opens a capture for name. The first mode given wins; replace is the
// default.
func (b *Blocks) Start(name string, mode ...Mode) {
	f := &frame{name: name, mode: ModeReplace}
	if len(mode) > 0 {
		f.mode = mode[0]
	}
	b.stack = append(b.stack, f)
}

// Write appends p to the innermost open block.
func (b *Blocks) Write(p []byte) (int, error) {
	f, ok := b.top()
	if !ok {
		return 0, ErrUnopenedBlock
	}
	return f.buf.Write(p)
}

// WriteString appends s to the innermost open block.
func (b *Blocks) WriteString(s string) (int, error) {
	f, ok := b.top()
	if !ok {
		return 0, ErrUnopenedBlock
	}
	return f.buf.WriteString(s)
}

// End closes the innermost block and merges its content.
func (b *Blocks) End() error {
	f, ok := b.top()
	if !ok {
		return ErrUnopenedBlock
	}
	b.stack = b.stack[:len(b.stack)-1]
	b.merge(f.name, f.buf.String(), f.mode)
	return nil
}

// Assign replaces the content of name.
func (b *Blocks) Assign(name string, content any) {
	b.store[name] = fmt.Sprint(content)
}

// Append adds content after the existing content of name.
func (b *Blocks) Append(name string, content any) {
	b.merge(name, fmt.Sprint(content), ModeAppend)
}

// Prepend adds content before the existing content of name.
func (b *Blocks) Prepend(name string, content any) {
	b.merge(name, fmt.Sprint(content), ModePrepend)
}

// Fetch returns the content of name, or the first fallback when the block is
// unset or empty.
func (b *Blocks) Fetch(name string, fallback ...string) string {
	if content := b.store[name]; content != "" {
		return content
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

// Exists reports whether name has been assigned, even if empty.
func (b *Blocks) Exists(name string) bool {
	_, ok := b.store[name]
	return ok
}

// Reset clears the content of name without removing it.
func (b *Blocks) Reset(name string) {
	b.store[name] = ""
}

// Keys returns the stored block names in sorted order.
func (b *Blocks) Keys() []string {
	keys := make([]string, 0, len(b.store))
	for key := range b.store {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Active returns the names of open blocks, innermost last.
func (b *Blocks) Active() []string {
	names := make([]string, len(b.stack))
	for i, f := range b.stack {
		names[i] = f.name
	}
	return names
}

// Unclosed force-closes every open block, merging what was captured, and
// reports ErrUnclosedBlock naming them. It returns nil when the stack is
// empty.
func (b *Blocks) Unclosed() error {
	if len(b.stack) == 0 {
		return nil
	}
	names := b.Active()
	for len(b.stack) > 0 {
		_ = b.End()
	}
	return fmt.Errorf("%w: %s", ErrUnclosedBlock, strings.Join(names, ", "))
}

func (b *Blocks) top() (*frame, bool) {
	if len(b.stack) == 0 {
		return nil, false
	}
	return b.stack[len(b.stack)-1], true
}

func (b *Blocks) merge(name, content string, mode Mode) {
	switch mode {
	case ModeAppend:
		b.store[name] += content
	case ModePrepend:
		b.store[name] = content + b.store[name]
	default:
		b.store[name] = content
	}
}
