package document

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process document. Every mutation bumps the version; the
// snapshot for the current version is built once and cached.
type Memory struct {
	mu       sync.RWMutex
	version  uint64
	contents Contents
	cached   *Snapshot
	err      error
}

// NewMemory returns a document at version 1 holding c.
func NewMemory(c Contents) *Memory {
	return &Memory{version: 1, contents: c}
}

func (m *Memory) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

func (m *Memory) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDocument, m.err)
	}
	if m.cached != nil && m.cached.Version() == m.version {
		return m.cached, nil
	}
	snap, err := NewSnapshot(m.version, m.contents)
	if err != nil {
		return nil, err
	}
	m.cached = snap
	return snap, nil
}

// Update applies fn to the contents and bumps the version.
func (m *Memory) Update(fn func(*Contents)) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.contents)
	m.version++
	return m.version
}

func (m *Memory) AddSymbol(sym Symbol) uint64 {
	return m.Update(func(c *Contents) { c.Symbols = append(c.Symbols, sym) })
}

func (m *Memory) AddXRef(x XRef) uint64 {
	return m.Update(func(c *Contents) { c.XRefs = append(c.XRefs, x) })
}

// RenameSymbol renames every symbol at a. It reports false, without a
// version bump, when no symbol lives there.
func (m *Memory) RenameSymbol(a Address, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for i := range m.contents.Symbols {
		if m.contents.Symbols[i].Address == a {
			m.contents.Symbols[i].Name = name
			found = true
		}
	}
	if found {
		m.version++
	}
	return found
}

// SetError makes subsequent snapshots fail with err until cleared with nil.
func (m *Memory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
