// Package document models the analysed binary that every workbench view
// renders. Views never read a live document directly; they work against an
// immutable, version-tagged Snapshot.
package document

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrRangeUnavailable is returned when a byte range is not fully backed by
	// a single mapped segment.
	ErrRangeUnavailable = errors.New("range not mapped")
	// ErrNoDocument is returned when a snapshot cannot be produced at all.
	ErrNoDocument = errors.New("document unavailable")
)

// Document is the analysis engine's side of the workbench. Version increases
// monotonically on every change; Snapshot returns a consistent view tagged
// with the version it was taken at.
type Document interface {
	Version() uint64
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Address is a virtual address inside the analysed image.
type Address uint64

func (a Address) String() string {
	return fmt.Sprintf("0x%08x", uint64(a))
}

// Range is a half-open address interval [Start, End).
type Range struct {
	Start Address
	End   Address
}

func (r Range) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return uint64(r.End - r.Start)
}

func (r Range) Empty() bool { return r.End <= r.Start }

func (r Range) Contains(a Address) bool {
	return a >= r.Start && a < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

type SegmentKind int

const (
	SegmentCode SegmentKind = iota
	SegmentData
	SegmentBSS
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentCode:
		return "code"
	case SegmentData:
		return "data"
	case SegmentBSS:
		return "bss"
	default:
		return "unknown"
	}
}

// Segment is a mapped region. Data may be shorter than the segment; the
// remainder reads as zero.
type Segment struct {
	Name  string
	Start Address
	End   Address
	Kind  SegmentKind
	Data  []byte
}

func (s Segment) Range() Range { return Range{Start: s.Start, End: s.End} }

func (s Segment) Size() uint64 { return s.Range().Len() }

type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolImport
	SymbolExport
	SymbolString
	SymbolLabel
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolImport:
		return "import"
	case SymbolExport:
		return "export"
	case SymbolString:
		return "string"
	case SymbolLabel:
		return "label"
	default:
		return "unknown"
	}
}

type Symbol struct {
	Name    string
	Address Address
	Kind    SymbolKind
}

type XRefKind int

const (
	XRefCall XRefKind = iota
	XRefJump
	XRefData
)

func (k XRefKind) String() string {
	switch k {
	case XRefCall:
		return "call"
	case XRefJump:
		return "jump"
	case XRefData:
		return "data"
	default:
		return "unknown"
	}
}

// XRef is a reference from the item at From to the address To.
type XRef struct {
	From Address
	To   Address
	Kind XRefKind
}

type ItemKind int

const (
	ItemInstruction ItemKind = iota
	ItemData
)

// Item is one listing unit: a decoded instruction or a data definition.
type Item struct {
	Address Address
	Size    uint32
	Kind    ItemKind
	Text    string
}

func (it Item) Range() Range {
	return Range{Start: it.Address, End: it.Address + Address(it.Size)}
}

// Block is a basic block of the function starting at Function.
type Block struct {
	Function Address
	Start    Address
	End      Address
	Succs    []Address
}

func (b Block) Contains(a Address) bool {
	return a >= b.Start && a < b.End
}
