package document

import (
	"fmt"
	"sort"
)

// Snapshot is an immutable, indexed copy of a document at one version. It is
// safe to share between goroutines.
type Snapshot struct {
	version  uint64
	segments []Segment
	symbols  []Symbol
	byName   map[string]Symbol
	xfrom    map[Address][]XRef
	xto      map[Address][]XRef
	items    []Item
	blocks   []Block
}

// Contents is the raw material for a Snapshot.
type Contents struct {
	Segments []Segment
	Symbols  []Symbol
	XRefs    []XRef
	Items    []Item
	Blocks   []Block
}

// NewSnapshot copies and indexes c. Overlapping segments are rejected.
func NewSnapshot(version uint64, c Contents) (*Snapshot, error) {
	s := &Snapshot{
		version: version,
		byName:  make(map[string]Symbol, len(c.Symbols)),
		xfrom:   make(map[Address][]XRef),
		xto:     make(map[Address][]XRef),
	}

	s.segments = make([]Segment, len(c.Segments))
	for i, seg := range c.Segments {
		if seg.End < seg.Start {
			return nil, fmt.Errorf("segment %q: end %s before start %s", seg.Name, seg.End, seg.Start)
		}
		seg.Data = append([]byte(nil), seg.Data...)
		s.segments[i] = seg
	}
	sort.SliceStable(s.segments, func(i, j int) bool { return s.segments[i].Start < s.segments[j].Start })
	for i := 1; i < len(s.segments); i++ {
		if s.segments[i].Start < s.segments[i-1].End {
			return nil, fmt.Errorf("segment %q overlaps %q", s.segments[i].Name, s.segments[i-1].Name)
		}
	}

	s.symbols = append([]Symbol(nil), c.Symbols...)
	sort.SliceStable(s.symbols, func(i, j int) bool { return s.symbols[i].Address < s.symbols[j].Address })
	for _, sym := range s.symbols {
		if _, dup := s.byName[sym.Name]; !dup {
			s.byName[sym.Name] = sym
		}
	}

	for _, x := range c.XRefs {
		s.xfrom[x.From] = append(s.xfrom[x.From], x)
		s.xto[x.To] = append(s.xto[x.To], x)
	}
	for _, refs := range s.xto {
		sort.SliceStable(refs, func(i, j int) bool { return refs[i].From < refs[j].From })
	}

	s.items = append([]Item(nil), c.Items...)
	sort.SliceStable(s.items, func(i, j int) bool { return s.items[i].Address < s.items[j].Address })

	s.blocks = make([]Block, len(c.Blocks))
	for i, b := range c.Blocks {
		b.Succs = append([]Address(nil), b.Succs...)
		s.blocks[i] = b
	}
	sort.SliceStable(s.blocks, func(i, j int) bool { return s.blocks[i].Start < s.blocks[j].Start })
	return s, nil
}

func (s *Snapshot) Version() uint64 { return s.version }

func (s *Snapshot) Segments() []Segment { return s.segments }

// SegmentAt returns the segment containing a.
func (s *Snapshot) SegmentAt(a Address) (Segment, bool) {
	i := sort.Search(len(s.segments), func(i int) bool { return s.segments[i].End > a })
	if i < len(s.segments) && s.segments[i].Range().Contains(a) {
		return s.segments[i], true
	}
	return Segment{}, false
}

// Mapped reports whether a falls inside any segment.
func (s *Snapshot) Mapped(a Address) bool {
	_, ok := s.SegmentAt(a)
	return ok
}

// Span is the total number of mapped bytes.
func (s *Snapshot) Span() uint64 {
	var total uint64
	for _, seg := range s.segments {
		total += seg.Size()
	}
	return total
}

func (s *Snapshot) Symbols() []Symbol { return s.symbols }

func (s *Snapshot) SymbolsOfKind(kind SymbolKind) []Symbol {
	var out []Symbol
	for _, sym := range s.symbols {
		if sym.Kind == kind {
			out = append(out, sym)
		}
	}
	return out
}

// SymbolAt returns the first symbol defined exactly at a.
func (s *Snapshot) SymbolAt(a Address) (Symbol, bool) {
	i := sort.Search(len(s.symbols), func(i int) bool { return s.symbols[i].Address >= a })
	if i < len(s.symbols) && s.symbols[i].Address == a {
		return s.symbols[i], true
	}
	return Symbol{}, false
}

// SymbolBefore returns the closest symbol at or below a, used for
// "name+offset" labels.
func (s *Snapshot) SymbolBefore(a Address) (Symbol, bool) {
	i := sort.Search(len(s.symbols), func(i int) bool { return s.symbols[i].Address > a })
	if i == 0 {
		return Symbol{}, false
	}
	return s.symbols[i-1], true
}

func (s *Snapshot) SymbolByName(name string) (Symbol, bool) {
	sym, ok := s.byName[name]
	return sym, ok
}

func (s *Snapshot) XRefsFrom(a Address) []XRef { return s.xfrom[a] }

func (s *Snapshot) XRefsTo(a Address) []XRef { return s.xto[a] }

func (s *Snapshot) Items() []Item { return s.items }

// ItemIndex returns the index of the item covering a.
func (s *Snapshot) ItemIndex(a Address) (int, bool) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i].Address > a })
	if i == 0 {
		return 0, false
	}
	it := s.items[i-1]
	if it.Range().Contains(a) || (it.Size == 0 && it.Address == a) {
		return i - 1, true
	}
	return 0, false
}

func (s *Snapshot) ItemAt(a Address) (Item, bool) {
	i, ok := s.ItemIndex(a)
	if !ok {
		return Item{}, false
	}
	return s.items[i], true
}

func (s *Snapshot) Blocks() []Block { return s.blocks }

// FunctionBlocks returns the blocks of the function owning a, ordered by
// address. It returns nil when a is not inside any known function.
func (s *Snapshot) FunctionBlocks(a Address) []Block {
	var fn Address
	found := false
	for _, b := range s.blocks {
		if b.Contains(a) {
			fn, found = b.Function, true
			break
		}
	}
	if !found {
		return nil
	}
	var out []Block
	for _, b := range s.blocks {
		if b.Function == fn {
			out = append(out, b)
		}
	}
	return out
}

// ReadBytes returns a copy of the bytes in r. The range must lie inside a
// single segment.
func (s *Snapshot) ReadBytes(r Range) ([]byte, error) {
	if r.Empty() {
		return nil, fmt.Errorf("%w: empty range %s", ErrRangeUnavailable, r)
	}
	seg, ok := s.SegmentAt(r.Start)
	if !ok || r.End > seg.End {
		return nil, fmt.Errorf("%w: %s", ErrRangeUnavailable, r)
	}
	out := make([]byte, r.Len())
	off := uint64(r.Start - seg.Start)
	if off < uint64(len(seg.Data)) {
		copy(out, seg.Data[off:])
	}
	return out, nil
}
