package state

import (
	"sort"
	"strings"

	"github.com/atomicstack/disasm-shell/internal/document"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SymbolFilter backs the symbol search prompt.
type SymbolFilter struct {
	full    []document.Symbol
	query   string
	matches []document.Symbol
	view    Viewport
}

func NewSymbolFilter(symbols []document.Symbol) *SymbolFilter {
	f := &SymbolFilter{full: append([]document.Symbol(nil), symbols...)}
	f.SetQuery("")
	return f
}

// SetQuery re-filters and moves the cursor to the best match.
func (f *SymbolFilter) SetQuery(query string) {
	f.query = query
	f.matches = FilterSymbols(f.full, query)
	f.view.SetLen(len(f.matches))
	f.view.Cursor = 0
	if idx := BestMatchIndex(f.matches, query); idx >= 0 {
		f.view.Cursor = idx
	}
}

func (f *SymbolFilter) Query() string { return f.query }

func (f *SymbolFilter) Matches() []document.Symbol { return f.matches }

func (f *SymbolFilter) Cursor() int { return f.view.Cursor }

func (f *SymbolFilter) Move(delta int) bool { return f.view.MoveBy(delta) }

// Window returns the visible match range for maxVisible rows.
func (f *SymbolFilter) Window(maxVisible int) (int, int) { return f.view.Window(maxVisible) }

// Selected returns the symbol under the cursor.
func (f *SymbolFilter) Selected() (document.Symbol, bool) {
	if len(f.matches) == 0 {
		return document.Symbol{}, false
	}
	return f.matches[f.view.Cursor], true
}

// FilterSymbols returns the symbols matching query, closest first. An empty
// query keeps address order.
func FilterSymbols(symbols []document.Symbol, query string) []document.Symbol {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return append([]document.Symbol(nil), symbols...)
	}
	names := make([]string, len(symbols))
	for i, sym := range symbols {
		names[i] = sym.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, names)
	if len(ranks) > 0 {
		sort.SliceStable(ranks, func(i, j int) bool {
			if ranks[i].Distance != ranks[j].Distance {
				return ranks[i].Distance < ranks[j].Distance
			}
			return ranks[i].OriginalIndex < ranks[j].OriginalIndex
		})
		out := make([]document.Symbol, 0, len(ranks))
		for _, rank := range ranks {
			out = append(out, symbols[rank.OriginalIndex])
		}
		return out
	}
	lower := strings.ToLower(trimmed)
	var out []document.Symbol
	for _, sym := range symbols {
		if strings.Contains(strings.ToLower(sym.Name), lower) {
			out = append(out, sym)
		}
	}
	return out
}

// BestMatchIndex returns the best index for the query among symbols: exact
// name, then prefix, then substring, then the closest fuzzy match.
func BestMatchIndex(symbols []document.Symbol, query string) int {
	trimmed := strings.TrimSpace(query)
	if len(symbols) == 0 {
		return -1
	}
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, sym := range symbols {
		if strings.EqualFold(sym.Name, trimmed) {
			return i
		}
	}
	for i, sym := range symbols {
		if strings.HasPrefix(strings.ToLower(sym.Name), lower) {
			return i
		}
	}
	for i, sym := range symbols {
		if strings.Contains(strings.ToLower(sym.Name), lower) {
			return i
		}
	}
	names := make([]string, len(symbols))
	for i, sym := range symbols {
		names[i] = sym.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, names)
	if len(ranks) == 0 {
		return -1
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
		}
	}
	return best.OriginalIndex
}

// BestMatch resolves query to a single symbol.
func BestMatch(symbols []document.Symbol, query string) (document.Symbol, bool) {
	if strings.TrimSpace(query) == "" {
		return document.Symbol{}, false
	}
	idx := BestMatchIndex(symbols, query)
	if idx < 0 {
		return document.Symbol{}, false
	}
	return symbols[idx], true
}
