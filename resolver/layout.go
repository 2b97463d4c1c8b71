package resolver

import (
	"fmt"

	"github.com/coreipc/memlayout/memmap"
)

// Layout is the output of one resolution run: the placement table and
// the boundary symbol table, both in emission order. It is immutable
// once Resolve returns; the image builder consumes it directly.
type Layout struct {
	table      *memmap.Table
	placements []*Placement
	index      map[string]*Placement
	symbols    []*Symbol
	symIndex   map[string]*Symbol
}

func newLayout(table *memmap.Table) *Layout {
	return &Layout{
		table:    table,
		index:    make(map[string]*Placement),
		symIndex: make(map[string]*Symbol),
	}
}

func (l *Layout) Table() *memmap.Table {
	return l.table
}

// Placements returns every placement in declaration order.
func (l *Layout) Placements() []*Placement {
	return l.placements
}

func (l *Layout) Placement(name string) (*Placement, error) {
	if placement, ok := l.index[name]; ok {
		return placement, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingPlacement, name)
}

// Symbols returns every boundary symbol in emission order.
func (l *Layout) Symbols() []*Symbol {
	return l.symbols
}

func (l *Layout) Symbol(name string) (*Symbol, error) {
	if symbol, ok := l.symIndex[name]; ok {
		return symbol, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, name)
}
