package resolver

import "github.com/coreipc/memlayout/memmap"

// Symbol is a named address marking a section or region boundary,
// exposed to firmware source as an addressable identifier.
type Symbol struct {
	Name string
	Addr uint64
	Mark memmap.Mark
}

func boundaryAddr(placement *Placement, mark memmap.Mark) uint64 {
	switch mark {
	case memmap.MARK_SECTION_START:
		return placement.Start
	case memmap.MARK_SECTION_END:
		return placement.End
	case memmap.MARK_REGION_START:
		return placement.Section.Region.Origin
	case memmap.MARK_REGION_END:
		return placement.Section.Region.End()
	}
	panic("unknown boundary mark")
}

// emit registers the boundary symbols a freshly placed section asked
// for. Names clash across the whole build, not per section.
func (l *Layout) emit(placement *Placement) error {
	for _, spec := range placement.Section.Symbols {
		addr := boundaryAddr(placement, spec.Mark)
		if prev, ok := l.symIndex[spec.Name]; ok {
			return &SymbolClashError{spec.Name, prev.Addr, addr}
		}
		symbol := &Symbol{Name: spec.Name, Addr: addr, Mark: spec.Mark}
		l.symbols = append(l.symbols, symbol)
		l.symIndex[spec.Name] = symbol
	}
	return nil
}

// EmitSymbols computes the boundary symbols of one section without
// registering them, for consumers that postprocess a single section.
// Placement must have happened first.
func EmitSymbols(layout *Layout, section *memmap.Section) ([]*Symbol, error) {
	placement, err := layout.Placement(section.Name)
	if err != nil {
		return nil, err
	}
	symbols := make([]*Symbol, 0, len(section.Symbols))
	for _, spec := range section.Symbols {
		symbols = append(symbols, &Symbol{
			Name: spec.Name,
			Addr: boundaryAddr(placement, spec.Mark),
			Mark: spec.Mark,
		})
	}
	return symbols, nil
}
