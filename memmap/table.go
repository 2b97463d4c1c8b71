package memmap

import "fmt"

// Table is the device memory map: every named physical region, in
// definition order. A Table is authored once per target and frozen
// before resolution starts.
type Table struct {
	regions []*Region
	index   map[string]*Region
	frozen  bool
}

func NewTable() *Table {
	return &Table{index: make(map[string]*Region)}
}

// Define adds a region. The new range may not intersect any region
// already in the table; distinct regions are distinct physical memory.
func (t *Table) Define(name string, origin, length uint64, attr Attr) (*Region, error) {
	if t.frozen {
		return nil, fmt.Errorf("%w: %s", ErrTableFrozen, name)
	}
	if length == 0 {
		return nil, fmt.Errorf("%w: %s", ErrZeroLength, name)
	}
	if _, ok := t.index[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRegion, name)
	}
	region := &Region{Name: name, Origin: origin, Length: length, Attr: attr}
	for _, other := range t.regions {
		if region.Overlaps(other) {
			return nil, &OverlapError{region, other}
		}
	}
	t.regions = append(t.regions, region)
	t.index[name] = region
	return region, nil
}

func (t *Table) Lookup(name string) (*Region, error) {
	if region, ok := t.index[name]; ok {
		return region, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRegion, name)
}

// Regions returns the regions in definition order.
func (t *Table) Regions() []*Region {
	return t.regions
}

// Freeze rejects further definitions. Resolution freezes its table so a
// build cannot grow the map under an already computed layout.
func (t *Table) Freeze() {
	t.frozen = true
}
