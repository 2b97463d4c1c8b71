package resolver

import "github.com/coreipc/memlayout/memmap"

// Placement is the resolved address range of one section.
type Placement struct {
	Section    *memmap.Section
	Start, End uint64
}

// Resolver assigns each declared section an address range inside its
// owning region. A Resolver is built fresh for every run; the per-region
// cursors live here and nowhere else, so one build can never contaminate
// the next.
type Resolver struct {
	table  *memmap.Table
	set    *memmap.SectionSet
	cursor map[*memmap.Region]uint64
}

func New(table *memmap.Table, set *memmap.SectionSet) *Resolver {
	table.Freeze()
	return &Resolver{
		table:  table,
		set:    set,
		cursor: make(map[*memmap.Region]uint64),
	}
}

// Resolve places every section in declaration order and emits the
// requested boundary symbols. Given the same table, section order and
// sizes it always produces identical addresses; the coprocessor image
// is resolved separately and must arrive at the same shared addresses.
func (r *Resolver) Resolve() (*Layout, error) {
	layout := newLayout(r.table)
	for _, section := range r.set.Sections() {
		region := section.Region
		cursor, ok := r.cursor[region]
		if !ok {
			cursor = region.Origin
		}
		start := memmap.Align(cursor, section.Align)
		end := start + section.Size
		if end > region.End() {
			return nil, &OverflowError{section, start, end}
		}
		r.cursor[region] = end
		placement := &Placement{Section: section, Start: start, End: end}
		layout.placements = append(layout.placements, placement)
		layout.index[section.Name] = placement
		if err := layout.emit(placement); err != nil {
			return nil, err
		}
	}
	return layout, nil
}
