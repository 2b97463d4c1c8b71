package memmap

import "fmt"

// LoadBehavior selects whether the boot path establishes the section
// contents.
type LoadBehavior int

const (
	LOAD_INIT LoadBehavior = iota

	// LOAD_NOINIT exempts the section from the builder's load and
	// zero-initialization pass. Memory in such a section holds whatever
	// was last written there, stale across resets until firmware clears
	// it; readers must not assume zero values.
	LOAD_NOINIT
)

// Mark selects which boundary of the placed section (or its owning
// region) a symbol names.
type Mark int

const (
	MARK_SECTION_START Mark = iota
	MARK_SECTION_END
	MARK_REGION_START
	MARK_REGION_END
)

// SymbolSpec requests a boundary symbol to be emitted once the owning
// section has been placed.
type SymbolSpec struct {
	Name string
	Mark Mark
}

// Section is a named logical grouping of code or data assigned to
// exactly one region. Region is a non-owning reference into the Table.
type Section struct {
	Name    string
	Region  *Region
	Load    LoadBehavior
	Align   uint64
	Size    uint64
	Symbols []SymbolSpec
}

// SectionSet holds the sections of one build in declaration order.
// Declaration order is placement order, so it must be kept stable for
// builds to be reproducible.
type SectionSet struct {
	sections []*Section
	index    map[string]*Section
}

func NewSectionSet() *SectionSet {
	return &SectionSet{index: make(map[string]*Section)}
}

// Declare adds a section bound to a region of table. align must be a
// power of two. size comes from the image builder, not from here.
func (s *SectionSet) Declare(table *Table, name, regionName string, load LoadBehavior, align, size uint64, symbols ...SymbolSpec) (*Section, error) {
	region, err := table.Lookup(regionName)
	if err != nil {
		return nil, err
	}
	if !IsPowerOfTwo(align) {
		return nil, fmt.Errorf("%w: section %s align %d", ErrInvalidAlignment, name, align)
	}
	if _, ok := s.index[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSection, name)
	}
	section := &Section{
		Name:    name,
		Region:  region,
		Load:    load,
		Align:   align,
		Size:    size,
		Symbols: symbols,
	}
	s.sections = append(s.sections, section)
	s.index[name] = section
	return section, nil
}

func (s *SectionSet) Lookup(name string) (*Section, error) {
	if section, ok := s.index[name]; ok {
		return section, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSection, name)
}

// Sections returns the sections in declaration order.
func (s *SectionSet) Sections() []*Section {
	return s.sections
}
