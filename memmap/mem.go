package memmap

// Attr describes the access and load properties of a physical region.
type Attr int

const (
	ATTR_NONE Attr = 0
	ATTR_READ Attr = 1 << (iota - 1)
	ATTR_WRITE
	ATTR_EXEC
	ATTR_LOAD
	ATTR_SHARED

	ATTR_RWX = ATTR_READ | ATTR_WRITE | ATTR_EXEC
)

func (a Attr) Readable() bool   { return a&ATTR_READ != 0 }
func (a Attr) Writable() bool   { return a&ATTR_WRITE != 0 }
func (a Attr) Executable() bool { return a&ATTR_EXEC != 0 }

// Loaded reports whether the region contents are established by the boot
// loader. Regions without ATTR_LOAD hold whatever was last written there.
func (a Attr) Loaded() bool { return a&ATTR_LOAD != 0 }

// Shared reports whether both cores see the region at the same address.
func (a Attr) Shared() bool { return a&ATTR_SHARED != 0 }

// Region is a named physical address range. Regions are owned by the
// Table that defined them; everything else holds non-owning references.
type Region struct {
	Name           string
	Origin, Length uint64
	Attr           Attr
}

// End returns the first address past the region.
func (r *Region) End() uint64 {
	return r.Origin + r.Length
}

func (r *Region) Contains(addr uint64) bool {
	return addr >= r.Origin && addr < r.End()
}

// Overlaps compares [Origin, End) ranges, inclusive start, exclusive end.
func (r *Region) Overlaps(o *Region) bool {
	return r.Origin < o.End() && o.Origin < r.End()
}
