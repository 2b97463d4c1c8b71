package memmap

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateRegion  = errors.New("region already defined")
	ErrUnknownRegion    = errors.New("region not defined")
	ErrZeroLength       = errors.New("region length is zero")
	ErrTableFrozen      = errors.New("region table is frozen")
	ErrDuplicateSection = errors.New("section already declared")
	ErrUnknownSection   = errors.New("section not declared")
	ErrInvalidAlignment = errors.New("alignment is not a power of two")
)

// OverlapError reports two regions whose address ranges intersect.
type OverlapError struct {
	a, b *Region
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("[Overlap] region %s [%08X, %08X) intersects region %s [%08X, %08X)",
		e.a.Name, e.a.Origin, e.a.End(), e.b.Name, e.b.Origin, e.b.End())
}

func (e *OverlapError) Regions() (*Region, *Region) {
	return e.a, e.b
}
