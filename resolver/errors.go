package resolver

import (
	"errors"
	"fmt"

	"github.com/coreipc/memlayout/memmap"
)

var (
	ErrMissingPlacement = errors.New("section not placed")
	ErrUnknownSymbol    = errors.New("symbol not defined")
)

// OverflowError reports a section that does not fit the free space left
// in its owning region.
type OverflowError struct {
	section    *memmap.Section
	start, end uint64
}

func (e *OverflowError) Error() string {
	region := e.section.Region
	return fmt.Sprintf("[RegionOverflow] section %s [%08X, %08X) exceeds region %s limit %08X",
		e.section.Name, e.start, e.end, region.Name, region.End())
}

func (e *OverflowError) Section() *memmap.Section {
	return e.section
}

// Range returns the placement the section would have needed.
func (e *OverflowError) Range() (uint64, uint64) {
	return e.start, e.end
}

// SymbolClashError reports two boundary symbols emitted under the same
// name. Symbol names are addressable identifiers in firmware source, so
// they must be unique across the whole build.
type SymbolClashError struct {
	name          string
	first, second uint64
}

func (e *SymbolClashError) Error() string {
	return fmt.Sprintf("[DuplicateSymbol] %s emitted at %08X and %08X", e.name, e.first, e.second)
}

func (e *SymbolClashError) Name() string {
	return e.name
}

func (e *SymbolClashError) Addrs() (uint64, uint64) {
	return e.first, e.second
}

// MismatchError reports two independently resolved builds disagreeing
// about a shared address. If the two images disagree about where a
// shared buffer lives, inter-core traffic corrupts memory silently, so
// this must fail the build.
type MismatchError struct {
	name         string
	what         string
	addrA, addrB uint64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("[AddressMismatch] %s %s: %08X != %08X", e.what, e.name, e.addrA, e.addrB)
}

func (e *MismatchError) Name() string {
	return e.name
}

func (e *MismatchError) Addrs() (uint64, uint64) {
	return e.addrA, e.addrB
}
