package resolver

import (
	"errors"
	"testing"

	"github.com/coreipc/memlayout/memmap"
)

func sharedMap(t *testing.T) (*memmap.Table, *memmap.SectionSet) {
	t.Helper()
	table := memmap.NewTable()
	shared := memmap.ATTR_READ | memmap.ATTR_WRITE | memmap.ATTR_SHARED
	if _, err := table.Define("RAM_SHARED1", 0x20030000, 0x28, shared); err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if _, err := table.Define("RAM_SHARED2", 0x20030028, 0x27D8, shared); err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	return table, memmap.NewSectionSet()
}

func TestResolveSingleNoInitSection(t *testing.T) {
	table, set := sharedMap(t)
	if _, err := set.Declare(table, "TL_REF_TABLE", "RAM_SHARED1", memmap.LOAD_NOINIT, 4, 40); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	layout, err := New(table, set).Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	placement, err := layout.Placement("TL_REF_TABLE")
	if err != nil {
		t.Fatalf("Placement failed: %v", err)
	}
	if placement.Start != 0x20030000 || placement.End != 0x20030028 {
		t.Fatalf("TL_REF_TABLE placed at [%08X, %08X)", placement.Start, placement.End)
	}
	// exact fit: the section fills the whole region
	if placement.End != placement.Section.Region.End() {
		t.Fatalf("expected section to fill region")
	}
}

func TestResolveSequentialPlacementAndSymbols(t *testing.T) {
	table, set := sharedMap(t)
	if _, err := set.Declare(table, "MB_MEM1", "RAM_SHARED2", memmap.LOAD_NOINIT, 4, 100); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	_, err := set.Declare(table, "MB_MEM2", "RAM_SHARED2", memmap.LOAD_NOINIT, 4, 200,
		memmap.SymbolSpec{Name: "sMB_MEM2", Mark: memmap.MARK_SECTION_START},
		memmap.SymbolSpec{Name: "eMB_MEM2", Mark: memmap.MARK_SECTION_END})
	if err != nil {
		t.Fatalf("Declare failed: %v", err)
	}

	layout, err := New(table, set).Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	mem1, _ := layout.Placement("MB_MEM1")
	if mem1.Start != 0x20030028 || mem1.End != 0x2003008C {
		t.Fatalf("MB_MEM1 placed at [%08X, %08X)", mem1.Start, mem1.End)
	}
	mem2, _ := layout.Placement("MB_MEM2")
	if mem2.Start != 0x2003008C || mem2.End != 0x20030154 {
		t.Fatalf("MB_MEM2 placed at [%08X, %08X)", mem2.Start, mem2.End)
	}

	start, err := layout.Symbol("sMB_MEM2")
	if err != nil {
		t.Fatalf("Symbol failed: %v", err)
	}
	if start.Addr != 0x2003008C {
		t.Fatalf("sMB_MEM2 = %08X", start.Addr)
	}
	end, err := layout.Symbol("eMB_MEM2")
	if err != nil {
		t.Fatalf("Symbol failed: %v", err)
	}
	if end.Addr != 0x20030154 {
		t.Fatalf("eMB_MEM2 = %08X", end.Addr)
	}
	if _, err := layout.Symbol("sMB_MEM1"); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestResolveAlignmentRounding(t *testing.T) {
	table, set := sharedMap(t)
	if _, err := set.Declare(table, "ODD", "RAM_SHARED2", memmap.LOAD_NOINIT, 1, 5); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	if _, err := set.Declare(table, "ALIGNED", "RAM_SHARED2", memmap.LOAD_NOINIT, 16, 8); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	layout, err := New(table, set).Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	placement, _ := layout.Placement("ALIGNED")
	if placement.Start%16 != 0 {
		t.Fatalf("ALIGNED start %08X is not 16-byte aligned", placement.Start)
	}
	if placement.Start != 0x20030030 {
		t.Fatalf("ALIGNED start = %08X, want 0x20030030", placement.Start)
	}
}

func TestResolveOverflowBoundary(t *testing.T) {
	// exactly full is fine, one more byte is not
	table, set := sharedMap(t)
	if _, err := set.Declare(table, "FULL", "RAM_SHARED1", memmap.LOAD_NOINIT, 1, 0x28); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	if _, err := New(table, set).Resolve(); err != nil {
		t.Fatalf("exact fit must resolve: %v", err)
	}

	table2, set2 := sharedMap(t)
	if _, err := set2.Declare(table2, "FULL", "RAM_SHARED1", memmap.LOAD_NOINIT, 1, 0x29); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	_, err := New(table2, set2).Resolve()
	var overflow *OverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("expected OverflowError, got %v", err)
	}
	if overflow.Section().Name != "FULL" {
		t.Fatalf("OverflowError names section %s", overflow.Section().Name)
	}
	if start, end := overflow.Range(); start != 0x20030000 || end != 0x20030029 {
		t.Fatalf("OverflowError range [%08X, %08X)", start, end)
	}
}

func TestResolveDeterminism(t *testing.T) {
	build := func() *Layout {
		table, set := sharedMap(t)
		if _, err := set.Declare(table, "MB_MEM1", "RAM_SHARED2", memmap.LOAD_NOINIT, 4, 177); err != nil {
			t.Fatalf("Declare failed: %v", err)
		}
		_, err := set.Declare(table, "MB_MEM2", "RAM_SHARED2", memmap.LOAD_NOINIT, 8, 2692,
			memmap.SymbolSpec{Name: "sMB_MEM2", Mark: memmap.MARK_SECTION_START},
			memmap.SymbolSpec{Name: "eMB_MEM2", Mark: memmap.MARK_SECTION_END})
		if err != nil {
			t.Fatalf("Declare failed: %v", err)
		}
		layout, err := New(table, set).Resolve()
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		return layout
	}

	a, b := build(), build()
	if len(a.Placements()) != len(b.Placements()) {
		t.Fatalf("placement counts differ")
	}
	for i, pa := range a.Placements() {
		pb := b.Placements()[i]
		if pa.Section.Name != pb.Section.Name || pa.Start != pb.Start || pa.End != pb.End {
			t.Fatalf("placement %d differs between runs", i)
		}
	}
	for i, sa := range a.Symbols() {
		sb := b.Symbols()[i]
		if sa.Name != sb.Name || sa.Addr != sb.Addr || sa.Mark != sb.Mark {
			t.Fatalf("symbol %d differs between runs", i)
		}
	}
}

func TestResolveSymbolClash(t *testing.T) {
	table, set := sharedMap(t)
	_, err := set.Declare(table, "MB_MEM1", "RAM_SHARED2", memmap.LOAD_NOINIT, 4, 100,
		memmap.SymbolSpec{Name: "sMB", Mark: memmap.MARK_SECTION_START})
	if err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	_, err = set.Declare(table, "MB_MEM2", "RAM_SHARED2", memmap.LOAD_NOINIT, 4, 100,
		memmap.SymbolSpec{Name: "sMB", Mark: memmap.MARK_SECTION_START})
	if err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	_, err = New(table, set).Resolve()
	var clash *SymbolClashError
	if !errors.As(err, &clash) {
		t.Fatalf("expected SymbolClashError, got %v", err)
	}
	if clash.Name() != "sMB" {
		t.Fatalf("SymbolClashError names %s", clash.Name())
	}
}

func TestRegionBoundarySymbols(t *testing.T) {
	table, set := sharedMap(t)
	_, err := set.Declare(table, "TL_REF_TABLE", "RAM_SHARED1", memmap.LOAD_NOINIT, 4, 40,
		memmap.SymbolSpec{Name: "sRAM_SHARED1", Mark: memmap.MARK_REGION_START},
		memmap.SymbolSpec{Name: "eRAM_SHARED1", Mark: memmap.MARK_REGION_END})
	if err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	layout, err := New(table, set).Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	start, _ := layout.Symbol("sRAM_SHARED1")
	end, _ := layout.Symbol("eRAM_SHARED1")
	if start == nil || start.Addr != 0x20030000 {
		t.Fatalf("sRAM_SHARED1 wrong: %+v", start)
	}
	if end == nil || end.Addr != 0x20030028 {
		t.Fatalf("eRAM_SHARED1 wrong: %+v", end)
	}
}

func TestEmitSymbolsRequiresPlacement(t *testing.T) {
	table, set := sharedMap(t)
	layout, err := New(table, set).Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	orphan := &memmap.Section{
		Name:    "LATE",
		Symbols: []memmap.SymbolSpec{{Name: "sLATE", Mark: memmap.MARK_SECTION_START}},
	}
	if _, err := EmitSymbols(layout, orphan); !errors.Is(err, ErrMissingPlacement) {
		t.Fatalf("expected ErrMissingPlacement, got %v", err)
	}
}

func TestUnreferencedRegionStaysFree(t *testing.T) {
	table, set := sharedMap(t)
	if _, err := set.Declare(table, "TL_REF_TABLE", "RAM_SHARED1", memmap.LOAD_NOINIT, 4, 40); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	layout, err := New(table, set).Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// RAM_SHARED2 has no sections; resolution must leave it alone
	for _, placement := range layout.Placements() {
		if placement.Section.Region.Name == "RAM_SHARED2" {
			t.Fatalf("unexpected placement in RAM_SHARED2")
		}
	}
}
