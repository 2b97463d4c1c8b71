package mailbox

import (
	"github.com/coreipc/memlayout/encoding"
	"github.com/coreipc/memlayout/memmap"
)

// Region and section names shared by both firmware images. Both builds
// must derive their layout from the same declarations or the contract
// check will fail.
const (
	RegionFlash      = "FLASH"
	RegionRAM        = "RAM"
	RegionRAMShared1 = "RAM_SHARED1"
	RegionRAMShared2 = "RAM_SHARED2"

	SectionRefTable = "TL_REF_TABLE"
	SectionMbMem1   = "MB_MEM1"
	SectionMbMem2   = "MB_MEM2"
)

// memberAlign matches the firmware statics, which are all 4-byte
// aligned inside their section.
const memberAlign = 4

// member is one firmware static placed inside a mailbox section.
type member struct {
	name string
	size int
}

// mem1Members and mem2Members list the statics in declaration order.
// Order is part of the contract: it decides every member's offset.
var mem1Members = []member{
	{"TL_DEVICE_INFO_TABLE", encoding.SizeOf(DeviceInfoTable{})},
	{"TL_BLE_TABLE", encoding.SizeOf(BleTable{})},
	{"TL_THREAD_TABLE", encoding.SizeOf(ThreadTable{})},
	{"TL_LLD_TESTS_TABLE", encoding.SizeOf(LldTestsTable{})},
	{"TL_BLE_LLD_TABLE", encoding.SizeOf(BleLldTable{})},
	{"TL_SYS_TABLE", encoding.SizeOf(SysTable{})},
	{"TL_MEM_MANAGER_TABLE", encoding.SizeOf(MemManagerTable{})},
	{"TL_TRACES_TABLE", encoding.SizeOf(TracesTable{})},
	{"TL_MAC_802_15_4_TABLE", encoding.SizeOf(Mac802154Table{})},
	{"TL_ZIGBEE_TABLE", encoding.SizeOf(ZigbeeTable{})},
	{"FREE_BUF_QUEUE", encoding.SizeOf(PacketHeader{})},
	{"TRACES_EVT_QUEUE", encoding.SizeOf(PacketHeader{})},
	{"EVT_QUEUE", encoding.SizeOf(PacketHeader{})},
	{"SYSTEM_EVT_QUEUE", encoding.SizeOf(PacketHeader{})},
}

var mem2Members = []member{
	{"CS_BUFFER", CsBufferSize},
	{"EVT_POOL", EvtPoolSize},
	{"SYS_CMD_BUFFER", CmdPacketSize},
	{"SYS_SPARE_EVT_BUF", SpareEvtBufSize},
	{"BLE_SPARE_EVT_BUF", SpareEvtBufSize},
	{"BLE_CMD_BUFFER", CmdPacketSize},
	{"HCI_ACL_DATA_BUFFER", HciAclDataBufferSize},
}

// sectionSize walks the members the way the resolver walks sections:
// align the running offset, then advance past the member.
func sectionSize(members []member) uint64 {
	var off uint64
	for _, m := range members {
		off = memmap.Align(off, memberAlign) + uint64(m.size)
	}
	return off
}

func memberOffsets(members []member) map[string]uint64 {
	offsets := make(map[string]uint64, len(members))
	var off uint64
	for _, m := range members {
		off = memmap.Align(off, memberAlign)
		offsets[m.name] = off
		off += uint64(m.size)
	}
	return offsets
}

// NewSharedMap returns the stock STM32WB memory map and mailbox section
// declarations. RAM starts 8 bytes past the SRAM base to leave room for
// the CPU2 secure vector offset; SRAM2a holds the reference table,
// SRAM2b the mailbox buffers, and both are visible to CPU2 unmapped.
func NewSharedMap() (*memmap.Table, *memmap.SectionSet, error) {
	table := memmap.NewTable()
	defs := []struct {
		name           string
		origin, length uint64
		attr           memmap.Attr
	}{
		{RegionFlash, 0x08000000, 512 * 1024, memmap.ATTR_READ | memmap.ATTR_EXEC | memmap.ATTR_LOAD},
		{RegionRAM, 0x20000008, 0x2FFF8, memmap.ATTR_RWX | memmap.ATTR_LOAD},
		{RegionRAMShared1, 0x20030000, 0x28, memmap.ATTR_READ | memmap.ATTR_WRITE | memmap.ATTR_SHARED},
		{RegionRAMShared2, 0x20030028, 0x27D8, memmap.ATTR_READ | memmap.ATTR_WRITE | memmap.ATTR_SHARED},
	}
	for _, d := range defs {
		if _, err := table.Define(d.name, d.origin, d.length, d.attr); err != nil {
			return nil, nil, err
		}
	}

	set := memmap.NewSectionSet()
	_, err := set.Declare(table, SectionRefTable, RegionRAMShared1,
		memmap.LOAD_NOINIT, memberAlign, uint64(RefTableSize))
	if err != nil {
		return nil, nil, err
	}
	_, err = set.Declare(table, SectionMbMem1, RegionRAMShared2,
		memmap.LOAD_NOINIT, memberAlign, sectionSize(mem1Members))
	if err != nil {
		return nil, nil, err
	}
	_, err = set.Declare(table, SectionMbMem2, RegionRAMShared2,
		memmap.LOAD_NOINIT, memberAlign, sectionSize(mem2Members),
		memmap.SymbolSpec{Name: "sMB_MEM2", Mark: memmap.MARK_SECTION_START},
		memmap.SymbolSpec{Name: "eMB_MEM2", Mark: memmap.MARK_SECTION_END})
	if err != nil {
		return nil, nil, err
	}
	return table, set, nil
}

// DeclareImageSections adds the ordinary program sections whose sizes
// the compiler reports after the first link pass. They stay out of
// NewSharedMap because they differ between the two images without
// affecting the contract.
func DeclareImageSections(table *memmap.Table, set *memmap.SectionSet, textSize, rodataSize, dataSize, bssSize uint64) error {
	decls := []struct {
		name, region string
		load         memmap.LoadBehavior
		size         uint64
	}{
		{".text", RegionFlash, memmap.LOAD_INIT, textSize},
		{".rodata", RegionFlash, memmap.LOAD_INIT, rodataSize},
		{".data", RegionRAM, memmap.LOAD_INIT, dataSize},
		{".bss", RegionRAM, memmap.LOAD_INIT, bssSize},
	}
	for _, d := range decls {
		if _, err := set.Declare(table, d.name, d.region, d.load, memberAlign, d.size); err != nil {
			return err
		}
	}
	return nil
}
