package mailbox

import (
	"errors"
	"fmt"

	"github.com/coreipc/memlayout/encoding"
	"github.com/coreipc/memlayout/resolver"
)

var ErrUnknownMember = errors.New("mailbox member not declared")

// MemberAddr returns the resolved device address of one mailbox static.
// Resolution must have placed the owning section first.
func MemberAddr(layout *resolver.Layout, name string) (Addr, error) {
	for _, group := range []struct {
		section string
		members []member
	}{
		{SectionMbMem1, mem1Members},
		{SectionMbMem2, mem2Members},
	} {
		offsets := memberOffsets(group.members)
		off, ok := offsets[name]
		if !ok {
			continue
		}
		placement, err := layout.Placement(group.section)
		if err != nil {
			return 0, err
		}
		return Addr(placement.Start + off), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownMember, name)
}

// NewRefTable builds the reference table for a resolved layout, every
// entry pointing at its placed member.
func NewRefTable(layout *resolver.Layout) (*RefTable, error) {
	rt := new(RefTable)
	for _, e := range []struct {
		dst    *Addr
		member string
	}{
		{&rt.DeviceInfo, "TL_DEVICE_INFO_TABLE"},
		{&rt.Ble, "TL_BLE_TABLE"},
		{&rt.Thread, "TL_THREAD_TABLE"},
		{&rt.Sys, "TL_SYS_TABLE"},
		{&rt.MemManager, "TL_MEM_MANAGER_TABLE"},
		{&rt.Traces, "TL_TRACES_TABLE"},
		{&rt.Mac802154, "TL_MAC_802_15_4_TABLE"},
		{&rt.Zigbee, "TL_ZIGBEE_TABLE"},
		{&rt.LldTests, "TL_LLD_TESTS_TABLE"},
		{&rt.BleLld, "TL_BLE_LLD_TABLE"},
	} {
		addr, err := MemberAddr(layout, e.member)
		if err != nil {
			return nil, err
		}
		*e.dst = addr
	}
	return rt, nil
}

// NewBleTable wires the BLE channel buffers the way tl_init does.
func NewBleTable(layout *resolver.Layout) (*BleTable, error) {
	t := new(BleTable)
	for _, e := range []struct {
		dst    *Addr
		member string
	}{
		{&t.CmdBuffer, "BLE_CMD_BUFFER"},
		{&t.CsBuffer, "CS_BUFFER"},
		{&t.EvtQueue, "EVT_QUEUE"},
		{&t.HciAclDataBuffer, "HCI_ACL_DATA_BUFFER"},
	} {
		addr, err := MemberAddr(layout, e.member)
		if err != nil {
			return nil, err
		}
		*e.dst = addr
	}
	return t, nil
}

func NewSysTable(layout *resolver.Layout) (*SysTable, error) {
	cmd, err := MemberAddr(layout, "SYS_CMD_BUFFER")
	if err != nil {
		return nil, err
	}
	queue, err := MemberAddr(layout, "SYSTEM_EVT_QUEUE")
	if err != nil {
		return nil, err
	}
	return &SysTable{CmdBuffer: cmd, SysQueue: queue}, nil
}

// NewMemManagerTable wires the memory manager pools. The traces pool is
// left empty; tracing is enabled by pointing TracesEvtPool at a real
// pool in a debug build.
func NewMemManagerTable(layout *resolver.Layout) (*MemManagerTable, error) {
	t := new(MemManagerTable)
	for _, e := range []struct {
		dst    *Addr
		member string
	}{
		{&t.SpareBleBuffer, "BLE_SPARE_EVT_BUF"},
		{&t.SpareSysBuffer, "SYS_SPARE_EVT_BUF"},
		{&t.BlePool, "EVT_POOL"},
		{&t.EvtFreeBufferQueue, "FREE_BUF_QUEUE"},
	} {
		addr, err := MemberAddr(layout, e.member)
		if err != nil {
			return nil, err
		}
		*e.dst = addr
	}
	t.BlePoolSize = uint32(EvtPoolSize)
	return t, nil
}

// RefTableImage renders the packed reference table exactly as it will
// sit at the start of RAM_SHARED1.
func RefTableImage(layout *resolver.Layout) ([]byte, error) {
	rt, err := NewRefTable(layout)
	if err != nil {
		return nil, err
	}
	placement, err := layout.Placement(SectionRefTable)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, placement.End-placement.Start)
	if err := encoding.Encode(encoding.NewBuffer(buf), rt); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadRefTable decodes a reference table image, the coprocessor's first
// act after boot.
func ReadRefTable(buf []byte) (*RefTable, error) {
	rt := new(RefTable)
	if err := encoding.Decode(encoding.NewBuffer(buf), rt); err != nil {
		return nil, err
	}
	return rt, nil
}
