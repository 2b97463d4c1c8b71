// Package mailbox carries the inter-core mailbox contract: the shared
// table structs both images agree on, the stock shared-SRAM memory map,
// and the reference table image that tells the coprocessor where every
// buffer lives.
package mailbox

import "github.com/coreipc/memlayout/encoding"

// Addr is a device address as both cores see it on the 32-bit bus.
// Every pointer crossing the core boundary is one of these.
type Addr uint32

// PacketHeader is the intrusive list node at the front of every packet
// travelling through a mailbox channel.
type PacketHeader struct {
	Next Addr
	Prev Addr
}

// CsEvt is the command-status event payload.
type CsEvt struct {
	Status  uint8
	NumCmd  uint8
	CmdCode uint16
}

type Cmd struct {
	CmdCode uint16
	PLen    uint8
	Payload [255]uint8
}

type CmdSerial struct {
	Kind uint8
	Cmd  Cmd
}

type CmdPacket struct {
	Header PacketHeader
	Serial CmdSerial
}

type SafeBootInfoTable struct {
	Version uint32
}

type FusInfoTable struct {
	Version    uint32
	MemorySize uint32
	FusInfo    uint32
}

type WirelessFwInfoTable struct {
	Version    uint32
	MemorySize uint32
	InfoStack  uint32
	Reserved   uint32
}

type DeviceInfoTable struct {
	SafeBoot   SafeBootInfoTable
	Fus        FusInfoTable
	WirelessFw WirelessFwInfoTable
}

type BleTable struct {
	CmdBuffer        Addr
	CsBuffer         Addr
	EvtQueue         Addr
	HciAclDataBuffer Addr
}

type ThreadTable struct {
	NotAckBuffer    Addr
	CliCmdRspBuffer Addr
	OtCmdRspBuffer  Addr
	CliNotBuffer    Addr
}

type LldTestsTable struct {
	CliCmdRspBuffer Addr
	M0CmdBuffer     Addr
}

type BleLldTable struct {
	CmdRspBuffer Addr
	M0CmdBuffer  Addr
}

type ZigbeeTable struct {
	NotifM0ToM4Buffer Addr
	AppliCmdM4ToM0Buf Addr
	RequestM0ToM4Buf  Addr
}

type SysTable struct {
	CmdBuffer Addr
	SysQueue  Addr
}

type MemManagerTable struct {
	SpareBleBuffer     Addr
	SpareSysBuffer     Addr
	BlePool            Addr
	BlePoolSize        uint32
	EvtFreeBufferQueue Addr
	TracesEvtPool      Addr
	TracesPoolSize     uint32
}

type TracesTable struct {
	TracesQueue Addr
}

type Mac802154Table struct {
	CmdRspBuffer Addr
	NotAckBuffer Addr
	EvtQueue     Addr
}

// RefTable is the root of the whole contract. It sits alone at the
// start of RAM_SHARED1; the coprocessor reads it at a fixed address to
// find every other table.
type RefTable struct {
	DeviceInfo Addr
	Ble        Addr
	Thread     Addr
	Sys        Addr
	MemManager Addr
	Traces     Addr
	Mac802154  Addr
	Zigbee     Addr
	LldTests   Addr
	BleLld     Addr
}

const (
	CmdHdrSize = 4
	EvtHdrSize = 3

	evtQueueLength    = 5
	evtMaxPayloadSize = 255
	bleEventFrameSize = EvtHdrSize + evtMaxPayloadSize
)

var (
	PacketHeaderSize = encoding.SizeOf(PacketHeader{})
	CsEvtSize        = encoding.SizeOf(CsEvt{})
	CmdPacketSize    = encoding.SizeOf(CmdPacket{})
	RefTableSize     = encoding.SizeOf(RefTable{})

	// Buffer sizes, per STM32_WPAN mbox_def.h.
	CsBufferSize         = PacketHeaderSize + EvtHdrSize + CsEvtSize
	EvtPoolSize          = evtQueueLength * 4 * divc(PacketHeaderSize+bleEventFrameSize, 4)
	SpareEvtBufSize      = PacketHeaderSize + EvtHdrSize + 255
	HciAclDataBufferSize = PacketHeaderSize + 5 + 251
)

func divc(x, y int) int {
	return (x + y - 1) / y
}
