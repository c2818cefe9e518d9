// Package options contains the program options.
package options

import (
	"github.com/retroenv/flowdisasm/internal/symbols"
)

// DefaultChunkSize is the maximum number of data bytes per data line.
const DefaultChunkSize = 16

// DefaultSysToken is the C64 BASIC token of the SYS command.
const DefaultSysToken = 0x9E

// Parameters contains file path options.
type Parameters struct {
	Input  string
	Output string
}

// Flags contains behavior options.
type Flags struct {
	LoadAddress    string // treat input as raw binary loaded at this hex address
	EntryPoints    []string
	NoDefaultEntry bool
	Debug          bool
	Quiet          bool
}

// OutputFlags contains output formatting options.
type OutputFlags struct {
	ChunkSize     int
	DataLabels    bool
	NoHexComments bool
	NoOffsets     bool
}

// Program options of the disassembler.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// Disassembler defines options to control the disassembler.
type Disassembler struct {
	EntryPoints    []uint16 // explicit entry points, traced after the default ones
	NoDefaultEntry bool     // do not add the load address and the SYS address as entry points
	SysToken       byte     // token that is followed by a decimal start address

	ChunkSize  int  // maximum number of data bytes per data line
	DataLabels bool // label absolute data references inside the image

	HexComments    bool
	OffsetComments bool

	Labels symbols.Prefixes
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{
		SysToken:  DefaultSysToken,
		ChunkSize: DefaultChunkSize,

		HexComments:    true,
		OffsetComments: true,

		Labels: symbols.DefaultPrefixes(),
	}
}
