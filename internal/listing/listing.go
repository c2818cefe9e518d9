// Package listing renders a traced program into an ordered list of label,
// instruction and data lines.
package listing

import (
	"github.com/retroenv/flowdisasm/internal/program"
)

// LineKind defines the type of a listing line.
type LineKind uint8

// line kinds.
const (
	LabelLine       LineKind = iota // label definition at the line address
	InstructionLine                 // decoded instruction
	AliasLine                       // label inside of an instruction, defined by its address
	DataLine                        // run of data bytes
)

// Line is a single line of the listing.
type Line struct {
	Kind    LineKind
	Address uint16
	Bytes   []byte // instruction or data bytes

	Label    string // label name for label and alias lines
	Mnemonic string
	Operand  string // operand text with the target replaced by its label name
	Gloss    string // printable representation of data bytes
}

// Summary contains the metadata of a listing.
type Summary struct {
	Base         uint16
	End          int
	Size         int
	CodeBytes    int
	DataBytes    int // bytes reached by tracing that could not be decoded
	Instructions int
	Labels       int
	EntryPoints  []uint16
}

// Listing is the rendered result of a disassembly run.
type Listing struct {
	Summary Summary
	Lines   []Line
}

// Options of the renderer.
type Options struct {
	ChunkSize int // maximum number of bytes per data line
}

func newSummary(app *program.Program) Summary {
	img := app.Image
	entries := make([]uint16, len(app.Entries))
	copy(entries, app.Entries)

	return Summary{
		Base:         img.Base(),
		End:          img.End(),
		Size:         img.Len(),
		CodeBytes:    app.CodeBytes(),
		DataBytes:    app.CountType(program.DataOffset),
		Instructions: app.InstructionCount(),
		Labels:       app.Labels.Len(),
		EntryPoints:  entries,
	}
}
