// Package program contains the result model of a disassembly run: the per address
// classification, the decoded instructions and the labels.
package program

import (
	"fmt"
	"strings"

	"github.com/retroenv/flowdisasm/internal/memory"
	"github.com/retroenv/flowdisasm/internal/opcode"
	"github.com/retroenv/flowdisasm/internal/operand"
	"github.com/retroenv/flowdisasm/internal/symbols"
)

// Instruction is a decoded instruction. It is created once per address by the
// tracer and not modified afterwards.
type Instruction struct {
	Address    uint16
	Data       []byte // all opcode bytes of the instruction
	Descriptor opcode.Descriptor
	Operand    operand.Operand
}

// Next returns the address following the instruction.
func (i *Instruction) Next() uint16 {
	return i.Address + uint16(len(i.Data))
}

// HexCodeComment returns the opcode bytes as hex values separated by spaces.
func (i *Instruction) HexCodeComment() string {
	buf := &strings.Builder{}
	for j, b := range i.Data {
		if j > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%02X", b)
	}
	return buf.String()
}

// Program is the result of tracing an image.
type Program struct {
	Image   *memory.Image
	Offsets []OffsetType // classification indexed by offset from the image base
	Labels  *symbols.Manager
	Entries []uint16 // entry points that were traced, in order

	instructions map[uint16]*Instruction
}

// New creates a new program for the image with all offsets unvisited.
func New(img *memory.Image, labels *symbols.Manager) *Program {
	return &Program{
		Image:        img,
		Offsets:      make([]OffsetType, img.Len()),
		Labels:       labels,
		instructions: map[uint16]*Instruction{},
	}
}

// Type returns the classification of the address. Addresses outside of the image
// are reported as unvisited.
func (p *Program) Type(address uint16) OffsetType {
	if !p.Image.Contains(address) {
		return Unvisited
	}
	return p.Offsets[p.Image.Offset(address)]
}

// SetType sets the classification of the address.
func (p *Program) SetType(address uint16, typ OffsetType) {
	p.Offsets[p.Image.Offset(address)] = typ
}

// AddInstruction stores the instruction and classifies all its bytes as code.
func (p *Program) AddInstruction(ins *Instruction) {
	p.instructions[ins.Address] = ins
	for i := range ins.Data {
		typ := CodeContinuation
		if i == 0 {
			typ = CodeStart
		}
		p.SetType(ins.Address+uint16(i), typ)
	}
}

// Instruction returns the instruction starting at the address.
func (p *Program) Instruction(address uint16) (*Instruction, bool) {
	ins, ok := p.instructions[address]
	return ins, ok
}

// InstructionCount returns the number of decoded instructions.
func (p *Program) InstructionCount() int {
	return len(p.instructions)
}

// CountType returns the number of offsets of the given type.
func (p *Program) CountType(typ OffsetType) int {
	count := 0
	for _, t := range p.Offsets {
		if t == typ {
			count++
		}
	}
	return count
}

// CodeBytes returns the number of bytes classified as code.
func (p *Program) CodeBytes() int {
	return p.CountType(CodeStart) + p.CountType(CodeContinuation)
}
