// Package opcode contains the documented 6502 opcode table used by the flow tracer.
package opcode

import (
	. "github.com/retroenv/retrogolib/nes/addressing"
)

// Descriptor describes a documented opcode.
type Descriptor struct {
	Mnemonic string
	Mode     Mode
	Length   int // encoded length including the opcode byte, 1 to 3
	Flow     FlowKind
}

// Defined returns whether the descriptor belongs to a documented opcode.
func (d Descriptor) Defined() bool {
	return d.Length > 0
}

// Lookup returns the descriptor of the opcode byte. Byte values without a documented
// instruction return false.
func Lookup(b byte) (Descriptor, bool) {
	d := table[b]
	return d, d.Defined()
}

// OperandSize returns the count of operand bytes that follow the opcode byte for the
// given addressing mode.
func OperandSize(mode Mode) int {
	switch mode {
	case ImpliedAddressing, AccumulatorAddressing:
		return 0
	case ImmediateAddressing, ZeroPageAddressing, ZeroPageXAddressing, ZeroPageYAddressing,
		RelativeAddressing, IndirectXAddressing, IndirectYAddressing:
		return 1
	case AbsoluteAddressing, AbsoluteXAddressing, AbsoluteYAddressing, IndirectAddressing:
		return 2
	default:
		return 0
	}
}
