// Package operand formats 6502 instruction operands and resolves statically known
// destination addresses.
package operand

import (
	"errors"
	"fmt"

	"github.com/retroenv/flowdisasm/internal/opcode"
	. "github.com/retroenv/retrogolib/nes/addressing"
)

// ErrOperandSize is returned when the operand byte count does not match the addressing mode.
var ErrOperandSize = errors.New("operand size does not match addressing mode")

// Operand is a formatted instruction operand.
type Operand struct {
	Text  string
	Param any // typed addressing parameter, nil for implied addressing

	Target    uint16 // decoded address, only valid if HasTarget is set
	HasTarget bool

	Pointer    uint16 // pointer address of indirect jumps, only valid if HasPointer is set
	HasPointer bool
}

type formatterFunc func(operand []byte, address uint16) Operand

var formatters = map[Mode]formatterFunc{
	ImpliedAddressing:     formatImplied,
	AccumulatorAddressing: formatAccumulator,
	ImmediateAddressing:   formatImmediate,
	ZeroPageAddressing:    formatZeroPage,
	ZeroPageXAddressing:   formatZeroPageX,
	ZeroPageYAddressing:   formatZeroPageY,
	AbsoluteAddressing:    formatAbsolute,
	AbsoluteXAddressing:   formatAbsoluteX,
	AbsoluteYAddressing:   formatAbsoluteY,
	IndirectAddressing:    formatIndirect,
	IndirectXAddressing:   formatIndirectX,
	IndirectYAddressing:   formatIndirectY,
	RelativeAddressing:    formatRelative,
}

// Format returns the operand text of an instruction at the given address. Absolute and
// relative operands resolve a target address, whether it is used as a control flow
// destination is decided by the caller based on the flow kind of the instruction.
func Format(mode Mode, operand []byte, address uint16) (Operand, error) {
	fun, ok := formatters[mode]
	if !ok {
		return Operand{}, fmt.Errorf("unsupported addressing mode %d", mode)
	}
	if expected := opcode.OperandSize(mode); len(operand) != expected {
		return Operand{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrOperandSize, expected, len(operand))
	}
	return fun(operand, address), nil
}

// RelativeTarget returns the destination of a relative branch at the given address.
// The displacement is relative to the address following the 2 byte branch instruction,
// all arithmetic wraps around in the 16 bit address space.
func RelativeTarget(address uint16, displacement byte) uint16 {
	offset := int16(int8(displacement))
	return address + 2 + uint16(offset)
}

func word(operand []byte) uint16 {
	return uint16(operand[1])<<8 | uint16(operand[0])
}

func formatImplied([]byte, uint16) Operand {
	return Operand{}
}

func formatAccumulator([]byte, uint16) Operand {
	return Operand{Param: Accumulator(0)}
}

func formatImmediate(operand []byte, _ uint16) Operand {
	return Operand{
		Text:  fmt.Sprintf("#$%02X", operand[0]),
		Param: int(operand[0]),
	}
}

func formatZeroPage(operand []byte, _ uint16) Operand {
	return Operand{
		Text:  fmt.Sprintf("$%02X", operand[0]),
		Param: ZeroPage(operand[0]),
	}
}

func formatZeroPageX(operand []byte, _ uint16) Operand {
	return Operand{
		Text:  fmt.Sprintf("$%02X,X", operand[0]),
		Param: ZeroPageX(operand[0]),
	}
}

func formatZeroPageY(operand []byte, _ uint16) Operand {
	return Operand{
		Text:  fmt.Sprintf("$%02X,Y", operand[0]),
		Param: ZeroPageY(operand[0]),
	}
}

func formatAbsolute(operand []byte, _ uint16) Operand {
	w := word(operand)
	return Operand{
		Text:      fmt.Sprintf("$%04X", w),
		Param:     Absolute(w),
		Target:    w,
		HasTarget: true,
	}
}

func formatAbsoluteX(operand []byte, _ uint16) Operand {
	w := word(operand)
	return Operand{
		Text:  fmt.Sprintf("$%04X,X", w),
		Param: AbsoluteX(w),
	}
}

func formatAbsoluteY(operand []byte, _ uint16) Operand {
	w := word(operand)
	return Operand{
		Text:  fmt.Sprintf("$%04X,Y", w),
		Param: AbsoluteY(w),
	}
}

// formatIndirect never resolves a target, the destination of an indirect jump
// requires reading the pointer at runtime.
func formatIndirect(operand []byte, _ uint16) Operand {
	w := word(operand)
	return Operand{
		Text:       fmt.Sprintf("($%04X)", w),
		Param:      Indirect(w),
		Pointer:    w,
		HasPointer: true,
	}
}

func formatIndirectX(operand []byte, _ uint16) Operand {
	return Operand{
		Text:  fmt.Sprintf("($%02X,X)", operand[0]),
		Param: IndirectX(operand[0]),
	}
}

func formatIndirectY(operand []byte, _ uint16) Operand {
	return Operand{
		Text:  fmt.Sprintf("($%02X),Y", operand[0]),
		Param: IndirectY(operand[0]),
	}
}

func formatRelative(operand []byte, address uint16) Operand {
	target := RelativeTarget(address, operand[0])
	return Operand{
		Text:      fmt.Sprintf("$%04X", target),
		Param:     Absolute(target),
		Target:    target,
		HasTarget: true,
	}
}
