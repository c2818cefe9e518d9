package opcode

import (
	"strings"

	. "github.com/retroenv/retrogolib/nes/addressing"
	"github.com/retroenv/retrogolib/nes/cpu"
)

// table is indexed by opcode byte, unofficial and unassigned opcodes are left as zero values.
var table = buildTable()

func buildTable() [256]Descriptor {
	var t [256]Descriptor
	for i, opcode := range cpu.Opcodes {
		ins := opcode.Instruction
		if ins == nil || ins.Unofficial {
			continue
		}

		t[i] = Descriptor{
			Mnemonic: strings.ToUpper(ins.Name),
			Mode:     opcode.Addressing,
			Length:   OperandSize(opcode.Addressing) + 1,
			Flow:     flowKind(opcode),
		}
	}
	return t
}

// flowKind maps the instruction of the opcode to the way execution continues after it.
func flowKind(opcode cpu.Opcode) FlowKind {
	ins := opcode.Instruction
	switch {
	case ins == cpu.Jmp && opcode.Addressing == IndirectAddressing:
		return JumpIndirect
	case ins == cpu.Jmp:
		return Jump
	case ins == cpu.Jsr:
		return Call
	case ins == cpu.Brk:
		return Break
	}

	if _, ok := cpu.NotExecutingFollowingOpcodeInstructions[ins.Name]; ok {
		return Return
	}
	if _, ok := cpu.BranchingInstructions[ins.Name]; ok {
		return Branch
	}
	return Normal
}
