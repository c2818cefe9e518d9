// Package trace implements the flow following code tracer. Starting from entry
// points it decodes one instruction at a time, classifies the bytes of every
// reached instruction as code and follows the control flow of the instruction.
package trace

import (
	"context"
	"fmt"

	"github.com/retroenv/flowdisasm/internal/memory"
	"github.com/retroenv/flowdisasm/internal/opcode"
	"github.com/retroenv/flowdisasm/internal/operand"
	"github.com/retroenv/flowdisasm/internal/options"
	"github.com/retroenv/flowdisasm/internal/program"
	"github.com/retroenv/flowdisasm/internal/symbols"
	"github.com/retroenv/retrogolib/log"
	. "github.com/retroenv/retrogolib/nes/addressing"
)

// Stats contains counters of a trace run.
type Stats struct {
	Enqueued       int // addresses added to the worklist
	Visited        int // addresses popped from the worklist
	Decoded        int // instructions decoded
	UnknownOpcodes int // paths stopped at an undocumented opcode
	Truncated      int // paths dropped at an instruction exceeding the image
	Overlaps       int // paths dropped at an instruction overlapping already decoded code
}

// Tracer follows the execution flow of an image.
type Tracer struct {
	logger  *log.Logger
	img     *memory.Image
	options options.Disassembler

	app      *program.Program
	worklist []uint16
	stats    Stats
}

// New creates a new tracer for the image.
func New(logger *log.Logger, img *memory.Image, opts options.Disassembler) *Tracer {
	return &Tracer{
		logger:  logger,
		img:     img,
		options: opts,
		app:     program.New(img, symbols.New(opts.Labels)),
	}
}

// AddEntry adds an entry point with a label of the given kind. Addresses outside of
// the image are ignored and false is returned.
func (t *Tracer) AddEntry(address uint16, kind symbols.Kind) bool {
	if !t.img.Contains(address) {
		t.logger.Warn("Ignoring entry point outside of image",
			"address", fmt.Sprintf("$%04X", address),
			"base", fmt.Sprintf("$%04X", t.img.Base()),
			"end", fmt.Sprintf("$%04X", t.img.End()))
		return false
	}

	t.app.Labels.Add(address, kind)
	t.app.Entries = append(t.app.Entries, address)
	t.enqueue(address)
	return true
}

// Run processes the worklist until it is empty. Every address can become the start
// of an instruction only once, which bounds the number of enqueued addresses by the
// image size. The context is checked between instructions.
func (t *Tracer) Run(ctx context.Context) error {
	for len(t.worklist) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("tracing execution flow: %w", err)
		}

		address := t.worklist[0]
		t.worklist = t.worklist[1:]
		t.visit(address)
	}

	t.logger.Debug("Execution flow traced",
		"enqueued", t.stats.Enqueued,
		"visited", t.stats.Visited,
		"instructions", t.stats.Decoded,
		"unknown_opcodes", t.stats.UnknownOpcodes,
		"truncated", t.stats.Truncated,
		"overlaps", t.stats.Overlaps)
	return nil
}

// Program returns the traced program.
func (t *Tracer) Program() *program.Program {
	return t.app
}

// Stats returns the counters of the run.
func (t *Tracer) Stats() Stats {
	return t.stats
}

func (t *Tracer) enqueue(address uint16) {
	if !t.img.Contains(address) {
		return
	}
	t.worklist = append(t.worklist, address)
	t.stats.Enqueued++
}

// visit decodes the instruction at the address and enqueues its successors.
func (t *Tracer) visit(address uint16) {
	t.stats.Visited++

	if !t.img.Contains(address) || t.app.Type(address).IsCode() {
		return
	}

	b, _ := t.img.Byte(address)
	desc, ok := opcode.Lookup(b)
	if !ok {
		// consider an unknown instruction as data and stop following this path
		if t.app.Type(address) == program.Unvisited {
			t.app.SetType(address, program.DataOffset)
		}
		t.stats.UnknownOpcodes++
		t.logger.Debug("Unknown opcode",
			"address", fmt.Sprintf("$%04X", address),
			"opcode", fmt.Sprintf("$%02X", b))
		return
	}

	data, ok := t.img.Bytes(address, desc.Length)
	if !ok {
		t.stats.Truncated++
		t.logger.Debug("Instruction exceeds image",
			"address", fmt.Sprintf("$%04X", address),
			"instruction", desc.Mnemonic)
		return
	}

	if t.overlapsCode(address, desc.Length) {
		// first classification wins, the path is dropped without classifying it
		t.stats.Overlaps++
		t.logger.Debug("Instruction overlaps code",
			"address", fmt.Sprintf("$%04X", address),
			"instruction", desc.Mnemonic)
		return
	}

	op, err := operand.Format(desc.Mode, data[1:], address)
	if err != nil {
		// can only happen for an inconsistent opcode table
		t.logger.Warn("Formatting operand", "address", fmt.Sprintf("$%04X", address), log.Err(err))
		return
	}

	ins := &program.Instruction{
		Address:    address,
		Data:       data,
		Descriptor: desc,
		Operand:    op,
	}
	t.app.AddInstruction(ins)
	t.stats.Decoded++

	t.addLabels(ins)

	for _, next := range successors(ins) {
		t.enqueue(next)
	}
}

// overlapsCode returns whether any operand byte of an instruction at the address
// is already part of another instruction. Operand bytes classified as data by a
// failed decode can still be claimed by the instruction.
func (t *Tracer) overlapsCode(address uint16, length int) bool {
	for i := 1; i < length; i++ {
		if t.app.Type(address + uint16(i)).IsCode() {
			return true
		}
	}
	return false
}

// addLabels registers labels for the addresses that the instruction references.
func (t *Tracer) addLabels(ins *program.Instruction) {
	flow := ins.Descriptor.Flow

	if flow.UsesTarget() && ins.Operand.HasTarget && t.img.Contains(ins.Operand.Target) {
		kind := symbols.Target
		if flow == opcode.Call {
			kind = symbols.Subroutine
		}
		t.app.Labels.Add(ins.Operand.Target, kind)
		return
	}

	if !t.options.DataLabels || flow != opcode.Normal {
		return
	}
	address, ok := dataReference(ins.Operand.Param)
	if ok && t.img.Contains(address) {
		t.app.Labels.Add(address, symbols.DataReference)
	}
}

// successors returns the addresses that execution can continue at after the instruction.
func successors(ins *program.Instruction) []uint16 {
	next := ins.Next()
	op := ins.Operand

	switch ins.Descriptor.Flow {
	case opcode.Normal:
		return []uint16{next}

	case opcode.Branch, opcode.Call:
		if op.HasTarget {
			return []uint16{next, op.Target}
		}
		return []uint16{next}

	case opcode.Jump:
		if op.HasTarget {
			return []uint16{op.Target}
		}
		return nil

	default: // indirect jump, return, break
		return nil
	}
}

// dataReference returns the address of an absolute data access parameter.
func dataReference(param any) (uint16, bool) {
	switch val := param.(type) {
	case Absolute:
		return uint16(val), true
	case AbsoluteX:
		return uint16(val), true
	case AbsoluteY:
		return uint16(val), true
	default:
		return 0, false
	}
}
