package listing

import (
	"fmt"
	"strings"

	"github.com/retroenv/flowdisasm/internal/options"
	"github.com/retroenv/flowdisasm/internal/program"
	. "github.com/retroenv/retrogolib/nes/addressing"
)

// Render walks the image of the program in address order and returns its listing.
// The program and its labels are only read.
func Render(app *program.Program, opts Options) *Listing {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = options.DefaultChunkSize
	}

	r := &renderer{
		app:       app,
		chunkSize: chunkSize,
		listing: &Listing{
			Summary: newSummary(app),
		},
	}
	r.render()
	return r.listing
}

type renderer struct {
	app       *program.Program
	chunkSize int
	listing   *Listing

	dataStart uint16
	data      []byte
}

func (r *renderer) render() {
	img := r.app.Image

	for offset := 0; offset < img.Len(); {
		address := img.Address(offset)

		if label, ok := r.app.Labels.Get(address); ok {
			r.flushData()
			r.add(Line{
				Kind:    LabelLine,
				Address: address,
				Label:   label.Name,
			})
		}

		if ins, ok := r.app.Instruction(address); ok && r.app.Type(address) == program.CodeStart {
			r.flushData()
			r.addInstruction(ins)
			offset += len(ins.Data)
			continue
		}

		b, _ := img.Byte(address)
		if len(r.data) == 0 {
			r.dataStart = address
		}
		r.data = append(r.data, b)
		offset++

		if len(r.data) >= r.chunkSize || r.startsLine(offset) {
			r.flushData()
		}
	}
	r.flushData()
}

// startsLine returns whether the offset begins a new label or instruction.
func (r *renderer) startsLine(offset int) bool {
	img := r.app.Image
	if offset >= img.Len() {
		return false
	}
	address := img.Address(offset)
	return r.app.Labels.Has(address) || r.app.Type(address) == program.CodeStart
}

func (r *renderer) addInstruction(ins *program.Instruction) {
	r.add(Line{
		Kind:     InstructionLine,
		Address:  ins.Address,
		Bytes:    ins.Data,
		Mnemonic: ins.Descriptor.Mnemonic,
		Operand:  r.operandText(ins),
	})

	// labels pointing into the operand bytes can not start a line
	for i := 1; i < len(ins.Data); i++ {
		address := ins.Address + uint16(i)
		if label, ok := r.app.Labels.Get(address); ok {
			r.add(Line{
				Kind:    AliasLine,
				Address: address,
				Label:   label.Name,
			})
		}
	}
}

// operandText returns the operand text of the instruction, an address that has a
// label is replaced by the label name.
func (r *renderer) operandText(ins *program.Instruction) string {
	op := ins.Operand
	if op.HasTarget {
		if name, ok := r.app.Labels.Name(op.Target); ok {
			return name
		}
		return op.Text
	}

	address, ok := indexedAddress(ins)
	if !ok {
		return op.Text
	}
	name, ok := r.app.Labels.Name(address)
	if !ok {
		return op.Text
	}
	// keep the indexing suffix, only the address part is replaced
	parts := strings.SplitN(op.Text, ",", 2)
	parts[0] = name
	return strings.Join(parts, ",")
}

// indexedAddress returns the base address of an absolute indexed operand.
func indexedAddress(ins *program.Instruction) (uint16, bool) {
	switch val := ins.Operand.Param.(type) {
	case AbsoluteX:
		return uint16(val), true
	case AbsoluteY:
		return uint16(val), true
	default:
		return 0, false
	}
}

func (r *renderer) flushData() {
	if len(r.data) == 0 {
		return
	}

	data := make([]byte, len(r.data))
	copy(data, r.data)
	r.add(Line{
		Kind:    DataLine,
		Address: r.dataStart,
		Bytes:   data,
		Gloss:   Gloss(data),
	})
	r.data = r.data[:0]
}

func (r *renderer) add(line Line) {
	r.listing.Lines = append(r.listing.Lines, line)
}

// Gloss returns the printable ASCII representation of the data, bytes outside of
// the printable range are replaced by a dot.
func Gloss(data []byte) string {
	buf := &strings.Builder{}
	for _, b := range data {
		if b >= 0x20 && b < 0x7F {
			buf.WriteByte(b)
		} else {
			buf.WriteByte('.')
		}
	}
	return buf.String()
}

// HexBytes returns the data as comma separated hex values.
func HexBytes(data []byte) string {
	buf := &strings.Builder{}
	for i, b := range data {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(buf, "$%02X", b)
	}
	return buf.String()
}
