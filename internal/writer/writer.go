// Package writer implements writing of a listing as assembly text.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/flowdisasm/internal/listing"
)

const codeColumnWidth = 26

// Writer writes a listing as text.
type Writer struct {
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	HexComments    bool // output opcode bytes as hex values in comments
	OffsetComments bool // output addresses in comments
}

// New creates a new writer.
func New(writer io.Writer, options Options) *Writer {
	return &Writer{
		options: options,
		writer:  writer,
	}
}

// Write writes the header and all lines of the listing.
func (w Writer) Write(lst *listing.Listing) error {
	if err := w.WriteCommentHeader(lst.Summary); err != nil {
		return err
	}

	for _, line := range lst.Lines {
		var err error
		switch line.Kind {
		case listing.LabelLine:
			err = w.writeLabel(line)
		case listing.InstructionLine:
			err = w.writeInstruction(line)
		case listing.AliasLine:
			_, err = fmt.Fprintf(w.writer, "%s = $%04X\n", line.Label, line.Address)
		case listing.DataLine:
			err = w.writeData(line)
		default:
			err = fmt.Errorf("unsupported line kind %d", line.Kind)
		}
		if err != nil {
			return fmt.Errorf("writing line at $%04X: %w", line.Address, err)
		}
	}
	return nil
}

// WriteCommentHeader writes the image bounds and trace summary as comments to the output.
func (w Writer) WriteCommentHeader(summary listing.Summary) error {
	entries := make([]string, 0, len(summary.EntryPoints))
	for _, address := range summary.EntryPoints {
		entries = append(entries, fmt.Sprintf("$%04X", address))
	}
	if len(entries) == 0 {
		entries = append(entries, "none")
	}

	header := []string{
		"; Flow-following disassembly",
		fmt.Sprintf("; Load address: $%04X", summary.Base),
		fmt.Sprintf("; End address: $%04X", summary.End),
		fmt.Sprintf("; Size: %d bytes", summary.Size),
		fmt.Sprintf("; Code bytes: %d", summary.CodeBytes),
		fmt.Sprintf("; Entry points: %s", strings.Join(entries, ", ")),
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(w.writer, line); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w.writer); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

func (w Writer) writeLabel(line listing.Line) error {
	if _, err := fmt.Fprintf(w.writer, "\n%s:\n", line.Label); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

func (w Writer) writeInstruction(line listing.Line) error {
	code := line.Mnemonic
	if line.Operand != "" {
		code = fmt.Sprintf("%-4s %s", line.Mnemonic, line.Operand)
	}

	var comment []string
	if w.options.OffsetComments {
		comment = append(comment, fmt.Sprintf("$%04X", line.Address))
	}
	if w.options.HexComments {
		comment = append(comment, hexCodeComment(line.Bytes))
	}
	return w.writeCodeLine(code, strings.Join(comment, " "))
}

func (w Writer) writeData(line listing.Line) error {
	code := ".BYTE " + listing.HexBytes(line.Bytes)
	comment := line.Gloss
	if w.options.OffsetComments {
		comment = fmt.Sprintf("$%04X %s", line.Address, line.Gloss)
	}
	return w.writeCodeLine(code, comment)
}

func (w Writer) writeCodeLine(code, comment string) error {
	var err error
	if comment == "" {
		_, err = fmt.Fprintf(w.writer, "    %s\n", code)
	} else {
		_, err = fmt.Fprintf(w.writer, "    %-*s ; %s\n", codeColumnWidth, code, comment)
	}
	if err != nil {
		return fmt.Errorf("writing code line: %w", err)
	}
	return nil
}

func hexCodeComment(data []byte) string {
	parts := make([]string, 0, len(data))
	for _, b := range data {
		parts = append(parts, fmt.Sprintf("%02X", b))
	}
	return strings.Join(parts, " ")
}
