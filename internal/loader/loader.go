// Package loader handles program file loading operations.
package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/flowdisasm/internal/entry"
	"github.com/retroenv/flowdisasm/internal/memory"
	"github.com/retroenv/flowdisasm/internal/options"
)

const prgHeaderSize = 2

// ErrHeaderTooShort is returned for PRG files that do not contain the load address header.
var ErrHeaderTooShort = errors.New("file too short for load address header")

// Loader handles loading program files from disk.
type Loader struct{}

// New creates a new program loader.
func New() *Loader {
	return &Loader{}
}

// Load loads the input file of the options as memory image. If a load address is
// set the whole file is treated as raw binary loaded at that address, otherwise
// the file is parsed as PRG file.
func (l *Loader) Load(opts options.Program) (*memory.Image, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	if opts.LoadAddress == "" {
		img, err := FromPRG(file)
		if err != nil {
			return nil, fmt.Errorf("loading PRG file %s: %w", opts.Input, err)
		}
		return img, nil
	}

	base, err := entry.ParseAddress(opts.LoadAddress)
	if err != nil {
		return nil, fmt.Errorf("parsing load address: %w", err)
	}
	img, err := FromBinary(file, base)
	if err != nil {
		return nil, fmt.Errorf("loading binary file %s: %w", opts.Input, err)
	}
	return img, nil
}

// FromPRG reads a PRG file, the first two bytes contain the little endian load
// address of the following data.
func FromPRG(reader io.Reader) (*memory.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if len(data) < prgHeaderSize {
		return nil, ErrHeaderTooShort
	}

	base := binary.LittleEndian.Uint16(data)
	img, err := memory.New(data[prgHeaderSize:], base)
	if err != nil {
		return nil, fmt.Errorf("creating image: %w", err)
	}
	return img, nil
}

// FromBinary reads a raw binary that is loaded at the given base address.
func FromBinary(reader io.Reader, base uint16) (*memory.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	img, err := memory.New(data, base)
	if err != nil {
		return nil, fmt.Errorf("creating image: %w", err)
	}
	return img, nil
}
