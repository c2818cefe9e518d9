package disasm

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/retroenv/flowdisasm/internal/memory"
	"github.com/retroenv/flowdisasm/internal/options"
	"github.com/retroenv/flowdisasm/internal/writer"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var testCodeDefault = []byte{
	// BASIC line: 10 SYS2061
	0x0B, 0x08, 0x0A, 0x00, 0x9E, 0x32, 0x30, 0x36, 0x31, 0x00, 0x00, 0x00,
	0xA2, 0x00, // ldx #$00
	0xBD, 0x1B, 0x08, // lda $081B,X
	0xF0, 0x06, // beq $081A
	0x20, 0xD2, 0xFF, // jsr $FFD2
	0xE8,       // inx
	0xD0, 0xF5, // bne $080F
	0x60,             // rts
	0x48, 0x49, 0x00, // "HI"
}

var expectedDefault = `; Flow-following disassembly
; Load address: $0801
; End address: $081E
; Size: 29 bytes
; Code bytes: 14
; Entry points: $0801, $080D


ENTRY_0801:
    .BYTE $0B, $08, $0A, $00, $9E, $32, $30, $36, $31, $00, $00, $00 ; $0801 .....2061...

START_080D:
    LDX  #$00                  ; $080D A2 00

L_080F:
    LDA  $081B,X               ; $080F BD 1B 08
    BEQ  L_081A                ; $0812 F0 06
    JSR  $FFD2                 ; $0814 20 D2 FF
    INX                        ; $0817 E8
    BNE  L_080F                ; $0818 D0 F5

L_081A:
    RTS                        ; $081A 60
    .BYTE $48, $49, $00        ; $081B HI.
`

var expectedNoOffsetNoHex = `; Flow-following disassembly
; Load address: $0801
; End address: $081E
; Size: 29 bytes
; Code bytes: 14
; Entry points: $0801, $080D


ENTRY_0801:
    .BYTE $0B, $08, $0A, $00, $9E, $32, $30, $36, $31, $00, $00, $00 ; .....2061...

START_080D:
    LDX  #$00

L_080F:
    LDA  $081B,X
    BEQ  L_081A
    JSR  $FFD2
    INX
    BNE  L_080F

L_081A:
    RTS
    .BYTE $48, $49, $00        ; HI.
`

var expectedDataLabels = `; Flow-following disassembly
; Load address: $0801
; End address: $081E
; Size: 29 bytes
; Code bytes: 14
; Entry points: $080D

    .BYTE $0B, $08, $0A, $00, $9E, $32, $30, $36, $31, $00, $00, $00 ; .....2061...

ENTRY_080D:
    LDX  #$00

L_080F:
    LDA  D_081B,X
    BEQ  L_081A
    JSR  $FFD2
    INX
    BNE  L_080F

L_081A:
    RTS

D_081B:
    .BYTE $48, $49, $00        ; HI.
`

func testProgram(t *testing.T, opts options.Disassembler, code []byte, base uint16) *Disasm {
	t.Helper()

	img, err := memory.New(code, base)
	assert.NoError(t, err)
	return New(log.NewNop(), img, opts)
}

func TestDisasm(t *testing.T) {
	tests := []struct {
		Name     string
		Setup    func(opts *options.Disassembler)
		Input    []byte
		Expected string
	}{
		{
			Name:     "default",
			Setup:    func(opts *options.Disassembler) {},
			Input:    testCodeDefault,
			Expected: expectedDefault,
		},
		{
			Name: "no hex no address",
			Setup: func(opts *options.Disassembler) {
				opts.OffsetComments = false
				opts.HexComments = false
			},
			Input:    testCodeDefault,
			Expected: expectedNoOffsetNoHex,
		},
		{
			Name: "data labels",
			Setup: func(opts *options.Disassembler) {
				opts.OffsetComments = false
				opts.HexComments = false
				opts.DataLabels = true
				opts.NoDefaultEntry = true
				opts.EntryPoints = []uint16{0x080D}
			},
			Input:    testCodeDefault,
			Expected: expectedDataLabels,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			opts := options.NewDisassembler()
			test.Setup(&opts)

			dis := testProgram(t, opts, test.Input, 0x0801)
			lst, err := dis.Process(context.Background())
			assert.NoError(t, err)

			var buffer bytes.Buffer
			bufWriter := bufio.NewWriter(&buffer)
			w := writer.New(bufWriter, writer.Options{
				HexComments:    opts.HexComments,
				OffsetComments: opts.OffsetComments,
			})
			assert.NoError(t, w.Write(lst))
			assert.NoError(t, bufWriter.Flush())

			assert.Equal(t, test.Expected, buffer.String())
		})
	}
}

func TestDisasmEntryPoints(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(opts *options.Disassembler)
		expected []uint16
	}{
		{
			name:     "load and sys address",
			setup:    func(opts *options.Disassembler) {},
			expected: []uint16{0x0801, 0x080D},
		},
		{
			name: "explicit entry points supplement defaults",
			setup: func(opts *options.Disassembler) {
				opts.EntryPoints = []uint16{0x081B, 0x080D, 0x081B}
			},
			expected: []uint16{0x0801, 0x080D, 0x081B},
		},
		{
			name: "no default entry points",
			setup: func(opts *options.Disassembler) {
				opts.NoDefaultEntry = true
				opts.EntryPoints = []uint16{0x0817}
			},
			expected: []uint16{0x0817},
		},
		{
			name: "entry points outside image are dropped",
			setup: func(opts *options.Disassembler) {
				opts.NoDefaultEntry = true
				opts.EntryPoints = []uint16{0xC000, 0x080D}
			},
			expected: []uint16{0x080D},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			opts := options.NewDisassembler()
			test.setup(&opts)

			dis := testProgram(t, opts, testCodeDefault, 0x0801)
			lst, err := dis.Process(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, test.expected, lst.Summary.EntryPoints)
		})
	}
}

func TestDisasmNoEntryPoints(t *testing.T) {
	opts := options.NewDisassembler()
	opts.NoDefaultEntry = true

	dis := testProgram(t, opts, testCodeDefault, 0x0801)
	lst, err := dis.Process(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 0, lst.Summary.CodeBytes)
	assert.Equal(t, 0, lst.Summary.Labels)
	for _, line := range lst.Lines {
		assert.Equal(t, "", line.Mnemonic)
	}
}

func TestDisasmSummary(t *testing.T) {
	dis := testProgram(t, options.NewDisassembler(), testCodeDefault, 0x0801)
	lst, err := dis.Process(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, uint16(0x0801), lst.Summary.Base)
	assert.Equal(t, 0x081E, lst.Summary.End)
	assert.Equal(t, 29, lst.Summary.Size)
	assert.Equal(t, 14, lst.Summary.CodeBytes)
	assert.Equal(t, 1, lst.Summary.DataBytes)
	assert.Equal(t, 7, lst.Summary.Instructions)
	assert.Equal(t, 4, lst.Summary.Labels)
	assert.Equal(t, 1, dis.Stats().UnknownOpcodes)
}

func TestDisasmCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dis := testProgram(t, options.NewDisassembler(), testCodeDefault, 0x0801)
	_, err := dis.Process(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDisasmDeterministic(t *testing.T) {
	render := func() string {
		dis := testProgram(t, options.NewDisassembler(), testCodeDefault, 0x0801)
		lst, err := dis.Process(context.Background())
		assert.NoError(t, err)

		var buffer bytes.Buffer
		assert.NoError(t, writer.New(&buffer, writer.Options{HexComments: true}).Write(lst))
		return buffer.String()
	}

	assert.Equal(t, render(), render())
}
