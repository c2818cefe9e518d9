package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/flowdisasm/internal/entry"
	"github.com/retroenv/flowdisasm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/spf13/cobra"
)

type parsed struct {
	opts          options.Program
	disasmOptions options.Disassembler
	warnings      []error
}

func execute(t *testing.T, args ...string) (parsed, error) {
	t.Helper()

	var result parsed
	cmd := NewCommand("test", func(cmd *cobra.Command, opts options.Program,
		disasmOptions options.Disassembler, warnings []error) error {

		result = parsed{
			opts:          opts,
			disasmOptions: disasmOptions,
			warnings:      warnings,
		}
		return nil
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return result, err
}

func TestParseFlags_DisasmOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Disassembler
	}{
		{
			name: "default flags",
			args: []string{"test.prg"},
			want: options.Disassembler{HexComments: true, OffsetComments: true, ChunkSize: 16},
		},
		{
			name: "nohexcomments flag",
			args: []string{"--nohexcomments", "test.prg"},
			want: options.Disassembler{OffsetComments: true, ChunkSize: 16},
		},
		{
			name: "nooffsets flag",
			args: []string{"--nooffsets", "test.prg"},
			want: options.Disassembler{HexComments: true, ChunkSize: 16},
		},
		{
			name: "chunk size and data labels",
			args: []string{"--chunk-size", "8", "--data-labels", "test.prg"},
			want: options.Disassembler{HexComments: true, OffsetComments: true, ChunkSize: 8, DataLabels: true},
		},
		{
			name: "all output flags",
			args: []string{"--nohexcomments", "--nooffsets", "--no-default-entries", "test.prg"},
			want: options.Disassembler{ChunkSize: 16, NoDefaultEntry: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.args...)
			assert.NoError(t, err)
			assert.Equal(t, "test.prg", got.opts.Input)
			assert.Equal(t, tt.want.HexComments, got.disasmOptions.HexComments)
			assert.Equal(t, tt.want.OffsetComments, got.disasmOptions.OffsetComments)
			assert.Equal(t, tt.want.ChunkSize, got.disasmOptions.ChunkSize)
			assert.Equal(t, tt.want.DataLabels, got.disasmOptions.DataLabels)
			assert.Equal(t, tt.want.NoDefaultEntry, got.disasmOptions.NoDefaultEntry)
			assert.Equal(t, byte(options.DefaultSysToken), got.disasmOptions.SysToken)
		})
	}
}

func TestParseFlags_ProgramOptions(t *testing.T) {
	got, err := execute(t, "-o", "out.asm", "--load-address", "C000", "--debug", "-q", "test.bin")
	assert.NoError(t, err)
	assert.Equal(t, "test.bin", got.opts.Input)
	assert.Equal(t, "out.asm", got.opts.Output)
	assert.Equal(t, "C000", got.opts.LoadAddress)
	assert.True(t, got.opts.Debug)
	assert.True(t, got.opts.Quiet)
}

func TestParseFlags_EntryPoints(t *testing.T) {
	got, err := execute(t, "test.prg", "C000", "$1000", "zz", "0x0810")
	assert.NoError(t, err)
	assert.Equal(t, []string{"C000", "$1000", "zz", "0x0810"}, got.opts.EntryPoints)
	assert.Equal(t, []uint16{0xC000, 0x1000, 0x0810}, got.disasmOptions.EntryPoints)
	assert.Equal(t, 1, len(got.warnings))
	assert.True(t, errors.Is(got.warnings[0], entry.ErrInvalidAddress))
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "missing input file", args: []string{}, expected: "requires at least 1 arg(s)"},
		{name: "unknown flag", args: []string{"--unknown", "test.prg"}, expected: "unknown flag: --unknown"},
		{name: "invalid load address", args: []string{"--load-address", "xyz", "test.prg"}, expected: "parsing load address"},
		{name: "negative chunk size", args: []string{"--chunk-size", "-1", "test.prg"}, expected: "invalid chunk size -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.True(t, err != nil, "expected an error")
			assert.True(t, strings.Contains(err.Error(), tt.expected), err.Error())
		})
	}
}

func TestCreateDisasmOptions(t *testing.T) {
	opts := options.Program{}
	opts.ChunkSize = 0
	opts.EntryPoints = []string{"0801"}

	disasmOptions, warnings := CreateDisasmOptions(opts)
	assert.Equal(t, 0, len(warnings))
	assert.Equal(t, options.DefaultChunkSize, disasmOptions.ChunkSize)
	assert.Equal(t, []uint16{0x0801}, disasmOptions.EntryPoints)
	assert.Equal(t, "ENTRY", disasmOptions.Labels.Entry)
}
