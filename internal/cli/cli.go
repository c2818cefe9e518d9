// Package cli handles command line interface logic
package cli

import (
	"fmt"

	"github.com/retroenv/flowdisasm/internal/entry"
	"github.com/retroenv/flowdisasm/internal/options"
	"github.com/spf13/cobra"
)

// RunFunc is called with the parsed options of the command line.
type RunFunc func(cmd *cobra.Command, opts options.Program, disasmOptions options.Disassembler, warnings []error) error

// NewCommand returns the root command of the disassembler. The program options
// are bound to the flags, positional arguments are the input file followed by
// optional hex entry point addresses.
func NewCommand(version string, run RunFunc) *cobra.Command {
	var opts options.Program

	cmd := &cobra.Command{
		Use:     "flowdisasm [flags] <file to disassemble> [entry point ...]",
		Short:   "Flow following 6502 disassembler",
		Long:    "Disassembles C64 PRG files and raw 6502 binaries by following the execution flow from all entry points.",
		Version: version,
		Args:    cobra.MinimumNArgs(1),

		SilenceUsage:  true,
		SilenceErrors: true,

		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.EntryPoints = args[1:]

			if err := validateOptions(opts); err != nil {
				return err
			}

			disasmOptions, warnings := CreateDisasmOptions(opts)
			return run(cmd, opts, disasmOptions, warnings)
		},
	}

	readOptionFlags(cmd, &opts)
	return cmd
}

// CreateDisasmOptions creates disassembler options based on program options.
// Entry points that can not be parsed are skipped and returned as warnings.
func CreateDisasmOptions(opts options.Program) (options.Disassembler, []error) {
	disasmOptions := options.NewDisassembler()

	entryPoints, warnings := entry.ParseAddresses(opts.EntryPoints)
	disasmOptions.EntryPoints = entryPoints
	disasmOptions.NoDefaultEntry = opts.NoDefaultEntry

	if opts.ChunkSize > 0 {
		disasmOptions.ChunkSize = opts.ChunkSize
	}
	disasmOptions.DataLabels = opts.DataLabels

	// Apply inverse logic for hex comments and offsets
	disasmOptions.HexComments = !opts.NoHexComments
	disasmOptions.OffsetComments = !opts.NoOffsets

	return disasmOptions, warnings
}

// validateOptions checks option values that can not be expressed by flag types.
func validateOptions(opts options.Program) error {
	if opts.ChunkSize < 0 {
		return fmt.Errorf("invalid chunk size %d", opts.ChunkSize)
	}
	if opts.LoadAddress != "" {
		if _, err := entry.ParseAddress(opts.LoadAddress); err != nil {
			return fmt.Errorf("parsing load address: %w", err)
		}
	}
	return nil
}

func readOptionFlags(cmd *cobra.Command, opts *options.Program) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.Output, "output", "o", "", "name of the output .asm file, printed on console if no name given")
	flags.StringVar(&opts.LoadAddress, "load-address", "", "read input file as raw binary loaded at the given hex address instead of a PRG file")
	flags.BoolVar(&opts.NoDefaultEntry, "no-default-entries", false, "only trace the entry points given as arguments")
	flags.IntVar(&opts.ChunkSize, "chunk-size", options.DefaultChunkSize, "maximum number of bytes per data line")
	flags.BoolVar(&opts.DataLabels, "data-labels", false, "create labels for absolute data references inside the image")
	flags.BoolVar(&opts.NoHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output offsets in comments")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "perform operations quietly")
}
