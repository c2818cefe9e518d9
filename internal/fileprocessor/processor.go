// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/flowdisasm/internal/disasm"
	"github.com/retroenv/flowdisasm/internal/loader"
	"github.com/retroenv/flowdisasm/internal/options"
	"github.com/retroenv/flowdisasm/internal/writer"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, disasmOptions options.Disassembler) error {
	img, err := loader.New().Load(opts)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	logger.Debug("Image loaded",
		"file", opts.Input,
		"base", fmt.Sprintf("$%04X", img.Base()),
		"size", img.Len())

	dis := disasm.New(logger, img, disasmOptions)
	lst, err := dis.Process(ctx)
	if err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}

	output, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() { _ = output.Close() }()

	buf := bufio.NewWriter(output)
	w := writer.New(buf, writer.Options{
		HexComments:    disasmOptions.HexComments,
		OffsetComments: disasmOptions.OffsetComments,
	})
	if err := w.Write(lst); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	if err := output.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}

	stats := dis.Stats()
	logger.Info("Disassembly finished",
		"instructions", lst.Summary.Instructions,
		"code_bytes", lst.Summary.CodeBytes,
		"labels", lst.Summary.Labels,
		"unknown_opcodes", stats.UnknownOpcodes)
	return nil
}

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("flowdisasm - flow following 6502 disassembler",
		"version", buildinfo.Version(version, commit, date))
}

func createWriter(opts options.Program) (io.WriteCloser, error) {
	if opts.Output == "" {
		return nopCloser{os.Stdout}, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// nopCloser wraps an io.Writer to add a no-op Close method
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
