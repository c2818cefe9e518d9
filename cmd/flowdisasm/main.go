// Package main implements the main entry point for a flow following 6502 disassembler
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/retroenv/flowdisasm/internal/cli"
	"github.com/retroenv/flowdisasm/internal/config"
	"github.com/retroenv/flowdisasm/internal/fileprocessor"
	"github.com/retroenv/flowdisasm/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewCommand(buildinfo.Version(version, commit, date), run)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger := config.CreateLogger(false, false)
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		stop()
		logger.Fatal("Disassembling failed", log.Err(err))
	}
}

func run(cmd *cobra.Command, opts options.Program, disasmOptions options.Disassembler, warnings []error) error {
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	for _, err := range warnings {
		logger.Warn("Skipping entry point", log.Err(err))
	}

	return fileprocessor.ProcessFile(cmd.Context(), logger, opts, disasmOptions)
}
