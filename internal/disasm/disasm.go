// Package disasm implements a flow following 6502 disassembler.
package disasm

import (
	"context"
	"fmt"

	"github.com/retroenv/flowdisasm/internal/entry"
	"github.com/retroenv/flowdisasm/internal/listing"
	"github.com/retroenv/flowdisasm/internal/memory"
	"github.com/retroenv/flowdisasm/internal/options"
	"github.com/retroenv/flowdisasm/internal/symbols"
	"github.com/retroenv/flowdisasm/internal/trace"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/exp/slices"
)

// Disasm implements a disassembler.
type Disasm struct {
	logger  *log.Logger
	options options.Disassembler
	img     *memory.Image

	tracer *trace.Tracer
}

// entryPoint is an entry address with the kind of label it gets.
type entryPoint struct {
	address uint16
	kind    symbols.Kind
}

// New creates a new disassembler for the image.
func New(logger *log.Logger, img *memory.Image, opts options.Disassembler) *Disasm {
	return &Disasm{
		logger:  logger,
		options: opts,
		img:     img,
		tracer:  trace.New(logger, img, opts),
	}
}

// Process traces the execution flow starting at all entry points and returns
// the rendered listing.
func (dis *Disasm) Process(ctx context.Context) (*listing.Listing, error) {
	for _, ep := range dis.entryPoints() {
		dis.tracer.AddEntry(ep.address, ep.kind)
	}

	if err := dis.tracer.Run(ctx); err != nil {
		return nil, err
	}

	app := dis.tracer.Program()
	if len(app.Entries) == 0 {
		dis.logger.Warn("No entry point inside of image, output will only contain data")
	}

	lst := listing.Render(app, listing.Options{
		ChunkSize: dis.options.ChunkSize,
	})

	dis.logger.Debug("Listing rendered",
		"lines", len(lst.Lines),
		"code_bytes", lst.Summary.CodeBytes,
		"labels", lst.Summary.Labels)
	return lst, nil
}

// Stats returns the counters of the trace run.
func (dis *Disasm) Stats() trace.Stats {
	return dis.tracer.Stats()
}

// entryPoints returns the deduplicated entry points to trace. By default the load
// address and a detected SYS address are traced first, followed by the explicit
// entry points.
func (dis *Disasm) entryPoints() []entryPoint {
	var entries []entryPoint
	var seen []uint16

	add := func(address uint16, kind symbols.Kind) {
		if slices.Contains(seen, address) {
			return
		}
		seen = append(seen, address)
		entries = append(entries, entryPoint{address: address, kind: kind})
	}

	if !dis.options.NoDefaultEntry {
		add(dis.img.Base(), symbols.Entry)

		locator := entry.NewLocator(dis.options.SysToken)
		if address, ok := locator.Scan(dis.img); ok {
			dis.logger.Debug("Start address found",
				"address", fmt.Sprintf("$%04X", address))
			add(address, symbols.Start)
		}
	}

	for _, address := range dis.options.EntryPoints {
		add(address, symbols.Entry)
	}
	return entries
}
