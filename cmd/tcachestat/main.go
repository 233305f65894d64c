/*
Command tcachestat is a small diagnostic CLI, grounded on the pack's
otcli pattern (core/font/opentype/otcli/main.go): a pterm-rendered table
of a live Engine's cache statistics. Not part of the core's public API
surface (spec §6); it exists to exercise pterm per SPEC_FULL.md's DOMAIN
STACK table and to give a human a quick look at cache health without
wiring up a renderer.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/npillmayer/tcache/core/config"
	"github.com/npillmayer/tcache/engine"
	"github.com/npillmayer/tcache/shaping"
	"github.com/pterm/pterm"
)

func main() {
	budget := flag.Int64("bytes", 4*1024*1024, "cache byte budget")
	sample := flag.String("text", "Hello, world!", "sample text to shape once before reporting stats")
	flag.Parse()

	conf := config.DefaultConfig()
	conf.Push(config.CacheMaxBytes, *budget)
	e := engine.New(conf)

	if *sample != "" {
		shapeSample(e, *sample)
	}

	printStats(e)
}

func shapeSample(e *engine.Engine, text string) {
	units := utf16Units(text)
	paint := shaping.SimplePaint{Size: 12, ScaleX: 1}
	e.GetValue(paint, units, 0, len(units), len(units), shaping.DefaultLTR)
}

func utf16Units(s string) []uint16 {
	units := make([]uint16, 0, len(s))
	for _, r := range s {
		if r > 0xFFFF {
			r -= 0x10000
			units = append(units, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		units = append(units, uint16(r))
	}
	return units
}

func printStats(e *engine.Engine) {
	stats := e.Stats()
	pterm.DefaultHeader.WithFullWidth().Println("tcache layout cache")

	data := pterm.TableData{
		{"metric", "value"},
		{"entries", strconv.Itoa(stats.Entries)},
		{"size bytes", strconv.FormatInt(stats.Size, 10)},
		{"max size bytes", strconv.FormatInt(stats.MaxSize, 10)},
		{"hits", strconv.FormatUint(stats.HitCount, 10)},
		{"misses", strconv.FormatUint(stats.MissCount, 10)},
		{"nanoseconds saved", strconv.FormatInt(stats.NanosSaved, 10)},
		{"face cache entries", strconv.Itoa(e.FaceCacheLen())},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
