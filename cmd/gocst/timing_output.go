package main

import (
	"fmt"
	"io"
	"time"

	"gocst/internal/driver"
	"gocst/internal/observ"
)

func printParseTimings(out io.Writer, results []*driver.ParseResult, timer *observ.Timer) {
	if out == nil {
		return
	}
	var (
		parsed, cached, tokens int
		inParser               time.Duration
	)
	for _, res := range results {
		if res == nil || res.Root == nil {
			continue
		}
		if res.Cached {
			cached++
		} else {
			parsed++
		}
		tokens += res.Tokens
		inParser += res.Elapsed
	}
	_, printErr := fmt.Fprintf(out, "parsed %d files (%d cached), %d tokens, %.1f ms in parser\n",
		parsed+cached, cached, tokens, toMillis(inParser))
	if printErr != nil {
		panic(printErr)
	}
	if timer != nil {
		if err := timer.WriteSummary(out); err != nil {
			panic(err)
		}
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
