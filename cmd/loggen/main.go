package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

func main() {
	var (
		outPath     string
		rate        float64
		noise       float64
		multiline   float64
		durationStr string
		truncate    bool
		seed        int64
	)
	flag.StringVar(&outPath, "out", filepath.Join("simulateddata", "app.log"), "File to append JSON lines to")
	flag.Float64Var(&rate, "rate", 5.0, "Lines per second")
	flag.Float64Var(&noise, "noise", 0.1, "Share of lines that are not JSON objects (0..1)")
	flag.Float64Var(&multiline, "multiline", 0.1, "Share of records whose message spans several lines (0..1)")
	flag.StringVar(&durationStr, "duration", "", "Optional run duration (e.g., 30s, 2m). Empty means run until interrupted")
	flag.BoolVar(&truncate, "truncate", false, "Clear the file before writing instead of appending")
	flag.Int64Var(&seed, "seed", 0, "Random seed (0 = time based)")
	flag.Parse()

	if noise < 0 || noise > 1 || multiline < 0 || multiline > 1 {
		fmt.Fprintln(os.Stderr, "noise and multiline must be between 0 and 1")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if durationStr != "" {
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration: %v\n", err)
			os.Exit(2)
		}
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, d)
		defer stop()
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", dir, err)
			os.Exit(1)
		}
	}
	mode := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		mode |= os.O_TRUNC
	}
	f, err := os.OpenFile(outPath, mode, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := newGenerator(rand.New(rand.NewSource(seed)), noise, multiline)
	fmt.Fprintf(os.Stderr, "generating JSON lines -> %s at %.2f lines/s\n", outPath, rate)
	n := runStream(ctx, bufio.NewWriter(f), g, rate)
	fmt.Fprintf(os.Stderr, "wrote %d lines\n", n)
}

// runStream writes one line per tick until ctx is done, flushing after
// every line so a tailing reader sees it immediately.
func runStream(ctx context.Context, w *bufio.Writer, g *generator, rate float64) int {
	if rate <= 0 {
		rate = 1
	}
	interval := time.Duration(float64(time.Second) / rate)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer w.Flush()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return n
		case now := <-ticker.C:
			w.WriteString(g.line(now))
			w.WriteByte('\n')
			if err := w.Flush(); err != nil {
				fmt.Fprintf(os.Stderr, "write: %v\n", err)
				return n
			}
			n++
		}
	}
}
