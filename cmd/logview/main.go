package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"logview/internal/config"
	"logview/internal/ingest"
	"logview/internal/model"
	"logview/internal/ui"
	"logview/internal/util/logx"
	"logview/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logx.SetLevelFromEnv()
	cfg, err := config.Load(args)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, config.ErrUsage):
		fmt.Fprintln(os.Stderr, err)
		return 2
	case err != nil:
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 1
	}

	if cfg.ShowVersion {
		fmt.Println("logview", version.String())
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logx.Infof("starting logview %s: %s", version.String(), cfg.String())
	store := model.NewStore(cfg.MaxRecords)
	err = ingest.Start(ctx, ingest.Options{
		Path:         cfg.FilePath,
		TailOnly:     cfg.TailOnly,
		PollInterval: cfg.PollInterval,
		Notify:       cfg.Notify,
	}, store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := ui.Run(ctx, cfg, store); err != nil {
		logx.Errorf("logview exited with error: %v", err)
		fmt.Fprintln(os.Stderr, "logview:", err)
		fmt.Fprintln(os.Stderr, logx.Dump())
		return 1
	}
	return 0
}
