package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dodorz/xroagwem/internal/config"
	"github.com/dodorz/xroagwem/pkg/xroagwem"
)

func runLocal() error {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}

	overrides := config.Overrides{
		ThemeName: themeName,
		Gap:       gap,
		Border:    border,
		NoBar:     noBar,
		Debug:     debugMode,
	}
	config.ApplyOverrides(overrides, cfg)

	if res := config.ValidateConfig(cfg); res.HasErrors() {
		printValidation(os.Stderr, res)
		return fmt.Errorf("configuration has %d error(s)", len(res.Errors))
	}

	logger, err := xroagwem.NewLogger(os.Stderr, cfg.Log.Level, xroagwem.LogFormat(logFormat))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []xroagwem.Option{
		xroagwem.WithDisplay(display),
		xroagwem.WithUserConfig(cfg),
		xroagwem.WithLogger(logger),
		xroagwem.WithTheme(themeName),
		xroagwem.WithDebug(debugMode),
	}
	if noBar {
		opts = append(opts, xroagwem.WithBar(false))
	}
	if gap >= 0 {
		opts = append(opts, xroagwem.WithGap(gap))
	}
	if border >= 0 {
		opts = append(opts, xroagwem.WithBorder(border))
	}
	return xroagwem.Run(ctx, opts...)
}
