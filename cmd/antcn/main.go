// cmd/antcn/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tamzrod/rt22-antcn/internal/config"
	"github.com/tamzrod/rt22-antcn/internal/dispatch"
	"github.com/tamzrod/rt22-antcn/internal/host"
	"github.com/tamzrod/rt22-antcn/internal/link"
	"github.com/tamzrod/rt22-antcn/internal/logging"
	"github.com/tamzrod/rt22-antcn/internal/protocol"
	"github.com/tamzrod/rt22-antcn/internal/status"
)

func main() {
	parseArgs()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config load failed:", err)
		os.Exit(1)
	}
	if endpoint != "" {
		cfg.Antcn.Device.Endpoint = endpoint
	}
	if verboseLog {
		cfg.Antcn.Log.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "config validation failed:", err)
		os.Exit(1)
	}
	config.Normalize(cfg)

	a := cfg.Antcn

	// --------------------
	// Logging
	// --------------------

	log, closeLog, err := logging.New(logging.Config{
		Level:      a.Log.Level,
		Quiet:      quietLog,
		File:       a.Log.File,
		MaxSizeMB:  a.Log.MaxSizeMB,
		MaxBackups: a.Log.MaxBackups,
		MaxAgeDays: a.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging setup failed:", err)
		os.Exit(1)
	}

	err = run(cfg, log)
	if err != nil {
		log.Error("exiting", zap.Error(err))
	}
	if cerr := closeLog(); cerr != nil {
		fmt.Fprintln(os.Stderr, "log close failed:", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) (err error) {
	a := cfg.Antcn

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	// ---- controller link ----
	cli, err := link.New(link.Config{
		Endpoint: a.Device.Endpoint,
		Timeout:  time.Duration(a.Device.TimeoutMs) * time.Millisecond,
		MaxReply: a.Device.ReplyMaxBytes,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("link: %w", err)
	}

	// ---- host ----
	state := host.NewMemState(host.Source{Name: sourceName, RA: sourceRA, Dec: sourceDec})
	classes := host.NewMemClasses()
	console := host.NewConsole(os.Stdin, os.Stdout, state, classes)
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		console.DisableColor()
	}

	// ---- dispatcher ----
	d, err := dispatch.New(dispatch.Config{
		Rupors: protocol.RuporsArcsec{
			LeftAz:     a.Rupors.LeftAzArcsec,
			LeftEl:     a.Rupors.LeftElArcsec,
			RightAz:    a.Rupors.RightAzArcsec,
			RightEl:    a.Rupors.RightElArcsec,
			Polarity:   a.Rupors.Polarity,
			ErrorBound: a.Rupors.ErrorArcsec,
		}.Radians(),
		Replies:    protocol.NewReplyChecker(a.Device.ErrorTokens),
		ZeroClass:  dispatch.ZeroClassPolicy(a.PassThrough.ZeroClass),
		MessageMax: a.PassThrough.MessageMax,
	}, cli, state, classes, logging.NewSink(log))
	if err != nil {
		return err
	}

	// ---- status mirror (optional) ----
	var obs dispatch.Observer
	if s := a.Status; s != nil {
		mc, err := status.NewModbusWriter(status.ClientConfig{
			Endpoint: s.Endpoint,
			Timeout:  time.Duration(s.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}
		closers = append(closers, mc.Close)

		obs = status.NewPublisher(status.Config{
			UnitID:     s.UnitID,
			Slot:       s.Slot,
			DeviceName: s.DeviceName,
			Logger:     log,
		}, mc)
		log.Info("status mirror enabled",
			zap.String("endpoint", s.Endpoint),
			zap.Uint8("unit_id", s.UnitID),
			zap.Uint16("slot", s.Slot),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("antcn ready",
		zap.String("endpoint", cli.Endpoint()),
		zap.String("zero_class", a.PassThrough.ZeroClass),
	)

	// Console reads block on stdin, so a signal does not wait for the loop.
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, console, obs) }()

	select {
	case err := <-done:
		if err != nil && ctx.Err() == nil {
			return err
		}
	case <-ctx.Done():
		log.Info("interrupted")
	}

	log.Info("antcn stopped")
	return nil
}
