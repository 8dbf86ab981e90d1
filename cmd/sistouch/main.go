// go-sistouch
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-sistouch.
//
// go-sistouch is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-sistouch is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-sistouch; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Command sistouch decodes a SiS serial touch panel and prints its events
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sistouch "github.com/ZaparooProject/go-sistouch"
	"github.com/ZaparooProject/go-sistouch/detection"
	// Import all detectors to register them
	_ "github.com/ZaparooProject/go-sistouch/detection/i2c"
	_ "github.com/ZaparooProject/go-sistouch/detection/uart"
	"github.com/ZaparooProject/go-sistouch/metrics"
	"github.com/ZaparooProject/go-sistouch/monitor"
	"github.com/ZaparooProject/go-sistouch/sink/uinput"
	"github.com/ZaparooProject/go-sistouch/transport/i2c"
	"github.com/ZaparooProject/go-sistouch/transport/uart"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(cfg.Debug)
	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("sistouch failed")
		os.Exit(1)
	}
}

func newLogger(debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "sistouch").Logger()
}

func run(cfg *settings, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sistouch.SetDebugEnabled(cfg.Debug)
	sistouch.SetLogger(logger)

	if cfg.List {
		return listPorts(ctx, os.Stdout, cfg.Probe)
	}

	sink, closeSink, err := buildSink(cfg, logger, os.Stdout)
	if err != nil {
		return err
	}
	defer closeSink()

	opts := []sistouch.Option{
		sistouch.WithVariant(cfg.variant),
		sistouch.WithSink(sink),
		sistouch.WithLogger(logger),
		sistouch.WithDebug(cfg.Debug),
	}
	if cfg.policy != nil {
		opts = append(opts, sistouch.WithChecksumPolicy(*cfg.policy))
	}

	device, err := openDevice(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer func() { _ = device.Close() }()

	if cfg.MetricsAddr != "" {
		shutdown := serveMetrics(cfg.MetricsAddr, deviceName(device), device, logger)
		defer shutdown()
	}

	logger.Info().
		Str("variant", device.Variant().String()).
		Str("checksum", device.ChecksumPolicy().String()).
		Str("port", deviceName(device)).
		Msg("decoding")

	err = device.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	stats := device.Stats()
	logger.Info().
		Uint64("bytes", stats.Bytes).
		Uint64("frames", stats.Frames).
		Uint64("events", stats.Events).
		Uint64("resyncs", stats.Resyncs).
		Uint64("checksum_rejected", stats.ChecksumRejected).
		Uint64("checksum_tolerated", stats.ChecksumTolerated).
		Msg("stopped")
	return err
}

// buildSink chains the touch monitor, the event printer and the optional
// uinput device
func buildSink(cfg *settings, logger zerolog.Logger, out io.Writer) (sistouch.EventSink, func(), error) {
	printLine := func(e fmt.Stringer) { _, _ = fmt.Fprintln(out, e.String()) }
	printer := sistouch.SinkFuncs{
		Touch:   func(e sistouch.TouchEvent) { printLine(e) },
		Buttons: func(b sistouch.ButtonState) { printLine(b) },
		Motion:  func(e sistouch.MotionEvent) { printLine(e) },
	}
	next := sistouch.MultiSink{printer}
	closers := []func(){}

	if cfg.Uinput {
		uiCfg := uinput.DefaultConfig()
		uiCfg.Variant = cfg.variant
		ui, err := uinput.Open(uiCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create virtual input device: %w", err)
		}
		next = append(next, ui)
		closers = append(closers, func() {
			if err := ui.Err(); err != nil {
				logger.Warn().Err(err).Msg("virtual input device write failed")
			}
			_ = ui.Close()
		})
	}

	m := monitor.New(&monitor.Config{ReleaseTimeout: cfg.ReleaseTimeout})
	m.Next = next
	m.OnTouchDown = func(e sistouch.TouchEvent) {
		logger.Info().Uint16("x", e.X).Uint16("y", e.Y).Msg("touch down")
	}
	m.OnTouchMove = func(e sistouch.TouchEvent) {
		logger.Debug().Uint16("x", e.X).Uint16("y", e.Y).Msg("touch move")
	}
	m.OnTouchUp = func(e sistouch.TouchEvent) {
		logger.Info().Uint16("x", e.X).Uint16("y", e.Y).Msg("touch up")
	}
	closers = append(closers, m.Close)

	return m, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}

func openDevice(ctx context.Context, cfg *settings, opts []sistouch.Option) (*sistouch.Device, error) {
	if cfg.Replay != "" {
		transport, err := openReplay(cfg.Replay)
		if err != nil {
			return nil, err
		}
		device, err := sistouch.New(transport, opts...)
		if err != nil {
			_ = transport.Close()
			return nil, fmt.Errorf("failed to create device: %w", err)
		}
		return device, nil
	}

	connectOpts := []sistouch.ConnectOption{
		sistouch.WithTransportFactory(func(path string) (sistouch.Transport, error) {
			return newTransport(path, cfg.Baud)
		}),
		sistouch.WithTransportFromDeviceFactory(func(info detection.DeviceInfo) (sistouch.Transport, error) {
			return newTransportFromDevice(info, cfg.Baud)
		}),
		sistouch.WithDeviceOptions(opts...),
	}
	if cfg.Device == "" {
		connectOpts = append(connectOpts, sistouch.WithAutoDetection())
	}

	device, err := sistouch.ConnectContext(ctx, cfg.Device, connectOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to touch controller: %w", err)
	}
	return device, nil
}

// newTransport creates a new transport from a device path.
func newTransport(path string, baud int) (sistouch.Transport, error) {
	if strings.Contains(strings.ToLower(path), "i2c") {
		transport, err := i2c.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create I2C transport: %w", err)
		}
		return transport, nil
	}

	transport, err := uart.New(path, uart.WithBaudRate(baud))
	if err != nil {
		return nil, fmt.Errorf("failed to create UART transport: %w", err)
	}
	return transport, nil
}

// newTransportFromDevice creates a new transport from a detected device.
func newTransportFromDevice(info detection.DeviceInfo, baud int) (sistouch.Transport, error) {
	switch strings.ToLower(info.Transport) {
	case "uart", "i2c":
		return newTransport(info.Path, baud)
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", info.Transport)
	}
}

func deviceName(device *sistouch.Device) string {
	t := device.Transport()
	if named, ok := t.(interface{ Name() string }); ok {
		return named.Name()
	}
	return string(t.Type())
}

func serveMetrics(addr, name string, device *sistouch.Device, logger zerolog.Logger) func() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		metrics.NewCollector(name, device),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	logger.Info().Str("addr", addr).Msg("serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func listPorts(ctx context.Context, out io.Writer, probe bool) error {
	opts := detection.DefaultOptions()
	if probe {
		opts.Mode = detection.Safe
	}

	devices, err := detection.DetectAllContext(ctx, &opts)
	if errors.Is(err, detection.ErrNoDevicesFound) || (err == nil && len(devices) == 0) {
		_, _ = fmt.Fprintln(out, "No ports found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	for _, d := range devices {
		_, _ = fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", d.Path, d.Transport, d.Confidence, d.Name)
	}
	return nil
}
