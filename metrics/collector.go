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

// Package metrics exports device decoding counters to Prometheus
package metrics

import (
	sistouch "github.com/ZaparooProject/go-sistouch"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sistouch"

// StatsSource is anything that reports decoding counters, normally a
// *sistouch.Device
type StatsSource interface {
	Stats() sistouch.Stats
}

type counter struct {
	desc  *prometheus.Desc
	value func(sistouch.Stats) uint64
}

func newCounter(name, help string, value func(sistouch.Stats) uint64) counter {
	return counter{
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", name+"_total"),
			help,
			[]string{"device"},
			nil,
		),
		value: value,
	}
}

// Collector implements prometheus.Collector over a StatsSource. Values are
// read at scrape time.
type Collector struct {
	src      StatsSource
	device   string
	counters []counter
}

// NewCollector creates a collector labelled with the device name
func NewCollector(device string, src StatsSource) *Collector {
	return &Collector{
		src:    src,
		device: device,
		counters: []counter{
			newCounter("bytes", "Bytes received from the byte source.",
				func(s sistouch.Stats) uint64 { return s.Bytes }),
			newCounter("frames", "Complete candidate frames assembled.",
				func(s sistouch.Stats) uint64 { return s.Frames }),
			newCounter("resyncs", "Times buffered bytes were discarded to regain synchronization.",
				func(s sistouch.Stats) uint64 { return s.Resyncs }),
			newCounter("overruns", "Bytes dropped because the frame buffer was full.",
				func(s sistouch.Stats) uint64 { return s.Overruns }),
			newCounter("line_errors", "Bytes received with a parity or framing error.",
				func(s sistouch.Stats) uint64 { return s.LineErrors }),
			newCounter("checksum_rejected", "Frames rejected for a checksum mismatch.",
				func(s sistouch.Stats) uint64 { return s.ChecksumRejected }),
			newCounter("checksum_tolerated", "Frames decoded despite a checksum mismatch.",
				func(s sistouch.Stats) uint64 { return s.ChecksumTolerated }),
			newCounter("frame_errors", "Frames rejected for a malformed layout.",
				func(s sistouch.Stats) uint64 { return s.FrameErrors }),
			newCounter("no_active_contact", "Frames without a tracked contact.",
				func(s sistouch.Stats) uint64 { return s.NoActiveContact }),
			newCounter("events", "Events delivered to the sink.",
				func(s sistouch.Stats) uint64 { return s.Events }),
		},
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, ctr := range c.counters {
		ch <- ctr.desc
	}
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.src.Stats()
	for _, ctr := range c.counters {
		ch <- prometheus.MustNewConstMetric(ctr.desc, prometheus.CounterValue, float64(ctr.value(stats)), c.device)
	}
}
