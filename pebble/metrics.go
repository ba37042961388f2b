// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsInterval = 10 * time.Second
	namespace       = "pebble"

	levelZero  = "l0"
	levelOther = "other"

	kindObsolete = "obsolete"
	kindZombie   = "zombie"
)

type metrics struct {
	stallStart time.Time
	writeStall metric.Averager
	getLatency metric.Averager

	// compactions started, by input level
	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	tombstones prometheus.Gauge
	// unreferenced sstables, by kind
	staleTableBytes *prometheus.GaugeVec
	staleTables     *prometheus.GaugeVec
	staleWALBytes   prometheus.Gauge
	staleWALs       prometheus.Gauge
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	writeStall, err := metric.NewAverager(
		namespace+"_write_stall",
		"time spent stalled on writes",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	getLatency, err := metric.NewAverager(
		namespace+"_read_latency",
		"time spent in a get",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	m := &metrics{
		writeStall: writeStall,
		getLatency: getLatency,
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions started",
		}, []string{"level"}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of compactions in progress",
		}),
		tombstones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tombstones",
			Help:      "approximate number of tombstones",
		}),
		staleTableBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stale_table_bytes",
			Help:      "bytes in tables no longer part of the current version",
		}, []string{"kind"}),
		staleTables: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stale_tables",
			Help:      "tables no longer part of the current version",
		}, []string{"kind"}),
		staleWALBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stale_wal_bytes",
			Help:      "bytes in write-ahead logs no longer needed",
		}),
		staleWALs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stale_wals",
			Help:      "write-ahead logs no longer needed",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
		r.Register(m.tombstones),
		r.Register(m.staleTableBytes),
		r.Register(m.staleTables),
		r.Register(m.staleWALBytes),
		r.Register(m.staleWALs),
	)
	return r, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := levelOther
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = levelZero
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

func (m *metrics) observe(pm *pebble.Metrics) {
	m.tombstones.Set(float64(pm.Keys.TombstoneCount))
	m.staleTableBytes.WithLabelValues(kindObsolete).Set(float64(pm.Table.ObsoleteSize))
	m.staleTableBytes.WithLabelValues(kindZombie).Set(float64(pm.Table.ZombieSize))
	m.staleTables.WithLabelValues(kindObsolete).Set(float64(pm.Table.ObsoleteCount))
	m.staleTables.WithLabelValues(kindZombie).Set(float64(pm.Table.ZombieCount))
	m.staleWALBytes.Set(float64(pm.WAL.ObsoletePhysicalSize))
	m.staleWALs.Set(float64(pm.WAL.ObsoleteFiles))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.metrics.observe(db.db.Metrics())
		case <-db.closing:
			return
		}
	}
}
