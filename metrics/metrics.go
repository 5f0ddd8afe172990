// Package metrics exposes prometheus metrics for gate propagation.
package metrics

import (
	"errors"
	"fmt"

	"github.com/creastat/gate/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all gate metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Propagations    *prometheus.CounterVec
	DecodeFallbacks *prometheus.CounterVec
	ConnectedGates  *prometheus.GaugeVec
	Disconnects     *prometheus.CounterVec
}

// New creates a new Metrics instance
func New() *Metrics {
	return &Metrics{
		Propagations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gate",
				Subsystem: "pipeline",
				Name:      "propagations_total",
				Help:      "Total number of results derived and written back to the result property",
			},
			[]string{"gate_type"},
		),

		DecodeFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gate",
				Subsystem: "pipeline",
				Name:      "decode_fallbacks_total",
				Help:      "Total number of pushed values replaced by the side default because they could not be decoded",
			},
			[]string{"gate_type", "side"},
		),

		ConnectedGates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gate",
				Subsystem: "lifecycle",
				Name:      "connected",
				Help:      "Number of gates whose observer is currently registered",
			},
			[]string{"gate_type"},
		),

		Disconnects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gate",
				Subsystem: "lifecycle",
				Name:      "disconnects_total",
				Help:      "Total number of gate disconnections",
			},
			[]string{"gate_type"},
		),
	}
}

// Collectors returns every collector owned by m
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Propagations, m.DecodeFallbacks, m.ConnectedGates, m.Disconnects}
}

// Register registers all collectors with reg. Collectors already registered
// by an identical instance are accepted.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			var alreadyRegErr prometheus.AlreadyRegisteredError
			if errors.As(err, &alreadyRegErr) && alreadyRegErr.ExistingCollector == c {
				continue
			}
			return fmt.Errorf("failed to register gate metrics: %w", err)
		}
	}
	return nil
}

// RecordPropagation counts one derived result written back
func (m *Metrics) RecordPropagation(gateType string) {
	if m == nil {
		return
	}
	m.Propagations.WithLabelValues(gateType).Inc()
}

// RecordDecodeFallback counts one value replaced by its side default
func (m *Metrics) RecordDecodeFallback(gateType string, side core.OperatorPosition) {
	if m == nil {
		return
	}
	m.DecodeFallbacks.WithLabelValues(gateType, string(side)).Inc()
}

// GateConnected tracks a gate whose observer was registered
func (m *Metrics) GateConnected(gateType string) {
	if m == nil {
		return
	}
	m.ConnectedGates.WithLabelValues(gateType).Inc()
}

// GateDisconnected tracks a gate whose observer was removed
func (m *Metrics) GateDisconnected(gateType string) {
	if m == nil {
		return
	}
	m.ConnectedGates.WithLabelValues(gateType).Dec()
	m.Disconnects.WithLabelValues(gateType).Inc()
}
