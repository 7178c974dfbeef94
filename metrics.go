/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "floorplan"

// Metrics is safe to use through a nil pointer, which records nothing.
type Metrics struct {
	ActiveSessions   prometheus.Gauge
	RoundsStarted    prometheus.Counter
	Checks           prometheus.Counter
	MessagesReceived prometheus.Counter
	MessagesLimited  prometheus.Counter
	CorrectRatio     prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_sessions",
			Help:      "Number of quiz sessions currently held in memory",
		}),
		RoundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rounds_started_total",
			Help:      "Total number of rounds started, including resets",
		}),
		Checks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "checks_total",
			Help:      "Total number of rounds checked and revealed",
		}),
		MessagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "messages_received_total",
			Help:      "Total number of websocket messages accepted",
		}),
		MessagesLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "messages_limited_total",
			Help:      "Total number of websocket messages dropped by the rate limiter",
		}),
		CorrectRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "correct_ratio",
			Help:      "Fraction of rooms labeled correctly per checked round",
			Buckets:   prometheus.LinearBuckets(0, 0.125, 9),
		}),
	}

	reg.MustRegister(
		m.ActiveSessions,
		m.RoundsStarted,
		m.Checks,
		m.MessagesReceived,
		m.MessagesLimited,
		m.CorrectRatio,
	)

	return m
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.ActiveSessions.Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.ActiveSessions.Dec()
	}
}

func (m *Metrics) roundStarted() {
	if m != nil {
		m.RoundsStarted.Inc()
	}
}

func (m *Metrics) checked(correct, total int) {
	if m == nil {
		return
	}
	m.Checks.Inc()
	if total > 0 {
		m.CorrectRatio.Observe(float64(correct) / float64(total))
	}
}

func (m *Metrics) received() {
	if m != nil {
		m.MessagesReceived.Inc()
	}
}

func (m *Metrics) limited() {
	if m != nil {
		m.MessagesLimited.Inc()
	}
}
