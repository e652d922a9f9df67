package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	handsDealt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railbird_hands_dealt_total",
		Help: "The total number of hands dealt across all tables",
	})
	equitySims = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railbird_equity_simulations_total",
		Help: "The total number of Monte Carlo equity simulations run",
	})
	equitySimTrials = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railbird_equity_trials_total",
		Help: "The total number of Monte Carlo trials across all simulations",
	})
	showdownsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railbird_showdowns_resolved_total",
		Help: "The total number of showdowns resolved",
	})
	scansAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railbird_card_scans_accepted_total",
		Help: "The total number of card scans accepted into a hand",
	})
	scansRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "railbird_card_scans_rejected_total",
		Help: "The total number of card scans rejected (unknown tag, duplicate, or wrong phase)",
	})
	activeTables = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "railbird_active_tables",
		Help: "The number of tables currently live in this server",
	})
)

func MetricsHandDealt() {
	handsDealt.Inc()
}

func MetricsEquitySimulated(trials int) {
	equitySims.Inc()
	equitySimTrials.Add(float64(trials))
}

func MetricsShowdownResolved() {
	showdownsResolved.Inc()
}

func MetricsScanAccepted() {
	scansAccepted.Inc()
}

func MetricsScanRejected() {
	scansRejected.Inc()
}

func MetricsTableOpened() {
	activeTables.Inc()
}

func MetricsTableClosed() {
	activeTables.Dec()
}
