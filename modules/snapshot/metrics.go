package snapshot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// commitTotal counts snapshot writes by slice and result.
	commitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "horus_snapshot_commit_total",
		Help: "Snapshot commits by store slice and result",
	}, []string{"slice", "result"})

	// loadFallbackTotal counts malformed snapshots replaced by the default state.
	loadFallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "horus_snapshot_load_fallback_total",
		Help: "Malformed snapshots replaced by the default state",
	}, []string{"slice"})

	// activeSessions tracks sessions held in memory per slice.
	activeSessions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "horus_snapshot_active_sessions",
		Help: "Sessions currently held in memory by store slice",
	}, []string{"slice"})
)
