package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterSessionsAdded      prometheus.Counter
	CounterSessionsRejected   prometheus.Counter
	CounterSyncPushOK         prometheus.Counter
	CounterSyncPushFailed     prometheus.Counter
	CounterSyncFetches        prometheus.Counter
	CounterMergedRecords      prometheus.Counter
	CounterExports            prometheus.Counter
	CounterHandleRequestPanic prometheus.Counter

	// gauges
	GaugeRequests       prometheus.Gauge
	GaugeLifeSignal     prometheus.Gauge
	GaugeStoredSessions prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
	HistSyncRoundtrip   prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("swimtrack", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("swimtrack", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterSessionsAdded := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_added",
		Help:      "The total number of training sessions added to the local store",
	})
	counterSessionsRejected := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_rejected",
		Help:      "The total number of training sessions rejected by validation",
	})
	counterSyncPushOK := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sync_push_ok",
		Help:      "The total number of sessions successfully pushed to the remote sheet",
	})
	counterSyncPushFailed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sync_push_failed",
		Help:      "The total number of failed session pushes",
	})
	counterSyncFetches := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sync_fetches",
		Help:      "The total number of remote fetches",
	})
	counterMergedRecords := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "merged_records",
		Help:      "The total number of records that went through reconciliation",
	})
	counterExports := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "exports",
		Help:      "The total number of CSV/JSON exports",
	})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})
	gaugeStoredSessions := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stored_sessions",
		Help:      "Number of session records currently in the local store",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0000001, 0.0000002, 0.0000003, 0.0000004, 0.0000005,
				0.000001, 0.0000025, 0.000005, 0.0000075, 0.00001,
				0.0001, 0.001, 0.01, 0.1, 1, 10, 60,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
	)
	histSyncRoundtrip := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
			},
			Name: "sync_roundtrip_seconds",
			Help: "Duration of a single push/fetch roundtrip to the remote sheet",
		},
	)

	return &Manager{
		CounterRequests:           counterRequests,
		CounterSessionsAdded:      counterSessionsAdded,
		CounterSessionsRejected:   counterSessionsRejected,
		CounterSyncPushOK:         counterSyncPushOK,
		CounterSyncPushFailed:     counterSyncPushFailed,
		CounterSyncFetches:        counterSyncFetches,
		CounterMergedRecords:      counterMergedRecords,
		CounterExports:            counterExports,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		GaugeRequests:             gaugeRequests,
		GaugeLifeSignal:           gaugeLifeSignal,
		GaugeStoredSessions:       gaugeStoredSessions,
		HistRequestDuration:       histReqDuration,
		HistSyncRoundtrip:         histSyncRoundtrip,
	}
}
