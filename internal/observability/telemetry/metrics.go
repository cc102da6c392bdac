package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Assistant
	AssistantQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_assistant_queries_total",
		Help: "Assistant queries by resolved action and matching rule",
	}, []string{"action", "rule"})

	AssistantLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "store_assistant_latency_seconds",
		Help:    "End-to-end latency of an assistant query, synthesis included",
		Buckets: prometheus.DefBuckets,
	})

	SpeechSynthesisFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_speech_synthesis_failures_total",
		Help: "Synthesis failures degraded to a silent response",
	})

	SpeechTranscriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_speech_transcriptions_total",
		Help: "Transcription attempts by outcome (recognized, empty, failed)",
	}, []string{"outcome"})

	SpeechCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_speech_cache_lookups_total",
		Help: "Synthesized audio cache lookups",
	}, []string{"result"})

	AssistantSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "store_assistant_sessions_active",
		Help: "Open assistant websocket sessions",
	})

	// Storefront
	OrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_orders_total",
		Help: "Orders by status change",
	}, []string{"status"})

	CatalogSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "store_catalog_subscribers",
		Help: "Storefront clients subscribed to catalog updates",
	})

	// Infrastructure
	DatabaseLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_database_latency_seconds",
		Help:    "Latency of repository queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)
