package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gamesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minebot_games_total",
		Help: "Finished games by outcome",
	}, []string{"outcome"})

	movesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minebot_moves_total",
		Help: "Moves made by strategy",
	}, []string{"strategy"})

	knowledgeSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "minebot_knowledge_statements",
		Help:    "Number of statements in the knowledge base after a move",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	auditFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "minebot_audit_failures_total",
		Help: "Engine conclusions rejected by the SAT oracle",
	})
)
