// Package metrics defines the Prometheus instruments the server exposes at /metrics.
//
// Instruments register on a caller-owned registry so that tests and the
// factory never share global state.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mcoot/kmapgame/internal/model"
)

const namespace = "kmapgame"

// Daily completion outcomes
const (
	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
	OutcomeSkipped   = "skipped"
)

// Metrics holds every instrument
type Metrics struct {
	PuzzlesGenerated       *prometheus.CounterVec
	AnswersChecked         *prometheus.CounterVec
	DailyChallengesCreated prometheus.Counter
	DailyCompletions       *prometheus.CounterVec
	TimeAttackRuns         *prometheus.CounterVec
	RequestDuration        *prometheus.HistogramVec
}

// New creates the instruments and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PuzzlesGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "puzzles_generated_total",
			Help:      "Puzzles generated by difficulty tier",
		}, []string{"tier"}),
		AnswersChecked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_checked_total",
			Help:      "Answers checked by outcome",
		}, []string{"correct"}),
		DailyChallengesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_challenges_created_total",
			Help:      "Daily challenges created",
		}),
		DailyCompletions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_completions_total",
			Help:      "Daily completion attempts by outcome (recorded, duplicate, skipped)",
		}, []string{"outcome"}),
		TimeAttackRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "time_attack_runs_total",
			Help:      "Finished time attack runs by difficulty",
		}, []string{"difficulty"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// PuzzleGenerated counts one generated puzzle
func (m *Metrics) PuzzleGenerated(tier model.Tier) {
	m.PuzzlesGenerated.WithLabelValues(strconv.Itoa(int(tier))).Inc()
}

// AnswerChecked counts one checked answer
func (m *Metrics) AnswerChecked(correct bool) {
	m.AnswersChecked.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// DailyChallengeCreated counts one newly stored daily challenge
func (m *Metrics) DailyChallengeCreated() {
	m.DailyChallengesCreated.Inc()
}

// DailyCompletion counts one completion attempt
func (m *Metrics) DailyCompletion(outcome string) {
	m.DailyCompletions.WithLabelValues(outcome).Inc()
}

// TimeAttackRun counts one finished run
func (m *Metrics) TimeAttackRun(tier model.Tier) {
	m.TimeAttackRuns.WithLabelValues(strconv.Itoa(int(tier))).Inc()
}

// ObserveRequest records the latency of one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
