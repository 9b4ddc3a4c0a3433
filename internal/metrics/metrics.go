// Package metrics exposes the game counters on a dedicated Prometheus registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the counters recorded by the game and leaderboard services.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	gamesStarted  prometheus.Counter
	gamesFinished prometheus.Counter
	answers       *prometheus.CounterVec
	publishes     *prometheus.CounterVec
}

// New builds the counters and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kanaan_quiz",
			Name:      "games_started_total",
			Help:      "Games started.",
		}),
		gamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kanaan_quiz",
			Name:      "games_finished_total",
			Help:      "Games that reached the last stage.",
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kanaan_quiz",
			Name:      "answers_total",
			Help:      "Scored answers by result.",
		}, []string{"result"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kanaan_quiz",
			Name:      "leaderboard_publishes_total",
			Help:      "Leaderboard merges written to the store by outcome.",
		}, []string{"outcome"}),
	}
	m.Registry.MustRegister(m.gamesStarted, m.gamesFinished, m.answers, m.publishes)
	return m
}

func (m *Metrics) GameStarted() {
	if m == nil {
		return
	}
	m.gamesStarted.Inc()
}

func (m *Metrics) GameFinished() {
	if m == nil {
		return
	}
	m.gamesFinished.Inc()
}

// Answer counts one scored submission.
func (m *Metrics) Answer(correct bool) {
	if m == nil {
		return
	}
	result := "wrong"
	if correct {
		result = "correct"
	}
	m.answers.WithLabelValues(result).Inc()
}

// Publish counts one leaderboard write attempt.
func (m *Metrics) Publish(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.publishes.WithLabelValues(outcome).Inc()
}
