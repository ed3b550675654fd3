package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultAccepted = "accepted"

	OutcomeWon  = "won"
	OutcomeTied = "tied"
)

var (
	Moves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_moves_total",
			Help: "Moves submitted, by result (accepted or the rejection reason)",
		},
		[]string{"result"},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_games_finished_total",
			Help: "Rounds that ended, by outcome",
		},
		[]string{"outcome"},
	)
	SessionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tictactoe_sessions_created_total",
			Help: "Sessions created",
		},
	)
)

func init() {
	prometheus.MustRegister(Moves)
	prometheus.MustRegister(GamesFinished)
	prometheus.MustRegister(SessionsCreated)
}
