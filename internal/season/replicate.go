package season

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xtding233/hoops-sim/internal/roster"
)

// Summary is the distribution of n replays of one matchup.
type Summary struct {
	Home       string  `json:"home"`
	Away       string  `json:"away"`
	Games      int     `json:"games"`
	HomeWins   int     `json:"home_wins"`
	HomeWinPct float64 `json:"home_win_pct"`
	Overtimes  int     `json:"overtime_games"`
	HomePoints Stats   `json:"home_points"`
	AwayPoints Stats   `json:"away_points"`
	Margin     Stats   `json:"margin"` // home minus away
}

// Replicate plays home against away n times with seeds derived from opts.Seed.
func Replicate(ctx context.Context, home, away roster.Team, n int, opts Options) (*Summary, error) {
	if n <= 0 {
		return nil, fmt.Errorf("replicate: need at least one game, got %d", n)
	}
	schedule := make([]Fixture, n)
	for i := range schedule {
		schedule[i] = Fixture{Home: home.ID, Away: away.ID}
	}
	quiet := opts
	quiet.Logger = nil
	s, err := Run(ctx, []roster.Team{home, away}, schedule, quiet)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Home: home.ID, Away: away.ID, Games: n}
	hp := make([]float64, n)
	ap := make([]float64, n)
	margin := make([]float64, n)
	for i, g := range s.Games {
		hp[i], ap[i] = float64(g.HomeScore), float64(g.AwayScore)
		margin[i] = hp[i] - ap[i]
		if g.Winner == g.Home {
			sum.HomeWins++
		}
		if g.Overtimes > 0 {
			sum.Overtimes++
		}
	}
	sum.HomeWinPct = float64(sum.HomeWins) / float64(n)
	sum.HomePoints, sum.AwayPoints, sum.Margin = calcStats(hp), calcStats(ap), calcStats(margin)

	opts.logger().WithFields(logrus.Fields{
		"home":         home.ID,
		"away":         away.ID,
		"games":        n,
		"home_win_pct": sum.HomeWinPct,
		"margin_mean":  sum.Margin.Mean,
	}).Info("matchup replicated")
	return sum, nil
}
