// Package season runs many games: a schedule of fixtures or repeated
// replays of one matchup. Games run in parallel; results never depend on
// scheduling.
package season

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/dice"
	"github.com/xtding233/hoops-sim/internal/engine"
	"github.com/xtding233/hoops-sim/internal/roster"
	"github.com/xtding233/hoops-sim/internal/rotation"
)

var ErrUnknownTeam = errors.New("unknown team")

// gameNamespace scopes the name-based game ids.
var gameNamespace = uuid.MustParse("6f1c44a2-3c52-5d1e-9a8e-2b1f0c7d9e41")

type Fixture struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// RoundRobin pairs every team with every other, home and away, rounds times.
func RoundRobin(teamIDs []string, rounds int) []Fixture {
	var out []Fixture
	for r := 0; r < rounds; r++ {
		for i, h := range teamIDs {
			for j, a := range teamIDs {
				if i != j {
					out = append(out, Fixture{Home: h, Away: a})
				}
			}
		}
	}
	return out
}

type Options struct {
	Seed         uint64
	Workers      int // <= 0 means GOMAXPROCS
	Coefficients *coeff.Coefficients
	Rotations    map[string]*rotation.Config // by team id
	KeepResults  bool                        // keep full event logs per game
	Logger       *logrus.Entry
}

func (o Options) logger() *logrus.Entry {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

type Game struct {
	ID        uuid.UUID      `json:"id"`
	Index     int            `json:"index"`
	Seed      uint64         `json:"seed,string"`
	Home      string         `json:"home"`
	Away      string         `json:"away"`
	HomeScore int            `json:"home_score"`
	AwayScore int            `json:"away_score"`
	Overtimes int            `json:"overtimes"`
	Winner    string         `json:"winner"`
	Result    *engine.Result `json:"result,omitempty"`
}

type Standing struct {
	Team          string `json:"team"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
}

func (s Standing) WinPct() float64 {
	if s.Wins+s.Losses == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Wins+s.Losses)
}

type Season struct {
	Games     []Game     `json:"games"`
	Standings []Standing `json:"standings"`
}

// GameID is the stable id of the index-th game of a season run from seed.
func GameID(seed uint64, index int, f Fixture) uuid.UUID {
	name := strconv.FormatUint(seed, 10) + "/" + strconv.Itoa(index) + "/" + f.Home + "/" + f.Away
	return uuid.NewSHA1(gameNamespace, []byte(name))
}

// Run plays every fixture. Game i is seeded from (opts.Seed, i), so the
// season is reproducible for any worker count.
func Run(ctx context.Context, teams []roster.Team, schedule []Fixture, opts Options) (*Season, error) {
	byID := make(map[string]roster.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	for i, f := range schedule {
		for _, id := range []string{f.Home, f.Away} {
			if _, ok := byID[id]; !ok {
				return nil, fmt.Errorf("%w: fixture %d references %q", ErrUnknownTeam, i, id)
			}
		}
	}

	games := make([]Game, len(schedule))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.workers())
	for i, f := range schedule {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := dice.DeriveSeed(opts.Seed, uint64(i))
			res, err := engine.Simulate(byID[f.Home], byID[f.Away], engine.Options{
				Seed:         seed,
				Coefficients: opts.Coefficients,
				HomeRotation: opts.Rotations[f.Home],
				AwayRotation: opts.Rotations[f.Away],
				Logger:       opts.Logger,
			})
			if err != nil {
				return fmt.Errorf("game %d (%s at %s): %w", i, f.Away, f.Home, err)
			}
			g := Game{
				ID:        GameID(opts.Seed, i, f),
				Index:     i,
				Seed:      seed,
				Home:      f.Home,
				Away:      f.Away,
				HomeScore: res.HomeScore,
				AwayScore: res.AwayScore,
				Overtimes: res.Overtimes,
				Winner:    f.Home,
			}
			if res.Winner() == engine.Away {
				g.Winner = f.Away
			}
			if opts.KeepResults {
				g.Result = res
			}
			games[i] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	s := &Season{Games: games, Standings: standings(teams, games)}
	opts.logger().WithFields(logrus.Fields{
		"games":   len(games),
		"teams":   len(teams),
		"seed":    opts.Seed,
		"workers": opts.workers(),
	}).Info("season simulated")
	return s, nil
}

// standings tallies games and orders teams by win percentage, then point
// differential, then id.
func standings(teams []roster.Team, games []Game) []Standing {
	idx := make(map[string]int, len(teams))
	out := make([]Standing, len(teams))
	for i, t := range teams {
		idx[t.ID] = i
		out[i].Team = t.ID
	}
	for _, g := range games {
		h, a := &out[idx[g.Home]], &out[idx[g.Away]]
		h.PointsFor += g.HomeScore
		h.PointsAgainst += g.AwayScore
		a.PointsFor += g.AwayScore
		a.PointsAgainst += g.HomeScore
		if g.Winner == g.Home {
			h.Wins++
			a.Losses++
		} else {
			a.Wins++
			h.Losses++
		}
	}
	slices.SortStableFunc(out, func(x, y Standing) int {
		if d := y.WinPct() - x.WinPct(); d != 0 {
			if d > 0 {
				return 1
			}
			return -1
		}
		dx, dy := x.PointsFor-x.PointsAgainst, y.PointsFor-y.PointsAgainst
		if dx != dy {
			return dy - dx
		}
		if x.Team < y.Team {
			return -1
		}
		if x.Team > y.Team {
			return 1
		}
		return 0
	})
	return out
}
