// Package engine plays full games: periods, jump balls, rotation and fatigue
// around a loop of possessions.
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/xtding233/hoops-sim/internal/boxscore"
	"github.com/xtding233/hoops-sim/internal/clock"
	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/dice"
	"github.com/xtding233/hoops-sim/internal/possession"
	"github.com/xtding233/hoops-sim/internal/roster"
	"github.com/xtding233/hoops-sim/internal/rotation"
)

var ErrInvalidStart = errors.New("invalid start state")

type Side int

const (
	Home Side = iota
	Away
)

func (s Side) Other() Side { return 1 - s }

func (s Side) valid() bool { return s == Home || s == Away }

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "home":
		*s = Home
	case "away":
		*s = Away
	default:
		return fmt.Errorf("%w: side %q", ErrInvalidStart, b)
	}
	return nil
}

// Start resumes a game mid-way, e.g. for the second half.
type Start struct {
	Quarter    int  `json:"quarter"`
	Remaining  int  `json:"remaining"`
	HomeScore  int  `json:"home_score"`
	AwayScore  int  `json:"away_score"`
	Offense    Side `json:"offense"`     // team with the ball
	OpeningTip Side `json:"opening_tip"` // winner of the opening jump ball
}

type Options struct {
	Seed         uint64
	Coefficients *coeff.Coefficients // nil means the embedded defaults
	HomeRotation *rotation.Config
	AwayRotation *rotation.Config
	Start        *Start
	Logger       *logrus.Entry
}

type PeriodScore struct {
	Period int    `json:"period"`
	Label  string `json:"label"`
	Home   int    `json:"home"`
	Away   int    `json:"away"`
}

type Result struct {
	Seed        uint64             `json:"seed,string"`
	Version     string             `json:"coefficients_version"`
	HomeID      string             `json:"home_id"`
	AwayID      string             `json:"away_id"`
	HomeScore   int                `json:"home_score"`
	AwayScore   int                `json:"away_score"`
	Periods     []PeriodScore      `json:"periods"`
	Overtimes   int                `json:"overtimes"`
	Possessions int                `json:"possessions"`
	Events      []possession.Event `json:"events"`
	Box         []boxscore.Line    `json:"box"`
	HomeTotals  boxscore.Line      `json:"home_totals"`
	AwayTotals  boxscore.Line      `json:"away_totals"`
}

// Winner is the side with more points; ties only exist in resumed segments
// that were cut short, which Simulate never produces.
func (r *Result) Winner() Side {
	if r.AwayScore > r.HomeScore {
		return Away
	}
	return Home
}

type game struct {
	c       *coeff.Coefficients
	log     *logrus.Entry
	seed    uint64
	counter uint64
	src     *dice.SeededRNG

	teams   [2]roster.Team
	rot     [2]*rotation.Manager
	fatigue *rotation.Fatigue
	box     *boxscore.Accumulator
	clk     *clock.Clock

	score      [2]int
	offense    Side
	openingTip Side
	res        *Result
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Simulate plays home against away. The same seed, rosters, options and
// coefficients always produce the same result.
func Simulate(home, away roster.Team, opts Options) (*Result, error) {
	if err := roster.ValidateMatchup(home, away); err != nil {
		return nil, err
	}
	c := opts.Coefficients
	if c == nil {
		var err error
		if c, err = coeff.Default(); err != nil {
			return nil, err
		}
	} else if err := coeff.Validate(c); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}

	g := &game{
		c:       c,
		log:     log,
		seed:    opts.Seed,
		src:     dice.NewSeededRNG(opts.Seed),
		teams:   [2]roster.Team{home, away},
		fatigue: rotation.NewFatigue(c.Fatigue),
		box:     boxscore.New(),
		res:     &Result{Seed: opts.Seed, Version: c.Version, HomeID: home.ID, AwayID: away.ID},
	}
	var err error
	if g.rot[Home], err = rotation.NewManager(c, home, opts.HomeRotation); err != nil {
		return nil, fmt.Errorf("home rotation: %w", err)
	}
	if g.rot[Away], err = rotation.NewManager(c, away, opts.AwayRotation); err != nil {
		return nil, fmt.Errorf("away rotation: %w", err)
	}
	for _, t := range g.teams {
		for _, p := range t.Players {
			g.box.Register(t.ID, p.ID)
		}
	}
	if err := g.start(opts.Start); err != nil {
		return nil, err
	}
	if err := g.play(opts.Start != nil); err != nil {
		return nil, err
	}

	r := g.res
	r.HomeScore, r.AwayScore = g.score[Home], g.score[Away]
	r.Box = g.box.Snapshot()
	r.HomeTotals, r.AwayTotals = g.box.Team(home.ID), g.box.Team(away.ID)
	g.log.WithFields(logrus.Fields{
		"home":        home.ID,
		"away":        away.ID,
		"score":       fmt.Sprintf("%d-%d", r.HomeScore, r.AwayScore),
		"possessions": r.Possessions,
		"overtimes":   r.Overtimes,
		"seed":        g.seed,
	}).Debug("game simulated")
	return r, nil
}

func (g *game) start(s *Start) error {
	if s == nil {
		g.clk = clock.New(g.c.Clock)
		return nil
	}
	if s.HomeScore < 0 || s.AwayScore < 0 {
		return fmt.Errorf("%w: negative score %d-%d", ErrInvalidStart, s.HomeScore, s.AwayScore)
	}
	if !s.Offense.valid() {
		return fmt.Errorf("%w: offense side %d", ErrInvalidStart, int(s.Offense))
	}
	if !s.OpeningTip.valid() {
		return fmt.Errorf("%w: opening tip side %d", ErrInvalidStart, int(s.OpeningTip))
	}
	clk, err := clock.Resume(g.c.Clock, s.Quarter, s.Remaining)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStart, err)
	}
	g.clk = clk
	g.score = [2]int{s.HomeScore, s.AwayScore}
	g.offense = s.Offense
	g.openingTip = s.OpeningTip
	return nil
}

// reseed gives every random unit of the game its own derived stream.
func (g *game) reseed() dice.RandomSource {
	g.src.Reseed(dice.DeriveSeed(g.seed, g.counter))
	g.counter++
	return g.src
}

func (g *game) play(resumed bool) error {
	first := true
	for {
		if !(first && resumed) {
			if err := g.openPeriod(); err != nil {
				return err
			}
		}
		first = false

		before := g.score
		for !g.clk.PeriodOver() {
			if err := g.possession(); err != nil {
				return err
			}
		}
		g.res.Periods = append(g.res.Periods, PeriodScore{
			Period: g.clk.Quarter,
			Label:  g.clk.Label(),
			Home:   g.score[Home] - before[Home],
			Away:   g.score[Away] - before[Away],
		})

		if !g.clk.NextPeriod(g.score[Home] == g.score[Away]) {
			return nil
		}
		if g.clk.IsOvertime() {
			g.res.Overtimes++
			g.log.WithFields(logrus.Fields{
				"period": g.clk.Label(),
				"score":  g.score[Home],
			}).Debug("overtime")
		}
	}
}

// openPeriod decides who starts with the ball. The opening tip winner gets
// the fourth quarter, the loser the second and third; overtime is a new tip.
func (g *game) openPeriod() error {
	switch q := g.clk.Quarter; {
	case q == 1:
		side, err := g.jumpBall()
		if err != nil {
			return err
		}
		g.openingTip, g.offense = side, side
	case g.clk.IsOvertime():
		side, err := g.jumpBall()
		if err != nil {
			return err
		}
		g.offense = side
	case q == 4:
		g.offense = g.openingTip
	default:
		g.offense = g.openingTip.Other()
	}
	return nil
}

// jumpBall sends each lineup's best shot blocker to the circle.
func (g *game) jumpBall() (Side, error) {
	var jumpers [2]roster.Player
	var weights [2]float64
	for _, s := range []Side{Home, Away} {
		lineup, err := g.rot[s].Lineup(g.situation(s), g.fatigue)
		if err != nil {
			return Home, err
		}
		j := lineup[0]
		for _, p := range lineup[1:] {
			if p.Attributes.Block > j.Attributes.Block {
				j = p
			}
		}
		jumpers[s] = g.fatigue.Apply(j)
		a := jumpers[s].Attributes
		weights[s] = max(a.Block+a.Speed/2+a.OffensiveRebound/2, 1)
	}
	i, err := dice.PickWeighted(weights[:], g.reseed())
	if err != nil {
		return Home, fmt.Errorf("jump ball: %w", err)
	}
	won := Side(i)
	g.res.Events = append(g.res.Events, possession.Event{
		Seq:       len(g.res.Events),
		Period:    g.clk.Quarter,
		GameClock: g.clk.Remaining,
		ShotClock: g.clk.Shot,
		Team:      g.teams[won].ID,
		Action:    possession.ActionJumpBall,
		Player:    jumpers[won].ID,
		Defender:  jumpers[won.Other()].ID,
	})
	return won, nil
}

func (g *game) situation(s Side) rotation.Situation {
	return rotation.Situation{
		Quarter:   g.clk.Quarter,
		Remaining: g.clk.Remaining,
		Elapsed:   g.clk.Elapsed(),
		Margin:    g.score[s] - g.score[s.Other()],
	}
}

func (g *game) possession() error {
	off, def := g.offense, g.offense.Other()
	var lineups [2][]roster.Player
	for _, s := range []Side{off, def} {
		l, err := g.rot[s].Lineup(g.situation(s), g.fatigue)
		if err != nil {
			return err
		}
		lineups[s] = l
	}
	tired := func(ps []roster.Player) []roster.Player {
		out := make([]roster.Player, len(ps))
		for i, p := range ps {
			out[i] = g.fatigue.Apply(p)
		}
		return out
	}

	res, err := possession.Run(possession.Input{
		Coefficients: g.c,
		Offense:      tired(lineups[off]),
		Defense:      tired(lineups[def]),
		Clock:        g.clk,
		Team:         g.teams[off].ID,
		Fresh:        true,
		Seq:          len(g.res.Events),
	}, g.reseed())
	if err != nil {
		return fmt.Errorf("possession %d: %w", g.res.Possessions, err)
	}

	g.res.Possessions++
	g.res.Events = append(g.res.Events, res.Events...)
	g.score[off] += res.Points
	for _, ev := range res.Events {
		g.box.Apply(Deltas(ev)...)
	}
	for _, s := range []Side{off, def} {
		for _, p := range lineups[s] {
			g.box.Apply(boxscore.Delta{PlayerID: p.ID, Seconds: res.Elapsed})
		}
		g.fatigue.Advance(res.Elapsed, lineups[s], g.rot[s].Bench(lineups[s]))
	}
	g.offense = def
	return nil
}
