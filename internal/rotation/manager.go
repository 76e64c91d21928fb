// Package rotation decides who is on the floor and how tired they are.
package rotation

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/roster"
)

// Situation is the game state a lineup is picked for, from the team's side.
type Situation struct {
	Quarter   int
	Remaining int // seconds left in the period
	Elapsed   int // game seconds played
	Margin    int // own score minus the opponent's
}

type mode int

const (
	modeNormal mode = iota
	modeBlowout
	modeClose
)

func (s Situation) late(w coeff.Situation) bool {
	return s.Quarter >= w.Quarter && s.Remaining <= w.Seconds
}

func (s Situation) mode(r coeff.Rotation) mode {
	margin := s.Margin
	if margin < 0 {
		margin = -margin
	}
	switch {
	case s.late(r.Blowout) && margin >= r.Blowout.Margin:
		return modeBlowout
	case s.late(r.Close) && margin <= r.Close.Margin:
		return modeClose
	}
	return modeNormal
}

// Manager is the single source of a team's lineup for a game.
type Manager struct {
	c          coeff.Rotation
	regulation float64 // seconds
	team       roster.Team
	cfg        Config
	starters   map[string]bool
	onFloor    map[string]bool
}

// NewManager builds a manager for team. A nil cfg means DefaultConfig.
func NewManager(c *coeff.Coefficients, team roster.Team, cfg *Config) (*Manager, error) {
	plan := DefaultConfig(c.Rotation, team)
	if cfg != nil {
		if err := cfg.Validate(team); err != nil {
			return nil, err
		}
		plan = *cfg
	}
	m := &Manager{
		c:          c.Rotation,
		regulation: float64(c.Clock.Quarters * c.Clock.QuarterSeconds),
		team:       team,
		cfg:        plan,
		starters:   make(map[string]bool, roster.MinLineup),
		onFloor:    make(map[string]bool, roster.MinLineup),
	}

	byTarget := slices.Clone(team.Players)
	slices.SortStableFunc(byTarget, func(a, b roster.Player) int {
		return cmp.Compare(plan.Players[b.ID].TargetMinutes, plan.Players[a.ID].TargetMinutes)
	})
	for _, p := range byTarget[:min(roster.MinLineup, len(byTarget))] {
		m.starters[p.ID] = true
	}
	return m, nil
}

// Starter reports whether id is one of the five highest-minute players.
func (m *Manager) Starter(id string) bool { return m.starters[id] }

// Lineup returns exactly five players, ordered by position slot.
func (m *Manager) Lineup(s Situation, f *Fatigue) ([]roster.Player, error) {
	type cand struct {
		p     roster.Player
		score float64
	}
	md := s.mode(m.c)
	var cands []cand
	for _, p := range m.team.Players {
		if m.cfg.Players[p.ID].Inactive {
			continue
		}
		cands = append(cands, cand{p, m.score(p, s, f.State(p.ID), md)})
	}
	if len(cands) < roster.MinLineup {
		return nil, fmt.Errorf("%w: team %s has %d", ErrInsufficientPlayers, m.team.ID, len(cands))
	}

	slices.SortStableFunc(cands, func(a, b cand) int { return cmp.Compare(b.score, a.score) })
	lineup := make([]roster.Player, roster.MinLineup)
	clear(m.onFloor)
	for i := range lineup {
		lineup[i] = cands[i].p
		m.onFloor[lineup[i].ID] = true
	}
	slices.SortStableFunc(lineup, func(a, b roster.Player) int {
		return cmp.Compare(a.Position.Slot(), b.Position.Slot())
	})
	return lineup, nil
}

// Bench returns the roster players not in lineup.
func (m *Manager) Bench(lineup []roster.Player) []roster.Player {
	var out []roster.Player
	for _, p := range m.team.Players {
		if !slices.ContainsFunc(lineup, func(q roster.Player) bool { return q.ID == p.ID }) {
			out = append(out, p)
		}
	}
	return out
}

func (m *Manager) score(p roster.Player, s Situation, fs FatigueState, md mode) float64 {
	r := m.c
	if md == modeClose {
		return p.Overall()
	}

	plan := m.cfg.Players[p.ID]
	progress := min(float64(s.Elapsed)/m.regulation, 1)
	need := float64(plan.TargetMinutes*progress) - fs.Minutes()

	score := float64(r.NeedWeight*need) + float64(r.OverallWeight*p.Overall()/100) - float64(r.FatigueWeight*fs.Penalty)
	if m.onFloor[p.ID] {
		score += r.StintBonus
	}
	// tired players sit only once they are on pace for their target
	if fs.Penalty >= r.RestThreshold && need <= 0 {
		score -= r.RestWindowPenalty
	}
	// target used up: play only when nobody with minutes left can
	if fs.Minutes() >= plan.TargetMinutes {
		score -= r.RestWindowPenalty
	}
	for _, w := range plan.RestWindows {
		if w.Contains(s.Quarter, s.Remaining) {
			score -= r.RestWindowPenalty
		}
	}
	if md == modeBlowout && m.starters[p.ID] {
		score -= r.RestWindowPenalty
	}
	return score
}
