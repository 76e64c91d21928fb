package rotation

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/roster"
)

var (
	ErrInsufficientPlayers = errors.New("fewer than five eligible players")
	ErrInvalidConfig       = errors.New("invalid rotation config")
)

// RestWindow keeps a player on the bench in one period while the period
// clock is between From and To seconds remaining (From >= To).
type RestWindow struct {
	Quarter int `yaml:"quarter" json:"quarter"`
	From    int `yaml:"from" json:"from"`
	To      int `yaml:"to" json:"to"`
}

func (w RestWindow) Contains(quarter, remaining int) bool {
	return quarter == w.Quarter && remaining <= w.From && remaining >= w.To
}

type PlayerPlan struct {
	TargetMinutes float64      `yaml:"target_minutes" json:"target_minutes"`
	RestWindows   []RestWindow `yaml:"rest_windows,omitempty" json:"rest_windows,omitempty"`
	Inactive      bool         `yaml:"inactive,omitempty" json:"inactive,omitempty"`
}

// Config is a team's minutes plan. Players without a plan get no target.
type Config struct {
	Players map[string]PlayerPlan `yaml:"players" json:"players"`
}

// DefaultConfig ranks the roster by overall: the top five are starters, the
// next ones fill the rotation and the rest share bench minutes.
func DefaultConfig(c coeff.Rotation, team roster.Team) Config {
	ranked := slices.Clone(team.Players)
	slices.SortStableFunc(ranked, func(a, b roster.Player) int {
		return cmp.Compare(b.Overall(), a.Overall())
	})
	cfg := Config{Players: make(map[string]PlayerPlan, len(ranked))}
	for i, p := range ranked {
		m := c.BenchMinutes
		switch {
		case i < roster.MinLineup:
			m = c.StarterMinutes
		case i < c.RotationSize:
			m = c.RotationMinutes
		}
		cfg.Players[p.ID] = PlayerPlan{TargetMinutes: m}
	}
	return cfg
}

// Validate rejects plans for players not on the team and malformed windows.
func (cfg Config) Validate(team roster.Team) error {
	for _, id := range slices.Sorted(maps.Keys(cfg.Players)) {
		plan := cfg.Players[id]
		if _, ok := team.Player(id); !ok {
			return fmt.Errorf("%w: %s has no player %q", ErrInvalidConfig, team.ID, id)
		}
		if plan.TargetMinutes < 0 {
			return fmt.Errorf("%w: %s target_minutes=%v", ErrInvalidConfig, id, plan.TargetMinutes)
		}
		for _, w := range plan.RestWindows {
			if w.Quarter < 1 || w.To < 0 || w.From < w.To {
				return fmt.Errorf("%w: %s rest window %+v", ErrInvalidConfig, id, w)
			}
		}
	}
	return nil
}
