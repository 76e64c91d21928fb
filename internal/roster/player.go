// Package roster is the simulation view of players and teams.
package roster

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidRoster = errors.New("invalid roster")

// MinLineup is the number of players a team keeps on court.
const MinLineup = 5

// Position is a roster position code.
type Position string

const (
	PointGuard    Position = "PG"
	ShootingGuard Position = "SG"
	SmallForward  Position = "SF"
	PowerForward  Position = "PF"
	Center        Position = "C"
)

// Slot orders positions on court; matchups pair equal slots.
func (p Position) Slot() int {
	switch p {
	case PointGuard:
		return 0
	case ShootingGuard:
		return 1
	case SmallForward:
		return 2
	case PowerForward:
		return 3
	case Center:
		return 4
	default:
		return 2
	}
}

func (p Position) Valid() bool {
	switch p {
	case PointGuard, ShootingGuard, SmallForward, PowerForward, Center:
		return true
	}
	return false
}

// IsGuard reports whether p plays on the perimeter.
func (p Position) IsGuard() bool {
	return p == PointGuard || p == ShootingGuard
}

// Attributes are 0-100 ratings.
type Attributes struct {
	Speed            float64 `yaml:"speed" json:"speed"`
	BallIQ           float64 `yaml:"ball_iq" json:"ball_iq"`
	InsideShot       float64 `yaml:"inside_shot" json:"inside_shot"`
	ThreePointShot   float64 `yaml:"three_point_shot" json:"three_point_shot"`
	Pass             float64 `yaml:"pass" json:"pass"`
	SkillMove        float64 `yaml:"skill_move" json:"skill_move"`
	OnBallDefense    float64 `yaml:"on_ball_defense" json:"on_ball_defense"`
	Stamina          float64 `yaml:"stamina" json:"stamina"`
	Block            float64 `yaml:"block" json:"block"`
	Steal            float64 `yaml:"steal" json:"steal"`
	OffensiveRebound float64 `yaml:"offensive_rebound" json:"offensive_rebound"`
	DefensiveRebound float64 `yaml:"defensive_rebound" json:"defensive_rebound"`
}

// fields lists pointers to every attribute, in declaration order.
func (a *Attributes) fields() []*float64 {
	return []*float64{
		&a.Speed, &a.BallIQ, &a.InsideShot, &a.ThreePointShot, &a.Pass, &a.SkillMove,
		&a.OnBallDefense, &a.Stamina, &a.Block, &a.Steal, &a.OffensiveRebound, &a.DefensiveRebound,
	}
}

var attributeNames = []string{
	"speed", "ball_iq", "inside_shot", "three_point_shot", "pass", "skill_move",
	"on_ball_defense", "stamina", "block", "steal", "offensive_rebound", "defensive_rebound",
}

// Clamp returns a copy with every attribute inside [0, 100].
func (a Attributes) Clamp() Attributes {
	for _, f := range a.fields() {
		*f = Clamp(*f)
	}
	return a
}

// Reduce returns a copy with the same penalty subtracted from every attribute
// except stamina, clamped at zero.
func (a Attributes) Reduce(penalty float64) Attributes {
	if penalty <= 0 {
		return a
	}
	stamina := a.Stamina
	for _, f := range a.fields() {
		*f = Clamp(*f - penalty)
	}
	a.Stamina = stamina
	return a
}

// Overall is the mean of the twelve attributes.
func (a Attributes) Overall() float64 {
	var sum float64
	fs := a.fields()
	for _, f := range fs {
		sum += *f
	}
	return sum / float64(len(fs))
}

// Scoring is the better of the two shooting ratings.
func (a Attributes) Scoring() float64 {
	return max(a.InsideShot, a.ThreePointShot)
}

// Uniform builds attributes with every rating set to v.
func Uniform(v float64) Attributes {
	var a Attributes
	for _, f := range a.fields() {
		*f = v
	}
	return a
}

// Clamp bounds v to [0, 100].
func Clamp(v float64) float64 {
	return min(max(v, 0), 100)
}

type Player struct {
	ID         string     `yaml:"id" json:"id"`
	Name       string     `yaml:"name" json:"name"`
	Position   Position   `yaml:"position" json:"position"`
	Attributes Attributes `yaml:"attributes" json:"attributes"`
}

func (p Player) Overall() float64 { return p.Attributes.Overall() }

type Team struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Players []Player `yaml:"players" json:"players"`
}

// Player looks a roster member up by id.
func (t Team) Player(id string) (Player, bool) {
	for _, p := range t.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Validate checks ids, positions and attribute ranges, collecting every violation.
func (t Team) Validate() error {
	var errs []string
	if strings.TrimSpace(t.ID) == "" {
		errs = append(errs, "team id is required")
	}
	if len(t.Players) < MinLineup {
		errs = append(errs, fmt.Sprintf("team %s has %d players, need at least %d", t.ID, len(t.Players), MinLineup))
	}
	seen := make(map[string]bool, len(t.Players))
	for i, p := range t.Players {
		if strings.TrimSpace(p.ID) == "" {
			errs = append(errs, fmt.Sprintf("players[%d].id is required", i))
		} else if seen[p.ID] {
			errs = append(errs, fmt.Sprintf("players[%d].id %q is duplicated", i, p.ID))
		}
		seen[p.ID] = true
		if !p.Position.Valid() {
			errs = append(errs, fmt.Sprintf("players[%d].position %q must be one of PG, SG, SF, PF, C", i, p.Position))
		}
		a := p.Attributes
		for j, f := range a.fields() {
			if math.IsNaN(*f) || *f < 0 || *f > 100 {
				errs = append(errs, fmt.Sprintf("players[%d].attributes.%s=%v must be in [0,100]", i, attributeNames[j], *f))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRoster, strings.Join(errs, "; "))
	}
	return nil
}

// ValidateMatchup validates both teams and rejects player ids shared between them.
func ValidateMatchup(home, away Team) error {
	if err := home.Validate(); err != nil {
		return fmt.Errorf("home: %w", err)
	}
	if err := away.Validate(); err != nil {
		return fmt.Errorf("away: %w", err)
	}
	if home.ID == away.ID {
		return fmt.Errorf("%w: home and away share team id %q", ErrInvalidRoster, home.ID)
	}
	ids := make(map[string]bool, len(home.Players))
	for _, p := range home.Players {
		ids[p.ID] = true
	}
	for _, p := range away.Players {
		if ids[p.ID] {
			return fmt.Errorf("%w: player id %q appears on both teams", ErrInvalidRoster, p.ID)
		}
	}
	return nil
}
