package rotation

import (
	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/roster"
)

// FatigueState is one player's whole-game fatigue.
type FatigueState struct {
	Seconds int     // time on the floor
	Penalty float64 // in [0, cap]
	Active  bool
}

func (s FatigueState) Minutes() float64 { return float64(s.Seconds) / 60 }

// Fatigue tracks every player in one game, keyed by id.
type Fatigue struct {
	c       coeff.Fatigue
	players map[string]*FatigueState
}

func NewFatigue(c coeff.Fatigue) *Fatigue {
	return &Fatigue{c: c, players: make(map[string]*FatigueState)}
}

// State returns a copy of a player's fatigue; unseen players are fresh.
func (f *Fatigue) State(id string) FatigueState {
	if s, ok := f.players[id]; ok {
		return *s
	}
	return FatigueState{}
}

func (f *Fatigue) state(id string) *FatigueState {
	s, ok := f.players[id]
	if !ok {
		s = &FatigueState{}
		f.players[id] = s
	}
	return s
}

// rate is penalty per second on the floor. Low stamina tires faster.
func (f *Fatigue) rate(p roster.Player) float64 {
	stamina := max(p.Attributes.Stamina, f.c.MinStamina, 1)
	return f.c.AccrualPerMinute / 60 * f.c.StaminaReference / stamina
}

// Advance moves seconds of game time: active players accrue minutes and
// penalty, bench players recover toward zero at RecoveryRatio of their
// accrual rate.
func (f *Fatigue) Advance(seconds int, active, bench []roster.Player) {
	if seconds <= 0 {
		return
	}
	for _, p := range active {
		s := f.state(p.ID)
		s.Active = true
		s.Seconds += seconds
		s.Penalty = min(s.Penalty+float64(f.rate(p)*float64(seconds)), f.c.Cap)
	}
	for _, p := range bench {
		s := f.state(p.ID)
		s.Active = false
		s.Penalty = max(s.Penalty-float64(f.rate(p)*f.c.RecoveryRatio*float64(seconds)), 0)
	}
}

// Apply returns a copy of p with its attributes worn down by the current
// penalty. Each attribute loses sensitivity*penalty percent; stamina is untouched.
func (f *Fatigue) Apply(p roster.Player) roster.Player {
	pen := f.State(p.ID).Penalty
	if pen <= 0 {
		return p
	}
	s := f.c.Sensitivity
	a := &p.Attributes
	for _, x := range []struct {
		v    *float64
		sens float64
	}{
		{&a.Speed, s.Speed},
		{&a.BallIQ, s.BallIQ},
		{&a.InsideShot, s.InsideShot},
		{&a.ThreePointShot, s.ThreePointShot},
		{&a.Pass, s.Pass},
		{&a.SkillMove, s.SkillMove},
		{&a.OnBallDefense, s.OnBallDefense},
		{&a.Block, s.Block},
		{&a.Steal, s.Steal},
		{&a.OffensiveRebound, s.OffensiveRebound},
		{&a.DefensiveRebound, s.DefensiveRebound},
	} {
		*x.v = roster.Clamp(*x.v * (1 - x.sens*pen/100))
	}
	return p
}
