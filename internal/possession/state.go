package possession

import (
	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/roster"
)

// State is the mutable context of one possession. An offensive rebound keeps
// the same State and resets part of it.
type State struct {
	Handler    string
	PassCount  int
	Breakdown  float64
	ShotClock  int
	Openness   map[string]float64
	Decay      map[string]float64 // stamina decay accrued this possession
	Boost      map[string]float64 // skill-move openness gains
	LastPasser string             // credited with an assist on a make
}

func NewState(handler string, shotClock int) *State {
	return &State{
		Handler:   handler,
		ShotClock: shotClock,
		Openness:  make(map[string]float64),
		Decay:     make(map[string]float64),
		Boost:     make(map[string]float64),
	}
}

// AddBreakdown raises defensive breakdown, never past limit.
func (s *State) AddBreakdown(delta, limit float64) {
	s.Breakdown = min(max(s.Breakdown+delta, 0), limit)
}

// OffensiveRebound hands the ball to the rebounder and starts a new shot-clock
// segment. Breakdown carries over, the pass count and boosts do not.
func (s *State) OffensiveRebound(rebounder string, shotClock int, breakdown coeff.Breakdown) {
	s.Handler = rebounder
	s.ShotClock = shotClock
	s.PassCount = 0
	s.LastPasser = ""
	clear(s.Boost)
	s.AddBreakdown(breakdown.PerOffensiveRebound, breakdown.Max)
}

// accrueDecay charges one step of effort. The handler works harder than the
// others; stamina above zero softens both.
func (s *State) accrueDecay(d coeff.Decay, offense []roster.Player) {
	for _, p := range offense {
		rate := d.OffBall
		if p.ID == s.Handler {
			rate = d.Handler
		}
		rate *= 1 - d.StaminaRelief*p.Attributes.Stamina/100
		s.Decay[p.ID] = min(s.Decay[p.ID]+max(rate, 0), d.Max)
	}
}

// effective returns p with this possession's decay applied.
func (s *State) effective(p roster.Player) roster.Player {
	p.Attributes = p.Attributes.Reduce(s.Decay[p.ID])
	return p
}
