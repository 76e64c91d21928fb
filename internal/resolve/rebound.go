package resolve

import (
	"fmt"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/dice"
	"github.com/xtding233/hoops-sim/internal/roster"
)

// ShotDistance buckets where a missed shot came from.
type ShotDistance int

const (
	DistanceClose ShotDistance = iota
	DistanceMid
	DistanceLong
)

func (d ShotDistance) String() string {
	switch d {
	case DistanceClose:
		return "close"
	case DistanceMid:
		return "mid"
	default:
		return "long"
	}
}

// DistanceFor classifies a shot: threes are long, strong inside scorers get close looks.
func DistanceFor(c *coeff.Coefficients, shooter roster.Player, three bool) ShotDistance {
	switch {
	case three:
		return DistanceLong
	case shooter.Attributes.InsideShot >= c.Rebound.CloseInsideThreshold:
		return DistanceClose
	default:
		return DistanceMid
	}
}

type ReboundInput struct {
	Offense    []roster.Player
	Defense    []roster.Player
	Distance   ShotDistance
	ThreePoint bool
}

type ReboundResult struct {
	RollResult
	Rebounder roster.Player `json:"-"`
	Offensive bool          `json:"offensive"`
	Weights   []float64     `json:"weights"`
}

func (in ReboundInput) modifier(c *coeff.Coefficients) coeff.SideModifier {
	switch in.Distance {
	case DistanceClose:
		return c.Rebound.Distance.Close
	case DistanceMid:
		return c.Rebound.Distance.Mid
	default:
		return c.Rebound.Distance.Long
	}
}

// ReboundWeights returns one weight per combatant, offense first.
func ReboundWeights(c *coeff.Coefficients, in ReboundInput) []float64 {
	r := c.Rebound
	mod := in.modifier(c)
	weight := func(p roster.Player, attr, side float64) float64 {
		w := max(attr, r.WeightFloor) * r.PositionBonus.For(string(p.Position)) * side
		if in.ThreePoint && p.Position.IsGuard() {
			w *= r.ThreeGuardBonus
		}
		return w
	}
	out := make([]float64, 0, len(in.Offense)+len(in.Defense))
	for _, p := range in.Offense {
		out = append(out, weight(p, p.Attributes.OffensiveRebound, r.OffenseScale*mod.Offense))
	}
	for _, p := range in.Defense {
		out = append(out, weight(p, p.Attributes.DefensiveRebound, (1+r.DefenseBias)*mod.Defense))
	}
	return out
}

// RollRebound spreads the die over all ten players and returns the winner.
func RollRebound(c *coeff.Coefficients, in ReboundInput, src dice.RandomSource) (ReboundResult, error) {
	n := len(in.Offense) + len(in.Defense)
	if len(in.Offense) == 0 || len(in.Defense) == 0 {
		return ReboundResult{}, fmt.Errorf("rebound: need players on both sides, got %d and %d", len(in.Offense), len(in.Defense))
	}
	weights := ReboundWeights(c, in)
	caps := make([]dice.Cap, n)
	for i := range caps {
		caps[i] = c.Rebound.Caps
	}
	faces, err := dice.AllocateFaces(weights, caps)
	if err != nil {
		return ReboundResult{}, fmt.Errorf("rebound: %w", err)
	}
	r := dice.RollD20(src)
	idx := dice.OutcomeFromRoll(faces, r)

	var total float64
	for _, w := range weights {
		total += w
	}
	res := ReboundResult{
		RollResult: RollResult{
			Roll:        r,
			Faces:       faces,
			RawScore:    weights[idx],
			Probability: weights[idx] / total,
		},
		Weights: weights,
	}
	if idx < len(in.Offense) {
		res.Outcome = OutcomeReboundOffensive
		res.Offensive = true
		res.Rebounder = in.Offense[idx]
	} else {
		res.Outcome = OutcomeReboundDefensive
		res.Rebounder = in.Defense[idx-len(in.Offense)]
	}
	return res, nil
}
