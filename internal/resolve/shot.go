package resolve

import (
	"fmt"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/dice"
	"github.com/xtding233/hoops-sim/internal/roster"
)

type ShotInput struct {
	Shooter  roster.Player
	Defender roster.Player
	Openness float64
	Ctx      Context
}

type ShotResult struct {
	RollResult
	ThreePoint       bool    `json:"three_point"`
	ThreeProbability float64 `json:"three_probability"`
	Points           int     `json:"points"`
	Blocked          bool    `json:"blocked"`
}

// ThreePointRate is the chance a shot is taken from beyond the arc. Shooters
// under the attribute gate only ever take the floor rate.
func ThreePointRate(c *coeff.Coefficients, shooter roster.Player, openness float64, passCount int) float64 {
	t := c.Shot.Three
	attr := shooter.Attributes.ThreePointShot
	if attr < t.MinAttribute {
		return t.MinProb
	}
	p := t.Base + float64(t.Attribute*attr/100) + float64(t.Openness*openness/100) + float64(t.PassCount*float64(passCount))
	p *= c.Decision.Tendencies.For(string(shooter.Position)).Three
	return min(max(p, t.MinProb), t.MaxProb)
}

// ShotScore is the raw weighted score for a shot of the given type.
func ShotScore(c *coeff.Coefficients, in ShotInput, three bool) float64 {
	s := c.Shot
	skill := in.Shooter.Attributes.InsideShot
	if three {
		skill = in.Shooter.Attributes.ThreePointShot
	}
	raw := s.Base +
		float64(s.Skill*skill) +
		float64(s.Openness*in.Openness) -
		float64(s.Contest*in.Defender.Attributes.OnBallDefense) +
		float64(s.Breakdown*in.Ctx.Breakdown) +
		float64(s.PassCount*float64(in.Ctx.PassCount)) -
		float64(s.Pressure*in.Ctx.Pressure())
	if three {
		raw -= s.ThreePenalty
	}
	return raw
}

// RollShot decides the shot type, then rolls make or miss. A miss may be
// credited to the defender as a block.
func RollShot(c *coeff.Coefficients, in ShotInput, src dice.RandomSource) (ShotResult, error) {
	p3 := ThreePointRate(c, in.Shooter, in.Openness, in.Ctx.PassCount)
	three, err := dice.Draw(p3, src)
	if err != nil {
		return ShotResult{}, fmt.Errorf("three-point draw: %w", err)
	}

	raw := ShotScore(c, in, three)
	p := c.Shot.Band.Map(raw)
	rr, err := roll(
		[]float64{p, 1 - p},
		[]dice.Cap{c.Shot.Caps.Success, c.Shot.Caps.Failure},
		[]Outcome{OutcomeShotMade, OutcomeShotMissed},
		raw, p, src,
	)
	if err != nil {
		return ShotResult{}, fmt.Errorf("shot: %w", err)
	}

	res := ShotResult{RollResult: rr, ThreePoint: three, ThreeProbability: p3}
	if rr.Outcome == OutcomeShotMade {
		res.Points = 2
		if three {
			res.Points = 3
		}
		return res, nil
	}
	blockP := c.Shot.BlockRate * in.Defender.Attributes.Block / 100
	if three {
		blockP /= 2
	}
	if res.Blocked, err = dice.Draw(blockP, src); err != nil {
		return ShotResult{}, fmt.Errorf("block draw: %w", err)
	}
	return res, nil
}
