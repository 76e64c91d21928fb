package resolve

import (
	"fmt"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/dice"
	"github.com/xtding233/hoops-sim/internal/roster"
)

type SkillMoveInput struct {
	Handler  roster.Player
	Defender roster.Player
	Ctx      Context
}

type SkillMoveResult struct {
	RollResult
	StealProbability float64 `json:"steal_probability"`
	OpennessGain     float64 `json:"openness_gain"`
}

// SkillMoveScore is the raw score for beating the defender.
func SkillMoveScore(c *coeff.Coefficients, in SkillMoveInput) float64 {
	w := c.SkillMove
	a, d := in.Handler.Attributes, in.Defender.Attributes
	return w.Base +
		float64(w.SkillMove*a.SkillMove) +
		float64(w.Speed*a.Speed) +
		float64(w.BallIQ*a.BallIQ) -
		float64(w.Contest*d.OnBallDefense) -
		float64(w.DefenderSpeed*d.Speed)
}

// StealScore is the raw score for the defender stripping the handler.
func StealScore(c *coeff.Coefficients, in SkillMoveInput) float64 {
	w := c.SkillMove.Steal
	a := in.Handler.Attributes
	return w.Base + float64(w.Steal*in.Defender.Attributes.Steal) - float64(w.Handle*(a.BallIQ+a.SkillMove)/2)
}

// RollSkillMove resolves success, neutral or steal. Success carries the
// openness gain for the handler, never below the configured floor.
func RollSkillMove(c *coeff.Coefficients, in SkillMoveInput, src dice.RandomSource) (SkillMoveResult, error) {
	w := c.SkillMove
	raw := SkillMoveScore(c, in)
	pSuccess := w.Band.Map(raw)
	pSteal := w.Steal.Band.Map(StealScore(c, in))
	pNeutral := max(1-pSuccess-pSteal, 0)

	rr, err := roll(
		[]float64{pSuccess, pNeutral, pSteal},
		[]dice.Cap{w.Caps.Success, w.Caps.Neutral, w.Caps.Steal},
		[]Outcome{OutcomeMoveSuccess, OutcomeMoveNeutral, OutcomeMoveSteal},
		raw, pSuccess, src,
	)
	if err != nil {
		return SkillMoveResult{}, fmt.Errorf("skill move: %w", err)
	}
	res := SkillMoveResult{RollResult: rr, StealProbability: pSteal}
	if rr.Outcome == OutcomeMoveSuccess {
		t := (raw - w.Band.RawMin) / (w.Band.RawMax - w.Band.RawMin)
		t = min(max(t, 0), 1)
		res.OpennessGain = max(w.Gain.Floor, w.Gain.Base+float64(w.Gain.Scale*t))
	}
	return res, nil
}
