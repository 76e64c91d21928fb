package resolve

import (
	"fmt"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/dice"
	"github.com/xtding233/hoops-sim/internal/roster"
)

type PassInput struct {
	Passer         roster.Player
	Target         roster.Player
	Defender       roster.Player // guarding the target
	TargetOpenness float64
	Ctx            Context
}

// PassPolicy produces the complete/intercepted probabilities and caps for a pass.
type PassPolicy func(c *coeff.Coefficients, in PassInput) (probs []float64, caps []dice.Cap, raw, prob float64)

// CoefficientPassPolicy weighs passer skill and target openness against the
// target's defender.
func CoefficientPassPolicy(c *coeff.Coefficients, in PassInput) ([]float64, []dice.Cap, float64, float64) {
	w := c.Pass
	a := in.Passer.Attributes
	raw := w.Base +
		float64(w.Pass*a.Pass) +
		float64(w.BallIQ*a.BallIQ) +
		float64(w.Openness*in.TargetOpenness) -
		float64(w.Steal*in.Defender.Attributes.Steal) -
		float64(w.Contest*in.Defender.Attributes.OnBallDefense)
	p := w.Band.Map(raw)
	return []float64{p, 1 - p}, []dice.Cap{w.Caps.Complete, w.Caps.Intercepted}, raw, p
}

// FlatPassPolicy ignores every attribute and pins the die at
// flat_complete_faces complete faces (19:1 by default).
func FlatPassPolicy(c *coeff.Coefficients, _ PassInput) ([]float64, []dice.Cap, float64, float64) {
	f := c.Pass.FlatCompleteFaces
	p := float64(f) / dice.Faces
	caps := []dice.Cap{{Min: f, Max: f}, {Min: dice.Faces - f, Max: dice.Faces - f}}
	return []float64{p, 1 - p}, caps, 0, p
}

// PassPolicyFor returns the policy named by pass.mode.
func PassPolicyFor(mode string) (PassPolicy, error) {
	switch mode {
	case coeff.PassModeCoefficient:
		return CoefficientPassPolicy, nil
	case coeff.PassModeFlat:
		return FlatPassPolicy, nil
	}
	return nil, fmt.Errorf("%w: pass.mode %q", coeff.ErrInvalidCoefficient, mode)
}

func RollPass(c *coeff.Coefficients, in PassInput, src dice.RandomSource) (RollResult, error) {
	policy, err := PassPolicyFor(c.Pass.Mode)
	if err != nil {
		return RollResult{}, err
	}
	probs, caps, raw, p := policy(c, in)
	rr, err := roll(probs, caps, []Outcome{OutcomePassComplete, OutcomePassIntercepted}, raw, p, src)
	if err != nil {
		return RollResult{}, fmt.Errorf("pass: %w", err)
	}
	return rr, nil
}
