package possession

import (
	"fmt"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/dice"
	"github.com/xtding233/hoops-sim/internal/resolve"
	"github.com/xtding233/hoops-sim/internal/roster"
)

// Action is what the ball handler does on a step. The rest only ever appear
// in the event log.
type Action int

const (
	ActionShoot Action = iota
	ActionSkillMove
	ActionPass
	ActionRebound
	ActionViolation
	ActionPeriodEnd
	ActionJumpBall
)

func (a Action) String() string {
	switch a {
	case ActionShoot:
		return "shoot"
	case ActionSkillMove:
		return "skill_move"
	case ActionPass:
		return "pass"
	case ActionRebound:
		return "rebound"
	case ActionViolation:
		return "shot_clock_violation"
	case ActionPeriodEnd:
		return "period_end"
	case ActionJumpBall:
		return "jump_ball"
	default:
		return "unknown"
	}
}

func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Choice is a decided action. Target is set for passes.
type Choice struct {
	Action  Action
	Target  string
	Forced  bool
	Weights [3]float64 // shoot, skill move, pass
}

// ActionWeights returns the shoot, skill-move and pass weights for the
// handler. Weights are never negative.
func ActionWeights(c *coeff.Coefficients, handler roster.Player, own, team float64, passCount int, ctx resolve.Context) [3]float64 {
	d := c.Decision
	a := handler.Attributes
	tend := d.Tendencies.For(string(handler.Position))
	pressure := ctx.Pressure()

	shoot := d.Shoot.Base +
		float64(d.Shoot.Scoring*a.Scoring()) +
		float64(d.Shoot.Openness*own) +
		float64(d.Shoot.PassCount*float64(passCount)) +
		float64(d.Shoot.Pressure*pressure)
	move := d.SkillMove.Base +
		float64(d.SkillMove.SkillMove*a.SkillMove) +
		float64(d.SkillMove.Speed*a.Speed) +
		float64(d.SkillMove.Closed*(100-own))
	pass := d.Pass.Base +
		float64(d.Pass.Pass*a.Pass) +
		float64(d.Pass.BallIQ*a.BallIQ) +
		float64(d.Pass.TeamOpenness*max(team-own, 0)) -
		float64(d.Pass.PassCount*float64(passCount))

	// Late in the clock everything but the shot fades out.
	return [3]float64{
		max(shoot*tend.Shoot, 0),
		max(move*tend.SkillMove*(1-pressure), 0),
		max(pass*tend.Pass*(1-pressure), 0),
	}
}

// TargetWeights weighs each teammate as a pass target. Smart passers lean on
// scoring ability, others on who looks open.
func TargetWeights(c *coeff.Coefficients, passer roster.Player, teammates []roster.Player, openness map[string]float64) []float64 {
	t := c.Decision.Target
	alpha := min(max(passer.Attributes.BallIQ/100*t.IQInfluence, 0), 1)
	w := make([]float64, len(teammates))
	for i, p := range teammates {
		w[i] = float64((1-alpha)*openness[p.ID]) + float64(alpha*p.Attributes.Scoring()) + t.Floor
	}
	return w
}

// Decide picks the handler's next action. With the effective clock at or
// under the forced-shot threshold the handler always shoots.
func Decide(c *coeff.Coefficients, handler roster.Player, teammates []roster.Player, st *State, ctx resolve.Context, src dice.RandomSource) (Choice, error) {
	if ctx.ShotClock <= c.Decision.ForcedShotThreshold || len(teammates) == 0 {
		return Choice{Action: ActionShoot, Forced: true}, nil
	}
	own := st.Openness[handler.ID]
	all := append([]roster.Player{handler}, teammates...)
	ch := Choice{Weights: ActionWeights(c, handler, own, teamOpenness(st, all), st.PassCount, ctx)}

	if ch.Weights[0]+ch.Weights[1]+ch.Weights[2] <= 0 {
		ch.Action = ActionShoot
		return ch, nil
	}
	i, err := dice.PickWeighted(ch.Weights[:], src)
	if err != nil {
		return Choice{}, fmt.Errorf("decide: %w", err)
	}
	ch.Action = Action(i)
	if ch.Action != ActionPass {
		return ch, nil
	}

	j, err := dice.PickWeighted(TargetWeights(c, handler, teammates, st.Openness), src)
	if err != nil {
		return Choice{}, fmt.Errorf("pass target: %w", err)
	}
	ch.Target = teammates[j].ID
	return ch, nil
}
