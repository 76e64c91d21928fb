// Package resolve turns attributes and context into D20 rolls.
//
// Every resolver has the same shape: a raw weighted score, an affine map into
// a bounded probability band, per-outcome face caps, a face allocation, one
// d20 roll and the outcome owning the rolled face.
package resolve

import (
	"fmt"

	"github.com/xtding233/hoops-sim/internal/dice"
)

// Outcome tags what a roll resolved to.
type Outcome int

const (
	OutcomeUnspecified Outcome = iota
	OutcomeShotMade
	OutcomeShotMissed
	OutcomePassComplete
	OutcomePassIntercepted
	OutcomeMoveSuccess
	OutcomeMoveNeutral
	OutcomeMoveSteal
	OutcomeReboundOffensive
	OutcomeReboundDefensive
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnspecified:
		return "unspecified"
	case OutcomeShotMade:
		return "shot_made"
	case OutcomeShotMissed:
		return "shot_missed"
	case OutcomePassComplete:
		return "pass_complete"
	case OutcomePassIntercepted:
		return "pass_intercepted"
	case OutcomeMoveSuccess:
		return "move_success"
	case OutcomeMoveNeutral:
		return "move_neutral"
	case OutcomeMoveSteal:
		return "move_steal"
	case OutcomeReboundOffensive:
		return "rebound_offensive"
	case OutcomeReboundDefensive:
		return "rebound_defensive"
	default:
		return "unknown"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// RollResult is the audit trail of one d20 resolution.
type RollResult struct {
	Outcome     Outcome `json:"outcome"`
	Roll        int     `json:"roll"`
	Faces       []int   `json:"faces"`
	RawScore    float64 `json:"raw_score"`
	Probability float64 `json:"probability"`
}

// Ranges returns the roll span owned by each outcome.
func (r RollResult) Ranges() []dice.Range { return dice.FaceRanges(r.Faces) }

// Context is the possession state every resolver may read.
type Context struct {
	PassCount      int
	Breakdown      float64
	ShotClock      int // effective seconds left, min(shot clock, game clock)
	PressureWindow int
}

// Pressure is 0 with PressureWindow or more seconds left, rising to 1 at zero.
func (c Context) Pressure() float64 {
	if c.PressureWindow <= 0 || c.ShotClock >= c.PressureWindow {
		return 0
	}
	left := max(c.ShotClock, 0)
	return float64(c.PressureWindow-left) / float64(c.PressureWindow)
}

// roll allocates faces for probs, rolls once and maps the roll onto outcomes.
func roll(probs []float64, caps []dice.Cap, outcomes []Outcome, raw, prob float64, src dice.RandomSource) (RollResult, error) {
	if len(probs) != len(outcomes) {
		panic(fmt.Sprintf("resolve: %d probabilities for %d outcomes", len(probs), len(outcomes)))
	}
	faces, err := dice.AllocateFaces(probs, caps)
	if err != nil {
		return RollResult{}, err
	}
	r := dice.RollD20(src)
	return RollResult{
		Outcome:     outcomes[dice.OutcomeFromRoll(faces, r)],
		Roll:        r,
		Faces:       faces,
		RawScore:    raw,
		Probability: prob,
	}, nil
}
