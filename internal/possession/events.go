package possession

import "github.com/xtding233/hoops-sim/internal/resolve"

// Terminal is how a possession ended.
type Terminal int

const (
	TerminalNone Terminal = iota
	TerminalMadeBasket
	TerminalTurnover
	TerminalDefensiveRebound
	TerminalShotClockViolation
	TerminalPeriodEnd
)

func (t Terminal) String() string {
	switch t {
	case TerminalNone:
		return ""
	case TerminalMadeBasket:
		return "made_basket"
	case TerminalTurnover:
		return "turnover"
	case TerminalDefensiveRebound:
		return "defensive_rebound"
	case TerminalShotClockViolation:
		return "shot_clock_violation"
	case TerminalPeriodEnd:
		return "period_end"
	default:
		return "unknown"
	}
}

func (t Terminal) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Event is one line of the play-by-play. Player is the actor: shooter,
// passer, handler or rebounder. Defender is the player guarding the action,
// who is credited with any steal or block.
type Event struct {
	Seq       int    `json:"seq"`
	Period    int    `json:"period"`
	GameClock int    `json:"game_clock"`
	ShotClock int    `json:"shot_clock"`
	Team      string `json:"team"`

	Action   Action `json:"action"`
	Player   string `json:"player,omitempty"`
	Target   string `json:"target,omitempty"`
	Defender string `json:"defender,omitempty"`
	Assist   string `json:"assist,omitempty"`
	Forced   bool   `json:"forced,omitempty"`

	Roll       *resolve.RollResult `json:"roll,omitempty"`
	ThreePoint bool                `json:"three_point,omitempty"`
	Points     int                 `json:"points,omitempty"`
	Blocked    bool                `json:"blocked,omitempty"`
	Offensive  bool                `json:"offensive,omitempty"`
	Gain       float64             `json:"gain,omitempty"`

	Terminal         Terminal `json:"terminal,omitempty"`
	PossessionChange bool     `json:"possession_change,omitempty"`
}

// Steal reports whether the defender took the ball away on this event.
func (e Event) Steal() bool {
	if e.Roll == nil {
		return false
	}
	return e.Roll.Outcome == resolve.OutcomePassIntercepted || e.Roll.Outcome == resolve.OutcomeMoveSteal
}

// Turnover reports whether the actor gave the ball away.
func (e Event) Turnover() bool {
	return e.Steal() || e.Terminal == TerminalShotClockViolation
}
