// Package boxscore folds game events into per-player stat lines.
package boxscore

// Line is one player's totals.
type Line struct {
	PlayerID           string `json:"player_id"`
	TeamID             string `json:"team_id"`
	Points             int    `json:"points"`
	OffensiveRebounds  int    `json:"offensive_rebounds"`
	DefensiveRebounds  int    `json:"defensive_rebounds"`
	Assists            int    `json:"assists"`
	Steals             int    `json:"steals"`
	Blocks             int    `json:"blocks"`
	FieldGoalsMade     int    `json:"fgm"`
	FieldGoalsAttempts int    `json:"fga"`
	ThreesMade         int    `json:"three_pm"`
	ThreesAttempted    int    `json:"three_pa"`
	Turnovers          int    `json:"turnovers"`
	Seconds            int    `json:"seconds"`
}

func (l Line) Rebounds() int    { return l.OffensiveRebounds + l.DefensiveRebounds }
func (l Line) Minutes() float64 { return float64(l.Seconds) / 60 }

// Delta is a change to one player's line. Zero fields change nothing.
type Delta struct {
	PlayerID          string
	Points            int
	OffensiveRebounds int
	DefensiveRebounds int
	Assists           int
	Steals            int
	Blocks            int
	FGM, FGA          int
	ThreePM, ThreePA  int
	Turnovers         int
	Seconds           int
}

// Reduce returns l with d applied.
func Reduce(l Line, d Delta) Line {
	l.Points += d.Points
	l.OffensiveRebounds += d.OffensiveRebounds
	l.DefensiveRebounds += d.DefensiveRebounds
	l.Assists += d.Assists
	l.Steals += d.Steals
	l.Blocks += d.Blocks
	l.FieldGoalsMade += d.FGM
	l.FieldGoalsAttempts += d.FGA
	l.ThreesMade += d.ThreePM
	l.ThreesAttempted += d.ThreePA
	l.Turnovers += d.Turnovers
	l.Seconds += d.Seconds
	return l
}

// Accumulator is the one box score of a game, keyed by player id.
type Accumulator struct {
	lines map[string]Line
	order []string
}

func New() *Accumulator {
	return &Accumulator{lines: make(map[string]Line)}
}

// Register adds a zero line for every player so benchwarmers still appear.
func (a *Accumulator) Register(teamID string, playerIDs ...string) {
	for _, id := range playerIDs {
		if _, ok := a.lines[id]; ok {
			continue
		}
		a.lines[id] = Line{PlayerID: id, TeamID: teamID}
		a.order = append(a.order, id)
	}
}

// Apply reduces every delta into its player's line. Unregistered players
// are added without a team.
func (a *Accumulator) Apply(ds ...Delta) {
	for _, d := range ds {
		if d.PlayerID == "" {
			continue
		}
		l, ok := a.lines[d.PlayerID]
		if !ok {
			l = Line{PlayerID: d.PlayerID}
			a.order = append(a.order, d.PlayerID)
		}
		a.lines[d.PlayerID] = Reduce(l, d)
	}
}

func (a *Accumulator) Line(id string) Line { return a.lines[id] }

// Snapshot copies every line in registration order.
func (a *Accumulator) Snapshot() []Line {
	out := make([]Line, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.lines[id])
	}
	return out
}

// Team totals the lines of one team.
func (a *Accumulator) Team(teamID string) Line {
	t := Line{TeamID: teamID}
	for _, id := range a.order {
		l := a.lines[id]
		if l.TeamID != teamID {
			continue
		}
		t = Reduce(t, Delta{
			Points:            l.Points,
			OffensiveRebounds: l.OffensiveRebounds,
			DefensiveRebounds: l.DefensiveRebounds,
			Assists:           l.Assists,
			Steals:            l.Steals,
			Blocks:            l.Blocks,
			FGM:               l.FieldGoalsMade,
			FGA:               l.FieldGoalsAttempts,
			ThreePM:           l.ThreesMade,
			ThreePA:           l.ThreesAttempted,
			Turnovers:         l.Turnovers,
			Seconds:           l.Seconds,
		})
	}
	return t
}
