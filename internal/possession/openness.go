package possession

import (
	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/roster"
)

// PairOpenness scores how open off is against one defender, before clamping
// across the defense. Both players should already carry any decay or fatigue.
func PairOpenness(c *coeff.Coefficients, off, def roster.Player, passCount int, breakdown float64) float64 {
	w := c.Openness
	a, d := off.Attributes, def.Attributes
	// products are rounded before summing so no platform fuses them
	o := float64(w.Speed*a.Speed) + float64(w.BallIQ*a.BallIQ) + float64(w.SkillMove*a.SkillMove) + float64(w.Pass*a.Pass)
	dv := float64(w.DefenderSpeed*d.Speed) + float64(w.DefenderOnBall*d.OnBallDefense)
	score := w.Base + o - dv + float64(w.PassCountBonus*float64(passCount)) - float64(w.BreakdownPenalty*breakdown)
	return roster.Clamp(score)
}

// Openness averages PairOpenness over every defender on the floor.
func Openness(c *coeff.Coefficients, off roster.Player, defense []roster.Player, passCount int, breakdown float64) float64 {
	if len(defense) == 0 {
		return 100
	}
	var sum float64
	for _, d := range defense {
		sum += PairOpenness(c, off, d, passCount, breakdown)
	}
	return roster.Clamp(sum / float64(len(defense)))
}

// refreshOpenness recomputes every offensive player's openness from the
// current state, adding skill-move boosts last.
func refreshOpenness(c *coeff.Coefficients, st *State, offense, defense []roster.Player) {
	for _, p := range offense {
		eff := st.effective(p)
		st.Openness[p.ID] = roster.Clamp(Openness(c, eff, defense, st.PassCount, st.Breakdown) + st.Boost[p.ID])
	}
}

// teamOpenness is the mean openness of the listed players.
func teamOpenness(st *State, offense []roster.Player) float64 {
	if len(offense) == 0 {
		return 0
	}
	var sum float64
	for _, p := range offense {
		sum += st.Openness[p.ID]
	}
	return sum / float64(len(offense))
}
