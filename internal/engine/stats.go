package engine

import (
	"github.com/xtding233/hoops-sim/internal/boxscore"
	"github.com/xtding233/hoops-sim/internal/possession"
)

// Deltas turns one play-by-play event into box score changes.
func Deltas(ev possession.Event) []boxscore.Delta {
	switch ev.Action {
	case possession.ActionShoot:
		shot := boxscore.Delta{PlayerID: ev.Player, FGA: 1}
		if ev.ThreePoint {
			shot.ThreePA = 1
		}
		out := []boxscore.Delta{shot}
		if ev.Points > 0 {
			out[0].FGM, out[0].Points = 1, ev.Points
			if ev.ThreePoint {
				out[0].ThreePM = 1
			}
			out = append(out, boxscore.Delta{PlayerID: ev.Assist, Assists: 1})
		}
		if ev.Blocked {
			out = append(out, boxscore.Delta{PlayerID: ev.Defender, Blocks: 1})
		}
		return out
	case possession.ActionRebound:
		if ev.Offensive {
			return []boxscore.Delta{{PlayerID: ev.Player, OffensiveRebounds: 1}}
		}
		return []boxscore.Delta{{PlayerID: ev.Player, DefensiveRebounds: 1}}
	case possession.ActionPass, possession.ActionSkillMove:
		if ev.Steal() {
			return []boxscore.Delta{
				{PlayerID: ev.Player, Turnovers: 1},
				{PlayerID: ev.Defender, Steals: 1},
			}
		}
	case possession.ActionViolation:
		return []boxscore.Delta{{PlayerID: ev.Player, Turnovers: 1}}
	}
	return nil
}
