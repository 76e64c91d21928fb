package main

import (
	"io"
	"strings"

	"golang.org/x/text/message"

	"github.com/xtding233/hoops-sim/internal/boxscore"
	"github.com/xtding233/hoops-sim/internal/engine"
	"github.com/xtding233/hoops-sim/internal/possession"
	"github.com/xtding233/hoops-sim/internal/roster"
)

const lineFormat = "%-22s %5s %4d %4d %4d %4d %4d %6s %6s %4d\n"

func pct(made, att int) float64 {
	if att == 0 {
		return 0
	}
	return float64(made) / float64(att)
}

func printResult(p *message.Printer, w io.Writer, home, away roster.Team, res *engine.Result) {
	p.Fprintf(w, "%s %d, %s %d", home.Name, res.HomeScore, away.Name, res.AwayScore)
	if res.Overtimes > 0 {
		p.Fprintf(w, " (%d OT)", res.Overtimes)
	}
	p.Fprintf(w, "  seed %d  coefficients %s  possessions %d\n", res.Seed, res.Version, res.Possessions)

	var periods strings.Builder
	for _, ps := range res.Periods {
		p.Fprintf(&periods, "  %s %d-%d", ps.Label, ps.Home, ps.Away)
	}
	p.Fprintf(w, "%s\n", periods.String())

	byTeam := map[string][]boxscore.Line{}
	for _, l := range res.Box {
		byTeam[l.TeamID] = append(byTeam[l.TeamID], l)
	}
	printTeam(p, w, home, byTeam[home.ID], res.HomeTotals)
	printTeam(p, w, away, byTeam[away.ID], res.AwayTotals)
}

func printTeam(p *message.Printer, w io.Writer, t roster.Team, lines []boxscore.Line, total boxscore.Line) {
	p.Fprintf(w, "\n%s\n", t.Name)
	p.Fprintf(w, "%-22s %5s %4s %4s %4s %4s %4s %6s %6s %4s\n",
		"PLAYER", "MIN", "PTS", "REB", "AST", "STL", "BLK", "FG", "3P", "TO")
	for _, l := range lines {
		name := l.PlayerID
		if pl, ok := t.Player(l.PlayerID); ok && pl.Name != "" {
			name = pl.Name
		}
		printLine(p, w, name, l)
	}
	printLine(p, w, "TOTAL", total)
	p.Fprintf(w, "FG %.1f%%  3P %.1f%%\n",
		100*pct(total.FieldGoalsMade, total.FieldGoalsAttempts),
		100*pct(total.ThreesMade, total.ThreesAttempted))
}

func printLine(p *message.Printer, w io.Writer, name string, l boxscore.Line) {
	p.Fprintf(w, lineFormat,
		name,
		p.Sprintf("%.1f", l.Minutes()),
		l.Points, l.Rebounds(), l.Assists, l.Steals, l.Blocks,
		p.Sprintf("%d-%d", l.FieldGoalsMade, l.FieldGoalsAttempts),
		p.Sprintf("%d-%d", l.ThreesMade, l.ThreesAttempted),
		l.Turnovers)
}

// periodLabels maps period numbers to the engine's labels, OT1 and up past
// regulation.
func periodLabels(res *engine.Result) map[int]string {
	out := make(map[int]string, len(res.Periods))
	for _, ps := range res.Periods {
		out[ps.Period] = ps.Label
	}
	return out
}

func printEvents(p *message.Printer, w io.Writer, res *engine.Result) {
	labels := periodLabels(res)
	for _, e := range res.Events {
		label, ok := labels[e.Period]
		if !ok {
			label = p.Sprintf("Q%d", e.Period)
		}
		p.Fprintf(w, "%-3s %2d:%02d [%2d] %-6s %-20s %s", label, e.GameClock/60, e.GameClock%60, e.ShotClock, e.Team, e.Action, e.Player)
		if e.Target != "" {
			p.Fprintf(w, " -> %s", e.Target)
		}
		if e.Roll != nil {
			p.Fprintf(w, " d20=%d", e.Roll.Roll)
			for _, r := range e.Roll.Ranges() {
				if e.Roll.Roll >= r.Lo && e.Roll.Roll <= r.Hi {
					p.Fprintf(w, " [%d-%d]", r.Lo, r.Hi)
				}
			}
			p.Fprintf(w, " %s", e.Roll.Outcome)
		}
		if e.Points > 0 {
			p.Fprintf(w, " +%d", e.Points)
		}
		if e.Terminal != possession.TerminalNone {
			p.Fprintf(w, " (%s)", e.Terminal)
		}
		p.Fprintf(w, "\n")
	}
}
