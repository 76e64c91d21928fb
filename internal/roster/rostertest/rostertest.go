// Package rostertest builds deterministic rosters for tests.
package rostertest

import (
	"fmt"

	"github.com/xtding233/hoops-sim/internal/roster"
)

var positions = []roster.Position{
	roster.PointGuard, roster.ShootingGuard, roster.SmallForward, roster.PowerForward, roster.Center,
}

// Uniform returns a team of n players with every attribute set to v.
// Players cycle through PG, SG, SF, PF, C.
func Uniform(id string, n int, v float64) roster.Team {
	t := roster.Team{ID: id, Name: id}
	for i := 0; i < n; i++ {
		t.Players = append(t.Players, roster.Player{
			ID:         fmt.Sprintf("%s-%02d", id, i+1),
			Name:       fmt.Sprintf("%s %d", id, i+1),
			Position:   positions[i%len(positions)],
			Attributes: roster.Uniform(v),
		})
	}
	return t
}

// Tiered returns a team of n players whose ratings fall off by step per
// roster spot, starting at top.
func Tiered(id string, n int, top, step float64) roster.Team {
	t := Uniform(id, n, top)
	for i := range t.Players {
		t.Players[i].Attributes = roster.Uniform(top - float64(step*float64(i))).Clamp()
	}
	return t
}
