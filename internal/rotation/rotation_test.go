package rotation

import (
	"errors"
	"testing"

	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/roster"
	"github.com/xtding233/hoops-sim/internal/roster/rostertest"
)

func ids(ps []roster.Player) map[string]bool {
	out := make(map[string]bool, len(ps))
	for _, p := range ps {
		out[p.ID] = true
	}
	return out
}

func newManager(t *testing.T, team roster.Team, cfg *Config) (*Manager, *coeff.Coefficients) {
	t.Helper()
	c := coeff.MustDefault()
	m, err := NewManager(c, team, cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, c
}

func TestLineupAlwaysFiveBySlot(t *testing.T) {
	team := rostertest.Tiered("t", 12, 90, 3)
	m, c := newManager(t, team, nil)
	f := NewFatigue(c.Fatigue)

	elapsed := 0
	for q := 1; q <= 4; q++ {
		for rem := 720; rem > 0; rem -= 24 {
			lineup, err := m.Lineup(Situation{Quarter: q, Remaining: rem, Elapsed: elapsed, Margin: q * 3}, f)
			if err != nil {
				t.Fatalf("Q%d %d: %v", q, rem, err)
			}
			if len(lineup) != 5 || len(ids(lineup)) != 5 {
				t.Fatalf("Q%d %d: lineup %v", q, rem, lineup)
			}
			for i := 1; i < len(lineup); i++ {
				if lineup[i-1].Position.Slot() > lineup[i].Position.Slot() {
					t.Fatalf("lineup not ordered by slot: %v", lineup)
				}
			}
			f.Advance(24, lineup, m.Bench(lineup))
			elapsed += 24
		}
	}
	// twelve default plans ask for 248 minutes, so starters run a little short
	for _, p := range team.Players {
		got, target := f.State(p.ID).Minutes(), m.cfg.Players[p.ID].TargetMinutes
		if got < target-3 || got > target+3 {
			t.Fatalf("%s played %.1f min, target %.0f", p.ID, got, target)
		}
	}
}

func TestFatigueRestWaitsForTargetPace(t *testing.T) {
	team := rostertest.Uniform("t", 10, 70)
	m, c := newManager(t, team, nil)
	f := NewFatigue(c.Fatigue)
	starter := team.Players[0]
	f.Advance(24*60, team.Players[:5], team.Players[5:])
	fs := f.State(starter.ID)
	if fs.Penalty < c.Rotation.RestThreshold {
		t.Fatalf("penalty %v below rest threshold", fs.Penalty)
	}

	// 24 of 34 minutes at three quarters: behind pace, no forced rest
	behind := m.score(starter, Situation{Quarter: 4, Remaining: 720, Elapsed: 2160}, fs, modeNormal)
	if behind < -c.Rotation.RestWindowPenalty/2 {
		t.Fatalf("behind-pace starter scored %v", behind)
	}
	// the same minutes are on pace earlier in the game
	onPace := m.score(starter, Situation{Quarter: 3, Remaining: 1, Elapsed: 2880 * 24 / 34}, fs, modeNormal)
	if onPace > -c.Rotation.RestWindowPenalty/2 {
		t.Fatalf("tired on-pace starter scored %v", onPace)
	}
}

func TestZeroTargetSitsWhileOthersHaveMinutes(t *testing.T) {
	team := rostertest.Uniform("t", 7, 70)
	cfg := DefaultConfig(coeff.MustDefault().Rotation, team)
	cfg.Players["t-07"] = PlayerPlan{}
	m, c := newManager(t, team, &cfg)
	f := NewFatigue(c.Fatigue)
	for el := 0; el < 1440; el += 30 {
		lineup, err := m.Lineup(Situation{Quarter: el/720 + 1, Remaining: 720 - el%720, Elapsed: el}, f)
		if err != nil {
			t.Fatal(err)
		}
		if ids(lineup)["t-07"] {
			t.Fatalf("zero-target player on the floor at %ds", el)
		}
		f.Advance(30, lineup, m.Bench(lineup))
	}
}

func TestStartersOpen(t *testing.T) {
	team := rostertest.Tiered("t", 12, 90, 3)
	m, c := newManager(t, team, nil)
	lineup, err := m.Lineup(Situation{Quarter: 1, Remaining: 720}, NewFatigue(c.Fatigue))
	if err != nil {
		t.Fatal(err)
	}
	for id := range ids(lineup) {
		if !m.Starter(id) {
			t.Fatalf("%s opened the game but is not a starter", id)
		}
	}
}

func TestInsufficientPlayers(t *testing.T) {
	team := rostertest.Uniform("t", 6, 70)
	cfg := DefaultConfig(coeff.MustDefault().Rotation, team)
	for _, id := range []string{"t-01", "t-02"} {
		plan := cfg.Players[id]
		plan.Inactive = true
		cfg.Players[id] = plan
	}
	m, c := newManager(t, team, &cfg)
	if _, err := m.Lineup(Situation{Quarter: 1, Remaining: 720}, NewFatigue(c.Fatigue)); !errors.Is(err, ErrInsufficientPlayers) {
		t.Fatalf("error = %v, want ErrInsufficientPlayers", err)
	}
}

func TestBlowoutBenchesStarters(t *testing.T) {
	team := rostertest.Tiered("t", 12, 90, 3)
	m, c := newManager(t, team, nil)
	lineup, err := m.Lineup(Situation{Quarter: 4, Remaining: 300, Elapsed: 2580, Margin: -25}, NewFatigue(c.Fatigue))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range lineup {
		if m.Starter(p.ID) {
			t.Fatalf("starter %s on the floor in a blowout", p.ID)
		}
	}
}

func TestCloseLateUsesBestFive(t *testing.T) {
	team := rostertest.Tiered("t", 12, 90, 3)
	m, c := newManager(t, team, nil)
	f := NewFatigue(c.Fatigue)
	// starters are well past their minutes and somewhat tired
	f.Advance(40*60, team.Players[:5], team.Players[5:])

	lineup, err := m.Lineup(Situation{Quarter: 4, Remaining: 90, Elapsed: 2790, Margin: 2}, f)
	if err != nil {
		t.Fatal(err)
	}
	want := ids(team.Players[:5])
	for _, p := range lineup {
		if !want[p.ID] {
			t.Fatalf("%s (overall %.0f) closing a tight game", p.ID, p.Overall())
		}
	}
}

func TestRestWindow(t *testing.T) {
	team := rostertest.Tiered("t", 12, 90, 3)
	c := coeff.MustDefault()
	cfg := DefaultConfig(c.Rotation, team)
	plan := cfg.Players["t-01"]
	plan.RestWindows = []RestWindow{{Quarter: 2, From: 720, To: 360}}
	cfg.Players["t-01"] = plan
	m, _ := newManager(t, team, &cfg)

	f := NewFatigue(c.Fatigue)
	lineup, _ := m.Lineup(Situation{Quarter: 2, Remaining: 600, Elapsed: 840}, f)
	if ids(lineup)["t-01"] {
		t.Fatalf("t-01 played inside a rest window")
	}
	lineup, _ = m.Lineup(Situation{Quarter: 3, Remaining: 720, Elapsed: 1440}, f)
	if !ids(lineup)["t-01"] {
		t.Fatalf("t-01 should be back after the window")
	}
}

func TestConfigValidate(t *testing.T) {
	team := rostertest.Uniform("t", 8, 70)
	cfg := Config{Players: map[string]PlayerPlan{"ghost": {TargetMinutes: 10}}}
	if _, err := NewManager(coeff.MustDefault(), team, &cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("unknown player: error = %v", err)
	}
	cfg = Config{Players: map[string]PlayerPlan{"t-01": {RestWindows: []RestWindow{{Quarter: 1, From: 100, To: 200}}}}}
	if err := cfg.Validate(team); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("inverted window: error = %v", err)
	}
}

func TestDefaultConfigTargets(t *testing.T) {
	c := coeff.MustDefault()
	team := rostertest.Tiered("t", 12, 90, 3)
	cfg := DefaultConfig(c.Rotation, team)
	for i, p := range team.Players {
		got := cfg.Players[p.ID].TargetMinutes
		want := c.Rotation.BenchMinutes
		switch {
		case i < 5:
			want = c.Rotation.StarterMinutes
		case i < c.Rotation.RotationSize:
			want = c.Rotation.RotationMinutes
		}
		if got != want {
			t.Fatalf("%s target = %v, want %v", p.ID, got, want)
		}
	}
}

func TestFatigueAccrualAndRecovery(t *testing.T) {
	c := coeff.MustDefault()
	f := NewFatigue(c.Fatigue)
	p := roster.Player{ID: "p", Attributes: roster.Uniform(70)}

	prev := 0.0
	for i := 0; i < 120; i++ {
		f.Advance(30, []roster.Player{p}, nil)
		got := f.State("p").Penalty
		if got < prev || got > c.Fatigue.Cap {
			t.Fatalf("active penalty went %v -> %v", prev, got)
		}
		prev = got
	}
	if prev != c.Fatigue.Cap {
		t.Fatalf("penalty after an hour = %v, want capped at %v", prev, c.Fatigue.Cap)
	}
	if f.State("p").Minutes() != 60 {
		t.Fatalf("minutes = %v", f.State("p").Minutes())
	}

	for i := 0; i < 200; i++ {
		f.Advance(30, nil, []roster.Player{p})
		got := f.State("p").Penalty
		if got > prev || got < 0 {
			t.Fatalf("benched penalty went %v -> %v", prev, got)
		}
		prev = got
	}
	if prev != 0 || f.State("p").Active {
		t.Fatalf("rested player penalty %v active %v", prev, f.State("p").Active)
	}
}

func TestFatigueStaminaScaling(t *testing.T) {
	c := coeff.MustDefault()
	f := NewFatigue(c.Fatigue)
	strong := roster.Player{ID: "strong", Attributes: roster.Uniform(90)}
	weak := roster.Player{ID: "weak", Attributes: roster.Uniform(40)}
	f.Advance(600, []roster.Player{strong, weak}, nil)
	if f.State("weak").Penalty <= f.State("strong").Penalty {
		t.Fatalf("low stamina should tire faster: weak %v strong %v", f.State("weak").Penalty, f.State("strong").Penalty)
	}
}

func TestFatigueApply(t *testing.T) {
	c := coeff.MustDefault()
	f := NewFatigue(c.Fatigue)
	p := roster.Player{ID: "p", Attributes: roster.Uniform(80)}
	if got := f.Apply(p); got != p {
		t.Fatalf("fresh player changed: %+v", got.Attributes)
	}

	f.Advance(20*60, []roster.Player{p}, nil)
	tired := f.Apply(p)
	if p.Attributes.Speed != 80 {
		t.Fatalf("Apply mutated the roster record")
	}
	if tired.Attributes.Stamina != 80 {
		t.Fatalf("stamina changed to %v", tired.Attributes.Stamina)
	}
	dropSpeed := 80 - tired.Attributes.Speed
	dropIQ := 80 - tired.Attributes.BallIQ
	if dropSpeed <= dropIQ || dropIQ <= 0 {
		t.Fatalf("speed drop %v should exceed ball_iq drop %v", dropSpeed, dropIQ)
	}
}
