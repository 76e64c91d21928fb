package possession

import (
	"reflect"
	"testing"

	"github.com/xtding233/hoops-sim/internal/clock"
	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/dice"
	"github.com/xtding233/hoops-sim/internal/resolve"
	"github.com/xtding233/hoops-sim/internal/roster"
	"github.com/xtding233/hoops-sim/internal/roster/rostertest"
)

func lineups(v float64) (off, def []roster.Player) {
	return rostertest.Uniform("home", 5, v).Players, rostertest.Uniform("away", 5, v).Players
}

func run(t *testing.T, c *coeff.Coefficients, clk *clock.Clock, src dice.RandomSource) Result {
	t.Helper()
	off, def := lineups(70)
	res, err := Run(Input{Coefficients: c, Offense: off, Defense: def, Clock: clk, Team: "home", Fresh: true}, src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestOpennessMonotonic(t *testing.T) {
	c := coeff.MustDefault()
	off, def := lineups(60)
	base := Openness(c, off[0], def, 0, 0)

	faster := off[0]
	faster.Attributes.Speed += 20
	if got := Openness(c, faster, def, 0, 0); got <= base {
		t.Fatalf("faster handler openness %v <= %v", got, base)
	}

	stingy := append([]roster.Player(nil), def...)
	for i := range stingy {
		stingy[i].Attributes.OnBallDefense += 20
	}
	if got := Openness(c, off[0], stingy, 0, 0); got >= base {
		t.Fatalf("better defense openness %v >= %v", got, base)
	}

	if got := Openness(c, off[0], def, 2, 0); got <= base {
		t.Fatalf("openness after passes %v <= %v", got, base)
	}

	if got := Openness(c, roster.Player{Attributes: roster.Uniform(100)}, []roster.Player{{Attributes: roster.Uniform(0)}}, 10, 0); got != 100 {
		t.Fatalf("openness must clamp at 100, got %v", got)
	}
}

func TestTargetWeightsFollowBallIQ(t *testing.T) {
	c := coeff.MustDefault()
	mates := []roster.Player{
		{ID: "open", Attributes: roster.Uniform(40)},
		{ID: "scorer", Attributes: roster.Uniform(90)},
	}
	open := map[string]float64{"open": 90, "scorer": 20}

	low := TargetWeights(c, roster.Player{Attributes: roster.Uniform(0)}, mates, open)
	if low[0] <= low[1] {
		t.Fatalf("low-IQ passer should favor the open man: %v", low)
	}
	high := TargetWeights(c, roster.Player{Attributes: roster.Uniform(100)}, mates, open)
	if high[1] <= high[0] {
		t.Fatalf("high-IQ passer should favor the scorer: %v", high)
	}
}

func TestDecideForcedShot(t *testing.T) {
	c := coeff.MustDefault()
	off, _ := lineups(70)
	st := NewState(off[0].ID, 3)
	ch, err := Decide(c, off[0], off[1:], st, resolve.Context{ShotClock: 3, PressureWindow: 8}, dice.NewSeededRNG(1))
	if err != nil {
		t.Fatal(err)
	}
	if ch.Action != ActionShoot || !ch.Forced {
		t.Fatalf("choice at 3s = %+v, want forced shot", ch)
	}
}

func TestRunTerminates(t *testing.T) {
	c := coeff.MustDefault()
	for seed := uint64(0); seed < 300; seed++ {
		clk := clock.New(c.Clock)
		res := run(t, c, clk, dice.NewSeededRNG(seed))

		if len(res.Events) == 0 {
			t.Fatalf("seed %d: no events", seed)
		}
		last := res.Events[len(res.Events)-1]
		if last.Terminal == TerminalNone || last.Terminal != res.Terminal {
			t.Fatalf("seed %d: last event terminal %v, result %v", seed, last.Terminal, res.Terminal)
		}
		segment := 0
		for i, ev := range res.Events {
			if i < len(res.Events)-1 && ev.Terminal != TerminalNone {
				t.Fatalf("seed %d: terminal event %d before the end", seed, i)
			}
			if ev.Roll != nil && sumFaces(ev.Roll.Faces) != dice.Faces {
				t.Fatalf("seed %d: faces %v", seed, ev.Roll.Faces)
			}
			segment++
			if ev.Action == ActionRebound && ev.Offensive {
				segment = 0
			}
			if segment > c.Clock.ShotClock {
				t.Fatalf("seed %d: %d steps in one segment", seed, segment)
			}
		}
		if clk.Running() {
			t.Fatalf("seed %d: clock left running", seed)
		}
		if res.Elapsed != c.Clock.QuarterSeconds-clk.Remaining {
			t.Fatalf("seed %d: elapsed %d, clock moved %d", seed, res.Elapsed, c.Clock.QuarterSeconds-clk.Remaining)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	c := coeff.MustDefault()
	play := func(seed uint64) []Event {
		src := dice.NewSeededRNG(seed)
		clk := clock.New(c.Clock)
		var all []Event
		for i := 0; i < 20; i++ {
			all = append(all, run(t, c, clk, src).Events...)
		}
		return all
	}
	a, b := play(12345), play(12345)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different event logs")
	}
	if reflect.DeepEqual(a, play(54321)) {
		t.Fatalf("different seeds produced identical event logs")
	}
}

func TestRunScoringBookkeeping(t *testing.T) {
	c := coeff.MustDefault()
	made := 0
	for seed := uint64(0); seed < 300; seed++ {
		res := run(t, c, clock.New(c.Clock), dice.NewSeededRNG(seed))
		points := 0
		for _, ev := range res.Events {
			points += ev.Points
			if ev.Assist != "" && ev.Assist == ev.Player {
				t.Fatalf("seed %d: %s assisted their own basket", seed, ev.Player)
			}
			if ev.Blocked && (ev.Action != ActionShoot || ev.Roll.Outcome != resolve.OutcomeShotMissed) {
				t.Fatalf("seed %d: block on %+v", seed, ev)
			}
		}
		if points != res.Points {
			t.Fatalf("seed %d: events carry %d points, result %d", seed, points, res.Points)
		}
		if res.Terminal == TerminalMadeBasket {
			made++
			if res.Points != 2 && res.Points != 3 {
				t.Fatalf("seed %d: made basket worth %d", seed, res.Points)
			}
		}
	}
	if made < 60 || made > 210 {
		t.Fatalf("made baskets = %d of 300, outside a plausible range", made)
	}
}

func TestRunPeriodEnd(t *testing.T) {
	c := coeff.MustDefault()
	clk, err := clock.Resume(c.Clock, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	res := run(t, c, clk, dice.NewSeededRNG(7))
	if res.Terminal != TerminalPeriodEnd || len(res.Events) != 1 {
		t.Fatalf("terminal %v with %d events, want a lone period end", res.Terminal, len(res.Events))
	}
	if res.Events[0].Period != 2 || res.Elapsed != 2 {
		t.Fatalf("period %d elapsed %d", res.Events[0].Period, res.Elapsed)
	}
}

func TestRunEndOfQuarterShot(t *testing.T) {
	c := coeff.MustDefault()
	clk, err := clock.Resume(c.Clock, 4, 8)
	if err != nil {
		t.Fatal(err)
	}
	res := run(t, c, clk, dice.NewSeededRNG(3))
	first := res.Events[0]
	if first.Action != ActionShoot || !first.Forced {
		t.Fatalf("first event %+v, want a forced shot with 3s left", first)
	}
}

func TestRunShotClockViolation(t *testing.T) {
	cp := *coeff.MustDefault()
	cp.Decision.ForcedShotThreshold = -1
	cp.Decision.Pass.PassCount = 0
	cp.Pass.Mode = coeff.PassModeFlat
	for _, tend := range []*coeff.Tendency{&cp.Decision.Tendencies.PG, &cp.Decision.Tendencies.SG,
		&cp.Decision.Tendencies.SF, &cp.Decision.Tendencies.PF, &cp.Decision.Tendencies.C} {
		tend.Shoot = 0
		tend.SkillMove = 0
	}

	violations := 0
	for seed := uint64(0); seed < 50; seed++ {
		res := run(t, &cp, clock.New(cp.Clock), dice.NewSeededRNG(seed))
		last := res.Events[len(res.Events)-1]
		switch res.Terminal {
		case TerminalShotClockViolation:
			violations++
			if !last.Turnover() || last.Player == "" || last.ShotClock != 0 {
				t.Fatalf("seed %d: violation event %+v", seed, last)
			}
		case TerminalTurnover:
			if !last.Steal() {
				t.Fatalf("seed %d: turnover without a steal: %+v", seed, last)
			}
		default:
			t.Fatalf("seed %d: unexpected terminal %v", seed, res.Terminal)
		}
	}
	if violations == 0 {
		t.Fatalf("no shot-clock violations in 50 pass-only possessions")
	}
}

func TestOffensiveReboundResetsState(t *testing.T) {
	c := coeff.MustDefault()
	st := NewState("a", 6)
	st.PassCount = 3
	st.Breakdown = 5
	st.Boost["a"] = 8
	st.LastPasser = "b"

	st.OffensiveRebound("c", c.Clock.OffensiveReset, c.Possession.Breakdown)
	if st.Handler != "c" || st.ShotClock != 14 || st.PassCount != 0 || st.LastPasser != "" || len(st.Boost) != 0 {
		t.Fatalf("state after offensive rebound: %+v", st)
	}
	if st.Breakdown != c.Possession.Breakdown.Max {
		t.Fatalf("breakdown = %v, want capped at %v", st.Breakdown, c.Possession.Breakdown.Max)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	c := coeff.MustDefault()
	off, def := lineups(70)
	cases := []Input{
		{Offense: off, Defense: def, Clock: clock.New(c.Clock)},
		{Coefficients: c, Offense: off, Defense: def},
		{Coefficients: c, Offense: off, Defense: def[:4], Clock: clock.New(c.Clock)},
		{Coefficients: c, Offense: off, Defense: def, Clock: clock.New(c.Clock), Handler: "nobody"},
	}
	for i, in := range cases {
		if _, err := Run(in, dice.NewSeededRNG(1)); err == nil {
			t.Fatalf("case %d: expected an error", i)
		}
	}
}

func sumFaces(f []int) int {
	s := 0
	for _, x := range f {
		s += x
	}
	return s
}
