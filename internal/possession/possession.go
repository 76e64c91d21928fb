// Package possession runs a single possession as a state machine: compute
// openness, decide, resolve, update, until the ball changes hands.
package possession

import (
	"errors"
	"fmt"

	"github.com/xtding233/hoops-sim/internal/clock"
	"github.com/xtding233/hoops-sim/internal/coeff"
	"github.com/xtding233/hoops-sim/internal/dice"
	"github.com/xtding233/hoops-sim/internal/resolve"
	"github.com/xtding233/hoops-sim/internal/roster"
)

var ErrInvalidInput = errors.New("invalid possession input")

// Input describes one possession. Offense and Defense are ordered by
// position slot and Defense[i] guards Offense[i]. Players should already
// carry game fatigue. Clock is advanced in place.
type Input struct {
	Coefficients *coeff.Coefficients
	Offense      []roster.Player
	Defense      []roster.Player
	Clock        *clock.Clock
	Team         string // offense team id, stamped on events
	Handler      string // initial handler; empty means the first slot
	Fresh        bool   // full shot clock plus setup time
	Seq          int    // sequence number of the first event
}

func (in Input) validate() error {
	switch {
	case in.Coefficients == nil:
		return fmt.Errorf("%w: nil coefficients", ErrInvalidInput)
	case in.Clock == nil:
		return fmt.Errorf("%w: nil clock", ErrInvalidInput)
	case len(in.Offense) == 0 || len(in.Offense) != len(in.Defense):
		return fmt.Errorf("%w: %d offensive and %d defensive players", ErrInvalidInput, len(in.Offense), len(in.Defense))
	}
	if in.Handler != "" && slotOf(in.Offense, in.Handler) < 0 {
		return fmt.Errorf("%w: handler %q is not on the floor", ErrInvalidInput, in.Handler)
	}
	return nil
}

type Result struct {
	Terminal          Terminal
	Events            []Event
	Points            int
	Elapsed           int // period seconds consumed
	OffensiveRebounds int
	State             *State
}

type runner struct {
	c   *coeff.Coefficients
	in  Input
	clk *clock.Clock
	st  *State
	src dice.RandomSource
	res Result
	seq int
}

// Run plays the possession to a terminal state. The clock is started on
// entry and stopped on return.
func Run(in Input, src dice.RandomSource) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}
	clk := in.Clock
	if in.Fresh {
		clk.ResetShotClock()
	}
	handler := in.Handler
	if handler == "" {
		handler = in.Offense[0].ID
	}
	r := &runner{
		c:   in.Coefficients,
		in:  in,
		clk: clk,
		st:  NewState(handler, clk.Shot),
		src: src,
		seq: in.Seq,
	}

	start := clk.Elapsed()
	clk.Start()
	defer clk.Stop()
	if in.Fresh {
		clk.Tick(r.c.Possession.Durations.Setup)
	}
	err := r.loop()
	r.res.Elapsed = clk.Elapsed() - start
	r.res.State = r.st
	if err != nil {
		return Result{}, err
	}
	return r.res, nil
}

func (r *runner) emit(ev Event) {
	ev.Seq = r.seq
	ev.Period = r.clk.Quarter
	ev.GameClock = r.clk.Remaining
	ev.ShotClock = r.clk.Shot
	ev.Team = r.in.Team
	if ev.Terminal != TerminalNone {
		ev.PossessionChange = true
		r.res.Terminal = ev.Terminal
	}
	r.seq++
	r.res.Events = append(r.res.Events, ev)
}

// outcome of one step
type stepResult int

const (
	stepContinue stepResult = iota
	stepReset               // offensive rebound, new shot-clock segment
	stepDone
)

func (r *runner) loop() error {
	segment, steps := r.clk.Shot, 0
	for {
		if r.clk.PeriodOver() {
			r.emit(Event{Action: ActionPeriodEnd, Player: r.st.Handler, Terminal: TerminalPeriodEnd})
			return nil
		}
		if r.clk.Shot <= 0 {
			r.emit(Event{Action: ActionViolation, Player: r.st.Handler, Terminal: TerminalShotClockViolation})
			return nil
		}
		if steps++; steps > segment {
			panic(fmt.Sprintf("possession: %d steps in a %ds shot-clock segment", steps, segment))
		}

		res, err := r.step()
		if err != nil {
			return err
		}
		switch res {
		case stepDone:
			return nil
		case stepReset:
			segment, steps = r.clk.Shot, 0
		}
		r.st.ShotClock = r.clk.Shot
	}
}

func (r *runner) step() (stepResult, error) {
	c, st := r.c, r.st
	offense, defense := r.in.Offense, r.in.Defense

	st.ShotClock = r.clk.Shot
	refreshOpenness(c, st, offense, defense)

	hi := slotOf(offense, st.Handler)
	handler := st.effective(offense[hi])
	teammates := make([]roster.Player, 0, len(offense)-1)
	for i, p := range offense {
		if i != hi {
			teammates = append(teammates, st.effective(p))
		}
	}
	ctx := resolve.Context{
		PassCount:      st.PassCount,
		Breakdown:      st.Breakdown,
		ShotClock:      r.clk.Effective(),
		PressureWindow: c.Decision.PressureWindow,
	}

	ch, err := Decide(c, handler, teammates, st, ctx, r.src)
	if err != nil {
		return stepDone, err
	}

	var res stepResult
	switch ch.Action {
	case ActionShoot:
		res, err = r.shoot(handler, defense[hi], ch, ctx)
	case ActionPass:
		res, err = r.pass(handler, ch, ctx)
	case ActionSkillMove:
		res, err = r.skillMove(handler, defense[hi], ctx)
	default:
		panic(fmt.Sprintf("possession: decided %v", ch.Action))
	}
	if err != nil || res == stepDone {
		return res, err
	}
	st.accrueDecay(c.Possession.Decay, offense)
	return res, nil
}

func (r *runner) shoot(shooter, defender roster.Player, ch Choice, ctx resolve.Context) (stepResult, error) {
	c, st := r.c, r.st
	sr, err := resolve.RollShot(c, resolve.ShotInput{
		Shooter:  shooter,
		Defender: defender,
		Openness: st.Openness[shooter.ID],
		Ctx:      ctx,
	}, r.src)
	if err != nil {
		return stepDone, err
	}
	r.clk.Tick(c.Possession.Durations.Shot)

	ev := Event{
		Action:     ActionShoot,
		Player:     shooter.ID,
		Defender:   defender.ID,
		Forced:     ch.Forced,
		Roll:       &sr.RollResult,
		ThreePoint: sr.ThreePoint,
		Points:     sr.Points,
		Blocked:    sr.Blocked,
	}
	if sr.Outcome == resolve.OutcomeShotMade {
		ev.Assist = st.LastPasser
		ev.Terminal = TerminalMadeBasket
		r.res.Points += sr.Points
		r.emit(ev)
		return stepDone, nil
	}
	r.emit(ev)
	if r.clk.PeriodOver() {
		// the buzzer sounded with the ball in the air
		r.emit(Event{Action: ActionPeriodEnd, Terminal: TerminalPeriodEnd})
		return stepDone, nil
	}

	offense := make([]roster.Player, len(r.in.Offense))
	for i, p := range r.in.Offense {
		offense[i] = st.effective(p)
	}
	rb, err := resolve.RollRebound(c, resolve.ReboundInput{
		Offense:    offense,
		Defense:    r.in.Defense,
		Distance:   resolve.DistanceFor(c, shooter, sr.ThreePoint),
		ThreePoint: sr.ThreePoint,
	}, r.src)
	if err != nil {
		return stepDone, err
	}
	ev = Event{Action: ActionRebound, Player: rb.Rebounder.ID, Roll: &rb.RollResult, Offensive: rb.Offensive}
	if !rb.Offensive {
		ev.Terminal = TerminalDefensiveRebound
		r.emit(ev)
		return stepDone, nil
	}
	r.clk.PartialResetShotClock()
	st.OffensiveRebound(rb.Rebounder.ID, r.clk.Shot, c.Possession.Breakdown)
	r.res.OffensiveRebounds++
	r.emit(ev)
	return stepReset, nil
}

func (r *runner) pass(passer roster.Player, ch Choice, ctx resolve.Context) (stepResult, error) {
	c, st := r.c, r.st
	ti := slotOf(r.in.Offense, ch.Target)
	target, defender := st.effective(r.in.Offense[ti]), r.in.Defense[ti]
	rr, err := resolve.RollPass(c, resolve.PassInput{
		Passer:         passer,
		Target:         target,
		Defender:       defender,
		TargetOpenness: st.Openness[target.ID],
		Ctx:            ctx,
	}, r.src)
	if err != nil {
		return stepDone, err
	}
	r.clk.Tick(c.Possession.Durations.Pass)

	ev := Event{Action: ActionPass, Player: passer.ID, Target: target.ID, Defender: defender.ID, Roll: &rr}
	if rr.Outcome == resolve.OutcomePassIntercepted {
		ev.Terminal = TerminalTurnover
		r.emit(ev)
		return stepDone, nil
	}
	st.PassCount++
	st.AddBreakdown(c.Possession.Breakdown.PerPass, c.Possession.Breakdown.Max)
	st.LastPasser = passer.ID
	st.Handler = target.ID
	r.emit(ev)
	return stepContinue, nil
}

func (r *runner) skillMove(handler, defender roster.Player, ctx resolve.Context) (stepResult, error) {
	c, st := r.c, r.st
	sm, err := resolve.RollSkillMove(c, resolve.SkillMoveInput{Handler: handler, Defender: defender, Ctx: ctx}, r.src)
	if err != nil {
		return stepDone, err
	}
	r.clk.Tick(c.Possession.Durations.SkillMove)

	ev := Event{Action: ActionSkillMove, Player: handler.ID, Defender: defender.ID, Roll: &sm.RollResult, Gain: sm.OpennessGain}
	switch sm.Outcome {
	case resolve.OutcomeMoveSteal:
		ev.Terminal = TerminalTurnover
		r.emit(ev)
		return stepDone, nil
	case resolve.OutcomeMoveSuccess:
		st.Boost[handler.ID] += sm.OpennessGain
		st.AddBreakdown(c.Possession.Breakdown.PerSkillMove, c.Possession.Breakdown.Max)
		// a shot created off the dribble is unassisted
		st.LastPasser = ""
	}
	r.emit(ev)
	return stepContinue, nil
}

func slotOf(players []roster.Player, id string) int {
	for i, p := range players {
		if p.ID == id {
			return i
		}
	}
	return -1
}
