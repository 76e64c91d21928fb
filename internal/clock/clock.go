// Package clock keeps game time: periods, overtime and the shot clock.
package clock

import (
	"errors"
	"fmt"

	"github.com/xtding233/hoops-sim/internal/coeff"
)

var ErrInvalidClock = errors.New("invalid clock state")

// Clock counts seconds down within a period. Quarters are 1-based; periods
// after the last regulation quarter are overtime.
type Clock struct {
	cfg coeff.Clock

	Quarter   int
	Remaining int // seconds left in the current period
	Shot      int // seconds left on the shot clock

	running bool
	elapsed int
}

// New returns a stopped clock at the start of the first quarter.
func New(cfg coeff.Clock) *Clock {
	return &Clock{cfg: cfg, Quarter: 1, Remaining: cfg.QuarterSeconds, Shot: cfg.ShotClock}
}

// Resume returns a stopped clock at an arbitrary point, e.g. the start of the
// second half.
func Resume(cfg coeff.Clock, quarter, remaining int) (*Clock, error) {
	c := New(cfg)
	if quarter < 1 {
		return nil, fmt.Errorf("%w: quarter %d", ErrInvalidClock, quarter)
	}
	if remaining <= 0 || remaining > c.PeriodLength(quarter) {
		return nil, fmt.Errorf("%w: %ds remaining in a %ds period", ErrInvalidClock, remaining, c.PeriodLength(quarter))
	}
	c.Quarter = quarter
	c.Remaining = remaining
	for q := 1; q < quarter; q++ {
		c.elapsed += c.PeriodLength(q)
	}
	c.elapsed += c.PeriodLength(quarter) - remaining
	return c, nil
}

// PeriodLength is the full length of period q in seconds.
func (c *Clock) PeriodLength(q int) int {
	if q > c.cfg.Quarters {
		return c.cfg.OvertimeSeconds
	}
	return c.cfg.QuarterSeconds
}

func (c *Clock) IsOvertime() bool { return c.Quarter > c.cfg.Quarters }

func (c *Clock) Start()        { c.running = true }
func (c *Clock) Stop()         { c.running = false }
func (c *Clock) Running() bool { return c.running }

// ResetShotClock sets a full shot clock (new possession).
func (c *Clock) ResetShotClock() { c.Shot = c.cfg.ShotClock }

// PartialResetShotClock sets the offensive-rebound shot clock.
func (c *Clock) PartialResetShotClock() { c.Shot = c.cfg.OffensiveReset }

// Effective is the time the offense actually has: the shot clock, bounded by
// the period clock.
func (c *Clock) Effective() int { return min(c.Shot, c.Remaining) }

// Tick runs both clocks down by up to sec seconds and returns the period
// seconds consumed. A stopped clock does not move.
func (c *Clock) Tick(sec int) int {
	if !c.running || sec <= 0 {
		return 0
	}
	d := min(sec, c.Remaining)
	c.Remaining -= d
	c.Shot = max(c.Shot-sec, 0)
	c.elapsed += d
	return d
}

func (c *Clock) PeriodOver() bool { return c.Remaining <= 0 }

// NextPeriod advances past a finished period. After regulation it adds
// overtime only while the score is tied; it returns false when the game is over.
func (c *Clock) NextPeriod(tied bool) bool {
	if c.Quarter >= c.cfg.Quarters && !tied {
		return false
	}
	c.Quarter++
	c.Remaining = c.PeriodLength(c.Quarter)
	c.ResetShotClock()
	c.Stop()
	return true
}

// Elapsed is total game seconds played.
func (c *Clock) Elapsed() int { return c.elapsed }

// Label names the current period: Q1..Q4, OT1, OT2, ...
func (c *Clock) Label() string {
	if c.IsOvertime() {
		return fmt.Sprintf("OT%d", c.Quarter-c.cfg.Quarters)
	}
	return fmt.Sprintf("Q%d", c.Quarter)
}
