package coeff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/hoops-sim/internal/dice"
)

var ErrInvalidCoefficient = errors.New("invalid coefficient")

// reboundCombatants is the number of players contesting a rebound.
const reboundCombatants = 10

// Validate checks semantic constraints of a decoded table set.
func Validate(c *Coefficients) error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}
	band := func(name string, b Band) {
		if b.RawMax <= b.RawMin {
			add("%s.band.raw_max must be > raw_min", name)
		}
		if b.MinProb < 0 || b.MaxProb > 1 || b.MinProb > b.MaxProb {
			add("%s.band must satisfy 0 <= min_prob <= max_prob <= 1", name)
		}
	}
	caps := func(name string, cs ...dice.Cap) {
		if err := dice.ValidateCaps(len(cs), cs); err != nil {
			add("%s: %v", name, err)
		}
	}

	if strings.TrimSpace(c.Version) == "" {
		add("version must be set")
	}

	// decision
	if c.Decision.ForcedShotThreshold < 0 {
		add("decision.forced_shot_threshold must be >= 0")
	}
	if c.Decision.PressureWindow <= 0 {
		add("decision.pressure_window must be > 0")
	}
	if c.Decision.Target.IQInfluence < 0 || c.Decision.Target.IQInfluence > 1 {
		add("decision.target.iq_influence must be in [0,1]")
	}
	if c.Decision.Target.Floor <= 0 {
		add("decision.target.floor must be > 0")
	}
	for _, pos := range []string{"PG", "SG", "SF", "PF", "C"} {
		t := c.Decision.Tendencies.For(pos)
		if t.Shoot < 0 || t.SkillMove < 0 || t.Pass < 0 || t.Three < 0 {
			add("decision.tendencies.%s must be non-negative", strings.ToLower(pos))
		}
	}

	// shot
	band("shot", c.Shot.Band)
	caps("shot.caps", c.Shot.Caps.Success, c.Shot.Caps.Failure)
	if c.Shot.BlockRate < 0 || c.Shot.BlockRate > 1 {
		add("shot.block_rate must be in [0,1]")
	}
	if t := c.Shot.Three; t.MinProb < 0 || t.MaxProb > 1 || t.MinProb > t.MaxProb {
		add("shot.three must satisfy 0 <= min_prob <= max_prob <= 1")
	}

	// pass
	switch c.Pass.Mode {
	case PassModeCoefficient, PassModeFlat:
	default:
		add("pass.mode must be one of: %s, %s", PassModeCoefficient, PassModeFlat)
	}
	band("pass", c.Pass.Band)
	caps("pass.caps", c.Pass.Caps.Complete, c.Pass.Caps.Intercepted)
	if c.Pass.FlatCompleteFaces < 1 || c.Pass.FlatCompleteFaces >= dice.Faces {
		add("pass.flat_complete_faces must be in [1,%d]", dice.Faces-1)
	}

	// skill move
	band("skill_move", c.SkillMove.Band)
	band("skill_move.steal", c.SkillMove.Steal.Band)
	if c.SkillMove.Band.MaxProb+c.SkillMove.Steal.Band.MaxProb > 1 {
		add("skill_move success and steal ceilings must leave room for neutral")
	}
	if c.SkillMove.Gain.Floor < 0 {
		add("skill_move.gain.floor must be >= 0")
	}
	caps("skill_move.caps", c.SkillMove.Caps.Success, c.SkillMove.Caps.Neutral, c.SkillMove.Caps.Steal)

	// rebound
	if c.Rebound.OffenseScale <= 0 {
		add("rebound.offense_scale must be > 0")
	}
	if c.Rebound.DefenseBias < 0 {
		add("rebound.defense_bias must be >= 0")
	}
	if c.Rebound.WeightFloor <= 0 {
		add("rebound.weight_floor must be > 0")
	}
	rc := make([]dice.Cap, reboundCombatants)
	for i := range rc {
		rc[i] = c.Rebound.Caps
	}
	caps("rebound.caps", rc...)

	// possession
	if c.Possession.Breakdown.Max < 0 {
		add("possession.breakdown.max must be >= 0")
	}
	if c.Possession.Decay.Max < 0 || c.Possession.Decay.Max > 100 {
		add("possession.decay.max must be in [0,100]")
	}
	d := c.Possession.Durations
	if d.Setup < 0 {
		add("possession.durations.setup must be >= 0")
	}
	if d.Pass < 1 || d.SkillMove < 1 || d.Shot < 1 {
		add("possession.durations.{pass,skill_move,shot} must be >= 1")
	}

	// clock
	ck := c.Clock
	if ck.QuarterSeconds <= 0 || ck.OvertimeSeconds <= 0 || ck.Quarters <= 0 {
		add("clock periods must be > 0")
	}
	if ck.ShotClock <= 0 || ck.OffensiveReset <= 0 || ck.OffensiveReset > ck.ShotClock {
		add("clock must satisfy 0 < offensive_reset <= shot_clock")
	}
	if d.Setup >= ck.ShotClock {
		add("possession.durations.setup must be < clock.shot_clock")
	}

	// fatigue
	f := c.Fatigue
	if f.Cap <= 0 || f.Cap > 100 {
		add("fatigue.cap must be in (0,100]")
	}
	if f.AccrualPerMinute < 0 || f.RecoveryRatio < 0 {
		add("fatigue rates must be >= 0")
	}
	if f.StaminaReference <= 0 || f.MinStamina <= 0 {
		add("fatigue.stamina_reference and min_stamina must be > 0")
	}

	// rotation
	r := c.Rotation
	if r.StarterMinutes < 0 || r.RotationMinutes < 0 || r.BenchMinutes < 0 {
		add("rotation minutes must be >= 0")
	}
	if r.RotationSize < 5 {
		add("rotation.rotation_size must be >= 5")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCoefficient, strings.Join(errs, "; "))
	}
	return nil
}
