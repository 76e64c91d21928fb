// Package coeff holds the versioned weight tables every resolver reads.
//
// Tables are YAML. The embedded defaults.yaml is the base layer; a version
// overlay only needs the keys it changes. Every leaf must be present after
// merging: a missing coefficient is a configuration error, never a zero.
package coeff

import "github.com/xtding233/hoops-sim/internal/dice"

// Pass resolution policies.
const (
	PassModeCoefficient = "coefficient"
	// PassModeFlat bypasses the weighted score and splits the die 19:1.
	PassModeFlat = "flat"
)

// Coefficients is one normalized, validated table set. Treat as read-only.
type Coefficients struct {
	Version    string     `yaml:"version"`
	Notes      string     `yaml:"notes,omitempty"`
	Openness   Openness   `yaml:"openness"`
	Decision   Decision   `yaml:"decision"`
	Shot       Shot       `yaml:"shot"`
	Pass       Pass       `yaml:"pass"`
	SkillMove  SkillMove  `yaml:"skill_move"`
	Rebound    Rebound    `yaml:"rebound"`
	Possession Possession `yaml:"possession"`
	Clock      Clock      `yaml:"clock"`
	Fatigue    Fatigue    `yaml:"fatigue"`
	Rotation   Rotation   `yaml:"rotation"`
}

type Openness struct {
	Base             float64 `yaml:"base"`
	Speed            float64 `yaml:"speed"`
	BallIQ           float64 `yaml:"ball_iq"`
	SkillMove        float64 `yaml:"skill_move"`
	Pass             float64 `yaml:"pass"`
	DefenderSpeed    float64 `yaml:"defender_speed"`
	DefenderOnBall   float64 `yaml:"defender_on_ball_defense"`
	PassCountBonus   float64 `yaml:"pass_count_bonus"`
	BreakdownPenalty float64 `yaml:"breakdown_penalty"`
}

// PositionWeights is a per-position scalar (pg, sg, sf, pf, c).
type PositionWeights struct {
	PG float64 `yaml:"pg"`
	SG float64 `yaml:"sg"`
	SF float64 `yaml:"sf"`
	PF float64 `yaml:"pf"`
	C  float64 `yaml:"c"`
}

// For returns the weight for a position code; unknown codes get the SF value.
func (w PositionWeights) For(pos string) float64 {
	switch pos {
	case "PG":
		return w.PG
	case "SG":
		return w.SG
	case "PF":
		return w.PF
	case "C":
		return w.C
	default:
		return w.SF
	}
}

// Tendency multiplies the decision weights and the three-point rate.
type Tendency struct {
	Shoot     float64 `yaml:"shoot"`
	SkillMove float64 `yaml:"skill_move"`
	Pass      float64 `yaml:"pass"`
	Three     float64 `yaml:"three"`
}

type Tendencies struct {
	PG Tendency `yaml:"pg"`
	SG Tendency `yaml:"sg"`
	SF Tendency `yaml:"sf"`
	PF Tendency `yaml:"pf"`
	C  Tendency `yaml:"c"`
}

func (t Tendencies) For(pos string) Tendency {
	switch pos {
	case "PG":
		return t.PG
	case "SG":
		return t.SG
	case "PF":
		return t.PF
	case "C":
		return t.C
	default:
		return t.SF
	}
}

type Decision struct {
	ForcedShotThreshold int              `yaml:"forced_shot_threshold"` // seconds
	PressureWindow      int              `yaml:"pressure_window"`       // seconds
	Shoot               ShootWeights     `yaml:"shoot"`
	SkillMove           SkillMoveWeights `yaml:"skill_move"`
	Pass                PassWeights      `yaml:"pass"`
	Target              TargetWeights    `yaml:"target"`
	Tendencies          Tendencies       `yaml:"tendencies"`
}

type ShootWeights struct {
	Base      float64 `yaml:"base"`
	Scoring   float64 `yaml:"scoring"`
	Openness  float64 `yaml:"openness"`
	PassCount float64 `yaml:"pass_count"`
	Pressure  float64 `yaml:"pressure"`
}

type SkillMoveWeights struct {
	Base      float64 `yaml:"base"`
	SkillMove float64 `yaml:"skill_move"`
	Speed     float64 `yaml:"speed"`
	Closed    float64 `yaml:"closed"` // weight on (100 - own openness)
}

type PassWeights struct {
	Base         float64 `yaml:"base"`
	Pass         float64 `yaml:"pass"`
	BallIQ       float64 `yaml:"ball_iq"`
	TeamOpenness float64 `yaml:"team_openness"` // weight on max(0, team avg - own openness)
	PassCount    float64 `yaml:"pass_count"`    // subtracted per completed pass
}

type TargetWeights struct {
	IQInfluence float64 `yaml:"iq_influence"`
	Floor       float64 `yaml:"floor"`
}

// Band maps a raw weighted score affinely onto [MinProb, MaxProb].
type Band struct {
	RawMin  float64 `yaml:"raw_min"`
	RawMax  float64 `yaml:"raw_max"`
	MinProb float64 `yaml:"min_prob"`
	MaxProb float64 `yaml:"max_prob"`
}

// Map clamps raw into the band and returns the probability.
func (b Band) Map(raw float64) float64 {
	t := (raw - b.RawMin) / (b.RawMax - b.RawMin)
	t = min(max(t, 0), 1)
	return b.MinProb + float64(t*(b.MaxProb-b.MinProb))
}

type Shot struct {
	Base         float64    `yaml:"base"`
	Skill        float64    `yaml:"skill"`
	Openness     float64    `yaml:"openness"`
	Contest      float64    `yaml:"contest"`
	Breakdown    float64    `yaml:"breakdown"`
	PassCount    float64    `yaml:"pass_count"`
	Pressure     float64    `yaml:"pressure"`
	ThreePenalty float64    `yaml:"three_penalty"`
	BlockRate    float64    `yaml:"block_rate"`
	Band         Band       `yaml:"band"`
	Caps         ShotCaps   `yaml:"caps"`
	Three        ThreePoint `yaml:"three"`
}

type ShotCaps struct {
	Success dice.Cap `yaml:"success"`
	Failure dice.Cap `yaml:"failure"`
}

type ThreePoint struct {
	Base         float64 `yaml:"base"`
	Attribute    float64 `yaml:"attribute"`
	Openness     float64 `yaml:"openness"`
	PassCount    float64 `yaml:"pass_count"`
	MinAttribute float64 `yaml:"min_attribute"`
	MinProb      float64 `yaml:"min_prob"`
	MaxProb      float64 `yaml:"max_prob"`
}

type Pass struct {
	Mode              string   `yaml:"mode"`
	Base              float64  `yaml:"base"`
	Pass              float64  `yaml:"pass"`
	BallIQ            float64  `yaml:"ball_iq"`
	Openness          float64  `yaml:"openness"`
	Steal             float64  `yaml:"steal"`
	Contest           float64  `yaml:"contest"`
	Band              Band     `yaml:"band"`
	Caps              PassCaps `yaml:"caps"`
	FlatCompleteFaces int      `yaml:"flat_complete_faces"`
}

type PassCaps struct {
	Complete    dice.Cap `yaml:"complete"`
	Intercepted dice.Cap `yaml:"intercepted"`
}

type SkillMove struct {
	Base          float64       `yaml:"base"`
	SkillMove     float64       `yaml:"skill_move"`
	Speed         float64       `yaml:"speed"`
	BallIQ        float64       `yaml:"ball_iq"`
	Contest       float64       `yaml:"contest"`
	DefenderSpeed float64       `yaml:"defender_speed"`
	Band          Band          `yaml:"band"`
	Steal         StealWeights  `yaml:"steal"`
	Gain          OpennessGain  `yaml:"gain"`
	Caps          SkillMoveCaps `yaml:"caps"`
}

type StealWeights struct {
	Base   float64 `yaml:"base"`
	Steal  float64 `yaml:"steal"`
	Handle float64 `yaml:"handle"`
	Band   Band    `yaml:"band"`
}

type OpennessGain struct {
	Base  float64 `yaml:"base"`
	Scale float64 `yaml:"scale"`
	Floor float64 `yaml:"floor"`
}

type SkillMoveCaps struct {
	Success dice.Cap `yaml:"success"`
	Neutral dice.Cap `yaml:"neutral"`
	Steal   dice.Cap `yaml:"steal"`
}

type SideModifier struct {
	Offense float64 `yaml:"offense"`
	Defense float64 `yaml:"defense"`
}

type ShotDistance struct {
	Close SideModifier `yaml:"close"`
	Mid   SideModifier `yaml:"mid"`
	Long  SideModifier `yaml:"long"`
}

type Rebound struct {
	OffenseScale         float64         `yaml:"offense_scale"`
	DefenseBias          float64         `yaml:"defense_bias"`
	WeightFloor          float64         `yaml:"weight_floor"`
	ThreeGuardBonus      float64         `yaml:"three_guard_bonus"`
	CloseInsideThreshold float64         `yaml:"close_inside_threshold"`
	PositionBonus        PositionWeights `yaml:"position_bonus"`
	Distance             ShotDistance    `yaml:"distance"`
	Caps                 dice.Cap        `yaml:"caps"` // per combatant
}

type Possession struct {
	Breakdown Breakdown `yaml:"breakdown"`
	Decay     Decay     `yaml:"decay"`
	Durations Durations `yaml:"durations"`
}

type Breakdown struct {
	PerPass             float64 `yaml:"per_pass"`
	PerSkillMove        float64 `yaml:"per_skill_move"`
	PerOffensiveRebound float64 `yaml:"per_offensive_rebound"`
	Max                 float64 `yaml:"max"`
}

type Decay struct {
	Handler       float64 `yaml:"handler"`
	OffBall       float64 `yaml:"off_ball"`
	StaminaRelief float64 `yaml:"stamina_relief"`
	Max           float64 `yaml:"max"`
}

// Durations are seconds consumed per action; Setup runs once per fresh possession.
type Durations struct {
	Setup     int `yaml:"setup"`
	Pass      int `yaml:"pass"`
	SkillMove int `yaml:"skill_move"`
	Shot      int `yaml:"shot"`
}

type Clock struct {
	QuarterSeconds  int `yaml:"quarter_seconds"`
	Quarters        int `yaml:"quarters"`
	OvertimeSeconds int `yaml:"overtime_seconds"`
	ShotClock       int `yaml:"shot_clock"`
	OffensiveReset  int `yaml:"offensive_reset"`
}

type Fatigue struct {
	AccrualPerMinute float64     `yaml:"accrual_per_minute"`
	StaminaReference float64     `yaml:"stamina_reference"`
	MinStamina       float64     `yaml:"min_stamina"`
	RecoveryRatio    float64     `yaml:"recovery_ratio"`
	Cap              float64     `yaml:"cap"`
	Sensitivity      Sensitivity `yaml:"sensitivity"`
}

// Sensitivity is the fraction of the fatigue penalty (as a percentage) each attribute loses.
type Sensitivity struct {
	Speed            float64 `yaml:"speed"`
	BallIQ           float64 `yaml:"ball_iq"`
	InsideShot       float64 `yaml:"inside_shot"`
	ThreePointShot   float64 `yaml:"three_point_shot"`
	Pass             float64 `yaml:"pass"`
	SkillMove        float64 `yaml:"skill_move"`
	OnBallDefense    float64 `yaml:"on_ball_defense"`
	Block            float64 `yaml:"block"`
	Steal            float64 `yaml:"steal"`
	OffensiveRebound float64 `yaml:"offensive_rebound"`
	DefensiveRebound float64 `yaml:"defensive_rebound"`
}

type Situation struct {
	Margin  int `yaml:"margin"`
	Quarter int `yaml:"quarter"` // applies from this period on
	Seconds int `yaml:"seconds"` // and at or below this many seconds left in the period
}

type Rotation struct {
	StarterMinutes    float64   `yaml:"starter_minutes"`
	RotationMinutes   float64   `yaml:"rotation_minutes"`
	BenchMinutes      float64   `yaml:"bench_minutes"`
	RotationSize      int       `yaml:"rotation_size"`
	NeedWeight        float64   `yaml:"need_weight"`
	OverallWeight     float64   `yaml:"overall_weight"`
	FatigueWeight     float64   `yaml:"fatigue_weight"`
	StintBonus        float64   `yaml:"stint_bonus"`
	RestThreshold     float64   `yaml:"rest_threshold"`
	RestWindowPenalty float64   `yaml:"rest_window_penalty"`
	Blowout           Situation `yaml:"blowout"`
	Close             Situation `yaml:"close"`
}
