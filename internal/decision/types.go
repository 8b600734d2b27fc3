// Package decision implements the per-player action decision pipeline:
// state classification, candidate generation, hard gating, six-factor
// scoring, weight resolution and team coordination.
package decision

import "math"

// PlayerID identifies a player by match slot. Home players occupy slots
// 0-10, away players 11-21.
type PlayerID uint8

// Slot returns the within-team index of the player.
func (id PlayerID) Slot() int {
	if id < 11 {
		return int(id)
	}
	return int(id) - 11
}

// IsHome reports whether the player belongs to the home team.
func (id PlayerID) IsHome() bool {
	return id < 11
}

// Vec2 is a point or direction on the pitch plane, in metres.
type Vec2 struct {
	X float64
	Y float64
}

// Length returns the euclidean length of the vector.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// DistanceTo returns the distance between two points.
func (v Vec2) DistanceTo(o Vec2) float64 {
	return v.Sub(o).Length()
}

// Normalized returns the unit vector, or the zero vector when the length
// is below 1e-4.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l > 1e-4 {
		return Vec2{X: v.X / l, Y: v.Y / l}
	}
	return Vec2{}
}

// Zone is a coarse pitch cell. X spans 0-9 along the length of the pitch,
// Y spans 0-6 across it.
type Zone struct {
	X int8
	Y int8
}

// ZoneAt quantizes a pitch position into its zone.
func ZoneAt(x, y float64) Zone {
	return Zone{X: int8(x / 10.5), Y: int8(y / 9.7)}
}

// CrossZone is the aimed delivery area of a cross.
type CrossZone uint8

const (
	NearPost CrossZone = iota
	FarPost
	PenaltySpot
	Cutback
)

// PassLane is a straight passing channel between two points.
type PassLane struct {
	From Vec2
	To   Vec2
}

// ActionKind enumerates every action the pipeline can select. The set is
// closed: evaluators, gates and the coordinator switch over it exhaustively.
type ActionKind uint8

const (
	KindShoot ActionKind = iota
	KindPass
	KindThroughBall
	KindDribble
	KindCross
	KindHold
	KindHeader
	KindClear
	KindRunIntoSpace
	KindSupport
	KindOverlap
	KindHoldPosition
	KindPress
	KindTackle
	KindJockey
	KindMark
	KindCover
	KindIntercept
	KindBlockLane
	KindCounterPress
	KindDelay
	KindCoverEmergency
	KindFirstPassForward
	KindCarry
	KindRunSupport
	KindDrawFoul
	KindRecoveryRun
)

var actionKindNames = map[ActionKind]string{
	KindShoot:            "shoot",
	KindPass:             "pass",
	KindThroughBall:      "through_ball",
	KindDribble:          "dribble",
	KindCross:            "cross",
	KindHold:             "hold",
	KindHeader:           "header",
	KindClear:            "clear",
	KindRunIntoSpace:     "run_into_space",
	KindSupport:          "support",
	KindOverlap:          "overlap",
	KindHoldPosition:     "hold_position",
	KindPress:            "press",
	KindTackle:           "tackle",
	KindJockey:           "jockey",
	KindMark:             "mark",
	KindCover:            "cover",
	KindIntercept:        "intercept",
	KindBlockLane:        "block_lane",
	KindCounterPress:     "counter_press",
	KindDelay:            "delay",
	KindCoverEmergency:   "cover_emergency",
	KindFirstPassForward: "first_pass_forward",
	KindCarry:            "carry",
	KindRunSupport:       "run_support",
	KindDrawFoul:         "draw_foul",
	KindRecoveryRun:      "recovery_run",
}

func (k ActionKind) String() string {
	if s, ok := actionKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Action is one candidate decision with its payload. Only the fields
// relevant to the kind are set; the zero values of the rest keep Action
// comparable so it can serve as a map key.
type Action struct {
	Kind      ActionKind
	Target    PlayerID // Pass, ThroughBall, Mark, FirstPassForward
	Direction Vec2     // Dribble, Carry
	Point     Vec2     // RunIntoSpace, Support, RunSupport, RecoveryRun
	CrossTo   CrossZone
	IsShot    bool // Header
	Zone      Zone // Cover, CoverEmergency
	Lane      PassLane
}

func Shoot() Action                        { return Action{Kind: KindShoot} }
func Pass(target PlayerID) Action          { return Action{Kind: KindPass, Target: target} }
func ThroughBall(target PlayerID) Action   { return Action{Kind: KindThroughBall, Target: target} }
func Dribble(dir Vec2) Action              { return Action{Kind: KindDribble, Direction: dir} }
func Cross(zone CrossZone) Action          { return Action{Kind: KindCross, CrossTo: zone} }
func Hold() Action                         { return Action{Kind: KindHold} }
func Header(isShot bool) Action            { return Action{Kind: KindHeader, IsShot: isShot} }
func Clear() Action                        { return Action{Kind: KindClear} }
func RunIntoSpace(target Vec2) Action      { return Action{Kind: KindRunIntoSpace, Point: target} }
func Support(position Vec2) Action         { return Action{Kind: KindSupport, Point: position} }
func Overlap() Action                      { return Action{Kind: KindOverlap} }
func HoldPosition() Action                 { return Action{Kind: KindHoldPosition} }
func Press() Action                        { return Action{Kind: KindPress} }
func Tackle() Action                       { return Action{Kind: KindTackle} }
func Jockey() Action                       { return Action{Kind: KindJockey} }
func Mark(target PlayerID) Action          { return Action{Kind: KindMark, Target: target} }
func Cover(zone Zone) Action               { return Action{Kind: KindCover, Zone: zone} }
func Intercept(lane PassLane) Action       { return Action{Kind: KindIntercept, Lane: lane} }
func BlockLane(lane PassLane) Action       { return Action{Kind: KindBlockLane, Lane: lane} }
func CounterPress() Action                 { return Action{Kind: KindCounterPress} }
func Delay() Action                        { return Action{Kind: KindDelay} }
func CoverEmergency(zone Zone) Action      { return Action{Kind: KindCoverEmergency, Zone: zone} }
func FirstPassForward(t PlayerID) Action   { return Action{Kind: KindFirstPassForward, Target: t} }
func Carry(dir Vec2) Action                { return Action{Kind: KindCarry, Direction: dir} }
func RunSupport(targetSpace Vec2) Action   { return Action{Kind: KindRunSupport, Point: targetSpace} }
func DrawFoul() Action                     { return Action{Kind: KindDrawFoul} }
func RecoveryRun(target Vec2) Action       { return Action{Kind: KindRecoveryRun, Point: target} }

// IsOnBall reports whether the action requires possession of the ball.
func (a Action) IsOnBall() bool {
	switch a.Kind {
	case KindShoot, KindPass, KindThroughBall, KindDribble, KindCross,
		KindHold, KindHeader, KindClear:
		return true
	}
	return false
}

// IsOffBall is the complement of IsOnBall.
func (a Action) IsOffBall() bool {
	return !a.IsOnBall()
}

// IsDefensive reports whether the action belongs to the defensive set.
func (a Action) IsDefensive() bool {
	switch a.Kind {
	case KindPress, KindTackle, KindJockey, KindMark, KindCover,
		KindIntercept, KindBlockLane, KindCounterPress, KindDelay,
		KindCoverEmergency:
		return true
	}
	return false
}

// ActionScore holds the six evaluation factors, each normalized to [0, 1].
// Factors are combined only through ActionWeights; no evaluator may sum
// them directly.
type ActionScore struct {
	Distance    float64
	Safety      float64
	Readiness   float64
	Progression float64
	Space       float64
	Tactical    float64
}

// Total returns the weighted sum of the six factors.
func (s ActionScore) Total(w ActionWeights) float64 {
	return s.Distance*w.Distance +
		s.Safety*w.Safety +
		s.Readiness*w.Readiness +
		s.Progression*w.Progression +
		s.Space*w.Space +
		s.Tactical*w.Tactical
}

// Valid reports whether every factor lies in [0, 1].
func (s ActionScore) Valid() bool {
	for _, f := range [...]float64{s.Distance, s.Safety, s.Readiness, s.Progression, s.Space, s.Tactical} {
		if f < 0 || f > 1 || math.IsNaN(f) {
			return false
		}
	}
	return true
}

func (s ActionScore) clamped() ActionScore {
	return ActionScore{
		Distance:    clamp01(s.Distance),
		Safety:      clamp01(s.Safety),
		Readiness:   clamp01(s.Readiness),
		Progression: clamp01(s.Progression),
		Space:       clamp01(s.Space),
		Tactical:    clamp01(s.Tactical),
	}
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ActionWeights is the per-factor weight vector applied to an ActionScore.
type ActionWeights struct {
	Distance    float64
	Safety      float64
	Readiness   float64
	Progression float64
	Space       float64
	Tactical    float64
}

// DefaultWeights returns the baseline weight vector, summing to 1.0.
func DefaultWeights() ActionWeights {
	return ActionWeights{
		Distance:    0.20,
		Safety:      0.25,
		Readiness:   0.15,
		Progression: 0.20,
		Space:       0.10,
		Tactical:    0.10,
	}
}

// WeightMultiplier scales a weight vector multiplicatively, factor by
// factor. Modifiers never add; they only scale.
type WeightMultiplier struct {
	Distance    float64
	Safety      float64
	Readiness   float64
	Progression float64
	Space       float64
	Tactical    float64
}

// UnitMultiplier returns the identity multiplier.
func UnitMultiplier() WeightMultiplier {
	return WeightMultiplier{
		Distance:    1,
		Safety:      1,
		Readiness:   1,
		Progression: 1,
		Space:       1,
		Tactical:    1,
	}
}

// Apply scales the weights by the multiplier.
func (w *ActionWeights) Apply(m WeightMultiplier) {
	w.Distance *= m.Distance
	w.Safety *= m.Safety
	w.Readiness *= m.Readiness
	w.Progression *= m.Progression
	w.Space *= m.Space
	w.Tactical *= m.Tactical
}

// ClampAll bounds every weight to [lo, hi].
func (w *ActionWeights) ClampAll(lo, hi float64) {
	w.Distance = clamp(w.Distance, lo, hi)
	w.Safety = clamp(w.Safety, lo, hi)
	w.Readiness = clamp(w.Readiness, lo, hi)
	w.Progression = clamp(w.Progression, lo, hi)
	w.Space = clamp(w.Space, lo, hi)
	w.Tactical = clamp(w.Tactical, lo, hi)
}

// ScoredAction is an evaluated candidate. WeightedTotal starts as the
// weighted factor sum and then absorbs pipeline adjustments and
// coordination penalties.
type ScoredAction struct {
	Action        Action
	Score         ActionScore
	WeightedTotal float64
	Intent        BehaviorIntent
}

// NewScoredAction computes the weighted total and derives the default
// intent from the action alone.
func NewScoredAction(action Action, score ActionScore, weights ActionWeights) ScoredAction {
	return ScoredAction{
		Action:        action,
		Score:         score,
		WeightedTotal: score.Total(weights),
		Intent:        IntentFromAction(action),
	}
}

// NewScoredActionWithIntent is NewScoredAction with an explicit intent.
func NewScoredActionWithIntent(action Action, score ActionScore, weights ActionWeights, intent BehaviorIntent) ScoredAction {
	return ScoredAction{
		Action:        action,
		Score:         score,
		WeightedTotal: score.Total(weights),
		Intent:        intent,
	}
}
