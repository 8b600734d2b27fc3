package decision

// EvalContext is the read-only snapshot an evaluator scores against.
// Skill attributes arrive on the 0-100 scale and are normalized inside
// the evaluators; everything else is already in natural units.
type EvalContext struct {
	// Player position and condition.
	PlayerX           float64
	PlayerY           float64
	DistToGoal        float64
	DistToBall        float64
	DistToBallCarrier float64
	StaminaPct        float64

	// Skill attributes, 0-100.
	Finishing     float64
	LongShots     float64
	Composure     float64
	Technique     float64
	Passing       float64
	Vision        float64
	Crossing      float64
	Dribbling     float64
	Flair         float64
	Agility       float64
	Pace          float64
	Acceleration  float64
	Strength      float64
	Balance       float64
	Heading       float64
	Jumping       float64
	Tackling      float64
	Marking       float64
	Positioning   float64
	Anticipation  float64
	Decisions     float64
	Concentration float64
	Aggression    float64
	WorkRate      float64
	Teamwork      float64
	OffTheBall    float64

	// Shooting.
	XG             float64
	ShotAngle      float64
	GKDist         float64
	ShotLaneClear  bool
	IsOneOnOne     bool
	InShootingZone bool
	LocalPressure  float64

	// Passing.
	ReceiverFreedom      float64
	ReceiverDist         float64
	LineBreakValue       float64
	ReceiverXGIfReceives float64
	PassLaneClear        bool
	ReceiverIsForward    bool
	ReceiverHasSpace     float64
	PassInterceptorCount int
	IsReciprocalTarget   bool

	// Dribbling.
	SpaceAhead         float64
	XGGainFromCarry    float64
	DefendersAhead     int
	HasOutlet          bool
	DribbleSuccessProb float64
	BeatenIfFail       bool
	ClosestDefenderDist float64

	// Crossing.
	InCrossingZone     bool
	CrossLaneClear     bool
	BestHeaderTargetXG float64
	BoxTargetSpace     float64
	HasAerialThreat    bool

	// Holding and clearing.
	CanShieldBall       bool
	NearbyOpponents     int
	TeammatesAdvancing  float64
	IsTargetMan         bool
	ClearDirectionSafe  bool
	NotOwnGoalRisk      bool
	XGReductionFromClear float64
	IsLastDitch         bool

	// Heading.
	AerialDuelAdvantage float64
	HeaderXG            float64
	IsSetPiece          bool

	// Runs and support.
	XGAtTarget         float64
	SpaceAtTarget      float64
	IsBehindDefense    bool
	CreatesOverload    bool
	NotLeavingHole     bool
	CanRecoverTurnover bool
	ProvidesPassOption bool
	NotBlockingSpace   bool
	XGIfReceives       float64
	SpaceAtSupportPos  float64
	CreatesTriangle    bool

	// Defending.
	HasCoverBehind          bool
	OvercommitRisk          float64
	TackleSuccessProb       float64
	PassOptionsBlockedRatio float64
	PressTriggerMet         bool
	TeamIsPressing          bool
	FoulProbability         float64
	BeatenIfMissProb        float64
	TimingQuality           float64
	BallRecoveryValue       float64
	SpaceAfterTackle        float64
	IsLastMan               bool
	InOwnBox                bool
	CanSeeBall              bool
	BallWatchingRisk        float64
	CoverAvailable          bool
	PassOptionDeniedValue   float64
	SecondaryCoverArea      float64
	MatchesTeamMarkingStyle bool
	CoversDangerousSpace    bool
	MaintainsLine           bool
	XGReductionFromCover    float64
	AreaProtectedSize       float64
	IsCoveringTeammate      bool
	BlocksPassingLane       bool
	InterceptSuccessProb    float64
	OutOfPositionIfMiss     float64
	SpaceAfterIntercept     float64
	TriggersCounter         bool
	HighValueInterception   bool

	AttacksRight bool
}

// Evaluate scores one candidate against the snapshot. Every factor of
// the result is clamped to [0, 1] regardless of the evaluator's raw
// arithmetic.
func Evaluate(a Action, ctx *EvalContext) ActionScore {
	var s ActionScore
	switch a.Kind {
	case KindShoot:
		s = evaluateShoot(ctx)
	case KindPass:
		s = evaluatePass(ctx)
	case KindThroughBall:
		s = evaluateThroughBall(ctx)
	case KindDribble, KindCarry:
		s = evaluateDribble(ctx)
	case KindCross:
		s = evaluateCross(ctx)
	case KindHold:
		s = evaluateHold(ctx)
	case KindHeader:
		s = evaluateHeader(ctx, a.IsShot)
	case KindClear:
		s = evaluateClear(ctx)
	case KindRunIntoSpace, KindRunSupport:
		s = evaluateRun(ctx, a.Point)
	case KindSupport:
		s = evaluateSupport(ctx)
	case KindOverlap:
		s = evaluateOverlap()
	case KindHoldPosition:
		s = evaluateHoldPosition()
	case KindPress:
		s = evaluatePress(ctx)
	case KindTackle:
		s = evaluateTackle(ctx)
	case KindJockey:
		s = evaluateJockey(ctx)
	case KindMark:
		s = evaluateMark(ctx)
	case KindCover:
		s = evaluateCover(ctx)
	case KindIntercept:
		s = evaluateIntercept(ctx)
	case KindBlockLane:
		s = evaluateBlockLane()
	case KindCounterPress:
		s = evaluateCounterPress(ctx)
	case KindDelay:
		s = evaluateDelay(ctx)
	case KindCoverEmergency:
		s = evaluateCoverEmergency()
	case KindFirstPassForward:
		s = evaluatePass(ctx)
	case KindDrawFoul:
		s = evaluateDrawFoul(ctx)
	case KindRecoveryRun:
		s = evaluateRecoveryRun(ctx, a.Point)
	}
	return s.clamped()
}

func skill(v float64) float64 {
	return v / 100.0
}
