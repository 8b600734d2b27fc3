package decision

// BehaviorIntent is the fine-grained intent behind a selected action.
// Intents refine actions for analysis and replay; they never feed back
// into scoring.
type BehaviorIntent uint8

const (
	// On-ball intents.
	IntentProtectBall BehaviorIntent = iota
	IntentDribbleAdvance
	IntentDribbleEscape
	IntentSafeRecycle
	IntentSwitchPlay
	IntentProgressivePass
	IntentThroughBall
	IntentWideRelease
	IntentCrossEarly
	IntentCrossByline
	IntentShoot
	IntentShootLong
	IntentShootFinesse
	IntentChip
	IntentHoldUp
	IntentLayoff
	IntentClearance
	IntentDrawFoul

	// Off-ball attacking intents.
	IntentShowForBall
	IntentFindPocket
	IntentRunInBehind
	IntentOverlap
	IntentUnderlap
	IntentAttackSecondPost
	IntentCutInside
	IntentDecoyRun
	IntentGiveAndGo
	IntentStayHigh
	IntentSupportWide
	IntentSupportCentral

	// Defensive intents.
	IntentPressBallCarrier
	IntentJockeyContain
	IntentBlockLane
	IntentTrackRunner
	IntentMarkTight
	IntentZonalShape
	IntentDoubleTeam
	IntentTackleAttempt
	IntentClearDanger
	IntentRecoverRun

	// Transition intents.
	IntentCounterPress
	IntentDropToShape
	IntentCounterAttack
	IntentSecureFirstPass
	IntentSpreadOutlets
	IntentFoulToStop

	// Restart intents.
	IntentKickOffStructure
	IntentGoalKickBuild
	IntentThrowInPlan
	IntentCornerAttack
	IntentFreeKickRoutine
	IntentPenalty
)

// IntentCategory is the coarse grouping of intents.
type IntentCategory uint8

const (
	CategoryOnBall IntentCategory = iota
	CategoryOffBallAttack
	CategoryDefense
	CategoryTransition
	CategorySetPiece
)

// Category returns the grouping of the intent.
func (i BehaviorIntent) Category() IntentCategory {
	switch {
	case i <= IntentDrawFoul:
		return CategoryOnBall
	case i <= IntentSupportCentral:
		return CategoryOffBallAttack
	case i <= IntentRecoverRun:
		return CategoryDefense
	case i <= IntentFoulToStop:
		return CategoryTransition
	default:
		return CategorySetPiece
	}
}

var intentNames = map[BehaviorIntent]string{
	IntentProtectBall:      "protect_ball",
	IntentDribbleAdvance:   "dribble_advance",
	IntentDribbleEscape:    "dribble_escape",
	IntentSafeRecycle:      "safe_recycle",
	IntentSwitchPlay:       "switch_play",
	IntentProgressivePass:  "progressive_pass",
	IntentThroughBall:      "through_ball",
	IntentWideRelease:      "wide_release",
	IntentCrossEarly:       "cross_early",
	IntentCrossByline:      "cross_byline",
	IntentShoot:            "shoot",
	IntentShootLong:        "shoot_long",
	IntentShootFinesse:     "shoot_finesse",
	IntentChip:             "chip",
	IntentHoldUp:           "hold_up",
	IntentLayoff:           "layoff",
	IntentClearance:        "clearance",
	IntentDrawFoul:         "draw_foul",
	IntentShowForBall:      "show_for_ball",
	IntentFindPocket:       "find_pocket",
	IntentRunInBehind:      "run_in_behind",
	IntentOverlap:          "overlap",
	IntentUnderlap:         "underlap",
	IntentAttackSecondPost: "attack_second_post",
	IntentCutInside:        "cut_inside",
	IntentDecoyRun:         "decoy_run",
	IntentGiveAndGo:        "give_and_go",
	IntentStayHigh:         "stay_high",
	IntentSupportWide:      "support_wide",
	IntentSupportCentral:   "support_central",
	IntentPressBallCarrier: "press_ball_carrier",
	IntentJockeyContain:    "jockey_contain",
	IntentBlockLane:        "block_lane",
	IntentTrackRunner:      "track_runner",
	IntentMarkTight:        "mark_tight",
	IntentZonalShape:       "zonal_shape",
	IntentDoubleTeam:       "double_team",
	IntentTackleAttempt:    "tackle_attempt",
	IntentClearDanger:      "clear_danger",
	IntentRecoverRun:       "recover_run",
	IntentCounterPress:     "counter_press",
	IntentDropToShape:      "drop_to_shape",
	IntentCounterAttack:    "counter_attack",
	IntentSecureFirstPass:  "secure_first_pass",
	IntentSpreadOutlets:    "spread_outlets",
	IntentFoulToStop:       "foul_to_stop",
	IntentKickOffStructure: "kick_off_structure",
	IntentGoalKickBuild:    "goal_kick_build",
	IntentThrowInPlan:      "throw_in_plan",
	IntentCornerAttack:     "corner_attack",
	IntentFreeKickRoutine:  "free_kick_routine",
	IntentPenalty:          "penalty",
}

func (i BehaviorIntent) String() string {
	if s, ok := intentNames[i]; ok {
		return s
	}
	return "unknown"
}

// AllIntents returns every intent in declaration order.
func AllIntents() []BehaviorIntent {
	out := make([]BehaviorIntent, 0, len(intentNames))
	for i := IntentProtectBall; i <= IntentPenalty; i++ {
		out = append(out, i)
	}
	return out
}

// IntentFromAction maps an action to its most generic intent, without any
// situational context.
func IntentFromAction(a Action) BehaviorIntent {
	switch a.Kind {
	case KindShoot:
		return IntentShoot
	case KindPass:
		return IntentSafeRecycle
	case KindThroughBall:
		return IntentThroughBall
	case KindDribble:
		return IntentDribbleAdvance
	case KindCross:
		return IntentCrossEarly
	case KindHold:
		return IntentHoldUp
	case KindHeader:
		if a.IsShot {
			return IntentShoot
		}
		return IntentSafeRecycle
	case KindClear:
		return IntentClearance
	case KindRunIntoSpace:
		return IntentRunInBehind
	case KindSupport:
		return IntentSupportCentral
	case KindOverlap:
		return IntentOverlap
	case KindHoldPosition:
		return IntentStayHigh
	case KindPress:
		return IntentPressBallCarrier
	case KindTackle:
		return IntentTackleAttempt
	case KindJockey:
		return IntentJockeyContain
	case KindMark:
		return IntentMarkTight
	case KindCover:
		return IntentZonalShape
	case KindIntercept, KindBlockLane:
		return IntentBlockLane
	case KindCounterPress:
		return IntentCounterPress
	case KindDelay:
		return IntentDropToShape
	case KindCoverEmergency:
		return IntentClearDanger
	case KindFirstPassForward:
		return IntentSecureFirstPass
	case KindCarry:
		return IntentCounterAttack
	case KindRunSupport:
		return IntentSpreadOutlets
	case KindDrawFoul:
		return IntentDrawFoul
	case KindRecoveryRun:
		return IntentRecoverRun
	}
	return IntentStayHigh
}

// IntentFromActionWithContext refines IntentFromAction using the
// evaluation snapshot.
func IntentFromActionWithContext(a Action, ctx *EvalContext) BehaviorIntent {
	switch a.Kind {
	case KindShoot:
		switch {
		case ctx.DistToGoal > 25.0:
			return IntentShootLong
		case ctx.IsOneOnOne:
			return IntentShootFinesse
		default:
			return IntentShoot
		}

	case KindPass:
		switch {
		case ctx.ReceiverIsForward && ctx.LineBreakValue > 0.3:
			return IntentProgressivePass
		case ctx.ReceiverDist > 30.0:
			return IntentSwitchPlay
		case ctx.ReceiverDist < 10.0 && !ctx.ReceiverIsForward:
			return IntentLayoff
		case ctx.InCrossingZone && ctx.ReceiverHasSpace > 0.5:
			return IntentWideRelease
		default:
			return IntentSafeRecycle
		}

	case KindDribble:
		switch {
		case ctx.LocalPressure > 0.6:
			return IntentDribbleEscape
		case ctx.SpaceAhead > 0.5:
			return IntentDribbleAdvance
		default:
			return IntentProtectBall
		}

	case KindCross:
		if ctx.PlayerX > 95.0 || ctx.PlayerX < 10.0 {
			return IntentCrossByline
		}
		return IntentCrossEarly

	case KindHold:
		if ctx.NearbyOpponents >= 2 {
			return IntentProtectBall
		}
		return IntentHoldUp

	case KindHeader:
		if a.IsShot {
			if ctx.DistToGoal > 20.0 {
				return IntentShootLong
			}
			return IntentShoot
		}
		return IntentSafeRecycle

	case KindClear:
		if ctx.IsLastDitch || ctx.InOwnBox {
			return IntentClearDanger
		}
		return IntentClearance

	case KindRunIntoSpace:
		switch {
		case ctx.IsBehindDefense:
			return IntentRunInBehind
		case ctx.CreatesOverload:
			return IntentFindPocket
		default:
			return IntentDecoyRun
		}

	case KindSupport:
		if ctx.PlayerY < 15.0 || ctx.PlayerY > 53.0 {
			return IntentSupportWide
		}
		return IntentSupportCentral

	case KindPress:
		if ctx.TeamIsPressing {
			return IntentDoubleTeam
		}
		return IntentPressBallCarrier

	case KindTackle:
		if ctx.TimingQuality > 0.7 {
			return IntentTackleAttempt
		}
		return IntentJockeyContain

	case KindMark:
		if ctx.MatchesTeamMarkingStyle {
			return IntentMarkTight
		}
		return IntentTrackRunner

	case KindCover:
		if ctx.MaintainsLine {
			return IntentZonalShape
		}
		return IntentBlockLane

	case KindCarry:
		if ctx.SpaceAhead > 0.5 {
			return IntentCounterAttack
		}
		return IntentDribbleAdvance
	}

	return IntentFromAction(a)
}

// AllowedIntents returns the intents a player may legitimately express in
// the given phase state. This is the single source of truth for the
// state-to-intent mapping.
func AllowedIntents(state PhaseState) []BehaviorIntent {
	switch state {
	case StateOnBall:
		return []BehaviorIntent{
			IntentProtectBall, IntentDribbleAdvance, IntentDribbleEscape,
			IntentSafeRecycle, IntentSwitchPlay, IntentProgressivePass,
			IntentThroughBall, IntentWideRelease, IntentCrossEarly,
			IntentCrossByline, IntentShoot, IntentShootLong,
			IntentShootFinesse, IntentChip, IntentHoldUp, IntentLayoff,
			IntentClearance, IntentDrawFoul,
		}
	case StateReadyToReceive:
		return []BehaviorIntent{
			IntentShowForBall, IntentFindPocket, IntentSupportCentral, IntentSupportWide,
		}
	case StateOffBallAttack:
		return []BehaviorIntent{
			IntentShowForBall, IntentFindPocket, IntentRunInBehind,
			IntentOverlap, IntentUnderlap, IntentAttackSecondPost,
			IntentCutInside, IntentDecoyRun, IntentGiveAndGo,
			IntentStayHigh, IntentSupportWide, IntentSupportCentral,
		}
	case StateDefendBallCarrier:
		return []BehaviorIntent{
			IntentPressBallCarrier, IntentJockeyContain, IntentTackleAttempt, IntentDoubleTeam,
		}
	case StateDefendOffBallTarget:
		return []BehaviorIntent{
			IntentMarkTight, IntentTrackRunner, IntentBlockLane,
		}
	case StateDefensiveShape:
		return []BehaviorIntent{
			IntentZonalShape, IntentBlockLane, IntentRecoverRun, IntentClearDanger,
		}
	case StateTransitionLoss:
		return []BehaviorIntent{
			IntentCounterPress, IntentDropToShape, IntentFoulToStop,
		}
	case StateTransitionWin:
		return []BehaviorIntent{
			IntentCounterAttack, IntentSecureFirstPass, IntentSpreadOutlets,
		}
	}
	return nil
}

// IntentAllowed reports whether the intent may be expressed in the state.
func IntentAllowed(state PhaseState, intent BehaviorIntent) bool {
	for _, i := range AllowedIntents(state) {
		if i == intent {
			return true
		}
	}
	return false
}
