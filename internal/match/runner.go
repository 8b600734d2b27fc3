// Package match drives a simulated fixture tick by tick. The Runner owns
// the decision pipeline, both phase machines and both claim ledgers; the
// world model itself (positions, ball physics, event detection) is
// injected through ContextProvider. Every record the Runner produces goes
// onto a single event channel, so downstream ordering matches decision
// order exactly.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openfootball/matchsim/internal/channel"
	"github.com/openfootball/matchsim/internal/decision"
	"github.com/openfootball/matchsim/internal/digest"
	"github.com/openfootball/matchsim/internal/dispatcher"
	"github.com/openfootball/matchsim/internal/phase"
	"github.com/openfootball/matchsim/internal/registry"
	"github.com/openfootball/matchsim/pkg/core"
	"github.com/openfootball/matchsim/pkg/streaming"
)

// TeamTickContext carries the per-team inputs for the attack sub-phase
// resolution, as observed by the world model at the start of a tick.
type TeamTickContext struct {
	Pressure          float64
	ForwardOptions    int
	DistToGoalM       float64
	ForwardPassResult *bool
}

// ContextProvider is the world model seen from the decision layer. The
// Runner calls BeginTick once, then queries the snapshot methods; they
// must not observe decisions made later in the same tick. Apply hands
// each decision back so the provider can advance the world.
//
// A provider that is deterministic makes the whole run deterministic:
// the Runner adds no randomness of its own.
type ContextProvider interface {
	BeginTick(tick uint64)

	// Possession reports the side in possession and the carrier's agent id.
	Possession(tick uint64) (side core.Side, carrier uint8)

	// TeamContext reports the sub-phase inputs for one side.
	TeamContext(tick uint64, side core.Side) TeamTickContext

	// PlayerInput builds the observation snapshot one agent decides on.
	PlayerInput(tick uint64, agentID uint8) decision.PlayerInput

	// PlayerState reports the agent's observable physical state.
	PlayerState(tick uint64, agentID uint8) core.PlayerState

	// Apply delivers the agent's decision back to the world model.
	Apply(tick uint64, agentID uint8, res decision.PipelineResult)

	// Goal reports a goal scored during this tick, or nil.
	Goal(tick uint64) *core.GoalEvent
}

// Config sets the fixed parameters of one run.
type Config struct {
	TotalTicks uint64
	// StateEvery is the player_state sampling interval in ticks.
	// Zero means every tick.
	StateEvery uint64
	Pipeline   decision.PipelineConfig
}

// Dependencies are the Runner's collaborators.
type Dependencies struct {
	Log      *slog.Logger
	Registry *registry.PlayerRegistry
	Provider ContextProvider
	Events   channel.Sender[dispatcher.Event]
}

// Runner advances one match from kickoff to final tick.
type Runner struct {
	deps Dependencies
	cfg  Config

	match core.Match
	venue core.Venue

	pipe      *decision.Pipeline
	homeCoord *decision.TeamCoordinator
	awayCoord *decision.TeamCoordinator
	homePhase *phase.State
	awayPhase *phase.State

	digest *digest.Digest

	// players is a snapshot taken at construction. The live registry is
	// owned by the event handlers and may be reset mid-run.
	players [22]core.Player

	possession      core.Side
	possessionKnown bool

	homeGoals uint8
	awayGoals uint8
}

// NewRunner builds a Runner for one fixture. The home side kicks off.
func NewRunner(deps Dependencies, cfg Config, m core.Match, v core.Venue) (*Runner, error) {
	if err := cfg.Pipeline.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	if cfg.TotalTicks == 0 {
		return nil, fmt.Errorf("total ticks must be positive")
	}
	if deps.Provider == nil {
		return nil, fmt.Errorf("context provider is required")
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	var players [22]core.Player
	for agentID := uint8(0); agentID < 22; agentID++ {
		p, ok := deps.Registry.Get(agentID)
		if !ok {
			return nil, fmt.Errorf("agent %d not registered", agentID)
		}
		players[agentID] = p
	}
	return &Runner{
		deps:      deps,
		cfg:       cfg,
		match:     m,
		venue:     v,
		pipe:      decision.NewPipeline(cfg.Pipeline, deps.Log),
		homeCoord: decision.NewTeamCoordinator(),
		awayCoord: decision.NewTeamCoordinator(),
		homePhase: phase.Attacking(),
		awayPhase: phase.Defending(),
		digest:    digest.New(),
		players:   players,
	}, nil
}

// Run plays the match to completion and returns the final result. All
// lifecycle and tick records are emitted on the event channel; the
// channel is not closed, the caller owns its lifetime. ctx cancellation
// stops the run at the next tick boundary.
func (r *Runner) Run(ctx context.Context) (core.MatchResult, error) {
	r.deps.Events.Send(dispatcher.Event{
		Kind: streaming.TypeStartMatch,
		Payload: &streaming.StartMatchPayload{
			Match: &r.match,
			Venue: &r.venue,
		},
	})
	for agentID := range r.players {
		p := r.players[agentID]
		r.deps.Events.Send(dispatcher.Event{Kind: streaming.TypeAddPlayer, Payload: &p})
	}

	r.deps.Log.Info("match started",
		"home", r.match.HomeTeam,
		"away", r.match.AwayTeam,
		"ticks", r.cfg.TotalTicks,
	)

	var tick uint64
	for tick = 0; tick < r.cfg.TotalTicks; tick++ {
		select {
		case <-ctx.Done():
			return r.result(tick), ctx.Err()
		default:
		}
		r.step(tick)
	}

	result := r.result(tick)
	r.deps.Events.Send(dispatcher.Event{Kind: streaming.TypeEndMatch, Tick: tick, Payload: &result})
	r.deps.Log.Info("match finished",
		"home_goals", result.HomeGoals,
		"away_goals", result.AwayGoals,
		"final_tick", result.FinalTick,
		"digest", result.FinalDigest,
	)
	return result, nil
}

func (r *Runner) result(finalTick uint64) core.MatchResult {
	return core.MatchResult{
		MatchID:     r.match.ID,
		HomeGoals:   r.homeGoals,
		AwayGoals:   r.awayGoals,
		FinalTick:   finalTick,
		FinalDigest: r.digest.Sum(),
	}
}

// step runs one full tick: phase updates, 22 sequential decisions, state
// sampling, goal handling, digest and telemetry.
func (r *Runner) step(tick uint64) {
	start := time.Now()
	r.deps.Provider.BeginTick(tick)

	possSide, carrier := r.deps.Provider.Possession(tick)
	if r.possessionKnown && possSide != r.possession {
		r.deps.Events.Send(dispatcher.Event{
			Kind: streaming.TypePossessionChange,
			Tick: tick,
			Payload: &core.PossessionChangeEvent{
				Tick:       tick,
				WinnerSide: possSide,
				AgentID:    carrier,
			},
		})
	}
	r.possession = possSide
	r.possessionKnown = true

	r.updatePhase(tick, core.SideHome, r.homePhase, possSide == core.SideHome)
	r.updatePhase(tick, core.SideAway, r.awayPhase, possSide == core.SideAway)

	r.homeCoord.Reset()
	r.awayCoord.Reset()
	homeClaims := newClaimTracker()
	awayClaims := newClaimTracker()
	// The defending team's press claims resolve against the carrier.
	carrierID := decision.PlayerID(carrier)
	if possSide == core.SideHome {
		r.awayCoord.SetBallCarrier(carrierID)
		awayClaims.setCarrier(carrierID)
	} else {
		r.homeCoord.SetBallCarrier(carrierID)
		homeClaims.setCarrier(carrierID)
	}

	var candidates, gated, conflicts int

	for agentID := uint8(0); agentID < 22; agentID++ {
		coord := r.homeCoord
		claims := homeClaims
		if agentID >= 11 {
			coord = r.awayCoord
			claims = awayClaims
		}

		in := r.deps.Provider.PlayerInput(tick, agentID)
		res := r.pipe.Execute(decision.PlayerID(agentID), in, coord)

		candidates += len(res.AllScored) + res.FilteredCount
		gated += res.FilteredCount
		if res.Selected != nil && claims.conflicts(res.Selected.Action) {
			conflicts++
		}

		ev := r.decisionEvent(tick, agentID, &res)
		r.digest.Add(ev)
		r.deps.Events.Send(dispatcher.Event{Kind: streaming.TypeDecision, Tick: tick, Payload: ev})

		r.deps.Provider.Apply(tick, agentID, res)
	}

	if r.cfg.StateEvery <= 1 || tick%r.cfg.StateEvery == 0 {
		for agentID := uint8(0); agentID < 22; agentID++ {
			st := r.deps.Provider.PlayerState(tick, agentID)
			r.deps.Events.Send(dispatcher.Event{Kind: streaming.TypePlayerState, Tick: tick, Payload: &st})
		}
	}

	if goal := r.deps.Provider.Goal(tick); goal != nil {
		r.recordGoal(tick, goal)
	}

	r.deps.Events.Send(dispatcher.Event{
		Kind:    streaming.TypeTickDigest,
		Tick:    tick,
		Payload: &core.TickDigest{Tick: tick, Digest: r.digest.Sum()},
	})
	r.deps.Events.Send(dispatcher.Event{
		Kind: streaming.TypeTelemetry,
		Tick: tick,
		Payload: &core.TickTelemetry{
			Tick:            tick,
			DecisionMicros:  time.Since(start).Microseconds(),
			CandidatesTotal: candidates,
			GatedTotal:      gated,
			ClaimConflicts:  conflicts,
		},
	})
}

func (r *Runner) updatePhase(tick uint64, side core.Side, st *phase.State, hasPossession bool) {
	from, changed := st.Update(hasPossession, tick)
	tc := r.deps.Provider.TeamContext(tick, side)
	st.UpdateAttackSubPhase(tc.Pressure, tc.ForwardOptions, tc.DistToGoalM, tc.ForwardPassResult)
	if !changed {
		return
	}
	r.deps.Events.Send(dispatcher.Event{
		Kind: streaming.TypePhaseChange,
		Tick: tick,
		Payload: &core.PhaseChangeEvent{
			Tick:      tick,
			Side:      side,
			FromPhase: from.String(),
			ToPhase:   st.Phase.String(),
			SubPhase:  st.SubPhase.String(),
		},
	})
}

// recordGoal emits the goal, updates the score and restarts both phase
// machines for the kickoff: the conceding side gets the ball.
func (r *Runner) recordGoal(tick uint64, goal *core.GoalEvent) {
	if goal.Side == core.SideHome {
		r.homeGoals++
		r.homePhase.ForcePhase(phase.PhaseDefense, tick)
		r.awayPhase.ForcePhase(phase.PhaseAttack, tick)
	} else {
		r.awayGoals++
		r.awayPhase.ForcePhase(phase.PhaseDefense, tick)
		r.homePhase.ForcePhase(phase.PhaseAttack, tick)
	}
	r.possession = goal.Side.Opponent()
	r.deps.Events.Send(dispatcher.Event{Kind: streaming.TypeGoal, Tick: tick, Payload: goal})
	r.deps.Log.Info("goal",
		"tick", tick,
		"side", goal.Side.String(),
		"agent_id", goal.AgentID,
		"xg", goal.XG,
	)
}

// decisionEvent flattens a pipeline result into the storable record. A
// tick where nothing cleared the threshold keeps an empty ActionKind.
func (r *Runner) decisionEvent(tick uint64, agentID uint8, res *decision.PipelineResult) *core.DecisionEvent {
	p := r.players[agentID]

	ev := &core.DecisionEvent{
		Tick:           tick,
		PlayerID:       p.ID,
		AgentID:        agentID,
		Side:           p.Side,
		State:          res.State.String(),
		Role:           res.Role.String(),
		CandidateCount: len(res.AllScored),
		FilteredCount:  res.FilteredCount,
	}
	if res.Intent != nil {
		ev.Intent = res.Intent.String()
	}

	sel := res.Selected
	if sel == nil {
		return ev
	}

	ev.ActionKind = sel.Action.Kind.String()
	ev.PointX = sel.Action.Point.X
	ev.PointY = sel.Action.Point.Y
	ev.Intent = sel.Intent.String()
	ev.WeightedTotal = sel.WeightedTotal
	ev.ForcedShot = res.ForcedShot

	switch sel.Action.Kind {
	case decision.KindPass, decision.KindThroughBall, decision.KindMark, decision.KindFirstPassForward:
		t := uint8(sel.Action.Target)
		ev.TargetID = &t
	}

	ev.Distance = sel.Score.Distance
	ev.Safety = sel.Score.Safety
	ev.Readiness = sel.Score.Readiness
	ev.Progression = sel.Score.Progression
	ev.Space = sel.Score.Space
	ev.Tactical = sel.Score.Tactical
	return ev
}

// claimTracker mirrors the coordinator's ledger keys so the runner can
// count how often a winning action landed on an already-claimed target
// or zone. Purely diagnostic; penalties themselves live in the
// coordinator.
type claimTracker struct {
	targets map[decision.PlayerID]struct{}
	spaces  map[decision.Zone]struct{}

	carrier    decision.PlayerID
	carrierSet bool
}

func newClaimTracker() *claimTracker {
	return &claimTracker{
		targets: make(map[decision.PlayerID]struct{}),
		spaces:  make(map[decision.Zone]struct{}),
	}
}

// setCarrier tells the tracker who press claims resolve against,
// mirroring SetBallCarrier on the coordinator.
func (c *claimTracker) setCarrier(id decision.PlayerID) {
	c.carrier = id
	c.carrierSet = true
}

// conflicts records the action's claim and reports whether it collided
// with an earlier one this tick.
func (c *claimTracker) conflicts(a decision.Action) bool {
	switch a.Kind {
	case decision.KindPress, decision.KindMark:
		target := a.Target
		if a.Kind == decision.KindPress {
			if !c.carrierSet {
				return false
			}
			target = c.carrier
		}
		if _, dup := c.targets[target]; dup {
			return true
		}
		c.targets[target] = struct{}{}
	case decision.KindRunIntoSpace, decision.KindRunSupport:
		zone := decision.ZoneAt(a.Point.X, a.Point.Y)
		if _, dup := c.spaces[zone]; dup {
			return true
		}
		c.spaces[zone] = struct{}{}
	}
	return false
}
