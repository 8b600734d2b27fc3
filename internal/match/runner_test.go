package match

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfootball/matchsim/internal/channel"
	"github.com/openfootball/matchsim/internal/decision"
	"github.com/openfootball/matchsim/internal/dispatcher"
	"github.com/openfootball/matchsim/internal/registry"
	"github.com/openfootball/matchsim/pkg/core"
	"github.com/openfootball/matchsim/pkg/streaming"
)

// scriptedProvider is a deterministic world model for runner tests. The
// home side holds the ball with agent 5 as carrier unless the script
// says otherwise; positions are pure functions of tick and agent id.
type scriptedProvider struct {
	// possessionAt overrides the possessing side for specific ticks.
	possessionAt map[uint64]core.Side
	// goals maps ticks to scripted goals.
	goals map[uint64]*core.GoalEvent
	// carrierEval overrides the carrier's shooting snapshot.
	carrierEval *decision.EvalContext

	lastPossession core.Side
}

func newScriptedProvider() *scriptedProvider {
	return &scriptedProvider{
		possessionAt: make(map[uint64]core.Side),
		goals:        make(map[uint64]*core.GoalEvent),
	}
}

func (p *scriptedProvider) BeginTick(uint64) {}

func (p *scriptedProvider) Possession(tick uint64) (core.Side, uint8) {
	side := core.SideHome
	if s, ok := p.possessionAt[tick]; ok {
		side = s
	} else if tick > 0 {
		if s, ok := p.possessionAt[tick-1]; ok {
			// Once flipped, possession sticks.
			side = s
			p.possessionAt[tick] = s
		}
	}
	p.lastPossession = side
	carrier := uint8(5)
	if side == core.SideAway {
		carrier = 16
	}
	return side, carrier
}

func (p *scriptedProvider) TeamContext(uint64, core.Side) TeamTickContext {
	return TeamTickContext{Pressure: 0.3, ForwardOptions: 2, DistToGoalM: 40}
}

func (p *scriptedProvider) PlayerInput(tick uint64, agentID uint8) decision.PlayerInput {
	homeHasBall := p.lastPossession == core.SideHome
	teamHasBall := homeHasBall == (agentID < 11)
	carrier := agentID == 5 && homeHasBall || agentID == 16 && !homeHasBall

	state := decision.NewStateContext()
	state.TeamHasBall = teamHasBall
	state.IHaveBall = carrier
	state.CurrentTick = tick + 100 // clear of the kickoff transition window
	state.DistToBall = 20
	if carrier {
		state.DistToBall = 0
	}

	actions := decision.NewActionSetContext()
	actions.AttacksRight = agentID < 11
	actions.InShootingZone = carrier
	actions.HasClearShot = carrier
	actions.PassTargets = []decision.PlayerID{1, 2, 3}

	eval := decision.EvalContext{
		PlayerX:        80,
		PlayerY:        34,
		DistToGoal:     25,
		DistToBall:     state.DistToBall,
		StaminaPct:     0.9,
		Finishing:      70,
		Composure:      70,
		Technique:      70,
		Passing:        70,
		Vision:         70,
		Positioning:    70,
		OffTheBall:     70,
		XG:             0.2,
		ShotAngle:      0.5,
		GKDist:         12,
		ShotLaneClear:  true,
		InShootingZone: carrier,
		PassLaneClear:  true,
		ReceiverDist:   12,
	}
	if carrier && p.carrierEval != nil {
		eval = *p.carrierEval
	}

	gate := decision.NewGateContext()
	gate.IsHome = agentID < 11
	gate.AttacksRight = agentID < 11

	position := "CM"
	switch {
	case carrier:
		position = "ST"
	case !teamHasBall:
		position = "CB"
	}

	return decision.PlayerInput{
		State:   &state,
		Actions: &actions,
		Eval:    &eval,
		Gate:    &gate,
		Weights: decision.WeightsInput{
			Position:     position,
			Mentality:    "Balanced",
			PassingStyle: "Mixed",
			Tempo:        "Normal",
		},
	}
}

func (p *scriptedProvider) PlayerState(tick uint64, agentID uint8) core.PlayerState {
	return core.PlayerState{
		AgentID: agentID,
		Tick:    tick,
		X:       float64(agentID) * 4,
		Y:       float64(tick%68) + 0.5,
		Stamina: 1.0 - float64(tick)/100000,
		HasBall: agentID == 5,
	}
}

func (p *scriptedProvider) Apply(uint64, uint8, decision.PipelineResult) {}

func (p *scriptedProvider) Goal(tick uint64) *core.GoalEvent {
	return p.goals[tick]
}

func testRegistry(t *testing.T) *registry.PlayerRegistry {
	t.Helper()
	reg := registry.NewPlayerRegistry()
	for i := uint8(0); i < 22; i++ {
		side := core.SideHome
		if i >= 11 {
			side = core.SideAway
		}
		reg.Add(core.Player{
			ID:          uint(i) + 1,
			AgentID:     i,
			Side:        side,
			ShirtNumber: i%11 + 1,
			Name:        fmt.Sprintf("Player %d", i),
			Position:    "CM",
		})
	}
	return reg
}

func newTestRunner(t *testing.T, provider ContextProvider, ticks uint64) (*Runner, channel.Channel[dispatcher.Event]) {
	t.Helper()
	events := channel.New[dispatcher.Event](100_000)
	r, err := NewRunner(
		Dependencies{Registry: testRegistry(t), Provider: provider, Events: events},
		Config{TotalTicks: ticks, Pipeline: decision.DefaultPipelineConfig()},
		core.Match{ID: 1, HomeTeam: "Reds", AwayTeam: "Blues"},
		core.Venue{Name: "City Ground"},
	)
	require.NoError(t, err)
	return r, events
}

func drain(events channel.Channel[dispatcher.Event]) []dispatcher.Event {
	out := make([]dispatcher.Event, 0, events.Len())
	for events.Len() > 0 {
		out = append(out, <-events.Receive())
	}
	return out
}

func kindCounts(evs []dispatcher.Event) map[string]int {
	counts := make(map[string]int)
	for _, e := range evs {
		counts[e.Kind]++
	}
	return counts
}

func TestRunner_EmitsFullRecordStream(t *testing.T) {
	r, events := newTestRunner(t, newScriptedProvider(), 5)

	result, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), result.FinalTick)
	assert.NotEmpty(t, result.FinalDigest)

	evs := drain(events)
	require.NotEmpty(t, evs)
	assert.Equal(t, streaming.TypeStartMatch, evs[0].Kind)
	assert.Equal(t, streaming.TypeEndMatch, evs[len(evs)-1].Kind)

	counts := kindCounts(evs)
	assert.Equal(t, 22, counts[streaming.TypeAddPlayer])
	assert.Equal(t, 5*22, counts[streaming.TypeDecision], "one decision per agent per tick")
	assert.Equal(t, 5*22, counts[streaming.TypePlayerState])
	assert.Equal(t, 5, counts[streaming.TypeTickDigest])
	assert.Equal(t, 5, counts[streaming.TypeTelemetry])
}

func TestRunner_EveryAgentDecidesEveryTick(t *testing.T) {
	r, events := newTestRunner(t, newScriptedProvider(), 3)

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	seen := make(map[uint64]map[uint8]bool)
	for _, e := range drain(events) {
		if e.Kind != streaming.TypeDecision {
			continue
		}
		ev := e.Payload.(*core.DecisionEvent)
		if seen[ev.Tick] == nil {
			seen[ev.Tick] = make(map[uint8]bool)
		}
		seen[ev.Tick][ev.AgentID] = true
		assert.NotEmpty(t, ev.State)
		assert.NotEmpty(t, ev.Role)
	}
	require.Len(t, seen, 3)
	for tick, agents := range seen {
		assert.Len(t, agents, 22, "tick %d", tick)
	}
}

func TestRunner_DigestIsDeterministic(t *testing.T) {
	run := func() (core.MatchResult, []string) {
		r, events := newTestRunner(t, newScriptedProvider(), 30)
		result, err := r.Run(context.Background())
		require.NoError(t, err)

		var digests []string
		for _, e := range drain(events) {
			if e.Kind == streaming.TypeTickDigest {
				digests = append(digests, e.Payload.(*core.TickDigest).Digest)
			}
		}
		return result, digests
	}

	first, firstDigests := run()
	second, secondDigests := run()

	assert.Equal(t, first.FinalDigest, second.FinalDigest)
	assert.Equal(t, firstDigests, secondDigests)
	require.Len(t, firstDigests, 30)
	// The digest is cumulative, so consecutive ticks must differ.
	assert.NotEqual(t, firstDigests[0], firstDigests[1])
}

func TestRunner_PossessionFlipDrivesPhases(t *testing.T) {
	provider := newScriptedProvider()
	provider.possessionAt[10] = core.SideAway

	r, events := newTestRunner(t, provider, 50)
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	var possession []*core.PossessionChangeEvent
	phasesBySide := map[core.Side][]*core.PhaseChangeEvent{}
	for _, e := range drain(events) {
		switch e.Kind {
		case streaming.TypePossessionChange:
			possession = append(possession, e.Payload.(*core.PossessionChangeEvent))
		case streaming.TypePhaseChange:
			ev := e.Payload.(*core.PhaseChangeEvent)
			phasesBySide[ev.Side] = append(phasesBySide[ev.Side], ev)
		}
	}

	require.Len(t, possession, 1)
	assert.Equal(t, uint64(10), possession[0].Tick)
	assert.Equal(t, core.SideAway, possession[0].WinnerSide)
	assert.Equal(t, uint8(16), possession[0].AgentID)

	// Home: attack -> transition_defense at the turnover, defense once
	// the transition settles 30 ticks later.
	home := phasesBySide[core.SideHome]
	require.Len(t, home, 2)
	assert.Equal(t, uint64(10), home[0].Tick)
	assert.Equal(t, "attack", home[0].FromPhase)
	assert.Equal(t, "transition_defense", home[0].ToPhase)
	assert.Equal(t, uint64(40), home[1].Tick)
	assert.Equal(t, "defense", home[1].ToPhase)

	away := phasesBySide[core.SideAway]
	require.Len(t, away, 2)
	assert.Equal(t, "transition_attack", away[0].ToPhase)
	assert.Equal(t, uint64(40), away[1].Tick)
	assert.Equal(t, "attack", away[1].ToPhase)
}

func TestRunner_GoalUpdatesScoreAndRestarts(t *testing.T) {
	provider := newScriptedProvider()
	provider.goals[7] = &core.GoalEvent{Tick: 7, Side: core.SideHome, AgentID: 5, XG: 0.31}
	provider.possessionAt[8] = core.SideAway // conceding side takes the kickoff

	r, events := newTestRunner(t, provider, 12)
	result, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint8(1), result.HomeGoals)
	assert.Equal(t, uint8(0), result.AwayGoals)

	var goals []*core.GoalEvent
	var possession []*core.PossessionChangeEvent
	for _, e := range drain(events) {
		switch e.Kind {
		case streaming.TypeGoal:
			goals = append(goals, e.Payload.(*core.GoalEvent))
		case streaming.TypePossessionChange:
			possession = append(possession, e.Payload.(*core.PossessionChangeEvent))
		}
	}
	require.Len(t, goals, 1)
	assert.Equal(t, uint64(7), goals[0].Tick)
	assert.InDelta(t, 0.31, goals[0].XG, 1e-9)
	// The goal already hands possession to the conceding side, so the
	// scripted kickoff does not double-report a turnover.
	assert.Empty(t, possession)
}

func TestRunner_ForcedShotIsRecorded(t *testing.T) {
	provider := newScriptedProvider()
	provider.carrierEval = &decision.EvalContext{
		PlayerX:        101,
		PlayerY:        34,
		DistToGoal:     5,
		StaminaPct:     0.9,
		Finishing:      80,
		Composure:      80,
		Technique:      70,
		XG:             0.6,
		ShotAngle:      0.8,
		GKDist:         5,
		ShotLaneClear:  true,
		InShootingZone: true,
	}

	r, events := newTestRunner(t, provider, 2)
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	found := false
	for _, e := range drain(events) {
		if e.Kind != streaming.TypeDecision {
			continue
		}
		ev := e.Payload.(*core.DecisionEvent)
		if ev.AgentID != 5 {
			assert.False(t, ev.ForcedShot)
			continue
		}
		found = true
		assert.Equal(t, "shoot", ev.ActionKind)
		assert.True(t, ev.ForcedShot)
	}
	assert.True(t, found)
}

func TestRunner_TelemetryCountsCandidates(t *testing.T) {
	r, events := newTestRunner(t, newScriptedProvider(), 1)
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	var tm *core.TickTelemetry
	for _, e := range drain(events) {
		if e.Kind == streaming.TypeTelemetry {
			tm = e.Payload.(*core.TickTelemetry)
		}
	}
	require.NotNil(t, tm)
	assert.Greater(t, tm.CandidatesTotal, 22, "every agent sees at least one candidate")
	assert.GreaterOrEqual(t, tm.GatedTotal, 0)
}

func TestRunner_StateSamplingInterval(t *testing.T) {
	provider := newScriptedProvider()
	events := channel.New[dispatcher.Event](100_000)
	r, err := NewRunner(
		Dependencies{Registry: testRegistry(t), Provider: provider, Events: events},
		Config{TotalTicks: 10, StateEvery: 5, Pipeline: decision.DefaultPipelineConfig()},
		core.Match{ID: 1},
		core.Venue{},
	)
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)

	counts := kindCounts(drain(events))
	assert.Equal(t, 2*22, counts[streaming.TypePlayerState], "sampled at ticks 0 and 5 only")
}

func TestNewRunner_Validation(t *testing.T) {
	reg := testRegistry(t)
	events := channel.New[dispatcher.Event](16)
	good := Config{TotalTicks: 10, Pipeline: decision.DefaultPipelineConfig()}

	t.Run("zero ticks", func(t *testing.T) {
		cfg := good
		cfg.TotalTicks = 0
		_, err := NewRunner(Dependencies{Registry: reg, Provider: newScriptedProvider(), Events: events}, cfg, core.Match{}, core.Venue{})
		assert.ErrorContains(t, err, "total ticks")
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewRunner(Dependencies{Registry: reg, Events: events}, good, core.Match{}, core.Venue{})
		assert.ErrorContains(t, err, "provider")
	})

	t.Run("bad pipeline config", func(t *testing.T) {
		cfg := good
		cfg.Pipeline.MinScoreThreshold = -1
		_, err := NewRunner(Dependencies{Registry: reg, Provider: newScriptedProvider(), Events: events}, cfg, core.Match{}, core.Venue{})
		assert.ErrorContains(t, err, "pipeline config")
	})
}

func TestRunner_UnregisteredAgentFails(t *testing.T) {
	events := channel.New[dispatcher.Event](64)
	_, err := NewRunner(
		Dependencies{Registry: registry.NewPlayerRegistry(), Provider: newScriptedProvider(), Events: events},
		Config{TotalTicks: 5, Pipeline: decision.DefaultPipelineConfig()},
		core.Match{},
		core.Venue{},
	)
	assert.ErrorContains(t, err, "not registered")
}

func TestRunner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _ := newTestRunner(t, newScriptedProvider(), 1000)
	result, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(0), result.FinalTick)
}

func TestClaimTrackerPressResolvesCarrier(t *testing.T) {
	c := newClaimTracker()
	c.setCarrier(5)

	assert.False(t, c.conflicts(decision.Press()))
	assert.True(t, c.conflicts(decision.Press()), "two presses contend the same carrier")
	assert.False(t, c.conflicts(decision.Mark(0)), "marking agent 0 must not alias the press claim")
	assert.True(t, c.conflicts(decision.Mark(5)), "marking the carrier collides with the press claim")
}

func TestClaimTrackerPressWithoutCarrier(t *testing.T) {
	c := newClaimTracker()

	// Press claims are unresolvable until the carrier is known; they must
	// not collapse onto agent 0.
	assert.False(t, c.conflicts(decision.Press()))
	assert.False(t, c.conflicts(decision.Press()))
	assert.False(t, c.conflicts(decision.Mark(0)))
}
