package decision

import (
	"fmt"
	"log/slog"
	"sort"
)

// Shot adjustment constants applied after the first sort.
const (
	forceShootDistM    = 8.0
	boxShotBonusDistM  = 16.5
	arcShotBonusDistM  = 25.0
	boxShotBonus       = 0.15
	arcShotBonus       = 0.05
	oneOnOneShotBonus  = 0.2
	clearLaneShotBonus = 0.05
	defenderShotMalus  = 0.08
	longShotMalus      = 0.15
)

// Forward and reciprocity pass adjustments applied to weighted totals.
const (
	forwardPassBonus    = 0.04
	reciprocalPassBonus = 0.20
)

// PipelineConfig tunes selection. It is validated once at load; a bad
// value aborts startup rather than skewing every decision afterwards.
type PipelineConfig struct {
	// MinScoreThreshold drops candidates scoring below it. A player may
	// legitimately end the tick with no action at all.
	MinScoreThreshold float64

	// TopNSelection is kept at 1 for fully deterministic play.
	TopNSelection int

	DebugLogging bool
}

// DefaultPipelineConfig returns the standard tuning.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MinScoreThreshold: 0.1,
		TopNSelection:     1,
	}
}

// Validate rejects out-of-range tuning values.
func (c PipelineConfig) Validate() error {
	if c.MinScoreThreshold < 0 || c.MinScoreThreshold > 1 {
		return fmt.Errorf("min score threshold %v outside [0, 1]", c.MinScoreThreshold)
	}
	if c.TopNSelection < 1 {
		return fmt.Errorf("top-n selection %d must be at least 1", c.TopNSelection)
	}
	return nil
}

// PipelineResult is the outcome of one player's decision. Selected is nil
// when every candidate was gated away or fell below the threshold; the
// result still reports the classified state and role.
type PipelineResult struct {
	Selected      *ScoredAction
	AllScored     []ScoredAction
	State         PhaseState
	Role          RoleTag
	FilteredCount int
	Intent        *BehaviorIntent
	// ForcedShot marks a selection made by the point-blank shot override
	// rather than by score ranking.
	ForcedShot bool
}

// Pipeline runs the full decision sequence for one player: classify,
// generate, gate, weigh, score, coordinate, select, claim.
type Pipeline struct {
	cfg PipelineConfig
	log *slog.Logger
}

// NewPipeline builds a pipeline. The config must already be validated.
func NewPipeline(cfg PipelineConfig, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{cfg: cfg, log: log}
}

// PlayerInput groups the per-player observation snapshots.
type PlayerInput struct {
	State   *StateContext
	Actions *ActionSetContext
	Eval    *EvalContext
	Gate    *GateContext
	Weights WeightsInput
}

// Execute decides for one player and records the claim on the
// coordinator. The coordinator mutates across the team's sequential
// calls; decision order within a tick is part of the contract.
func (p *Pipeline) Execute(playerID PlayerID, in PlayerInput, coord *TeamCoordinator) PipelineResult {
	state := ClassifyState(in.State)

	// Pressing intent currently follows team mentality; a dedicated
	// tactical pressing flag would slot in here.
	isPressing := in.Weights.Mentality == "Attacking" || in.Weights.Mentality == "VeryAttacking"
	role := ClassifyRole(in.Weights.Position, state, isPressing)

	candidates := BuildActionSet(state, role, in.Actions)
	candidates, filtered := FilterActions(candidates, in.Gate)

	weights := CalculateWeights(in.Weights, state)

	scored := make([]ScoredAction, 0, len(candidates))
	for _, a := range candidates {
		score := Evaluate(a, in.Eval)
		intent := IntentFromActionWithContext(a, in.Eval)
		scored = append(scored, NewScoredActionWithIntent(a, score, weights, intent))
	}

	p.adjustPasses(playerID, scored, in.Actions)

	for i := range scored {
		coord.ApplyConflictPenalty(&scored[i])
	}

	sortByTotal(scored)

	forceShoot := in.Eval.DistToGoal < forceShootDistM && in.Eval.InShootingZone
	if !forceShoot {
		p.adjustShots(scored, in.Eval)
		sortByTotal(scored)
	}

	kept := scored[:0]
	for _, sa := range scored {
		if sa.WeightedTotal >= p.cfg.MinScoreThreshold {
			kept = append(kept, sa)
		}
	}
	scored = kept

	var selected *ScoredAction
	switch {
	case forceShoot:
		for i := range scored {
			if scored[i].Action.Kind == KindShoot {
				selected = &scored[i]
				break
			}
		}
	case len(scored) > 0:
		// Deterministic: the best survivor wins.
		selected = &scored[0]
	}

	if selected != nil {
		coord.Claim(selected.Action, playerID)
	}

	var intent *BehaviorIntent
	if selected != nil {
		intent = &selected.Intent
	}

	if p.cfg.DebugLogging {
		p.logResult(playerID, state, role, selected, len(scored), filtered)
	}

	return PipelineResult{
		Selected:      selected,
		AllScored:     scored,
		State:         state,
		Role:          role,
		FilteredCount: filtered,
		Intent:        intent,
		ForcedShot:    forceShoot && selected != nil,
	}
}

// adjustPasses applies the forward and reciprocity bonuses. Slot order
// encodes the lineup back to front, so a higher target slot means a more
// advanced teammate.
func (p *Pipeline) adjustPasses(playerID PlayerID, scored []ScoredAction, actions *ActionSetContext) {
	playerSlot := playerID.Slot()
	for i := range scored {
		sa := &scored[i]
		if sa.Action.Kind != KindPass {
			continue
		}
		if sa.Action.Target.Slot() > playerSlot {
			sa.WeightedTotal += forwardPassBonus
		}
		if actions.isReciprocal(sa.Action.Target) {
			sa.WeightedTotal += reciprocalPassBonus
		}
	}
}

func (p *Pipeline) adjustShots(scored []ScoredAction, eval *EvalContext) {
	dist := eval.DistToGoal
	for i := range scored {
		sa := &scored[i]
		if sa.Action.Kind != KindShoot {
			continue
		}

		if dist < boxShotBonusDistM {
			sa.WeightedTotal += boxShotBonus
		} else if dist < arcShotBonusDistM {
			sa.WeightedTotal += arcShotBonus
		}

		if eval.IsOneOnOne {
			sa.WeightedTotal += oneOnOneShotBonus
		}
		if eval.ShotLaneClear {
			sa.WeightedTotal += clearLaneShotBonus
		}

		if eval.DefendersAhead >= 1 {
			sa.WeightedTotal -= defenderShotMalus * float64(eval.DefendersAhead)
		}
		if dist > arcShotBonusDistM {
			sa.WeightedTotal -= longShotMalus
		}
	}
}

func (p *Pipeline) logResult(playerID PlayerID, state PhaseState, role RoleTag, selected *ScoredAction, scoredCount, filtered int) {
	attrs := []any{
		slog.Uint64("player", uint64(playerID)),
		slog.String("state", state.String()),
		slog.String("role", role.String()),
		slog.Int("candidates", scoredCount),
		slog.Int("filtered", filtered),
	}
	if selected != nil {
		attrs = append(attrs,
			slog.String("action", selected.Action.Kind.String()),
			slog.Float64("total", selected.WeightedTotal),
			slog.String("intent", selected.Intent.String()),
		)
	}
	p.log.Debug("decision", attrs...)
}

// sortByTotal orders candidates by weighted total, highest first. The
// sort is stable and treats unorderable totals as equal, so a stray NaN
// cannot panic the tick or reshuffle its neighbours.
func sortByTotal(scored []ScoredAction) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].WeightedTotal > scored[j].WeightedTotal
	})
}
