// Package phase tracks each team's collective game phase: settled attack
// or defense, and the short transition windows in between. The phase
// machine is driven once per tick from possession alone; sub-phases add
// the finer attacking texture (circulation, progression, finalization)
// that steers pass weighting.
package phase

// TeamPhase is the team-level game phase.
type TeamPhase uint8

const (
	// PhaseAttack is settled possession in the opposing half.
	PhaseAttack TeamPhase = iota
	// PhaseDefense is the settled defensive block.
	PhaseDefense
	// PhaseTransitionAttack is the counter window right after winning the ball.
	PhaseTransitionAttack
	// PhaseTransitionDefense is the recovery window right after losing it.
	PhaseTransitionDefense
)

var teamPhaseNames = map[TeamPhase]string{
	PhaseAttack:            "attack",
	PhaseDefense:           "defense",
	PhaseTransitionAttack:  "transition_attack",
	PhaseTransitionDefense: "transition_defense",
}

func (p TeamPhase) String() string {
	if n, ok := teamPhaseNames[p]; ok {
		return n
	}
	return "unknown"
}

// IsAttacking reports whether the team nominally has the ball.
func (p TeamPhase) IsAttacking() bool {
	return p == PhaseAttack || p == PhaseTransitionAttack
}

// IsTransition reports whether the phase is one of the unsettled windows.
func (p TeamPhase) IsTransition() bool {
	return p == PhaseTransitionAttack || p == PhaseTransitionDefense
}

// ShouldPress reports whether the team hunts the ball in this phase.
func (p TeamPhase) ShouldPress() bool {
	return p == PhaseTransitionDefense || p == PhaseDefense
}

// AttackSubPhase is the finer attacking mode within PhaseAttack.
type AttackSubPhase uint8

const (
	// SubPhaseCirculation keeps the shape under pressure: backward and
	// lateral passes preferred, forward play heavily suppressed. This is
	// the default mode for most of a possession spell.
	SubPhaseCirculation AttackSubPhase = iota
	// SubPhaseProgression allows forward passes and line breaks.
	SubPhaseProgression
	// SubPhaseFinalization is the shooting-zone mode: finish or cross.
	SubPhaseFinalization
)

var subPhaseNames = map[AttackSubPhase]string{
	SubPhaseCirculation:  "circulation",
	SubPhaseProgression:  "progression",
	SubPhaseFinalization: "finalization",
}

func (s AttackSubPhase) String() string {
	if n, ok := subPhaseNames[s]; ok {
		return n
	}
	return "unknown"
}

// PrefersForwardPass reports whether forward passes are encouraged.
func (s AttackSubPhase) PrefersForwardPass() bool { return s == SubPhaseProgression }

// PrefersCirculation reports whether recycling passes are encouraged.
func (s AttackSubPhase) PrefersCirculation() bool { return s == SubPhaseCirculation }

// PrefersShooting reports whether finishing takes priority.
func (s AttackSubPhase) PrefersShooting() bool { return s == SubPhaseFinalization }

// ForwardPassMultiplier is the weight multiplier on forward passes during
// settled attack. The circulation value is extreme on purpose: most real
// possession is probing, not progressing.
func (s AttackSubPhase) ForwardPassMultiplier() float64 {
	switch s {
	case SubPhaseCirculation:
		return 0.02
	case SubPhaseProgression:
		return 0.8
	case SubPhaseFinalization:
		return 0.5
	}
	return 1.0
}

// CirculationPassMultiplier is the weight multiplier on backward and
// lateral passes during settled attack.
func (s AttackSubPhase) CirculationPassMultiplier() float64 {
	switch s {
	case SubPhaseCirculation:
		return 12.0
	case SubPhaseProgression:
		return 1.2
	case SubPhaseFinalization:
		return 1.0
	}
	return 1.0
}

// transitionSettleTicks is how long a transition window lasts before the
// phase settles. Three seconds at ten ticks per second.
const transitionSettleTicks = 30

// finalizationDistM puts the team into finishing mode inside this range.
const finalizationDistM = 25.0

// Progression requires near-zero pressure, plenty of forward options and
// a clean recent record; anything less keeps the ball circulating.
const (
	progressionMaxPressure    = 0.10
	progressionMinFwdOptions  = 7
	progressionMaxFwdFailures = 0
)

// State is one team's phase machine. Two exist per match, one per team,
// updated every tick before any player decides.
type State struct {
	Phase          TeamPhase
	PhaseStartTick uint64

	LastPossessionChangeTick uint64
	HasPossession            bool

	SubPhase AttackSubPhase

	ConsecutiveForwardFailures uint8
	CurrentPressure            float64
}

// NewState returns a machine starting in the given phase.
func NewState(initial TeamPhase) *State {
	return &State{
		Phase:         initial,
		HasPossession: initial.IsAttacking(),
	}
}

// Attacking returns the kickoff team's machine.
func Attacking() *State { return NewState(PhaseAttack) }

// Defending returns the receiving team's machine.
func Defending() *State { return NewState(PhaseDefense) }

// TicksInPhase returns how long the current phase has held.
func (s *State) TicksInPhase(currentTick uint64) uint64 {
	if currentTick < s.PhaseStartTick {
		return 0
	}
	return currentTick - s.PhaseStartTick
}

// TicksSincePossessionChange returns the age of the last turnover.
func (s *State) TicksSincePossessionChange(currentTick uint64) uint64 {
	if currentTick < s.LastPossessionChangeTick {
		return 0
	}
	return currentTick - s.LastPossessionChangeTick
}

// Update advances the machine for one tick. It returns the previous phase
// and true when the phase changed.
func (s *State) Update(hasPossession bool, currentTick uint64) (TeamPhase, bool) {
	if hasPossession != s.HasPossession {
		s.LastPossessionChangeTick = currentTick
	}
	s.HasPossession = hasPossession

	old := s.Phase
	next := s.calculateNextPhase(currentTick)
	if next == old {
		return old, false
	}

	s.Phase = next
	s.PhaseStartTick = currentTick
	return old, true
}

func (s *State) calculateNextPhase(currentTick uint64) TeamPhase {
	sinceChange := s.TicksSincePossessionChange(currentTick)

	if s.HasPossession {
		switch s.Phase {
		case PhaseDefense, PhaseTransitionDefense:
			return PhaseTransitionAttack
		case PhaseTransitionAttack:
			if sinceChange >= transitionSettleTicks {
				return PhaseAttack
			}
			return PhaseTransitionAttack
		default:
			return PhaseAttack
		}
	}

	switch s.Phase {
	case PhaseAttack, PhaseTransitionAttack:
		return PhaseTransitionDefense
	case PhaseTransitionDefense:
		if sinceChange >= transitionSettleTicks {
			return PhaseDefense
		}
		return PhaseTransitionDefense
	default:
		return PhaseDefense
	}
}

// ForcePhase overrides the machine, for restarts and set pieces.
func (s *State) ForcePhase(phase TeamPhase, currentTick uint64) {
	s.Phase = phase
	s.PhaseStartTick = currentTick
	s.HasPossession = phase.IsAttacking()
	if phase == PhaseAttack {
		s.SubPhase = SubPhaseCirculation
	}
}

// UpdateAttackSubPhase resolves the attacking sub-phase. forwardPassResult
// reports the outcome of the most recent forward pass, if one happened.
// Outside PhaseAttack the call is a no-op.
func (s *State) UpdateAttackSubPhase(pressure float64, forwardOptions int, distToGoalM float64, forwardPassResult *bool) {
	if s.Phase != PhaseAttack {
		return
	}

	s.CurrentPressure = pressure

	if forwardPassResult != nil {
		if *forwardPassResult {
			s.ConsecutiveForwardFailures = 0
		} else if s.ConsecutiveForwardFailures < ^uint8(0) {
			s.ConsecutiveForwardFailures++
		}
	}

	if distToGoalM < finalizationDistM {
		s.SubPhase = SubPhaseFinalization
		return
	}

	canProgress := pressure < progressionMaxPressure &&
		forwardOptions >= progressionMinFwdOptions &&
		s.ConsecutiveForwardFailures <= progressionMaxFwdFailures

	if canProgress {
		s.SubPhase = SubPhaseProgression
	} else {
		s.SubPhase = SubPhaseCirculation
	}
}

// AttackSubPhase returns the effective sub-phase; outside attacking phases
// it reads as circulation.
func (s *State) AttackSubPhase() AttackSubPhase {
	if s.Phase.IsAttacking() {
		return s.SubPhase
	}
	return SubPhaseCirculation
}

// ForwardPassWeight returns the phase-level multiplier on forward passes.
// Transition attack carries its own, sharper table.
func (s *State) ForwardPassWeight() float64 {
	switch s.Phase {
	case PhaseAttack:
		return s.SubPhase.ForwardPassMultiplier()
	case PhaseTransitionAttack:
		switch s.SubPhase {
		case SubPhaseCirculation:
			return 0.15
		case SubPhaseProgression:
			return 1.2
		case SubPhaseFinalization:
			return 0.7
		}
	}
	return 1.0
}

// CirculationPassWeight returns the phase-level multiplier on backward and
// lateral passes.
func (s *State) CirculationPassWeight() float64 {
	switch s.Phase {
	case PhaseAttack:
		return s.SubPhase.CirculationPassMultiplier()
	case PhaseTransitionAttack:
		switch s.SubPhase {
		case SubPhaseCirculation:
			return 3.0
		case SubPhaseProgression:
			return 0.85
		case SubPhaseFinalization:
			return 1.0
		}
	}
	return 1.0
}
