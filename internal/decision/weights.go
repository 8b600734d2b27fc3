package decision

// Weight bounds applied after every multiplier has been folded in. The
// vector is never renormalized afterwards.
const (
	weightFloor   = 0.05
	weightCeiling = 0.60
)

// PositionWeights returns the base weight vector for a position string.
// Unknown positions fall back to the default vector.
func PositionWeights(position string) ActionWeights {
	switch position {
	case "GK":
		return ActionWeights{Distance: 0.15, Safety: 0.40, Readiness: 0.20, Progression: 0.05, Space: 0.10, Tactical: 0.10}
	case "CB":
		return ActionWeights{Distance: 0.20, Safety: 0.32, Readiness: 0.15, Progression: 0.13, Space: 0.10, Tactical: 0.10}
	case "FB", "LB", "RB", "WB":
		return ActionWeights{Distance: 0.20, Safety: 0.25, Readiness: 0.15, Progression: 0.20, Space: 0.10, Tactical: 0.10}
	case "DM", "CDM":
		return ActionWeights{Distance: 0.20, Safety: 0.28, Readiness: 0.15, Progression: 0.17, Space: 0.10, Tactical: 0.10}
	case "CM":
		return ActionWeights{Distance: 0.20, Safety: 0.25, Readiness: 0.15, Progression: 0.20, Space: 0.10, Tactical: 0.10}
	case "AM", "CAM":
		return ActionWeights{Distance: 0.18, Safety: 0.20, Readiness: 0.15, Progression: 0.27, Space: 0.10, Tactical: 0.10}
	case "W", "LW", "RW", "LM", "RM":
		return ActionWeights{Distance: 0.18, Safety: 0.18, Readiness: 0.15, Progression: 0.24, Space: 0.15, Tactical: 0.10}
	case "ST", "CF":
		return ActionWeights{Distance: 0.18, Safety: 0.15, Readiness: 0.15, Progression: 0.30, Space: 0.12, Tactical: 0.10}
	default:
		return DefaultWeights()
	}
}

// TraitMultiplier returns the weight multiplier for a player trait.
// Unknown traits are the identity.
func TraitMultiplier(trait string) WeightMultiplier {
	m := UnitMultiplier()
	switch trait {
	// Passing traits.
	case "PlaysRiskyPasses":
		m.Safety, m.Progression = 0.85, 1.15
	case "TriesKillerBalls":
		m.Safety, m.Tactical = 0.80, 1.20
	case "PlaysItSafe":
		m.Safety, m.Progression = 1.20, 0.90

	// Shooting traits.
	case "ShootsFromDistance":
		m.Distance = 1.20
	case "PlacesShots":
		m.Readiness = 1.10
	case "ShootsWithPower":
		m.Safety = 0.95

	// Dribbling traits.
	case "TriesToBeatDefender":
		m.Safety, m.Progression = 0.85, 1.15
	case "RunsWithBallOften":
		m.Space, m.Tactical = 1.15, 1.10
	case "CutsInsideFromWing":
		m.Tactical = 1.15

	// Movement traits.
	case "StaysBack":
		m.Progression, m.Safety = 0.70, 1.30
	case "GetsForward":
		m.Progression, m.Safety = 1.20, 0.90
	case "TriesToBeatOffsideTrap":
		m.Progression = 1.25
	case "MakesForwardRuns":
		m.Progression = 1.15

	// Defending traits.
	case "DivesIntoTackles":
		m.Safety = 0.75
	case "StayOnFeet":
		m.Safety = 1.15
	case "MarksOpponentTightly":
		m.Distance = 0.90

	case "HoldsUpBall":
		m.Space, m.Progression = 1.15, 0.90
	case "DictatesTempo":
		m.Tactical = 1.20
	}
	return m
}

// MentalityMultiplier returns the multiplier for a team mentality.
func MentalityMultiplier(mentality string) WeightMultiplier {
	m := UnitMultiplier()
	switch mentality {
	case "VeryDefensive":
		m.Safety, m.Progression = 1.25, 0.80
	case "Defensive":
		m.Safety, m.Progression = 1.15, 0.90
	case "Attacking":
		m.Safety, m.Progression = 0.90, 1.15
	case "VeryAttacking":
		m.Safety, m.Progression = 0.80, 1.25
	}
	return m
}

// PassingStyleMultiplier returns the multiplier for a passing style.
func PassingStyleMultiplier(style string) WeightMultiplier {
	m := UnitMultiplier()
	switch style {
	case "Direct":
		m.Progression = 1.15
	case "Short":
		m.Safety = 1.15
	}
	return m
}

// TempoMultiplier returns the multiplier for a team tempo.
func TempoMultiplier(tempo string) WeightMultiplier {
	m := UnitMultiplier()
	switch tempo {
	case "Fast":
		m.Progression = 1.10
	case "Slow":
		m.Safety = 1.10
	}
	return m
}

// StateMultiplier returns the multiplier for the player's phase state.
func StateMultiplier(state PhaseState) WeightMultiplier {
	m := UnitMultiplier()
	switch state {
	case StateTransitionWin:
		m.Progression, m.Safety = 1.30, 0.85
	case StateTransitionLoss:
		m.Safety, m.Progression = 1.20, 0.80
	case StateDefensiveShape:
		m.Safety, m.Tactical = 1.15, 1.10
	}
	return m
}

// WeightsInput bundles everything the weight resolution reads.
type WeightsInput struct {
	Position     string
	Traits       []string
	Mentality    string
	PassingStyle string
	Tempo        string
}

// CalculateWeights resolves the final weight vector: position base, then
// traits, mentality, passing style, tempo and state applied
// multiplicatively in that order, then clamped to [0.05, 0.60].
func CalculateWeights(in WeightsInput, state PhaseState) ActionWeights {
	w := PositionWeights(in.Position)

	for _, trait := range in.Traits {
		w.Apply(TraitMultiplier(trait))
	}

	w.Apply(MentalityMultiplier(in.Mentality))
	w.Apply(PassingStyleMultiplier(in.PassingStyle))
	w.Apply(TempoMultiplier(in.Tempo))
	w.Apply(StateMultiplier(state))

	w.ClampAll(weightFloor, weightCeiling)
	return w
}
