package decision

// TeamCoordinator is the shared claims ledger preventing teammates from
// piling onto the same target or space. One coordinator exists per team
// and is reset at the start of every tick. The first claimer wins; later
// claimants are penalized, never blocked. Not safe for concurrent use:
// agents decide strictly in sequence.
type TeamCoordinator struct {
	claimedTargets map[PlayerID]PlayerID
	claimedSpaces  map[Zone]PlayerID
	coverCounts    map[Zone]int
	ballCarrierID  *PlayerID
}

// NewTeamCoordinator returns an empty ledger.
func NewTeamCoordinator() *TeamCoordinator {
	return &TeamCoordinator{
		claimedTargets: make(map[PlayerID]PlayerID),
		claimedSpaces:  make(map[Zone]PlayerID),
		coverCounts:    make(map[Zone]int),
	}
}

// Reset clears all claims at the start of a tick.
func (c *TeamCoordinator) Reset() {
	c.claimedTargets = make(map[PlayerID]PlayerID)
	c.claimedSpaces = make(map[Zone]PlayerID)
	c.coverCounts = make(map[Zone]int)
	c.ballCarrierID = nil
}

// SetBallCarrier records the opposing carrier so Press claims resolve to
// a concrete target.
func (c *TeamCoordinator) SetBallCarrier(id PlayerID) {
	c.ballCarrierID = &id
}

// ApplyConflictPenalty multiplies the candidate's weighted total by the
// conflict penalty for already-claimed targets and spaces.
func (c *TeamCoordinator) ApplyConflictPenalty(sa *ScoredAction) {
	sa.WeightedTotal *= c.conflictPenalty(sa.Action)
}

func (c *TeamCoordinator) conflictPenalty(a Action) float64 {
	switch a.Kind {
	case KindPress, KindMark:
		if target, ok := c.targetOf(a); ok {
			if _, claimed := c.claimedTargets[target]; claimed {
				return 0.3
			}
		}

	case KindRunIntoSpace, KindRunSupport:
		zone := ZoneAt(a.Point.X, a.Point.Y)
		if _, claimed := c.claimedSpaces[zone]; claimed {
			return 0.3
		}

	case KindCover, KindCoverEmergency:
		if c.coverCounts[a.Zone] >= 2 {
			return 0.7
		}
	}

	return 1.0
}

// Claim records the selected action in the ledger.
func (c *TeamCoordinator) Claim(a Action, playerID PlayerID) {
	switch a.Kind {
	case KindPress, KindMark:
		if target, ok := c.targetOf(a); ok {
			c.claimedTargets[target] = playerID
		}

	case KindRunIntoSpace, KindRunSupport:
		c.claimedSpaces[ZoneAt(a.Point.X, a.Point.Y)] = playerID

	case KindCover, KindCoverEmergency:
		c.coverCounts[a.Zone]++
	}
}

// IsTargetClaimed reports whether someone already presses or marks the
// target.
func (c *TeamCoordinator) IsTargetClaimed(target PlayerID) bool {
	_, ok := c.claimedTargets[target]
	return ok
}

// IsSpaceClaimed reports whether someone already runs into the zone.
func (c *TeamCoordinator) IsSpaceClaimed(zone Zone) bool {
	_, ok := c.claimedSpaces[zone]
	return ok
}

func (c *TeamCoordinator) targetOf(a Action) (PlayerID, bool) {
	switch a.Kind {
	case KindMark:
		return a.Target, true
	case KindPress:
		// Press targets the carrier; SetBallCarrier must have run first.
		if c.ballCarrierID != nil {
			return *c.ballCarrierID, true
		}
	}
	return 0, false
}

// Summary reports the current claim counts.
func (c *TeamCoordinator) Summary() CoordinatorSummary {
	total := 0
	for _, n := range c.coverCounts {
		total += n
	}
	return CoordinatorSummary{
		ClaimedTargets: len(c.claimedTargets),
		ClaimedSpaces:  len(c.claimedSpaces),
		TotalCovers:    total,
	}
}

// CoordinatorSummary is a snapshot of ledger occupancy.
type CoordinatorSummary struct {
	ClaimedTargets int
	ClaimedSpaces  int
	TotalCovers    int
}
