// Package pitch models the playing surface: dimensions, goal geometry and
// the named areas the decision layer asks about.
package pitch

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
)

// Pitch dimensions in metres. The origin sits at the home team's left
// corner flag; the home team attacks toward x = LengthM.
const (
	LengthM = 105.0
	WidthM  = 68.0

	CenterX = LengthM / 2
	CenterY = WidthM / 2

	// Penalty area, measured from the goal line.
	PenaltyAreaDepthM = 16.5
	PenaltyAreaWidthM = 40.32

	// Shooting zone radius used by the decision layer.
	ShootingRangeM = 25.0

	// Wide channel bounds for crossing positions.
	wideChannelM = 13.84
)

var (
	homePenaltyArea = mustEnvelope(
		geom.XY{X: 0, Y: CenterY - PenaltyAreaWidthM/2},
		geom.XY{X: PenaltyAreaDepthM, Y: CenterY + PenaltyAreaWidthM/2},
	)
	awayPenaltyArea = mustEnvelope(
		geom.XY{X: LengthM - PenaltyAreaDepthM, Y: CenterY - PenaltyAreaWidthM/2},
		geom.XY{X: LengthM, Y: CenterY + PenaltyAreaWidthM/2},
	)
)

// mustEnvelope builds an envelope from two corners. Only non-finite
// coordinates can fail, and ours are constants.
func mustEnvelope(min, max geom.XY) geom.Envelope {
	env, err := geom.NewEnvelope([]geom.XY{min, max})
	if err != nil {
		panic(err)
	}
	return env
}

// Contains reports whether the point lies on the pitch.
func Contains(x, y float64) bool {
	return x >= 0 && x <= LengthM && y >= 0 && y <= WidthM
}

// GoalCenter returns the centre of the goal the given direction attacks.
func GoalCenter(attacksRight bool) (x, y float64) {
	if attacksRight {
		return LengthM, CenterY
	}
	return 0, CenterY
}

// DistToGoal returns the distance from a point to the attacked goal.
func DistToGoal(x, y float64, attacksRight bool) float64 {
	gx, gy := GoalCenter(attacksRight)
	dx, dy := x-gx, y-gy
	return math.Sqrt(dx*dx + dy*dy)
}

// InShootingZone reports whether the point lies within shooting range of
// the attacked goal.
func InShootingZone(x, y float64, attacksRight bool) bool {
	return DistToGoal(x, y, attacksRight) < ShootingRangeM
}

// InPenaltyArea reports whether the point lies inside the penalty area in
// front of the attacked goal.
func InPenaltyArea(x, y float64, attacksRight bool) bool {
	if attacksRight {
		return awayPenaltyArea.Contains(geom.XY{X: x, Y: y})
	}
	return homePenaltyArea.Contains(geom.XY{X: x, Y: y})
}

// InOwnPenaltyArea reports whether the point lies inside the defender's
// own box.
func InOwnPenaltyArea(x, y float64, attacksRight bool) bool {
	return InPenaltyArea(x, y, !attacksRight)
}

// InOwnThird reports whether the point lies in the defending third for
// the given attack direction.
func InOwnThird(x float64, attacksRight bool) bool {
	if attacksRight {
		return x < LengthM/3
	}
	return x > 2*LengthM/3
}

// InFinalThird reports whether the point lies in the attacking third.
func InFinalThird(x float64, attacksRight bool) bool {
	return InOwnThird(x, !attacksRight)
}

// InCrossingZone reports whether the point is a plausible crossing
// position: wide channel, attacking third.
func InCrossingZone(x, y float64, attacksRight bool) bool {
	wide := y < wideChannelM || y > WidthM-wideChannelM
	return wide && InFinalThird(x, attacksRight)
}

// ShotAngle returns the opening angle toward the attacked goal mouth,
// normalized to [0, 1] where 1 is straight in front of goal.
func ShotAngle(x, y float64, attacksRight bool) float64 {
	gx, gy := GoalCenter(attacksRight)
	dx := math.Abs(x - gx)
	dy := math.Abs(y - gy)
	if dx == 0 && dy == 0 {
		return 1
	}
	return dx / math.Sqrt(dx*dx+dy*dy)
}

// PointWKB encodes a pitch position as a WKB point for storage backends
// that persist geometry columns.
func PointWKB(x, y float64) []byte {
	// OmitInvalid turns a non-finite coordinate into an empty point
	// instead of an error; storage should never reject a tick.
	p, _ := geom.NewPoint(
		geom.Coordinates{XY: geom.XY{X: x, Y: y}, Type: geom.DimXY},
		geom.OmitInvalid,
	)
	return p.AsBinary()
}
