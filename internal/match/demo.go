package match

import (
	"math"
	"math/rand"

	"github.com/openfootball/matchsim/internal/decision"
	"github.com/openfootball/matchsim/internal/pitch"
	"github.com/openfootball/matchsim/pkg/core"
)

// demo formation slots, mirrored for the away side. Index is the
// within-team agent slot.
var demoPositions = [11]struct {
	Code string
	X, Y float64
}{
	{"GK", 5, 34},
	{"FB", 20, 8},
	{"CB", 18, 26},
	{"CB", 18, 42},
	{"FB", 20, 60},
	{"W", 48, 10},
	{"CM", 42, 26},
	{"CM", 42, 42},
	{"W", 48, 58},
	{"ST", 68, 28},
	{"ST", 68, 40},
}

type demoAgent struct {
	x, y    float64
	homeX   float64
	homeY   float64
	stamina float64
	// 0-100 attribute band the eval snapshot is filled from.
	skill float64
}

// DemoWorld is a seeded stand-in world model: player movement follows
// the decisions the pipeline makes, the ball follows passes and
// dribbles, and shots convert by an xG roll. The same seed always
// replays the same match.
type DemoWorld struct {
	rng    *rand.Rand
	agents [22]demoAgent

	ballX, ballY float64
	possession   core.Side
	carrier      uint8

	goal *core.GoalEvent
}

// NewDemoWorld seeds a world with the home side kicking off.
func NewDemoWorld(seed uint64) *DemoWorld {
	w := &DemoWorld{
		rng:        rand.New(rand.NewSource(int64(seed))),
		possession: core.SideHome,
		carrier:    6, // central midfielder takes the kickoff
		ballX:      pitch.CenterX,
		ballY:      pitch.CenterY,
	}
	for i := range w.agents {
		slot := demoPositions[i%11]
		x, y := slot.X, slot.Y
		if i >= 11 {
			x = pitch.LengthM - x
		}
		w.agents[i] = demoAgent{
			x: x, y: y,
			homeX: x, homeY: y,
			stamina: 1.0,
			skill:   55 + w.rng.Float64()*30,
		}
	}
	return w
}

func (w *DemoWorld) attacksRight(agentID uint8) bool { return agentID < 11 }

func (w *DemoWorld) sideOf(agentID uint8) core.Side {
	if agentID < 11 {
		return core.SideHome
	}
	return core.SideAway
}

func dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// BeginTick drifts every player toward a shifted anchor and drains
// stamina. The shift follows the ball so the block slides with play.
func (w *DemoWorld) BeginTick(tick uint64) {
	w.goal = nil
	shift := (w.ballX - pitch.CenterX) * 0.25
	for i := range w.agents {
		a := &w.agents[i]
		// Both blocks slide with the ball.
		targetX := a.homeX + shift
		a.x += (targetX-a.x)*0.05 + (w.rng.Float64()-0.5)*0.4
		a.y += (a.homeY-a.y)*0.05 + (w.rng.Float64()-0.5)*0.4
		a.x = math.Max(0.5, math.Min(pitch.LengthM-0.5, a.x))
		a.y = math.Max(0.5, math.Min(pitch.WidthM-0.5, a.y))
		a.stamina = math.Max(0.4, a.stamina-0.00002)
	}
	// The carrier holds the ball between decisions.
	c := w.agents[w.carrier]
	w.ballX, w.ballY = c.x, c.y
}

func (w *DemoWorld) Possession(uint64) (core.Side, uint8) {
	return w.possession, w.carrier
}

func (w *DemoWorld) TeamContext(_ uint64, side core.Side) TeamTickContext {
	carrierSide := w.sideOf(w.carrier)
	pressure := w.localPressure(w.carrier)
	if side != carrierSide {
		pressure = 0.2
	}
	c := w.agents[w.carrier]
	return TeamTickContext{
		Pressure:       pressure,
		ForwardOptions: len(w.forwardTeammates(w.carrier)),
		DistToGoalM:    pitch.DistToGoal(c.x, c.y, side == core.SideHome),
	}
}

// localPressure counts opponents within 5m of the agent, scaled to [0,1].
func (w *DemoWorld) localPressure(agentID uint8) float64 {
	a := w.agents[agentID]
	n := 0.0
	for i := range w.agents {
		if w.sideOf(uint8(i)) == w.sideOf(agentID) {
			continue
		}
		if dist(a.x, a.y, w.agents[i].x, w.agents[i].y) < 5 {
			n++
		}
	}
	return math.Min(1, n/3)
}

// forwardTeammates lists teammates ahead of the agent in attack direction.
func (w *DemoWorld) forwardTeammates(agentID uint8) []decision.PlayerID {
	a := w.agents[agentID]
	right := w.attacksRight(agentID)
	base := uint8(0)
	if agentID >= 11 {
		base = 11
	}
	var out []decision.PlayerID
	for i := base; i < base+11; i++ {
		if i == agentID {
			continue
		}
		t := w.agents[i]
		if right && t.x > a.x || !right && t.x < a.x {
			out = append(out, decision.PlayerID(i))
		}
	}
	return out
}

// nearTeammates lists teammates within radius, nearest first by agent id
// order (deterministic, no sorting by float).
func (w *DemoWorld) nearTeammates(agentID uint8, radius float64) []decision.PlayerID {
	a := w.agents[agentID]
	base := uint8(0)
	if agentID >= 11 {
		base = 11
	}
	var out []decision.PlayerID
	for i := base; i < base+11; i++ {
		if i == agentID {
			continue
		}
		if dist(a.x, a.y, w.agents[i].x, w.agents[i].y) < radius {
			out = append(out, decision.PlayerID(i))
		}
	}
	return out
}

// offsideLine returns the second-last defender's x for the attacking side.
func (w *DemoWorld) offsideLine(attacking core.Side) float64 {
	base := uint8(11)
	if attacking == core.SideAway {
		base = 0
	}
	xs := make([]float64, 0, 11)
	for i := base; i < base+11; i++ {
		xs = append(xs, w.agents[i].x)
	}
	// Home attacks right, so the relevant defenders sit at high x.
	if attacking == core.SideHome {
		first, second := 0.0, 0.0
		for _, x := range xs {
			if x > first {
				first, second = x, first
			} else if x > second {
				second = x
			}
		}
		return second
	}
	first, second := pitch.LengthM, pitch.LengthM
	for _, x := range xs {
		if x < first {
			first, second = x, first
		} else if x < second {
			second = x
		}
	}
	return second
}

func (w *DemoWorld) PlayerInput(tick uint64, agentID uint8) decision.PlayerInput {
	a := w.agents[agentID]
	right := w.attacksRight(agentID)
	teamHasBall := w.sideOf(agentID) == w.possession
	hasBall := agentID == w.carrier
	distBall := dist(a.x, a.y, w.ballX, w.ballY)
	carrierAgent := w.agents[w.carrier]
	distCarrier := dist(a.x, a.y, carrierAgent.x, carrierAgent.y)
	pressure := w.localPressure(agentID)

	state := decision.NewStateContext()
	state.TeamHasBall = teamHasBall
	state.IHaveBall = hasBall
	state.CurrentTick = tick
	state.DistToBall = distBall
	state.DistToBallCarrier = distCarrier
	state.PassLaneClear = pressure < 0.5
	state.BodyFacingBall = true
	state.ClosestToCarrier = w.closestDefender(agentID)

	actions := decision.NewActionSetContext()
	actions.PlayerX = a.x
	actions.PlayerY = a.y
	actions.AttacksRight = right
	actions.InShootingZone = pitch.InShootingZone(a.x, a.y, right)
	actions.HasClearShot = pressure < 0.4
	actions.InCrossingZone = pitch.InCrossingZone(a.x, a.y, right)
	actions.InOwnThird = pitch.InOwnThird(a.x, right)
	actions.UnderPressure = pressure > 0.5
	actions.DistToBallCarrier = distCarrier
	if hasBall {
		actions.PassTargets = w.nearTeammates(agentID, 30)
		actions.ThroughBallTargets = w.forwardTeammates(agentID)
	}

	distGoal := pitch.DistToGoal(a.x, a.y, right)
	angle := pitch.ShotAngle(a.x, a.y, right)
	eval := decision.EvalContext{
		PlayerX:           a.x,
		PlayerY:           a.y,
		DistToGoal:        distGoal,
		DistToBall:        distBall,
		DistToBallCarrier: distCarrier,
		StaminaPct:        a.stamina,

		Finishing:     a.skill,
		LongShots:     a.skill - 5,
		Composure:     a.skill,
		Technique:     a.skill,
		Passing:       a.skill,
		Vision:        a.skill - 5,
		Crossing:      a.skill - 10,
		Dribbling:     a.skill,
		Pace:          a.skill,
		Acceleration:  a.skill,
		Strength:      a.skill - 5,
		Heading:       a.skill - 10,
		Tackling:      a.skill,
		Marking:       a.skill - 5,
		Positioning:   a.skill,
		Anticipation:  a.skill,
		Decisions:     a.skill,
		Concentration: a.skill,
		WorkRate:      a.skill,
		Teamwork:      a.skill,
		OffTheBall:    a.skill,

		XG:             demoXG(distGoal, angle),
		ShotAngle:      angle,
		GKDist:         distGoal,
		ShotLaneClear:  pressure < 0.4,
		InShootingZone: actions.InShootingZone,
		LocalPressure:  pressure,

		ReceiverFreedom: 1 - pressure,
		ReceiverDist:    12,
		PassLaneClear:   pressure < 0.5,
	}

	gate := decision.NewGateContext()
	gate.PlayerX = a.x
	gate.PlayerY = a.y
	gate.IsHome = agentID < 11
	gate.AttacksRight = right
	gate.OffsideLineX = w.offsideLine(w.sideOf(agentID))
	gate.GoalkeeperID = decision.PlayerID(0)
	if agentID >= 11 {
		gate.GoalkeeperID = decision.PlayerID(11)
	}

	return decision.PlayerInput{
		State:   &state,
		Actions: &actions,
		Eval:    &eval,
		Gate:    &gate,
		Weights: decision.WeightsInput{
			Position:     demoPositions[agentID%11].Code,
			Mentality:    "Balanced",
			PassingStyle: "Mixed",
			Tempo:        "Normal",
		},
	}
}

// closestDefender reports whether the agent is the nearest opponent to
// the carrier.
func (w *DemoWorld) closestDefender(agentID uint8) bool {
	if w.sideOf(agentID) == w.possession {
		return false
	}
	c := w.agents[w.carrier]
	best := uint8(255)
	bestDist := math.MaxFloat64
	base := uint8(0)
	if w.possession == core.SideHome {
		base = 11
	}
	for i := base; i < base+11; i++ {
		d := dist(c.x, c.y, w.agents[i].x, w.agents[i].y)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best == agentID
}

// demoXG is a coarse distance/angle model, enough to exercise the
// shooting evaluators with plausible numbers.
func demoXG(distGoal, angle float64) float64 {
	if distGoal <= 0 {
		return 0.9
	}
	xg := (1.2 / (1 + distGoal/8)) * (0.4 + 0.6*angle)
	return math.Max(0.01, math.Min(0.9, xg))
}

// Apply moves the world by the selected action. Passes can be
// intercepted under pressure, dribbles advance the carrier, shots
// convert by an xG roll.
func (w *DemoWorld) Apply(tick uint64, agentID uint8, res decision.PipelineResult) {
	if res.Selected == nil || agentID != w.carrier {
		return
	}
	a := &w.agents[agentID]
	right := w.attacksRight(agentID)

	switch res.Selected.Action.Kind {
	case decision.KindPass, decision.KindThroughBall, decision.KindFirstPassForward:
		if w.rng.Float64() < 0.12*(1+w.localPressure(agentID)) {
			w.turnover(tick)
			return
		}
		w.carrier = uint8(res.Selected.Action.Target)

	case decision.KindDribble, decision.KindCarry:
		step := 1.2
		if !right {
			step = -step
		}
		a.x = math.Max(0.5, math.Min(pitch.LengthM-0.5, a.x+step))
		if w.rng.Float64() < 0.04*(1+w.localPressure(agentID)) {
			w.turnover(tick)
		}

	case decision.KindShoot:
		distGoal := pitch.DistToGoal(a.x, a.y, right)
		xg := demoXG(distGoal, pitch.ShotAngle(a.x, a.y, right))
		if w.rng.Float64() < xg {
			w.goal = &core.GoalEvent{
				Tick:    tick,
				Side:    w.sideOf(agentID),
				AgentID: agentID,
				XG:      xg,
			}
			w.kickoffAfterGoal()
			return
		}
		// Miss: the defending keeper restarts.
		w.turnoverToKeeper(tick)

	case decision.KindCross:
		if w.rng.Float64() < 0.4 {
			w.turnover(tick)
			return
		}
		if ts := w.forwardTeammates(agentID); len(ts) > 0 {
			w.carrier = uint8(ts[w.rng.Intn(len(ts))])
		}

	case decision.KindClear:
		w.turnover(tick)
	}
}

func (w *DemoWorld) turnover(uint64) {
	w.possession = w.possession.Opponent()
	candidates := w.nearTeammatesOf(w.possession, w.ballX, w.ballY)
	w.carrier = candidates[w.rng.Intn(len(candidates))]
}

func (w *DemoWorld) turnoverToKeeper(uint64) {
	w.possession = w.possession.Opponent()
	if w.possession == core.SideHome {
		w.carrier = 0
	} else {
		w.carrier = 11
	}
}

func (w *DemoWorld) kickoffAfterGoal() {
	conceding := w.possession.Opponent()
	w.possession = conceding
	if conceding == core.SideHome {
		w.carrier = 6
	} else {
		w.carrier = 17
	}
	w.ballX, w.ballY = pitch.CenterX, pitch.CenterY
}

// nearTeammatesOf returns the side's agents ordered by closeness bands to
// a point; always non-empty.
func (w *DemoWorld) nearTeammatesOf(side core.Side, x, y float64) []uint8 {
	base := uint8(0)
	if side == core.SideAway {
		base = 11
	}
	var near []uint8
	for i := base; i < base+11; i++ {
		if dist(x, y, w.agents[i].x, w.agents[i].y) < 25 {
			near = append(near, i)
		}
	}
	if len(near) == 0 {
		for i := base; i < base+11; i++ {
			near = append(near, i)
		}
	}
	return near
}

func (w *DemoWorld) PlayerState(tick uint64, agentID uint8) core.PlayerState {
	a := w.agents[agentID]
	return core.PlayerState{
		AgentID: agentID,
		Tick:    tick,
		X:       a.x,
		Y:       a.y,
		Stamina: a.stamina,
		HasBall: agentID == w.carrier,
	}
}

func (w *DemoWorld) Goal(uint64) *core.GoalEvent {
	return w.goal
}

// DemoTeamSheets returns the lineups matching the demo formation, for
// runs without team sheet files.
func DemoTeamSheets() (home, away core.TeamSheet) {
	build := func(side core.Side, name string) core.TeamSheet {
		base := uint8(0)
		if side == core.SideAway {
			base = 11
		}
		sheet := core.TeamSheet{
			Side:         side,
			Name:         name,
			Formation:    "4-4-2",
			Mentality:    "Balanced",
			PassingStyle: "Mixed",
			Tempo:        "Normal",
		}
		for i := uint8(0); i < 11; i++ {
			sheet.Players = append(sheet.Players, core.Player{
				AgentID:     base + i,
				Side:        side,
				ShirtNumber: i + 1,
				Name:        demoPlayerNames[base+i],
				Position:    demoPositions[i].Code,
			})
		}
		return sheet
	}
	return build(core.SideHome, "Demo Reds"), build(core.SideAway, "Demo Blues")
}

var demoPlayerNames = [22]string{
	"A. Carter", "B. Osei", "C. Novak", "D. Iversen", "E. Fontaine",
	"F. Dvorak", "G. Mensah", "H. Laine", "I. Costa", "J. Berg", "K. Aoki",
	"L. Ward", "M. Petrov", "N. Silva", "O. Keita", "P. Janssen",
	"Q. Morales", "R. Tanaka", "S. Vidal", "T. Eriksen", "U. Diallo", "V. Horvat",
}
