package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&SimInfo{},
	&Venue{},
	&Match{},
	&Player{},
	&PlayerState{},
	&DecisionEvent{},
	&PhaseChangeEvent{},
	&PossessionChangeEvent{},
	&GoalEvent{},
	&TickDigest{},
	&SimPerformance{},
}

var DatabaseModelsSQLite = []interface{}{
	&SimInfo{},
	&Venue{},
	&Match{},
	&Player{},
	&PlayerState{},
	&DecisionEvent{},
	&PhaseChangeEvent{},
	&PossessionChangeEvent{},
	&GoalEvent{},
	&TickDigest{},
	&SimPerformance{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// SimInfo contains information about the engine instance
type SimInfo struct {
	gorm.Model
	InstanceName        string `json:"instanceName" gorm:"size:127"`
	InstanceDescription string `json:"instanceDescription" gorm:"size:255"`
	InstanceWebsite     string `json:"instanceURL" gorm:"size:255"`
}

func (*SimInfo) TableName() string {
	return "sim_infos"
}

// SimPerformance is the model for engine performance metrics
type SimPerformance struct {
	Time                time.Time         `json:"time" gorm:"type:timestamptz;index:idx_time"`
	MatchID             uint              `json:"matchId" gorm:"index:idx_simperformance_match_id"`
	Match               Match             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MatchID;"`
	WriteQueueLengths   WriteQueueLengths `json:"writeQueueLengths" gorm:"embedded;embeddedPrefix:writequeue_"`
	TickDecisionMicros  int64             `json:"tickDecisionMicros"`
	LastWriteDurationMs float32           `json:"lastWriteDurationMs"`
}

func (*SimPerformance) TableName() string {
	return "sim_performances"
}

// WriteQueueLengths is the model for the write queue lengths
type WriteQueueLengths struct {
	Players           uint16 `json:"players"`
	PlayerStates      uint16 `json:"playerStates"`
	Decisions         uint16 `json:"decisions"`
	PhaseChanges      uint16 `json:"phaseChanges"`
	PossessionChanges uint16 `json:"possessionChanges"`
	Goals             uint16 `json:"goals"`
	Digests           uint16 `json:"digests"`
}

////////////////////////
// RECORDING MODELS
////////////////////////

// Venue is the main model for a ground
type Venue struct {
	gorm.Model
	Name         string     `json:"name" gorm:"size:127"`
	City         string     `json:"city" gorm:"size:127"`
	Capacity     uint32     `json:"capacity"`
	PitchLengthM float32    `json:"pitchLengthM" gorm:"default:105"`
	PitchWidthM  float32    `json:"pitchWidthM" gorm:"default:68"`
	Latitude     float32    `json:"latitude" gorm:"-"`
	Longitude    float32    `json:"longitude" gorm:"-"`
	Location     geom.Point `json:"location"`
	Matches      []Match
}

func (*Venue) TableName() string {
	return "venues"
}

func (v *Venue) GetOrInsert(db *gorm.DB) (
	created bool,
	err error,
) {
	var existingVenue Venue
	err = db.Where("name = ?", v.Name).First(&existingVenue).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// insert
			err = db.Create(v).Error
			return true, err
		}
		return false, err
	}
	// overwrite with db record if found
	*v = existingVenue
	return false, nil
}

// Match is the main model for a simulated fixture
type Match struct {
	gorm.Model
	Competition   string    `json:"competition" gorm:"size:200"`
	MatchDay      uint8     `json:"matchDay"`
	HomeTeam      string    `json:"homeTeam" gorm:"size:200"`
	AwayTeam      string    `json:"awayTeam" gorm:"size:200"`
	KickoffTime   time.Time `json:"kickoffTime" gorm:"type:timestamptz;index:idx_match_kickoff"`
	VenueID       uint
	Venue         Venue  `gorm:"foreignkey:VenueID"`
	Seed          uint64 `json:"seed"`
	TickRate      uint8  `json:"tickRate" gorm:"default:10"`
	HalfTicks     uint32 `json:"halfTicks" gorm:"default:27000"`
	EngineVersion string `json:"engineVersion" gorm:"size:64;default:1.0.0"`
	Tag           string `json:"tag" gorm:"size:127"`

	// Result columns, filled in at full time
	HomeGoals   uint8  `json:"homeGoals"`
	AwayGoals   uint8  `json:"awayGoals"`
	FinalTick   uint64 `json:"finalTick"`
	FinalDigest string `json:"finalDigest" gorm:"size:64"`

	PlayerStates      []PlayerState
	DecisionEvents    []DecisionEvent
	PhaseChanges      []PhaseChangeEvent
	PossessionChanges []PossessionChangeEvent
	Goals             []GoalEvent
	TickDigests       []TickDigest
}

func (*Match) TableName() string {
	return "matches"
}

// Player is one registered participant.
// Uses composite primary key (MatchID, AgentID) - AgentID is the engine-assigned
// sequential ID (home 0-10, away 11-21).
type Player struct {
	MatchID     uint           `json:"matchId" gorm:"primaryKey;autoIncrement:false"`
	AgentID     uint8          `json:"agentId" gorm:"primaryKey;autoIncrement:false"`
	Match       Match          `gorm:"foreignkey:MatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"deletedAt" gorm:"index"`
	JoinTick    uint64         `json:"joinTick"`                            // Tick the player entered the match
	Side        string         `json:"side" gorm:"size:8"`                  // home or away
	ShirtNumber uint8          `json:"shirtNumber"`
	Name        string         `json:"name" gorm:"size:64"`
	Position    string         `json:"position" gorm:"size:8"`              // GK, CB, FB, DM, CM, AM, W, ST
	Traits      datatypes.JSON `json:"traits" gorm:"type:jsonb;default:'[]'"` // Trait names as JSON array
}

func (*Player) TableName() string {
	return "players"
}

// PlayerState is one player's observable state at a tick
type PlayerState struct {
	MatchID uint    `json:"matchId" gorm:"index:idx_playerstate_match_agent"`
	AgentID uint8   `json:"agentId" gorm:"index:idx_playerstate_match_agent"`
	Tick    uint64  `json:"tick"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Stamina float32 `json:"stamina"`
	HasBall bool    `json:"hasBall" gorm:"default:false"`
}

func (*PlayerState) TableName() string {
	return "player_states"
}

// DecisionEvent is one pipeline outcome for one agent at one tick
type DecisionEvent struct {
	MatchID uint   `json:"matchId" gorm:"index:idx_decision_match_tick"`
	Tick    uint64 `json:"tick" gorm:"index:idx_decision_match_tick"`
	AgentID uint8  `json:"agentId"`
	Side    string `json:"side" gorm:"size:8"`

	State string `json:"state" gorm:"size:32"`
	Role  string `json:"role" gorm:"size:32"`

	ActionKind string  `json:"actionKind" gorm:"size:32"`
	TargetID   *uint8  `json:"targetId" gorm:"default:NULL"`
	PointX     float64 `json:"pointX"`
	PointY     float64 `json:"pointY"`
	Intent     string  `json:"intent" gorm:"size:48"`

	Distance      float32 `json:"distance"`
	Safety        float32 `json:"safety"`
	Readiness     float32 `json:"readiness"`
	Progression   float32 `json:"progression"`
	Space         float32 `json:"space"`
	Tactical      float32 `json:"tactical"`
	WeightedTotal float32 `json:"weightedTotal"`

	CandidateCount uint16 `json:"candidateCount"`
	FilteredCount  uint16 `json:"filteredCount"`
	ForcedShot     bool   `json:"forcedShot" gorm:"default:false"`
}

func (*DecisionEvent) TableName() string {
	return "decision_events"
}

// PhaseChangeEvent marks a team phase flip
type PhaseChangeEvent struct {
	MatchID   uint   `json:"matchId" gorm:"index:idx_phasechange_match_id"`
	Tick      uint64 `json:"tick"`
	Side      string `json:"side" gorm:"size:8"`
	FromPhase string `json:"fromPhase" gorm:"size:32"`
	ToPhase   string `json:"toPhase" gorm:"size:32"`
	SubPhase  string `json:"subPhase" gorm:"size:32"`
}

func (*PhaseChangeEvent) TableName() string {
	return "phase_change_events"
}

// PossessionChangeEvent marks a turnover
type PossessionChangeEvent struct {
	MatchID    uint   `json:"matchId" gorm:"index:idx_possession_match_id"`
	Tick       uint64 `json:"tick"`
	WinnerSide string `json:"winnerSide" gorm:"size:8"`
	AgentID    uint8  `json:"agentId"`
}

func (*PossessionChangeEvent) TableName() string {
	return "possession_change_events"
}

// GoalEvent records a goal
type GoalEvent struct {
	MatchID  uint    `json:"matchId" gorm:"index:idx_goal_match_id"`
	Tick     uint64  `json:"tick"`
	Side     string  `json:"side" gorm:"size:8"`
	AgentID  uint8   `json:"agentId"`
	AssistID *uint8  `json:"assistId" gorm:"default:NULL"`
	XG       float32 `json:"xg"`
}

func (*GoalEvent) TableName() string {
	return "goal_events"
}

// TickDigest is the determinism checkpoint for one tick
type TickDigest struct {
	MatchID uint   `json:"matchId" gorm:"index:idx_digest_match_id"`
	Tick    uint64 `json:"tick"`
	Digest  string `json:"digest" gorm:"size:64"`
}

func (*TickDigest) TableName() string {
	return "tick_digests"
}
