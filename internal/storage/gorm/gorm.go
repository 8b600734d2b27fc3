// Package gormstorage implements the storage.Backend interface on GORM
// with internal queues and a background DB writer goroutine.
package gormstorage

import (
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/openfootball/matchsim/internal/database"
	"github.com/openfootball/matchsim/internal/logging"
	"github.com/openfootball/matchsim/internal/model"
	"github.com/openfootball/matchsim/internal/model/convert"
	"github.com/openfootball/matchsim/internal/queue"
	"github.com/openfootball/matchsim/pkg/core"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	Players           *queue.Queue[model.Player]
	PlayerStates      *queue.Queue[model.PlayerState]
	Decisions         *queue.Queue[model.DecisionEvent]
	PhaseChanges      *queue.Queue[model.PhaseChangeEvent]
	PossessionChanges *queue.Queue[model.PossessionChangeEvent]
	Goals             *queue.Queue[model.GoalEvent]
	Digests           *queue.Queue[model.TickDigest]
	Performances      *queue.Queue[model.SimPerformance]
}

func newQueues() *queues {
	return &queues{
		Players:           queue.New[model.Player](),
		PlayerStates:      queue.New[model.PlayerState](),
		Decisions:         queue.New[model.DecisionEvent](),
		PhaseChanges:      queue.New[model.PhaseChangeEvent](),
		PossessionChanges: queue.New[model.PossessionChangeEvent](),
		Goals:             queue.New[model.GoalEvent](),
		Digests:           queue.New[model.TickDigest](),
		Performances:      queue.New[model.SimPerformance](),
	}
}

// Backend implements storage.Backend using GORM/PostgreSQL with queue-based batch writes.
type Backend struct {
	deps      Dependencies
	queues    *queues
	matchID   atomic.Uint64
	lastWrite atomic.Int64 // nanoseconds of the last drain cycle
	stopChan  chan struct{}
	dbReady   bool
}

// GetLastDBWriteDuration returns the duration of the last queue drain cycle.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	return time.Duration(b.lastWrite.Load())
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
	}
}

// Init creates internal queues, runs schema migration, and starts the DB writer goroutine.
// If no DB was injected via Dependencies, it creates its own postgres connection.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})

	if b.deps.DB == nil {
		db, err := database.GetPostgresDBStandalone()
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.deps.DB = db
	}

	if err := b.setupDB(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.dbReady = true

	b.startDBWriters()
	return nil
}

// setupDB migrates tables and creates default instance settings if they don't exist.
func (b *Backend) setupDB() error {
	db := b.deps.DB
	log := b.deps.LogManager

	if !db.Migrator().HasTable(&model.SimInfo{}) {
		if err := db.AutoMigrate(&model.SimInfo{}); err != nil {
			log.WriteLog("setupDB", fmt.Sprintf("Failed to create sim_info table: %s", err), "ERROR")
			return fmt.Errorf("failed to auto-migrate SimInfo: %w", err)
		}
		if err := db.Create(&model.SimInfo{
			InstanceName:        "matchsim",
			InstanceDescription: "matchsim engine instance",
			InstanceWebsite:     "https://github.com/openfootball/matchsim",
		}).Error; err != nil {
			return fmt.Errorf("failed to create sim_info entry: %w", err)
		}
	}

	if db.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS postgis;`).Error; err != nil {
			return fmt.Errorf("failed to create PostGIS extension: %w", err)
		}
		log.WriteLog("setupDB", "PostGIS extension created", "INFO")
	}

	log.WriteLog("setupDB", "Migrating schema", "INFO")
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.WriteLog("setupDB", "Database setup complete", "INFO")
	return nil
}

// Close stops the DB writer goroutine.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
	}
	return nil
}

// StartMatch performs venue get-or-insert and match create in the DB.
func (b *Backend) StartMatch(coreMatch *core.Match, coreVenue *core.Venue) error {
	if b.deps.DB == nil {
		return nil
	}

	db := b.deps.DB

	gormMatch := convert.CoreToMatch(*coreMatch)
	gormVenue := convert.CoreToVenue(*coreVenue)

	// Venue get-or-insert
	if _, err := gormVenue.GetOrInsert(db); err != nil {
		return fmt.Errorf("failed to get or insert venue: %w", err)
	}

	// Match create
	gormMatch.Venue = gormVenue
	gormMatch.VenueID = gormVenue.ID
	if err := db.Create(&gormMatch).Error; err != nil {
		return fmt.Errorf("failed to insert new match: %w", err)
	}

	// Assign DB-generated IDs back to core types
	coreMatch.ID = gormMatch.ID
	coreVenue.ID = gormVenue.ID

	// Store match ID for the DB writer goroutine
	b.matchID.Store(uint64(gormMatch.ID))

	return nil
}

// SetMatchID sets the current match ID for the DB writer (used by CLI tools).
func (b *Backend) SetMatchID(id uint) {
	b.matchID.Store(uint64(id))
}

// EndMatch writes the final result columns onto the match row.
func (b *Backend) EndMatch(result *core.MatchResult) error {
	if b.deps.DB == nil || result == nil {
		return nil
	}

	matchID := uint(b.matchID.Load())
	err := b.deps.DB.Model(&model.Match{}).Where("id = ?", matchID).Updates(map[string]any{
		"home_goals":   result.HomeGoals,
		"away_goals":   result.AwayGoals,
		"final_tick":   result.FinalTick,
		"final_digest": result.FinalDigest,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to write match result: %w", err)
	}
	return nil
}

// AddPlayer converts a core player to GORM and pushes to the write queue.
func (b *Backend) AddPlayer(p *core.Player) error {
	gormObj := convert.CoreToPlayer(*p)
	b.queues.Players.Push(gormObj)
	return nil
}

// RecordPlayerState converts and queues a player state.
func (b *Backend) RecordPlayerState(s *core.PlayerState) error {
	gormObj := convert.CoreToPlayerState(*s)
	b.queues.PlayerStates.Push(gormObj)
	return nil
}

// RecordDecision converts and queues a decision event.
func (b *Backend) RecordDecision(e *core.DecisionEvent) error {
	gormObj := convert.CoreToDecisionEvent(*e)
	b.queues.Decisions.Push(gormObj)
	return nil
}

// RecordPhaseChange converts and queues a phase change event.
func (b *Backend) RecordPhaseChange(e *core.PhaseChangeEvent) error {
	gormObj := convert.CoreToPhaseChangeEvent(*e)
	b.queues.PhaseChanges.Push(gormObj)
	return nil
}

// RecordPossessionChange converts and queues a possession change event.
func (b *Backend) RecordPossessionChange(e *core.PossessionChangeEvent) error {
	gormObj := convert.CoreToPossessionChangeEvent(*e)
	b.queues.PossessionChanges.Push(gormObj)
	return nil
}

// RecordGoal converts and queues a goal event.
func (b *Backend) RecordGoal(e *core.GoalEvent) error {
	gormObj := convert.CoreToGoalEvent(*e)
	b.queues.Goals.Push(gormObj)
	return nil
}

// RecordTickDigest converts and queues a determinism checkpoint.
func (b *Backend) RecordTickDigest(d *core.TickDigest) error {
	gormObj := convert.CoreToTickDigest(*d)
	b.queues.Digests.Push(gormObj)
	return nil
}

// RecordTelemetry queues a performance row built from tick telemetry
// and the current write queue depths.
func (b *Backend) RecordTelemetry(tm *core.TickTelemetry) error {
	b.queues.Performances.Push(model.SimPerformance{
		Time:                time.Now(),
		TickDecisionMicros:  tm.DecisionMicros,
		LastWriteDurationMs: float32(b.GetLastDBWriteDuration().Milliseconds()),
		WriteQueueLengths:   b.QueueLengths(),
	})
	return nil
}

// QueueLengths reports the current depth of every write queue.
func (b *Backend) QueueLengths() model.WriteQueueLengths {
	return model.WriteQueueLengths{
		Players:           uint16(b.queues.Players.Len()),
		PlayerStates:      uint16(b.queues.PlayerStates.Len()),
		Decisions:         uint16(b.queues.Decisions.Len()),
		PhaseChanges:      uint16(b.queues.PhaseChanges.Len()),
		PossessionChanges: uint16(b.queues.PossessionChanges.Len()),
		Goals:             uint16(b.queues.Goals.Len()),
		Digests:           uint16(b.queues.Digests.Len()),
	}
}

// writeQueue writes all items from a queue to the database in a transaction.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log func(string, string, string), prepare func([]T)) {
	if q.Empty() {
		return
	}

	tx := db.Begin()
	items := q.GetAndEmpty()
	if prepare != nil {
		prepare(items)
	}
	if err := tx.Create(&items).Error; err != nil {
		log(":DB:WRITER:", fmt.Sprintf("Error creating %s: %v", name, err), "ERROR")
		tx.Rollback()
		q.Push(items...)
		return
	}

	tx.Commit()
}

// startDBWriters starts the background goroutine that periodically drains queues into the DB.
func (b *Backend) startDBWriters() {
	log := b.deps.LogManager.WriteLog

	go func() {
		for {
			select {
			case <-b.stopChan:
				return
			default:
			}

			if !b.dbReady {
				time.Sleep(1 * time.Second)
				continue
			}

			// Read matchID once per write cycle
			matchID := uint(b.matchID.Load())

			// stampMatchID helpers
			stampPlayers := func(items []model.Player) {
				for i := range items {
					items[i].MatchID = matchID
				}
			}
			stampPlayerStates := func(items []model.PlayerState) {
				for i := range items {
					items[i].MatchID = matchID
				}
			}
			stampDecisions := func(items []model.DecisionEvent) {
				for i := range items {
					items[i].MatchID = matchID
				}
			}
			stampPhaseChanges := func(items []model.PhaseChangeEvent) {
				for i := range items {
					items[i].MatchID = matchID
				}
			}
			stampPossessionChanges := func(items []model.PossessionChangeEvent) {
				for i := range items {
					items[i].MatchID = matchID
				}
			}
			stampGoals := func(items []model.GoalEvent) {
				for i := range items {
					items[i].MatchID = matchID
				}
			}
			stampDigests := func(items []model.TickDigest) {
				for i := range items {
					items[i].MatchID = matchID
				}
			}
			stampPerformances := func(items []model.SimPerformance) {
				for i := range items {
					items[i].MatchID = matchID
				}
			}

			writeStart := time.Now()

			// Registrations
			writeQueue(b.deps.DB, b.queues.Players, "players", log, stampPlayers)

			// State updates
			writeQueue(b.deps.DB, b.queues.PlayerStates, "player states", log, stampPlayerStates)

			// Events
			writeQueue(b.deps.DB, b.queues.Decisions, "decision events", log, stampDecisions)
			writeQueue(b.deps.DB, b.queues.PhaseChanges, "phase changes", log, stampPhaseChanges)
			writeQueue(b.deps.DB, b.queues.PossessionChanges, "possession changes", log, stampPossessionChanges)
			writeQueue(b.deps.DB, b.queues.Goals, "goals", log, stampGoals)
			writeQueue(b.deps.DB, b.queues.Digests, "tick digests", log, stampDigests)
			writeQueue(b.deps.DB, b.queues.Performances, "performances", log, stampPerformances)

			b.lastWrite.Store(int64(time.Since(writeStart)))

			time.Sleep(2 * time.Second)
		}
	}()
}
