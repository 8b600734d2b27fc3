// Package handlers routes match events from the dispatcher into the active
// storage backend. One handler per event kind; the payloads are the plain
// core records the runner emits.
package handlers

import (
	"context"
	"fmt"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/openfootball/matchsim/internal/dispatcher"
	"github.com/openfootball/matchsim/internal/influx"
	"github.com/openfootball/matchsim/internal/logging"
	"github.com/openfootball/matchsim/internal/matchctx"
	"github.com/openfootball/matchsim/internal/registry"
	"github.com/openfootball/matchsim/internal/storage"
	"github.com/openfootball/matchsim/pkg/core"
	"github.com/openfootball/matchsim/pkg/streaming"
)

// MetricsWriter is the slice of influx.Manager the handlers use. Metric
// writes are best-effort; failures are logged and never fail the event.
type MetricsWriter interface {
	WritePoint(ctx context.Context, bucket string, point *influxdb2_write.Point) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Registry   *registry.PlayerRegistry
	LogManager *logging.SlogManager
}

// Service provides handler methods for processing match events
type Service struct {
	deps         Dependencies
	ctx          *matchctx.Context
	writeLogFunc func(functionName, data, level string)
	backend      storage.Backend
	metrics      MetricsWriter
}

// NewService creates a new handler service
func NewService(deps Dependencies, ctx *matchctx.Context) *Service {
	s := &Service{
		deps: deps,
		ctx:  ctx,
	}
	// Default writeLog function uses the logging manager
	s.writeLogFunc = func(functionName, data, level string) {
		if deps.LogManager != nil {
			deps.LogManager.WriteLog(functionName, data, level)
		}
	}
	return s
}

// GetMatchContext returns the match context
func (s *Service) GetMatchContext() *matchctx.Context {
	return s.ctx
}

// SetBackend sets the storage backend events are written to
func (s *Service) SetBackend(b storage.Backend) {
	s.backend = b
}

// SetMetrics enables mirroring of selected events into the metrics store.
func (s *Service) SetMetrics(m MetricsWriter) {
	s.metrics = m
}

func (s *Service) writeMetric(bucket string, point *influxdb2_write.Point, source string) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.WritePoint(context.Background(), bucket, point); err != nil {
		s.writeLog(source, fmt.Sprintf(`Metric write failed: %v`, err), "WARN")
	}
}

func (s *Service) writeLog(functionName, data, level string) {
	s.writeLogFunc(functionName, data, level)
}

// payload extracts a typed payload from an event.
func payload[T any](e dispatcher.Event) (T, error) {
	p, ok := e.Payload.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: unexpected payload type %T", e.Kind, e.Payload)
	}
	return p, nil
}

// HandleStartMatch opens a match on the backend and publishes it to the
// match context. Blocking: nothing else may be recorded before it returns.
func (s *Service) HandleStartMatch(e dispatcher.Event) (any, error) {
	p, err := payload[*streaming.StartMatchPayload](e)
	if err != nil {
		return nil, err
	}

	s.deps.Registry.Reset()

	if err := s.backend.StartMatch(p.Match, p.Venue); err != nil {
		s.writeLog("HandleStartMatch", fmt.Sprintf(`Error starting match: %v`, err), "ERROR")
		return nil, err
	}

	s.ctx.SetMatch(p.Match, p.Venue)
	s.writeLog("HandleStartMatch",
		fmt.Sprintf(`Match started: %s vs %s`, p.Match.HomeTeam, p.Match.AwayTeam), "INFO")
	return p.Match.ID, nil
}

// HandleEndMatch closes the match on the backend.
func (s *Service) HandleEndMatch(e dispatcher.Event) (any, error) {
	p, err := payload[*core.MatchResult](e)
	if err != nil {
		return nil, err
	}

	if err := s.backend.EndMatch(p); err != nil {
		s.writeLog("HandleEndMatch", fmt.Sprintf(`Error ending match: %v`, err), "ERROR")
		return nil, err
	}

	s.writeLog("HandleEndMatch",
		fmt.Sprintf(`Match ended %d-%d at tick %d`, p.HomeGoals, p.AwayGoals, p.FinalTick), "INFO")
	return nil, nil
}

// HandleAddPlayer registers a player with both the backend and the registry.
func (s *Service) HandleAddPlayer(e dispatcher.Event) (any, error) {
	p, err := payload[*core.Player](e)
	if err != nil {
		return nil, err
	}

	if err := s.backend.AddPlayer(p); err != nil {
		return nil, err
	}
	s.deps.Registry.Add(*p)
	return p.ID, nil
}

// HandlePlayerState records one player's position sample.
func (s *Service) HandlePlayerState(e dispatcher.Event) (any, error) {
	p, err := payload[*core.PlayerState](e)
	if err != nil {
		return nil, err
	}
	return nil, s.backend.RecordPlayerState(p)
}

// HandleDecision records one pipeline outcome.
func (s *Service) HandleDecision(e dispatcher.Event) (any, error) {
	p, err := payload[*core.DecisionEvent](e)
	if err != nil {
		return nil, err
	}

	if _, ok := s.deps.Registry.Get(p.AgentID); !ok {
		s.writeLog("HandleDecision",
			fmt.Sprintf(`Decision for unregistered agent %d at tick %d`, p.AgentID, p.Tick), "WARN")
	}

	bucket, point := influx.DecisionPoint(s.ctx.GetMatch().ID, p)
	s.writeMetric(bucket, point, "HandleDecision")
	return nil, s.backend.RecordDecision(p)
}

// HandlePhaseChange records a team phase flip.
func (s *Service) HandlePhaseChange(e dispatcher.Event) (any, error) {
	p, err := payload[*core.PhaseChangeEvent](e)
	if err != nil {
		return nil, err
	}

	bucket, point := influx.PhasePoint(s.ctx.GetMatch().ID, p)
	s.writeMetric(bucket, point, "HandlePhaseChange")
	return nil, s.backend.RecordPhaseChange(p)
}

// HandlePossessionChange records a turnover.
func (s *Service) HandlePossessionChange(e dispatcher.Event) (any, error) {
	p, err := payload[*core.PossessionChangeEvent](e)
	if err != nil {
		return nil, err
	}
	return nil, s.backend.RecordPossessionChange(p)
}

// HandleGoal records a goal.
func (s *Service) HandleGoal(e dispatcher.Event) (any, error) {
	p, err := payload[*core.GoalEvent](e)
	if err != nil {
		return nil, err
	}

	s.writeLog("HandleGoal",
		fmt.Sprintf(`Goal: side=%s agent=%d tick=%d`, p.Side, p.AgentID, p.Tick), "INFO")

	bucket, point := influx.GoalPoint(s.ctx.GetMatch().ID, p)
	s.writeMetric(bucket, point, "HandleGoal")
	return nil, s.backend.RecordGoal(p)
}

// HandleTickDigest records the determinism checkpoint for a tick.
func (s *Service) HandleTickDigest(e dispatcher.Event) (any, error) {
	p, err := payload[*core.TickDigest](e)
	if err != nil {
		return nil, err
	}
	s.ctx.SetTick(p.Tick)
	return nil, s.backend.RecordTickDigest(p)
}

// HandleTelemetry records per-tick engine health.
func (s *Service) HandleTelemetry(e dispatcher.Event) (any, error) {
	p, err := payload[*core.TickTelemetry](e)
	if err != nil {
		return nil, err
	}

	bucket, point := influx.TelemetryPoint(s.ctx.GetMatch().ID, p)
	s.writeMetric(bucket, point, "HandleTelemetry")
	return nil, s.backend.RecordTelemetry(p)
}

// RegisterAll wires every handler into the dispatcher. High-volume event
// kinds get large async buffers; match lifecycle events stay synchronous so
// ordering against the records that follow them is guaranteed.
func (s *Service) RegisterAll(d *dispatcher.Dispatcher) {
	d.Register(streaming.TypeStartMatch, s.HandleStartMatch, dispatcher.Logged())
	d.Register(streaming.TypeEndMatch, s.HandleEndMatch, dispatcher.Logged())
	d.Register(streaming.TypeAddPlayer, s.HandleAddPlayer, dispatcher.Logged())

	d.Register(streaming.TypePlayerState, s.HandlePlayerState, dispatcher.Buffered(10_000), dispatcher.Blocking())
	d.Register(streaming.TypeDecision, s.HandleDecision, dispatcher.Buffered(10_000), dispatcher.Blocking())
	d.Register(streaming.TypeTickDigest, s.HandleTickDigest, dispatcher.Buffered(2_000), dispatcher.Blocking())
	d.Register(streaming.TypeTelemetry, s.HandleTelemetry, dispatcher.Buffered(2_000))

	d.Register(streaming.TypePhaseChange, s.HandlePhaseChange, dispatcher.Logged())
	d.Register(streaming.TypePossessionChange, s.HandlePossessionChange)
	d.Register(streaming.TypeGoal, s.HandleGoal, dispatcher.Logged())
}
