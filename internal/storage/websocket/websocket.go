// Package websocket streams match data over a WebSocket to the matchsim
// web server. It implements storage.Backend but not storage.Uploadable.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openfootball/matchsim/internal/config"
	"github.com/openfootball/matchsim/pkg/core"
	"github.com/openfootball/matchsim/pkg/streaming"
)

// Backend streams match data over WebSocket.
type Backend struct {
	conn *connection
	cfg  config.WebsocketConfig
}

// New creates a new WebSocket storage backend.
func New(cfg config.WebsocketConfig) *Backend {
	return &Backend{
		conn: newConnection(slog.Default()),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	return b.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// sendEnvelopeAndWait marshals the payload and waits for a server ack.
func (b *Backend) sendEnvelopeAndWait(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	return b.conn.sendAndWait(data, msgType, ackTimeout)
}

// StartMatch sends match and venue data and waits for server ack.
func (b *Backend) StartMatch(match *core.Match, venue *core.Venue) error {
	data, err := marshalEnvelope(streaming.TypeStartMatch, streaming.StartMatchPayload{Match: match, Venue: venue})
	if err != nil {
		return err
	}

	// Cache for reconnect replay.
	b.conn.mu.Lock()
	b.conn.cachedStartMsg = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, streaming.TypeStartMatch, ackTimeout)
}

// EndMatch sends end_match with the final result and waits for server ack.
func (b *Backend) EndMatch(result *core.MatchResult) error {
	err := b.sendEnvelopeAndWait(streaming.TypeEndMatch, streaming.EndMatchPayload{Result: result})

	// Clear cached state regardless of error.
	b.conn.mu.Lock()
	b.conn.cachedStartMsg = nil
	b.conn.mu.Unlock()

	return err
}

func (b *Backend) AddPlayer(p *core.Player) error {
	return b.sendEnvelope(streaming.TypeAddPlayer, p)
}

func (b *Backend) RecordPlayerState(s *core.PlayerState) error {
	return b.sendEnvelope(streaming.TypePlayerState, s)
}

func (b *Backend) RecordDecision(e *core.DecisionEvent) error {
	return b.sendEnvelope(streaming.TypeDecision, e)
}

func (b *Backend) RecordPhaseChange(e *core.PhaseChangeEvent) error {
	return b.sendEnvelope(streaming.TypePhaseChange, e)
}

func (b *Backend) RecordPossessionChange(e *core.PossessionChangeEvent) error {
	return b.sendEnvelope(streaming.TypePossessionChange, e)
}

func (b *Backend) RecordGoal(e *core.GoalEvent) error {
	return b.sendEnvelope(streaming.TypeGoal, e)
}

func (b *Backend) RecordTickDigest(d *core.TickDigest) error {
	return b.sendEnvelope(streaming.TypeTickDigest, d)
}

func (b *Backend) RecordTelemetry(tm *core.TickTelemetry) error {
	return b.sendEnvelope(streaming.TypeTelemetry, tm)
}
