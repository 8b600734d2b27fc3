package streaming

import (
	"encoding/json"

	"github.com/openfootball/matchsim/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartMatch       = "start_match"
	TypeEndMatch         = "end_match"
	TypeAddPlayer        = "add_player"
	TypePlayerState      = "player_state"
	TypeDecision         = "decision"
	TypePhaseChange      = "phase_change"
	TypePossessionChange = "possession_change"
	TypeGoal             = "goal"
	TypeTickDigest       = "tick_digest"
	TypeTelemetry        = "telemetry"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartMatchPayload carries match and venue data.
type StartMatchPayload struct {
	Match *core.Match `json:"match"`
	Venue *core.Venue `json:"venue"`
}

// EndMatchPayload carries the final result.
type EndMatchPayload struct {
	Result *core.MatchResult `json:"result"`
}
