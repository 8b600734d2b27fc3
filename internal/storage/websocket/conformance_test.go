package websocket_test

import (
	"github.com/openfootball/matchsim/internal/storage"
	"github.com/openfootball/matchsim/internal/storage/websocket"
)

// Compile-time interface check. Lives in an external package because the
// storage factory imports this backend.
var _ storage.Backend = (*websocket.Backend)(nil)
