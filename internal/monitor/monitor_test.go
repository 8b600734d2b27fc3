package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfootball/matchsim/internal/channel"
	"github.com/openfootball/matchsim/internal/dispatcher"
	"github.com/openfootball/matchsim/internal/logging"
	"github.com/openfootball/matchsim/internal/matchctx"
	"github.com/openfootball/matchsim/internal/model"
	"github.com/openfootball/matchsim/internal/worker"
	"github.com/openfootball/matchsim/pkg/core"
)

func newTestService() *Service {
	events := channel.New[dispatcher.Event](1)
	wm := worker.NewManager(worker.Dependencies{Events: events}, nil)

	ctx := matchctx.NewContext()
	ctx.SetMatch(&core.Match{ID: 5, HomeTeam: "Reds", AwayTeam: "Blues"}, &core.Venue{})
	ctx.SetTick(1234)

	return NewService(Dependencies{
		LogManager:    logging.NewSlogManager(),
		MatchContext:  ctx,
		WorkerManager: wm,
		QueueLengths: func() model.WriteQueueLengths {
			return model.WriteQueueLengths{Decisions: 17, PlayerStates: 3}
		},
		IsDatabaseValid: func() bool { return false },
	})
}

func TestGetProgramStatus(t *testing.T) {
	s := newTestService()

	output, perf := s.GetProgramStatus(true, true)

	require.Len(t, output, 3, "queues, last write and tick lines")
	assert.Contains(t, output[0], `"decisions": 17`)
	assert.Contains(t, output[2], `"tick": 1234`)

	assert.Equal(t, uint(5), perf.MatchID)
	assert.Equal(t, uint16(17), perf.WriteQueueLengths.Decisions)
	assert.Equal(t, uint16(3), perf.WriteQueueLengths.PlayerStates)
}

func TestGetProgramStatus_NoQueueProvider(t *testing.T) {
	s := newTestService()
	s.deps.QueueLengths = nil

	_, perf := s.GetProgramStatus(false, false)
	assert.Equal(t, model.WriteQueueLengths{}, perf.WriteQueueLengths)
}

func TestService_StartStop(t *testing.T) {
	s := newTestService()
	s.deps.StatusDir = t.TempDir()

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	s.Stop()
}
