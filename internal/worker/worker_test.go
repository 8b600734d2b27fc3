package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfootball/matchsim/internal/channel"
	"github.com/openfootball/matchsim/internal/dispatcher"
	"github.com/openfootball/matchsim/internal/logging"
	"github.com/openfootball/matchsim/internal/storage"
	"github.com/openfootball/matchsim/pkg/streaming"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// durationBackend is a storage.Backend that also reports a write duration.
type durationBackend struct {
	storage.Backend
	d time.Duration
}

func (b *durationBackend) GetLastDBWriteDuration() time.Duration { return b.d }

func TestManager_PumpsEventsToDispatcher(t *testing.T) {
	d, err := dispatcher.New(nopLogger{})
	require.NoError(t, err)

	var handled atomic.Int32
	d.Register("decision", func(e dispatcher.Event) (any, error) {
		handled.Add(1)
		return nil, nil
	})

	events := channel.New[dispatcher.Event](16)
	m := NewManager(Dependencies{
		LogManager: logging.NewSlogManager(),
		Dispatcher: d,
		Events:     events,
	}, nil)

	m.Start()

	for i := 0; i < 5; i++ {
		events.Send(dispatcher.Event{Kind: "decision", Tick: uint64(i)})
	}
	events.Close()
	m.Wait()

	assert.Equal(t, int32(5), handled.Load())
}

func TestManager_UnknownKindDoesNotStopPump(t *testing.T) {
	d, err := dispatcher.New(nopLogger{})
	require.NoError(t, err)

	var handled atomic.Int32
	d.Register("goal", func(e dispatcher.Event) (any, error) {
		handled.Add(1)
		return nil, nil
	})

	events := channel.New[dispatcher.Event](4)
	m := NewManager(Dependencies{
		LogManager: logging.NewSlogManager(),
		Dispatcher: d,
		Events:     events,
	}, nil)

	m.Start()

	events.Send(dispatcher.Event{Kind: "unregistered"})
	events.Send(dispatcher.Event{Kind: "goal"})
	events.Close()
	m.Wait()

	assert.Equal(t, int32(1), handled.Load())
}

func TestManager_WaitBeforeStart(t *testing.T) {
	events := channel.New[dispatcher.Event](1)
	m := NewManager(Dependencies{Events: events}, nil)

	// Wait on a never-started manager returns immediately.
	m.Wait()
}

func TestManager_GetLastDBWriteDuration(t *testing.T) {
	events := channel.New[dispatcher.Event](1)

	m := NewManager(Dependencies{Events: events}, nil)
	assert.Equal(t, time.Duration(0), m.GetLastDBWriteDuration(), "nil backend reports zero")

	backend := &durationBackend{d: 42 * time.Millisecond}
	m2 := NewManager(Dependencies{Events: events}, backend)
	assert.Equal(t, 42*time.Millisecond, m2.GetLastDBWriteDuration())
}

func TestManager_Pending(t *testing.T) {
	events := channel.New[dispatcher.Event](8)
	m := NewManager(Dependencies{Events: events}, nil)

	events.Send(dispatcher.Event{Kind: "a"})
	events.Send(dispatcher.Event{Kind: "b"})

	assert.Equal(t, 2, m.Pending())
}

func TestManager_DrainsBuffersBeforeEndMatch(t *testing.T) {
	d, err := dispatcher.New(nopLogger{})
	require.NoError(t, err)

	var order []string
	var mu sync.Mutex
	record := func(kind string) {
		mu.Lock()
		order = append(order, kind)
		mu.Unlock()
	}

	d.Register(streaming.TypeDecision, func(e dispatcher.Event) (any, error) {
		time.Sleep(time.Millisecond)
		record(streaming.TypeDecision)
		return nil, nil
	}, dispatcher.Buffered(100), dispatcher.Blocking())
	d.Register(streaming.TypeEndMatch, func(e dispatcher.Event) (any, error) {
		record(streaming.TypeEndMatch)
		return nil, nil
	})

	events := channel.New[dispatcher.Event](64)
	m := NewManager(Dependencies{
		LogManager: logging.NewSlogManager(),
		Dispatcher: d,
		Events:     events,
	}, nil)
	m.Start()

	for i := 0; i < 20; i++ {
		events.Send(dispatcher.Event{Kind: streaming.TypeDecision, Tick: uint64(i)})
	}
	events.Send(dispatcher.Event{Kind: streaming.TypeEndMatch, Tick: 20})
	events.Close()
	m.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 21)
	assert.Equal(t, streaming.TypeEndMatch, order[20], "end_match must run after every buffered decision")
}
