package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfootball/matchsim/pkg/core"
)

func TestPlayerRegistry_New(t *testing.T) {
	reg := NewPlayerRegistry()

	require.NotNil(t, reg)
	assert.NotNil(t, reg.Players)
	assert.Len(t, reg.Players, 0)
}

func TestPlayerRegistry_AddAndGet(t *testing.T) {
	reg := NewPlayerRegistry()

	player := core.Player{
		AgentID: 7,
		Name:    "Dani Vega",
		Side:    core.SideHome,
	}

	reg.Add(player)

	got, ok := reg.Get(7)
	require.True(t, ok, "expected to find player with agent id 7")
	assert.Equal(t, uint8(7), got.AgentID)
	assert.Equal(t, "Dani Vega", got.Name)
}

func TestPlayerRegistry_Get_NotFound(t *testing.T) {
	reg := NewPlayerRegistry()

	_, ok := reg.Get(21)
	assert.False(t, ok, "expected not to find player with agent id 21")
}

func TestPlayerRegistry_Side(t *testing.T) {
	reg := NewPlayerRegistry()

	reg.Add(core.Player{AgentID: 0, Side: core.SideHome, Name: "H0"})
	reg.Add(core.Player{AgentID: 10, Side: core.SideHome, Name: "H10"})
	reg.Add(core.Player{AgentID: 11, Side: core.SideAway, Name: "A11"})

	home := reg.Side(core.SideHome)
	require.Len(t, home, 2)
	assert.Equal(t, "H0", home[0].Name)
	assert.Equal(t, "H10", home[1].Name)

	away := reg.Side(core.SideAway)
	require.Len(t, away, 1)
	assert.Equal(t, "A11", away[0].Name)
}

func TestPlayerRegistry_Reset(t *testing.T) {
	reg := NewPlayerRegistry()

	reg.Add(core.Player{AgentID: 1, Name: "One"})
	reg.Add(core.Player{AgentID: 2, Name: "Two"})
	assert.Equal(t, 2, reg.Len())

	reg.Reset()

	assert.Equal(t, 0, reg.Len())
	_, ok := reg.Get(1)
	assert.False(t, ok)
}

func TestPlayerRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewPlayerRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 22; i++ {
		wg.Add(1)
		go func(id uint8) {
			defer wg.Done()
			reg.Add(core.Player{AgentID: id})
			reg.Get(id)
		}(uint8(i))
	}
	wg.Wait()

	assert.Equal(t, 22, reg.Len())
}

func TestSafeCounter(t *testing.T) {
	var c SafeCounter

	assert.Equal(t, 0, c.Value())

	c.Inc()
	c.Inc()
	assert.Equal(t, 2, c.Value())

	c.Set(10)
	assert.Equal(t, 10, c.Value())
}

func TestSafeCounter_Concurrent(t *testing.T) {
	var c SafeCounter

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, c.Value())
}
