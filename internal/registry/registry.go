package registry

import (
	"sync"

	"github.com/openfootball/matchsim/pkg/core"
)

// PlayerRegistry caches players when they are registered to avoid subsequent
// db reads. Latency in these lookups is critical inside the tick loop.
type PlayerRegistry struct {
	m       sync.Mutex
	Players map[uint8]core.Player
}

func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{
		m:       sync.Mutex{},
		Players: make(map[uint8]core.Player),
	}
}

func (r *PlayerRegistry) Reset() {
	r.m.Lock()
	defer r.m.Unlock()
	r.Players = make(map[uint8]core.Player)
}

func (r *PlayerRegistry) Get(agentID uint8) (core.Player, bool) {
	r.m.Lock()
	defer r.m.Unlock()
	if p, ok := r.Players[agentID]; ok {
		return p, true
	}
	return core.Player{}, false
}

func (r *PlayerRegistry) Add(p core.Player) {
	r.m.Lock()
	defer r.m.Unlock()
	r.Players[p.AgentID] = p
}

// Side returns all registered players on one side, in agent id order.
func (r *PlayerRegistry) Side(side core.Side) []core.Player {
	r.m.Lock()
	defer r.m.Unlock()
	out := make([]core.Player, 0, 11)
	for id := uint8(0); id < 22; id++ {
		if p, ok := r.Players[id]; ok && p.Side == side {
			out = append(out, p)
		}
	}
	return out
}

func (r *PlayerRegistry) Len() int {
	r.m.Lock()
	defer r.m.Unlock()
	return len(r.Players)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
