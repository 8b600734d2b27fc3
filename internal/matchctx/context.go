package matchctx

import (
	"sync"

	"github.com/openfootball/matchsim/pkg/core"
)

// Context holds the match and venue currently being simulated.
type Context struct {
	mu    sync.RWMutex
	Match *core.Match
	Venue *core.Venue

	tick uint64
}

// NewContext creates a new Context with default values
func NewContext() *Context {
	return &Context{
		Match: &core.Match{HomeTeam: "No match loaded"},
		Venue: &core.Venue{Name: "No venue loaded"},
	}
}

// GetMatch returns the current match
func (c *Context) GetMatch() *core.Match {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Match
}

// GetVenue returns the current venue
func (c *Context) GetVenue() *core.Venue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Venue
}

// SetMatch sets the current match and venue
func (c *Context) SetMatch(match *core.Match, venue *core.Venue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Match = match
	c.Venue = venue
	c.tick = 0
}

// Tick returns the last tick the runner reported.
func (c *Context) Tick() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tick
}

// SetTick records the runner's current tick.
func (c *Context) SetTick(tick uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick = tick
}
