package matchctx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfootball/matchsim/pkg/core"
)

func TestContext_Defaults(t *testing.T) {
	c := NewContext()
	assert.Equal(t, "No match loaded", c.GetMatch().HomeTeam)
	assert.Equal(t, "No venue loaded", c.GetVenue().Name)
	assert.Zero(t, c.Tick())
}

func TestContext_SetMatch(t *testing.T) {
	c := NewContext()
	c.SetTick(500)

	match := &core.Match{ID: 3, HomeTeam: "Reds", AwayTeam: "Blues"}
	venue := &core.Venue{Name: "Riverside"}
	c.SetMatch(match, venue)

	assert.Equal(t, match, c.GetMatch())
	assert.Equal(t, venue, c.GetVenue())
	assert.Zero(t, c.Tick(), "new match resets the tick")
}

func TestContext_SetTick(t *testing.T) {
	c := NewContext()
	c.SetTick(27000)
	assert.Equal(t, uint64(27000), c.Tick())
}
