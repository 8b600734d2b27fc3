// Package lineup parses JSON team sheets into players ready for
// registration. Agent ids are assigned from listing order: home 0-10,
// away 11-21.
package lineup

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/openfootball/matchsim/pkg/core"
)

// validPositions are the position codes the decision pipeline understands.
var validPositions = map[string]bool{
	"GK": true,
	"CB": true,
	"FB": true,
	"DM": true,
	"CM": true,
	"AM": true,
	"W":  true,
	"WM": true,
	"ST": true,
	"CF": true,
}

// teamFile is the on-disk shape of a team sheet.
type teamFile struct {
	Name         string       `json:"name"`
	Formation    string       `json:"formation"`
	Mentality    string       `json:"mentality"`
	PassingStyle string       `json:"passingStyle"`
	Tempo        string       `json:"tempo"`
	Players      []playerFile `json:"players"`
}

type playerFile struct {
	ShirtNumber uint8    `json:"shirtNumber"`
	Name        string   `json:"name"`
	Position    string   `json:"position"`
	Traits      []string `json:"traits"`
}

// Parse parses a JSON team sheet for the given side.
func Parse(data []byte, side core.Side) (core.TeamSheet, error) {
	var sheet core.TeamSheet

	var tf teamFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return sheet, fmt.Errorf("error unmarshalling team sheet: %w", err)
	}

	if tf.Name == "" {
		return sheet, fmt.Errorf("team sheet has no name")
	}
	if len(tf.Players) != 11 {
		return sheet, fmt.Errorf("team %q has %d players, want 11", tf.Name, len(tf.Players))
	}

	agentBase := uint8(0)
	if side == core.SideAway {
		agentBase = 11
	}

	keepers := 0
	shirts := make(map[uint8]bool, 11)
	players := make([]core.Player, 0, 11)
	for i, pf := range tf.Players {
		if pf.Name == "" {
			return sheet, fmt.Errorf("team %q: player %d has no name", tf.Name, i)
		}
		if !validPositions[pf.Position] {
			return sheet, fmt.Errorf("team %q: player %q has unknown position %q", tf.Name, pf.Name, pf.Position)
		}
		if pf.ShirtNumber < 1 || pf.ShirtNumber > 99 {
			return sheet, fmt.Errorf("team %q: player %q has invalid shirt number %d", tf.Name, pf.Name, pf.ShirtNumber)
		}
		if shirts[pf.ShirtNumber] {
			return sheet, fmt.Errorf("team %q: duplicate shirt number %d", tf.Name, pf.ShirtNumber)
		}
		shirts[pf.ShirtNumber] = true
		if pf.Position == "GK" {
			keepers++
		}

		players = append(players, core.Player{
			AgentID:     agentBase + uint8(i),
			Side:        side,
			ShirtNumber: pf.ShirtNumber,
			Name:        pf.Name,
			Position:    pf.Position,
			Traits:      pf.Traits,
		})
	}

	if keepers != 1 {
		return sheet, fmt.Errorf("team %q has %d goalkeepers, want 1", tf.Name, keepers)
	}

	sheet = core.TeamSheet{
		Side:         side,
		Name:         tf.Name,
		Formation:    tf.Formation,
		Mentality:    tf.Mentality,
		PassingStyle: tf.PassingStyle,
		Tempo:        tf.Tempo,
		Players:      players,
	}
	return sheet, nil
}

// ParseFile reads and parses a team sheet file.
func ParseFile(path string, side core.Side) (core.TeamSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.TeamSheet{}, fmt.Errorf("error reading team sheet %s: %w", path, err)
	}
	return Parse(data, side)
}
