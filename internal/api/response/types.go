package response

import (
	"github.com/mcoot/cutthroat/internal/model"
)

// SessionTokenHeader carries the session token for non-browser clients
const SessionTokenHeader = "X-Session-Token"

// RegisterResponse is the response for a successful registration
type RegisterResponse struct {
	Username string `json:"username"`
}

// Player is the redacted player view returned by GET /player
type Player struct {
	Name          string   `json:"name"`
	CurrentGameID string   `json:"current_game_id"`
	CurrentRoom   string   `json:"current_room"`
	Balls         []string `json:"balls"`
	OrigBalls     []string `json:"orig_balls"`
}

// PlayerFromView converts a model.PlayerView to a response Player.
// Sequences always encode as arrays.
func PlayerFromView(v *model.PlayerView) Player {
	return Player{
		Name:          v.Name,
		CurrentGameID: v.CurrentGameID,
		CurrentRoom:   v.CurrentRoom,
		Balls:         nonNil(v.Balls),
		OrigBalls:     nonNil(v.OrigBalls),
	}
}

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
