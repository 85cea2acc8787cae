package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case RegisterResult:
		o.printRegisterResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	Name          string   `json:"name"`
	CurrentGameID string   `json:"current_game_id"`
	CurrentRoom   string   `json:"current_room"`
	Balls         []string `json:"balls"`
	OrigBalls     []string `json:"orig_balls"`
}

// RegisterResult response type
type RegisterResult struct {
	Username string `json:"username"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Fprintf(o.w, "Player: %s\n", p.Name)
	fmt.Fprintf(o.w, "Game: %s\n", orNone(p.CurrentGameID))
	fmt.Fprintf(o.w, "Room: %s\n", orNone(p.CurrentRoom))
	fmt.Fprintf(o.w, "Balls: %s\n", orNone(strings.Join(p.Balls, " ")))
	fmt.Fprintf(o.w, "Original balls: %s\n", orNone(strings.Join(p.OrigBalls, " ")))
}

func (o *Output) printRegisterResult(r RegisterResult) {
	fmt.Fprintf(o.w, "Registered %s\n", r.Username)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
