package model

import "time"

// PlayerRecord is the persisted identity of a registered player.
// Name is the sole lookup key and never changes after creation.
type PlayerRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"password_hash"`
	Salt          string    `json:"salt"`
	CurrentGameID string    `json:"current_game_id"`
	CurrentRoom   string    `json:"current_room"`
	Balls         []string  `json:"balls"`
	OrigBalls     []string  `json:"orig_balls"`
	CreatedAt     time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers never share sequence storage
func (p *PlayerRecord) Clone() *PlayerRecord {
	c := *p
	c.Balls = cloneStrings(p.Balls)
	c.OrigBalls = cloneStrings(p.OrigBalls)
	return &c
}

// PlayerView is the redacted form of a PlayerRecord that may leave the service.
// Sequences are never nil.
type PlayerView struct {
	Name          string
	CurrentGameID string
	CurrentRoom   string
	Balls         []string
	OrigBalls     []string
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
