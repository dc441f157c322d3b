// internal/models/models.go
package models

import (
	"github.com/google/uuid"
)

// Player is a duel participant as identified by the chat platform.
type Player struct {
	ID   string `json:"id"`   // platform user ID (Discord snowflake)
	Name string `json:"name"` // display name at the time the duel started
	Bot  bool   `json:"-"`
}

// Mention renders the platform mention for the player.
func (p Player) Mention() string {
	return "<@" + p.ID + ">"
}

// ActionKind identifies what a player asked to do on their turn.
type ActionKind string

const (
	ActionBid  ActionKind = "bid"
	ActionCall ActionKind = "call"
)

// GameAction is a single player input delivered by the transport.
// BidOrdinal is only meaningful when Kind is ActionBid.
type GameAction struct {
	RoundID    uuid.UUID  `json:"roundId"`
	PlayerID   string     `json:"playerId"`
	Kind       ActionKind `json:"kind"`
	BidOrdinal int        `json:"bidOrdinal,omitempty"`
}

// PlayerStats is a player's duel record read back from the archive.
type PlayerStats struct {
	PlayerID string `json:"playerId"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Aborted  int    `json:"aborted"`
}

// Played returns the number of duels that reached a result.
func (s PlayerStats) Played() int { return s.Wins + s.Losses }
