package game

import (
	"time"

	"github.com/gamerbot/gamerbot/engine"
	"github.com/gamerbot/gamerbot/service/internal/models"
	"github.com/google/uuid"
)

// OutcomeStatus is the terminal status of a duel.
type OutcomeStatus string

const (
	StatusResolved OutcomeStatus = "resolved"
	StatusAborted  OutcomeStatus = "aborted"
)

// Outcome is the terminal record of one duel. It carries both hands and must
// only be rendered publicly through Public.
type Outcome struct {
	RoundID uuid.UUID
	Status  OutcomeStatus
	Reason  engine.AbortReason
	Players [engine.NumPlayers]models.Player
	Hands   [engine.NumPlayers]engine.Hand

	Winner int8 // engine.NoSeat unless resolved
	Bidder int8
	Caller int8
	Idle   int8 // seat that timed out

	Bid     engine.Bid // last accepted bid; zero if none
	HasBid  bool
	Actual  int
	History []engine.Bid

	StartedAt time.Time
	EndedAt   time.Time
}

// Outcome snapshots the round. It is only meaningful once the round is terminal.
func (g *DuelGame) Outcome() Outcome {
	r := &g.Round
	out := Outcome{
		RoundID:   g.ID,
		Status:    StatusAborted,
		Reason:    r.Reason,
		Players:   g.Players,
		Hands:     r.Hands,
		Winner:    r.Winner,
		Bidder:    r.Bidder,
		Caller:    r.Caller,
		Idle:      r.Idle,
		History:   r.Ledger.History(),
		StartedAt: g.StartedAt,
		EndedAt:   g.EndedAt,
	}
	if bid, ok := r.Ledger.LastBid(); ok {
		out.Bid, out.HasBid = bid, true
	}
	if res, ok := r.Resolution(); ok {
		out.Status = StatusResolved
		out.Actual = res.Actual
	}
	return out
}

// Resolved reports whether the duel ended with a call.
func (o Outcome) Resolved() bool { return o.Status == StatusResolved }

func (o Outcome) seat(s int8) (models.Player, bool) {
	if s < 0 || int(s) >= engine.NumPlayers {
		return models.Player{}, false
	}
	return o.Players[s], true
}

// WinnerPlayer returns the winner of a resolved duel.
func (o Outcome) WinnerPlayer() (models.Player, bool) { return o.seat(o.Winner) }

// LoserPlayer returns the loser of a resolved duel.
func (o Outcome) LoserPlayer() (models.Player, bool) {
	if o.Winner < 0 {
		return models.Player{}, false
	}
	return o.seat(int8(engine.OpponentOf(uint8(o.Winner))))
}

// IdlePlayer returns the player who failed to act on a timeout.
func (o Outcome) IdlePlayer() (models.Player, bool) { return o.seat(o.Idle) }

// BidderPlayer returns who placed the last bid.
func (o Outcome) BidderPlayer() (models.Player, bool) { return o.seat(o.Bidder) }

// CallerPlayer returns who called.
func (o Outcome) CallerPlayer() (models.Player, bool) { return o.seat(o.Caller) }

// WinnerID returns the winner's platform ID, or "" if there is none.
func (o Outcome) WinnerID() string {
	p, _ := o.WinnerPlayer()
	return p.ID
}
