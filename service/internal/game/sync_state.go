// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
)

// PublicPlayer is a player as shown to everyone in the channel.
type PublicPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Hand is populated only after a call, when both hands are revealed.
	Hand []int `json:"hand,omitempty"`
}

// PublicOutcome is the outcome view safe to show to anyone, including
// spectators. Aborted duels never carry hands.
type PublicOutcome struct {
	RoundID  uuid.UUID      `json:"roundId"`
	Status   OutcomeStatus  `json:"status"`
	Reason   string         `json:"reason,omitempty"`
	Players  []PublicPlayer `json:"players"`
	WinnerID string         `json:"winnerId,omitempty"`
	BidderID string         `json:"bidderId,omitempty"`
	CallerID string         `json:"callerId,omitempty"`
	IdleID   string         `json:"idleId,omitempty"`
	Bid      *EventBid      `json:"bid,omitempty"`
	Actual   *int           `json:"actual,omitempty"`
	Bids     int            `json:"bids"`
}

// Public builds the spectator view of the outcome.
func (o Outcome) Public() PublicOutcome {
	pub := PublicOutcome{
		RoundID: o.RoundID,
		Status:  o.Status,
		Players: make([]PublicPlayer, len(o.Players)),
		Bids:    len(o.History),
	}
	for i, p := range o.Players {
		pub.Players[i] = PublicPlayer{ID: p.ID, Name: p.Name}
	}
	if o.HasBid {
		pub.Bid = eventBid(o.Bid)
	}
	if p, ok := o.BidderPlayer(); ok {
		pub.BidderID = p.ID
	}

	if !o.Resolved() {
		pub.Reason = o.Reason.String()
		if p, ok := o.IdlePlayer(); ok {
			pub.IdleID = p.ID
		}
		return pub
	}

	for i := range o.Players {
		pub.Players[i].Hand = o.Hands[i].Ints()
	}
	actual := o.Actual
	pub.Actual = &actual
	pub.WinnerID = o.WinnerID()
	if p, ok := o.CallerPlayer(); ok {
		pub.CallerID = p.ID
	}
	return pub
}
