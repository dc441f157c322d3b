// engine_adapter.go: bridge between transport actions and engine.Round.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamerbot/gamerbot/engine"
	"github.com/gamerbot/gamerbot/service/internal/models"
)

var (
	ErrWrongRound  = errors.New("action belongs to another round")
	ErrNotInRound  = errors.New("player is not seated in this round")
	ErrUnknownKind = errors.New("unknown action kind")
)

// seatOf maps a platform user ID to its seat.
func (g *DuelGame) seatOf(playerID string) (uint8, bool) {
	for seat, p := range g.Players {
		if p.ID == playerID {
			return uint8(seat), true
		}
	}
	return 0, false
}

// actionIndex converts a transport action into an engine action index.
func actionIndex(a models.GameAction) (uint16, error) {
	switch a.Kind {
	case models.ActionCall:
		return engine.ActionCall, nil
	case models.ActionBid:
		if a.BidOrdinal < 0 || a.BidOrdinal >= engine.NumBids {
			return 0, fmt.Errorf("bid ordinal %d: %w", a.BidOrdinal, engine.ErrInvalidBid)
		}
		return engine.EncodeBid(a.BidOrdinal), nil
	default:
		return 0, fmt.Errorf("kind %q: %w", a.Kind, ErrUnknownKind)
	}
}

// applyAction validates and applies a player action, then announces it.
// A returned error means the round is unchanged.
func (g *DuelGame) applyAction(ctx context.Context, a models.GameAction) error {
	if a.RoundID != g.ID {
		return fmt.Errorf("round %s: %w", a.RoundID, ErrWrongRound)
	}
	seat, ok := g.seatOf(a.PlayerID)
	if !ok {
		return fmt.Errorf("player %s: %w", a.PlayerID, ErrNotInRound)
	}
	idx, err := actionIndex(a)
	if err != nil {
		return err
	}
	turn := int(g.Round.Turn)
	if err := g.Round.ApplyAction(seat, idx); err != nil {
		return err
	}

	actor := g.Players[seat]
	if idx == engine.ActionCall {
		bid, _ := g.Round.Ledger.LastBid()
		g.logAction(actor.ID, string(EventPlayerCall), map[string]interface{}{"bid": bid.Ordinal()})
		g.emit(ctx, GameEvent{
			Type:    EventPlayerCall,
			RoundID: g.ID,
			Turn:    turn,
			User:    eventUser(actor),
			Bid:     eventBid(bid),
		})
		return nil
	}

	bid, _ := g.Round.Ledger.LastBid()
	g.logAction(actor.ID, string(EventPlayerBid), map[string]interface{}{
		"bid":      bid.Ordinal(),
		"quantity": bid.Quantity,
		"face":     bid.Face,
	})
	g.emit(ctx, GameEvent{
		Type:    EventPlayerBid,
		RoundID: g.ID,
		Turn:    turn,
		User:    eventUser(actor),
		Bid:     eventBid(bid),
	})
	return nil
}

// IsIgnorable reports whether err is a rejected action that leaves the round
// open for the same player.
func IsIgnorable(err error) bool {
	return errors.Is(err, ErrWrongRound) ||
		errors.Is(err, ErrNotInRound) ||
		errors.Is(err, ErrUnknownKind) ||
		errors.Is(err, engine.ErrInvalidBid) ||
		errors.Is(err, engine.ErrPrematureCall) ||
		errors.Is(err, engine.ErrNotYourTurn) ||
		errors.Is(err, engine.ErrUnknownAction)
}
