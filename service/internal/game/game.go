// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamerbot/gamerbot/engine"
	"github.com/gamerbot/gamerbot/service/internal/cache"
	"github.com/gamerbot/gamerbot/service/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GameEventType represents the type of a duel event delivered to players or spectators.
type GameEventType string

const (
	EventPrivateHandDealt GameEventType = "private_hand_dealt" // Private: the owner's four dice.
	EventGamePlayerTurn   GameEventType = "game_player_turn"   // Public: whose action is awaited.
	EventPlayerBid        GameEventType = "player_bid"         // Public: a bid was accepted.
	EventPlayerCall       GameEventType = "player_call"        // Public: the last bid was called.
	EventGameEnd          GameEventType = "game_end"           // Public: terminal outcome, hands only if resolved.
)

// EventUser identifies a player within a GameEvent payload.
type EventUser struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// EventBid describes a bid within a GameEvent payload.
type EventBid struct {
	Ordinal  int `json:"ordinal"`
	Quantity int `json:"quantity"`
	Face     int `json:"face"`
}

// GameEvent is the envelope for everything the duel tells the outside world.
type GameEvent struct {
	Type    GameEventType  `json:"type"`
	RoundID uuid.UUID      `json:"roundId"`
	Turn    int            `json:"turn"`
	User    *EventUser     `json:"user,omitempty"`
	Hand    []int          `json:"hand,omitempty"` // only on EventPrivateHandDealt
	Bid     *EventBid      `json:"bid,omitempty"`
	Outcome *PublicOutcome `json:"outcome,omitempty"`
}

// ActionRequest asks the table for the active player's next action.
type ActionRequest struct {
	RoundID  uuid.UUID
	Turn     int
	Player   models.Player
	Opponent models.Player
	LastBid  *engine.Bid // nil before the first bid
	Bids     []engine.Bid
	CanCall  bool
	Deadline time.Time
}

// Table is the delivery collaborator a duel is played through.
// AwaitAction must return an error wrapping context.DeadlineExceeded when
// ctx's deadline passes without input.
type Table interface {
	SendPrivate(ctx context.Context, to models.Player, ev GameEvent) error
	AwaitAction(ctx context.Context, req ActionRequest) (models.GameAction, error)
	Broadcast(ctx context.Context, ev GameEvent)
	Report(ctx context.Context, out Outcome) error
}

// DuelGame drives a single round from deal to outcome. It is owned by one
// goroutine and needs no locking.
type DuelGame struct {
	ID          uuid.UUID
	Players     [engine.NumPlayers]models.Player
	Round       engine.Round
	TurnTimeout time.Duration

	StartedAt time.Time
	EndedAt   time.Time

	table     Table
	historian Historian
	onEvent   func(GameEvent)
	log       *logrus.Entry

	actionIndex int
}

// NewDuelGame deals a fresh round for challenger (seat 0) and opponent (seat 1).
func NewDuelGame(challenger, opponent models.Player, faces engine.FaceSource, table Table) *DuelGame {
	id, _ := uuid.NewRandom()
	return &DuelGame{
		ID:          id,
		Players:     [engine.NumPlayers]models.Player{challenger, opponent},
		Round:       engine.NewRound(faces),
		TurnTimeout: DefaultTurnTimeout,
		table:       table,
		log: logrus.WithFields(logrus.Fields{
			"duel":       id,
			"challenger": challenger.ID,
			"opponent":   opponent.ID,
		}),
	}
}

// Run plays the round to a terminal phase and returns its outcome.
func (g *DuelGame) Run(ctx context.Context) Outcome {
	g.StartedAt = time.Now()
	g.logAction("", "game_start", map[string]interface{}{
		"challenger": g.Players[0].ID,
		"opponent":   g.Players[1].ID,
	})

	if err := g.revealHands(ctx); err != nil {
		reason := engine.AbortDeliveryFailure
		if ctx.Err() != nil {
			reason = engine.AbortCancelled
		}
		g.log.WithError(err).Warn("Hand delivery failed, aborting duel.")
		g.abort(reason)
		return g.finish()
	}

	if err := g.Round.Open(); err != nil {
		// Only reachable if Run is called twice.
		g.log.WithError(err).Error("Cannot open bidding.")
		return g.finish()
	}
	g.log.Info("Hands delivered, bidding open.")
	g.runBidding(ctx)
	return g.finish()
}

// revealHands sends each hand only to its owner. Both must succeed before
// bidding starts.
func (g *DuelGame) revealHands(ctx context.Context) error {
	for seat := uint8(0); seat < engine.NumPlayers; seat++ {
		p := g.Players[seat]
		hand := g.Round.HandOf(seat)
		ev := GameEvent{
			Type:    EventPrivateHandDealt,
			RoundID: g.ID,
			User:    eventUser(p),
			Hand:    hand.Ints(),
		}
		if err := g.table.SendPrivate(ctx, p, ev); err != nil {
			return fmt.Errorf("deliver hand to %s: %w", p.ID, err)
		}
		g.logAction(p.ID, "hand_delivered", nil)
	}
	return nil
}

// runBidding solicits the active player until the round is resolved or aborted.
func (g *DuelGame) runBidding(ctx context.Context) {
	for !g.Round.IsTerminal() {
		if ctx.Err() != nil {
			g.abort(engine.AbortCancelled)
			return
		}
		g.playTurn(ctx)
	}
}

// playTurn waits for one accepted action from the active player. Ignored
// actions re-solicit the same player under the original deadline.
func (g *DuelGame) playTurn(ctx context.Context) {
	seat := g.Round.ActingPlayer()
	deadline := time.Now().Add(g.TurnTimeout)
	turnCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	req := g.actionRequest(seat, deadline)
	g.emit(ctx, GameEvent{
		Type:    EventGamePlayerTurn,
		RoundID: g.ID,
		Turn:    req.Turn,
		User:    eventUser(req.Player),
		Bid:     eventBidPtr(req.LastBid),
	})
	g.log.WithFields(logrus.Fields{"turn": req.Turn, "player": req.Player.ID}).Debug("Awaiting action.")

	for {
		if turnCtx.Err() != nil {
			g.endTurnOnError(ctx, turnCtx.Err())
			return
		}
		action, err := g.table.AwaitAction(turnCtx, req)
		if err != nil {
			g.endTurnOnError(ctx, err)
			return
		}
		if err := g.applyAction(ctx, action); err != nil {
			entry := g.log.WithError(err).WithFields(logrus.Fields{
				"player": action.PlayerID,
				"kind":   action.Kind,
			})
			if IsIgnorable(err) {
				entry.Warn("Ignoring action.")
			} else {
				entry.Error("Unexpected action failure, ignoring.")
			}
			g.logAction(action.PlayerID, "action_ignored", map[string]interface{}{
				"kind":   action.Kind,
				"reason": err.Error(),
			})
			continue
		}
		return
	}
}

// endTurnOnError maps a failed wait to the matching abort.
func (g *DuelGame) endTurnOnError(ctx context.Context, err error) {
	switch {
	case ctx.Err() != nil:
		g.abort(engine.AbortCancelled)
	case errors.Is(err, context.DeadlineExceeded):
		idle := g.Players[g.Round.ActingPlayer()]
		g.log.WithField("player", idle.ID).Info("Turn timed out.")
		if err := g.Round.TimeOut(); err != nil {
			g.log.WithError(err).Error("Timeout rejected by round.")
		}
		g.logAction(idle.ID, "turn_timeout", nil)
	default:
		g.log.WithError(err).Error("Action source failed.")
		g.abort(engine.AbortTransport)
	}
}

func (g *DuelGame) abort(reason engine.AbortReason) {
	if err := g.Round.Abort(reason); err != nil {
		g.log.WithError(err).Error("Abort rejected by round.")
		return
	}
	g.logAction("", "game_abort", map[string]interface{}{"reason": reason.String()})
}

// actionRequest describes what the active seat may do this turn.
func (g *DuelGame) actionRequest(seat uint8, deadline time.Time) ActionRequest {
	req := ActionRequest{
		RoundID:  g.ID,
		Turn:     int(g.Round.Turn),
		Player:   g.Players[seat],
		Opponent: g.Players[engine.OpponentOf(seat)],
		Bids:     g.Round.LegalBids(),
		CanCall:  g.Round.Ledger.CanCall(),
		Deadline: deadline,
	}
	if last, ok := g.Round.Ledger.LastBid(); ok {
		req.LastBid = &last
	}
	return req
}

// finish stamps the end time and builds the outcome. The round is terminal.
func (g *DuelGame) finish() Outcome {
	g.EndedAt = time.Now()
	out := g.Outcome()
	fields := logrus.Fields{"status": out.Status, "bids": len(out.History)}
	if out.Status == StatusAborted {
		fields["reason"] = out.Reason.String()
	}
	if w, ok := out.WinnerPlayer(); ok {
		fields["winner"] = w.ID
	}
	g.log.WithFields(fields).Info("Duel ended.")
	g.logAction("", string(EventGameEnd), map[string]interface{}{
		"status": out.Status,
		"reason": out.Reason.String(),
		"winner": out.WinnerID(),
	})
	return out
}

// emit sends a public event to the table and the service-wide listener.
func (g *DuelGame) emit(ctx context.Context, ev GameEvent) {
	g.table.Broadcast(ctx, ev)
	if g.onEvent != nil {
		g.onEvent(ev)
	}
}

// logAction publishes an action record to the historian, if one is configured.
func (g *DuelGame) logAction(actorID string, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if g.historian == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}

	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := g.historian.PublishGameAction(ctx, rec); err != nil {
			g.log.WithError(err).Warnf("Failed publishing action %d (%s).", rec.ActionIndex, rec.ActionType)
		}
	}(record)
}

func eventUser(p models.Player) *EventUser {
	return &EventUser{ID: p.ID, Name: p.Name}
}

func eventBid(b engine.Bid) *EventBid {
	return &EventBid{Ordinal: b.Ordinal(), Quantity: int(b.Quantity), Face: int(b.Face)}
}

func eventBidPtr(b *engine.Bid) *EventBid {
	if b == nil {
		return nil
	}
	return eventBid(*b)
}
