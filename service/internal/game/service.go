package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gamerbot/gamerbot/engine"
	"github.com/gamerbot/gamerbot/service/internal/cache"
	"github.com/gamerbot/gamerbot/service/internal/database"
	"github.com/gamerbot/gamerbot/service/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultTurnTimeout bounds how long a player may take to bid or call.
const DefaultTurnTimeout = 60 * time.Second

// reportTimeout bounds Report and Archive after the duel ends, including
// during shutdown when the duel's own context is already cancelled.
const reportTimeout = 10 * time.Second

// Historian records the per-duel action log.
type Historian interface {
	PublishGameAction(ctx context.Context, rec cache.GameActionRecord) error
}

// Archive persists finished duels.
type Archive interface {
	SaveOutcome(ctx context.Context, rec database.DuelRecord) error
}

// Service runs duels. Duels are independent; the face source is the only
// state they share and must be safe for concurrent use.
type Service struct {
	Faces       engine.FaceSource
	TurnTimeout time.Duration
	Historian   Historian          // optional
	Archive     Archive            // optional
	OnEvent     func(ev GameEvent) // optional; receives public events only
	Log         *logrus.Logger

	wg     sync.WaitGroup
	active atomic.Int64
}

// NewService returns a Service with the default turn timeout.
func NewService(faces engine.FaceSource, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{Faces: faces, TurnTimeout: DefaultTurnTimeout, Log: log}
}

// RunDuel plays one duel between two matched players through table and blocks
// until it ends. It always returns exactly one Outcome, which has already been
// reported to the table, archived and published. Cancelling ctx aborts the duel.
func (s *Service) RunDuel(ctx context.Context, table Table, challenger, opponent models.Player) Outcome {
	s.wg.Add(1)
	s.active.Add(1)
	defer func() {
		s.active.Add(-1)
		s.wg.Done()
	}()

	g := NewDuelGame(challenger, opponent, s.Faces, table)
	if s.TurnTimeout > 0 {
		g.TurnTimeout = s.TurnTimeout
	}
	g.historian = s.Historian
	g.onEvent = s.OnEvent
	if s.Log != nil {
		g.log = s.Log.WithFields(g.log.Data)
	}

	out := g.Run(ctx)

	// The duel is over; delivery of the result must not depend on ctx.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()

	if err := table.Report(rctx, out); err != nil {
		g.log.WithError(err).Error("Failed to report outcome.")
	}
	if s.Archive != nil {
		if err := s.Archive.SaveOutcome(rctx, DuelRecord(out)); err != nil {
			g.log.WithError(err).Error("Failed to archive outcome.")
		}
	}
	if s.OnEvent != nil {
		pub := out.Public()
		s.OnEvent(GameEvent{Type: EventGameEnd, RoundID: out.RoundID, Turn: len(out.History), Outcome: &pub})
	}
	return out
}

// Active returns the number of duels currently running.
func (s *Service) Active() int { return int(s.active.Load()) }

// Wait blocks until every running duel has returned or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DuelRecord converts an outcome into its archive row.
func DuelRecord(out Outcome) database.DuelRecord {
	rec := database.DuelRecord{
		ID:             out.RoundID,
		ChallengerID:   out.Players[0].ID,
		OpponentID:     out.Players[1].ID,
		Status:         string(out.Status),
		ChallengerHand: out.Hands[0].Ints(),
		OpponentHand:   out.Hands[1].Ints(),
		BidOrdinal:     engine.NoBid,
		History:        make([]int, len(out.History)),
		StartedAt:      out.StartedAt,
		EndedAt:        out.EndedAt,
	}
	for i, b := range out.History {
		rec.History[i] = b.Ordinal()
	}
	if out.HasBid {
		rec.BidOrdinal = out.Bid.Ordinal()
	}
	if out.Resolved() {
		w, _ := out.WinnerPlayer()
		l, _ := out.LoserPlayer()
		rec.WinnerID, rec.LoserID = w.ID, l.ID
		rec.Actual = out.Actual
	} else {
		rec.Reason = out.Reason.String()
		if p, ok := out.IdlePlayer(); ok {
			rec.IdleID = p.ID
		}
	}
	return rec
}
