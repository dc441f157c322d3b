package engine

import (
	"errors"
	"fmt"
)

var (
	ErrPrematureCall = errors.New("call before any bid")
	ErrNotYourTurn   = errors.New("not this seat's turn")
	ErrWrongPhase    = errors.New("action not allowed in this phase")
	ErrUnknownAction = errors.New("unknown action")
)

// Open moves a dealt round into bidding once both hands are revealed.
func (r *Round) Open() error {
	if r.Phase != PhaseDealt {
		return fmt.Errorf("open from %s: %w", r.Phase, ErrWrongPhase)
	}
	r.Phase = PhaseBidding
	return nil
}

// ApplyAction applies an action index on behalf of seat. Rejected actions
// leave the round unchanged.
func (r *Round) ApplyAction(seat uint8, actionIdx uint16) error {
	if r.Phase != PhaseBidding {
		return fmt.Errorf("action %d in %s: %w", actionIdx, r.Phase, ErrWrongPhase)
	}
	if seat != r.Active {
		return fmt.Errorf("seat %d acted, seat %d active: %w", seat, r.Active, ErrNotYourTurn)
	}
	if actionIdx == ActionCall {
		return r.call(seat)
	}
	if ordinal, ok := ActionIsBid(actionIdx); ok {
		return r.placeBid(seat, ordinal)
	}
	return fmt.Errorf("action index %d: %w", actionIdx, ErrUnknownAction)
}

// PlaceBid is ApplyAction(seat, EncodeBid(ordinal)).
func (r *Round) PlaceBid(seat uint8, ordinal int) error {
	if ordinal < 0 || ordinal >= NumBids {
		return fmt.Errorf("ordinal %d outside catalog: %w", ordinal, ErrInvalidBid)
	}
	return r.ApplyAction(seat, EncodeBid(ordinal))
}

// Call is ApplyAction(seat, ActionCall).
func (r *Round) Call(seat uint8) error {
	return r.ApplyAction(seat, ActionCall)
}

// placeBid accepts the bid and passes the turn.
func (r *Round) placeBid(seat uint8, ordinal int) error {
	if err := r.Ledger.Accept(ordinal); err != nil {
		return err
	}
	r.Bidder = int8(seat)
	r.Turn++
	r.Active = OpponentOf(seat)
	return nil
}

// call disputes the last bid and resolves the round. The turn does not pass.
func (r *Round) call(seat uint8) error {
	bid, ok := r.Ledger.LastBid()
	if !ok {
		return ErrPrematureCall
	}
	r.Phase = PhaseCalled
	r.Caller = int8(seat)

	if Resolve(bid, r.Hands[0], r.Hands[1]) {
		r.Winner = r.Bidder
	} else {
		r.Winner = r.Caller
	}
	r.Phase = PhaseResolved
	return nil
}

// Abort ends a dealt or bidding round without a winner.
func (r *Round) Abort(reason AbortReason) error {
	if r.Phase != PhaseDealt && r.Phase != PhaseBidding {
		return fmt.Errorf("abort from %s: %w", r.Phase, ErrWrongPhase)
	}
	if reason == AbortTimeout {
		r.Idle = int8(r.Active)
	}
	r.Reason = reason
	r.Phase = PhaseAborted
	return nil
}

// TimeOut aborts the round because the active seat failed to act.
func (r *Round) TimeOut() error {
	if r.Phase != PhaseBidding {
		return fmt.Errorf("timeout in %s: %w", r.Phase, ErrWrongPhase)
	}
	return r.Abort(AbortTimeout)
}
