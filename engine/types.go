package engine

import (
	"strconv"
	"strings"
)

// Face is the value shown on one die, 1..NumFaces.
type Face uint8

// Valid reports whether f lies inside the face domain.
func (f Face) Valid() bool { return f >= 1 && f <= NumFaces }

// Hand is one player's dice. It is a value type so a copy can never
// alias or mutate the dealt hand.
type Hand [HandSize]Face

// Count returns how many dice in h show face.
func (h Hand) Count(face Face) int {
	n := 0
	for _, f := range h {
		if f == face {
			n++
		}
	}
	return n
}

// Valid reports whether every die holds a face inside the domain.
func (h Hand) Valid() bool {
	for _, f := range h {
		if !f.Valid() {
			return false
		}
	}
	return true
}

// Ints returns the faces as ints, for rendering and persistence.
func (h Hand) Ints() []int {
	out := make([]int, HandSize)
	for i, f := range h {
		out[i] = int(f)
	}
	return out
}

// String renders the hand as "1, 2, 3, 4".
func (h Hand) String() string {
	parts := make([]string, HandSize)
	for i, f := range h {
		parts[i] = strconv.Itoa(int(f))
	}
	return strings.Join(parts, ", ")
}

// Bid claims that at least Quantity dice across both hands show Face.
type Bid struct {
	Quantity uint8
	Face     Face
}

// Valid reports whether b is inside the bid catalog.
func (b Bid) Valid() bool {
	return b.Quantity >= 1 && b.Quantity <= MaxQuantity && b.Face.Valid()
}

// Ordinal returns b's rank in the catalog, or NoBid if b is not a catalog entry.
// Quantity dominates; face breaks ties.
func (b Bid) Ordinal() int {
	if !b.Valid() {
		return NoBid
	}
	return int(b.Quantity-1)*NumFaces + int(b.Face-1)
}

// String renders the bid as "2 dice of value 3".
func (b Bid) String() string {
	return strconv.Itoa(int(b.Quantity)) + " dice of value " + strconv.Itoa(int(b.Face))
}

// Phase is the lifecycle tag of a Round.
type Phase uint8

const (
	PhaseDealt    Phase = iota // hands dealt, not yet revealed
	PhaseBidding               // players alternate bids
	PhaseCalled                // a call was accepted, resolution pending
	PhaseResolved              // terminal: winner known
	PhaseAborted               // terminal: no winner
)

func (p Phase) String() string {
	switch p {
	case PhaseDealt:
		return "dealt"
	case PhaseBidding:
		return "bidding"
	case PhaseCalled:
		return "called"
	case PhaseResolved:
		return "resolved"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition is possible from p.
func (p Phase) IsTerminal() bool { return p == PhaseResolved || p == PhaseAborted }

// AbortReason explains why a round ended without a winner.
type AbortReason uint8

const (
	AbortNone            AbortReason = iota
	AbortTimeout                     // active player did not act in time
	AbortDeliveryFailure             // a hand could not be delivered privately
	AbortCancelled                   // the caller's context was cancelled
	AbortTransport                   // the action source failed
)

func (r AbortReason) String() string {
	switch r {
	case AbortNone:
		return "none"
	case AbortTimeout:
		return "timeout"
	case AbortDeliveryFailure:
		return "delivery_failure"
	case AbortCancelled:
		return "cancelled"
	case AbortTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// ---------------------------------------------------------------------------
// Action index constants
// ---------------------------------------------------------------------------

const (
	ActionCall    uint16 = 0
	ActionBaseBid uint16 = 1 // Bid(0)..Bid(NumBids-1)

	NumActions uint16 = ActionBaseBid + NumBids
)

// EncodeBid returns the action index for placing the bid with the given ordinal.
func EncodeBid(ordinal int) uint16 { return ActionBaseBid + uint16(ordinal) }

// ActionIsBid returns the bid ordinal if idx encodes a bid action.
func ActionIsBid(idx uint16) (ordinal int, ok bool) {
	if idx >= ActionBaseBid && idx < NumActions {
		return int(idx - ActionBaseBid), true
	}
	return NoBid, false
}
