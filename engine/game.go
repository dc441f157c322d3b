// Package engine implements the rules of the two-player liar's dice duel.
//
// A Round is a self-contained value: two secret hands, the bid ledger, the
// active seat and a phase tag. It has no I/O and no clock; the service layer
// drives it with actions delivered by players and turns timeouts into Abort.
package engine

// FaceSource produces uniformly distributed die faces.
type FaceSource interface {
	NextFace() Face
}

// Round holds the complete state of one duel.
type Round struct {
	Hands  [NumPlayers]Hand
	Ledger Ledger
	Active uint8 // seat whose action is awaited
	Phase  Phase
	Turn   uint16 // number of accepted bids

	Bidder int8 // seat that placed the last accepted bid
	Caller int8
	Winner int8
	Idle   int8 // seat that failed to act, on AbortTimeout
	Reason AbortReason
}

// ---------------------------------------------------------------------------
// xorshift64 source: deterministic, not safe for concurrent use
// ---------------------------------------------------------------------------

// XorShift is a seeded FaceSource for tests and replays.
type XorShift struct {
	state uint64
}

// NewXorShift returns a source seeded with seed. Seed 0 is corrected to 1.
func NewXorShift(seed uint64) *XorShift {
	if seed == 0 {
		seed = 1 // xorshift can't start at 0
	}
	return &XorShift{state: seed}
}

func (x *XorShift) next() uint64 {
	s := x.state
	s ^= s << 13
	s ^= s >> 7
	s ^= s << 17
	x.state = s
	return s
}

// NextFace returns a face in 1..NumFaces.
func (x *XorShift) NextFace() Face {
	return Face(x.next()%NumFaces) + 1
}

// ---------------------------------------------------------------------------
// Dealing
// ---------------------------------------------------------------------------

// Deal draws HandSize faces for each seat, challenger first. Faces may repeat
// within and across hands. Each hand is sorted ascending.
func Deal(src FaceSource) [NumPlayers]Hand {
	var hands [NumPlayers]Hand
	for p := 0; p < NumPlayers; p++ {
		for i := 0; i < HandSize; i++ {
			hands[p][i] = src.NextFace()
		}
		sortHand(&hands[p])
	}
	return hands
}

// sortHand is an insertion sort; hands are four dice.
func sortHand(h *Hand) {
	for i := 1; i < HandSize; i++ {
		for j := i; j > 0 && h[j] < h[j-1]; j-- {
			h[j], h[j-1] = h[j-1], h[j]
		}
	}
}

// NewRound deals a fresh round from src. The round starts in PhaseDealt with
// the challenger to act once bidding opens.
func NewRound(src FaceSource) Round {
	return NewRoundWithHands(Deal(src))
}

// NewRoundWithHands builds a round from pre-dealt hands.
func NewRoundWithHands(hands [NumPlayers]Hand) Round {
	return Round{
		Hands:  hands,
		Ledger: NewLedger(),
		Active: SeatChallenger,
		Phase:  PhaseDealt,
		Bidder: NoSeat,
		Caller: NoSeat,
		Winner: NoSeat,
		Idle:   NoSeat,
	}
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// IsTerminal returns true once the round is resolved or aborted.
func (r *Round) IsTerminal() bool { return r.Phase.IsTerminal() }

// ActingPlayer returns the seat whose action is awaited.
func (r *Round) ActingPlayer() uint8 { return r.Active }

// OpponentOf returns the other seat.
func OpponentOf(seat uint8) uint8 { return 1 - seat }

// HandOf returns a copy of seat's hand.
func (r *Round) HandOf(seat uint8) Hand { return r.Hands[seat] }
