package engine

// Variant constants for the two-seat, four-sided duel.
const (
	NumPlayers  = 2
	HandSize    = 4
	NumFaces    = 4
	MaxQuantity = 4
	NumBids     = MaxQuantity * NumFaces
)

// Seat indices. The challenger always opens the bidding.
const (
	SeatChallenger uint8 = 0
	SeatOpponent   uint8 = 1
)

// NoSeat marks an unset seat field (no bidder yet, no winner).
const NoSeat int8 = -1
