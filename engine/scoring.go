package engine

// ActualCount returns how many dice across both hands show face.
func ActualCount(face Face, h0, h1 Hand) int {
	return h0.Count(face) + h1.Count(face)
}

// Resolve reports whether the bidder wins a call against bid: the claim holds
// when the actual count meets or exceeds the bid quantity.
func Resolve(bid Bid, h0, h1 Hand) bool {
	return ActualCount(bid.Face, h0, h1) >= int(bid.Quantity)
}

// Resolution summarises a resolved round.
type Resolution struct {
	Bid        Bid
	Actual     int
	BidderWins bool
}

// Resolution returns the call result, or false if the round was not resolved.
func (r *Round) Resolution() (Resolution, bool) {
	if r.Phase != PhaseResolved {
		return Resolution{}, false
	}
	bid, _ := r.Ledger.LastBid()
	return Resolution{
		Bid:        bid,
		Actual:     ActualCount(bid.Face, r.Hands[0], r.Hands[1]),
		BidderWins: r.Winner == r.Bidder,
	}, true
}
