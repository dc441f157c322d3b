package engine

import (
	"errors"
	"testing"
)

func TestPlaceBidAlternatesTurn(t *testing.T) {
	r := newBiddingRound(t, Hand{1, 2, 3, 4}, Hand{1, 1, 2, 3})

	for i, ord := range []int{0, 2, 5, 9} {
		seat := r.Active
		if err := r.PlaceBid(seat, ord); err != nil {
			t.Fatalf("bid %d: %v", i, err)
		}
		if r.Active != OpponentOf(seat) {
			t.Errorf("after bid %d active = %d, want %d", i, r.Active, OpponentOf(seat))
		}
		if r.Bidder != int8(seat) {
			t.Errorf("after bid %d bidder = %d, want %d", i, r.Bidder, seat)
		}
	}
	if r.Turn != 4 {
		t.Errorf("Turn = %d, want 4", r.Turn)
	}
}

// TestInvalidBidKeepsTurn covers a stale selection: rejected, same seat still active.
func TestInvalidBidKeepsTurn(t *testing.T) {
	r := newBiddingRound(t, Hand{1, 2, 3, 4}, Hand{1, 1, 2, 3})
	if err := r.PlaceBid(0, 6); err != nil {
		t.Fatalf("PlaceBid: %v", err)
	}
	before := r

	for _, ord := range []int{6, 2, 0} {
		err := r.PlaceBid(1, ord)
		if !errors.Is(err, ErrInvalidBid) {
			t.Fatalf("PlaceBid(1, %d) = %v, want ErrInvalidBid", ord, err)
		}
	}
	if r != before {
		t.Errorf("rejected bids changed the round:\n got %+v\nwant %+v", r, before)
	}
	if r.Active != 1 {
		t.Errorf("Active = %d, want 1", r.Active)
	}
}

func TestWrongSeatRejected(t *testing.T) {
	r := newBiddingRound(t, Hand{1, 2, 3, 4}, Hand{1, 1, 2, 3})
	if err := r.PlaceBid(1, 0); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("opponent bidding first = %v, want ErrNotYourTurn", err)
	}
	if err := r.PlaceBid(0, 0); err != nil {
		t.Fatalf("PlaceBid: %v", err)
	}
	if err := r.Call(0); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("bidder calling own bid = %v, want ErrNotYourTurn", err)
	}
}

func TestPrematureCall(t *testing.T) {
	r := newBiddingRound(t, Hand{1, 2, 3, 4}, Hand{1, 1, 2, 3})
	before := r
	if err := r.Call(0); !errors.Is(err, ErrPrematureCall) {
		t.Fatalf("Call with no bid = %v, want ErrPrematureCall", err)
	}
	if r != before {
		t.Error("premature call changed the round")
	}
}

func TestUnknownAction(t *testing.T) {
	r := newBiddingRound(t, Hand{1, 2, 3, 4}, Hand{1, 1, 2, 3})
	if err := r.ApplyAction(0, NumActions); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("ApplyAction(NumActions) = %v, want ErrUnknownAction", err)
	}
}

// TestCallBidderWins: hands [1,2,3,4] and [1,1,2,3], bid (2,3); two threes → bidder wins.
func TestCallBidderWins(t *testing.T) {
	r := newBiddingRound(t, Hand{1, 2, 3, 4}, Hand{1, 1, 2, 3})
	bid := Bid{Quantity: 2, Face: 3}
	if err := r.PlaceBid(0, bid.Ordinal()); err != nil {
		t.Fatalf("PlaceBid: %v", err)
	}
	if err := r.Call(1); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if r.Phase != PhaseResolved {
		t.Fatalf("Phase = %s, want resolved", r.Phase)
	}
	if r.Winner != 0 {
		t.Errorf("Winner = %d, want bidder 0", r.Winner)
	}
	if r.Active != 1 {
		t.Errorf("Active changed after call: %d", r.Active)
	}
	res, ok := r.Resolution()
	if !ok || !res.BidderWins || res.Actual != 2 || res.Bid != bid {
		t.Errorf("Resolution() = %+v, %v", res, ok)
	}
}

// TestCallCallerWins: same hands, bid (3,3); only two threes → caller wins.
func TestCallCallerWins(t *testing.T) {
	r := newBiddingRound(t, Hand{1, 2, 3, 4}, Hand{1, 1, 2, 3})
	if err := r.PlaceBid(0, 1); err != nil {
		t.Fatalf("PlaceBid: %v", err)
	}
	if err := r.PlaceBid(1, (Bid{Quantity: 3, Face: 3}).Ordinal()); err != nil {
		t.Fatalf("PlaceBid: %v", err)
	}
	if err := r.Call(0); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if r.Winner != 0 || r.Caller != 0 || r.Bidder != 1 {
		t.Errorf("winner/caller/bidder = %d/%d/%d, want 0/0/1", r.Winner, r.Caller, r.Bidder)
	}
	if r.Active != 0 {
		t.Errorf("Active = %d after call, want unchanged 0", r.Active)
	}
}

func TestActionsAfterResolveRejected(t *testing.T) {
	r := newBiddingRound(t, Hand{1, 2, 3, 4}, Hand{1, 1, 2, 3})
	_ = r.PlaceBid(0, 0)
	if err := r.Call(1); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if err := r.PlaceBid(1, 5); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("bid after resolve = %v, want ErrWrongPhase", err)
	}
	if err := r.Abort(AbortTimeout); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("abort after resolve = %v, want ErrWrongPhase", err)
	}
}

func TestTimeOutAborts(t *testing.T) {
	r := newBiddingRound(t, Hand{1, 2, 3, 4}, Hand{1, 1, 2, 3})
	_ = r.PlaceBid(0, 0)
	if err := r.TimeOut(); err != nil {
		t.Fatalf("TimeOut: %v", err)
	}
	if r.Phase != PhaseAborted || r.Reason != AbortTimeout {
		t.Errorf("phase/reason = %s/%s", r.Phase, r.Reason)
	}
	if r.Winner != NoSeat {
		t.Errorf("Winner = %d, want none on timeout", r.Winner)
	}
	if r.Idle != 1 {
		t.Errorf("Idle = %d, want 1", r.Idle)
	}
	if r.Hands[0] != (Hand{1, 2, 3, 4}) || r.Hands[1] != (Hand{1, 1, 2, 3}) {
		t.Error("hands lost on abort")
	}
}

func TestAbortFromDealt(t *testing.T) {
	r := NewRound(NewXorShift(5))
	if err := r.TimeOut(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("TimeOut before bidding = %v, want ErrWrongPhase", err)
	}
	if err := r.Abort(AbortDeliveryFailure); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if r.Phase != PhaseAborted || r.Reason != AbortDeliveryFailure || r.Idle != NoSeat {
		t.Errorf("round after delivery abort = %+v", r)
	}
}

// TestRandomPlayInvariants drives many rounds with arbitrary (often illegal)
// actions and checks the ledger and turn invariants after each step.
func TestRandomPlayInvariants(t *testing.T) {
	rng := NewXorShift(2024)
	for game := 0; game < 300; game++ {
		r := NewRound(rng)
		if err := r.Open(); err != nil {
			t.Fatal(err)
		}
		var accepted []int
		for step := 0; step < 200 && !r.IsTerminal(); step++ {
			seat := uint8(rng.next() % NumPlayers)
			action := uint16(rng.next() % uint64(NumActions+2))
			before := r
			err := r.ApplyAction(seat, action)
			if err != nil {
				if r != before {
					t.Fatalf("game %d step %d: rejected action %d changed state", game, step, action)
				}
				continue
			}
			if ord, ok := ActionIsBid(action); ok {
				if n := len(accepted); n > 0 && ord <= accepted[n-1] {
					t.Fatalf("game %d: accepted ordinal %d after %d", game, ord, accepted[n-1])
				}
				accepted = append(accepted, ord)
				if r.Active == before.Active {
					t.Fatalf("game %d: turn did not alternate after bid", game)
				}
				continue
			}
			// Call.
			if len(accepted) == 0 {
				t.Fatalf("game %d: call accepted with no bid", game)
			}
			if r.Active != before.Active {
				t.Fatalf("game %d: turn changed on call", game)
			}
			res, _ := r.Resolution()
			want := ActualCount(res.Bid.Face, r.Hands[0], r.Hands[1]) >= int(res.Bid.Quantity)
			if res.BidderWins != want {
				t.Fatalf("game %d: bidderWins = %v, want %v", game, res.BidderWins, want)
			}
		}
	}
}
