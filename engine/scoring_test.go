package engine

import "testing"

func TestResolve(t *testing.T) {
	h0 := Hand{1, 2, 3, 4}
	h1 := Hand{1, 1, 2, 3}
	cases := []struct {
		name       string
		bid        Bid
		bidderWins bool
	}{
		{"exact count", Bid{Quantity: 2, Face: 3}, true},
		{"overbid", Bid{Quantity: 3, Face: 3}, false},
		{"underbid", Bid{Quantity: 1, Face: 1}, true},
		{"three ones", Bid{Quantity: 3, Face: 1}, true},
		{"four ones", Bid{Quantity: 4, Face: 1}, false},
		{"single four", Bid{Quantity: 1, Face: 4}, true},
		{"two fours", Bid{Quantity: 2, Face: 4}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.bid, h0, h1); got != tc.bidderWins {
				t.Errorf("Resolve(%v) = %v, want %v", tc.bid, got, tc.bidderWins)
			}
		})
	}
}

// TestResolveExhaustive checks the winner rule against a direct count for every
// bid over a sample of dealt hands.
func TestResolveExhaustive(t *testing.T) {
	src := NewXorShift(11)
	for i := 0; i < 200; i++ {
		hands := Deal(src)
		for _, bid := range DefaultCatalog {
			n := 0
			for _, h := range hands {
				for _, f := range h {
					if f == bid.Face {
						n++
					}
				}
			}
			want := n >= int(bid.Quantity)
			if got := Resolve(bid, hands[0], hands[1]); got != want {
				t.Fatalf("hands %v bid %v: Resolve = %v, want %v", hands, bid, got, want)
			}
		}
	}
}

func TestResolutionUnresolved(t *testing.T) {
	r := newBiddingRound(t, Hand{1, 2, 3, 4}, Hand{1, 1, 2, 3})
	if _, ok := r.Resolution(); ok {
		t.Error("Resolution() ok on an open round")
	}
}
