package engine

import (
	"errors"
	"fmt"
)

// NoBid is the ledger sentinel before any bid has been accepted.
const NoBid = -1

// ErrInvalidBid is returned when a bid does not strictly exceed the last accepted bid.
var ErrInvalidBid = errors.New("bid does not exceed the last bid")

// Catalog is the fixed, totally ordered list of every possible bid.
type Catalog [NumBids]Bid

// DefaultCatalog is enumerated once: quantity ascending, then face ascending.
var DefaultCatalog = newCatalog()

func newCatalog() Catalog {
	var c Catalog
	i := 0
	for q := uint8(1); q <= MaxQuantity; q++ {
		for f := Face(1); f <= NumFaces; f++ {
			c[i] = Bid{Quantity: q, Face: f}
			i++
		}
	}
	return c
}

// At returns the bid at ordinal, or false if ordinal is outside the catalog.
func (c *Catalog) At(ordinal int) (Bid, bool) {
	if ordinal < 0 || ordinal >= NumBids {
		return Bid{}, false
	}
	return c[ordinal], true
}

// From returns every bid ranked above last, in increasing order.
// From(NoBid) is the whole catalog.
func (c *Catalog) From(last int) []Bid {
	if last < NoBid {
		last = NoBid
	}
	if last >= NumBids-1 {
		return nil
	}
	out := make([]Bid, NumBids-last-1)
	copy(out, c[last+1:])
	return out
}

// Ledger records the accepted bids of a round. It is a flat value; since
// ordinals strictly increase it never holds more than NumBids entries.
// Construct with NewLedger.
type Ledger struct {
	last    int
	history [NumBids]uint8
	n       uint8
}

// NewLedger returns a ledger with no bid placed.
func NewLedger() Ledger {
	return Ledger{last: NoBid}
}

// Last returns the ordinal of the last accepted bid, or NoBid.
func (l *Ledger) Last() int { return l.last }

// LastBid returns the last accepted bid, if any.
func (l *Ledger) LastBid() (Bid, bool) {
	if l.last == NoBid {
		return Bid{}, false
	}
	return DefaultCatalog.At(l.last)
}

// ValidNext lists the bids the active player may place next.
func (l *Ledger) ValidNext() []Bid { return DefaultCatalog.From(l.last) }

// CanCall reports whether a call is allowed, i.e. some bid exists.
func (l *Ledger) CanCall() bool { return l.last != NoBid }

// Accept records ordinal as the new last bid. It fails with ErrInvalidBid unless
// ordinal is a catalog entry strictly above the current last bid.
func (l *Ledger) Accept(ordinal int) error {
	if ordinal < 0 || ordinal >= NumBids {
		return fmt.Errorf("ordinal %d outside catalog: %w", ordinal, ErrInvalidBid)
	}
	if ordinal <= l.last {
		return fmt.Errorf("ordinal %d, last %d: %w", ordinal, l.last, ErrInvalidBid)
	}
	l.last = ordinal
	l.history[l.n] = uint8(ordinal)
	l.n++
	return nil
}

// Len returns how many bids have been accepted.
func (l *Ledger) Len() int { return int(l.n) }

// History returns the accepted bids in order.
func (l *Ledger) History() []Bid {
	out := make([]Bid, l.n)
	for i := uint8(0); i < l.n; i++ {
		out[i] = DefaultCatalog[l.history[i]]
	}
	return out
}
