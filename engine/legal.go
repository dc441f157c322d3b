package engine

// LegalActions returns a bitmask of legal action indices for the active seat.
// Bit i is set if action i is legal. Zero outside PhaseBidding.
func (r *Round) LegalActions() uint32 {
	var mask uint32
	if r.Phase != PhaseBidding {
		return mask
	}
	if r.Ledger.CanCall() {
		mask |= 1 << ActionCall
	}
	for ord := r.Ledger.Last() + 1; ord < NumBids; ord++ {
		mask |= 1 << EncodeBid(ord)
	}
	return mask
}

// LegalActionsList returns legal actions as a slice (allocates).
func (r *Round) LegalActionsList() []uint16 {
	mask := r.LegalActions()
	var actions []uint16
	for i := uint16(0); i < NumActions; i++ {
		if mask>>i&1 == 1 {
			actions = append(actions, i)
		}
	}
	return actions
}

// IsLegal reports whether actionIdx is legal for the active seat.
func (r *Round) IsLegal(actionIdx uint16) bool {
	if actionIdx >= NumActions {
		return false
	}
	return r.LegalActions()>>actionIdx&1 == 1
}

// LegalBids lists the bids the active seat may place.
func (r *Round) LegalBids() []Bid {
	if r.Phase != PhaseBidding {
		return nil
	}
	return r.Ledger.ValidNext()
}
