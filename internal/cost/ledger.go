// Package cost tracks simulated Apollo credit consumption across a batch.
package cost

// DefaultUnlockCost is the simulated credit price of one successful
// mobile unlock.
const DefaultUnlockCost = 1

// Ledger accumulates credits spent over a batch. It is charged exactly once
// per successful mobile unlock and never decremented. The batch runner
// processes rows strictly in sequence, so the ledger needs no locking; a
// concurrent runner would have to add mutual exclusion around ChargeUnlock
// and define an attribution order for per-row cumulative totals.
type Ledger struct {
	unlockCost int
	total      int
}

// NewLedger creates a Ledger with the given per-unlock cost. A non-positive
// cost falls back to DefaultUnlockCost.
func NewLedger(unlockCost int) *Ledger {
	if unlockCost <= 0 {
		unlockCost = DefaultUnlockCost
	}
	return &Ledger{unlockCost: unlockCost}
}

// ChargeUnlock records one successful mobile unlock and returns the new
// cumulative total.
func (l *Ledger) ChargeUnlock() int {
	l.total += l.unlockCost
	return l.total
}

// Total returns the cumulative credits spent so far.
func (l *Ledger) Total() int {
	return l.total
}
