package lotledger

import "fmt"

// Administrative repairs. Lot identity is sometimes assigned
// speculatively during saga confirmation before the true counterpart lot
// is known; these operations fix the record after the fact.

// MoveLot relocates one lot to a different tracked account of the same
// asset, adjusting both balances.
func (l *Ledger) MoveLot(number uint64, toAddress string) error {
	from, i := l.findHeldLot(number)
	if from == nil {
		return &LotMoveError{Reason: fmt.Sprintf("unknown lot %d", number)}
	}
	if from.Address == toAddress {
		return &LotMoveError{Reason: "destination equals source"}
	}
	to := l.account(toAddress, from.Asset)
	if to == nil {
		return &LotMoveError{Reason: fmt.Sprintf("no %s account at %s", from.Asset, toAddress)}
	}
	lot := from.Lots[i]
	from.Lots = append(from.Lots[:i], from.Lots[i+1:]...)
	from.LastUpdateBalance -= lot.Amount
	from.assertConserved()
	to.mergeLots([]Lot{lot})
	return l.save()
}

// DeleteLot permanently removes one lot without a disposal record. This
// corrects erroneous entries; it does not record a real disposal.
func (l *Ledger) DeleteLot(number uint64) error {
	a, i := l.findHeldLot(number)
	if a == nil {
		return &LotDeleteError{Reason: fmt.Sprintf("unknown lot %d", number)}
	}
	amount := a.Lots[i].Amount
	a.Lots = append(a.Lots[:i], a.Lots[i+1:]...)
	a.LastUpdateBalance -= amount
	a.assertConserved()
	return l.save()
}

// SwapLots exchanges the identity (lot number and acquisition record)
// between two lots recorded against the wrong holding. One of the two
// may be an already-disposed lot; never both. When the amounts differ
// the larger side is split first and its remainder keeps a freshly
// allocated identifier.
func (l *Ledger) SwapLots(numberA, numberB uint64) error {
	if numberA == numberB {
		return &LotSwapError{Reason: "lot swapped with itself"}
	}
	accA, iA := l.findHeldLot(numberA)
	accB, iB := l.findHeldLot(numberB)
	dA := l.findDisposedLot(numberA)
	dB := l.findDisposedLot(numberB)

	switch {
	case accA == nil && dA < 0:
		return &LotSwapError{Reason: fmt.Sprintf("unknown lot %d", numberA)}
	case accB == nil && dB < 0:
		return &LotSwapError{Reason: fmt.Sprintf("unknown lot %d", numberB)}
	case accA == nil && accB == nil:
		return &LotSwapError{Reason: "both lots already disposed"}
	}

	if accA != nil && accB != nil {
		if !accA.Asset.EquivalentTo(accB.Asset) {
			return &LotSwapError{Reason: fmt.Sprintf("token mismatch: %s != %s", accA.Asset, accB.Asset)}
		}
		l.equalizeHeld(accA, &iA, accB, &iB)
		a, b := &accA.Lots[iA], &accB.Lots[iB]
		a.Number, b.Number = b.Number, a.Number
		a.Acquisition, b.Acquisition = b.Acquisition, a.Acquisition
		lots(accA.Lots).sortByAcquisition()
		lots(accB.Lots).sortByAcquisition()
		accA.assertConserved()
		accB.assertConserved()
		return l.save()
	}

	// One side is disposed: normalize so acc holds the live lot and d
	// the disposed one.
	acc, i := accA, iA
	d := dB
	if acc == nil {
		acc, i = accB, iB
		d = dA
	}
	if !acc.Asset.EquivalentTo(l.disposed[d].Asset) {
		return &LotSwapError{Reason: fmt.Sprintf("token mismatch: %s != %s", acc.Asset, l.disposed[d].Asset)}
	}
	if acc.Lots[i].Acquisition.When.After(l.disposed[d].When) {
		return &LotSwapError{Reason: fmt.Sprintf("lot %d acquired after disposal date %s",
			acc.Lots[i].Number, l.disposed[d].When)}
	}

	// Equalize amounts, splitting the larger side.
	switch {
	case acc.Lots[i].Amount > l.disposed[d].Lot.Amount:
		remainder := acc.Lots[i]
		remainder.Number = l.allocateLotNumber()
		remainder.Amount -= l.disposed[d].Lot.Amount
		acc.Lots[i].Amount = l.disposed[d].Lot.Amount
		acc.Lots = append(acc.Lots, remainder)
		acc.assertConserved()
	case acc.Lots[i].Amount < l.disposed[d].Lot.Amount:
		remainder := l.disposed[d]
		remainder.Lot.Number = l.allocateLotNumber()
		remainder.Lot.Amount -= acc.Lots[i].Amount
		l.disposed[d].Lot.Amount = acc.Lots[i].Amount
		l.disposed = append(l.disposed, remainder)
	}

	held := &acc.Lots[i]
	disposed := &l.disposed[d].Lot
	held.Number, disposed.Number = disposed.Number, held.Number
	held.Acquisition, disposed.Acquisition = disposed.Acquisition, held.Acquisition
	lots(acc.Lots).sortByAcquisition()
	l.sortDisposed()
	acc.assertConserved()
	return l.save()
}

// equalizeHeld splits the larger of two held lots so both have the same
// amount, leaving the remainder with a fresh identifier.
func (l *Ledger) equalizeHeld(accA *TrackedAccount, iA *int, accB *TrackedAccount, iB *int) {
	a, b := accA.Lots[*iA], accB.Lots[*iB]
	switch {
	case a.Amount > b.Amount:
		remainder := a
		remainder.Number = l.allocateLotNumber()
		remainder.Amount = a.Amount - b.Amount
		accA.Lots[*iA].Amount = b.Amount
		accA.Lots = append(accA.Lots, remainder)
	case b.Amount > a.Amount:
		remainder := b
		remainder.Number = l.allocateLotNumber()
		remainder.Amount = b.Amount - a.Amount
		accB.Lots[*iB].Amount = a.Amount
		accB.Lots = append(accB.Lots, remainder)
	}
}

// findHeldLot locates the account holding the lot, and its index there.
func (l *Ledger) findHeldLot(number uint64) (*TrackedAccount, int) {
	for _, a := range l.accounts {
		if i := lots(a.Lots).find(number); i >= 0 {
			return a, i
		}
	}
	return nil, -1
}

// findDisposedLot locates a lot in the disposal journal, or -1.
func (l *Ledger) findDisposedLot(number uint64) int {
	for i, d := range l.disposed {
		if d.Lot.Number == number {
			return i
		}
	}
	return -1
}
