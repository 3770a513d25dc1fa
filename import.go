package lotledger

// Import merges another ledger's accounts and disposed lots into this
// one, renumbering every lot so numbers stay process-unique. A source
// with unresolved pending operations or open orders is rejected: escrow
// cannot be carried across ledgers.
func (l *Ledger) Import(other *Ledger) error {
	if n := len(other.pendingDeposits) + len(other.pendingWithdrawals) +
		len(other.pendingTransfers) + len(other.pendingSwaps); n > 0 {
		return &ImportError{Reason: "source ledger has unresolved pending operations"}
	}
	if len(other.openOrders) > 0 {
		return &ImportError{Reason: "source ledger has open orders"}
	}

	for _, src := range other.accounts {
		renumbered := make([]Lot, 0, len(src.Lots))
		for _, lot := range src.Lots {
			lot.Number = l.allocateLotNumber()
			renumbered = append(renumbered, lot)
		}
		if dst := l.account(src.Address, src.Asset); dst != nil {
			dst.mergeLots(renumbered)
			if src.LastUpdateEpoch > dst.LastUpdateEpoch {
				dst.LastUpdateEpoch = src.LastUpdateEpoch
			}
		} else {
			merged := l.copyAccount(src)
			merged.Lots = renumbered
			merged.LastUpdateBalance = lots(renumbered).total()
			merged.assertConserved()
			l.mergeAccount(&merged)
		}
	}

	for _, d := range other.disposed {
		d.Lot.Number = l.allocateLotNumber()
		l.disposed = append(l.disposed, d)
	}
	l.sortDisposed()
	return l.save()
}

func (l *Ledger) mergeAccount(a *TrackedAccount) {
	l.accounts = append(l.accounts, a)
	for i := len(l.accounts) - 1; i > 0 && accountBefore(l.accounts[i], l.accounts[i-1]); i-- {
		l.accounts[i], l.accounts[i-1] = l.accounts[i-1], l.accounts[i]
	}
}
