package lotledger

// Saga transitions. Each operation kind follows the same three-step
// shape: record extracts lots from the source account and journals an
// immutable pending record keyed by the operation's idempotency key;
// confirm, once the external system settled, routes the held lots to
// their destination; cancel merges them back into the source unchanged.
// A key resolves exactly once: resolving it again fails with
// PendingNotFoundError. Two in-flight operations never share lots.

// RecordDeposit extracts lots for a deposit into an exchange and holds
// them until the depositing transaction settles.
func (l *Ledger) RecordDeposit(signature string, lastValidBlockHeight uint64, fromAddress string, asset Asset, amount uint64, exchange, toAddress string, method LotSelectionMethod) error {
	from := l.account(fromAddress, asset)
	if from == nil {
		return &AccountNotFoundError{Address: fromAddress, Asset: asset}
	}
	extracted, err := from.extractLots(amount, method, nil, l.allocateLotNumber)
	if err != nil {
		return err
	}
	l.pendingDeposits = append(l.pendingDeposits, PendingDeposit{
		Signature:            signature,
		LastValidBlockHeight: lastValidBlockHeight,
		Exchange:             exchange,
		FromAddress:          fromAddress,
		ToAddress:            toAddress,
		Asset:                asset,
		Lots:                 extracted,
	})
	return l.save()
}

// ConfirmDeposit resolves a pending deposit: the held lots land on the
// exchange's deposit account, preserving their basis. Fiat-fungible
// assets are instead disposed as a plain conversion, their lot-level
// basis is meaningless.
func (l *Ledger) ConfirmDeposit(signature string, when Date) error {
	d, ok := l.takePendingDeposit(signature)
	if !ok {
		return &PendingNotFoundError{Kind: "deposit", Key: signature}
	}
	if d.Asset.FiatFungible() {
		l.dispose(d.Lots, d.Asset, when, M(1, "USD"), OtherDisposal{
			Description: "deposit into " + d.Exchange,
		})
		return l.save()
	}
	l.mergeAt(d.ToAddress, d.Asset, d.Exchange+" deposits", d.Lots)
	return l.save()
}

// CancelDeposit resolves a pending deposit that did not land: the held
// lots return to the source account unchanged.
func (l *Ledger) CancelDeposit(signature string) error {
	d, ok := l.takePendingDeposit(signature)
	if !ok {
		return &PendingNotFoundError{Kind: "deposit", Key: signature}
	}
	l.mergeAt(d.FromAddress, d.Asset, "", d.Lots)
	return l.save()
}

// PendingDeposits lists pending deposits, filtered by exchange unless
// exchange is empty.
func (l *Ledger) PendingDeposits(exchange string) []PendingDeposit {
	var out []PendingDeposit
	for _, d := range l.pendingDeposits {
		if exchange == "" || d.Exchange == exchange {
			out = append(out, d)
		}
	}
	return out
}

func (l *Ledger) takePendingDeposit(signature string) (PendingDeposit, bool) {
	for i, d := range l.pendingDeposits {
		if d.Signature == signature {
			l.pendingDeposits = append(l.pendingDeposits[:i], l.pendingDeposits[i+1:]...)
			return d, true
		}
	}
	return PendingDeposit{}, false
}

// RecordWithdrawal extracts lots for a withdrawal from an exchange. The
// fee is peeled off up front: the pending record holds amount-fee worth
// of lots for the destination and the fee's worth separately.
func (l *Ledger) RecordWithdrawal(exchange, withdrawalID, fromAddress, toAddress string, asset Asset, amount, fee uint64, method LotSelectionMethod) error {
	from := l.account(fromAddress, asset)
	if from == nil {
		return &AccountNotFoundError{Address: fromAddress, Asset: asset}
	}
	extracted, err := from.extractLots(amount, method, nil, l.allocateLotNumber)
	if err != nil {
		return err
	}
	var feeLots lots
	held := lots(extracted)
	if fee > 0 {
		feeLots, held = extract(held, fee, method, nil, l.allocateLotNumber)
	}
	l.pendingWithdrawals = append(l.pendingWithdrawals, PendingWithdrawal{
		WithdrawalID: withdrawalID,
		Exchange:     exchange,
		FromAddress:  fromAddress,
		ToAddress:    toAddress,
		Asset:        asset,
		Lots:         held,
		FeeLots:      feeLots,
	})
	return l.save()
}

// ConfirmWithdrawal resolves a pending withdrawal: the fee lots are
// journaled as withdrawal fees at their own acquisition price (no gain
// is realized on a fee) and the rest lands at the destination.
func (l *Ledger) ConfirmWithdrawal(withdrawalID string, when Date) error {
	w, ok := l.takePendingWithdrawal(withdrawalID)
	if !ok {
		return &PendingNotFoundError{Kind: "withdrawal", Key: withdrawalID}
	}
	for _, feeLot := range w.FeeLots {
		l.dispose([]Lot{feeLot}, w.Asset, when, feeLot.Acquisition.Price, WithdrawalFee{
			WithdrawalID: w.WithdrawalID,
		})
	}
	l.mergeAt(w.ToAddress, w.Asset, "", w.Lots)
	return l.save()
}

// CancelWithdrawal resolves a pending withdrawal that the exchange
// rejected: all lots, fee included, return to the exchange account.
func (l *Ledger) CancelWithdrawal(withdrawalID string) error {
	w, ok := l.takePendingWithdrawal(withdrawalID)
	if !ok {
		return &PendingNotFoundError{Kind: "withdrawal", Key: withdrawalID}
	}
	l.mergeAt(w.FromAddress, w.Asset, "", append(append([]Lot(nil), w.Lots...), w.FeeLots...))
	return l.save()
}

// PendingWithdrawals lists pending withdrawals, filtered by exchange
// unless exchange is empty.
func (l *Ledger) PendingWithdrawals(exchange string) []PendingWithdrawal {
	var out []PendingWithdrawal
	for _, w := range l.pendingWithdrawals {
		if exchange == "" || w.Exchange == exchange {
			out = append(out, w)
		}
	}
	return out
}

func (l *Ledger) takePendingWithdrawal(withdrawalID string) (PendingWithdrawal, bool) {
	for i, w := range l.pendingWithdrawals {
		if w.WithdrawalID == withdrawalID {
			l.pendingWithdrawals = append(l.pendingWithdrawals[:i], l.pendingWithdrawals[i+1:]...)
			return w, true
		}
	}
	return PendingWithdrawal{}, false
}

// RecordTransfer extracts lots for a transfer between two tracked
// accounts of the same asset. When only is non-empty, only the listed
// lot numbers are eligible donors.
func (l *Ledger) RecordTransfer(signature string, lastValidBlockHeight uint64, fromAddress, toAddress string, asset Asset, amount uint64, method LotSelectionMethod, only []uint64) error {
	from := l.account(fromAddress, asset)
	if from == nil {
		return &AccountNotFoundError{Address: fromAddress, Asset: asset}
	}
	extracted, err := from.extractLots(amount, method, only, l.allocateLotNumber)
	if err != nil {
		return err
	}
	l.pendingTransfers = append(l.pendingTransfers, PendingTransfer{
		Signature:            signature,
		LastValidBlockHeight: lastValidBlockHeight,
		FromAddress:          fromAddress,
		ToAddress:            toAddress,
		Asset:                asset,
		Lots:                 extracted,
	})
	return l.save()
}

// ConfirmTransfer resolves a pending transfer: the held lots land on the
// destination account with their basis preserved.
func (l *Ledger) ConfirmTransfer(signature string, when Date) error {
	t, ok := l.takePendingTransfer(signature)
	if !ok {
		return &PendingNotFoundError{Kind: "transfer", Key: signature}
	}
	l.mergeAt(t.ToAddress, t.Asset, "", t.Lots)
	return l.save()
}

// CancelTransfer resolves a pending transfer that expired or failed.
func (l *Ledger) CancelTransfer(signature string) error {
	t, ok := l.takePendingTransfer(signature)
	if !ok {
		return &PendingNotFoundError{Kind: "transfer", Key: signature}
	}
	l.mergeAt(t.FromAddress, t.Asset, "", t.Lots)
	return l.save()
}

// PendingTransfers lists all pending transfers.
func (l *Ledger) PendingTransfers() []PendingTransfer {
	return append([]PendingTransfer(nil), l.pendingTransfers...)
}

func (l *Ledger) takePendingTransfer(signature string) (PendingTransfer, bool) {
	for i, t := range l.pendingTransfers {
		if t.Signature == signature {
			l.pendingTransfers = append(l.pendingTransfers[:i], l.pendingTransfers[i+1:]...)
			return t, true
		}
	}
	return PendingTransfer{}, false
}

// RecordSwap extracts lots for a token swap on one address, remembering
// both observed prices and the selection method so a partial fill can be
// apportioned at confirmation.
func (l *Ledger) RecordSwap(signature string, lastValidBlockHeight uint64, address string, fromAsset, toAsset Asset, amount uint64, fromPrice, toPrice Money, method LotSelectionMethod) error {
	from := l.account(address, fromAsset)
	if from == nil {
		return &AccountNotFoundError{Address: address, Asset: fromAsset}
	}
	extracted, err := from.extractLots(amount, method, nil, l.allocateLotNumber)
	if err != nil {
		return err
	}
	l.pendingSwaps = append(l.pendingSwaps, PendingSwap{
		Signature:            signature,
		LastValidBlockHeight: lastValidBlockHeight,
		Address:              address,
		FromAsset:            fromAsset,
		ToAsset:              toAsset,
		FromPrice:            fromPrice,
		ToPrice:              toPrice,
		Method:               method,
		Lots:                 extracted,
	})
	return l.save()
}

// ConfirmSwap resolves a pending swap with the amounts that actually
// swapped. The swapped-out lots are disposed at the pre-swap price and
// one new lot is created on the destination account at the post-swap
// price. When the swap was partial, the stored selection method
// apportions the held lots and the unswapped remainder returns to the
// source.
func (l *Ledger) ConfirmSwap(signature string, when Date, fromAmount, toAmount uint64) error {
	s, ok := l.takePendingSwap(signature)
	if !ok {
		return &PendingNotFoundError{Kind: "swap", Key: signature}
	}
	swapped := lots(s.Lots)
	held := swapped.total()
	if fromAmount < held {
		var returned lots
		swapped, returned = extract(swapped, fromAmount, s.Method, nil, l.allocateLotNumber)
		l.mergeAt(s.Address, s.FromAsset, "", returned)
	}
	l.dispose(swapped, s.FromAsset, when, s.FromPrice, SwapSent{Signature: s.Signature})
	if toAmount > 0 {
		l.mergeAt(s.Address, s.ToAsset, "", []Lot{{
			Number: l.allocateLotNumber(),
			Amount: toAmount,
			Acquisition: Acquisition{
				When:  when,
				Price: s.ToPrice,
				Kind:  SwapReceived{Signature: s.Signature},
			},
		}})
	}
	return l.save()
}

// CancelSwap resolves a pending swap that expired or failed: the source
// account returns to its pre-swap lot set exactly.
func (l *Ledger) CancelSwap(signature string) error {
	s, ok := l.takePendingSwap(signature)
	if !ok {
		return &PendingNotFoundError{Kind: "swap", Key: signature}
	}
	l.mergeAt(s.Address, s.FromAsset, "", s.Lots)
	return l.save()
}

// PendingSwaps lists all pending swaps.
func (l *Ledger) PendingSwaps() []PendingSwap {
	return append([]PendingSwap(nil), l.pendingSwaps...)
}

func (l *Ledger) takePendingSwap(signature string) (PendingSwap, bool) {
	for i, s := range l.pendingSwaps {
		if s.Signature == signature {
			l.pendingSwaps = append(l.pendingSwaps[:i], l.pendingSwaps[i+1:]...)
			return s, true
		}
	}
	return PendingSwap{}, false
}

// mergeAt merges lots into the (address, asset) account, creating it on
// the fly when a saga lands lots on a previously untracked destination.
func (l *Ledger) mergeAt(address string, asset Asset, description string, ls []Lot) {
	a := l.account(address, asset)
	if a == nil {
		a = &TrackedAccount{Address: address, Asset: asset, Description: description}
		l.mergeAccount(a)
	}
	a.mergeLots(ls)
}
