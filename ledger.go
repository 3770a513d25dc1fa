package lotledger

import (
	"sort"
)

// creditScoreRetentionEpochs is how many epochs of validator credit
// scores are kept before pruning.
const creditScoreRetentionEpochs = 10

// Ledger is the authoritative record of lots held across tracked
// accounts, pending operations, open orders, and disposals.
//
// The ledger is single-threaded and synchronous: it assumes exactly one
// owner at a time and performs no locking. Every mutating call ends with
// a snapshot write unless the caller has batched several mutations under
// DisableAutoSave/EnableAutoSave.
type Ledger struct {
	path     string // snapshot directory; empty for an in-memory ledger
	autoSave bool
	dirty    bool

	nextLotNumber uint64
	accounts      []*TrackedAccount // sorted by (address, asset)
	disposed      []DisposedLot

	pendingDeposits    []PendingDeposit
	pendingWithdrawals []PendingWithdrawal
	pendingTransfers   []PendingTransfer
	pendingSwaps       []PendingSwap
	openOrders         []OpenOrder

	sweepStakeAccount string
	taxRate           *TaxRate
	creditScores      map[uint64][]ValidatorCreditScore // keyed by epoch

	// The credentials store lives in its own file, written immediately
	// on change, outside the snapshot's conservation guarantees.
	credentials map[string]ExchangeCredentials
	metrics     *MetricsConfig
}

// NewLedger creates an empty in-memory ledger. Use OpenLedger to load
// or create a persisted one.
func NewLedger() *Ledger {
	return &Ledger{
		autoSave:      true,
		nextLotNumber: 1,
		creditScores:  make(map[uint64][]ValidatorCreditScore),
		credentials:   make(map[string]ExchangeCredentials),
	}
}

// allocateLotNumber returns the next lot number. Numbers are monotonic
// and never reused, even across restarts: the counter is persisted.
func (l *Ledger) allocateLotNumber() uint64 {
	n := l.nextLotNumber
	l.nextLotNumber++
	return n
}

// DisableAutoSave suspends snapshot writes so that several mutations can
// be grouped under a single save. If the process crashes mid-group the
// snapshot keeps the pre-group state in full.
func (l *Ledger) DisableAutoSave() { l.autoSave = false }

// EnableAutoSave resumes snapshot writes, flushing any mutation made
// while saving was suspended.
func (l *Ledger) EnableAutoSave() error {
	l.autoSave = true
	if l.dirty {
		return l.save()
	}
	return nil
}

func (l *Ledger) save() error {
	if !l.autoSave {
		l.dirty = true
		return nil
	}
	l.dirty = false
	if l.path == "" {
		return nil
	}
	return l.writeSnapshot()
}

func accountBefore(a, b *TrackedAccount) bool {
	if a.Address != b.Address {
		return a.Address < b.Address
	}
	return a.Asset < b.Asset
}

func (l *Ledger) account(address string, asset Asset) *TrackedAccount {
	for _, a := range l.accounts {
		if a.Address == address && a.Asset == asset {
			return a
		}
	}
	return nil
}

// AddAccount starts tracking an account. The account's balance and lots
// must already conserve.
func (l *Ledger) AddAccount(account TrackedAccount) error {
	if l.account(account.Address, account.Asset) != nil {
		return &AccountExistsError{Address: account.Address, Asset: account.Asset}
	}
	account.assertConserved()
	l.accounts = append(l.accounts, &account)
	sort.SliceStable(l.accounts, func(i, j int) bool { return accountBefore(l.accounts[i], l.accounts[j]) })
	return l.save()
}

// RemoveAccount stops tracking an account. Its lots are dropped without
// a disposal record.
func (l *Ledger) RemoveAccount(address string, asset Asset) error {
	for i, a := range l.accounts {
		if a.Address == address && a.Asset == asset {
			l.accounts = append(l.accounts[:i], l.accounts[i+1:]...)
			return l.save()
		}
	}
	return &AccountNotFoundError{Address: address, Asset: asset}
}

// Account returns a copy of the tracked account, or false.
func (l *Ledger) Account(address string, asset Asset) (TrackedAccount, bool) {
	a := l.account(address, asset)
	if a == nil {
		return TrackedAccount{}, false
	}
	return l.copyAccount(a), true
}

func (l *Ledger) copyAccount(a *TrackedAccount) TrackedAccount {
	c := *a
	c.Lots = append([]Lot(nil), a.Lots...)
	return c
}

// Accounts returns copies of all tracked accounts, sorted by address
// then asset.
func (l *Ledger) Accounts() []TrackedAccount {
	out := make([]TrackedAccount, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, l.copyAccount(a))
	}
	return out
}

// AccountsForAddress returns copies of all tracked accounts of one address.
func (l *Ledger) AccountsForAddress(address string) []TrackedAccount {
	var out []TrackedAccount
	for _, a := range l.accounts {
		if a.Address == address {
			out = append(out, l.copyAccount(a))
		}
	}
	return out
}

// SetAccountDescription updates the human description of an account.
func (l *Ledger) SetAccountDescription(address string, asset Asset, description string) error {
	a := l.account(address, asset)
	if a == nil {
		return &AccountNotFoundError{Address: address, Asset: asset}
	}
	a.Description = description
	return l.save()
}

// SetAccountNoSync flags an account as excluded from balance syncing.
func (l *Ledger) SetAccountNoSync(address string, asset Asset, noSync bool) error {
	a := l.account(address, asset)
	if a == nil {
		return &AccountNotFoundError{Address: address, Asset: asset}
	}
	a.NoSync = noSync
	return l.save()
}

// SetAccountSyncPoint records the last externally observed sync point of
// an account.
func (l *Ledger) SetAccountSyncPoint(address string, asset Asset, epoch uint64) error {
	a := l.account(address, asset)
	if a == nil {
		return &AccountNotFoundError{Address: address, Asset: asset}
	}
	a.LastUpdateEpoch = epoch
	return l.save()
}

// RecordIncome creates a new lot on an account from an external
// acquisition: an epoch reward, a received transaction, a fill, fiat.
func (l *Ledger) RecordIncome(address string, asset Asset, amount uint64, acquisition Acquisition) error {
	a := l.account(address, asset)
	if a == nil {
		return &AccountNotFoundError{Address: address, Asset: asset}
	}
	a.mergeLots([]Lot{{
		Number:      l.allocateLotNumber(),
		Amount:      amount,
		Acquisition: acquisition,
	}})
	return l.save()
}

// RecordDisposal extracts lots and journals each as disposed with the
// given reason and realized price. This is the direct path for value
// spent or sold outside the saga model, like a network fee.
func (l *Ledger) RecordDisposal(address string, asset Asset, amount uint64, method LotSelectionMethod, when Date, price Money, kind DisposalKind) ([]DisposedLot, error) {
	a := l.account(address, asset)
	if a == nil {
		return nil, &AccountNotFoundError{Address: address, Asset: asset}
	}
	extracted, err := a.extractLots(amount, method, nil, l.allocateLotNumber)
	if err != nil {
		return nil, err
	}
	disposed := l.dispose(extracted, asset, when, price, kind)
	return disposed, l.save()
}

// dispose journals extracted lots as disposed. Callers own the save.
func (l *Ledger) dispose(ls []Lot, asset Asset, when Date, price Money, kind DisposalKind) []DisposedLot {
	disposed := make([]DisposedLot, 0, len(ls))
	for _, lot := range ls {
		disposed = append(disposed, DisposedLot{
			Lot:   lot,
			Asset: asset,
			When:  when,
			Price: price,
			Kind:  kind,
		})
	}
	l.disposed = append(l.disposed, disposed...)
	l.sortDisposed()
	return disposed
}

func (l *Ledger) sortDisposed() {
	sort.SliceStable(l.disposed, func(i, j int) bool {
		if l.disposed[i].When != l.disposed[j].When {
			return l.disposed[i].When.Before(l.disposed[j].When)
		}
		return l.disposed[i].Lot.Number < l.disposed[j].Lot.Number
	})
}

// DisposedLots returns all disposed lots, sorted by disposal date.
func (l *Ledger) DisposedLots() []DisposedLot {
	return append([]DisposedLot(nil), l.disposed...)
}

// SetSweepStakeAccount records the stake account that receives sweeps.
func (l *Ledger) SetSweepStakeAccount(address string) error {
	l.sweepStakeAccount = address
	return l.save()
}

// SweepStakeAccount returns the recorded sweep stake account, or "".
func (l *Ledger) SweepStakeAccount() string { return l.sweepStakeAccount }

// SetTaxRate records the informational tax rates. The ledger never
// applies them; rate application is external.
func (l *Ledger) SetTaxRate(rate TaxRate) error {
	l.taxRate = &rate
	return l.save()
}

// TaxRates returns the recorded tax rates, or nil.
func (l *Ledger) TaxRates() *TaxRate {
	if l.taxRate == nil {
		return nil
	}
	rate := *l.taxRate
	return &rate
}

// SetValidatorCreditScores caches the validator credit scores observed
// at an epoch, pruning epochs that fell out of the retention window.
func (l *Ledger) SetValidatorCreditScores(epoch uint64, scores []ValidatorCreditScore) error {
	l.creditScores[epoch] = append([]ValidatorCreditScore(nil), scores...)
	for e := range l.creditScores {
		if e+creditScoreRetentionEpochs <= epoch {
			delete(l.creditScores, e)
		}
	}
	return l.save()
}

// ValidatorCreditScores returns the cached scores for an epoch, or nil.
func (l *Ledger) ValidatorCreditScores(epoch uint64) []ValidatorCreditScore {
	return append([]ValidatorCreditScore(nil), l.creditScores[epoch]...)
}
