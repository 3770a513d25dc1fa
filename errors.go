package lotledger

import "fmt"

// All errors below are recoverable by the caller: they report a request
// the ledger cannot honor, never an internal inconsistency. The one
// internal fault, a conservation invariant violation, panics instead.

// AccountExistsError reports an attempt to track an already tracked account.
type AccountExistsError struct {
	Address string
	Asset   Asset
}

func (e *AccountExistsError) Error() string {
	return fmt.Sprintf("account %s (%s) already exists", e.Address, e.Asset)
}

// AccountNotFoundError reports an operation on an untracked account.
type AccountNotFoundError struct {
	Address string
	Asset   Asset
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s (%s) does not exist", e.Address, e.Asset)
}

// InsufficientBalanceError reports an extraction larger than the account holds.
type InsufficientBalanceError struct {
	Address   string
	Asset     Asset
	Requested uint64
	Available uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance on %s: requested %s %s, available %s",
		e.Address, e.Asset.Format(e.Requested), e.Asset, e.Asset.Format(e.Available))
}

// PendingNotFoundError reports a confirm or cancel of an unknown, or
// already resolved, pending operation.
type PendingNotFoundError struct {
	Kind string // "deposit", "withdrawal", "transfer" or "swap"
	Key  string // the operation's idempotency key
}

func (e *PendingNotFoundError) Error() string {
	return fmt.Sprintf("pending %s not found: %q", e.Kind, e.Key)
}

// OpenOrderNotFoundError reports a close of an unknown order.
type OpenOrderNotFoundError struct {
	OrderID string
}

func (e *OpenOrderNotFoundError) Error() string {
	return fmt.Sprintf("open order not found: %q", e.OrderID)
}

// LotSwapError reports a failed lot-identity swap repair.
type LotSwapError struct{ Reason string }

func (e *LotSwapError) Error() string { return "lot swap failed: " + e.Reason }

// LotMoveError reports a failed lot move repair.
type LotMoveError struct{ Reason string }

func (e *LotMoveError) Error() string { return "lot move failed: " + e.Reason }

// LotDeleteError reports a failed lot deletion.
type LotDeleteError struct{ Reason string }

func (e *LotDeleteError) Error() string { return "lot delete failed: " + e.Reason }

// ImportError reports a rejected ledger import.
type ImportError struct{ Reason string }

func (e *ImportError) Error() string { return "import failed: " + e.Reason }
