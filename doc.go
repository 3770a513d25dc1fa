// Package lotledger tracks crypto holdings as tax lots. Every
// acquisition creates a lot with its own date, cost basis and kind;
// every disposal consumes lots and records the realized gain. The sum
// of held and disposed amounts always accounts for everything ever
// acquired.
//
// The core functionalities include:
//   - Lot Lifecycle: Recording incomes, disposals and the lot splits
//     that selection methods (FIFO, LIFO, lowest or highest basis)
//     produce when an operation needs part of a lot.
//   - Pending Operations: Two-phase deposits, withdrawals, transfers
//     and swaps across exchange boundaries, each holding the exact
//     lots it took so a cancellation restores them untouched.
//   - Open Orders: Exchange limit orders, with sell orders reserving
//     the lots they offer.
//   - Repairs: Direct lot edits (move, delete, identity swap) for
//     ledgers that drifted from on-chain reality.
//   - Data Persistence: A single JSON snapshot rewritten atomically
//     after every change, plus a separate credentials store.
//
// This package serves as the foundational logic for the `lotledger`
// command-line tool.
package lotledger
