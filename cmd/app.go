// Package cmd implements the CLI application to manage a lot ledger.
package cmd

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/solvere/lotledger"
)

// Register the subcommands. A main package calls Register() and then
// Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&trackCmd{}, "accounts")
	c.Register(&untrackCmd{}, "accounts")
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&describeCmd{}, "accounts")
	c.Register(&lotsCmd{}, "accounts")

	c.Register(&incomeCmd{}, "operations")
	c.Register(&disposeCmd{}, "operations")
	c.Register(&disposedCmd{}, "operations")

	c.Register(&depositCmd{}, "operations")
	c.Register(&confirmDepositCmd{}, "operations")
	c.Register(&cancelDepositCmd{}, "operations")
	c.Register(&withdrawCmd{}, "operations")
	c.Register(&confirmWithdrawalCmd{}, "operations")
	c.Register(&cancelWithdrawalCmd{}, "operations")
	c.Register(&transferCmd{}, "operations")
	c.Register(&confirmTransferCmd{}, "operations")
	c.Register(&cancelTransferCmd{}, "operations")
	c.Register(&swapCmd{}, "operations")
	c.Register(&confirmSwapCmd{}, "operations")
	c.Register(&cancelSwapCmd{}, "operations")
	c.Register(&pendingCmd{}, "operations")

	c.Register(&sellCmd{}, "orders")
	c.Register(&buyCmd{}, "orders")
	c.Register(&closeOrderCmd{}, "orders")
	c.Register(&ordersCmd{}, "orders")

	c.Register(&moveLotCmd{}, "repairs")
	c.Register(&deleteLotCmd{}, "repairs")
	c.Register(&swapLotsCmd{}, "repairs")

	c.Register(&importCmd{}, "storage")
	c.Register(&queryCmd{}, "storage")
	c.Register(&setCredentialsCmd{}, "storage")
	c.Register(&clearCredentialsCmd{}, "storage")
	c.Register(&exchangesCmd{}, "storage")
	c.Register(&setTaxRateCmd{}, "storage")
	c.Register(&setSweepStakeCmd{}, "storage")

	c.Register(&topicCmd{}, "documentation")
}

// As a CLI application it has a very short lived lifecycle, so it is ok
// to use global variables.

var dbPath = flag.String("db-path", defaultDBPath(), "Path to the ledger database folder")

func defaultDBPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".lotledger")
	}
	return ".lotledger"
}

// openLedger opens the ledger in the app database folder, creating an
// empty one on first use.
func openLedger() (*lotledger.Ledger, error) {
	return lotledger.OpenLedger(*dbPath)
}
