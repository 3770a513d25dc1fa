package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/solvere/lotledger"
)

type importCmd struct {
	from string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "merge another ledger database into this one" }
func (*importCmd) Usage() string {
	return `lotledger import -from <folder>

  Merges the accounts and disposal journal of another ledger into this
  one. Imported lots are renumbered so they never collide with local
  ones. The source must be quiescent: a ledger with pending operations
  or open orders is rejected.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Database folder of the ledger to import.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" {
		fmt.Fprintln(os.Stderr, "Error: -from is required")
		return subcommands.ExitUsageError
	}
	other, err := lotledger.OpenLedger(c.from)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.Import(other); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %s\n", c.from)
	return subcommands.ExitSuccess
}
