package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/solvere/lotledger"
)

type depositCmd struct {
	asset      string
	exchange   string
	to         string
	method     string
	lastHeight uint64
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record an in-flight deposit into an exchange" }
func (*depositCmd) Usage() string {
	return `lotledger deposit [-asset <symbol>] -exchange <name> -to <address> [-method <m>] [-height <h>] <from-address> <amount> <signature>

  Extracts lots from the source account and holds them until the
  depositing transaction settles. Resolve with confirm-deposit or
  cancel-deposit using the same signature.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", string(lotledger.NativeAsset), "Asset deposited.")
	f.StringVar(&c.exchange, "exchange", "", "Destination exchange name.")
	f.StringVar(&c.to, "to", "", "Exchange deposit address.")
	f.StringVar(&c.method, "method", "fifo", "Lot selection method.")
	f.Uint64Var(&c.lastHeight, "height", 0, "Last valid block height of the transaction.")
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: expected a source address, an amount and a signature")
		return subcommands.ExitUsageError
	}
	method, err := lotledger.ParseLotSelectionMethod(c.method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	asset := lotledger.Asset(c.asset)
	amount, err := parseAmount(asset, f.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.RecordDeposit(f.Arg(2), c.lastHeight, f.Arg(0), asset, amount, c.exchange, c.to, method); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deposit %s pending\n", f.Arg(2))
	return subcommands.ExitSuccess
}

type confirmDepositCmd struct {
	date string
}

func (*confirmDepositCmd) Name() string     { return "confirm-deposit" }
func (*confirmDepositCmd) Synopsis() string { return "resolve a pending deposit that settled" }
func (*confirmDepositCmd) Usage() string {
	return `lotledger confirm-deposit [-date <day>] <signature>

  Lands the held lots on the exchange's deposit account with their
  basis preserved. Fiat-fungible assets are disposed at parity instead.
`
}

func (c *confirmDepositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Settlement date, defaults to today.")
}

func (c *confirmDepositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one signature")
		return subcommands.ExitUsageError
	}
	when, err := parseDay(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.ConfirmDeposit(f.Arg(0), when); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type cancelDepositCmd struct{}

func (*cancelDepositCmd) Name() string     { return "cancel-deposit" }
func (*cancelDepositCmd) Synopsis() string { return "resolve a pending deposit that failed" }
func (*cancelDepositCmd) Usage() string {
	return `lotledger cancel-deposit <signature>

  Returns the held lots to the source account unchanged.
`
}

func (c *cancelDepositCmd) SetFlags(f *flag.FlagSet) {}

func (c *cancelDepositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one signature")
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.CancelDeposit(f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
