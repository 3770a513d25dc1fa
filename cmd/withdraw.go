package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/solvere/lotledger"
)

type withdrawCmd struct {
	asset    string
	exchange string
	to       string
	fee      string
	method   string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "record an in-flight withdrawal from an exchange" }
func (*withdrawCmd) Usage() string {
	return `lotledger withdraw [-asset <symbol>] -exchange <name> -to <address> [-fee <amount>] [-method <m>] <from-address> <amount> <withdrawal-id>

  Extracts lots from the exchange account and holds them until the
  exchange processes the withdrawal. The fee is peeled off up front;
  on confirmation it is journaled as a withdrawal fee at its own basis.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", string(lotledger.NativeAsset), "Asset withdrawn.")
	f.StringVar(&c.exchange, "exchange", "", "Source exchange name.")
	f.StringVar(&c.to, "to", "", "Destination address.")
	f.StringVar(&c.fee, "fee", "0", "Withdrawal fee withheld by the exchange, in whole units.")
	f.StringVar(&c.method, "method", "fifo", "Lot selection method.")
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: expected a source address, an amount and a withdrawal id")
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
	fee, err := parseAmount(asset, c.fee)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.RecordWithdrawal(c.exchange, f.Arg(2), f.Arg(0), c.to, asset, amount, fee, method); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Withdrawal %s pending\n", f.Arg(2))
	return subcommands.ExitSuccess
}

type confirmWithdrawalCmd struct {
	date string
}

func (*confirmWithdrawalCmd) Name() string     { return "confirm-withdrawal" }
func (*confirmWithdrawalCmd) Synopsis() string { return "resolve a pending withdrawal that settled" }
func (*confirmWithdrawalCmd) Usage() string {
	return `lotledger confirm-withdrawal [-date <day>] <withdrawal-id>

  Lands the held lots at the destination and journals the fee lots as
  withdrawal fees.
`
}

func (c *confirmWithdrawalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Settlement date, defaults to today.")
}

func (c *confirmWithdrawalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one withdrawal id")
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
	if err := l.ConfirmWithdrawal(f.Arg(0), when); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type cancelWithdrawalCmd struct{}

func (*cancelWithdrawalCmd) Name() string     { return "cancel-withdrawal" }
func (*cancelWithdrawalCmd) Synopsis() string { return "resolve a pending withdrawal the exchange rejected" }
func (*cancelWithdrawalCmd) Usage() string {
	return `lotledger cancel-withdrawal <withdrawal-id>

  Returns all held lots, fee included, to the exchange account.
`
}

func (c *cancelWithdrawalCmd) SetFlags(f *flag.FlagSet) {}

func (c *cancelWithdrawalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one withdrawal id")
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.CancelWithdrawal(f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
