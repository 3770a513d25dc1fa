package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/solvere/lotledger"
)

type transferCmd struct {
	asset      string
	to         string
	method     string
	only       string
	lastHeight uint64
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "record an in-flight transfer between tracked accounts" }
func (*transferCmd) Usage() string {
	return `lotledger transfer [-asset <symbol>] -to <address> [-method <m>] [-lots <n,n,...>] [-height <h>] <from-address> <amount> <signature>

  Extracts lots from the source account and holds them until the
  transferring transaction settles. With -lots only the listed lot
  numbers are eligible donors.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", string(lotledger.NativeAsset), "Asset transferred.")
	f.StringVar(&c.to, "to", "", "Destination address.")
	f.StringVar(&c.method, "method", "fifo", "Lot selection method.")
	f.StringVar(&c.only, "lots", "", "Comma-separated lot numbers eligible for extraction.")
	f.Uint64Var(&c.lastHeight, "height", 0, "Last valid block height of the transaction.")
}

func parseLotNumbers(s string) ([]uint64, error) {
	if s == "" {
		return nil, nil
	}
	var numbers []uint64
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid lot number %q: %w", part, err)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: expected a source address, an amount and a signature")
		return subcommands.ExitUsageError
	}
	method, err := lotledger.ParseLotSelectionMethod(c.method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	only, err := parseLotNumbers(c.only)
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
	if err := l.RecordTransfer(f.Arg(2), c.lastHeight, f.Arg(0), c.to, asset, amount, method, only); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Transfer %s pending\n", f.Arg(2))
	return subcommands.ExitSuccess
}

type confirmTransferCmd struct {
	date string
}

func (*confirmTransferCmd) Name() string     { return "confirm-transfer" }
func (*confirmTransferCmd) Synopsis() string { return "resolve a pending transfer that settled" }
func (*confirmTransferCmd) Usage() string {
	return `lotledger confirm-transfer [-date <day>] <signature>

  Lands the held lots on the destination account, basis preserved.
`
}

func (c *confirmTransferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Settlement date, defaults to today.")
}

func (c *confirmTransferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := l.ConfirmTransfer(f.Arg(0), when); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type cancelTransferCmd struct{}

func (*cancelTransferCmd) Name() string     { return "cancel-transfer" }
func (*cancelTransferCmd) Synopsis() string { return "resolve a pending transfer that expired" }
func (*cancelTransferCmd) Usage() string {
	return `lotledger cancel-transfer <signature>

  Returns the held lots to the source account unchanged.
`
}

func (c *cancelTransferCmd) SetFlags(f *flag.FlagSet) {}

func (c *cancelTransferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one signature")
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.CancelTransfer(f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
