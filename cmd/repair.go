package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
)

// Repair commands edit lots directly, outside the normal operation flow.
// They exist to fix ledgers that drifted from on-chain reality.

type moveLotCmd struct{}

func (*moveLotCmd) Name() string     { return "move-lot" }
func (*moveLotCmd) Synopsis() string { return "move a lot to another tracked account" }
func (*moveLotCmd) Usage() string {
	return `lotledger move-lot <number> <to-address>

  Moves a held lot into another tracked account of the same asset,
  keeping its number and acquisition intact.
`
}

func (*moveLotCmd) SetFlags(*flag.FlagSet) {}

func (c *moveLotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected a lot number and a destination address")
		return subcommands.ExitUsageError
	}
	number, err := strconv.ParseUint(f.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid lot number %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.MoveLot(number, f.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type deleteLotCmd struct{}

func (*deleteLotCmd) Name() string     { return "delete-lot" }
func (*deleteLotCmd) Synopsis() string { return "delete a held lot without a disposal record" }
func (*deleteLotCmd) Usage() string {
	return `lotledger delete-lot <number>

  Removes a held lot entirely. Unlike dispose, nothing lands in the
  disposal journal. Use this for lots that never existed on chain.
`
}

func (*deleteLotCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteLotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one lot number")
		return subcommands.ExitUsageError
	}
	number, err := strconv.ParseUint(f.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid lot number %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.DeleteLot(number); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type swapLotsCmd struct{}

func (*swapLotsCmd) Name() string     { return "swap-lots" }
func (*swapLotsCmd) Synopsis() string { return "trade the identities of two lots" }
func (*swapLotsCmd) Usage() string {
	return `lotledger swap-lots <number-a> <number-b>

  Exchanges the numbers and acquisitions of two lots of the same (or
  equivalent) asset. When amounts differ the larger lot splits first so
  matched parts trade identities; the remainder keeps its own history
  under a fresh number. At most one of the two may be disposed.
`
}

func (*swapLotsCmd) SetFlags(*flag.FlagSet) {}

func (c *swapLotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly two lot numbers")
		return subcommands.ExitUsageError
	}
	numberA, err := strconv.ParseUint(f.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid lot number %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
	numberB, err := strconv.ParseUint(f.Arg(1), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid lot number %q\n", f.Arg(1))
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.SwapLots(numberA, numberB); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
