package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/solvere/lotledger"
)

type swapCmd struct {
	fromAsset  string
	toAsset    string
	fromPrice  string
	toPrice    string
	currency   string
	method     string
	lastHeight uint64
}

func (*swapCmd) Name() string     { return "swap" }
func (*swapCmd) Synopsis() string { return "record an in-flight token swap" }
func (*swapCmd) Usage() string {
	return `lotledger swap -from <symbol> -to <symbol> -from-price <p> -to-price <p> [-method <m>] [-height <h>] <address> <amount> <signature>

  Extracts lots of the source asset and holds them until the swap
  transaction settles. Both per-unit prices observed at submission are
  remembered so a partial fill can be apportioned at confirmation.
`
}

func (c *swapCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fromAsset, "from", string(lotledger.NativeAsset), "Asset swapped out.")
	f.StringVar(&c.toAsset, "to", "", "Asset received.")
	f.StringVar(&c.fromPrice, "from-price", "", "Per-unit price of the outgoing asset.")
	f.StringVar(&c.toPrice, "to-price", "", "Per-unit price of the incoming asset.")
	f.StringVar(&c.currency, "currency", "USD", "Quote currency of both prices.")
	f.StringVar(&c.method, "method", "fifo", "Lot selection method.")
	f.Uint64Var(&c.lastHeight, "height", 0, "Last valid block height of the transaction.")
}

func (c *swapCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: expected an address, an amount and a signature")
		return subcommands.ExitUsageError
	}
	if c.toAsset == "" {
		fmt.Fprintln(os.Stderr, "Error: -to is required")
		return subcommands.ExitUsageError
	}
	method, err := lotledger.ParseLotSelectionMethod(c.method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fromAsset := lotledger.Asset(c.fromAsset)
	amount, err := parseAmount(fromAsset, f.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fromPrice, err := lotledger.ParsePrice(c.fromPrice, c.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	toPrice, err := lotledger.ParsePrice(c.toPrice, c.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	err = l.RecordSwap(f.Arg(2), c.lastHeight, f.Arg(0), fromAsset, lotledger.Asset(c.toAsset),
		amount, fromPrice, toPrice, method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Swap %s pending\n", f.Arg(2))
	return subcommands.ExitSuccess
}

type confirmSwapCmd struct {
	date       string
	fromAmount string
	toAmount   string
}

func (*confirmSwapCmd) Name() string     { return "confirm-swap" }
func (*confirmSwapCmd) Synopsis() string { return "resolve a pending swap with the settled amounts" }
func (*confirmSwapCmd) Usage() string {
	return `lotledger confirm-swap [-date <day>] -from-amount <a> -to-amount <a> <signature>

  Disposes the swapped-out lots at the pre-swap price and mints one lot
  of the received asset at the post-swap price. When less than the held
  amount actually swapped, the remainder returns to the source account.
`
}

func (c *confirmSwapCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Settlement date, defaults to today.")
	f.StringVar(&c.fromAmount, "from-amount", "", "Amount of the source asset that actually swapped.")
	f.StringVar(&c.toAmount, "to-amount", "", "Amount of the destination asset received.")
}

func (c *confirmSwapCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	// The pending record knows both assets; amounts parse against them.
	var pending *lotledger.PendingSwap
	for _, s := range l.PendingSwaps() {
		if s.Signature == f.Arg(0) {
			pending = &s
			break
		}
	}
	if pending == nil {
		fmt.Fprintf(os.Stderr, "Error: no pending swap %q\n", f.Arg(0))
		return subcommands.ExitFailure
	}
	fromAmount, err := parseAmount(pending.FromAsset, c.fromAmount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	toAmount, err := parseAmount(pending.ToAsset, c.toAmount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.ConfirmSwap(f.Arg(0), when, fromAmount, toAmount); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type cancelSwapCmd struct{}

func (*cancelSwapCmd) Name() string     { return "cancel-swap" }
func (*cancelSwapCmd) Synopsis() string { return "resolve a pending swap that expired" }
func (*cancelSwapCmd) Usage() string {
	return `lotledger cancel-swap <signature>

  Returns the held lots to the source account; the lot set is restored
  exactly as it was before the swap was recorded.
`
}

func (c *cancelSwapCmd) SetFlags(f *flag.FlagSet) {}

func (c *cancelSwapCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one signature")
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.CancelSwap(f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
