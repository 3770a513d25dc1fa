package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/solvere/lotledger"
)

type lotsCmd struct {
	asset string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "list the lots held by an account" }
func (*lotsCmd) Usage() string {
	return `lotledger lots [-asset <symbol>] <address>

  Lists the lots of one tracked account, oldest acquisition first.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", string(lotledger.NativeAsset), "Asset held by the account.")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one address")
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	a, ok := l.Account(f.Arg(0), lotledger.Asset(c.asset))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: account %s (%s) is not tracked\n", f.Arg(0), c.asset)
		return subcommands.ExitFailure
	}
	if len(a.Lots) == 0 {
		fmt.Println("No lots.")
		return subcommands.ExitSuccess
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s), balance %s\n\n", a.Address, a.Asset, a.Asset.Format(a.LastUpdateBalance))
	b.WriteString("| Lot | Amount | Acquired | Basis | Kind |\n")
	b.WriteString("|---:|---:|---|---|---|\n")
	for _, lot := range a.Lots {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			lot.Number, a.Asset.Format(lot.Amount), lot.Acquisition.When,
			lot.Acquisition.Price, kindCell(lot.Acquisition))
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

// kindCell renders the acquisition kind of a lot, marking the lots that
// were taxable income on arrival.
func kindCell(a lotledger.Acquisition) string {
	kind := string(a.Kind.What())
	if lotledger.AcquisitionIsIncome(a.Kind) {
		kind += " (income)"
	}
	return kind
}
