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

type disposeCmd struct {
	asset       string
	date        string
	price       string
	currency    string
	method      string
	description string
}

func (*disposeCmd) Name() string     { return "dispose" }
func (*disposeCmd) Synopsis() string { return "dispose lots outside the saga model" }
func (*disposeCmd) Usage() string {
	return `lotledger dispose [-asset <symbol>] [-date <day>] -price <p> [-method <m>] [-reason <text>] <address> <amount>

  Extracts lots and journals them as disposed at the given realized
  price. This is the direct path for value spent or sold outside the
  exchange and transfer flows, like a network fee or a donation.
`
}

func (c *disposeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", string(lotledger.NativeAsset), "Asset disposed.")
	f.StringVar(&c.date, "date", "", "Disposal date, defaults to today.")
	f.StringVar(&c.price, "price", "", "Per-unit realized price.")
	f.StringVar(&c.currency, "currency", "USD", "Quote currency of the price.")
	f.StringVar(&c.method, "method", "fifo", "Lot selection method (fifo, lifo, lowest-basis, highest-basis).")
	f.StringVar(&c.description, "reason", "", "Disposal reason; empty records a fiat sale.")
}

func (c *disposeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected an address and an amount")
		return subcommands.ExitUsageError
	}
	when, err := parseDay(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	price, err := lotledger.ParsePrice(c.price, c.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
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
	var kind lotledger.DisposalKind = lotledger.FiatSale{}
	if c.description != "" {
		kind = lotledger.OtherDisposal{Description: c.description}
	}

	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	disposed, err := l.RecordDisposal(f.Arg(0), asset, amount, method, when, price, kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	var b strings.Builder
	b.WriteString("| Lot | Amount | Acquired | Basis | Gain |\n")
	b.WriteString("|---:|---:|---|---|---|\n")
	for _, d := range disposed {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			d.Lot.Number, asset.Format(d.Lot.Amount), d.Lot.Acquisition.When,
			d.Lot.Acquisition.Price, gainCell(d))
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type disposedCmd struct{}

func (*disposedCmd) Name() string     { return "disposed" }
func (*disposedCmd) Synopsis() string { return "list the disposal journal" }
func (*disposedCmd) Usage() string {
	return `lotledger disposed

  Lists every disposed lot with its realized gain, sorted by disposal
  date.
`
}

func (c *disposedCmd) SetFlags(f *flag.FlagSet) {}

func (c *disposedCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	disposed := l.DisposedLots()
	if len(disposed) == 0 {
		fmt.Println("No disposed lots.")
		return subcommands.ExitSuccess
	}
	var b strings.Builder
	b.WriteString("| Lot | Asset | Amount | Acquired | Basis | Disposed | Price | Gain |\n")
	b.WriteString("|---:|---|---:|---|---|---|---|---|\n")
	for _, d := range disposed {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			d.Lot.Number, d.Asset, d.Asset.Format(d.Lot.Amount),
			d.Lot.Acquisition.When, d.Lot.Acquisition.Price,
			d.When, d.Price, gainCell(d))
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

// gainCell renders the realized gain of a disposed lot, or a dash for
// disposals that do not realize one (fees, donations).
func gainCell(d lotledger.DisposedLot) string {
	if !lotledger.DisposalIsSale(d.Kind) {
		return "-"
	}
	return d.Gain().String()
}
