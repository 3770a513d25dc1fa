package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/solvere/lotledger"
)

type incomeCmd struct {
	asset       string
	date        string
	price       string
	currency    string
	epoch       uint64
	signature   string
	description string
	fiat        bool
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record an acquisition as a new lot" }
func (*incomeCmd) Usage() string {
	return `lotledger income [-asset <symbol>] [-date <day>] -price <p> (-epoch <e> | -sig <signature> | -other <text> | -fiat) <address> <amount>

  Creates a new lot on a tracked account from an external acquisition:
  an epoch reward, a received transaction, other income, or a fiat
  purchase. The price is the per-unit cost basis on the acquisition day.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", string(lotledger.NativeAsset), "Asset acquired.")
	f.StringVar(&c.date, "date", "", "Acquisition date, defaults to today.")
	f.StringVar(&c.price, "price", "", "Per-unit cost basis.")
	f.StringVar(&c.currency, "currency", "USD", "Quote currency of the price.")
	f.Uint64Var(&c.epoch, "epoch", 0, "Epoch of the reward that produced the lot.")
	f.StringVar(&c.signature, "sig", "", "Signature of the transaction that produced the lot.")
	f.StringVar(&c.description, "other", "", "Description for other income (airdrop, gift).")
	f.BoolVar(&c.fiat, "fiat", false, "The lot was bought with fiat.")
}

func (c *incomeCmd) kind() (lotledger.AcquisitionKind, error) {
	switch {
	case c.epoch > 0:
		return lotledger.EpochReward{Epoch: c.epoch}, nil
	case c.signature != "":
		return lotledger.ChainTransaction{Signature: c.signature}, nil
	case c.description != "":
		return lotledger.OtherIncome{Description: c.description}, nil
	case c.fiat:
		return lotledger.FiatPurchase{}, nil
	}
	return nil, fmt.Errorf("one of -epoch, -sig, -other or -fiat is required")
}

func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected an address and an amount")
		return subcommands.ExitUsageError
	}
	kind, err := c.kind()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
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
	acquisition := lotledger.Acquisition{When: when, Price: price, Kind: kind}
	if err := l.RecordIncome(f.Arg(0), asset, amount, acquisition); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s %s on %s\n", asset.Format(amount), asset, f.Arg(0))
	return subcommands.ExitSuccess
}
