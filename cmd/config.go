package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/solvere/lotledger"
)

type setTaxRateCmd struct {
	income    string
	shortTerm string
	longTerm  string
}

func (*setTaxRateCmd) Name() string     { return "set-tax-rate" }
func (*setTaxRateCmd) Synopsis() string { return "record the tax rates the operator expects" }
func (*setTaxRateCmd) Usage() string {
	return `lotledger set-tax-rate -income <r> -short-term <r> -long-term <r>

  Records the expected tax rates as fractions, like 0.37. The rates are
  informational only; the ledger records gains, it never applies rates.
`
}

func (c *setTaxRateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.income, "income", "0", "Rate applied to income acquisitions.")
	f.StringVar(&c.shortTerm, "short-term", "0", "Rate applied to short term gains.")
	f.StringVar(&c.longTerm, "long-term", "0", "Rate applied to long term gains.")
}

func (c *setTaxRateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var rate lotledger.TaxRate
	var err error
	if rate.Income, err = decimal.NewFromString(c.income); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid income rate %q\n", c.income)
		return subcommands.ExitUsageError
	}
	if rate.ShortTermGain, err = decimal.NewFromString(c.shortTerm); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid short term rate %q\n", c.shortTerm)
		return subcommands.ExitUsageError
	}
	if rate.LongTermGain, err = decimal.NewFromString(c.longTerm); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid long term rate %q\n", c.longTerm)
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.SetTaxRate(rate); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type setSweepStakeCmd struct{}

func (*setSweepStakeCmd) Name() string     { return "set-sweep-stake" }
func (*setSweepStakeCmd) Synopsis() string { return "set the stake account that receives sweeps" }
func (*setSweepStakeCmd) Usage() string {
	return `lotledger set-sweep-stake <address>

  Records the stake account that excess balance is swept into.
`
}

func (*setSweepStakeCmd) SetFlags(*flag.FlagSet) {}

func (c *setSweepStakeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one address")
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.SetSweepStakeAccount(f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
