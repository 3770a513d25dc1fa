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

type trackCmd struct {
	asset       string
	description string
}

func (*trackCmd) Name() string     { return "track" }
func (*trackCmd) Synopsis() string { return "start tracking lots on an account" }
func (*trackCmd) Usage() string {
	return `lotledger track [-asset <symbol>] [-desc <text>] <address>

  Starts tracking an account. An account is one (address, asset) pair;
  track the same address twice with different assets to follow both.
`
}

func (c *trackCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", string(lotledger.NativeAsset), "Asset held by the account.")
	f.StringVar(&c.description, "desc", "", "Free-form account description.")
}

func (c *trackCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one address")
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account := lotledger.TrackedAccount{
		Address:     f.Arg(0),
		Asset:       lotledger.Asset(c.asset),
		Description: c.description,
	}
	if err := l.AddAccount(account); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Tracking %s (%s)\n", account.Address, account.Asset)
	return subcommands.ExitSuccess
}

type untrackCmd struct {
	asset string
}

func (*untrackCmd) Name() string     { return "untrack" }
func (*untrackCmd) Synopsis() string { return "stop tracking an account" }
func (*untrackCmd) Usage() string {
	return `lotledger untrack [-asset <symbol>] <address>

  Stops tracking an account. Its held lots are dropped without a
  disposal record.
`
}

func (c *untrackCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", string(lotledger.NativeAsset), "Asset held by the account.")
}

func (c *untrackCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one address")
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.RemoveAccount(f.Arg(0), lotledger.Asset(c.asset)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("No longer tracking %s (%s)\n", f.Arg(0), c.asset)
	return subcommands.ExitSuccess
}

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list tracked accounts and balances" }
func (*accountsCmd) Usage() string {
	return `lotledger accounts

  Lists all tracked accounts with their balances and lot counts.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	accounts := l.Accounts()
	if len(accounts) == 0 {
		fmt.Println("No tracked accounts.")
		return subcommands.ExitSuccess
	}
	var b strings.Builder
	b.WriteString("| Address | Asset | Balance | Lots | Description |\n")
	b.WriteString("|---|---|---:|---:|---|\n")
	for _, a := range accounts {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n",
			a.Address, a.Asset, a.Asset.Format(a.LastUpdateBalance), len(a.Lots), a.Description)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type describeCmd struct {
	asset string
}

func (*describeCmd) Name() string     { return "describe" }
func (*describeCmd) Synopsis() string { return "set an account's description" }
func (*describeCmd) Usage() string {
	return `lotledger describe [-asset <symbol>] <address> <description>

  Replaces the free-form description of a tracked account.
`
}

func (c *describeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", string(lotledger.NativeAsset), "Asset held by the account.")
}

func (c *describeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected an address and a description")
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.SetAccountDescription(f.Arg(0), lotledger.Asset(c.asset), f.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
