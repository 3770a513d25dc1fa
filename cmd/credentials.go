package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/solvere/lotledger"
)

type setCredentialsCmd struct {
	apiKey     string
	secret     string
	subaccount string
}

func (*setCredentialsCmd) Name() string     { return "set-credentials" }
func (*setCredentialsCmd) Synopsis() string { return "store API credentials for an exchange" }
func (*setCredentialsCmd) Usage() string {
	return `lotledger set-credentials -key <k> -secret <s> [-subaccount <name>] <exchange>

  Stores API credentials for an exchange. Credentials live in their own
  file next to the snapshot, never inside it.
`
}

func (c *setCredentialsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.apiKey, "key", "", "API key.")
	f.StringVar(&c.secret, "secret", "", "API secret.")
	f.StringVar(&c.subaccount, "subaccount", "", "Optional subaccount name.")
}

func (c *setCredentialsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one exchange name")
		return subcommands.ExitUsageError
	}
	if c.apiKey == "" || c.secret == "" {
		fmt.Fprintln(os.Stderr, "Error: -key and -secret are required")
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	creds := lotledger.ExchangeCredentials{
		APIKey:     c.apiKey,
		Secret:     c.secret,
		Subaccount: c.subaccount,
	}
	if err := l.SetExchangeCredentials(f.Arg(0), creds); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type clearCredentialsCmd struct{}

func (*clearCredentialsCmd) Name() string     { return "clear-credentials" }
func (*clearCredentialsCmd) Synopsis() string { return "remove stored credentials for an exchange" }
func (*clearCredentialsCmd) Usage() string {
	return `lotledger clear-credentials <exchange>

  Removes the stored API credentials for an exchange.
`
}

func (*clearCredentialsCmd) SetFlags(*flag.FlagSet) {}

func (c *clearCredentialsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one exchange name")
		return subcommands.ExitUsageError
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.ClearExchangeCredentials(f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type exchangesCmd struct{}

func (*exchangesCmd) Name() string     { return "exchanges" }
func (*exchangesCmd) Synopsis() string { return "list exchanges with stored credentials" }
func (*exchangesCmd) Usage() string {
	return `lotledger exchanges

  Lists the exchanges that have stored API credentials. The secrets
  themselves are never printed.
`
}

func (*exchangesCmd) SetFlags(*flag.FlagSet) {}

func (c *exchangesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	names := l.ConfiguredExchanges()
	if len(names) == 0 {
		fmt.Println("No exchanges configured.")
		return subcommands.ExitSuccess
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return subcommands.ExitSuccess
}
