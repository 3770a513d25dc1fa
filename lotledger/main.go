package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/solvere/lotledger/cmd"
)

// subcommandNames feeds shell completion. Keep in sync with cmd.Register.
var subcommandNames = []string{
	"track", "untrack", "accounts", "describe", "lots",
	"income", "dispose", "disposed",
	"deposit", "confirm-deposit", "cancel-deposit",
	"withdraw", "confirm-withdrawal", "cancel-withdrawal",
	"transfer", "confirm-transfer", "cancel-transfer",
	"swap", "confirm-swap", "cancel-swap", "pending",
	"sell", "buy", "close-order", "orders",
	"move-lot", "delete-lot", "swap-lots",
	"import", "query",
	"set-credentials", "clear-credentials", "exchanges",
	"set-tax-rate", "set-sweep-stake",
	"topic",
	"help", "flags", "commands",
}

func main() {
	// Shell completion runs before flag parsing; Complete is a no-op
	// outside a completion request.
	sub := make(map[string]*complete.Command, len(subcommandNames))
	for _, name := range subcommandNames {
		sub[name] = &complete.Command{}
	}
	completer := &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"db-path": predict.Dirs("*"),
		},
	}
	completer.Complete("lotledger")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
