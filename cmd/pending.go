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

type pendingCmd struct {
	exchange string
}

func (*pendingCmd) Name() string     { return "pending" }
func (*pendingCmd) Synopsis() string { return "list unresolved pending operations" }
func (*pendingCmd) Usage() string {
	return `lotledger pending [-exchange <name>]

  Lists every pending deposit, withdrawal, transfer and swap. Deposits
  and withdrawals can be filtered by exchange.
`
}

func (c *pendingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.exchange, "exchange", "", "Only show deposits/withdrawals on this exchange.")
}

func (c *pendingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	deposits := l.PendingDeposits(c.exchange)
	withdrawals := l.PendingWithdrawals(c.exchange)
	transfers := l.PendingTransfers()
	swaps := l.PendingSwaps()
	if len(deposits)+len(withdrawals)+len(transfers)+len(swaps) == 0 {
		fmt.Println("No pending operations.")
		return subcommands.ExitSuccess
	}

	if len(deposits) > 0 {
		b.WriteString("## Deposits\n\n| Signature | Exchange | Asset | Amount | From | To |\n|---|---|---|---:|---|---|\n")
		for _, d := range deposits {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				d.Signature, d.Exchange, d.Asset, d.Asset.Format(total(d.Lots)), d.FromAddress, d.ToAddress)
		}
		b.WriteString("\n")
	}
	if len(withdrawals) > 0 {
		b.WriteString("## Withdrawals\n\n| ID | Exchange | Asset | Amount | Fee | From | To |\n|---|---|---|---:|---:|---|---|\n")
		for _, w := range withdrawals {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				w.WithdrawalID, w.Exchange, w.Asset, w.Asset.Format(total(w.Lots)),
				w.Asset.Format(total(w.FeeLots)), w.FromAddress, w.ToAddress)
		}
		b.WriteString("\n")
	}
	if len(transfers) > 0 {
		b.WriteString("## Transfers\n\n| Signature | Asset | Amount | From | To |\n|---|---|---:|---|---|\n")
		for _, tr := range transfers {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				tr.Signature, tr.Asset, tr.Asset.Format(total(tr.Lots)), tr.FromAddress, tr.ToAddress)
		}
		b.WriteString("\n")
	}
	if len(swaps) > 0 {
		b.WriteString("## Swaps\n\n| Signature | Address | From | To | Amount |\n|---|---|---|---|---:|\n")
		for _, s := range swaps {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				s.Signature, s.Address, s.FromAsset, s.ToAsset, s.FromAsset.Format(total(s.Lots)))
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

func total(lots []lotledger.Lot) (sum uint64) {
	for _, l := range lots {
		sum += l.Amount
	}
	return
}
