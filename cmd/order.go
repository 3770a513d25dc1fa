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

type sellCmd struct {
	asset    string
	exchange string
	pair     string
	price    string
	currency string
	method   string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "open a limit sell order reserving lots" }
func (*sellCmd) Usage() string {
	return `lotledger sell [-asset <symbol>] -exchange <name> -pair <pair> -price <p> [-method <m>] <address> <amount> <order-id>

  Reserves lots out of the exchange account to back a limit sell order.
  Resolve with close-order once the order fills or is cancelled.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", string(lotledger.NativeAsset), "Asset sold.")
	f.StringVar(&c.exchange, "exchange", "", "Exchange carrying the order.")
	f.StringVar(&c.pair, "pair", "", "Trading pair, like SOL/USD.")
	f.StringVar(&c.price, "price", "", "Limit price per whole unit.")
	f.StringVar(&c.currency, "currency", "USD", "Quote currency of the price.")
	f.StringVar(&c.method, "method", "fifo", "Lot selection method.")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: expected an address, an amount and an order id")
		return subcommands.ExitUsageError
	}
	method, err := lotledger.ParseLotSelectionMethod(c.method)
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
	if err := l.OpenSellOrder(c.exchange, c.pair, f.Arg(2), f.Arg(0), asset, amount, price, method); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Sell order %s open\n", f.Arg(2))
	return subcommands.ExitSuccess
}

type buyCmd struct {
	asset    string
	exchange string
	pair     string
	price    string
	currency string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "open a limit buy order" }
func (*buyCmd) Usage() string {
	return `lotledger buy [-asset <symbol>] -exchange <name> -pair <pair> -price <p> <address> <amount> <order-id>

  Records a limit buy order for a target amount. No lots are reserved;
  the filled portion becomes a new lot at the order price on close.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", string(lotledger.NativeAsset), "Asset bought.")
	f.StringVar(&c.exchange, "exchange", "", "Exchange carrying the order.")
	f.StringVar(&c.pair, "pair", "", "Trading pair, like SOL/USD.")
	f.StringVar(&c.price, "price", "", "Limit price per whole unit.")
	f.StringVar(&c.currency, "currency", "USD", "Quote currency of the price.")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: expected an address, an amount and an order id")
		return subcommands.ExitUsageError
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
	if err := l.OpenBuyOrder(c.exchange, c.pair, f.Arg(2), f.Arg(0), asset, amount, price); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Buy order %s open\n", f.Arg(2))
	return subcommands.ExitSuccess
}

type closeOrderCmd struct {
	date     string
	filled   string
	fee      string
	currency string
}

func (*closeOrderCmd) Name() string     { return "close-order" }
func (*closeOrderCmd) Synopsis() string { return "close an open order, applying what filled" }
func (*closeOrderCmd) Usage() string {
	return `lotledger close-order [-date <day>] [-filled <amount>] [-fee <f>] <order-id>

  Removes an open order. For a sell, the filled portion is disposed as
  an exchange sale and the rest returns to the account; for a buy, the
  filled portion becomes a new lot. A zero fill cancels the order.
`
}

func (c *closeOrderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Close date, defaults to today.")
	f.StringVar(&c.filled, "filled", "0", "Amount that actually filled, in whole units.")
	f.StringVar(&c.fee, "fee", "", "Exchange fee in the quote currency.")
	f.StringVar(&c.currency, "currency", "USD", "Quote currency of the fee.")
}

func (c *closeOrderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one order id")
		return subcommands.ExitUsageError
	}
	when, err := parseDay(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	var fee lotledger.Money
	if c.fee != "" {
		fee, err = lotledger.ParsePrice(c.fee, c.currency)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	// The order knows its asset; the filled amount parses against it.
	var asset lotledger.Asset
	found := false
	for _, o := range l.OpenOrders("", nil) {
		if o.OrderID == f.Arg(0) {
			asset, found = o.Asset, true
			break
		}
	}
	if !found {
		fmt.Fprintf(os.Stderr, "Error: no open order %q\n", f.Arg(0))
		return subcommands.ExitFailure
	}
	filled, err := parseAmount(asset, c.filled)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := l.CloseOrder(f.Arg(0), when, filled, fee); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type ordersCmd struct {
	exchange string
	side     string
}

func (*ordersCmd) Name() string     { return "orders" }
func (*ordersCmd) Synopsis() string { return "list open orders" }
func (*ordersCmd) Usage() string {
	return `lotledger orders [-exchange <name>] [-side buy|sell]

  Lists open orders, optionally filtered by exchange and side.
`
}

func (c *ordersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.exchange, "exchange", "", "Only show orders on this exchange.")
	f.StringVar(&c.side, "side", "", "Only show buy or sell orders.")
}

func (c *ordersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var side *lotledger.OrderSide
	if c.side != "" {
		s, err := lotledger.ParseOrderSide(c.side)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		side = &s
	}
	l, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	orders := l.OpenOrders(c.exchange, side)
	if len(orders) == 0 {
		fmt.Println("No open orders.")
		return subcommands.ExitSuccess
	}
	var b strings.Builder
	b.WriteString("| ID | Exchange | Side | Pair | Asset | Amount | Price |\n|---|---|---|---|---|---:|---|\n")
	for _, o := range orders {
		amount := o.Amount
		if o.Side == lotledger.Sell {
			amount = total(o.Lots)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			o.OrderID, o.Exchange, o.Side, o.Pair, o.Asset, o.Asset.Format(amount), o.Price)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
