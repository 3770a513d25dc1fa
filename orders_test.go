package lotledger

import (
	"errors"
	"testing"
)

func TestSellOrderLifecycle(t *testing.T) {
	l := newTestLedger(t, "ftx-main", 100)
	err := l.OpenSellOrder("ftx", "SOL/USD", "o1", "ftx-main", NativeAsset, 100, M(30, "USD"), FIFO)
	if err != nil {
		t.Fatal(err)
	}
	// The reservation leaves the account while the order is open.
	if got := ledgerBalance(t, l, "ftx-main", NativeAsset); got != 0 {
		t.Fatalf("balance with open sell = %d, want 0", got)
	}
	orders := l.OpenOrders("ftx", nil)
	if len(orders) != 1 || orders[0].Side != Sell {
		t.Fatalf("OpenOrders = %v, want one sell", orders)
	}

	// Partial fill: 60 sold, 40 return to the account.
	if err := l.CloseOrder("o1", MustParse("2023-06-01"), 60, M(0.1, "USD")); err != nil {
		t.Fatal(err)
	}
	if got := ledgerBalance(t, l, "ftx-main", NativeAsset); got != 40 {
		t.Errorf("balance after partial fill = %d, want 40", got)
	}
	disposed := l.DisposedLots()
	if len(disposed) != 1 {
		t.Fatalf("DisposedLots = %v, want the filled portion", disposed)
	}
	sale, ok := disposed[0].Kind.(ExchangeSale)
	if !ok || sale.OrderID != "o1" {
		t.Fatalf("disposal kind = %#v, want ExchangeSale o1", disposed[0].Kind)
	}
	if !sale.Fee.Equal(M(0.1, "USD")) {
		t.Errorf("sale fee = %s, want 0.1 USD", sale.Fee)
	}
	if !disposed[0].Price.Equal(M(30, "USD")) {
		t.Errorf("sale price = %s, want the order price", disposed[0].Price)
	}

	var notFound *OpenOrderNotFoundError
	if err := l.CloseOrder("o1", MustParse("2023-06-01"), 0, Money{}); !errors.As(err, &notFound) {
		t.Errorf("second close: got %v, want OpenOrderNotFoundError", err)
	}
}

func TestSellOrderPartialFillUsesOrderMethod(t *testing.T) {
	// Two lots a month apart: 60 acquired first, 40 later.
	l := newTestLedger(t, "ftx-main", 60, 40)
	err := l.OpenSellOrder("ftx", "SOL/USD", "o1", "ftx-main", NativeAsset, 100, M(30, "USD"), LIFO)
	if err != nil {
		t.Fatal(err)
	}
	// A 40-unit fill apportioned LIFO consumes the newer lot whole; the
	// older lot returns to the account.
	if err := l.CloseOrder("o1", MustParse("2023-06-01"), 40, Money{}); err != nil {
		t.Fatal(err)
	}
	disposed := l.DisposedLots()
	if len(disposed) != 1 {
		t.Fatalf("DisposedLots = %v, want the newest lot only", disposed)
	}
	if got := disposed[0].Lot.Acquisition.When; got != MustParse("2023-01-31") {
		t.Errorf("disposed acquisition = %s, want the newer lot", got)
	}
	a, _ := l.Account("ftx-main", NativeAsset)
	if len(a.Lots) != 1 || a.Lots[0].Amount != 60 {
		t.Fatalf("returned lots = %v, want the 60-unit older lot", a.Lots)
	}
	if got := a.Lots[0].Acquisition.When; got != MustParse("2023-01-01") {
		t.Errorf("returned acquisition = %s, want the older lot", got)
	}
}

func TestSellOrderCancelled(t *testing.T) {
	l := newTestLedger(t, "ftx-main", 100)
	if err := l.OpenSellOrder("ftx", "SOL/USD", "o1", "ftx-main", NativeAsset, 100, M(30, "USD"), FIFO); err != nil {
		t.Fatal(err)
	}
	// Zero filled: everything returns, nothing is disposed.
	if err := l.CloseOrder("o1", MustParse("2023-06-01"), 0, Money{}); err != nil {
		t.Fatal(err)
	}
	if got := ledgerBalance(t, l, "ftx-main", NativeAsset); got != 100 {
		t.Errorf("balance after cancelled sell = %d, want 100", got)
	}
	if got := len(l.DisposedLots()); got != 0 {
		t.Errorf("DisposedLots = %d entries after cancelled sell, want 0", got)
	}
}

func TestBuyOrderLifecycle(t *testing.T) {
	l := NewLedger()
	if err := l.OpenBuyOrder("ftx", "SOL/USD", "o1", "ftx-main", NativeAsset, 100, M(25, "USD")); err != nil {
		t.Fatal(err)
	}
	buy := Buy
	if got := l.OpenOrders("", &buy); len(got) != 1 {
		t.Fatalf("OpenOrders(buy) = %v, want one", got)
	}
	sell := Sell
	if got := l.OpenOrders("", &sell); len(got) != 0 {
		t.Fatalf("OpenOrders(sell) = %v, want none", got)
	}

	if err := l.CloseOrder("o1", MustParse("2023-06-01"), 70, Money{}); err != nil {
		t.Fatal(err)
	}
	a, ok := l.Account("ftx-main", NativeAsset)
	if !ok || a.LastUpdateBalance != 70 {
		t.Fatalf("account after buy fill = %v, want 70 units", a)
	}
	fill, ok := a.Lots[0].Acquisition.Kind.(ExchangeFill)
	if !ok || fill.OrderID != "o1" {
		t.Errorf("acquisition kind = %#v, want ExchangeFill o1", a.Lots[0].Acquisition.Kind)
	}
	if !a.Lots[0].Acquisition.Price.Equal(M(25, "USD")) {
		t.Errorf("fill basis = %s, want the order price", a.Lots[0].Acquisition.Price)
	}
}
