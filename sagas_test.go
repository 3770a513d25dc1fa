package lotledger

import (
	"errors"
	"testing"
)

func TestDepositLifecycle(t *testing.T) {
	l := newTestLedger(t, "wallet", 100)
	err := l.RecordDeposit("sig1", 2000, "wallet", NativeAsset, 60, "ftx", "ftx-deposit", FIFO)
	if err != nil {
		t.Fatal(err)
	}
	// The held lots are gone from the source while pending.
	if got := ledgerBalance(t, l, "wallet", NativeAsset); got != 40 {
		t.Fatalf("source balance while pending = %d, want 40", got)
	}
	if got := l.PendingDeposits(""); len(got) != 1 || got[0].Signature != "sig1" {
		t.Fatalf("PendingDeposits = %v, want sig1", got)
	}
	if got := l.PendingDeposits("binance"); len(got) != 0 {
		t.Fatalf("PendingDeposits(binance) = %v, want none", got)
	}

	if err := l.ConfirmDeposit("sig1", MustParse("2023-02-01")); err != nil {
		t.Fatal(err)
	}
	// The destination account is created on the fly, basis preserved.
	dest, ok := l.Account("ftx-deposit", NativeAsset)
	if !ok {
		t.Fatal("deposit account not created")
	}
	if dest.LastUpdateBalance != 60 {
		t.Errorf("deposit balance = %d, want 60", dest.LastUpdateBalance)
	}
	if !dest.Lots[0].Acquisition.Price.Equal(M(10, "USD")) {
		t.Errorf("deposit lot basis = %s, want the original 10 USD", dest.Lots[0].Acquisition.Price)
	}

	// The key resolved; resolving again must fail.
	var notFound *PendingNotFoundError
	if err := l.ConfirmDeposit("sig1", MustParse("2023-02-01")); !errors.As(err, &notFound) {
		t.Errorf("second confirm: got %v, want PendingNotFoundError", err)
	}
	if err := l.CancelDeposit("sig1"); !errors.As(err, &notFound) {
		t.Errorf("cancel after confirm: got %v, want PendingNotFoundError", err)
	}
}

func TestCancelDepositRestoresSource(t *testing.T) {
	l := newTestLedger(t, "wallet", 100)
	if err := l.RecordDeposit("sig1", 2000, "wallet", NativeAsset, 60, "ftx", "ftx-deposit", FIFO); err != nil {
		t.Fatal(err)
	}
	if err := l.CancelDeposit("sig1"); err != nil {
		t.Fatal(err)
	}
	a, _ := l.Account("wallet", NativeAsset)
	if a.LastUpdateBalance != 100 {
		t.Fatalf("balance after cancel = %d, want 100", a.LastUpdateBalance)
	}
	// The split halves share an acquisition record, so the account is
	// back to a single lot with its original number.
	if len(a.Lots) != 1 || a.Lots[0].Number != 1 || a.Lots[0].Amount != 100 {
		t.Errorf("lots after cancel = %v, want the original lot 1 of 100", a.Lots)
	}
}

func TestConfirmDepositFiatFungible(t *testing.T) {
	l := NewLedger()
	if err := l.AddAccount(TrackedAccount{Address: "wallet", Asset: "USDC"}); err != nil {
		t.Fatal(err)
	}
	acq := Acquisition{When: MustParse("2023-01-01"), Price: M(1, "USD"), Kind: FiatPurchase{}}
	if err := l.RecordIncome("wallet", "USDC", 1_000_000, acq); err != nil {
		t.Fatal(err)
	}
	if err := l.RecordDeposit("sig1", 2000, "wallet", "USDC", 1_000_000, "ftx", "ftx-usdc", FIFO); err != nil {
		t.Fatal(err)
	}
	if err := l.ConfirmDeposit("sig1", MustParse("2023-02-01")); err != nil {
		t.Fatal(err)
	}
	// Fiat-fungible assets are not tracked lot-by-lot on the exchange:
	// the deposit disposes them at parity instead of landing them.
	if _, ok := l.Account("ftx-usdc", "USDC"); ok {
		t.Error("fiat-fungible deposit should not create a destination account")
	}
	disposed := l.DisposedLots()
	if len(disposed) != 1 {
		t.Fatalf("DisposedLots = %v, want one parity disposal", disposed)
	}
	if !disposed[0].Price.Equal(M(1, "USD")) {
		t.Errorf("disposal price = %s, want 1 USD parity", disposed[0].Price)
	}
	if !disposed[0].Gain().IsZero() {
		t.Errorf("gain = %s, want zero at parity", disposed[0].Gain())
	}
}

func TestWithdrawalFeePeeledUpFront(t *testing.T) {
	// A single lot of 100; withdrawing all of it with a fee of 2 holds
	// 98 for the destination and 2 as fee lots.
	l := newTestLedger(t, "ftx-main", 100)
	err := l.RecordWithdrawal("ftx", "w1", "ftx-main", "wallet", NativeAsset, 100, 2, FIFO)
	if err != nil {
		t.Fatal(err)
	}
	pending := l.PendingWithdrawals("ftx")
	if len(pending) != 1 {
		t.Fatalf("PendingWithdrawals = %v, want one", pending)
	}
	if got := lots(pending[0].Lots).total(); got != 98 {
		t.Errorf("held lots = %d units, want 98", got)
	}
	if got := lots(pending[0].FeeLots).total(); got != 2 {
		t.Errorf("fee lots = %d units, want 2", got)
	}

	if err := l.ConfirmWithdrawal("w1", MustParse("2023-03-01")); err != nil {
		t.Fatal(err)
	}
	if got := ledgerBalance(t, l, "wallet", NativeAsset); got != 98 {
		t.Errorf("destination balance = %d, want 98", got)
	}
	disposed := l.DisposedLots()
	if len(disposed) != 1 {
		t.Fatalf("DisposedLots = %v, want the fee disposal", disposed)
	}
	fee, ok := disposed[0].Kind.(WithdrawalFee)
	if !ok || fee.WithdrawalID != "w1" {
		t.Errorf("disposal kind = %#v, want WithdrawalFee w1", disposed[0].Kind)
	}
	// Fees are disposed at their own basis: no gain is realized.
	if !disposed[0].Gain().IsZero() {
		t.Errorf("fee gain = %s, want zero", disposed[0].Gain())
	}
}

func TestCancelWithdrawalRestoresFee(t *testing.T) {
	l := newTestLedger(t, "ftx-main", 100)
	if err := l.RecordWithdrawal("ftx", "w1", "ftx-main", "wallet", NativeAsset, 100, 2, FIFO); err != nil {
		t.Fatal(err)
	}
	if err := l.CancelWithdrawal("w1"); err != nil {
		t.Fatal(err)
	}
	a, _ := l.Account("ftx-main", NativeAsset)
	if a.LastUpdateBalance != 100 {
		t.Fatalf("balance after cancel = %d, want the fee back too", a.LastUpdateBalance)
	}
	if len(a.Lots) != 1 || a.Lots[0].Amount != 100 {
		t.Errorf("lots after cancel = %v, want one merged lot of 100", a.Lots)
	}
}

func TestTransferOnlyLots(t *testing.T) {
	l := newTestLedger(t, "hot", 50, 50)
	a, _ := l.Account("hot", NativeAsset)
	second := a.Lots[1].Number

	err := l.RecordTransfer("sig1", 2000, "hot", "cold", NativeAsset, 50, FIFO, []uint64{second})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.ConfirmTransfer("sig1", MustParse("2023-04-01")); err != nil {
		t.Fatal(err)
	}
	cold, _ := l.Account("cold", NativeAsset)
	if len(cold.Lots) != 1 || cold.Lots[0].Number != second {
		t.Errorf("cold lots = %v, want exactly lot %d", cold.Lots, second)
	}

	// Requesting more than the eligible lots hold fails even though the
	// account as a whole could cover it.
	var insufficient *InsufficientBalanceError
	err = l.RecordTransfer("sig2", 2000, "hot", "cold", NativeAsset, 60, FIFO, []uint64{1})
	if !errors.As(err, &insufficient) {
		t.Fatalf("got %v, want InsufficientBalanceError", err)
	}
	if insufficient.Available != 50 {
		t.Errorf("available = %d, want the eligible 50 only", insufficient.Available)
	}
}

func TestSwapLifecycle(t *testing.T) {
	l := newTestLedger(t, "wallet", 100)
	err := l.RecordSwap("sig1", 2000, "wallet", NativeAsset, "USDC", 100,
		M(20, "USD"), M(1, "USD"), FIFO)
	if err != nil {
		t.Fatal(err)
	}
	if got := l.PendingSwaps(); len(got) != 1 || got[0].Signature != "sig1" {
		t.Fatalf("PendingSwaps = %v, want sig1", got)
	}

	if err := l.ConfirmSwap("sig1", MustParse("2023-05-01"), 100, 2_000_000_000); err != nil {
		t.Fatal(err)
	}
	usdc, ok := l.Account("wallet", "USDC")
	if !ok || usdc.LastUpdateBalance != 2_000_000_000 {
		t.Fatalf("USDC account = %v, want 2000000000 units", usdc)
	}
	recv, ok := usdc.Lots[0].Acquisition.Kind.(SwapReceived)
	if !ok || recv.Signature != "sig1" {
		t.Errorf("received kind = %#v, want SwapReceived sig1", usdc.Lots[0].Acquisition.Kind)
	}
	disposed := l.DisposedLots()
	if len(disposed) != 1 {
		t.Fatalf("DisposedLots = %v, want the swapped-out lot", disposed)
	}
	if _, ok := disposed[0].Kind.(SwapSent); !ok {
		t.Errorf("disposal kind = %#v, want SwapSent", disposed[0].Kind)
	}
	if !disposed[0].Price.Equal(M(20, "USD")) {
		t.Errorf("disposal price = %s, want the pre-swap 20 USD", disposed[0].Price)
	}
}

func TestConfirmSwapPartialFill(t *testing.T) {
	l := newTestLedger(t, "wallet", 100)
	if err := l.RecordSwap("sig1", 2000, "wallet", NativeAsset, "USDC", 100,
		M(20, "USD"), M(1, "USD"), FIFO); err != nil {
		t.Fatal(err)
	}
	// Only 40 of the 100 held units actually swapped.
	if err := l.ConfirmSwap("sig1", MustParse("2023-05-01"), 40, 800); err != nil {
		t.Fatal(err)
	}
	if got := ledgerBalance(t, l, "wallet", NativeAsset); got != 60 {
		t.Errorf("unswapped remainder = %d units back at source, want 60", got)
	}
	var swappedOut uint64
	for _, d := range l.DisposedLots() {
		swappedOut += d.Lot.Amount
	}
	if swappedOut != 40 {
		t.Errorf("disposed = %d units, want 40", swappedOut)
	}
	if got := ledgerBalance(t, l, "wallet", "USDC"); got != 800 {
		t.Errorf("received = %d units, want 800", got)
	}
}

func TestCancelSwapRestoresLotSetExactly(t *testing.T) {
	l := newTestLedger(t, "wallet", 100)
	before, _ := l.Account("wallet", NativeAsset)

	if err := l.RecordSwap("sig1", 2000, "wallet", NativeAsset, "USDC", 30,
		M(20, "USD"), M(1, "USD"), FIFO); err != nil {
		t.Fatal(err)
	}
	if err := l.CancelSwap("sig1"); err != nil {
		t.Fatal(err)
	}
	after, _ := l.Account("wallet", NativeAsset)
	if len(after.Lots) != len(before.Lots) {
		t.Fatalf("lots after cancel = %v, want %v", after.Lots, before.Lots)
	}
	for i := range before.Lots {
		if after.Lots[i].Number != before.Lots[i].Number ||
			after.Lots[i].Amount != before.Lots[i].Amount ||
			!after.Lots[i].Acquisition.Equal(before.Lots[i].Acquisition) {
			t.Errorf("lot %d after cancel = %v, want %v", i, after.Lots[i], before.Lots[i])
		}
	}
}

func TestPendingOperationsIsolated(t *testing.T) {
	// Two in-flight operations never hold the same lot.
	l := newTestLedger(t, "wallet", 100)
	if err := l.RecordDeposit("sig1", 2000, "wallet", NativeAsset, 60, "ftx", "ftx-deposit", FIFO); err != nil {
		t.Fatal(err)
	}
	if err := l.RecordTransfer("sig2", 2000, "wallet", "cold", NativeAsset, 40, FIFO, nil); err != nil {
		t.Fatal(err)
	}
	seen := make(map[uint64]bool)
	for _, d := range l.PendingDeposits("") {
		for _, lot := range d.Lots {
			seen[lot.Number] = true
		}
	}
	for _, tr := range l.PendingTransfers() {
		for _, lot := range tr.Lots {
			if seen[lot.Number] {
				t.Errorf("lot %d held by two pending operations", lot.Number)
			}
		}
	}
	if got := ledgerBalance(t, l, "wallet", NativeAsset); got != 0 {
		t.Errorf("source balance = %d with everything in flight, want 0", got)
	}
}
