package lotledger

import (
	"errors"
	"testing"
)

func TestImportRenumbersLots(t *testing.T) {
	l := newTestLedger(t, "wallet", 100)
	other := newTestLedger(t, "wallet", 60)
	if err := other.AddAccount(TrackedAccount{Address: "vault", Asset: NativeAsset}); err != nil {
		t.Fatal(err)
	}
	acq := Acquisition{When: MustParse("2023-04-01"), Price: M(15, "USD"), Kind: FiatPurchase{}}
	if err := other.RecordIncome("vault", NativeAsset, 25, acq); err != nil {
		t.Fatal(err)
	}
	if _, err := other.RecordDisposal("vault", NativeAsset, 5, FIFO,
		MustParse("2023-05-01"), M(30, "USD"), FiatSale{}); err != nil {
		t.Fatal(err)
	}

	if err := l.Import(other); err != nil {
		t.Fatal(err)
	}

	// Same-key accounts merged, new accounts copied, disposals carried.
	if got := ledgerBalance(t, l, "wallet", NativeAsset); got != 160 {
		t.Errorf("merged balance = %d, want 160", got)
	}
	if got := ledgerBalance(t, l, "vault", NativeAsset); got != 20 {
		t.Errorf("imported balance = %d, want 20", got)
	}
	if got := len(l.DisposedLots()); got != 1 {
		t.Errorf("disposed lots = %d, want 1", got)
	}

	// Every lot number is unique after the merge.
	seen := make(map[uint64]bool)
	for _, a := range l.Accounts() {
		for _, lot := range a.Lots {
			if seen[lot.Number] {
				t.Errorf("lot number %d duplicated after import", lot.Number)
			}
			seen[lot.Number] = true
		}
	}
	for _, d := range l.DisposedLots() {
		if seen[d.Lot.Number] {
			t.Errorf("disposed lot number %d duplicated after import", d.Lot.Number)
		}
		seen[d.Lot.Number] = true
	}
}

func TestImportRejectsInFlightOperations(t *testing.T) {
	l := NewLedger()

	pending := newTestLedger(t, "wallet", 100)
	if err := pending.RecordTransfer("sig1", 2000, "wallet", "cold", NativeAsset, 10, FIFO, nil); err != nil {
		t.Fatal(err)
	}
	var importErr *ImportError
	if err := l.Import(pending); !errors.As(err, &importErr) {
		t.Errorf("pending source: got %v, want ImportError", err)
	}

	ordered := newTestLedger(t, "wallet", 100)
	if err := ordered.OpenSellOrder("ftx", "SOL/USD", "o1", "wallet", NativeAsset, 10, M(30, "USD"), FIFO); err != nil {
		t.Fatal(err)
	}
	if err := l.Import(ordered); !errors.As(err, &importErr) {
		t.Errorf("source with open orders: got %v, want ImportError", err)
	}
}
