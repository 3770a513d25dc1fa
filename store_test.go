package lotledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenLedgerCreatesEmpty(t *testing.T) {
	dir := t.TempDir()
	l, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(l.Accounts()); got != 0 {
		t.Errorf("fresh ledger has %d accounts", got)
	}
	// Nothing is written until the first mutation.
	if _, err := os.Stat(filepath.Join(dir, ledgerFilename)); !os.IsNotExist(err) {
		t.Errorf("snapshot file should not exist before the first mutation")
	}
}

func TestLedgerPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	l, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.AddAccount(TrackedAccount{Address: "wallet", Asset: NativeAsset}); err != nil {
		t.Fatal(err)
	}
	acq := Acquisition{When: MustParse("2023-01-01"), Price: M(10, "USD"), Kind: FiatPurchase{}}
	if err := l.RecordIncome("wallet", NativeAsset, 100, acq); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	a, ok := reopened.Account("wallet", NativeAsset)
	if !ok || a.LastUpdateBalance != 100 {
		t.Fatalf("reopened account = %v, want 100 units", a)
	}
	// The lot number counter survives the restart.
	if reopened.nextLotNumber != l.nextLotNumber {
		t.Errorf("nextLotNumber = %d after reopen, want %d", reopened.nextLotNumber, l.nextLotNumber)
	}
}

func TestFiatKindsSurvivePersistence(t *testing.T) {
	// FiatPurchase and FiatSale carry no fields of their own; their
	// snapshot encoding must still be a well-formed tagged object.
	dir := t.TempDir()
	l, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.AddAccount(TrackedAccount{Address: "wallet", Asset: NativeAsset}); err != nil {
		t.Fatal(err)
	}
	acq := Acquisition{When: MustParse("2023-01-01"), Price: M(10, "USD"), Kind: FiatPurchase{}}
	if err := l.RecordIncome("wallet", NativeAsset, 100, acq); err != nil {
		t.Fatal(err)
	}
	day := MustParse("2023-06-01")
	if _, err := l.RecordDisposal("wallet", NativeAsset, 40, FIFO, day, M(25, "USD"), FiatSale{}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ledgerFilename))
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Fatalf("snapshot is not valid JSON:\n%s", data)
	}

	reopened, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := ledgerBalance(t, reopened, "wallet", NativeAsset); got != 60 {
		t.Errorf("balance after reopen = %d, want 60", got)
	}
	disposed := reopened.DisposedLots()
	if len(disposed) != 1 {
		t.Fatalf("got %d disposed lots, want 1", len(disposed))
	}
	if !disposed[0].Kind.Equal(FiatSale{}) {
		t.Errorf("disposed kind = %#v, want FiatSale", disposed[0].Kind)
	}
	if !disposed[0].Lot.Acquisition.Kind.Equal(FiatPurchase{}) {
		t.Errorf("acquisition kind = %#v, want FiatPurchase", disposed[0].Lot.Acquisition.Kind)
	}
}

func TestSnapshotLeavesNoTemporaries(t *testing.T) {
	dir := t.TempDir()
	l, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.AddAccount(TrackedAccount{Address: "wallet", Asset: NativeAsset}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != ledgerFilename {
			t.Errorf("unexpected file %q left in snapshot directory", e.Name())
		}
	}
}

func TestDeferredSaveWritesOnce(t *testing.T) {
	dir := t.TempDir()
	l, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.AddAccount(TrackedAccount{Address: "wallet", Asset: NativeAsset}); err != nil {
		t.Fatal(err)
	}
	first, err := os.Stat(filepath.Join(dir, ledgerFilename))
	if err != nil {
		t.Fatal(err)
	}

	l.DisableAutoSave()
	acq := Acquisition{When: MustParse("2023-01-01"), Price: M(10, "USD"), Kind: FiatPurchase{}}
	if err := l.RecordIncome("wallet", NativeAsset, 100, acq); err != nil {
		t.Fatal(err)
	}
	// With saving suspended the snapshot on disk is still the old one.
	suspended, err := os.Stat(filepath.Join(dir, ledgerFilename))
	if err != nil {
		t.Fatal(err)
	}
	if suspended.Size() != first.Size() {
		t.Error("snapshot rewritten while auto-save was suspended")
	}
	if err := l.EnableAutoSave(); err != nil {
		t.Fatal(err)
	}
	reopened, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := ledgerBalance(t, reopened, "wallet", NativeAsset); got != 100 {
		t.Errorf("balance after flush = %d, want 100", got)
	}
}

func TestCredentialsStore(t *testing.T) {
	dir := t.TempDir()
	l, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	creds := ExchangeCredentials{APIKey: "key", Secret: "secret", Subaccount: "sub"}
	if err := l.SetExchangeCredentials("ftx", creds); err != nil {
		t.Fatal(err)
	}
	if err := l.SetMetricsConfig(MetricsConfig{URL: "http://metrics.local", Database: "ledger"}); err != nil {
		t.Fatal(err)
	}

	// Credentials live in their own file, not the snapshot.
	if _, err := os.Stat(filepath.Join(dir, credentialsFilename)); err != nil {
		t.Fatalf("credentials file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ledgerFilename)); !os.IsNotExist(err) {
		t.Error("credential changes should not write a ledger snapshot")
	}

	reopened, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := reopened.ExchangeCredentialsFor("ftx")
	if !ok || got != creds {
		t.Errorf("reopened credentials = %v, want %v", got, creds)
	}
	if m := reopened.Metrics(); m == nil || m.URL != "http://metrics.local" {
		t.Errorf("reopened metrics = %v", m)
	}
	if names := reopened.ConfiguredExchanges(); len(names) != 1 || names[0] != "ftx" {
		t.Errorf("ConfiguredExchanges = %v, want [ftx]", names)
	}

	if err := reopened.ClearExchangeCredentials("ftx"); err != nil {
		t.Fatal(err)
	}
	final, err := OpenLedger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := final.ExchangeCredentialsFor("ftx"); ok {
		t.Error("cleared credentials still present after reopen")
	}
}
