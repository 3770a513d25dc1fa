package lotledger

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyArithmetic(t *testing.T) {
	a := M(10.5, "USD")
	b := M(2, "USD")
	if got := a.Add(b); !got.Equal(M(12.5, "USD")) {
		t.Errorf("Add = %s, want 12.5 USD", got)
	}
	if got := a.Sub(b); !got.Equal(M(8.5, "USD")) {
		t.Errorf("Sub = %s, want 8.5 USD", got)
	}
	if got := b.Mul(decimal.New(3, 0)); !got.Equal(M(6, "USD")) {
		t.Errorf("Mul = %s, want 6 USD", got)
	}
	if !b.LessThan(a) || a.LessThan(b) {
		t.Error("LessThan broken")
	}
}

func TestMoneyCurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding USD to EUR should panic")
		}
	}()
	M(1, "USD").Add(M(1, "EUR"))
}

func TestMoneyWeakEmptyCurrency(t *testing.T) {
	got := Money{}.Add(M(5, "USD"))
	if got.Currency() != "USD" || !got.Equal(M(5, "USD")) {
		t.Errorf("zero Money + 5 USD = %s %s, want 5 USD", got, got.Currency())
	}
}

func TestMulUnits(t *testing.T) {
	// 1.5 SOL at 20 USD per SOL, expressed in lamports.
	price := M(20, "USD")
	got := price.MulUnits(1_500_000_000, NativeAsset)
	if !got.Equal(M(30, "USD")) {
		t.Errorf("MulUnits = %s, want 30 USD", got)
	}
	// 2 USDC at parity, expressed in its 6-decimal smallest unit.
	got = M(1, "USD").MulUnits(2_000_000, "USDC")
	if !got.Equal(M(2, "USD")) {
		t.Errorf("MulUnits = %s, want 2 USD", got)
	}
	// Amounts above MaxInt64 must not wrap negative.
	got = M(1, "USD").MulUnits(1<<63, NativeAsset)
	want := M(decimal.NewFromUint64(1<<63).Shift(-9), "USD")
	if got.Decimal().IsNegative() || !got.Equal(want) {
		t.Errorf("MulUnits(2^63) = %s, want %s", got, want)
	}
}

func TestParsePrice(t *testing.T) {
	m, err := ParsePrice("23.45", "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !m.Equal(M(23.45, "USD")) {
		t.Errorf("ParsePrice = %s, want 23.45 USD", m)
	}
	if _, err := ParsePrice("abc", "USD"); err == nil {
		t.Error("ParsePrice(abc) should fail")
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(M(23.45, "USD"))
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"amount":23.45,"currency":"USD"}`; string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
	var back Money
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(M(23.45, "USD")) {
		t.Errorf("round trip = %s, want 23.45 USD", back)
	}
}
