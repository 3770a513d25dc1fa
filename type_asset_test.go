package lotledger

import "testing"

func TestAssetDecimals(t *testing.T) {
	if got := NativeAsset.Decimals(); got != 9 {
		t.Errorf("SOL decimals = %d, want 9", got)
	}
	if got := Asset("USDC").Decimals(); got != 6 {
		t.Errorf("USDC decimals = %d, want 6", got)
	}
	// Unknown assets fall back to the native asset's decimals.
	if got := Asset("UNKNOWN").Decimals(); got != 9 {
		t.Errorf("unknown asset decimals = %d, want 9", got)
	}
}

func TestAssetFiatFungible(t *testing.T) {
	for _, a := range []Asset{"USD", "USDC", "USDT", "BUSD"} {
		if !a.FiatFungible() {
			t.Errorf("%s should be fiat fungible", a)
		}
	}
	if NativeAsset.FiatFungible() {
		t.Error("the native asset is not fiat fungible")
	}
}

func TestAssetEquivalence(t *testing.T) {
	if !Asset("wSOL").EquivalentTo("SOL") || !NativeAsset.EquivalentTo("wSOL") {
		t.Error("wSOL and SOL should be equivalent both ways")
	}
	if !NativeAsset.EquivalentTo(NativeAsset) {
		t.Error("an asset is equivalent to itself")
	}
	if Asset("USDC").EquivalentTo("SOL") {
		t.Error("USDC and SOL are not equivalent")
	}
}

func TestAssetFormatParseAmount(t *testing.T) {
	if got := NativeAsset.Format(1_500_000_000); got != "1.5" {
		t.Errorf("Format = %q, want 1.5", got)
	}
	got, err := NativeAsset.ParseAmount("1.5")
	if err != nil {
		t.Fatal(err)
	}
	if got != 1_500_000_000 {
		t.Errorf("ParseAmount = %d, want 1500000000", got)
	}
	// More precision than the asset carries is rejected.
	if _, err := Asset("USDC").ParseAmount("0.0000001"); err == nil {
		t.Error("sub-unit amount should be rejected")
	}
	if _, err := NativeAsset.ParseAmount("-1"); err == nil {
		t.Error("negative amount should be rejected")
	}
}
