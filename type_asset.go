package lotledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Asset identifies the kind of value a lot is denominated in, by symbol.
type Asset string

// NativeAsset is the chain's native asset, assumed when a persisted
// record carries no asset tag.
const NativeAsset Asset = "SOL"

// assetDecimals maps known assets to the number of decimals of their
// smallest unit. Unknown assets default to the native asset's 9.
var assetDecimals = map[Asset]int{
	"SOL":  9,
	"wSOL": 9,
	"USDC": 6,
	"USDT": 6,
	"BUSD": 8,
	"mSOL": 9,
}

// fiatFungible is the set of assets pegged to the quote currency: their
// lots carry no meaningful per-lot basis, a unit is always worth one.
var fiatFungible = map[Asset]bool{
	"USD":  true,
	"USDC": true,
	"USDT": true,
	"BUSD": true,
}

// equivalent holds the wrapped/native pairs that are mutually fungible
// for lot-identity repairs. The set is configuration, not logic.
var equivalent = map[Asset]Asset{
	"wSOL": "SOL",
}

// SetAssetEquivalence declares a wrapped asset equivalent to its underlying asset.
func SetAssetEquivalence(wrapped, underlying Asset) { equivalent[wrapped] = underlying }

// SetAssetDecimals declares the number of decimals of an asset's smallest unit.
func SetAssetDecimals(asset Asset, decimals int) { assetDecimals[asset] = decimals }

// Decimals returns the number of decimals of the asset's smallest unit.
func (a Asset) Decimals() int {
	if d, ok := assetDecimals[a]; ok {
		return d
	}
	return assetDecimals[NativeAsset]
}

// FiatFungible reports whether a unit of the asset is always worth one
// unit of the quote currency.
func (a Asset) FiatFungible() bool { return fiatFungible[a] }

// EquivalentTo reports whether two assets are the same, or configured
// wrapped/native variants of the same underlying asset.
func (a Asset) EquivalentTo(b Asset) bool {
	if a == b {
		return true
	}
	return equivalent[a] == b || equivalent[b] == a
}

// Format renders an integral amount of smallest units as a whole-unit
// decimal string, e.g. 1500000000 lamports as "1.5".
func (a Asset) Format(amount uint64) string {
	return decimal.NewFromUint64(amount).Shift(-int32(a.Decimals())).String()
}

// ParseAmount parses a whole-unit decimal string like "1.5" into an
// integral amount of smallest units.
func (a Asset) ParseAmount(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	shifted := d.Shift(int32(a.Decimals()))
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than %d decimals", s, a.Decimals())
	}
	if shifted.IsNegative() {
		return 0, fmt.Errorf("amount %q is negative", s)
	}
	return uint64(shifted.IntPart()), nil
}
