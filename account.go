package lotledger

import (
	"encoding/json"
	"fmt"
)

// TrackedAccount is the ownership unit of the ledger: one on-chain
// address holding one asset. Its cached balance and its lots are tied by
// the conservation invariant: the balance always equals the sum of the
// lots' amounts.
type TrackedAccount struct {
	Address           string
	Asset             Asset
	Description       string
	LastUpdateEpoch   uint64
	LastUpdateBalance uint64
	Lots              []Lot
	NoSync            bool
}

// assertConserved panics when the cached balance disagrees with the
// lots. This is an internal bookkeeping fault, not a caller error, so it
// is not returned: the process must not persist or continue on it.
func (a *TrackedAccount) assertConserved() {
	if sum := lots(a.Lots).total(); sum != a.LastUpdateBalance {
		panic(fmt.Sprintf("conservation violated on %s (%s): balance %d != lots total %d",
			a.Address, a.Asset, a.LastUpdateBalance, sum))
	}
}

// mergeLots re-inserts lots into the account. A lot whose acquisition
// record exactly equals an existing lot's is summed into it (same cost
// basis, same lot); otherwise it is appended. The balance grows by the
// merged total.
func (a *TrackedAccount) mergeLots(ls []Lot) {
	a.assertConserved()
	for _, l := range ls {
		merged := false
		for i := range a.Lots {
			if a.Lots[i].Acquisition.Equal(l.Acquisition) {
				a.Lots[i].Amount += l.Amount
				merged = true
				break
			}
		}
		if !merged {
			a.Lots = append(a.Lots, l)
		}
		a.LastUpdateBalance += l.Amount
	}
	lots(a.Lots).sortByAcquisition()
	a.assertConserved()
}

// extractLots removes lots totalling exactly amount from the account,
// decreasing the balance accordingly. When only is non-empty, only the
// listed lot numbers are eligible donors. Fails with
// InsufficientBalanceError when the account holds less than amount.
func (a *TrackedAccount) extractLots(amount uint64, method LotSelectionMethod, only []uint64, allocate func() uint64) ([]Lot, error) {
	a.assertConserved()
	available := lots(a.Lots).total()
	if len(only) != 0 {
		available = 0
		for _, l := range a.Lots {
			for _, n := range only {
				if l.Number == n {
					available += l.Amount
					break
				}
			}
		}
	}
	if available < amount {
		return nil, &InsufficientBalanceError{
			Address:   a.Address,
			Asset:     a.Asset,
			Requested: amount,
			Available: available,
		}
	}
	extracted, remaining := extract(a.Lots, amount, method, only, allocate)
	a.Lots = remaining
	a.LastUpdateBalance -= amount
	a.assertConserved()
	return extracted, nil
}

func (a TrackedAccount) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("address", a.Address)
	w.Append("asset", a.Asset)
	w.Optional("description", a.Description)
	w.Append("lastUpdateEpoch", a.LastUpdateEpoch)
	w.Append("lastUpdateBalance", a.LastUpdateBalance)
	w.Append("lots", a.Lots)
	w.Optional("noSync", a.NoSync)
	return w.MarshalJSON()
}

func (a *TrackedAccount) UnmarshalJSON(data []byte) error {
	var temp struct {
		Address           string `json:"address"`
		Asset             Asset  `json:"asset"`
		Description       string `json:"description"`
		LastUpdateEpoch   uint64 `json:"lastUpdateEpoch"`
		LastUpdateBalance uint64 `json:"lastUpdateBalance"`
		Lots              []Lot  `json:"lots"`
		NoSync            bool   `json:"noSync"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	a.Address = temp.Address
	a.Asset = temp.Asset
	if a.Asset == "" {
		// Snapshots written before assets were tagged hold the native asset.
		a.Asset = NativeAsset
	}
	a.Description = temp.Description
	a.LastUpdateEpoch = temp.LastUpdateEpoch
	a.LastUpdateBalance = temp.LastUpdateBalance
	a.Lots = temp.Lots
	a.NoSync = temp.NoSync
	return nil
}
