package lotledger

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Acquisition records where a lot's value came from: the calendar date,
// the per-unit cost basis, and the kind of event that created it.
type Acquisition struct {
	When  Date
	Price Money // cost basis, quote currency per whole unit
	Kind  AcquisitionKind
}

// Equal reports whether two acquisition records are identical. Lots with
// equal acquisitions carry the same basis and may be merged into one.
func (a Acquisition) Equal(b Acquisition) bool {
	return a.When == b.When && a.Price.Equal(b.Price) && a.Kind.Equal(b.Kind)
}

func (a Acquisition) MarshalJSON() ([]byte, error) {
	kind, err := marshalAcquisitionKind(a.Kind)
	if err != nil {
		return nil, err
	}
	var w jsonObjectWriter
	w.Append("when", a.When)
	w.Append("price", a.Price)
	w.Append("kind", json.RawMessage(kind))
	return w.MarshalJSON()
}

func (a *Acquisition) UnmarshalJSON(data []byte) error {
	var temp struct {
		When  Date            `json:"when"`
		Price Money           `json:"price"`
		Kind  json.RawMessage `json:"kind"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	kind, err := unmarshalAcquisitionKind(temp.Kind)
	if err != nil {
		return err
	}
	a.When = temp.When
	a.Price = temp.Price
	a.Kind = kind
	return nil
}

// Lot is a quantity of a single asset acquired at a single point in time
// at a single cost basis. Amount is in the asset's smallest unit and is
// always positive: a fully extracted lot is removed, never zeroed.
type Lot struct {
	Number      uint64 // process-unique, never reused
	Amount      uint64
	Acquisition Acquisition
}

func (l Lot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("number", l.Number)
	w.Append("amount", l.Amount)
	w.Append("acquisition", l.Acquisition)
	return w.MarshalJSON()
}

func (l *Lot) UnmarshalJSON(data []byte) error {
	var temp struct {
		Number      uint64      `json:"number"`
		Amount      uint64      `json:"amount"`
		Acquisition Acquisition `json:"acquisition"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	l.Number = temp.Number
	l.Amount = temp.Amount
	l.Acquisition = temp.Acquisition
	return nil
}

type lots []Lot

// total sums the amounts of all lots.
func (ls lots) total() (sum uint64) {
	for _, l := range ls {
		sum += l.Amount
	}
	return
}

// sortByAcquisition orders lots by acquisition date, oldest first,
// breaking ties by lot number for determinism.
func (ls lots) sortByAcquisition() {
	sort.SliceStable(ls, func(i, j int) bool {
		if ls[i].Acquisition.When != ls[j].Acquisition.When {
			return ls[i].Acquisition.When.Before(ls[j].Acquisition.When)
		}
		return ls[i].Number < ls[j].Number
	})
}

// find returns the index of the lot with the given number, or -1.
func (ls lots) find(number uint64) int {
	for i, l := range ls {
		if l.Number == number {
			return i
		}
	}
	return -1
}

// DisposedLot is a lot that has left the ledger permanently, together
// with the disposal date, the realized price, and the reason. The asset
// is recorded here because a disposal may be journaled against another
// account's holding during cross-asset repairs.
type DisposedLot struct {
	Lot   Lot
	Asset Asset
	When  Date
	Price Money // realized, quote currency per whole unit
	Kind  DisposalKind
}

// Gain is the realized amount over the lot's basis, negative for a loss.
func (d DisposedLot) Gain() Money {
	proceeds := d.Price.MulUnits(d.Lot.Amount, d.Asset)
	basis := d.Lot.Acquisition.Price.MulUnits(d.Lot.Amount, d.Asset)
	return proceeds.Sub(basis)
}

func (d DisposedLot) MarshalJSON() ([]byte, error) {
	kind, err := marshalDisposalKind(d.Kind)
	if err != nil {
		return nil, err
	}
	var w jsonObjectWriter
	w.EmbedFrom(d.Lot)
	w.Append("asset", d.Asset)
	w.Append("when", d.When)
	w.Append("price", d.Price)
	w.Append("disposal", json.RawMessage(kind))
	return w.MarshalJSON()
}

func (d *DisposedLot) UnmarshalJSON(data []byte) error {
	var temp struct {
		Number      uint64          `json:"number"`
		Amount      uint64          `json:"amount"`
		Acquisition Acquisition     `json:"acquisition"`
		Asset       Asset           `json:"asset"`
		When        Date            `json:"when"`
		Price       Money           `json:"price"`
		Disposal    json.RawMessage `json:"disposal"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	kind, err := unmarshalDisposalKind(temp.Disposal)
	if err != nil {
		return fmt.Errorf("disposed lot %d: %w", temp.Number, err)
	}
	d.Lot = Lot{Number: temp.Number, Amount: temp.Amount, Acquisition: temp.Acquisition}
	d.Asset = temp.Asset
	if d.Asset == "" {
		d.Asset = NativeAsset
	}
	d.When = temp.When
	d.Price = temp.Price
	d.Kind = kind
	return nil
}
