package lotledger

import (
	"encoding/json"
	"fmt"
)

// The four saga types. Each holds the lots extracted from its source
// account in escrow between the moment the external operation is
// submitted and the moment its outcome is known. The idempotency key (a
// transaction signature or an exchange id) resolves the saga exactly
// once: confirm routes the lots to their destination, cancel returns
// them to the source unchanged.

// PendingDeposit is an in-flight deposit from an on-chain account to an
// exchange.
type PendingDeposit struct {
	Signature            string // transaction signature, idempotency key
	LastValidBlockHeight uint64
	Exchange             string
	FromAddress          string
	ToAddress            string // the exchange's deposit address
	Asset                Asset
	Lots                 []Lot
}

// PendingWithdrawal is an in-flight withdrawal from an exchange back to
// an on-chain account. The fee is peeled off into FeeLots when the
// withdrawal is recorded; on confirm the fee lots are disposed as
// withdrawal fees and the rest lands at the destination.
type PendingWithdrawal struct {
	WithdrawalID string // exchange withdrawal id, idempotency key
	Exchange     string
	FromAddress  string // the exchange's deposit address
	ToAddress    string
	Asset        Asset
	Lots         []Lot
	FeeLots      []Lot
}

// PendingTransfer is an in-flight transfer between two tracked on-chain
// accounts of the same asset.
type PendingTransfer struct {
	Signature            string
	LastValidBlockHeight uint64
	FromAddress          string
	ToAddress            string
	Asset                Asset
	Lots                 []Lot
}

// PendingSwap is an in-flight token swap on one address. Both observed
// prices and the selection method are kept so that a partial fill can be
// apportioned once the swapped amounts are known.
type PendingSwap struct {
	Signature            string
	LastValidBlockHeight uint64
	Address              string
	FromAsset            Asset
	ToAsset              Asset
	FromPrice            Money // per unit of FromAsset, observed before the swap
	ToPrice              Money // per unit of ToAsset, observed before the swap
	Method               LotSelectionMethod
	Lots                 []Lot
}

// OrderSide is the side of an exchange limit order.
type OrderSide int

const (
	Buy OrderSide = iota
	Sell
)

func (s OrderSide) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseOrderSide parses a string into an OrderSide.
func ParseOrderSide(s string) (OrderSide, error) {
	switch s {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown order side: %q", s)
	}
}

func (s OrderSide) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

func (s *OrderSide) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseOrderSide(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// OpenOrder is an exchange limit order. A sell order reserves the lots
// being offered, removed from the account until the order closes. A buy
// order reserves nothing: nothing is owned yet, only Amount records the
// target.
type OpenOrder struct {
	Exchange string
	Side     OrderSide
	OrderID  string
	Pair     string
	Address  string // the exchange account the order trades against
	Asset    Asset
	Price    Money              // limit price per whole unit
	Method   LotSelectionMethod // apportions the reservation on a partial sell fill
	Amount   uint64             // buy target in smallest units; zero for sell orders
	Lots     []Lot              // sell reservation; empty for buy orders
}

func (d PendingDeposit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("signature", d.Signature)
	w.Append("lastValidBlockHeight", d.LastValidBlockHeight)
	w.Append("exchange", d.Exchange)
	w.Append("fromAddress", d.FromAddress)
	w.Append("toAddress", d.ToAddress)
	w.Append("asset", d.Asset)
	w.Append("lots", d.Lots)
	return w.MarshalJSON()
}

func (d *PendingDeposit) UnmarshalJSON(data []byte) error {
	var temp struct {
		Signature            string `json:"signature"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
		Exchange             string `json:"exchange"`
		FromAddress          string `json:"fromAddress"`
		ToAddress            string `json:"toAddress"`
		Asset                Asset  `json:"asset"`
		Lots                 []Lot  `json:"lots"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*d = PendingDeposit(temp)
	if d.Asset == "" {
		d.Asset = NativeAsset
	}
	return nil
}

func (wd PendingWithdrawal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("withdrawalId", wd.WithdrawalID)
	w.Append("exchange", wd.Exchange)
	w.Append("fromAddress", wd.FromAddress)
	w.Append("toAddress", wd.ToAddress)
	w.Append("asset", wd.Asset)
	w.Append("lots", wd.Lots)
	w.Optional("feeLots", wd.FeeLots)
	return w.MarshalJSON()
}

func (wd *PendingWithdrawal) UnmarshalJSON(data []byte) error {
	var temp struct {
		WithdrawalID string `json:"withdrawalId"`
		Exchange     string `json:"exchange"`
		FromAddress  string `json:"fromAddress"`
		ToAddress    string `json:"toAddress"`
		Asset        Asset  `json:"asset"`
		Lots         []Lot  `json:"lots"`
		FeeLots      []Lot  `json:"feeLots"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*wd = PendingWithdrawal(temp)
	if wd.Asset == "" {
		wd.Asset = NativeAsset
	}
	return nil
}

func (t PendingTransfer) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("signature", t.Signature)
	w.Append("lastValidBlockHeight", t.LastValidBlockHeight)
	w.Append("fromAddress", t.FromAddress)
	w.Append("toAddress", t.ToAddress)
	w.Append("asset", t.Asset)
	w.Append("lots", t.Lots)
	return w.MarshalJSON()
}

func (t *PendingTransfer) UnmarshalJSON(data []byte) error {
	var temp struct {
		Signature            string `json:"signature"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
		FromAddress          string `json:"fromAddress"`
		ToAddress            string `json:"toAddress"`
		Asset                Asset  `json:"asset"`
		Lots                 []Lot  `json:"lots"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = PendingTransfer(temp)
	if t.Asset == "" {
		t.Asset = NativeAsset
	}
	return nil
}

func (s PendingSwap) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("signature", s.Signature)
	w.Append("lastValidBlockHeight", s.LastValidBlockHeight)
	w.Append("address", s.Address)
	w.Append("fromAsset", s.FromAsset)
	w.Append("toAsset", s.ToAsset)
	w.Append("fromPrice", s.FromPrice)
	w.Append("toPrice", s.ToPrice)
	w.Append("method", s.Method)
	w.Append("lots", s.Lots)
	return w.MarshalJSON()
}

func (s *PendingSwap) UnmarshalJSON(data []byte) error {
	var temp struct {
		Signature            string             `json:"signature"`
		LastValidBlockHeight uint64             `json:"lastValidBlockHeight"`
		Address              string             `json:"address"`
		FromAsset            Asset              `json:"fromAsset"`
		ToAsset              Asset              `json:"toAsset"`
		FromPrice            Money              `json:"fromPrice"`
		ToPrice              Money              `json:"toPrice"`
		Method               LotSelectionMethod `json:"method"`
		Lots                 []Lot              `json:"lots"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*s = PendingSwap(temp)
	if s.FromAsset == "" {
		s.FromAsset = NativeAsset
	}
	if s.ToAsset == "" {
		s.ToAsset = NativeAsset
	}
	return nil
}

func (o OpenOrder) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("exchange", o.Exchange)
	w.Append("side", o.Side)
	w.Append("orderId", o.OrderID)
	w.Append("pair", o.Pair)
	w.Append("address", o.Address)
	w.Append("asset", o.Asset)
	w.Append("price", o.Price)
	w.Append("method", o.Method)
	w.Optional("amount", o.Amount)
	w.Optional("lots", o.Lots)
	return w.MarshalJSON()
}

func (o *OpenOrder) UnmarshalJSON(data []byte) error {
	var temp struct {
		Exchange string             `json:"exchange"`
		Side     OrderSide          `json:"side"`
		OrderID  string             `json:"orderId"`
		Pair     string             `json:"pair"`
		Address  string             `json:"address"`
		Asset    Asset              `json:"asset"`
		Price    Money              `json:"price"`
		Method   LotSelectionMethod `json:"method"`
		Amount   uint64             `json:"amount"`
		Lots     []Lot              `json:"lots"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*o = OpenOrder(temp)
	if o.Asset == "" {
		o.Asset = NativeAsset
	}
	return nil
}
