package lotledger

import (
	"encoding/json"
	"fmt"
)

// KindCode is a typed string for identifying acquisition and disposal kinds.
type KindCode string

// Acquisition kind codes.
const (
	KindEpochReward      KindCode = "epoch-reward"
	KindChainTransaction KindCode = "transaction"
	KindExchangeFill     KindCode = "fill"
	KindOtherIncome      KindCode = "income"
	KindFiatPurchase     KindCode = "fiat"
	KindSwapReceived     KindCode = "swap"
)

// Disposal kind codes.
const (
	KindExchangeSale  KindCode = "sale"
	KindSwapSent      KindCode = "swap"
	KindWithdrawalFee KindCode = "withdrawal-fee"
	KindFiatSale      KindCode = "fiat"
	KindOtherDisposal KindCode = "other"
)

// AcquisitionKind is the closed set of ways a lot can enter the ledger.
type AcquisitionKind interface {
	What() KindCode // What returns the kind code, used as the JSON tag.
	Equal(AcquisitionKind) bool
}

// EpochReward is a staking reward credited at the end of an epoch.
type EpochReward struct {
	Epoch uint64 `json:"epoch"`
}

// ChainTransaction is an on-chain transfer received from an untracked party.
type ChainTransaction struct {
	Signature string `json:"signature"`
}

// ExchangeFill is a buy order fill on an exchange.
type ExchangeFill struct {
	Exchange string `json:"exchange"`
	Pair     string `json:"pair,omitempty"`
	OrderID  string `json:"orderId"`
}

// OtherIncome is income from a source the ledger has no dedicated kind for.
type OtherIncome struct {
	Description string `json:"description"`
}

// FiatPurchase is an acquisition paid for directly in the quote currency.
type FiatPurchase struct{}

// SwapReceived is the destination side of a token swap.
type SwapReceived struct {
	Signature string `json:"signature"`
}

func (EpochReward) What() KindCode      { return KindEpochReward }
func (ChainTransaction) What() KindCode { return KindChainTransaction }
func (ExchangeFill) What() KindCode     { return KindExchangeFill }
func (OtherIncome) What() KindCode      { return KindOtherIncome }
func (FiatPurchase) What() KindCode     { return KindFiatPurchase }
func (SwapReceived) What() KindCode     { return KindSwapReceived }

func (k EpochReward) Equal(o AcquisitionKind) bool      { v, ok := o.(EpochReward); return ok && k == v }
func (k ChainTransaction) Equal(o AcquisitionKind) bool { v, ok := o.(ChainTransaction); return ok && k == v }
func (k ExchangeFill) Equal(o AcquisitionKind) bool     { v, ok := o.(ExchangeFill); return ok && k == v }
func (k OtherIncome) Equal(o AcquisitionKind) bool      { v, ok := o.(OtherIncome); return ok && k == v }
func (k FiatPurchase) Equal(o AcquisitionKind) bool     { _, ok := o.(FiatPurchase); return ok }
func (k SwapReceived) Equal(o AcquisitionKind) bool     { v, ok := o.(SwapReceived); return ok && k == v }

// AcquisitionIsIncome reports whether the acquisition is taxable income
// (as opposed to a mere change of form of already-owned value). The
// switch is exhaustive on purpose: adding a kind must revisit this.
func AcquisitionIsIncome(k AcquisitionKind) bool {
	switch k.(type) {
	case EpochReward, ChainTransaction, OtherIncome:
		return true
	case ExchangeFill, FiatPurchase, SwapReceived:
		return false
	default:
		panic(fmt.Sprintf("unknown acquisition kind %T", k))
	}
}

func marshalAcquisitionKind(k AcquisitionKind) ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", k.What())
	w.EmbedFrom(k)
	return w.MarshalJSON()
}

func unmarshalAcquisitionKind(data []byte) (AcquisitionKind, error) {
	var identifier struct {
		Kind KindCode `json:"kind"`
	}
	if err := json.Unmarshal(data, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify acquisition kind: %w", err)
	}
	var k AcquisitionKind
	var err error
	switch identifier.Kind {
	case KindEpochReward:
		var v EpochReward
		err = json.Unmarshal(data, &v)
		k = v
	case KindChainTransaction:
		var v ChainTransaction
		err = json.Unmarshal(data, &v)
		k = v
	case KindExchangeFill:
		var v ExchangeFill
		err = json.Unmarshal(data, &v)
		k = v
	case KindOtherIncome:
		var v OtherIncome
		err = json.Unmarshal(data, &v)
		k = v
	case KindFiatPurchase:
		k = FiatPurchase{}
	case KindSwapReceived:
		var v SwapReceived
		err = json.Unmarshal(data, &v)
		k = v
	default:
		err = fmt.Errorf("unknown acquisition kind: %q", identifier.Kind)
	}
	if err != nil {
		return nil, err
	}
	return k, nil
}

// DisposalKind is the closed set of ways a lot can leave the ledger.
type DisposalKind interface {
	What() KindCode
	Equal(DisposalKind) bool
}

// ExchangeSale is a sell order fill on an exchange, with an optional fee
// already denominated in the quote currency.
type ExchangeSale struct {
	Exchange string `json:"exchange"`
	Pair     string `json:"pair,omitempty"`
	OrderID  string `json:"orderId"`
	Fee      Money  `json:"fee,omitzero"`
}

// SwapSent is the source side of a token swap.
type SwapSent struct {
	Signature string `json:"signature"`
}

// WithdrawalFee is the fee withheld by an exchange on a withdrawal.
type WithdrawalFee struct {
	WithdrawalID string `json:"withdrawalId"`
}

// FiatSale is a disposal settled directly in the quote currency.
type FiatSale struct{}

// OtherDisposal is a disposal the ledger has no dedicated kind for.
type OtherDisposal struct {
	Description string `json:"description"`
}

func (ExchangeSale) What() KindCode  { return KindExchangeSale }
func (SwapSent) What() KindCode      { return KindSwapSent }
func (WithdrawalFee) What() KindCode { return KindWithdrawalFee }
func (FiatSale) What() KindCode      { return KindFiatSale }
func (OtherDisposal) What() KindCode { return KindOtherDisposal }

func (k ExchangeSale) Equal(o DisposalKind) bool {
	v, ok := o.(ExchangeSale)
	return ok && k.Exchange == v.Exchange && k.Pair == v.Pair && k.OrderID == v.OrderID && k.Fee.Equal(v.Fee)
}
func (k SwapSent) Equal(o DisposalKind) bool      { v, ok := o.(SwapSent); return ok && k == v }
func (k WithdrawalFee) Equal(o DisposalKind) bool { v, ok := o.(WithdrawalFee); return ok && k == v }
func (k FiatSale) Equal(o DisposalKind) bool      { _, ok := o.(FiatSale); return ok }
func (k OtherDisposal) Equal(o DisposalKind) bool { v, ok := o.(OtherDisposal); return ok && k == v }

// DisposalIsSale reports whether the disposal realizes a gain or loss
// against the lot's basis. Exhaustive: adding a kind must revisit this.
func DisposalIsSale(k DisposalKind) bool {
	switch k.(type) {
	case ExchangeSale, SwapSent, FiatSale:
		return true
	case WithdrawalFee, OtherDisposal:
		return false
	default:
		panic(fmt.Sprintf("unknown disposal kind %T", k))
	}
}

func marshalDisposalKind(k DisposalKind) ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", k.What())
	w.EmbedFrom(k)
	return w.MarshalJSON()
}

func unmarshalDisposalKind(data []byte) (DisposalKind, error) {
	var identifier struct {
		Kind KindCode `json:"kind"`
	}
	if err := json.Unmarshal(data, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify disposal kind: %w", err)
	}
	var k DisposalKind
	var err error
	switch identifier.Kind {
	case KindExchangeSale:
		var v ExchangeSale
		err = json.Unmarshal(data, &v)
		k = v
	case KindSwapSent:
		var v SwapSent
		err = json.Unmarshal(data, &v)
		k = v
	case KindWithdrawalFee:
		var v WithdrawalFee
		err = json.Unmarshal(data, &v)
		k = v
	case KindFiatSale:
		k = FiatSale{}
	case KindOtherDisposal:
		var v OtherDisposal
		err = json.Unmarshal(data, &v)
		k = v
	default:
		err = fmt.Errorf("unknown disposal kind: %q", identifier.Kind)
	}
	if err != nil {
		return nil, err
	}
	return k, nil
}
