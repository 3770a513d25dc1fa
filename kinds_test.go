package lotledger

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAcquisitionKindJSON(t *testing.T) {
	kinds := []AcquisitionKind{
		EpochReward{Epoch: 430},
		ChainTransaction{Signature: "sig1"},
		ExchangeFill{Exchange: "ftx", Pair: "SOL/USD", OrderID: "o1"},
		OtherIncome{Description: "airdrop"},
		FiatPurchase{},
		SwapReceived{Signature: "sig2"},
	}
	for _, k := range kinds {
		data, err := marshalAcquisitionKind(k)
		if err != nil {
			t.Fatalf("%T: %v", k, err)
		}
		if !strings.Contains(string(data), `"kind":"`+string(k.What())+`"`) {
			t.Errorf("%T encoded as %s, missing its tag", k, data)
		}
		if !json.Valid(data) {
			t.Errorf("%T encoded as invalid JSON: %s", k, data)
		}
		back, err := unmarshalAcquisitionKind(data)
		if err != nil {
			t.Fatalf("%T: %v", k, err)
		}
		if !back.Equal(k) {
			t.Errorf("%T round trip = %#v, want %#v", k, back, k)
		}
	}
}

func TestDisposalKindJSON(t *testing.T) {
	kinds := []DisposalKind{
		ExchangeSale{Exchange: "ftx", Pair: "SOL/USD", OrderID: "o1", Fee: M(0.1, "USD")},
		SwapSent{Signature: "sig1"},
		WithdrawalFee{WithdrawalID: "w1"},
		FiatSale{},
		OtherDisposal{Description: "donation"},
	}
	for _, k := range kinds {
		data, err := marshalDisposalKind(k)
		if err != nil {
			t.Fatalf("%T: %v", k, err)
		}
		if !json.Valid(data) {
			t.Errorf("%T encoded as invalid JSON: %s", k, data)
		}
		back, err := unmarshalDisposalKind(data)
		if err != nil {
			t.Fatalf("%T: %v", k, err)
		}
		if !back.Equal(k) {
			t.Errorf("%T round trip = %#v, want %#v", k, back, k)
		}
	}
}

func TestUnknownKindRejected(t *testing.T) {
	if _, err := unmarshalAcquisitionKind([]byte(`{"kind":"teleport"}`)); err == nil {
		t.Error("unknown acquisition kind should fail to decode")
	}
	if _, err := unmarshalDisposalKind([]byte(`{"kind":"teleport"}`)); err == nil {
		t.Error("unknown disposal kind should fail to decode")
	}
}

func TestKindClassification(t *testing.T) {
	if !AcquisitionIsIncome(EpochReward{Epoch: 1}) {
		t.Error("an epoch reward is income")
	}
	if AcquisitionIsIncome(FiatPurchase{}) {
		t.Error("a fiat purchase is not income")
	}
	if !DisposalIsSale(ExchangeSale{Exchange: "ftx"}) {
		t.Error("an exchange sale is a sale")
	}
	if DisposalIsSale(WithdrawalFee{WithdrawalID: "w1"}) {
		t.Error("a withdrawal fee is not a sale")
	}
}
