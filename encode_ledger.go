package lotledger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The snapshot is a single structured JSON document covering the whole
// ledger: the lot number counter, the tracked accounts with their lots,
// the disposal journal, the four pending-operation lists, the open
// orders, and the ancillary records. Fields absent in older snapshots
// default on decode; in particular a missing asset tag means the native
// asset.

// EncodeLedger writes the full ledger state as one JSON document.
func EncodeLedger(w io.Writer, l *Ledger) error {
	epochs := make([]uint64, 0, len(l.creditScores))
	for e := range l.creditScores {
		epochs = append(epochs, e)
	}
	sort.Slice(epochs, func(i, j int) bool { return epochs[i] < epochs[j] })
	scores := make(map[string][]ValidatorCreditScore, len(epochs))
	for _, e := range epochs {
		scores[strconv.FormatUint(e, 10)] = l.creditScores[e]
	}

	var doc jsonObjectWriter
	doc.Append("nextLotNumber", l.nextLotNumber)
	doc.Append("accounts", l.accounts)
	doc.Append("disposedLots", l.disposed)
	doc.Append("pendingDeposits", l.pendingDeposits)
	doc.Append("pendingWithdrawals", l.pendingWithdrawals)
	doc.Append("pendingTransfers", l.pendingTransfers)
	doc.Append("pendingSwaps", l.pendingSwaps)
	doc.Append("openOrders", l.openOrders)
	doc.Optional("sweepStakeAccount", l.sweepStakeAccount)
	if l.taxRate != nil {
		doc.Append("taxRate", l.taxRate)
	}
	if len(scores) > 0 {
		doc.Append("validatorCreditScores", scores)
	}
	data, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not encode ledger: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("could not write ledger: %w", err)
	}
	return nil
}

// DecodeLedger reads a ledger snapshot. It recognizes, once, the legacy
// key/value representation and converts it into the current shape.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read ledger: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("could not parse ledger: %w", err)
	}
	if _, legacy := probe["list_map"]; legacy {
		return decodeLegacyLedger(probe)
	}
	if _, legacy := probe["map"]; legacy {
		if _, current := probe["accounts"]; !current {
			return decodeLegacyLedger(probe)
		}
	}

	var temp struct {
		NextLotNumber         uint64                            `json:"nextLotNumber"`
		Accounts              []*TrackedAccount                 `json:"accounts"`
		DisposedLots          []DisposedLot                     `json:"disposedLots"`
		PendingDeposits       []PendingDeposit                  `json:"pendingDeposits"`
		PendingWithdrawals    []PendingWithdrawal               `json:"pendingWithdrawals"`
		PendingTransfers      []PendingTransfer                 `json:"pendingTransfers"`
		PendingSwaps          []PendingSwap                     `json:"pendingSwaps"`
		OpenOrders            []OpenOrder                       `json:"openOrders"`
		SweepStakeAccount     string                            `json:"sweepStakeAccount"`
		TaxRate               *TaxRate                          `json:"taxRate"`
		ValidatorCreditScores map[string][]ValidatorCreditScore `json:"validatorCreditScores"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return nil, fmt.Errorf("could not decode ledger: %w", err)
	}

	l := NewLedger()
	l.nextLotNumber = temp.NextLotNumber
	if l.nextLotNumber == 0 {
		l.nextLotNumber = 1
	}
	l.accounts = temp.Accounts
	l.disposed = temp.DisposedLots
	l.pendingDeposits = temp.PendingDeposits
	l.pendingWithdrawals = temp.PendingWithdrawals
	l.pendingTransfers = temp.PendingTransfers
	l.pendingSwaps = temp.PendingSwaps
	l.openOrders = temp.OpenOrders
	l.sweepStakeAccount = temp.SweepStakeAccount
	l.taxRate = temp.TaxRate
	for key, scores := range temp.ValidatorCreditScores {
		epoch, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid credit score epoch %q: %w", key, err)
		}
		l.creditScores[epoch] = scores
	}
	for _, a := range l.accounts {
		a.assertConserved()
	}
	return l, nil
}

// decodeLegacyLedger converts the previous generation's persisted form,
// a generic ordered key/value store with separate "map" and "list_map"
// sections, into a current ledger. Only the record shapes that existed
// back then are recognized.
func decodeLegacyLedger(probe map[string]json.RawMessage) (*Ledger, error) {
	l := NewLedger()

	if raw, ok := probe["list_map"]; ok {
		var listMap map[string][]json.RawMessage
		if err := json.Unmarshal(raw, &listMap); err != nil {
			return nil, fmt.Errorf("could not parse legacy list section: %w", err)
		}
		for _, item := range listMap["deposits"] {
			var legacy struct {
				Exchange string  `json:"exchange"`
				TxID     string  `json:"tx_id"`
				Amount   float64 `json:"amount"`
			}
			if err := json.Unmarshal(item, &legacy); err != nil {
				return nil, fmt.Errorf("could not parse legacy deposit: %w", err)
			}
			log.Printf("converting legacy pending deposit %s (no lot detail)", legacy.TxID)
			l.pendingDeposits = append(l.pendingDeposits, PendingDeposit{
				Signature: legacy.TxID,
				Exchange:  legacy.Exchange,
				Asset:     NativeAsset,
			})
		}
	}

	if raw, ok := probe["map"]; ok {
		var section map[string]json.RawMessage
		if err := json.Unmarshal(raw, &section); err != nil {
			return nil, fmt.Errorf("could not parse legacy map section: %w", err)
		}
		if rawRate, ok := section["tax_rate"]; ok {
			var rate TaxRate
			if err := json.Unmarshal(rawRate, &rate); err != nil {
				return nil, fmt.Errorf("could not parse legacy tax rate: %w", err)
			}
			l.taxRate = &rate
		}
		if rawSweep, ok := section["sweep_stake_account"]; ok {
			if err := json.Unmarshal(rawSweep, &l.sweepStakeAccount); err != nil {
				return nil, fmt.Errorf("could not parse legacy sweep stake account: %w", err)
			}
		}
	}

	return l, nil
}
