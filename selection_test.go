package lotledger

import (
	"testing"
)

// testAllocator returns a fresh-number allocator starting after the
// given number.
func testAllocator(next uint64) func() uint64 {
	return func() uint64 {
		n := next
		next++
		return n
	}
}

func fiatLot(number uint64, amount uint64, day string, price float64) Lot {
	return Lot{
		Number: number,
		Amount: amount,
		Acquisition: Acquisition{
			When:  MustParse(day),
			Price: M(price, "USD"),
			Kind:  FiatPurchase{},
		},
	}
}

func lotAmounts(ls lots) map[uint64]uint64 {
	out := make(map[uint64]uint64, len(ls))
	for _, l := range ls {
		out[l.Number] = l.Amount
	}
	return out
}

func TestParseLotSelectionMethod(t *testing.T) {
	for _, m := range []LotSelectionMethod{FIFO, LIFO, LowestBasis, HighestBasis} {
		parsed, err := ParseLotSelectionMethod(m.String())
		if err != nil {
			t.Fatalf("ParseLotSelectionMethod(%q): %v", m.String(), err)
		}
		if parsed != m {
			t.Errorf("ParseLotSelectionMethod(%q) = %v, want %v", m.String(), parsed, m)
		}
	}
	if _, err := ParseLotSelectionMethod("average"); err == nil {
		t.Error("ParseLotSelectionMethod(\"average\") should fail")
	}
}

func TestExtractScenarioTwoLotsFIFO(t *testing.T) {
	// 100 units acquired 2023-01-01 at 10, 50 units acquired 2023-06-01
	// at 20. Extracting 120 FIFO: the oldest lot is held back, so all 50
	// June units are taken plus 70 January units, leaving 30.
	pool := lots{
		fiatLot(1, 100, "2023-01-01", 10),
		fiatLot(2, 50, "2023-06-01", 20),
	}
	extracted, remaining := extract(pool, 120, FIFO, nil, testAllocator(3))

	if got := extracted.total(); got != 120 {
		t.Fatalf("extracted total = %d, want 120", got)
	}
	if got := remaining.total(); got != 30 {
		t.Fatalf("remaining total = %d, want 30", got)
	}
	// The January remainder keeps its original identifier.
	if len(remaining) != 1 || remaining[0].Number != 1 || remaining[0].Amount != 30 {
		t.Fatalf("remaining = %v, want lot 1 with 30 units", remaining)
	}
	// The extracted January portion carries a fresh identifier.
	amounts := lotAmounts(extracted)
	if amounts[2] != 50 {
		t.Errorf("extracted June lot = %d units, want 50", amounts[2])
	}
	if amounts[3] != 70 {
		t.Errorf("extracted January split = %d units, want 70", amounts[3])
	}
	// Outputs are sorted by acquisition date.
	if extracted[0].Acquisition.When != MustParse("2023-01-01") {
		t.Errorf("extracted not sorted by acquisition date: %v", extracted)
	}
}

func TestExtractFIFOReserveHeuristic(t *testing.T) {
	// The single oldest lot is assumed to be the rent reserve and is
	// extracted last, never before the younger lots can cover the need.
	pool := lots{
		fiatLot(1, 100, "2023-01-01", 10),
		fiatLot(2, 60, "2023-03-01", 12),
		fiatLot(3, 40, "2023-06-01", 15),
	}
	extracted, remaining := extract(pool, 80, FIFO, nil, testAllocator(4))

	if got := extracted.total(); got != 80 {
		t.Fatalf("extracted total = %d, want 80", got)
	}
	// lot 2 is consumed whole, lot 3 is split, lot 1 is untouched.
	amounts := lotAmounts(extracted)
	if amounts[2] != 60 {
		t.Errorf("extracted lot 2 = %d units, want 60", amounts[2])
	}
	if amounts[4] != 20 {
		t.Errorf("extracted split of lot 3 = %d units, want 20", amounts[4])
	}
	rem := lotAmounts(remaining)
	if rem[1] != 100 {
		t.Errorf("oldest lot touched: remaining lot 1 = %d units, want 100", rem[1])
	}
	if rem[3] != 20 {
		t.Errorf("remaining split of lot 3 = %d units, want 20", rem[3])
	}
}

func TestExtractFIFOReserveInsufficientWithoutOldest(t *testing.T) {
	// When the younger lots cannot cover the request alone, the oldest
	// lot is consumed too.
	pool := lots{
		fiatLot(1, 100, "2023-01-01", 10),
		fiatLot(2, 30, "2023-03-01", 12),
	}
	extracted, remaining := extract(pool, 60, FIFO, nil, testAllocator(3))
	amounts := lotAmounts(extracted)
	if amounts[2] != 30 {
		t.Errorf("extracted lot 2 = %d units, want 30", amounts[2])
	}
	if amounts[3] != 30 {
		t.Errorf("extracted split of lot 1 = %d units, want 30", amounts[3])
	}
	if rem := lotAmounts(remaining); rem[1] != 70 {
		t.Errorf("remaining lot 1 = %d units, want 70", rem[1])
	}
}

func TestExtractOrders(t *testing.T) {
	pool := lots{
		fiatLot(1, 10, "2023-01-01", 30),
		fiatLot(2, 10, "2023-02-01", 10),
		fiatLot(3, 10, "2023-03-01", 20),
	}
	testCases := []struct {
		name      string
		method    LotSelectionMethod
		wantFirst uint64 // number of the first lot fully consumed
	}{
		{"lifo takes newest first", LIFO, 3},
		{"lowest basis takes cheapest first", LowestBasis, 2},
		{"highest basis takes dearest first", HighestBasis, 1},
		{"fifo holds back the oldest", FIFO, 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			extracted, _ := extract(pool, 10, tc.method, nil, testAllocator(4))
			if len(extracted) != 1 || extracted[0].Number != tc.wantFirst {
				t.Errorf("extracted = %v, want single lot %d", extracted, tc.wantFirst)
			}
		})
	}
}

func TestExtractExplicitLots(t *testing.T) {
	// Lots outside the eligible set bypass the walk entirely.
	pool := lots{
		fiatLot(1, 100, "2023-01-01", 10),
		fiatLot(2, 100, "2023-02-01", 10),
		fiatLot(3, 100, "2023-03-01", 10),
	}
	extracted, remaining := extract(pool, 150, FIFO, []uint64{2, 3}, testAllocator(4))

	if got := extracted.total(); got != 150 {
		t.Fatalf("extracted total = %d, want 150", got)
	}
	for _, l := range extracted {
		if l.Number == 1 {
			t.Errorf("lot 1 extracted despite not being eligible")
		}
	}
	if rem := lotAmounts(remaining); rem[1] != 100 {
		t.Errorf("ineligible lot 1 = %d units in remaining, want 100", rem[1])
	}
}

func TestExtractConservesValue(t *testing.T) {
	pool := lots{
		fiatLot(1, 33, "2023-01-01", 10),
		fiatLot(2, 44, "2023-02-01", 20),
		fiatLot(3, 55, "2023-03-01", 30),
	}
	for amount := uint64(1); amount <= pool.total(); amount += 13 {
		for _, method := range []LotSelectionMethod{FIFO, LIFO, LowestBasis, HighestBasis} {
			extracted, remaining := extract(pool, amount, method, nil, testAllocator(10))
			if got := extracted.total() + remaining.total(); got != pool.total() {
				t.Errorf("%v extract(%d): %d units total, want %d", method, amount, got, pool.total())
			}
			if got := extracted.total(); got != amount {
				t.Errorf("%v extract(%d): extracted %d", method, amount, got)
			}
		}
	}
}

func TestSplitMergeInverse(t *testing.T) {
	account := TrackedAccount{
		Address:           "src",
		Asset:             NativeAsset,
		LastUpdateBalance: 100,
		Lots:              []Lot{fiatLot(1, 100, "2023-01-01", 10)},
	}
	next := testAllocator(2)

	extracted, err := account.extractLots(40, FIFO, nil, next)
	if err != nil {
		t.Fatal(err)
	}
	if account.LastUpdateBalance != 60 {
		t.Fatalf("balance after extract = %d, want 60", account.LastUpdateBalance)
	}

	account.mergeLots(extracted)
	if account.LastUpdateBalance != 100 {
		t.Fatalf("balance after merge = %d, want 100", account.LastUpdateBalance)
	}
	// Same acquisition record, so the split portions collapse back into
	// a single lot of the original amount.
	if len(account.Lots) != 1 || account.Lots[0].Amount != 100 {
		t.Fatalf("lots after merge = %v, want one lot of 100", account.Lots)
	}
	if account.Lots[0].Number != 1 {
		t.Errorf("merged lot number = %d, want the original 1", account.Lots[0].Number)
	}
}
