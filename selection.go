package lotledger

import (
	"fmt"
	"sort"
)

// LotSelectionMethod defines the policy for choosing which lots satisfy
// an extraction amount.
type LotSelectionMethod int

const (
	// FIFO (First-In, First-Out) extracts the oldest lots first, except
	// that the single oldest lot of the pool is kept for last: the
	// oldest lot on an on-chain account is heuristically assumed to be
	// the rent reserve. This misfires for accounts whose oldest lot is
	// not actually a reserve.
	FIFO LotSelectionMethod = iota
	// LIFO extracts the newest lots first.
	LIFO
	// LowestBasis extracts the cheapest lots first.
	LowestBasis
	// HighestBasis extracts the most expensive lots first.
	HighestBasis
)

func (m LotSelectionMethod) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case LowestBasis:
		return "lowest-basis"
	case HighestBasis:
		return "highest-basis"
	default:
		return "unknown"
	}
}

// ParseLotSelectionMethod parses a string into a LotSelectionMethod.
func ParseLotSelectionMethod(s string) (LotSelectionMethod, error) {
	switch s {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "lowest-basis":
		return LowestBasis, nil
	case "highest-basis":
		return HighestBasis, nil
	default:
		return 0, fmt.Errorf("unknown lot selection method: %q", s)
	}
}

func (m LotSelectionMethod) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", m.String())), nil
}

func (m *LotSelectionMethod) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseLotSelectionMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// order returns a copy of the lots sorted in the order the policy
// consumes them.
func (m LotSelectionMethod) order(ls lots) lots {
	ordered := make(lots, len(ls))
	copy(ordered, ls)
	switch m {
	case FIFO, LIFO:
		ordered.sortByAcquisition()
		if m == LIFO {
			for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	case LowestBasis, HighestBasis:
		sort.SliceStable(ordered, func(i, j int) bool {
			c := ordered[i].Acquisition.Price.Cmp(ordered[j].Acquisition.Price)
			if c != 0 {
				if m == LowestBasis {
					return c < 0
				}
				return c > 0
			}
			return ordered[i].Number < ordered[j].Number
		})
	default:
		panic(fmt.Sprintf("unknown lot selection method %d", m))
	}
	if m == FIFO && len(ordered) > 1 {
		// Rotate the single oldest lot to the end: last resort, not first.
		oldest := ordered[0]
		copy(ordered, ordered[1:])
		ordered[len(ordered)-1] = oldest
	}
	return ordered
}

// extract partitions lots into a set summing exactly to amount and the
// rest. When a lot must be split, the extracted portion receives a fresh
// number from allocate and the remaining portion keeps the original
// number. When only is non-empty, lots whose number is not listed bypass
// the walk and always end up in the remaining set.
//
// The caller must have validated that the eligible lots cover amount;
// extract only checks the exactness of what it extracted. Both outputs
// come back sorted by acquisition date.
func extract(ls lots, amount uint64, method LotSelectionMethod, only []uint64, allocate func() uint64) (extracted, remaining lots) {
	eligible := ls
	if len(only) != 0 {
		eligible = nil
		for _, l := range ls {
			listed := false
			for _, n := range only {
				if l.Number == n {
					listed = true
					break
				}
			}
			if listed {
				eligible = append(eligible, l)
			} else {
				remaining = append(remaining, l)
			}
		}
	}

	need := amount
	for _, l := range method.order(eligible) {
		switch {
		case need == 0:
			remaining = append(remaining, l)
		case l.Amount <= need:
			extracted = append(extracted, l)
			need -= l.Amount
		default:
			// Split: the extracted portion gets a fresh number, the
			// remainder keeps the lot's identity.
			extracted = append(extracted, Lot{
				Number:      allocate(),
				Amount:      need,
				Acquisition: l.Acquisition,
			})
			l.Amount -= need
			remaining = append(remaining, l)
			need = 0
		}
	}

	if got := extracted.total(); got != amount {
		panic(fmt.Sprintf("lot extraction mismatch: extracted %d of %d requested", got, amount))
	}
	extracted.sortByAcquisition()
	remaining.sortByAcquisition()
	return extracted, remaining
}
