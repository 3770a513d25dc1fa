package cmd

import (
	"github.com/solvere/lotledger"
)

// parseDay parses a -date flag, defaulting to today when empty.
func parseDay(s string) (lotledger.Date, error) {
	if s == "" {
		return lotledger.Today(), nil
	}
	return lotledger.ParseDate(s)
}

// parseAmount parses a whole-unit amount string for the asset.
func parseAmount(asset lotledger.Asset, s string) (uint64, error) {
	return asset.ParseAmount(s)
}
