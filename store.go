package lotledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	ledgerFilename      = "ledger.json"
	credentialsFilename = "credentials.json"
)

// OpenLedger opens the ledger persisted in the given directory, creating
// an empty one when no snapshot exists yet. The directory also holds the
// separate credentials store.
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("could not create ledger directory %q: %w", path, err)
	}

	var l *Ledger
	filename := filepath.Join(path, ledgerFilename)
	f, err := os.Open(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l = NewLedger()
	case err != nil:
		return nil, fmt.Errorf("could not open ledger file %q: %w", filename, err)
	default:
		defer f.Close()
		l, err = DecodeLedger(f)
		if err != nil {
			return nil, fmt.Errorf("could not decode ledger file %q: %w", filename, err)
		}
	}
	l.path = path

	if err := l.loadCredentials(); err != nil {
		return nil, err
	}
	return l, nil
}

// writeSnapshot serializes the whole ledger to a uniquely named
// temporary file in the snapshot directory, then renames it over the
// canonical file. The canonical file is always either the previous
// complete snapshot or the new complete snapshot, never a partial write.
func (l *Ledger) writeSnapshot() error {
	tmp, err := os.CreateTemp(l.path, ledgerFilename+".tmp*")
	if err != nil {
		return fmt.Errorf("could not create temporary snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if err := EncodeLedger(tmp, l); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not close temporary snapshot: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(l.path, ledgerFilename)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not replace snapshot: %w", err)
	}
	return nil
}

// credentialsDoc is the on-disk shape of the credentials store. It is
// not versioned and not written atomically: it holds replaceable
// configuration, not ledger facts.
type credentialsDoc struct {
	Exchanges map[string]ExchangeCredentials `json:"exchanges"`
	Metrics   *MetricsConfig                 `json:"metrics,omitempty"`
}

func (l *Ledger) loadCredentials() error {
	filename := filepath.Join(l.path, credentialsFilename)
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read credentials file %q: %w", filename, err)
	}
	var doc credentialsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("could not decode credentials file %q: %w", filename, err)
	}
	if doc.Exchanges != nil {
		l.credentials = doc.Exchanges
	}
	l.metrics = doc.Metrics
	return nil
}

func (l *Ledger) saveCredentials() error {
	if l.path == "" {
		return nil
	}
	doc := credentialsDoc{Exchanges: l.credentials, Metrics: l.metrics}
	data, err := json.MarshalIndent(doc, "", " ")
	if err != nil {
		return fmt.Errorf("could not encode credentials: %w", err)
	}
	filename := filepath.Join(l.path, credentialsFilename)
	if err := os.WriteFile(filename, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("could not write credentials file %q: %w", filename, err)
	}
	return nil
}
