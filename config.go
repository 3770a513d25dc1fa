package lotledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TaxRate is an informational record of the rates the operator expects
// to pay. The ledger records facts; it never applies rates.
type TaxRate struct {
	Income        decimal.Decimal `json:"income"`
	ShortTermGain decimal.Decimal `json:"shortTermGain"`
	LongTermGain  decimal.Decimal `json:"longTermGain"`
}

// ValidatorCreditScore is one validator's vote credits observed at an
// epoch, cached for stake delegation decisions.
type ValidatorCreditScore struct {
	VoteAccount string `json:"voteAccount"`
	Credits     uint64 `json:"credits"`
}

// ExchangeCredentials are the API credentials of one exchange, held in
// the separate credentials store.
type ExchangeCredentials struct {
	APIKey     string `json:"apiKey"`
	Secret     string `json:"secret"`
	Subaccount string `json:"subaccount,omitempty"`
}

// MetricsConfig configures the metrics push destination, held in the
// separate credentials store.
type MetricsConfig struct {
	URL      string `json:"url"`
	Token    string `json:"token,omitempty"`
	Database string `json:"database,omitempty"`
}

// SetExchangeCredentials stores the credentials for an exchange,
// replacing any previous ones. The credentials store is written
// immediately, independently of the snapshot.
func (l *Ledger) SetExchangeCredentials(exchange string, credentials ExchangeCredentials) error {
	l.credentials[exchange] = credentials
	return l.saveCredentials()
}

// ExchangeCredentialsFor returns the stored credentials for an exchange.
func (l *Ledger) ExchangeCredentialsFor(exchange string) (ExchangeCredentials, bool) {
	c, ok := l.credentials[exchange]
	return c, ok
}

// ClearExchangeCredentials removes the credentials for an exchange.
func (l *Ledger) ClearExchangeCredentials(exchange string) error {
	if _, ok := l.credentials[exchange]; !ok {
		return nil
	}
	delete(l.credentials, exchange)
	return l.saveCredentials()
}

// ConfiguredExchanges returns the names of exchanges with stored
// credentials, sorted.
func (l *Ledger) ConfiguredExchanges() []string {
	names := make([]string, 0, len(l.credentials))
	for name := range l.credentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetMetricsConfig stores the metrics configuration.
func (l *Ledger) SetMetricsConfig(config MetricsConfig) error {
	l.metrics = &config
	return l.saveCredentials()
}

// Metrics returns the stored metrics configuration, or nil.
func (l *Ledger) Metrics() *MetricsConfig {
	if l.metrics == nil {
		return nil
	}
	config := *l.metrics
	return &config
}
