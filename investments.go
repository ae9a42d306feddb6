package finance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/etnz/finance/date"
)

// ActionKind is the direction of an investment action.
type ActionKind string

// Investment action kinds.
const (
	Buy  ActionKind = "buy"
	Sell ActionKind = "sell"
)

func (k ActionKind) valid() bool { return k == Buy || k == Sell }

// InvestmentAction is a buy or a sell of shares of a ticker. ProfitLoss is
// only set on sells, it is computed once when the sell is recorded and never
// updated afterwards.
type InvestmentAction struct {
	ID         string
	Kind       ActionKind
	Ticker     string
	Shares     Quantity
	Price      Money
	Total      Money
	Date       date.Date
	ProfitLoss *Money
}

// Equal reports whether a and o are identical actions.
func (a InvestmentAction) Equal(o InvestmentAction) bool {
	if (a.ProfitLoss == nil) != (o.ProfitLoss == nil) {
		return false
	}
	if a.ProfitLoss != nil && !a.ProfitLoss.Equal(*o.ProfitLoss) {
		return false
	}
	return a.ID == o.ID && a.Kind == o.Kind && a.Ticker == o.Ticker && a.Date == o.Date &&
		a.Shares.Equal(o.Shares) && a.Price.Equal(o.Price) && a.Total.Equal(o.Total)
}

// MarshalJSON writes the action with a stable key order.
func (a InvestmentAction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.ID)
	w.Append("type", a.Kind)
	w.Append("ticker", a.Ticker)
	w.Append("shares", a.Shares)
	w.Append("price", a.Price)
	w.Append("total", a.Total)
	w.Append("date", a.Date)
	w.Optional("profitLoss", a.ProfitLoss)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *InvestmentAction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID         json.RawMessage `json:"id"`
		Kind       ActionKind      `json:"type"`
		Ticker     string          `json:"ticker"`
		Shares     Quantity        `json:"shares"`
		Price      Money           `json:"price"`
		Total      Money           `json:"total"`
		Date       date.Date       `json:"date"`
		ProfitLoss *Money          `json:"profitLoss"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return fmt.Errorf("investment: %w", err)
	}
	id, err := unmarshalID(temp.ID)
	if err != nil {
		return fmt.Errorf("investment: %w", err)
	}
	*a = InvestmentAction{
		ID:         id,
		Kind:       temp.Kind,
		Ticker:     temp.Ticker,
		Shares:     temp.Shares,
		Price:      temp.Price,
		Total:      temp.Total,
		Date:       temp.Date,
		ProfitLoss: temp.ProfitLoss,
	}
	return nil
}

// validate checks the fields of a stored action, independently of the
// history it belongs to.
func (a InvestmentAction) validate() error {
	switch {
	case a.ID == "":
		return invalid("id", "investment id is missing")
	case !a.Kind.valid():
		return invalid("kind", "investment %s has unknown kind %q", a.ID, a.Kind)
	case a.Ticker == "" || a.Ticker != normalizeTicker(a.Ticker):
		return invalid("ticker", "investment %s has invalid ticker %q", a.ID, a.Ticker)
	case !a.Shares.IsPositive() || !a.Shares.IsInteger():
		return invalid("shares", "investment %s shares must be a positive integer, got %s", a.ID, a.Shares)
	case a.Price.IsNegative():
		return invalid("price", "investment %s price must not be negative, got %s", a.ID, a.Price)
	case !a.Total.Equal(a.Price.Mul(a.Shares)):
		return invalid("total", "investment %s total %s is not %s x %s", a.ID, a.Total, a.Shares, a.Price)
	case a.Date.IsZero():
		return invalid("date", "investment %s has no date", a.ID)
	case a.Kind == Sell && a.ProfitLoss == nil:
		return invalid("profitLoss", "sell %s has no profit/loss", a.ID)
	case a.Kind == Buy && a.ProfitLoss != nil:
		return invalid("profitLoss", "buy %s must not carry a profit/loss", a.ID)
	}
	return nil
}

// normalizeTicker trims and upper-cases a ticker symbol.
func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
