package finance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/etnz/finance/date"
	"github.com/google/uuid"
)

// newID returns a fresh unique identifier for ledger and portfolio entries.
var newID = uuid.NewString

// Kind is the direction of a cash transaction.
type Kind string

// Transaction kinds.
const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// ParseKind parses "income" or "expense" (case insensitive).
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Income, Expense:
		return k, nil
	default:
		return "", invalid("kind", "unknown transaction kind %q, want %q or %q", s, Income, Expense)
	}
}

func (k Kind) valid() bool { return k == Income || k == Expense }

// Transaction is an income or an expense recorded in the Ledger. It is never
// modified once created.
type Transaction struct {
	ID       string
	Kind     Kind
	Date     date.Date
	Category string
	Amount   Money
}

// signed returns the amount as seen by the balance: positive for income,
// negative for expenses.
func (t Transaction) signed() Money {
	if t.Kind == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Equal reports whether t and o are identical entries.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID && t.Kind == o.Kind && t.Date == o.Date && t.Category == o.Category && t.Amount.Equal(o.Amount)
}

// MarshalJSON writes the transaction with a stable key order.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("type", t.Kind)
	w.Append("date", t.Date)
	w.Append("category", t.Category)
	w.Append("amount", t.Amount)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID       json.RawMessage `json:"id"`
		Kind     Kind            `json:"type"`
		Date     date.Date       `json:"date"`
		Category string          `json:"category"`
		Amount   Money           `json:"amount"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	id, err := unmarshalID(temp.ID)
	if err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	*t = Transaction{
		ID:       id,
		Kind:     temp.Kind,
		Date:     temp.Date,
		Category: temp.Category,
		Amount:   temp.Amount,
	}
	return nil
}

// validate checks a stored transaction.
func (t Transaction) validate() error {
	switch {
	case t.ID == "":
		return invalid("id", "transaction id is missing")
	case !t.Kind.valid():
		return invalid("kind", "transaction %s has unknown kind %q", t.ID, t.Kind)
	case t.Date.IsZero():
		return invalid("date", "transaction %s has no date", t.ID)
	case strings.TrimSpace(t.Category) == "":
		return invalid("category", "transaction %s has no category", t.ID)
	case t.Amount.IsNegative():
		return invalid("amount", "transaction %s amount must not be negative, got %s", t.ID, t.Amount)
	}
	return nil
}
