package finance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// A snapshot is the whole book as a single JSON document:
//
//	{
//	  "incomeCategories": ["Salary", ...],
//	  "expenseCategories": ["Rent", ...],
//	  "transactions": [{"id":..., "type":"income", "date":"2025-01-31", "category":"Salary", "amount":3000}, ...],
//	  "investments": [{"id":..., "type":"sell", "ticker":"AAPL", "shares":5, "price":130, "total":650, "date":"2025-02-03", "profitLoss":100}, ...],
//	  "savedAt": "2025-02-03T10:00:00Z"
//	}
//
// Amounts are written as json numbers with all their digits.

// EncodeSnapshot writes book as an indented snapshot document, stamped with
// savedAt.
func EncodeSnapshot(w io.Writer, book Book, savedAt time.Time) error {
	var o jsonObjectWriter
	o.Append("incomeCategories", nonNil(book.Categories.Income))
	o.Append("expenseCategories", nonNil(book.Categories.Expense))
	o.Append("transactions", nonNil(book.Ledger.transactions))
	o.Append("investments", nonNil(book.Portfolio.actions))
	o.Append("savedAt", savedAt.UTC().Format(time.RFC3339))
	raw, err := o.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("could not indent snapshot: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("could not write snapshot: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// snapshotJSON is the decoding target of a snapshot document.
type snapshotJSON struct {
	IncomeCategories  []string           `json:"incomeCategories"`
	ExpenseCategories []string           `json:"expenseCategories"`
	Transactions      []Transaction      `json:"transactions"`
	Investments       []InvestmentAction `json:"investments"`
	SavedAt           string             `json:"savedAt"`
}

// DecodeSnapshot reads a snapshot document and returns the book it describes
// and the time it was saved at (zero if the document has none).
//
// Missing lists are read as empty lists. Any syntax error, type mismatch or
// inconsistent content is reported as a *MalformedDataError listing every
// problem found, and no book is returned.
func DecodeSnapshot(r io.Reader) (Book, time.Time, error) {
	var raw json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return Book{}, time.Time{}, &MalformedDataError{Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return Book{}, time.Time{}, &MalformedDataError{Err: errors.New("unexpected data after the snapshot object")}
	}
	// null would otherwise decode as an empty book.
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return Book{}, time.Time{}, &MalformedDataError{Err: errors.New("snapshot must be a JSON object")}
	}
	var js snapshotJSON
	if err := json.Unmarshal(raw, &js); err != nil {
		return Book{}, time.Time{}, &MalformedDataError{Err: err}
	}

	var errs []error
	var savedAt time.Time
	if js.SavedAt != "" {
		t, err := time.Parse(time.RFC3339, js.SavedAt)
		if err != nil {
			errs = append(errs, fmt.Errorf("savedAt: %w", err))
		}
		savedAt = t
	}
	errs = append(errs, checkCategories(Income, js.IncomeCategories)...)
	errs = append(errs, checkCategories(Expense, js.ExpenseCategories)...)

	ids := make(map[string]bool)
	for i, tx := range js.Transactions {
		if err := tx.validate(); err != nil {
			errs = append(errs, fmt.Errorf("transactions[%d]: %w", i, err))
		}
		if tx.ID != "" && ids[tx.ID] {
			errs = append(errs, fmt.Errorf("transactions[%d]: duplicate id %q", i, tx.ID))
		}
		ids[tx.ID] = true
	}

	clear(ids)
	valid := true
	for i, a := range js.Investments {
		if err := a.validate(); err != nil {
			errs = append(errs, fmt.Errorf("investments[%d]: %w", i, err))
			valid = false
		}
		if a.ID != "" && ids[a.ID] {
			errs = append(errs, fmt.Errorf("investments[%d]: duplicate id %q", i, a.ID))
		}
		ids[a.ID] = true
	}
	portfolio := NewPortfolio(js.Investments...)
	if valid {
		// the replay only makes sense on well formed actions.
		if err := portfolio.replay(); err != nil {
			errs = append(errs, fmt.Errorf("investments: %w", err))
		}
	}

	if len(errs) > 0 {
		return Book{}, time.Time{}, &MalformedDataError{Err: errors.Join(errs...)}
	}
	return Book{
		Categories: Categories{Income: nonNil(js.IncomeCategories), Expense: nonNil(js.ExpenseCategories)},
		Ledger:     NewLedger(js.Transactions...),
		Portfolio:  portfolio,
	}, savedAt, nil
}

func checkCategories(kind Kind, list []string) (errs []error) {
	seen := make(map[string]bool)
	for i, name := range list {
		switch {
		case strings.TrimSpace(name) == "":
			errs = append(errs, fmt.Errorf("%sCategories[%d]: %w", kind, i, invalid("category", "empty name")))
		case seen[name]:
			errs = append(errs, fmt.Errorf("%sCategories[%d]: %w", kind, i, invalid("category", "duplicate name %q", name)))
		}
		seen[name] = true
	}
	return errs
}

// unmarshalID reads an entry id, snapshots written by other tools may use
// numbers instead of strings.
func unmarshalID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id must be a string or a number, got %s", raw)
	}
	return n.String(), nil
}
