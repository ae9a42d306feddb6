package finance

import (
	"fmt"
	"testing"

	"github.com/etnz/finance/date"
	"github.com/google/go-cmp/cmp"
)

// day is a helper for test to create a date from a const.
func day(s string) date.Date { return date.MustParse(s) }

// sequentialIDs replaces the id generator with a deterministic one for the
// duration of the test.
func sequentialIDs(t *testing.T) {
	t.Helper()
	n := 0
	old := newID
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { newID = old })
}

// record is a helper to record a transaction that must succeed.
func record(t *testing.T, b Book, kind Kind, on, category string, amount float64) Book {
	t.Helper()
	b, _, err := b.RecordTransaction(kind, day(on), category, M(amount))
	if err != nil {
		t.Fatalf("RecordTransaction(%s, %s, %q, %v) failed: %v", kind, on, category, amount, err)
	}
	return b
}

// buy is a helper to record a purchase that must succeed.
func buy(t *testing.T, b Book, ticker string, shares int, price float64, on string) Book {
	t.Helper()
	b, _, err := b.Buy(ticker, Q(shares), M(price), day(on))
	if err != nil {
		t.Fatalf("Buy(%s, %d, %v) failed: %v", ticker, shares, price, err)
	}
	return b
}

// sell is a helper to record a sale that must succeed.
func sell(t *testing.T, b Book, ticker string, shares int, price float64, on string) Book {
	t.Helper()
	b, _, err := b.Sell(ticker, Q(shares), M(price), day(on))
	if err != nil {
		t.Fatalf("Sell(%s, %d, %v) failed: %v", ticker, shares, price, err)
	}
	return b
}

// assertMoney compares money values.
func assertMoney(t *testing.T, name string, got, want Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

// assertBookEqual fails with a diff when the books differ.
func assertBookEqual(t *testing.T, got, want Book) {
	t.Helper()
	if got.Equal(want) {
		return
	}
	diff := cmp.Diff(want.Categories, got.Categories)
	diff += cmp.Diff(want.Ledger.transactions, got.Ledger.transactions)
	diff += cmp.Diff(want.Portfolio.actions, got.Portfolio.actions)
	t.Errorf("books differ (-want +got):\n%s", diff)
}
