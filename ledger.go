package finance

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/etnz/finance/date"
	"github.com/shopspring/decimal"
)

// Ledger is the append-only list of income and expense transactions.
//
// A Ledger is a value: Record and Delete return a new Ledger and leave the
// receiver untouched, so a Ledger can be shared freely.
type Ledger struct {
	transactions []Transaction
}

// NewLedger returns a ledger holding txs, in that order.
func NewLedger(txs ...Transaction) Ledger {
	return Ledger{transactions: slices.Clone(txs)}
}

// Len returns the number of transactions.
func (l Ledger) Len() int { return len(l.transactions) }

// Record validates and appends a new transaction. A zero day means today.
func (l Ledger) Record(kind Kind, day date.Date, category string, amount Money) (Ledger, Transaction, error) {
	if !kind.valid() {
		return l, Transaction{}, invalid("kind", "unknown transaction kind %q", kind)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return l, Transaction{}, invalid("category", "%s category is required", kind)
	}
	if !amount.IsPositive() {
		return l, Transaction{}, invalid("amount", "%s amount must be positive, got %s", kind, amount)
	}
	if day.IsZero() {
		day = date.Today()
	}
	tx := Transaction{
		ID:       newID(),
		Kind:     kind,
		Date:     day,
		Category: category,
		Amount:   amount,
	}
	return Ledger{transactions: append(slices.Clip(l.transactions), tx)}, tx, nil
}

// Delete returns a ledger without the transaction id.
func (l Ledger) Delete(id string) (Ledger, error) {
	i := slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.ID == id })
	if i < 0 {
		return l, invalid("id", "no transaction with id %q", id)
	}
	return Ledger{transactions: slices.Delete(slices.Clone(l.transactions), i, i+1)}, nil
}

// Get returns the transaction id.
func (l Ledger) Get(id string) (Transaction, bool) {
	i := slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.ID == id })
	if i < 0 {
		return Transaction{}, false
	}
	return l.transactions[i], true
}

// Transactions returns an iterator over the transactions accepted by every
// filter, in recording order.
func (l Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
	next:
		for i, tx := range l.transactions {
			for _, filter := range filters {
				if !filter(tx) {
					continue next
				}
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// ByKind returns a predicate that accepts transactions of kind.
func ByKind(kind Kind) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Kind == kind }
}

// ByPeriod returns a predicate that accepts transactions dated within p.
func ByPeriod(p Period) func(Transaction) bool {
	return func(tx Transaction) bool { return p.Contains(tx.Date) }
}

// ByCategory returns a predicate that accepts transactions labeled category.
func ByCategory(category string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Category == category }
}

// TotalBalance returns the sum of incomes minus the sum of expenses.
func (l Ledger) TotalBalance() Money {
	var total Money
	for _, tx := range l.transactions {
		total = total.Add(tx.signed())
	}
	return total
}

// Totals returns the sum of incomes and the sum of expenses of the
// transactions accepted by filters.
func (l Ledger) Totals(filters ...func(Transaction) bool) (income, expense Money) {
	for _, tx := range l.Transactions(filters...) {
		switch tx.Kind {
		case Income:
			income = income.Add(tx.Amount)
		case Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return income, expense
}

// Period selects calendar days by year and month. A zero field matches any
// value, so the zero Period matches every day.
type Period struct {
	Year  int
	Month time.Month
}

// Contains reports whether day is within p, using the calendar fields of the
// day.
func (p Period) Contains(day date.Date) bool {
	if p.Year != 0 && day.Year() != p.Year {
		return false
	}
	if p.Month != 0 && day.Month() != p.Month {
		return false
	}
	return true
}

func (p Period) String() string {
	switch {
	case p.Year == 0 && p.Month == 0:
		return "all time"
	case p.Month == 0:
		return fmt.Sprintf("%04d", p.Year)
	case p.Year == 0:
		return p.Month.String()
	default:
		return date.YearMonth{Year: p.Year, Month: p.Month}.String()
	}
}

// MonthlyBreakdown gathers the transactions of one calendar month.
type MonthlyBreakdown struct {
	Month        date.YearMonth
	Income       Money
	Expense      Money
	Balance      Money
	Transactions []Transaction
}

// MonthlyBreakdown returns the totals and transactions of month in year.
func (l Ledger) MonthlyBreakdown(month time.Month, year int) MonthlyBreakdown {
	mb := MonthlyBreakdown{Month: date.YearMonth{Year: year, Month: month}}
	for _, tx := range l.Transactions(func(tx Transaction) bool { return mb.Month.Contains(tx.Date) }) {
		mb.Transactions = append(mb.Transactions, tx)
	}
	mb.Income, mb.Expense = NewLedger(mb.Transactions...).Totals()
	mb.Balance = mb.Income.Sub(mb.Expense)
	return mb
}

// CategoryAmount is the total of one category in a breakdown.
type CategoryAmount struct {
	Category string
	Amount   Money
	// Share is the percentage of the breakdown total.
	Share decimal.Decimal
}

// CategoryBreakdown sums the transactions of kind in period by category.
// Categories are listed in order of first appearance.
func (l Ledger) CategoryBreakdown(kind Kind, period Period) []CategoryAmount {
	var (
		out   []CategoryAmount
		index = make(map[string]int)
		total Money
	)
	for _, tx := range l.Transactions(ByKind(kind), ByPeriod(period)) {
		i, exists := index[tx.Category]
		if !exists {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryAmount{Category: tx.Category})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
		total = total.Add(tx.Amount)
	}
	for i := range out {
		out[i].Share = out[i].Amount.Percent(total)
	}
	return out
}

// TrendPoint holds the totals of one calendar month.
type TrendPoint struct {
	Month   date.YearMonth
	Income  Money
	Expense Money
	Balance Money
}

// MonthlyTrend returns one point per month that has transactions, in
// ascending order.
func (l Ledger) MonthlyTrend() []TrendPoint {
	buckets := make(map[date.YearMonth]*TrendPoint)
	for _, tx := range l.transactions {
		ym := tx.Date.YearMonth()
		p, ok := buckets[ym]
		if !ok {
			p = &TrendPoint{Month: ym}
			buckets[ym] = p
		}
		switch tx.Kind {
		case Income:
			p.Income = p.Income.Add(tx.Amount)
		case Expense:
			p.Expense = p.Expense.Add(tx.Amount)
		}
		p.Balance = p.Income.Sub(p.Expense)
	}
	out := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b TrendPoint) int {
		switch {
		case a.Month.Before(b.Month):
			return -1
		case b.Month.Before(a.Month):
			return 1
		}
		return 0
	})
	return out
}
