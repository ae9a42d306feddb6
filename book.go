package finance

import (
	"io"
	"slices"

	"github.com/etnz/finance/date"
)

// Book is the whole state of a personal finance book: the category lists,
// the ledger of transactions and the portfolio of investment actions.
//
// Every method that changes the book is a reducer: it returns a new Book and
// leaves the receiver as is. When it fails, the returned Book is the
// receiver, so callers can always keep the result.
type Book struct {
	Categories Categories
	Ledger     Ledger
	Portfolio  Portfolio
}

// NewBook returns an empty book with the default categories.
func NewBook() Book {
	return Book{Categories: DefaultCategories()}
}

// RecordTransaction records an income or an expense.
func (b Book) RecordTransaction(kind Kind, day date.Date, category string, amount Money) (Book, Transaction, error) {
	l, tx, err := b.Ledger.Record(kind, day, category, amount)
	if err != nil {
		return b, Transaction{}, err
	}
	b.Ledger = l
	return b, tx, nil
}

// DeleteTransaction removes the transaction id.
func (b Book) DeleteTransaction(id string) (Book, error) {
	l, err := b.Ledger.Delete(id)
	if err != nil {
		return b, err
	}
	b.Ledger = l
	return b, nil
}

// Equal reports whether b and o hold the same categories, transactions and
// actions, in the same order.
func (b Book) Equal(o Book) bool {
	return slices.Equal(b.Categories.Income, o.Categories.Income) &&
		slices.Equal(b.Categories.Expense, o.Categories.Expense) &&
		slices.EqualFunc(b.Ledger.transactions, o.Ledger.transactions, Transaction.Equal) &&
		slices.EqualFunc(b.Portfolio.actions, o.Portfolio.actions, InvestmentAction.Equal)
}

// AvailableBalance returns the cash that can be invested: the ledger balance
// minus the net cash already committed to the market.
func (b Book) AvailableBalance() Money {
	return b.Ledger.TotalBalance().Sub(b.Portfolio.NetInvestmentOutflow())
}

// Buy records a purchase, provided the available balance covers its cost.
func (b Book) Buy(ticker string, shares Quantity, price Money, day date.Date) (Book, InvestmentAction, error) {
	p, a, err := b.Portfolio.Buy(ticker, shares, price, day, b.AvailableBalance())
	if err != nil {
		return b, InvestmentAction{}, err
	}
	b.Portfolio = p
	return b, a, nil
}

// Sell records a sale of held shares.
func (b Book) Sell(ticker string, shares Quantity, price Money, day date.Date) (Book, InvestmentAction, error) {
	p, a, err := b.Portfolio.Sell(ticker, shares, price, day)
	if err != nil {
		return b, InvestmentAction{}, err
	}
	b.Portfolio = p
	return b, a, nil
}

// AddCategory adds a category to the kind list.
func (b Book) AddCategory(kind Kind, name string) (Book, error) {
	c, err := b.Categories.Add(kind, name)
	if err != nil {
		return b, err
	}
	b.Categories = c
	return b, nil
}

// RenameCategory renames a category. Recorded transactions keep the old name.
func (b Book) RenameCategory(kind Kind, old, name string) (Book, error) {
	c, err := b.Categories.Rename(kind, old, name)
	if err != nil {
		return b, err
	}
	b.Categories = c
	return b, nil
}

// RemoveCategory removes a category. Recorded transactions keep it.
func (b Book) RemoveCategory(kind Kind, name string) (Book, error) {
	c, err := b.Categories.Remove(kind, name)
	if err != nil {
		return b, err
	}
	b.Categories = c
	return b, nil
}

// Import replaces the whole book with the snapshot read from r. On any
// error the receiver is returned unchanged.
func (b Book) Import(r io.Reader) (Book, error) {
	nb, _, err := DecodeSnapshot(r)
	if err != nil {
		return b, err
	}
	return nb, nil
}

// Summary holds the headline figures of a book.
type Summary struct {
	Income               Money
	Expense              Money
	Balance              Money // Income - Expense
	NetInvestmentOutflow Money
	Available            Money // Balance - NetInvestmentOutflow
	InvestedCost         Money // cost basis of open positions
	RealizedProfitLoss   Money
	Transactions         int
	Actions              int
	Holdings             int
}

// Summary computes the headline figures from the current state.
func (b Book) Summary() Summary {
	s := Summary{
		Balance:              b.Ledger.TotalBalance(),
		NetInvestmentOutflow: b.Portfolio.NetInvestmentOutflow(),
		InvestedCost:         b.Portfolio.InvestedCost(),
		RealizedProfitLoss:   b.Portfolio.RealizedProfitLoss(),
		Transactions:         b.Ledger.Len(),
		Actions:              b.Portfolio.Len(),
		Holdings:             len(b.Portfolio.Holdings()),
	}
	s.Income, s.Expense = b.Ledger.Totals()
	s.Available = s.Balance.Sub(s.NetInvestmentOutflow)
	return s
}
