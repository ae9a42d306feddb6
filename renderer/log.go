package renderer

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
)

// TransactionsMarkdown renders a table of transactions.
func TransactionsMarkdown(txs []finance.Transaction, cur string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Transactions\n\n")
	if !renderTransactions(&b, txs, cur) {
		fmt.Fprintf(&b, "No transactions.\n")
	}
	return b.String()
}

// renderTransactions writes the transaction table, it returns false when
// there is nothing to print.
func renderTransactions(w io.Writer, txs []finance.Transaction, cur string) bool {
	if len(txs) == 0 {
		return false
	}
	fmt.Fprintln(w, "| Date | Type | Category | Amount | ID |")
	fmt.Fprintln(w, "|:---|:---|:---|---:|:---|")
	for _, tx := range txs {
		amount := tx.Amount
		if tx.Kind == finance.Expense {
			amount = amount.Neg()
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n", tx.Date, tx.Kind, escape(tx.Category), amount.SignedFormat(cur), shortID(tx.ID))
	}
	fmt.Fprintln(w)
	return true
}

// InvestmentsMarkdown renders a table of investment actions.
func InvestmentsMarkdown(actions []finance.InvestmentAction, cur string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Investments\n\n")
	if !renderInvestments(&b, actions, cur) {
		fmt.Fprintf(&b, "No investments.\n")
	}
	return b.String()
}

func renderInvestments(w io.Writer, actions []finance.InvestmentAction, cur string) bool {
	if len(actions) == 0 {
		return false
	}
	fmt.Fprintln(w, "| Date | Type | Ticker | Shares | Price | Total | Profit/Loss |")
	fmt.Fprintln(w, "|:---|:---|:---|---:|---:|---:|---:|")
	for _, a := range actions {
		pl := ""
		if a.ProfitLoss != nil {
			pl = a.ProfitLoss.SignedFormat(cur)
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
			a.Date, a.Kind, a.Ticker, a.Shares, a.Price.Format(cur), a.Total.Format(cur), orDash(pl))
	}
	fmt.Fprintln(w)
	return true
}

// logLine is one entry of the journal, either a transaction or an action.
type logLine struct {
	date  date.Date
	order int
	text  string
}

// LogMarkdown renders every transaction and investment action of the book as
// a single journal sorted by date. Entries of the same day keep the order in
// which they were recorded, transactions first.
func LogMarkdown(b finance.Book, cur string) string {
	var lines []logLine
	for i, tx := range b.Ledger.Transactions() {
		amount := tx.Amount
		if tx.Kind == finance.Expense {
			amount = amount.Neg()
		}
		lines = append(lines, logLine{tx.Date, i, fmt.Sprintf("%s %s %s", tx.Kind, escape(tx.Category), amount.SignedFormat(cur))})
	}
	offset := len(lines)
	for i, a := range b.Portfolio.Actions() {
		text := fmt.Sprintf("%s %s %s @ %s (%s)", a.Kind, a.Shares, a.Ticker, a.Price.Format(cur), a.Total.Format(cur))
		if a.ProfitLoss != nil {
			text += fmt.Sprintf(", profit/loss %s", a.ProfitLoss.SignedFormat(cur))
		}
		lines = append(lines, logLine{a.Date, offset + i, text})
	}
	slices.SortStableFunc(lines, func(x, y logLine) int {
		switch {
		case x.date.Before(y.date):
			return -1
		case y.date.Before(x.date):
			return 1
		}
		return cmp.Compare(x.order, y.order)
	})

	var s strings.Builder
	fmt.Fprintf(&s, "## Journal\n\n")
	if len(lines) == 0 {
		fmt.Fprintf(&s, "Nothing recorded yet.\n")
		return s.String()
	}
	var current date.Date
	for _, l := range lines {
		if l.date != current {
			if !current.IsZero() {
				fmt.Fprintln(&s)
			}
			fmt.Fprintf(&s, "### %s\n\n", l.date)
			current = l.date
		}
		fmt.Fprintf(&s, "- %s\n", l.text)
	}
	return s.String()
}

// shortID keeps the first block of a uuid, enough to recognize it.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// escape protects markdown table cells.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
