package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/finance"
	md "github.com/nao1215/markdown"
)

// MonthlyMarkdown renders the totals and transactions of one month.
func MonthlyMarkdown(mb finance.MonthlyBreakdown, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("Month %s", mb.Month))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Income", "Expense", "Balance"},
		Rows: [][]string{{
			mb.Income.Format(cur),
			mb.Expense.Format(cur),
			md.Bold(mb.Balance.Format(cur)),
		}},
	})

	var b strings.Builder
	b.WriteString(doc.String())
	ConditionalBlock(&b, func(w io.Writer) bool {
		return renderTransactions(w, mb.Transactions, cur)
	})
	return b.String()
}

// TrendMarkdown renders the month by month totals.
func TrendMarkdown(points []finance.TrendPoint, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Monthly Trend")
	if len(points) == 0 {
		doc.PlainText("No transactions yet.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Month", "Income", "Expense", "Balance"},
		Rows:      [][]string{},
	}
	for _, p := range points {
		table.Rows = append(table.Rows, []string{
			p.Month.String(),
			p.Income.Format(cur),
			p.Expense.Format(cur),
			p.Balance.SignedFormat(cur),
		})
	}
	doc.Table(table)
	return doc.String()
}

// BreakdownMarkdown renders the category totals of kind within period.
func BreakdownMarkdown(kind finance.Kind, period finance.Period, items []finance.CategoryAmount, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(fmt.Sprintf("%s by category (%s)", title(string(kind)), period))
	if len(items) == 0 {
		doc.PlainText(fmt.Sprintf("No %s in this period.", kind))
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Category", "Amount", "Share"},
		Rows:      [][]string{},
	}
	var total finance.Money
	for _, item := range items {
		total = total.Add(item.Amount)
		table.Rows = append(table.Rows, []string{item.Category, item.Amount.Format(cur), percent(item.Share)})
	}
	table.Rows = append(table.Rows, []string{md.Bold("Total"), md.Bold(total.Format(cur)), ""})
	doc.Table(table)
	return doc.String()
}

// title upper-cases the first letter of s.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
