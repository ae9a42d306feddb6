package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/finance"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the headline figures of a book.
func SummaryMarkdown(s finance.Summary, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Summary")
	doc.PlainText(fmt.Sprintf("Available to invest: %s", md.Bold(s.Available.Format(cur))))

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Figure", "Amount"},
		Rows: [][]string{
			{"Total income", s.Income.Format(cur)},
			{"Total expense", s.Expense.Format(cur)},
			{md.Bold("Balance"), md.Bold(s.Balance.Format(cur))},
			{"Net invested", s.NetInvestmentOutflow.Format(cur)},
			{md.Bold("Available"), md.Bold(s.Available.Format(cur))},
			{"Cost of holdings", s.InvestedCost.Format(cur)},
			{"Realized profit/loss", s.RealizedProfitLoss.SignedFormat(cur)},
		},
	})
	doc.PlainText(fmt.Sprintf("%d transactions, %d investment actions, %d open positions.", s.Transactions, s.Actions, s.Holdings))

	return doc.String()
}
