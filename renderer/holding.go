package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/finance"
	md "github.com/nao1215/markdown"
)

// HoldingsMarkdown renders the open positions and the realized profit/loss.
func HoldingsMarkdown(holdings []finance.Holding, realized finance.Money, cur string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Holdings")
	if len(holdings) == 0 {
		doc.PlainText("No open position.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Ticker", "Shares", "Avg Price", "Total Cost"},
			Rows:      [][]string{},
		}
		var cost finance.Money
		for _, h := range holdings {
			cost = cost.Add(h.TotalCost)
			table.Rows = append(table.Rows, []string{
				h.Ticker,
				h.Shares.String(),
				h.AvgPrice.Format(cur),
				h.TotalCost.Format(cur),
			})
		}
		table.Rows = append(table.Rows, []string{md.Bold("Total"), "", "", md.Bold(cost.Format(cur))})
		doc.Table(table)
	}
	doc.PlainText(fmt.Sprintf("Realized profit/loss: %s", md.Bold(realized.SignedFormat(cur))))
	return doc.String()
}
