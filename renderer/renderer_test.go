package renderer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
)

func sampleBook(t *testing.T) finance.Book {
	t.Helper()
	b, _, err := finance.NewBook().RecordTransaction(finance.Income, date.MustParse("2025-01-31"), "Salary", finance.M(3000))
	assert.NoError(t, err)
	b, _, err = b.RecordTransaction(finance.Expense, date.MustParse("2025-02-01"), "Rent", finance.M(500))
	assert.NoError(t, err)
	b, _, err = b.Buy("AAPL", finance.Q(10), finance.M(100), date.MustParse("2025-02-02"))
	assert.NoError(t, err)
	b, _, err = b.Sell("AAPL", finance.Q(5), finance.M(130), date.MustParse("2025-02-03"))
	assert.NoError(t, err)
	return b
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		assert.True(t, strings.Contains(got, want), "missing %q in:\n%s", want, got)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	got := SummaryMarkdown(sampleBook(t).Summary(), "USD")
	assertContains(t, got,
		"## Summary",
		"$3,000.00",
		"$500.00",
		"**$2,500.00**",
		"Realized profit/loss",
		"+$150.00",
		"2 transactions, 2 investment actions, 1 open positions.",
	)
}

func TestMonthlyMarkdown(t *testing.T) {
	b := sampleBook(t)
	got := MonthlyMarkdown(b.Ledger.MonthlyBreakdown(time.February, 2025), "USD")
	assertContains(t, got, "## Month 2025-02", "$500.00", "| 2025-02-01 | expense | Rent | -$500.00 |")
	assert.False(t, strings.Contains(got, "Salary"))

	empty := MonthlyMarkdown(b.Ledger.MonthlyBreakdown(time.March, 2025), "USD")
	assert.False(t, strings.Contains(empty, "| Date |"))
}

func TestTrendMarkdown(t *testing.T) {
	got := TrendMarkdown(sampleBook(t).Ledger.MonthlyTrend(), "USD")
	assertContains(t, got, "2025-01", "2025-02", "+$3,000.00", "-$500.00")
	assert.True(t, strings.Index(got, "2025-01") < strings.Index(got, "2025-02"))

	assertContains(t, TrendMarkdown(nil, "USD"), "No transactions yet.")
}

func TestBreakdownMarkdown(t *testing.T) {
	b := sampleBook(t)
	items := b.Ledger.CategoryBreakdown(finance.Expense, finance.Period{Year: 2025})
	got := BreakdownMarkdown(finance.Expense, finance.Period{Year: 2025}, items, "USD")
	assertContains(t, got, "## Expense by category (2025)", "Rent", "$500.00", "100.0%")

	none := BreakdownMarkdown(finance.Income, finance.Period{Year: 2020}, nil, "USD")
	assertContains(t, none, "No income in this period.")
}

func TestHoldingsMarkdown(t *testing.T) {
	b := sampleBook(t)
	got := HoldingsMarkdown(b.Portfolio.Holdings(), b.Portfolio.RealizedProfitLoss(), "USD")
	assertContains(t, got, "AAPL", "$100.00", "$500.00", "**+$150.00**")

	assertContains(t, HoldingsMarkdown(nil, finance.Money{}, "USD"), "No open position.")
}

func TestLogMarkdown(t *testing.T) {
	got := LogMarkdown(sampleBook(t), "USD")
	assertContains(t, got,
		"### 2025-01-31\n\n- income Salary +$3,000.00",
		"### 2025-02-02\n\n- buy 10 AAPL @ $100.00 ($1,000.00)",
		"- sell 5 AAPL @ $130.00 ($650.00), profit/loss +$150.00",
	)
	assert.True(t, strings.Index(got, "Rent") < strings.Index(got, "buy 10 AAPL"))

	assertContains(t, LogMarkdown(finance.NewBook(), "USD"), "Nothing recorded yet.")
}

func TestInvestmentsMarkdown(t *testing.T) {
	b := sampleBook(t)
	var actions []finance.InvestmentAction
	for _, a := range b.Portfolio.Actions() {
		actions = append(actions, a)
	}
	got := InvestmentsMarkdown(actions, "USD")
	assertContains(t, got, "| 2025-02-02 | buy | AAPL | 10 | $100.00 | $1,000.00 | - |", "+$150.00")
	assertContains(t, InvestmentsMarkdown(nil, "USD"), "No investments.")
}

func TestReportMarkdown(t *testing.T) {
	b := sampleBook(t)
	opts := ReportOptions{
		Title:       "My Book",
		Currency:    "USD",
		GeneratedAt: time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC),
	}
	got := ReportMarkdown(b, opts)
	assertContains(t, got,
		"# My Book",
		"_All time report, generated on 2025-03-01 09:30 in USD._",
		"## Summary",
		"## Monthly Trend",
		"## Income by category (all time)",
		"## Expense by category (all time)",
		"## Holdings",
		"## Transactions",
		"## Investments",
	)
	assert.False(t, strings.Contains(got, "error"))

	opts.SkipTransactions = true
	opts.Period = finance.Period{Year: 2025, Month: time.February}
	got = ReportMarkdown(b, opts)
	assertContains(t, got, "_2025-02 report", "not included in this report", "No income in this period.")
	assert.False(t, strings.Contains(got, "## Transactions"))
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	err := HTML(&buf, "Report <1>", "# Title\n\n| A | B |\n|---|---|\n| x | 1 |\n")
	assert.NoError(t, err)
	got := buf.String()
	assertContains(t, got, "<title>Report &lt;1&gt;</title>", "<h1>Title</h1>", "<table>", "<td>x</td>")
}
