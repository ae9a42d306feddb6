package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
	"github.com/etnz/finance/renderer"
	"github.com/google/subcommands"
)

// parsePeriod reads "" (all time), "2025" or "2025-02".
func parsePeriod(s string) (finance.Period, error) {
	switch {
	case s == "":
		return finance.Period{}, nil
	case len(s) == 4:
		y, err := strconv.Atoi(s)
		if err != nil {
			return finance.Period{}, fmt.Errorf("invalid year %q", s)
		}
		return finance.Period{Year: y}, nil
	default:
		m, err := date.ParseYearMonth(s)
		if err != nil {
			return finance.Period{}, err
		}
		return finance.Period{Year: m.Year, Month: m.Month}, nil
	}
}

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the balances of the book" }
func (*summaryCmd) Usage() string {
	return `fin summary

  Displays total income and expense, the ledger balance, the money invested
  and the available balance, with the realized profit/loss.
`
}

func (*summaryCmd) SetFlags(f *flag.FlagSet) {}

func (*summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.SummaryMarkdown(book.Summary(), currencyCode()))
	return subcommands.ExitSuccess
}

type monthlyCmd struct {
	month string
}

func (*monthlyCmd) Name() string     { return "monthly" }
func (*monthlyCmd) Synopsis() string { return "display the totals and transactions of a month" }
func (*monthlyCmd) Usage() string {
	return `fin monthly [-m <YYYY-MM>]

  Displays the income, expense and balance of a calendar month, and the list
  of its transactions. Defaults to the current month.
`
}

func (c *monthlyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Month to display (YYYY-MM), defaults to the current month.")
}

func (c *monthlyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month := date.Today().YearMonth()
	if c.month != "" {
		var err error
		if month, err = date.ParseYearMonth(c.month); err != nil {
			return usage("%v", err)
		}
	}
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.MonthlyMarkdown(book.Ledger.MonthlyBreakdown(month.Month, month.Year), currencyCode()))
	return subcommands.ExitSuccess
}

type breakdownCmd struct {
	period string
}

func (*breakdownCmd) Name() string     { return "breakdown" }
func (*breakdownCmd) Synopsis() string { return "display totals per category" }
func (*breakdownCmd) Usage() string {
	return `fin breakdown [-p <YYYY|YYYY-MM>] [income|expense]

  Displays the total and share of each category, for expenses unless income
  is asked. Categories are listed in the order they first appear.
`
}

func (c *breakdownCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Restrict to a year (YYYY) or a month (YYYY-MM).")
}

func (c *breakdownCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind := finance.Expense
	switch f.NArg() {
	case 0:
	case 1:
		var err error
		if kind, err = finance.ParseKind(f.Arg(0)); err != nil {
			return failure(err)
		}
	default:
		return usage("breakdown takes at most one argument")
	}
	period, err := parsePeriod(c.period)
	if err != nil {
		return usage("invalid period: %v", err)
	}
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	items := book.Ledger.CategoryBreakdown(kind, period)
	printMarkdown(renderer.BreakdownMarkdown(kind, period, items, currencyCode()))
	return subcommands.ExitSuccess
}

type trendCmd struct{}

func (*trendCmd) Name() string     { return "trend" }
func (*trendCmd) Synopsis() string { return "display income and expense month by month" }
func (*trendCmd) Usage() string {
	return `fin trend

  Displays one line per month with transactions, oldest first.
`
}

func (*trendCmd) SetFlags(f *flag.FlagSet) {}

func (*trendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.TrendMarkdown(book.Ledger.MonthlyTrend(), currencyCode()))
	return subcommands.ExitSuccess
}

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the open positions" }
func (*holdingsCmd) Usage() string {
	return `fin holdings

  Displays every ticker with shares held, their average price and cost.
`
}

func (*holdingsCmd) SetFlags(f *flag.FlagSet) {}

func (*holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.HoldingsMarkdown(book.Portfolio.Holdings(), book.Portfolio.RealizedProfitLoss(), currencyCode()))
	return subcommands.ExitSuccess
}

type logCmd struct{}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "display every transaction and investment by date" }
func (*logCmd) Usage() string {
	return `fin log

  Displays the journal of the book, grouped by day.
`
}

func (*logCmd) SetFlags(f *flag.FlagSet) {}

func (*logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	printMarkdown(renderer.LogMarkdown(book, currencyCode()))
	return subcommands.ExitSuccess
}

type reportCmd struct {
	format string
	output string
	title  string
	period string
	skip   bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "generate a complete report" }
func (*reportCmd) Usage() string {
	return `fin report [-format md|text|html] [-o <file>] [-title <title>] [-p <YYYY|YYYY-MM>] [-skip-transactions]

  Generates a report with the summary, the monthly trend, the category
  breakdowns, the holdings and the activity of the period.
  The html format is a standalone page ready to be printed.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "text", "Output format: md, text or html.")
	f.StringVar(&c.output, "o", "", "Write the report to this file instead of the standard output.")
	f.StringVar(&c.title, "title", "Finance Report", "Title of the report.")
	f.StringVar(&c.period, "p", "", "Restrict breakdowns and activity to a year (YYYY) or a month (YYYY-MM).")
	f.BoolVar(&c.skip, "skip-transactions", false, "Do not list transactions and investments.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.format != "md" && c.format != "text" && c.format != "html" {
		return usage("unknown format %q, expected md, text or html", c.format)
	}
	period, err := parsePeriod(c.period)
	if err != nil {
		return usage("invalid period: %v", err)
	}
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	md := renderer.ReportMarkdown(book, renderer.ReportOptions{
		Title:            c.title,
		Currency:         currencyCode(),
		Period:           period,
		SkipTransactions: c.skip,
		GeneratedAt:      now(),
	})

	if c.output == "" {
		switch c.format {
		case "html":
			err = renderer.HTML(stdout, c.title, md)
		case "md":
			_, err = io.WriteString(stdout, md)
		default:
			printMarkdown(md)
		}
		if err != nil {
			return failure(err)
		}
		return subcommands.ExitSuccess
	}

	var out strings.Builder
	if c.format == "html" {
		if err := renderer.HTML(&out, c.title, md); err != nil {
			return failure(err)
		}
	} else {
		out.WriteString(md)
	}
	if err := os.WriteFile(c.output, []byte(out.String()), 0644); err != nil {
		return failure(fmt.Errorf("could not write report: %w", err))
	}
	printSuccess(stdout, fmt.Sprintf("Report written to %s", pathStyle.Render(c.output)))
	return subcommands.ExitSuccess
}
