package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/finance"
)

//go:embed templates/*.md
var templates embed.FS

// Now is the current time used in reports.
// FIN_TESTING_NOW ("2006-01-02 15:04:05") freezes it for reproducible outputs.
func Now() time.Time {
	if v := os.Getenv("FIN_TESTING_NOW"); v != "" {
		t, err := time.Parse(time.DateTime, v)
		if err != nil {
			panic(err)
		}
		return t
	}
	return time.Now()
}

// ReportOptions holds configuration for rendering a full report.
type ReportOptions struct {
	Title            string
	Currency         string
	Period           finance.Period // restricts breakdowns and activity, the summary always covers the whole book.
	SkipTransactions bool           // Do not render the transactions and investments sections.
	GeneratedAt      time.Time
}

// report is the data of the report template, every section is already
// rendered markdown.
type report struct {
	Title            string
	Period           string
	Currency         string
	Generated        string
	Summary          string
	Trend            string
	IncomeBreakdown  string
	ExpenseBreakdown string
	Holdings         string
	Transactions     string
	Investments      string
}

// ReportMarkdown renders the complete report of a book to a markdown string.
func ReportMarkdown(b finance.Book, opts ReportOptions) string {
	cur := opts.Currency
	if opts.Title == "" {
		opts.Title = "Finance Report"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = Now()
	}

	var txs []finance.Transaction
	for _, tx := range b.Ledger.Transactions(finance.ByPeriod(opts.Period)) {
		txs = append(txs, tx)
	}
	var actions []finance.InvestmentAction
	for _, a := range b.Portfolio.Actions(func(a finance.InvestmentAction) bool { return opts.Period.Contains(a.Date) }) {
		actions = append(actions, a)
	}
	trend := slices.DeleteFunc(b.Ledger.MonthlyTrend(), func(p finance.TrendPoint) bool {
		return !opts.Period.Contains(p.Month.First())
	})

	r := &report{
		Title:            opts.Title,
		Period:           title(opts.Period.String()),
		Currency:         cur,
		Generated:        opts.GeneratedAt.Format("2006-01-02 15:04"),
		Summary:          SummaryMarkdown(b.Summary(), cur),
		Trend:            TrendMarkdown(trend, cur),
		IncomeBreakdown:  BreakdownMarkdown(finance.Income, opts.Period, b.Ledger.CategoryBreakdown(finance.Income, opts.Period), cur),
		ExpenseBreakdown: BreakdownMarkdown(finance.Expense, opts.Period, b.Ledger.CategoryBreakdown(finance.Expense, opts.Period), cur),
		Holdings:         HoldingsMarkdown(b.Portfolio.Holdings(), b.Portfolio.RealizedProfitLoss(), cur),
		Transactions:     TransactionsMarkdown(txs, cur),
		Investments:      InvestmentsMarkdown(actions, cur),
	}

	partials := map[string]string{
		"report_title":    "report_title.md",
		"report_activity": "report_activity.md",
	}
	if opts.SkipTransactions {
		partials["report_activity"] = "report_activity_skipped.md"
	}
	return renderTemplate("report", "report.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
