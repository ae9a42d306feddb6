package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/finance"
	"github.com/etnz/finance/config"
	"github.com/google/subcommands"
)

// testEnv redirects the commands to a temporary book and captures their
// output.
type testEnv struct {
	dir    string
	file   string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:    dir,
		file:   filepath.Join(dir, "finance.json"),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}

	oldFile, oldArchive, oldCurrency := *bookFile, *archiveFile, *currency
	oldOut, oldErr, oldIn, oldCfg := stdout, stderr, stdin, cfg
	t.Cleanup(func() {
		*bookFile, *archiveFile, *currency = oldFile, oldArchive, oldCurrency
		stdout, stderr, stdin, cfg = oldOut, oldErr, oldIn, oldCfg
	})

	*bookFile = env.file
	*archiveFile = filepath.Join(dir, "finance.db")
	*currency = ""
	stdout, stderr, stdin = env.stdout, env.stderr, strings.NewReader("")
	cfg = &config.Config{File: "unused.json", Archive: "unused.db", Currency: "USD"}
	return env
}

// run executes the command named name with args, and returns its status.
// Output buffers are reset before the run.
func (env *testEnv) run(t *testing.T, name string, args ...string) subcommands.ExitStatus {
	t.Helper()
	env.stdout.Reset()
	env.stderr.Reset()
	for _, e := range commands {
		if e.cmd.Name() != name {
			continue
		}
		f := flag.NewFlagSet(name, flag.ContinueOnError)
		e.cmd.SetFlags(f)
		if err := f.Parse(args); err != nil {
			t.Fatalf("%s %v: %v", name, args, err)
		}
		return e.cmd.Execute(context.Background(), f)
	}
	t.Fatalf("unknown command %q", name)
	return subcommands.ExitFailure
}

// mustRun runs a command that is expected to succeed.
func (env *testEnv) mustRun(t *testing.T, name string, args ...string) string {
	t.Helper()
	if status := env.run(t, name, args...); status != subcommands.ExitSuccess {
		t.Fatalf("%s %v: got status %v, want success; stderr:\n%s", name, args, status, env.stderr)
	}
	return env.stdout.String()
}

func (env *testEnv) book(t *testing.T) finance.Book {
	t.Helper()
	book, _, err := finance.LoadFile(env.file, finance.NewBook())
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	return book
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestRecordAndSummary(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "income", "-d", "2025-01-31", "Salary", "3000")
	assertContains(t, out, "Recorded income Salary $3,000.00 on 2025-01-31")
	env.mustRun(t, "expense", "-d", "2025-02-01", "Rent", "500")

	book := env.book(t)
	if got := book.Ledger.Len(); got != 2 {
		t.Fatalf("transactions = %d, want 2", got)
	}
	if got, want := book.AvailableBalance(), finance.M(2500); !got.Equal(want) {
		t.Errorf("AvailableBalance() = %v, want %v", got, want)
	}

	out = env.mustRun(t, "summary")
	assertContains(t, out, "## Summary", "$3,000.00", "**$2,500.00**")

	out = env.mustRun(t, "breakdown", "-p", "2025")
	assertContains(t, out, "Expense by category (2025)", "Rent", "100.0%")
}

func TestRecordUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "expense", "-d", "2025-02-01", "Gym", "40")
	assertContains(t, out, `"Gym" is not one of the expense categories`, "Recorded expense Gym")
}

func TestRecordInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing amount", []string{"Rent"}, "requires a category and an amount"},
		{"bad amount", []string{"Rent", "abc"}, "invalid amount"},
		{"negative amount", []string{"Rent", "-5"}, "must be positive"},
		{"empty category", []string{" ", "5"}, "category"},
		{"bad date", []string{"-d", "yesterday", "Rent", "5"}, "invalid date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if got := env.run(t, "expense", tt.args...); got != subcommands.ExitUsageError {
				t.Errorf("status = %v, want usage error", got)
			}
			assertContains(t, env.stderr.String(), tt.want)
			if _, err := os.Stat(env.file); !os.IsNotExist(err) {
				t.Errorf("snapshot file was written on failure")
			}
		})
	}
}

func TestBuySell(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "income", "-d", "2025-01-01", "Salary", "5000")
	env.mustRun(t, "buy", "-d", "2025-01-02", "aapl", "10", "100")
	out := env.mustRun(t, "buy", "-d", "2025-01-03", "AAPL", "10", "120")
	assertContains(t, out, "Bought 10 AAPL @ $120.00 for $1,200.00, available balance $2,800.00")

	out = env.mustRun(t, "sell", "-d", "2025-01-04", "AAPL", "5", "130")
	assertContains(t, out, "Sold 5 AAPL @ $130.00 for $650.00, profit/loss +$100.00")

	if got := env.run(t, "sell", "AAPL", "30", "130"); got != subcommands.ExitFailure {
		t.Errorf("oversell status = %v, want failure", got)
	}
	assertContains(t, env.stderr.String(), "position is only 15")

	if got := env.run(t, "buy", "MSFT", "100", "100"); got != subcommands.ExitFailure {
		t.Errorf("expensive buy status = %v, want failure", got)
	}
	assertContains(t, env.stderr.String(), "available balance is 3450")

	if got := env.run(t, "buy", "MSFT", "1.5", "100"); got != subcommands.ExitUsageError {
		t.Errorf("fractional buy status = %v, want usage error", got)
	}

	h, ok := env.book(t).Portfolio.Holding("AAPL")
	if !ok {
		t.Fatal("AAPL holding not found")
	}
	if !h.Shares.Equal(finance.Q(15)) || !h.AvgPrice.Equal(finance.M(110)) {
		t.Errorf("holding = %v shares @ %v, want 15 @ 110", h.Shares, h.AvgPrice)
	}

	out = env.mustRun(t, "holdings")
	assertContains(t, out, "AAPL", "$110.00", "$1,650.00", "+$100.00")
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "income", "-d", "2025-01-31", "Salary", "3000")
	env.mustRun(t, "expense", "-d", "2025-02-01", "Rent", "500")

	var rent finance.Transaction
	for _, tx := range env.book(t).Ledger.Transactions(finance.ByKind(finance.Expense)) {
		rent = tx
	}
	out := env.mustRun(t, "delete", shortID(rent.ID))
	assertContains(t, out, "Deleted expense Rent $500.00 on 2025-02-01")

	book := env.book(t)
	if got := book.Ledger.Len(); got != 1 {
		t.Errorf("transactions = %d, want 1", got)
	}
	if _, ok := book.Ledger.Get(rent.ID); ok {
		t.Errorf("deleted transaction is still there")
	}

	if got := env.run(t, "delete", "nope"); got != subcommands.ExitUsageError {
		t.Errorf("unknown id status = %v, want usage error", got)
	}
	if got := env.run(t, "delete", ""); got != subcommands.ExitUsageError {
		t.Errorf("empty id status = %v, want usage error", got)
	}
	if got := env.book(t).Ledger.Len(); got != 1 {
		t.Errorf("transactions after empty id = %d, want 1", got)
	}
}

func TestResolveID(t *testing.T) {
	l := finance.NewLedger(
		finance.Transaction{ID: "abc-1"},
		finance.Transaction{ID: "abd-2"},
		finance.Transaction{ID: "ab"},
	)
	tests := []struct {
		prefix  string
		want    string
		wantErr string
	}{
		{"abc", "abc-1", ""},
		{"abd-2", "abd-2", ""},
		{"ab", "ab", ""}, // exact match wins
		{"a", "", "ambiguous"},
		{"x", "", "no transaction"},
		{"", "", "required"},
		{"  ", "", "required"},
	}
	for _, tt := range tests {
		got, err := resolveID(l, tt.prefix)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("resolveID(%q) error = %v, want %q", tt.prefix, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("resolveID(%q) = %q, %v, want %q", tt.prefix, got, err, tt.want)
		}
	}
}

func TestCategory(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "category")
	assertContains(t, out, "## Income categories", "- Salary", "## Expense categories", "- Rent")

	env.mustRun(t, "category", "add", "expense", "Travel")
	env.mustRun(t, "category", "rename", "expense", "Travel", "Holidays")
	env.mustRun(t, "category", "remove", "income", "Gifts")

	c := env.book(t).Categories
	if got := c.Of(finance.Expense); got[len(got)-1] != "Holidays" {
		t.Errorf("expense categories = %v, want Holidays last", got)
	}
	for _, name := range c.Of(finance.Income) {
		if name == "Gifts" {
			t.Errorf("Gifts was not removed")
		}
	}

	for _, args := range [][]string{
		{"remove", "expense", "Unknown"},
		{"add", "savings", "Bank"},
		{"add", "expense", "Rent"},
		{"drop", "expense", "Rent"},
		{"add", "expense"},
	} {
		if got := env.run(t, "category", args...); got != subcommands.ExitUsageError {
			t.Errorf("category %v status = %v, want usage error", args, got)
		}
	}
}

func TestExportImport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "income", "-d", "2025-01-01", "Salary", "5000")
	env.mustRun(t, "buy", "-d", "2025-01-02", "AAPL", "10", "100")
	want := env.book(t)

	out := env.mustRun(t, "export")
	assertContains(t, out, `"incomeCategories": [`, `"ticker": "AAPL"`, `"savedAt": "`)

	exported := filepath.Join(env.dir, "export.json")
	env.mustRun(t, "export", "-o", exported)

	env.mustRun(t, "expense", "-d", "2025-01-03", "Rent", "500")

	// A non empty book is only replaced when confirmed.
	if got := env.run(t, "import", exported); got != subcommands.ExitFailure {
		t.Errorf("unconfirmed import status = %v, want failure", got)
	}
	assertContains(t, env.stderr.String(), "import cancelled")

	out = env.mustRun(t, "import", "-y", exported)
	assertContains(t, out, "Imported 1 transactions and 1 investments")
	if got := env.book(t); !got.Equal(want) {
		t.Errorf("imported book differs from the exported one")
	}

	stdin = strings.NewReader(`{"transactions": [{"id": "x", "type": "gift"}]}`)
	if got := env.run(t, "import", "-y", "-"); got != subcommands.ExitFailure {
		t.Errorf("malformed import status = %v, want failure", got)
	}
	assertContains(t, env.stderr.String(), "nothing imported", "malformed snapshot")
	if got := env.book(t); !got.Equal(want) {
		t.Errorf("malformed import changed the book")
	}
}

func TestQuery(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "income", "-d", "2025-01-31", "Salary", "3000")
	env.mustRun(t, "expense", "-d", "2025-02-01", "Rent", "500")

	tests := []struct {
		path string
		want string
	}{
		{"$.transactions[*].amount", "[3000,500]"},
		{`$.transactions[?(@.type=="expense")].category`, `["Rent"]`},
		{"$.investments", "[]"},
	}
	for _, tt := range tests {
		out := env.mustRun(t, "query", tt.path)
		if got := strings.TrimSpace(out); got != tt.want {
			t.Errorf("query %s = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestArchive(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "history")
	assertContains(t, out, "No snapshot archived yet.")
	if got := env.run(t, "restore", "-y"); got != subcommands.ExitFailure {
		t.Errorf("restore from empty archive status = %v, want failure", got)
	}

	env.mustRun(t, "income", "-d", "2025-01-31", "Salary", "3000")
	out = env.mustRun(t, "save")
	assertContains(t, out, "Archived snapshot #1 (1 transactions, 0 investments)")
	env.mustRun(t, "expense", "-d", "2025-02-01", "Rent", "500")
	env.mustRun(t, "save")

	out = env.mustRun(t, "history")
	assertContains(t, out, "| 1 |", "| 2 |")

	out = env.mustRun(t, "restore", "-y", "1")
	assertContains(t, out, "Restored snapshot #1")
	if got := env.book(t).Ledger.Len(); got != 1 {
		t.Errorf("restored transactions = %d, want 1", got)
	}

	env.mustRun(t, "restore", "-y")
	if got := env.book(t).Ledger.Len(); got != 2 {
		t.Errorf("latest restored transactions = %d, want 2", got)
	}

	if got := env.run(t, "restore", "-y", "9"); got != subcommands.ExitFailure {
		t.Errorf("unknown snapshot status = %v, want failure", got)
	}
	assertContains(t, env.stderr.String(), "no archived snapshot #9")
	if got := env.run(t, "restore", "-y", "zero"); got != subcommands.ExitUsageError {
		t.Errorf("invalid snapshot number status = %v, want usage error", got)
	}
}

func TestReport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "income", "-d", "2025-01-31", "Salary", "3000")
	env.mustRun(t, "expense", "-d", "2025-02-01", "Rent", "500")

	out := env.mustRun(t, "report", "-format", "md", "-title", "Household")
	assertContains(t, out, "# Household", "## Summary", "## Monthly Trend", "## Transactions")

	out = env.mustRun(t, "report", "-format", "md", "-p", "2025-02", "-skip-transactions")
	assertContains(t, out, "_2025-02 report", "No income in this period.")

	page := filepath.Join(env.dir, "report.html")
	out = env.mustRun(t, "report", "-format", "html", "-o", page)
	assertContains(t, out, "Report written to")
	data, err := os.ReadFile(page)
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, string(data), "<!DOCTYPE html>", "<h1>Finance Report</h1>", "<table>")

	if got := env.run(t, "report", "-format", "pdf"); got != subcommands.ExitUsageError {
		t.Errorf("unknown format status = %v, want usage error", got)
	}
}

func TestMonthlyTrendLog(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "income", "-d", "2025-01-31", "Salary", "3000")
	env.mustRun(t, "expense", "-d", "2025-02-01", "Rent", "500")

	out := env.mustRun(t, "monthly", "-m", "2025-02")
	assertContains(t, out, "## Month 2025-02", "Rent")

	out = env.mustRun(t, "trend")
	assertContains(t, out, "2025-01", "2025-02", "+$3,000.00", "-$500.00")

	out = env.mustRun(t, "log")
	assertContains(t, out, "### 2025-01-31", "- income Salary +$3,000.00", "- expense Rent -$500.00")

	if got := env.run(t, "monthly", "-m", "February"); got != subcommands.ExitUsageError {
		t.Errorf("bad month status = %v, want usage error", got)
	}
}

func TestCurrencyFlag(t *testing.T) {
	env := newTestEnv(t)
	*currency = "eur"
	out := env.mustRun(t, "income", "-d", "2025-01-31", "Salary", "3000")
	assertContains(t, out, "€")
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    finance.Period
		wantErr bool
	}{
		{"", finance.Period{}, false},
		{"2025", finance.Period{Year: 2025}, false},
		{"2025-02", finance.Period{Year: 2025, Month: 2}, false},
		{"20x5", finance.Period{}, true},
		{"2025-13", finance.Period{}, true},
	}
	for _, tt := range tests {
		got, err := parsePeriod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePeriod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePeriod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, name := range []string{"income", "expense", "buy", "report", "topic"} {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("command %q is not completed", name)
		}
	}
	if _, ok := c.Sub["report"].Flags["format"]; !ok {
		t.Errorf("report -format flag is not completed")
	}
	if _, ok := c.Flags["file"]; !ok {
		t.Errorf("global -file flag is not completed")
	}
}
