// Package cmd implements the CLI application to manage a personal finance book.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/finance"
	"github.com/etnz/finance/config"
	"github.com/etnz/finance/date"
	"github.com/etnz/finance/renderer"
	"github.com/google/subcommands"
	"golang.org/x/term"
)

// commands lists every subcommand with its help group.
var commands = []struct {
	cmd   subcommands.Command
	group string
}{
	{&recordCmd{kind: finance.Income}, "ledger"},
	{&recordCmd{kind: finance.Expense}, "ledger"},
	{&deleteCmd{}, "ledger"},

	{&buyCmd{}, "investments"},
	{&sellCmd{}, "investments"},

	{&categoryCmd{}, "categories"},

	{&summaryCmd{}, "reports"},
	{&monthlyCmd{}, "reports"},
	{&breakdownCmd{}, "reports"},
	{&trendCmd{}, "reports"},
	{&holdingsCmd{}, "reports"},
	{&logCmd{}, "reports"},
	{&reportCmd{}, "reports"},
	{&watchCmd{}, "reports"},

	{&exportCmd{}, "snapshot"},
	{&importCmd{}, "snapshot"},
	{&queryCmd{}, "snapshot"},

	{&saveCmd{}, "archive"},
	{&historyCmd{}, "archive"},
	{&restoreCmd{}, "archive"},

	{&topicCmd{}, "help"},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, e := range commands {
		c.Register(e.cmd, e.group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var bookFile = flag.String("file", "", "Path to the snapshot file (default $FIN_FILE or finance.json)")
var archiveFile = flag.String("archive", "", "Path to the snapshot archive (default $FIN_ARCHIVE or .finance.db)")
var currency = flag.String("currency", "", "Currency code used to display amounts (default $FIN_CURRENCY or USD)")
var verbose = flag.Bool("v", false, "Print log messages on stderr")

// cfg holds the environment configuration, flags take precedence over it.
var cfg = &config.Config{File: "finance.json", Archive: ".finance.db", Currency: "USD"}

// stdout and stderr are where commands write, tests replace them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// now stamps saved snapshots and reports.
var now = renderer.Now

// Configure sets the environment configuration used by every command.
func Configure(c *config.Config) {
	cfg = c
}

// Verbose reports whether log messages were requested.
func Verbose() bool { return *verbose || cfg.Verbose }

func snapshotPath() string {
	if *bookFile != "" {
		return *bookFile
	}
	return cfg.File
}

func archivePath() string {
	if *archiveFile != "" {
		return *archiveFile
	}
	return cfg.Archive
}

func currencyCode() string {
	if *currency != "" {
		return strings.ToUpper(*currency)
	}
	return cfg.Currency
}

// loadBook reads the snapshot file, or starts a new book if there is none.
func loadBook() (finance.Book, error) {
	fresh, err := cfg.NewBook()
	if err != nil {
		return finance.Book{}, err
	}
	book, _, err := finance.LoadFile(snapshotPath(), fresh)
	return book, err
}

// saveBook writes book back to the snapshot file.
func saveBook(book finance.Book) error {
	return finance.SaveFile(snapshotPath(), book, now().UTC())
}

// parseDay parses an optional date flag, empty means today.
func parseDay(s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, nil
	}
	return date.Parse(s)
}

// failure reports err and returns the matching exit status. Invalid user
// input is a usage error, anything else a failure.
func failure(err error) subcommands.ExitStatus {
	printError(stderr, err.Error())
	var verr *finance.ValidationError
	if errors.As(err, &verr) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// usage reports a command line error.
func usage(format string, args ...any) subcommands.ExitStatus {
	printError(stderr, fmt.Sprintf(format, args...))
	return subcommands.ExitUsageError
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printMarkdown renders md on a terminal, or prints it as is otherwise.
func printMarkdown(md string) {
	if !isTerminal(stdout) {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprint(stdout, md)
}
