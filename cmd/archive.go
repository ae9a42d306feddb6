package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/finance"
	"github.com/etnz/finance/archive"
	"github.com/google/subcommands"
)

type saveCmd struct{}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "archive the current state of the book" }
func (*saveCmd) Usage() string {
	return `fin save

  Stores a copy of the current book in the archive. Archived states can be
  listed with 'fin history' and brought back with 'fin restore'.
`
}

func (*saveCmd) SetFlags(f *flag.FlagSet) {}

func (*saveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	a, err := archive.Open(archivePath())
	if err != nil {
		return failure(err)
	}
	defer a.Close()

	entry, err := a.Put(book, now())
	if err != nil {
		return failure(err)
	}
	printSuccess(stdout, fmt.Sprintf("Archived snapshot #%d (%d transactions, %d investments)",
		entry.Seq, entry.Transactions, entry.Investments))
	return subcommands.ExitSuccess
}

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list the archived states of the book" }
func (*historyCmd) Usage() string {
	return `fin history

  Lists the snapshots stored by 'fin save', oldest first.
`
}

func (*historyCmd) SetFlags(f *flag.FlagSet) {}

func (*historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := archive.Open(archivePath())
	if err != nil {
		return failure(err)
	}
	defer a.Close()

	entries, err := a.List()
	if err != nil {
		return failure(err)
	}
	printMarkdown(historyMarkdown(entries))
	return subcommands.ExitSuccess
}

func historyMarkdown(entries []archive.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Archive\n\n")
	if len(entries) == 0 {
		fmt.Fprintf(&b, "No snapshot archived yet.\n")
		return b.String()
	}
	fmt.Fprintln(&b, "| # | Saved at | Transactions | Investments |")
	fmt.Fprintln(&b, "|---:|:---|---:|---:|")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %d | %s | %d | %d |\n", e.Seq, e.SavedAt.Local().Format(time.DateTime), e.Transactions, e.Investments)
	}
	return b.String()
}

type restoreCmd struct {
	yes bool
}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "bring back an archived state of the book" }
func (*restoreCmd) Usage() string {
	return `fin restore [-y] [<seq>]

  Replaces the book with the archived snapshot <seq>, or the latest one.
  Asks for confirmation unless -y is given.
`
}

func (c *restoreCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Replace the current book without asking.")
}

func (c *restoreCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		return usage("restore takes at most one snapshot number")
	}
	var seq uint64
	if f.NArg() == 1 {
		var err error
		if seq, err = strconv.ParseUint(f.Arg(0), 10, 64); err != nil || seq == 0 {
			return usage("invalid snapshot number %q", f.Arg(0))
		}
	}

	a, err := archive.Open(archivePath())
	if err != nil {
		return failure(err)
	}
	defer a.Close()

	var (
		book  finance.Book
		entry archive.Entry
	)
	if seq == 0 {
		book, entry, err = a.Latest()
	} else {
		book, entry, err = a.Get(seq)
	}
	if errors.Is(err, archive.ErrNotFound) {
		return failure(fmt.Errorf("no archived snapshot %s", orLatest(seq)))
	}
	if err != nil {
		return failure(err)
	}

	if !c.yes {
		ok, err := confirm(fmt.Sprintf("Replace the book with snapshot #%d saved on %s?", entry.Seq, entry.SavedAt.Local().Format(time.DateTime)))
		if err != nil {
			return failure(err)
		}
		if !ok {
			printInfof(stderr, "restore cancelled, use -y to replace the current book")
			return subcommands.ExitFailure
		}
	}
	if err := saveBook(book); err != nil {
		return failure(err)
	}
	printSuccess(stdout, fmt.Sprintf("Restored snapshot #%d (%d transactions, %d investments)",
		entry.Seq, entry.Transactions, entry.Investments))
	return subcommands.ExitSuccess
}

func orLatest(seq uint64) string {
	if seq == 0 {
		return "yet"
	}
	return "#" + strconv.FormatUint(seq, 10)
}
