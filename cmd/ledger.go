package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/finance"
	"github.com/google/subcommands"
)

// recordCmd records an income or an expense, depending on kind.
type recordCmd struct {
	kind finance.Kind
	date string
}

func (c *recordCmd) Name() string { return string(c.kind) }
func (c *recordCmd) Synopsis() string {
	return fmt.Sprintf("record an %s transaction", c.kind)
}
func (c *recordCmd) Usage() string {
	return fmt.Sprintf(`fin %s [-d <date>] <category> <amount>

  Records an %s of <amount> labelled <category>. The date defaults to today.
  The amount is a positive decimal number, like 1234.56.
`, c.kind, c.kind)
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the transaction (YYYY-MM-DD), defaults to today.")
}

func (c *recordCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usage("%s requires a category and an amount", c.kind)
	}
	day, err := parseDay(c.date)
	if err != nil {
		return usage("invalid date %q: %v", c.date, err)
	}
	amount, err := finance.ParseMoney(f.Arg(1))
	if err != nil {
		return usage("invalid amount %q: %v", f.Arg(1), err)
	}

	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	book, tx, err := book.RecordTransaction(c.kind, day, f.Arg(0), amount)
	if err != nil {
		return failure(err)
	}
	if err := saveBook(book); err != nil {
		return failure(err)
	}

	if !slices.Contains(book.Categories.Of(c.kind), tx.Category) {
		printInfof(stdout, "%q is not one of the %s categories", tx.Category, c.kind)
	}
	printSuccess(stdout, fmt.Sprintf("Recorded %s %s %s on %s (%s)",
		tx.Kind, tx.Category, tx.Amount.Format(currencyCode()), tx.Date, shortID(tx.ID)))
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a transaction" }
func (*deleteCmd) Usage() string {
	return `fin delete <id>

  Deletes the transaction identified by <id>. Any unique prefix of the id is
  accepted, like the short ids printed by 'fin log'.
`
}

func (*deleteCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("delete requires a transaction id")
	}
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	id, err := resolveID(book.Ledger, f.Arg(0))
	if err != nil {
		return failure(err)
	}
	tx, _ := book.Ledger.Get(id)
	book, err = book.DeleteTransaction(id)
	if err != nil {
		return failure(err)
	}
	if err := saveBook(book); err != nil {
		return failure(err)
	}
	printSuccess(stdout, fmt.Sprintf("Deleted %s %s %s on %s", tx.Kind, tx.Category, tx.Amount.Format(currencyCode()), tx.Date))
	return subcommands.ExitSuccess
}

// resolveID finds the single transaction whose id starts with prefix.
func resolveID(l finance.Ledger, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", &finance.ValidationError{Field: "id", Reason: "an id or id prefix is required"}
	}
	var found []string
	for _, tx := range l.Transactions() {
		if tx.ID == prefix {
			return tx.ID, nil
		}
		if strings.HasPrefix(tx.ID, prefix) {
			found = append(found, tx.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", &finance.ValidationError{Field: "id", Reason: fmt.Sprintf("no transaction with id %q", prefix)}
	case 1:
		return found[0], nil
	default:
		return "", &finance.ValidationError{Field: "id", Reason: fmt.Sprintf("id %q is ambiguous, it matches %d transactions", prefix, len(found))}
	}
}

// shortID keeps the first block of a uuid.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
