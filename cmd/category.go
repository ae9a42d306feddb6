package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/finance"
	"github.com/google/subcommands"
)

type categoryCmd struct{}

func (*categoryCmd) Name() string     { return "category" }
func (*categoryCmd) Synopsis() string { return "list, add, rename or remove categories" }
func (*categoryCmd) Usage() string {
	return `fin category
fin category add <income|expense> <name>
fin category rename <income|expense> <old> <new>
fin category remove <income|expense> <name>

  Without arguments, lists the income and expense categories.
  Changing categories never modifies recorded transactions, they keep the
  label they were recorded with.
`
}

func (*categoryCmd) SetFlags(f *flag.FlagSet) {}

func (*categoryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) == 0 {
		book, err := loadBook()
		if err != nil {
			return failure(err)
		}
		printMarkdown(categoriesMarkdown(book.Categories))
		return subcommands.ExitSuccess
	}

	want := map[string]int{"add": 3, "rename": 4, "remove": 3}
	n, ok := want[args[0]]
	if !ok {
		return usage("unknown category action %q, expected add, rename or remove", args[0])
	}
	if len(args) != n {
		return usage("category %s expects %d arguments", args[0], n-1)
	}
	kind, err := finance.ParseKind(args[1])
	if err != nil {
		return failure(err)
	}

	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	var msg string
	switch args[0] {
	case "add":
		book, err = book.AddCategory(kind, args[2])
		msg = fmt.Sprintf("Added %s category %q", kind, args[2])
	case "rename":
		book, err = book.RenameCategory(kind, args[2], args[3])
		msg = fmt.Sprintf("Renamed %s category %q to %q", kind, args[2], args[3])
	case "remove":
		book, err = book.RemoveCategory(kind, args[2])
		msg = fmt.Sprintf("Removed %s category %q", kind, args[2])
	}
	if err != nil {
		return failure(err)
	}
	if err := saveBook(book); err != nil {
		return failure(err)
	}
	printSuccess(stdout, msg)
	return subcommands.ExitSuccess
}

func categoriesMarkdown(c finance.Categories) string {
	var b strings.Builder
	for _, kind := range []finance.Kind{finance.Income, finance.Expense} {
		fmt.Fprintf(&b, "## %s categories\n\n", strings.ToUpper(string(kind[:1]))+string(kind[1:]))
		for _, name := range c.Of(kind) {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}
