package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/finance"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the book as a JSON snapshot" }
func (*exportCmd) Usage() string {
	return `fin export [-o <file>]

  Writes the complete book, categories, transactions and investments, as a
  JSON snapshot. It can be read back with 'fin import'.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Write the snapshot to this file instead of the standard output.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	if c.output == "" {
		if err := finance.EncodeSnapshot(stdout, book, now().UTC()); err != nil {
			return failure(err)
		}
		return subcommands.ExitSuccess
	}
	if err := finance.SaveFile(c.output, book, now().UTC()); err != nil {
		return failure(err)
	}
	printSuccess(stdout, fmt.Sprintf("Exported %d transactions and %d investments to %s",
		book.Ledger.Len(), book.Portfolio.Len(), pathStyle.Render(c.output)))
	return subcommands.ExitSuccess
}

type importCmd struct {
	yes bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the book with a JSON snapshot" }
func (*importCmd) Usage() string {
	return `fin import [-y] <file|->

  Replaces the whole book with the snapshot read from <file>, or from the
  standard input with '-'. The snapshot is fully validated first: if anything
  is wrong nothing is imported. Replacing a non empty book asks for
  confirmation, unless -y is given.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Replace the current book without asking.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("import requires a file, or '-' for the standard input")
	}
	var r io.Reader = stdin
	if name := f.Arg(0); name != "-" {
		file, err := os.Open(name)
		if err != nil {
			return failure(fmt.Errorf("could not open snapshot: %w", err))
		}
		defer file.Close()
		r = file
	}

	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	imported, err := book.Import(r)
	if err != nil {
		var merr *finance.MalformedDataError
		if errors.As(err, &merr) {
			printError(stderr, "nothing imported")
		}
		return failure(err)
	}

	if !c.yes && (book.Ledger.Len() > 0 || book.Portfolio.Len() > 0) {
		ok, err := confirm(fmt.Sprintf("Replace %d transactions and %d investments?", book.Ledger.Len(), book.Portfolio.Len()))
		if err != nil {
			return failure(err)
		}
		if !ok {
			printInfof(stderr, "import cancelled, use -y to replace the current book")
			return subcommands.ExitFailure
		}
	}

	if err := saveBook(imported); err != nil {
		return failure(err)
	}
	printSuccess(stdout, fmt.Sprintf("Imported %d transactions and %d investments", imported.Ledger.Len(), imported.Portfolio.Len()))
	return subcommands.ExitSuccess
}

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression on the snapshot" }
func (*queryCmd) Usage() string {
	return `fin query <jsonpath>

  Evaluates <jsonpath> on the JSON snapshot of the book and prints the result
  as compact JSON. For instance:

    fin query '$.transactions[?(@.type=="expense")].amount'
`
}

func (*queryCmd) SetFlags(f *flag.FlagSet) {}

func (*queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("query requires a JSONPath expression")
	}
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	result, err := query(book, f.Arg(0))
	if err != nil {
		return failure(err)
	}
	fmt.Fprintln(stdout, string(result))
	return subcommands.ExitSuccess
}

// query evaluates path on the snapshot of book.
func query(book finance.Book, path string) ([]byte, error) {
	var buf bytes.Buffer
	if err := finance.EncodeSnapshot(&buf, book, now().UTC()); err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(buf.Bytes(), &jobj); err != nil {
		return nil, err
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return json.Marshal(jval)
}
