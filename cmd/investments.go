package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
	"github.com/google/subcommands"
)

// order holds the arguments shared by buy and sell.
type order struct {
	date   string
	day    date.Date
	ticker string
	shares finance.Quantity
	price  finance.Money
}

func (o *order) setFlags(f *flag.FlagSet) {
	f.StringVar(&o.date, "d", "", "Date of the order (YYYY-MM-DD), defaults to today.")
}

// parse reads the positional arguments <ticker> <shares> <price>.
func (o *order) parse(f *flag.FlagSet) error {
	if f.NArg() != 3 {
		return fmt.Errorf("expected <ticker> <shares> <price>, got %d arguments", f.NArg())
	}
	var err error
	if o.day, err = parseDay(o.date); err != nil {
		return fmt.Errorf("invalid date %q: %w", o.date, err)
	}
	o.ticker = f.Arg(0)
	if o.shares, err = finance.ParseQuantity(f.Arg(1)); err != nil {
		return fmt.Errorf("invalid shares %q: %w", f.Arg(1), err)
	}
	if o.price, err = finance.ParseMoney(f.Arg(2)); err != nil {
		return fmt.Errorf("invalid price %q: %w", f.Arg(2), err)
	}
	return nil
}

type buyCmd struct{ order }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy shares with the available balance" }
func (*buyCmd) Usage() string {
	return `fin buy [-d <date>] <ticker> <shares> <price>

  Buys a whole number of <shares> of <ticker> at <price> per share. The total
  cost must not exceed the available balance, that is the ledger balance minus
  the money already invested.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.parse(f); err != nil {
		return usage("%v", err)
	}
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	book, a, err := book.Buy(c.ticker, c.shares, c.price, c.day)
	if err != nil {
		return failure(err)
	}
	if err := saveBook(book); err != nil {
		return failure(err)
	}
	cur := currencyCode()
	printSuccess(stdout, fmt.Sprintf("Bought %s %s @ %s for %s, available balance %s",
		a.Shares, a.Ticker, a.Price.Format(cur), a.Total.Format(cur), book.AvailableBalance().Format(cur)))
	return subcommands.ExitSuccess
}

type sellCmd struct{ order }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares of a holding" }
func (*sellCmd) Usage() string {
	return `fin sell [-d <date>] <ticker> <shares> <price>

  Sells <shares> of <ticker> at <price> per share. The realized profit or loss
  is computed against the average purchase price and recorded with the sale.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.parse(f); err != nil {
		return usage("%v", err)
	}
	book, err := loadBook()
	if err != nil {
		return failure(err)
	}
	book, a, err := book.Sell(c.ticker, c.shares, c.price, c.day)
	if err != nil {
		return failure(err)
	}
	if err := saveBook(book); err != nil {
		return failure(err)
	}
	cur := currencyCode()
	printSuccess(stdout, fmt.Sprintf("Sold %s %s @ %s for %s, profit/loss %s",
		a.Shares, a.Ticker, a.Price.Format(cur), a.Total.Format(cur), a.ProfitLoss.SignedFormat(cur)))
	return subcommands.ExitSuccess
}
