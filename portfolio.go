package finance

import (
	"iter"
	"slices"

	"github.com/etnz/finance/date"
)

// Portfolio is the append-only list of investment actions, in the order they
// were recorded. Holdings and realized profit/loss are derived from it on
// every call.
type Portfolio struct {
	actions []InvestmentAction
}

// NewPortfolio returns a portfolio holding actions, in that order. It does
// not check that the history is consistent, see replay.
func NewPortfolio(actions ...InvestmentAction) Portfolio {
	return Portfolio{actions: slices.Clone(actions)}
}

// Len returns the number of actions.
func (p Portfolio) Len() int { return len(p.actions) }

// Actions returns an iterator over the actions accepted by every filter, in
// recording order.
func (p Portfolio) Actions(filters ...func(InvestmentAction) bool) iter.Seq2[int, InvestmentAction] {
	return func(yield func(int, InvestmentAction) bool) {
	next:
		for i, a := range p.actions {
			for _, filter := range filters {
				if !filter(a) {
					continue next
				}
			}
			if !yield(i, a) {
				return
			}
		}
	}
}

// ByTicker returns a predicate that accepts actions on ticker.
func ByTicker(ticker string) func(InvestmentAction) bool {
	ticker = normalizeTicker(ticker)
	return func(a InvestmentAction) bool { return a.Ticker == ticker }
}

// checkOrder validates the arguments common to buys and sells.
func checkOrder(ticker string, shares Quantity, price Money) error {
	switch {
	case ticker == "":
		return invalid("ticker", "ticker is required")
	case !shares.IsPositive() || !shares.IsInteger():
		return invalid("shares", "shares must be a positive integer, got %s", shares)
	case price.IsNegative():
		return invalid("price", "price must not be negative, got %s", price)
	}
	return nil
}

// Buy appends the purchase of shares of ticker at price. It fails with an
// InsufficientFundsError when the cost exceeds available, which the caller
// computes from the current state right before the call. A zero day means
// today.
func (p Portfolio) Buy(ticker string, shares Quantity, price Money, day date.Date, available Money) (Portfolio, InvestmentAction, error) {
	ticker = normalizeTicker(ticker)
	if err := checkOrder(ticker, shares, price); err != nil {
		return p, InvestmentAction{}, err
	}
	total := price.Mul(shares)
	if total.GreaterThan(available) {
		return p, InvestmentAction{}, &InsufficientFundsError{Ticker: ticker, Cost: total, Available: available}
	}
	if day.IsZero() {
		day = date.Today()
	}
	a := InvestmentAction{
		ID:     newID(),
		Kind:   Buy,
		Ticker: ticker,
		Shares: shares,
		Price:  price,
		Total:  total,
		Date:   day,
	}
	return Portfolio{actions: append(slices.Clip(p.actions), a)}, a, nil
}

// Sell appends the sale of shares of ticker at price. The profit/loss is
// computed against the average price before the sale and stored in the
// action. It fails with an InsufficientSharesError when fewer shares are
// held. A zero day means today.
func (p Portfolio) Sell(ticker string, shares Quantity, price Money, day date.Date) (Portfolio, InvestmentAction, error) {
	ticker = normalizeTicker(ticker)
	if err := checkOrder(ticker, shares, price); err != nil {
		return p, InvestmentAction{}, err
	}
	h, _ := p.Holding(ticker)
	if h.Shares.LessThan(shares) {
		return p, InvestmentAction{}, &InsufficientSharesError{Ticker: ticker, Requested: shares, Held: h.Shares}
	}
	if day.IsZero() {
		day = date.Today()
	}
	pl := price.Sub(h.AvgPrice).Mul(shares)
	a := InvestmentAction{
		ID:         newID(),
		Kind:       Sell,
		Ticker:     ticker,
		Shares:     shares,
		Price:      price,
		Total:      price.Mul(shares),
		Date:       day,
		ProfitLoss: &pl,
	}
	return Portfolio{actions: append(slices.Clip(p.actions), a)}, a, nil
}

// fold replays every action and returns the positions in order of first
// appearance of their ticker, including closed ones.
func (p Portfolio) fold() []Holding {
	var (
		out   []Holding
		index = make(map[string]int)
	)
	for _, a := range p.actions {
		i, exists := index[a.Ticker]
		if !exists {
			i = len(out)
			index[a.Ticker] = i
			out = append(out, Holding{Ticker: a.Ticker})
		}
		out[i] = out[i].apply(a)
	}
	return out
}

// Holdings returns the open positions, in order of first appearance of their
// ticker.
func (p Portfolio) Holdings() []Holding {
	return slices.DeleteFunc(p.fold(), func(h Holding) bool { return !h.Shares.IsPositive() })
}

// Holding returns the open position in ticker, if any.
func (p Portfolio) Holding(ticker string) (Holding, bool) {
	ticker = normalizeTicker(ticker)
	h := Holding{Ticker: ticker}
	for _, a := range p.Actions(ByTicker(ticker)) {
		h = h.apply(a)
	}
	if !h.Shares.IsPositive() {
		return Holding{Ticker: ticker}, false
	}
	return h, true
}

// RealizedProfitLoss returns the sum of the profit/loss frozen in every sell.
func (p Portfolio) RealizedProfitLoss() Money {
	var total Money
	for _, a := range p.actions {
		if a.Kind == Sell && a.ProfitLoss != nil {
			total = total.Add(*a.ProfitLoss)
		}
	}
	return total
}

// NetInvestmentOutflow returns the cash committed to the market: the total
// of buys minus the total of sells.
func (p Portfolio) NetInvestmentOutflow() Money {
	var total Money
	for _, a := range p.actions {
		switch a.Kind {
		case Buy:
			total = total.Add(a.Total)
		case Sell:
			total = total.Sub(a.Total)
		}
	}
	return total
}

// InvestedCost returns the cost basis of all open positions.
func (p Portfolio) InvestedCost() Money {
	var total Money
	for _, h := range p.Holdings() {
		total = total.Add(h.TotalCost)
	}
	return total
}

// replay checks that the history never sells more shares than held.
func (p Portfolio) replay() error {
	held := make(map[string]Quantity)
	for _, a := range p.actions {
		switch a.Kind {
		case Buy:
			held[a.Ticker] = held[a.Ticker].Add(a.Shares)
		case Sell:
			if held[a.Ticker].LessThan(a.Shares) {
				return &InsufficientSharesError{Ticker: a.Ticker, Requested: a.Shares, Held: held[a.Ticker]}
			}
			held[a.Ticker] = held[a.Ticker].Sub(a.Shares)
		}
	}
	return nil
}
