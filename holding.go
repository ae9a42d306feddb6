package finance

// Holding is the position held in one ticker, derived from the investment
// actions. It is never stored.
type Holding struct {
	Ticker    string
	Shares    Quantity
	TotalCost Money // cost basis of the shares still held
	AvgPrice  Money // weighted average price paid per share
}

// apply folds one action into the holding.
//
// A buy adds its shares and total, and updates the average price. A sell
// removes shares at the current average price, leaving the average price
// unchanged. Once no share is left the cost basis starts over.
func (h Holding) apply(a InvestmentAction) Holding {
	switch a.Kind {
	case Buy:
		h.Shares = h.Shares.Add(a.Shares)
		h.TotalCost = h.TotalCost.Add(a.Total)
		if h.Shares.IsPositive() {
			h.AvgPrice = h.TotalCost.Div(h.Shares)
		}
	case Sell:
		h.TotalCost = h.TotalCost.Sub(h.AvgPrice.Mul(a.Shares))
		h.Shares = h.Shares.Sub(a.Shares)
		if !h.Shares.IsPositive() {
			h.TotalCost, h.AvgPrice = Money{}, Money{}
		}
	}
	return h
}

// Value returns the market value of the holding at price.
func (h Holding) Value(price Money) Money { return price.Mul(h.Shares) }

// UnrealizedProfitLoss returns the gain of the holding if it was sold at price.
func (h Holding) UnrealizedProfitLoss(price Money) Money { return h.Value(price).Sub(h.TotalCost) }
