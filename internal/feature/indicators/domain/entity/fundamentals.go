package entity

// StatementKind identifies one of the six fundamental statements a
// provider exposes per ticker.
type StatementKind string

const (
	QuarterlyIncome       StatementKind = "quarterly_income"
	AnnualIncome          StatementKind = "annual_income"
	QuarterlyBalanceSheet StatementKind = "quarterly_balance_sheet"
	AnnualBalanceSheet    StatementKind = "annual_balance_sheet"
	QuarterlyCashFlow     StatementKind = "quarterly_cash_flow"
	AnnualCashFlow        StatementKind = "annual_cash_flow"
)

// FundamentalStatement maps a line-item label (the provider's vocabulary
// verbatim, e.g. "Net Income", "Free Cash Flow", "Stockholders Equity")
// to its period values, most recent first. An absent statement or line
// item is a valid state, not an error.
type FundamentalStatement struct {
	Kind  StatementKind
	Items map[string][]float64
}

// Empty reports whether the statement carries no data at all.
func (s *FundamentalStatement) Empty() bool {
	return s == nil || len(s.Items) == 0
}

// Line returns the period values for a line item, most recent first, and
// whether the item exists with at least one value.
func (s *FundamentalStatement) Line(item string) ([]float64, bool) {
	if s.Empty() {
		return nil, false
	}
	vs, ok := s.Items[item]
	if !ok || len(vs) == 0 {
		return nil, false
	}
	return vs, true
}

// Latest returns the most recent value for a line item.
func (s *FundamentalStatement) Latest(item string) (float64, bool) {
	vs, ok := s.Line(item)
	if !ok {
		return 0, false
	}
	return vs[0], true
}
