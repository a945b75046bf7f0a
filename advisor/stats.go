package advisor

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ksidibe/boutik"
)

// Stats summarizes recent activity for the advisor: the last thirty days
// of settled flows against the thirty days before them.
type Stats struct {
	Income30    boutik.Money
	Expenses30  boutik.Money
	Income60    boutik.Money // days 30..60 only
	Expenses60  boutik.Money
	IncomeVar   decimal.Decimal // percent change vs previous window
	ExpensesVar decimal.Decimal

	CashBalance        boutik.Money
	MobileMoneyBalance boutik.Money
	TotalDebt          boutik.Money
	LowStock           []string
}

// Compute derives advisory statistics from a snapshot at the given
// reference time.
func Compute(s *boutik.Snapshot, now time.Time) Stats {
	cut30 := now.AddDate(0, 0, -30)
	cut60 := now.AddDate(0, 0, -60)

	st := Stats{
		CashBalance:        s.CashBalance,
		MobileMoneyBalance: s.MobileMoneyBalance,
		TotalDebt:          s.TotalDebt(),
	}

	for _, tx := range s.Transactions {
		if tx.Status != boutik.Settled || tx.Date.Before(cut60) {
			continue
		}
		recent := !tx.Date.Before(cut30)
		switch tx.Kind {
		case boutik.Income, boutik.DebtPayment:
			if recent {
				st.Income30 += tx.Amount
			} else {
				st.Income60 += tx.Amount
			}
		case boutik.Expense:
			if recent {
				st.Expenses30 += tx.Amount
			} else {
				st.Expenses60 += tx.Amount
			}
		}
	}

	st.IncomeVar = variation(st.Income30, st.Income60)
	st.ExpensesVar = variation(st.Expenses30, st.Expenses60)

	for _, p := range s.Products {
		if p.StockLevel <= p.MinStockLevel {
			st.LowStock = append(st.LowStock, p.Name)
		}
	}
	return st
}

// variation is the percent change from previous to current, one decimal.
// A previous window of zero yields zero rather than a division blow-up.
func variation(current, previous boutik.Money) decimal.Decimal {
	if previous == 0 {
		return decimal.Zero
	}
	cur := decimal.NewFromInt(int64(current))
	prev := decimal.NewFromInt(int64(previous))
	return cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(1)
}

// ExpenseCategory is one aggregated expense bucket.
type ExpenseCategory struct {
	Label string
	Total boutik.Money
}

// TopExpenses groups the window's settled expenses by the description
// prefix before a ':' or '-' separator and returns the three largest
// buckets.
func TopExpenses(s *boutik.Snapshot, now time.Time) []ExpenseCategory {
	cut := now.AddDate(0, 0, -30)
	totals := make(map[string]boutik.Money)
	for _, tx := range s.Transactions {
		if tx.Kind != boutik.Expense || tx.Status != boutik.Settled || tx.Date.Before(cut) {
			continue
		}
		totals[categoryOf(tx.Description)] += tx.Amount
	}

	out := make([]ExpenseCategory, 0, len(totals))
	for label, total := range totals {
		out = append(out, ExpenseCategory{Label: label, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func categoryOf(description string) string {
	label := description
	if i := strings.IndexAny(label, ":-"); i > 0 {
		label = label[:i]
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return "Divers"
	}
	return label
}
