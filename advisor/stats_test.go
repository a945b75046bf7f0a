package advisor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ksidibe/boutik"
)

func refTime() time.Time {
	return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
}

func TestComputeSplitsWindows(t *testing.T) {
	now := refTime()
	s := &boutik.Snapshot{
		CashBalance:        150000,
		MobileMoneyBalance: 325000,
		Transactions: []boutik.Transaction{
			// current window
			{Date: now.AddDate(0, 0, -5), Kind: boutik.Income, Amount: 60000, Method: boutik.Cash, Status: boutik.Settled},
			{Date: now.AddDate(0, 0, -10), Kind: boutik.DebtPayment, Amount: 10000, Method: boutik.Cash, Status: boutik.Settled},
			{Date: now.AddDate(0, 0, -12), Kind: boutik.Expense, Amount: 20000, Method: boutik.MobileMoney, Status: boutik.Settled},
			// pending never counts
			{Date: now.AddDate(0, 0, -3), Kind: boutik.Income, Amount: 99999, Method: boutik.Cash, Status: boutik.Pending},
			// previous window
			{Date: now.AddDate(0, 0, -45), Kind: boutik.Income, Amount: 50000, Method: boutik.Cash, Status: boutik.Settled},
			{Date: now.AddDate(0, 0, -50), Kind: boutik.Expense, Amount: 40000, Method: boutik.Cash, Status: boutik.Settled},
			// too old
			{Date: now.AddDate(0, 0, -90), Kind: boutik.Income, Amount: 77777, Method: boutik.Cash, Status: boutik.Settled},
		},
		Clients: []boutik.Client{{ID: "c1", Name: "Moussa", TotalDebt: 15000}},
	}

	st := Compute(s, now)

	assert.Equal(t, boutik.Money(70000), st.Income30)
	assert.Equal(t, boutik.Money(20000), st.Expenses30)
	assert.Equal(t, boutik.Money(50000), st.Income60)
	assert.Equal(t, boutik.Money(40000), st.Expenses60)
	assert.Equal(t, "40", st.IncomeVar.String())    // 50000 -> 70000
	assert.Equal(t, "-50", st.ExpensesVar.String()) // 40000 -> 20000
	assert.Equal(t, boutik.Money(15000), st.TotalDebt)
}

func TestComputeVariationWithEmptyPreviousWindow(t *testing.T) {
	s := &boutik.Snapshot{
		Transactions: []boutik.Transaction{
			{Date: refTime().AddDate(0, 0, -1), Kind: boutik.Income, Amount: 1000, Method: boutik.Cash, Status: boutik.Settled},
		},
	}
	st := Compute(s, refTime())
	assert.True(t, st.IncomeVar.IsZero(), "no previous window means no variation, not a division blow-up")
}

func TestComputeCollectsLowStock(t *testing.T) {
	s := &boutik.Snapshot{
		Products: []boutik.Product{
			{Name: "Riz", StockLevel: 45, MinStockLevel: 10},
			{Name: "Huile", StockLevel: 8, MinStockLevel: 15},
			{Name: "Savon", StockLevel: 0, MinStockLevel: 20},
		},
	}
	st := Compute(s, refTime())
	assert.Equal(t, []string{"Huile", "Savon"}, st.LowStock)
}

func TestTopExpensesGroupsByPrefix(t *testing.T) {
	now := refTime()
	s := &boutik.Snapshot{
		Transactions: []boutik.Transaction{
			{Date: now.AddDate(0, 0, -1), Kind: boutik.Expense, Amount: 30000, Description: "Avance: Amina K.", Method: boutik.Cash, Status: boutik.Settled},
			{Date: now.AddDate(0, 0, -2), Kind: boutik.Expense, Amount: 20000, Description: "Avance: Sali Ba", Method: boutik.Cash, Status: boutik.Settled},
			{Date: now.AddDate(0, 0, -3), Kind: boutik.Expense, Amount: 15000, Description: "Facture Électricité", Method: boutik.MobileMoney, Status: boutik.Settled},
			{Date: now.AddDate(0, 0, -4), Kind: boutik.Expense, Amount: 5000, Description: "Transport - marché", Method: boutik.Cash, Status: boutik.Settled},
			{Date: now.AddDate(0, 0, -5), Kind: boutik.Expense, Amount: 1000, Description: "Divers achats", Method: boutik.Cash, Status: boutik.Settled},
			// income never shows up here
			{Date: now.AddDate(0, 0, -1), Kind: boutik.Income, Amount: 90000, Description: "Vente", Method: boutik.Cash, Status: boutik.Settled},
		},
	}

	cats := TopExpenses(s, now)

	assert.Len(t, cats, 3)
	assert.Equal(t, "Avance", cats[0].Label)
	assert.Equal(t, boutik.Money(50000), cats[0].Total)
	assert.Equal(t, "Facture Électricité", cats[1].Label)
	assert.Equal(t, "Transport", cats[2].Label)
}
