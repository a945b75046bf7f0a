package boutik

import (
	"testing"
	"time"
)

func TestComputeDelta(t *testing.T) {
	testCases := []struct {
		name   string
		kind   TransactionKind
		amount Money
		method PaymentMethod
		status Status
		want   Delta
	}{
		{
			name:   "settled cash income credits cash",
			kind:   Income, amount: 50000, method: Cash, status: Settled,
			want: Delta{Cash: 50000},
		},
		{
			name:   "settled mobile money income credits mobile money",
			kind:   Income, amount: 30000, method: MobileMoney, status: Settled,
			want: Delta{MobileMoney: 30000},
		},
		{
			name:   "settled expense debits the matching balance",
			kind:   Expense, amount: 15000, method: MobileMoney, status: Settled,
			want: Delta{MobileMoney: -15000},
		},
		{
			name:   "debt payment behaves like income",
			kind:   DebtPayment, amount: 5000, method: Cash, status: Settled,
			want: Delta{Cash: 5000},
		},
		{
			name:   "pending moves nothing",
			kind:   Income, amount: 30000, method: MobileMoney, status: Pending,
			want: Delta{},
		},
		{
			name:   "credit sale moves nothing even when settled",
			kind:   CreditSale, amount: 10000, method: Cash, status: Settled,
			want: Delta{},
		},
		{
			name:   "method credit moves nothing",
			kind:   Income, amount: 10000, method: Credit, status: Settled,
			want: Delta{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeDelta(tc.kind, tc.amount, tc.method, tc.status)
			if got != tc.want {
				t.Errorf("ComputeDelta() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

// TestSettlementScenario walks a day at the counter: a settled cash sale
// moves money immediately, an open invoice moves nothing until it is
// confirmed, and confirming with a different method routes the money to
// the method actually used.
func TestSettlementScenario(t *testing.T) {
	s := &Snapshot{CashBalance: 150000, MobileMoneyBalance: 325000}

	sale := Transaction{
		ID: "t-sale", Date: time.Now(), Kind: Income, Amount: 50000,
		Method: Cash, Status: Settled,
	}
	s.Transactions = append(s.Transactions, sale)
	s.applyDelta(TransactionDelta(sale))

	if s.CashBalance != 200000 || s.MobileMoneyBalance != 325000 {
		t.Fatalf("after settled sale: cash=%d mm=%d, want 200000/325000", s.CashBalance, s.MobileMoneyBalance)
	}

	invoice := Transaction{
		ID: "t-invoice", Date: time.Now(), Kind: Income, Amount: 30000,
		Method: MobileMoney, Status: Pending,
	}
	s.Transactions = append(s.Transactions, invoice)
	s.applyDelta(TransactionDelta(invoice))

	if s.CashBalance != 200000 || s.MobileMoneyBalance != 325000 {
		t.Fatalf("pending invoice moved money: cash=%d mm=%d", s.CashBalance, s.MobileMoneyBalance)
	}

	// The customer shows up with cash, not mobile money.
	settled, ok := s.Settle("t-invoice", Cash)
	if !ok {
		t.Fatal("Settle() reported no change for a pending invoice")
	}
	if settled.Method != Cash {
		t.Errorf("settled method = %s, want CASH", settled.Method)
	}
	if settled.Synced {
		t.Error("settled transaction still marked synced")
	}
	if s.CashBalance != 230000 || s.MobileMoneyBalance != 325000 {
		t.Errorf("after confirmation: cash=%d mm=%d, want 230000/325000", s.CashBalance, s.MobileMoneyBalance)
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	s := &Snapshot{}
	s.Transactions = []Transaction{{ID: "t1", Kind: Income, Amount: 1000, Method: Cash, Status: Pending}}

	if _, ok := s.Settle("t1", ""); !ok {
		t.Fatal("first Settle() failed")
	}
	if _, ok := s.Settle("t1", MobileMoney); ok {
		t.Error("second Settle() reported a change")
	}
	if s.CashBalance != 1000 {
		t.Errorf("cash = %d, want 1000 after a single settlement", s.CashBalance)
	}
	if got := s.Transactions[0].Method; got != Cash {
		t.Errorf("method = %s, want CASH untouched by the second settle", got)
	}
}

func TestSettleUnknownTransaction(t *testing.T) {
	s := &Snapshot{}
	if _, ok := s.Settle("nope", Cash); ok {
		t.Error("Settle() on an unknown id reported a change")
	}
}

func TestSettleKeepsRecordedMethodWhenUnconfirmed(t *testing.T) {
	s := &Snapshot{}
	s.Transactions = []Transaction{{ID: "t1", Kind: Income, Amount: 500, Method: MobileMoney, Status: Pending}}

	settled, ok := s.Settle("t1", "")
	if !ok {
		t.Fatal("Settle() failed")
	}
	if settled.Method != MobileMoney {
		t.Errorf("method = %s, want MOBILE_MONEY kept", settled.Method)
	}
	if s.MobileMoneyBalance != 500 {
		t.Errorf("mobile money = %d, want 500", s.MobileMoneyBalance)
	}
}

// The running balances must always equal the starting balances plus the
// sum of the applied deltas, whatever sequence of operations ran.
func TestSumDeltasAuditsBalances(t *testing.T) {
	s := SeedSnapshot()
	startCash := s.CashBalance
	startMM := s.MobileMoneyBalance

	ops := []Transaction{
		{ID: "a", Kind: Income, Amount: 12000, Method: Cash, Status: Settled},
		{ID: "b", Kind: Expense, Amount: 7000, Method: MobileMoney, Status: Settled},
		{ID: "c", Kind: Income, Amount: 9000, Method: MobileMoney, Status: Pending},
		{ID: "d", Kind: CreditSale, Amount: 20000, Method: Credit, Status: Settled},
	}
	for _, tx := range ops {
		s.Transactions = append(s.Transactions, tx)
		s.applyDelta(TransactionDelta(tx))
	}
	s.Settle("c", "")

	total := SumDeltas(s.Transactions[2:]) // the seed transactions predate the seed balances
	if s.CashBalance != startCash+total.Cash {
		t.Errorf("cash = %d, want %d", s.CashBalance, startCash+total.Cash)
	}
	if s.MobileMoneyBalance != startMM+total.MobileMoney {
		t.Errorf("mobile money = %d, want %d", s.MobileMoneyBalance, startMM+total.MobileMoney)
	}
}
