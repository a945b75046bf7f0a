package boutik

// Delta is the signed effect of one transaction on the two running
// balances.
type Delta struct {
	Cash        Money
	MobileMoney Money
}

// IsZero reports whether the delta leaves both balances untouched.
func (d Delta) IsZero() bool { return d.Cash == 0 && d.MobileMoney == 0 }

// Add returns the component-wise sum of two deltas.
func (d Delta) Add(o Delta) Delta {
	return Delta{Cash: d.Cash + o.Cash, MobileMoney: d.MobileMoney + o.MobileMoney}
}

// ComputeDelta computes the signed balance effect of a transaction.
//
// Only settled transactions move money: a pending one contributes zero
// until it is settled. Income and debt payments credit the balance matching
// the method, expenses debit it. A credit sale never touches balances
// itself; only its paid portion, recorded as a separate income, does.
// Method Credit moves nothing either way.
//
// Pure function, no side effects. It is the caller's job to apply the
// delta exactly once per settlement.
func ComputeDelta(kind TransactionKind, amount Money, method PaymentMethod, status Status) Delta {
	if status != Settled {
		return Delta{}
	}

	var signed Money
	switch kind {
	case Income, DebtPayment:
		signed = amount
	case Expense:
		signed = -amount
	default:
		// CreditSale and anything unknown: no monetary effect.
		return Delta{}
	}

	switch method {
	case Cash:
		return Delta{Cash: signed}
	case MobileMoney:
		return Delta{MobileMoney: signed}
	default:
		return Delta{}
	}
}

// TransactionDelta computes the balance effect of a transaction as
// recorded.
func TransactionDelta(tx Transaction) Delta {
	return ComputeDelta(tx.Kind, tx.Amount, tx.Method, tx.Status)
}

// SumDeltas recomputes the aggregate balance effect of a transaction list
// independently of the running balances. Used to audit the invariant that
// the running balances equal the sum of applied deltas.
func SumDeltas(txs []Transaction) Delta {
	var total Delta
	for _, tx := range txs {
		total = total.Add(TransactionDelta(tx))
	}
	return total
}

// applyDelta is the only code path that mutates the running balances.
func (s *Snapshot) applyDelta(d Delta) {
	s.CashBalance += d.Cash
	s.MobileMoneyBalance += d.MobileMoney
}

// Settle transitions a pending transaction to settled, applying its
// monetary effect with the method actually used for payment.
//
// confirmedMethod may differ from the method recorded at creation (a
// customer switching from cash to mobile money at pickup); when empty the
// recorded method is kept. The transaction's method is updated to the
// confirmed value and the record is marked unsynced so the change
// propagates on the next remote write.
//
// Settling an unknown or already-settled transaction is a no-op, not an
// error: the second call reports false and changes nothing.
func (s *Snapshot) Settle(id string, confirmedMethod PaymentMethod) (Transaction, bool) {
	tx := s.FindTransaction(id)
	if tx == nil || tx.Status == Settled {
		return Transaction{}, false
	}

	method := tx.Method
	if confirmedMethod != "" {
		method = confirmedMethod
	}

	s.applyDelta(ComputeDelta(tx.Kind, tx.Amount, method, Settled))
	tx.Status = Settled
	tx.Method = method
	tx.Synced = false
	return *tx, true
}
