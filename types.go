package boutik

import (
	"fmt"
	"time"
)

// TransactionKind is a typed string identifying what a transaction records.
type TransactionKind string

const (
	Income      TransactionKind = "INCOME"
	Expense     TransactionKind = "EXPENSE"
	DebtPayment TransactionKind = "DEBT_PAYMENT"
	CreditSale  TransactionKind = "CREDIT_SALE"
)

// ParseTransactionKind parses a string into a TransactionKind.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch TransactionKind(s) {
	case Income, Expense, DebtPayment, CreditSale:
		return TransactionKind(s), nil
	default:
		return "", fmt.Errorf("unknown transaction kind: %q", s)
	}
}

// PaymentMethod identifies how money moved, if it moved at all.
type PaymentMethod string

const (
	Cash        PaymentMethod = "CASH"
	MobileMoney PaymentMethod = "MOBILE_MONEY"
	// Credit never touches the cash or mobile-money balances.
	Credit PaymentMethod = "CREDIT"
)

// ParsePaymentMethod parses a string into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case Cash, MobileMoney, Credit:
		return PaymentMethod(s), nil
	default:
		return "", fmt.Errorf("unknown payment method: %q", s)
	}
}

// Status is the settlement state of a transaction.
//
// Settled is terminal: no transition ever leaves it.
type Status string

const (
	Pending Status = "PENDING"
	Settled Status = "SETTLED"
)

// AccessRight gates a functional area of the application.
type AccessRight string

const (
	RightCompta AccessRight = "COMPTA"
	RightStock  AccessRight = "STOCK"
	RightRH     AccessRight = "RH"
	RightAdmin  AccessRight = "ADMIN"
)

// ParseAccessRight parses a string into an AccessRight.
func ParseAccessRight(s string) (AccessRight, error) {
	switch AccessRight(s) {
	case RightCompta, RightStock, RightRH, RightAdmin:
		return AccessRight(s), nil
	default:
		return "", fmt.Errorf("unknown access right: %q", s)
	}
}

// LineItem is one product line of a detailed sale. Immutable once attached
// to a transaction.
type LineItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Money  `json:"unitPrice"`
}

// Transaction is one entry of the monetary ledger. Transactions are never
// deleted; settlement and method changes amend them in place.
type Transaction struct {
	ID                string          `json:"id"`
	Date              time.Time       `json:"date"`
	Kind              TransactionKind `json:"type"`
	Amount            Money           `json:"amount"`
	Description       string          `json:"description"`
	Method            PaymentMethod   `json:"method"`
	Status            Status          `json:"status"`
	RelatedClientID   string          `json:"relatedClientId,omitempty"`
	RelatedEmployeeID string          `json:"relatedEmployeeId,omitempty"`
	Items             []LineItem      `json:"items,omitempty"`
	// Synced is true when the record's id and content are known to match
	// the remote store.
	Synced bool `json:"synced"`
}

// Product is an inventory entry. StockLevel is a cached running total; the
// stock movement trail is the source of truth for history.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    Money  `json:"price"`
	// StockLevel may transiently go negative when a sale oversells.
	StockLevel    int    `json:"stockLevel"`
	MinStockLevel int    `json:"minStockLevel"`
	ImageRef      string `json:"imageRef,omitempty"`
}

// StockMovement is one write-once entry of the append-only stock audit
// trail. Movements are never amended or deleted.
type StockMovement struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"productId"`
	ProductName    string    `json:"productName"`
	Date           time.Time `json:"date"`
	QuantityChange int       `json:"quantityChange"`
	Reason         string    `json:"reason"`
	AuthorName     string    `json:"authorName"`
}

// Client is a customer, possibly carrying an outstanding debt.
type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	TotalDebt Money  `json:"totalDebt"`
}

// Employee is a staff member and, through Username/CredentialRef, a local
// login account.
type Employee struct {
	ID         string `json:"id"`
	AuthUserID string `json:"authUserId,omitempty"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	// Username is unique, compared case-insensitively.
	Username string `json:"username"`
	// CredentialRef is the bcrypt hash of the local password.
	CredentialRef string        `json:"credentialRef,omitempty"`
	Salary        Money         `json:"salary"`
	AdvancesTaken Money         `json:"advancesTaken"`
	IsPaid        bool          `json:"isPaid"`
	IsPresent     bool          `json:"isPresent"`
	PhotoRef      string        `json:"photoRef,omitempty"`
	AccessRights  []AccessRight `json:"accessRights"`
}

// HasRight reports whether the employee holds the given access right.
// Admins hold every right.
func (e Employee) HasRight(r AccessRight) bool {
	for _, got := range e.AccessRights {
		if got == r || got == RightAdmin {
			return true
		}
	}
	return false
}
