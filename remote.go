package boutik

import (
	"context"
	"fmt"
)

// Session identifies an authenticated remote user.
type Session struct {
	AccessToken string
	UserID      string
	Email       string
}

// GatewayErrorKind classifies remote gateway failures, following the error
// taxonomy: unreachable remotes are survivable background noise, rejected
// writes may need a user-facing translation, and decode failures mean the
// payload could not be trusted.
type GatewayErrorKind string

const (
	GatewayUnreachable GatewayErrorKind = "unreachable"
	GatewayRejected    GatewayErrorKind = "rejected"
	GatewayDecode      GatewayErrorKind = "decode"
)

// GatewayError is the typed failure every gateway call resolves to. The
// gateway never panics and never returns an untyped error for a remote
// condition.
type GatewayError struct {
	Kind    GatewayErrorKind
	Status  int    // HTTP status when the remote answered, else 0
	Message string // remote-provided message when available
	Err     error  // underlying cause
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("remote %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("remote %s", e.Kind)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// ProductUpdate carries a partial product update; nil fields stay
// untouched.
type ProductUpdate struct {
	Name          *string
	Category      *string
	Price         *Money
	StockLevel    *int
	MinStockLevel *int
	ImageRef      *string
}

// EmployeeUpdate carries a partial employee update; nil fields stay
// untouched.
type EmployeeUpdate struct {
	Name          *string
	Role          *string
	Salary        *Money
	AdvancesTaken *Money
	IsPaid        *bool
	IsPresent     *bool
	AccessRights  *[]AccessRight
}

// Remote is the capability set of the authoritative remote store. Every
// call is fallible and may simply be unreachable; callers always receive
// either a result or a typed failure, and treat the local snapshot as the
// durable source of truth in the meantime.
//
// List methods return rows already translated into the local entity shape;
// the snake_case boundary naming lives entirely behind this interface.
type Remote interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListClients(ctx context.Context) ([]Client, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	ListTransactions(ctx context.Context) ([]Transaction, error)

	InsertTransaction(ctx context.Context, tx Transaction) (Transaction, error)
	UpdateTransactionStatus(ctx context.Context, id string, status Status, method PaymentMethod) error
	InsertTransactionItems(ctx context.Context, transactionID string, items []LineItem) error

	AdjustProductStock(ctx context.Context, productID string, change int) error
	InsertStockMovement(ctx context.Context, m StockMovement) error

	InsertProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, id string, u ProductUpdate) error
	DeleteProduct(ctx context.Context, id string) error

	FindClientByName(ctx context.Context, name string) (*Client, error)
	InsertClient(ctx context.Context, c Client) (Client, error)
	UpdateClientDebt(ctx context.Context, id string, total Money) error

	InsertEmployee(ctx context.Context, e Employee) (Employee, error)
	UpdateEmployee(ctx context.Context, id string, u EmployeeUpdate) error
	DeleteEmployee(ctx context.Context, id string) error
	FindEmployeeByAuthID(ctx context.Context, authUserID string) (*Employee, error)

	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password, displayName string) (Session, error)
	CurrentSession(ctx context.Context) (*Session, error)
	SignOut(ctx context.Context) error
}
