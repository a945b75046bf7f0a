package supabase

import (
	"time"

	"github.com/ksidibe/boutik"
)

// Row types mirror the remote tables, which use snake_case column names.
// The translation to and from the local entities lives entirely in this
// file; nothing outside the package ever sees a row.

type productRow struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Price         int64  `json:"price"`
	StockLevel    int    `json:"stock_level"`
	MinStockLevel int    `json:"min_stock_level"`
	ImageURL      string `json:"image_url,omitempty"`
}

func (r productRow) toDomain() boutik.Product {
	return boutik.Product{
		ID:            r.ID,
		Name:          r.Name,
		Category:      r.Category,
		Price:         boutik.Money(r.Price),
		StockLevel:    r.StockLevel,
		MinStockLevel: r.MinStockLevel,
		ImageRef:      r.ImageURL,
	}
}

func productToRow(p boutik.Product) productRow {
	return productRow{
		Name:          p.Name,
		Category:      p.Category,
		Price:         int64(p.Price),
		StockLevel:    p.StockLevel,
		MinStockLevel: p.MinStockLevel,
		ImageURL:      p.ImageRef,
	}
}

type clientRow struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	TotalDebt int64  `json:"total_debt"`
}

func (r clientRow) toDomain() boutik.Client {
	return boutik.Client{ID: r.ID, Name: r.Name, Phone: r.Phone, TotalDebt: boutik.Money(r.TotalDebt)}
}

func clientToRow(c boutik.Client) clientRow {
	return clientRow{Name: c.Name, Phone: c.Phone, TotalDebt: int64(c.TotalDebt)}
}

type employeeRow struct {
	ID            string   `json:"id,omitempty"`
	AuthUserID    string   `json:"auth_user_id,omitempty"`
	Name          string   `json:"name"`
	Role          string   `json:"role"`
	Username      string   `json:"username"`
	Salary        int64    `json:"salary"`
	AdvancesTaken int64    `json:"advances_taken"`
	IsPaid        bool     `json:"is_paid"`
	IsPresent     bool     `json:"is_present"`
	PhotoURL      string   `json:"photo_url,omitempty"`
	AccessRights  []string `json:"access_rights"`
}

func (r employeeRow) toDomain() boutik.Employee {
	rights := make([]boutik.AccessRight, 0, len(r.AccessRights))
	for _, s := range r.AccessRights {
		rights = append(rights, boutik.AccessRight(s))
	}
	return boutik.Employee{
		ID:            r.ID,
		AuthUserID:    r.AuthUserID,
		Name:          r.Name,
		Role:          r.Role,
		Username:      r.Username,
		Salary:        boutik.Money(r.Salary),
		AdvancesTaken: boutik.Money(r.AdvancesTaken),
		IsPaid:        r.IsPaid,
		IsPresent:     r.IsPresent,
		PhotoRef:      r.PhotoURL,
		AccessRights:  rights,
	}
}

func employeeToRow(e boutik.Employee) employeeRow {
	rights := make([]string, 0, len(e.AccessRights))
	for _, r := range e.AccessRights {
		rights = append(rights, string(r))
	}
	return employeeRow{
		AuthUserID:   e.AuthUserID,
		Name:         e.Name,
		Role:         e.Role,
		Username:     e.Username,
		Salary:       int64(e.Salary),
		PhotoURL:     e.PhotoRef,
		AccessRights: rights,
	}
}

type transactionRow struct {
	ID                string    `json:"id,omitempty"`
	Date              time.Time `json:"date"`
	Type              string    `json:"type"`
	Amount            int64     `json:"amount"`
	Description       string    `json:"description"`
	Method            string    `json:"method"`
	Status            string    `json:"status"`
	RelatedClientID   *string   `json:"related_client_id,omitempty"`
	RelatedEmployeeID *string   `json:"related_employee_id,omitempty"`
	Items             []itemRow `json:"items,omitempty"`
}

func (r transactionRow) toDomain() boutik.Transaction {
	tx := boutik.Transaction{
		ID:          r.ID,
		Date:        r.Date,
		Kind:        boutik.TransactionKind(r.Type),
		Amount:      boutik.Money(r.Amount),
		Description: r.Description,
		Method:      boutik.PaymentMethod(r.Method),
		Status:      boutik.Status(r.Status),
		Synced:      true,
	}
	if r.RelatedClientID != nil {
		tx.RelatedClientID = *r.RelatedClientID
	}
	if r.RelatedEmployeeID != nil {
		tx.RelatedEmployeeID = *r.RelatedEmployeeID
	}
	for _, it := range r.Items {
		tx.Items = append(tx.Items, it.toDomain())
	}
	return tx
}

func transactionToRow(tx boutik.Transaction) transactionRow {
	row := transactionRow{
		Date:        tx.Date,
		Type:        string(tx.Kind),
		Amount:      int64(tx.Amount),
		Description: tx.Description,
		Method:      string(tx.Method),
		Status:      string(tx.Status),
	}
	if tx.RelatedClientID != "" {
		row.RelatedClientID = &tx.RelatedClientID
	}
	if tx.RelatedEmployeeID != "" {
		row.RelatedEmployeeID = &tx.RelatedEmployeeID
	}
	return row
}

type itemRow struct {
	TransactionID string `json:"transaction_id,omitempty"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unit_price"`
}

func (r itemRow) toDomain() boutik.LineItem {
	return boutik.LineItem{
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		UnitPrice:   boutik.Money(r.UnitPrice),
	}
}

type movementRow struct {
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Date           time.Time `json:"date"`
	QuantityChange int       `json:"quantity_change"`
	Reason         string    `json:"reason"`
	AuthorName     string    `json:"author_name"`
}
