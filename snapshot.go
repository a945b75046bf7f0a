package boutik

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Snapshot is the whole business state at one instant. It is the unit of
// local persistence and the unit the merge engine operates on.
type Snapshot struct {
	CashBalance        Money           `json:"cashBalance"`
	MobileMoneyBalance Money           `json:"mobileMoneyBalance"`
	Transactions       []Transaction   `json:"transactions"`
	Products           []Product       `json:"products"`
	StockMovements     []StockMovement `json:"stockMovements"`
	Clients            []Client        `json:"clients"`
	Employees          []Employee      `json:"employees"`
}

// Bootstrap credentials. The admin account must always be able to log in
// locally, even when the remote store has never heard of it.
const (
	BootstrapUsername = "admin"
	BootstrapPassword = "123"
)

// FindTransaction returns the transaction with the given id, or nil.
func (s *Snapshot) FindTransaction(id string) *Transaction {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return &s.Transactions[i]
		}
	}
	return nil
}

// FindProduct returns the product with the given id, or nil.
func (s *Snapshot) FindProduct(id string) *Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

// FindClient returns the client with the given id, or nil.
func (s *Snapshot) FindClient(id string) *Client {
	for i := range s.Clients {
		if s.Clients[i].ID == id {
			return &s.Clients[i]
		}
	}
	return nil
}

// FindClientByName returns the client with the given name, compared
// case-insensitively, or nil.
func (s *Snapshot) FindClientByName(name string) *Client {
	for i := range s.Clients {
		if strings.EqualFold(s.Clients[i].Name, name) {
			return &s.Clients[i]
		}
	}
	return nil
}

// FindEmployee returns the employee with the given id, or nil.
func (s *Snapshot) FindEmployee(id string) *Employee {
	for i := range s.Employees {
		if s.Employees[i].ID == id {
			return &s.Employees[i]
		}
	}
	return nil
}

// FindEmployeeByUsername returns the employee with the given username,
// compared case-insensitively, or nil.
func (s *Snapshot) FindEmployeeByUsername(username string) *Employee {
	for i := range s.Employees {
		if strings.EqualFold(s.Employees[i].Username, username) {
			return &s.Employees[i]
		}
	}
	return nil
}

// TotalDebt sums the outstanding debt across all clients.
func (s *Snapshot) TotalDebt() Money {
	var total Money
	for _, c := range s.Clients {
		total += c.TotalDebt
	}
	return total
}

// Clone returns a deep copy of the snapshot, safe to hand out to readers
// while mutations continue on the original.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		CashBalance:        s.CashBalance,
		MobileMoneyBalance: s.MobileMoneyBalance,
		Transactions:       make([]Transaction, len(s.Transactions)),
		Products:           append([]Product(nil), s.Products...),
		StockMovements:     append([]StockMovement(nil), s.StockMovements...),
		Clients:            append([]Client(nil), s.Clients...),
		Employees:          make([]Employee, len(s.Employees)),
	}
	for i, tx := range s.Transactions {
		tx.Items = append([]LineItem(nil), tx.Items...)
		out.Transactions[i] = tx
	}
	for i, e := range s.Employees {
		e.AccessRights = append([]AccessRight(nil), e.AccessRights...)
		out.Employees[i] = e
	}
	return out
}

// SeedAdmin returns the bootstrap admin record inserted whenever the
// account would otherwise be missing.
func SeedAdmin() Employee {
	return Employee{
		ID:            "e1",
		Name:          "Ibrahim S.",
		Role:          "Gérant",
		Username:      BootstrapUsername,
		CredentialRef: hashCredential(BootstrapPassword),
		Salary:        100000,
		AdvancesTaken: 10000,
		IsPresent:     true,
		AccessRights:  []AccessRight{RightCompta, RightStock, RightRH, RightAdmin},
	}
}

// SeedSnapshot returns the default state used when no local document exists
// yet, or when the stored one cannot be read.
func SeedSnapshot() *Snapshot {
	now := time.Now()
	return &Snapshot{
		CashBalance:        150000,
		MobileMoneyBalance: 325000,
		Transactions: []Transaction{
			{
				ID:          "tx1",
				Date:        now.Add(-24 * time.Hour),
				Kind:        Income,
				Amount:      50000,
				Description: "Vente journalière",
				Method:      Cash,
				Status:      Settled,
				Synced:      true,
			},
			{
				ID:          "tx2",
				Date:        now.Add(-33 * time.Hour),
				Kind:        Expense,
				Amount:      15000,
				Description: "Facture Électricité",
				Method:      MobileMoney,
				Status:      Settled,
				Synced:      true,
			},
		},
		Products: []Product{
			{ID: "p1", Name: "Sac de Riz (50kg)", Category: "Alimentaire", Price: 22000, StockLevel: 45, MinStockLevel: 10},
			{ID: "p2", Name: "Bidon Huile (20L)", Category: "Alimentaire", Price: 18000, StockLevel: 8, MinStockLevel: 15},
			{ID: "p3", Name: "Carton Savon", Category: "Hygiène", Price: 8500, StockLevel: 120, MinStockLevel: 20},
		},
		StockMovements: []StockMovement{},
		Clients: []Client{
			{ID: "c1", Name: "Moussa Traoré", Phone: "+225 07070701", TotalDebt: 15000},
			{ID: "c2", Name: "Fatou Diop", Phone: "+221 77000000", TotalDebt: 0},
		},
		Employees: []Employee{
			SeedAdmin(),
			{
				ID:            "e2",
				Name:          "Amina K.",
				Role:          "Caissière",
				Username:      "amina",
				CredentialRef: hashCredential("000"),
				Salary:        80000,
				IsPaid:        true,
				IsPresent:     true,
				AccessRights:  []AccessRight{RightCompta},
			},
		},
	}
}

// hashCredential derives the stored credential reference from a plain
// password.
func hashCredential(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// Only possible for absurdly long passwords.
		return ""
	}
	return string(hash)
}

// checkCredential reports whether the password matches the stored
// credential reference.
func checkCredential(ref, password string) bool {
	if ref == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(ref), []byte(password)) == nil
}
