package boutik

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// This file implements the optimistic mutation path: every user-initiated
// write lands in the local snapshot first, durably, and only then is the
// matching remote write attempted in the background. For plain data writes
// a remote failure is logged and left to the next reconciliation pass; the
// local copy already won.

// NewTransaction is the input for recording a transaction.
type NewTransaction struct {
	Kind              TransactionKind
	Amount            Money
	Description       string
	Method            PaymentMethod
	Status            Status // empty means settled
	RelatedClientID   string
	RelatedEmployeeID string
	Items             []LineItem
}

// AddTransaction records a transaction optimistically.
//
// The transaction is created with a temporary local id and synced=false.
// If it is settled, its delta is applied to the balances. Line items
// decrement stock and append to the audit trail immediately, whatever the
// settlement status: the goods leave the shelf even when the invoice is
// still open.
func (a *App) AddTransaction(ctx context.Context, in NewTransaction) (Transaction, error) {
	if in.Amount <= 0 {
		return Transaction{}, fmt.Errorf("invalid amount: %d", in.Amount)
	}
	if _, err := ParseTransactionKind(string(in.Kind)); err != nil {
		return Transaction{}, err
	}
	if _, err := ParsePaymentMethod(string(in.Method)); err != nil {
		return Transaction{}, err
	}

	status := in.Status
	if status == "" {
		status = Settled
	}

	now := time.Now()
	tx := Transaction{
		ID:                uuid.NewString(),
		Date:              now,
		Kind:              in.Kind,
		Amount:            in.Amount,
		Description:       in.Description,
		Method:            in.Method,
		Status:            status,
		RelatedClientID:   in.RelatedClientID,
		RelatedEmployeeID: in.RelatedEmployeeID,
		Items:             in.Items,
		Synced:            false,
	}

	author := a.authorName()
	reason := "Vente"
	if status == Pending {
		reason = "Vente (facture en attente)"
	}

	err := a.Apply(func(s *Snapshot) {
		s.Transactions = append([]Transaction{tx}, s.Transactions...)
		s.applyDelta(TransactionDelta(tx))

		if tx.Kind == DebtPayment && tx.RelatedClientID != "" {
			if c := s.FindClient(tx.RelatedClientID); c != nil {
				c.TotalDebt -= tx.Amount
				if c.TotalDebt < 0 {
					c.TotalDebt = 0
				}
			}
		}

		for _, item := range tx.Items {
			if p := s.FindProduct(item.ProductID); p != nil {
				p.StockLevel -= item.Quantity
			}
			s.StockMovements = append(s.StockMovements, StockMovement{
				ID:             uuid.NewString(),
				ProductID:      item.ProductID,
				ProductName:    item.ProductName,
				Date:           now,
				QuantityChange: -item.Quantity,
				Reason:         reason,
				AuthorName:     author,
			})
		}
	})
	if err != nil {
		return Transaction{}, err
	}

	tempID := tx.ID
	a.background("transaction.insert", func(ctx context.Context) error {
		return a.pushTransaction(ctx, tempID, tx, reason, author)
	})

	return tx, nil
}

// pushTransaction is the remote half of AddTransaction: insert the row,
// adopt the server id, then best-effort per line item insert the item,
// adjust stock and append the movement. A failure on one item never stops
// the others.
func (a *App) pushTransaction(ctx context.Context, tempID string, tx Transaction, reason, author string) error {
	saved, err := a.remote.InsertTransaction(ctx, tx)
	if err != nil {
		return err
	}

	if applyErr := a.Apply(func(s *Snapshot) {
		if local := s.FindTransaction(tempID); local != nil {
			local.ID = saved.ID
			local.Synced = true
		}
	}); applyErr != nil {
		return applyErr
	}

	if len(tx.Items) == 0 {
		return nil
	}

	var errs error
	if err := a.remote.InsertTransactionItems(ctx, saved.ID, tx.Items); err != nil {
		errs = errors.Join(errs, fmt.Errorf("items of %s: %w", saved.ID, err))
	}
	for _, item := range tx.Items {
		if err := a.remote.AdjustProductStock(ctx, item.ProductID, -item.Quantity); err != nil {
			errs = errors.Join(errs, fmt.Errorf("stock of %s: %w", item.ProductID, err))
			continue
		}
		if err := a.remote.InsertStockMovement(ctx, StockMovement{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Date:           tx.Date,
			QuantityChange: -item.Quantity,
			Reason:         reason,
			AuthorName:     author,
		}); err != nil {
			errs = errors.Join(errs, fmt.Errorf("movement of %s: %w", item.ProductID, err))
		}
	}
	return errs
}

// SettleTransaction confirms payment of a pending transaction with the
// method actually used. Settling twice is a no-op.
func (a *App) SettleTransaction(ctx context.Context, id string, confirmedMethod PaymentMethod) (Transaction, error) {
	var (
		settled  Transaction
		changed  bool
		recorded PaymentMethod
	)
	err := a.Apply(func(s *Snapshot) {
		if tx := s.FindTransaction(id); tx != nil {
			recorded = tx.Method
		}
		settled, changed = s.Settle(id, confirmedMethod)
	})
	if err != nil {
		return Transaction{}, err
	}
	if !changed {
		return Transaction{}, nil
	}
	if confirmedMethod != "" && recorded != confirmedMethod {
		a.log.Infow("settled with a different method than recorded",
			"id", id, "recorded", recorded, "confirmed", confirmedMethod)
	}

	a.background("transaction.settle", func(ctx context.Context) error {
		return a.remote.UpdateTransactionStatus(ctx, settled.ID, Settled, settled.Method)
	})
	return settled, nil
}

// AdjustStock changes a product's stock level and appends the matching
// audit trail entry. The stock level and the movement are written in one
// apply step so the two can never diverge.
func (a *App) AdjustStock(ctx context.Context, productID string, change int, reason string) error {
	if reason == "" {
		reason = "Ajustement manuel"
	}

	var (
		name  string
		found bool
	)
	movement := StockMovement{
		ID:             uuid.NewString(),
		ProductID:      productID,
		Date:           time.Now(),
		QuantityChange: change,
		Reason:         reason,
		AuthorName:     a.authorName(),
	}
	err := a.Apply(func(s *Snapshot) {
		p := s.FindProduct(productID)
		if p == nil {
			return
		}
		found = true
		name = p.Name
		p.StockLevel += change
		movement.ProductName = name
		s.StockMovements = append(s.StockMovements, movement)
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("unknown product: %q", productID)
	}

	a.background("stock.adjust", func(ctx context.Context) error {
		if err := a.remote.AdjustProductStock(ctx, productID, change); err != nil {
			return err
		}
		return a.remote.InsertStockMovement(ctx, movement)
	})
	return nil
}

// AddProduct creates a product optimistically.
func (a *App) AddProduct(ctx context.Context, p Product) (Product, error) {
	if p.Name == "" {
		return Product{}, errors.New("product name is required")
	}
	p.ID = uuid.NewString()

	err := a.Apply(func(s *Snapshot) {
		s.Products = append([]Product{p}, s.Products...)
	})
	if err != nil {
		return Product{}, err
	}

	tempID := p.ID
	a.background("product.insert", func(ctx context.Context) error {
		saved, err := a.remote.InsertProduct(ctx, p)
		if err != nil {
			return err
		}
		if saved.ID == tempID {
			return nil
		}
		return a.Apply(func(s *Snapshot) { rewriteProductID(s, tempID, saved.ID) })
	})
	return p, nil
}

// UpdateProduct applies a partial product update locally then remotely.
func (a *App) UpdateProduct(ctx context.Context, id string, u ProductUpdate) error {
	var found bool
	err := a.Apply(func(s *Snapshot) {
		p := s.FindProduct(id)
		if p == nil {
			return
		}
		found = true
		if u.Name != nil {
			p.Name = *u.Name
		}
		if u.Category != nil {
			p.Category = *u.Category
		}
		if u.Price != nil {
			p.Price = *u.Price
		}
		if u.StockLevel != nil {
			p.StockLevel = *u.StockLevel
		}
		if u.MinStockLevel != nil {
			p.MinStockLevel = *u.MinStockLevel
		}
		if u.ImageRef != nil {
			p.ImageRef = *u.ImageRef
		}
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("unknown product: %q", id)
	}

	a.background("product.update", func(ctx context.Context) error {
		return a.remote.UpdateProduct(ctx, id, u)
	})
	return nil
}

// DeleteProduct removes a product locally then remotely. The stock
// movement trail keeps the product's history.
func (a *App) DeleteProduct(ctx context.Context, id string) error {
	err := a.Apply(func(s *Snapshot) {
		for i := range s.Products {
			if s.Products[i].ID == id {
				s.Products = append(s.Products[:i], s.Products[i+1:]...)
				break
			}
		}
	})
	if err != nil {
		return err
	}

	a.background("product.delete", func(ctx context.Context) error {
		return a.remote.DeleteProduct(ctx, id)
	})
	return nil
}

// RegisterClientDebt records a credit sale's unpaid portion against a
// client, creating the client on first sight (matched by name,
// case-insensitively). The paid portion, if any, is recorded as a separate
// income.
func (a *App) RegisterClientDebt(ctx context.Context, clientName string, totalAmount, paidAmount Money) error {
	if clientName == "" {
		return errors.New("client name is required")
	}
	if paidAmount < 0 || totalAmount < paidAmount {
		return fmt.Errorf("invalid amounts: total %d, paid %d", totalAmount, paidAmount)
	}
	debt := totalAmount - paidAmount

	var (
		tempID  string
		created Client
	)
	err := a.Apply(func(s *Snapshot) {
		if existing := s.FindClientByName(clientName); existing != nil {
			existing.TotalDebt += debt
			return
		}
		created = Client{ID: uuid.NewString(), Name: clientName, TotalDebt: debt}
		tempID = created.ID
		s.Clients = append(s.Clients, created)
	})
	if err != nil {
		return err
	}

	a.background("client.debt", func(ctx context.Context) error {
		remote, err := a.remote.FindClientByName(ctx, clientName)
		if err != nil {
			return err
		}
		if remote != nil {
			return a.remote.UpdateClientDebt(ctx, remote.ID, remote.TotalDebt+debt)
		}
		saved, err := a.remote.InsertClient(ctx, Client{Name: clientName, TotalDebt: debt})
		if err != nil {
			return err
		}
		if tempID == "" || saved.ID == tempID {
			return nil
		}
		return a.Apply(func(s *Snapshot) { rewriteClientID(s, tempID, saved.ID) })
	})

	if paidAmount > 0 {
		_, err := a.AddTransaction(ctx, NewTransaction{
			Kind:        Income,
			Amount:      paidAmount,
			Description: fmt.Sprintf("Acompte Vente Crédit (%s)", clientName),
			Method:      MobileMoney,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// rewriteProductID renames a product id everywhere the snapshot refers to
// it, so server-assigned ids replace temporary ones without dangling
// references.
func rewriteProductID(s *Snapshot, old, new string) {
	if p := s.FindProduct(old); p != nil {
		p.ID = new
	}
	for i := range s.StockMovements {
		if s.StockMovements[i].ProductID == old {
			s.StockMovements[i].ProductID = new
		}
	}
	for i := range s.Transactions {
		for j := range s.Transactions[i].Items {
			if s.Transactions[i].Items[j].ProductID == old {
				s.Transactions[i].Items[j].ProductID = new
			}
		}
	}
}

// rewriteClientID renames a client id everywhere the snapshot refers to
// it.
func rewriteClientID(s *Snapshot, old, new string) {
	if c := s.FindClient(old); c != nil {
		c.ID = new
	}
	for i := range s.Transactions {
		if s.Transactions[i].RelatedClientID == old {
			s.Transactions[i].RelatedClientID = new
		}
	}
}

// rewriteEmployeeID renames an employee id everywhere the snapshot refers
// to it.
func rewriteEmployeeID(s *Snapshot, old, new string) {
	if e := s.FindEmployee(old); e != nil {
		e.ID = new
	}
	for i := range s.Transactions {
		if s.Transactions[i].RelatedEmployeeID == old {
			s.Transactions[i].RelatedEmployeeID = new
		}
	}
}
