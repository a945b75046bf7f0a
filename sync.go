package boutik

import (
	"context"
	"errors"
	"fmt"
)

// Synchronize fetches every collection from the remote store and folds
// the result into the local snapshot. Each collection is fetched
// independently: a failed fetch leaves that collection untouched locally
// while the others still reconcile. The returned error reports the
// collections that could not be fetched; a partially successful pass is
// not a failure.
func (a *App) Synchronize(ctx context.Context) error {
	if a.remote == nil {
		return errors.New("mode hors ligne: aucune synchronisation possible")
	}

	var (
		data RemoteData
		errs error
	)

	if products, err := a.remote.ListProducts(ctx); err != nil {
		errs = errors.Join(errs, fmt.Errorf("products: %w", err))
	} else {
		data.Products, data.HasProducts = products, true
	}
	if clients, err := a.remote.ListClients(ctx); err != nil {
		errs = errors.Join(errs, fmt.Errorf("clients: %w", err))
	} else {
		data.Clients, data.HasClients = clients, true
	}
	if employees, err := a.remote.ListEmployees(ctx); err != nil {
		errs = errors.Join(errs, fmt.Errorf("employees: %w", err))
	} else {
		data.Employees, data.HasEmployees = employees, true
	}
	if transactions, err := a.remote.ListTransactions(ctx); err != nil {
		errs = errors.Join(errs, fmt.Errorf("transactions: %w", err))
	} else {
		data.Transactions, data.HasTransactions = transactions, true
	}

	if !data.HasProducts && !data.HasClients && !data.HasEmployees && !data.HasTransactions {
		return fmt.Errorf("serveur injoignable: %w", errs)
	}

	if err := a.Apply(func(s *Snapshot) { Merge(s, data) }); err != nil {
		return err
	}
	if errs != nil {
		a.log.Warnw("partial reconciliation", "err", errs)
	}
	a.log.Infow("reconciled with remote store",
		"products", data.HasProducts,
		"clients", data.HasClients,
		"employees", data.HasEmployees,
		"transactions", data.HasTransactions)
	return errs
}

// SeedRemote pushes the demo catalogue and client book to an empty remote
// store, so a fresh deployment has something to sell.
func (a *App) SeedRemote(ctx context.Context) error {
	if a.remote == nil {
		return errors.New("mode hors ligne: aucun serveur à initialiser")
	}

	seed := SeedSnapshot()
	var errs error
	for _, p := range seed.Products {
		if _, err := a.remote.InsertProduct(ctx, p); err != nil {
			errs = errors.Join(errs, fmt.Errorf("product %s: %w", p.Name, err))
		}
	}
	for _, c := range seed.Clients {
		if _, err := a.remote.InsertClient(ctx, c); err != nil {
			errs = errors.Join(errs, fmt.Errorf("client %s: %w", c.Name, err))
		}
	}
	if errs != nil {
		return errs
	}
	return a.Synchronize(ctx)
}
