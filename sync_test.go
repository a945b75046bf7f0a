package boutik

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSynchronizeMergesRemoteState(t *testing.T) {
	remote := newFakeRemote()
	remote.listProducts = func() ([]Product, error) {
		return []Product{{ID: "p-srv", Name: "Sucre (sac)", Price: 30000, StockLevel: 12, MinStockLevel: 5}}, nil
	}
	remote.listTransactions = func() ([]Transaction, error) {
		return []Transaction{{ID: "t-srv", Date: time.Now(), Kind: Income, Amount: 8000, Method: Cash, Status: Settled, Synced: true}}, nil
	}
	remote.listClients = func() ([]Client, error) { return []Client{}, nil }
	remote.listEmployees = func() ([]Employee, error) { return []Employee{}, nil }
	app := newTestApp(t, remote)

	// an offline sale recorded before the sync
	_, err := app.AddTransaction(context.Background(), NewTransaction{
		Kind: Income, Amount: 2000, Description: "hors ligne", Method: Cash,
	})
	if err != nil {
		t.Fatal(err)
	}
	app.Wait() // the fake accepts it, marking it synced under a server id

	if err := app.Synchronize(context.Background()); err != nil {
		t.Fatal(err)
	}

	snap := app.View()
	if snap.FindProduct("p-srv") == nil || snap.FindProduct("p1") != nil {
		t.Error("products were not replaced by the remote catalogue")
	}
	if snap.FindTransaction("t-srv") == nil {
		t.Error("remote transaction missing after sync")
	}
	if snap.FindEmployeeByUsername(BootstrapUsername) == nil {
		t.Error("bootstrap admin lost in sync against an empty employees table")
	}
}

func TestSynchronizeKeepsOfflineSales(t *testing.T) {
	remote := newFakeRemote()
	remote.insertTransaction = func(Transaction) (Transaction, error) {
		return Transaction{}, errors.New("offline")
	}
	remote.listTransactions = func() ([]Transaction, error) {
		return []Transaction{}, nil
	}
	app := newTestApp(t, remote)

	sale, err := app.AddTransaction(context.Background(), NewTransaction{
		Kind: Income, Amount: 2000, Description: "hors ligne", Method: Cash,
	})
	if err != nil {
		t.Fatal(err)
	}
	app.Wait()

	if err := app.Synchronize(context.Background()); err != nil {
		t.Fatal(err)
	}
	if app.View().FindTransaction(sale.ID) == nil {
		t.Error("unsynced offline sale dropped by the merge")
	}
}

func TestSynchronizeSkipsFailedCollections(t *testing.T) {
	remote := newFakeRemote()
	remote.listProducts = func() ([]Product, error) { return nil, errors.New("products table down") }
	remote.listClients = func() ([]Client, error) { return []Client{{ID: "c-srv", Name: "Awa"}}, nil }
	app := newTestApp(t, remote)

	err := app.Synchronize(context.Background())
	if err == nil {
		t.Fatal("partial failure should be reported")
	}

	snap := app.View()
	if snap.FindProduct("p1") == nil {
		t.Error("local products touched although the fetch failed")
	}
	if snap.FindClient("c-srv") == nil {
		t.Error("successfully fetched clients not merged")
	}
}

func TestSynchronizeOfflineMode(t *testing.T) {
	app := newTestApp(t, nil)
	if err := app.Synchronize(context.Background()); err == nil {
		t.Error("local-only application should refuse to synchronize")
	}
}
