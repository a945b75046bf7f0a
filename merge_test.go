package boutik

import (
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2026, 8, n, 12, 0, 0, 0, time.UTC)
}

func TestMergeKeepsUnsyncedTransactions(t *testing.T) {
	local := &Snapshot{
		Transactions: []Transaction{
			{ID: "local-1", Date: day(20), Kind: Income, Amount: 1000, Method: Cash, Status: Settled, Synced: false},
			{ID: "old-1", Date: day(10), Kind: Income, Amount: 500, Method: Cash, Status: Settled, Synced: true},
		},
		Employees: []Employee{SeedAdmin()},
	}
	remote := RemoteData{
		Transactions: []Transaction{
			{ID: "srv-2", Date: day(25), Kind: Expense, Amount: 200, Method: Cash, Status: Settled, Synced: true},
			{ID: "srv-1", Date: day(15), Kind: Income, Amount: 300, Method: Cash, Status: Settled, Synced: true},
		},
		HasTransactions: true,
	}

	Merge(local, remote)

	wantOrder := []string{"srv-2", "local-1", "srv-1"}
	if len(local.Transactions) != len(wantOrder) {
		t.Fatalf("got %d transactions, want %d", len(local.Transactions), len(wantOrder))
	}
	for i, want := range wantOrder {
		if local.Transactions[i].ID != want {
			t.Errorf("transactions[%d] = %s, want %s", i, local.Transactions[i].ID, want)
		}
	}
}

func TestMergeReplacesCollectionsWholesale(t *testing.T) {
	local := &Snapshot{
		Products: []Product{{ID: "p-local", Name: "Local"}},
		Clients:  []Client{{ID: "c-local", Name: "Local"}},
	}
	remote := RemoteData{
		Products:    []Product{{ID: "p-srv", Name: "Server"}},
		HasProducts: true,
		// clients fetch failed this pass
	}

	Merge(local, remote)

	if len(local.Products) != 1 || local.Products[0].ID != "p-srv" {
		t.Errorf("products = %+v, want the server row only", local.Products)
	}
	if len(local.Clients) != 1 || local.Clients[0].ID != "c-local" {
		t.Errorf("clients = %+v, want the local rows untouched", local.Clients)
	}
}

func TestMergeRestoresBootstrapAdmin(t *testing.T) {
	local := &Snapshot{
		Employees: []Employee{SeedAdmin(), {ID: "e9", Name: "Someone", Username: "someone"}},
	}
	remote := RemoteData{
		Employees:    []Employee{}, // remote store lost everyone
		HasEmployees: true,
	}

	Merge(local, remote)

	admin := local.FindEmployeeByUsername(BootstrapUsername)
	if admin == nil {
		t.Fatal("bootstrap admin missing after merge")
	}
	if !admin.HasRight(RightAdmin) {
		t.Error("restored admin lost the ADMIN right")
	}
	if local.FindEmployee("e9") != nil {
		t.Error("remote employee replacement did not happen")
	}
}

func TestMergeKeepsRemoteAdminProfile(t *testing.T) {
	local := &Snapshot{Employees: []Employee{SeedAdmin()}}
	remoteAdmin := SeedAdmin()
	remoteAdmin.ID = "srv-admin"
	remoteAdmin.Salary = 120000
	remote := RemoteData{Employees: []Employee{remoteAdmin}, HasEmployees: true}

	Merge(local, remote)

	if len(local.Employees) != 1 {
		t.Fatalf("got %d employees, want 1", len(local.Employees))
	}
	if local.Employees[0].ID != "srv-admin" {
		t.Error("remote admin profile was not preferred over the seed")
	}
}
