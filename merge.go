package boutik

import "sort"

// RemoteData carries whatever collections a reconciliation pass managed to
// fetch. A false Has flag means the fetch failed and the collection must be
// left alone; partial success across collections is the normal case.
type RemoteData struct {
	Products     []Product
	Clients      []Client
	Employees    []Employee
	Transactions []Transaction

	HasProducts     bool
	HasClients      bool
	HasEmployees    bool
	HasTransactions bool
}

// Merge folds remote collections into the local snapshot.
//
// Products, clients and employees are replaced wholesale by the remote
// rows. Transactions are unioned instead: locally-unsynced transactions
// survive in front of the remote ones, sorted by date descending. A sale
// recorded offline is never silently dropped because the cloud has since
// advanced.
//
// After replacing employees, the bootstrap admin is re-inserted if the
// incoming set lost it, so the last administrator can never be locked out.
//
// Merge mutates the snapshot in place; callers apply it under the same
// serialization as every other mutation so readers never observe a
// half-merged state.
func Merge(local *Snapshot, remote RemoteData) {
	if remote.HasProducts {
		local.Products = remote.Products
	}
	if remote.HasClients {
		local.Clients = remote.Clients
	}
	if remote.HasEmployees {
		local.Employees = remote.Employees
	}
	if remote.HasTransactions {
		var unsynced []Transaction
		for _, tx := range local.Transactions {
			if !tx.Synced {
				unsynced = append(unsynced, tx)
			}
		}
		merged := append(unsynced, remote.Transactions...)
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].Date.After(merged[j].Date)
		})
		local.Transactions = merged
	}

	if local.FindEmployeeByUsername(BootstrapUsername) == nil {
		local.Employees = append(local.Employees, SeedAdmin())
	}
}
