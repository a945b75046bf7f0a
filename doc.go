// Package boutik implements the offline-first core of a small-business
// manager: a durable local snapshot of the whole business state (cash
// ledger, inventory, clients, payroll), optimistic mutations that apply
// locally before any network round-trip, and a reconciliation pass that
// merges remote data back in without ever dropping an unsynced local write.
//
// The package is organised around a single owned [Snapshot]. All mutations
// go through [App.Apply], which always operates on the latest snapshot and
// persists it write-through. Balances are only ever touched by deltas
// computed with [ComputeDelta]; no other code path mutates them.
package boutik
