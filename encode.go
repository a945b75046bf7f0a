package boutik

import (
	"encoding/json"
	"fmt"
	"io"
)

// This file defines the canonical encoding of the local document: one JSON
// object, fixed field order, so that saving, exporting and re-importing the
// same state produce byte-identical output.

// MarshalJSON implements the json.Marshaler interface for Transaction,
// keeping the field order canonical and omitting the optional references.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("date", t.Date)
	w.Append("type", t.Kind)
	w.Append("amount", t.Amount)
	w.Append("description", t.Description)
	w.Append("method", t.Method)
	w.Append("status", t.Status)
	w.Optional("relatedClientId", t.RelatedClientID)
	w.Optional("relatedEmployeeId", t.RelatedEmployeeID)
	w.Optional("items", t.Items)
	w.Append("synced", t.Synced)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Employee.
func (e Employee) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Optional("authUserId", e.AuthUserID)
	w.Append("name", e.Name)
	w.Append("role", e.Role)
	w.Append("username", e.Username)
	w.Optional("credentialRef", e.CredentialRef)
	w.Append("salary", e.Salary)
	w.Append("advancesTaken", e.AdvancesTaken)
	w.Append("isPaid", e.IsPaid)
	w.Append("isPresent", e.IsPresent)
	w.Optional("photoRef", e.PhotoRef)
	w.Append("accessRights", nonNilRights(e.AccessRights))
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for Snapshot. The
// top-level fields match the snapshot entity exactly; collections are
// always encoded as arrays, never null.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("cashBalance", s.CashBalance)
	w.Append("mobileMoneyBalance", s.MobileMoneyBalance)
	w.Append("transactions", nonNil(s.Transactions))
	w.Append("products", nonNil(s.Products))
	w.Append("stockMovements", nonNil(s.StockMovements))
	w.Append("clients", nonNil(s.Clients))
	w.Append("employees", nonNil(s.Employees))
	return w.MarshalJSON()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func nonNilRights(s []AccessRight) []AccessRight { return nonNil(s) }

// EncodeSnapshot writes the snapshot to w in the canonical document
// format.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal snapshot: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads one snapshot document from r. Unknown fields are
// ignored and missing fields keep their zero value, since there is no
// migration mechanism: old documents must always remain readable.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("cannot decode snapshot document: %w", err)
	}
	return &s, nil
}
