package boutik

import (
	"fmt"
	"io"
)

// This file handles the backup format. It is a byte-for-byte dump of the
// local document, so it stays human readable and trivially re-importable.

// ExportSnapshot writes the snapshot to 'w' in the backup format.
func ExportSnapshot(w io.Writer, s *Snapshot) error {
	return EncodeSnapshot(w, s)
}

// ImportSnapshot reads a backup from 'r' and validates it before anything
// destructive happens. A backup is acceptable only if it carries non-empty
// employees and transactions collections; anything else is rejected and
// the caller's current data stays untouched.
func ImportSnapshot(r io.Reader) (*Snapshot, error) {
	snap, err := DecodeSnapshot(r)
	if err != nil {
		return nil, fmt.Errorf("invalid backup file: %w", err)
	}
	if len(snap.Employees) == 0 {
		return nil, fmt.Errorf("invalid backup file: no employees")
	}
	if len(snap.Transactions) == 0 {
		return nil, fmt.Errorf("invalid backup file: no transactions")
	}
	return snap, nil
}
