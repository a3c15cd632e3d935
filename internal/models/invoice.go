package models

// DebtRecord is one normalized settlement entry: debtor owes debtee a
// positive amount. IsPaid is the only field mutable after the enclosing
// invoice is generated.
type DebtRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// InvoiceID is the enclosing invoice, empty for preview summaries.
	InvoiceID string

	// DebtorID / DebtorName identify who owes.
	DebtorID   string
	DebtorName string

	// DebteeID / DebteeName identify who is owed.
	DebteeID   string
	DebteeName string

	// Nominal is the owed amount in smallest currency units, always > 0.
	Nominal int64

	// IsPaid marks the debt as settled by an out-of-band payment.
	IsPaid bool
}

// Invoice is an immutable snapshot of the netted debts for a group over a
// date range. Everything except the records' IsPaid flags is frozen at
// generation time.
type Invoice struct {
	// ID is the unique identifier for the invoice (UUID format).
	ID string

	// GroupID is the group this invoice belongs to.
	GroupID string

	// DateStart / DateEnd bound the creation times of the contributing
	// bills (Unix timestamps, inclusive).
	DateStart int64
	DateEnd   int64

	// TotalBills is the number of bills folded into this invoice.
	TotalBills int

	// TotalAmount is the sum of all record nominals.
	TotalAmount int64

	// Records are the netted debts, ordered by the earliest contributing
	// bill's creation time.
	Records []DebtRecord

	// CreatedAt is the Unix timestamp when the invoice was generated.
	CreatedAt int64
}

// RecordCount returns the number of debt records.
func (inv *Invoice) RecordCount() int {
	return len(inv.Records)
}
