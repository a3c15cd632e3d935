package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/storage"
)

// CreateInvoice persists the invoice with its debt records and marks the
// contributing bills settled, all in one transaction. A bill that is
// already settled aborts the transaction, which is the at-most-once guard
// against double-counting a bill in two invoices.
func (s *SQLiteStore) CreateInvoice(ctx context.Context, invoice *models.Invoice, billIDs []string) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if invoice.CreatedAt == 0 {
		invoice.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (id, group_id, date_start, date_end, total_bills, total_amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID, invoice.GroupID, invoice.DateStart, invoice.DateEnd,
		invoice.TotalBills, invoice.TotalAmount, invoice.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	for i := range invoice.Records {
		rec := &invoice.Records[i]
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		rec.InvoiceID = invoice.ID

		_, err = tx.ExecContext(ctx,
			`INSERT INTO debt_records (id, invoice_id, debtor_id, debtee_id, nominal, is_paid, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, invoice.ID, rec.DebtorID, rec.DebteeID, rec.Nominal, rec.IsPaid, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt record: %w", err)
		}
	}

	for _, billID := range billIDs {
		res, err := tx.ExecContext(ctx,
			"UPDATE bills SET status = 'settled' WHERE id = ? AND status != 'settled'",
			billID,
		)
		if err != nil {
			return fmt.Errorf("failed to settle bill: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to settle bill: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("bill %s already settled or missing", billID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetInvoice retrieves an invoice with its records, debtor/debtee names
// resolved from the users table.
func (s *SQLiteStore) GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, date_start, date_end, total_bills, total_amount, created_at
		 FROM invoices WHERE id = ?`,
		invoiceID,
	).Scan(&invoice.ID, &invoice.GroupID, &invoice.DateStart, &invoice.DateEnd,
		&invoice.TotalBills, &invoice.TotalAmount, &invoice.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: invoice %s", storage.ErrNotFound, invoiceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if err := s.loadRecords(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *SQLiteStore) loadRecords(ctx context.Context, invoice *models.Invoice) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.debtor_id, COALESCE(du.display_name, r.debtor_id),
		        r.debtee_id, COALESCE(cu.display_name, r.debtee_id),
		        r.nominal, r.is_paid
		 FROM debt_records r
		 LEFT JOIN users du ON du.id = r.debtor_id
		 LEFT JOIN users cu ON cu.id = r.debtee_id
		 WHERE r.invoice_id = ? ORDER BY r.position`,
		invoice.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get debt records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec := models.DebtRecord{InvoiceID: invoice.ID}
		if err := rows.Scan(&rec.ID, &rec.DebtorID, &rec.DebtorName,
			&rec.DebteeID, &rec.DebteeName, &rec.Nominal, &rec.IsPaid); err != nil {
			return fmt.Errorf("failed to scan debt record: %w", err)
		}
		invoice.Records = append(invoice.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate debt records: %w", err)
	}
	return nil
}

// ListInvoicesByGroup retrieves all invoices for a group, newest first.
func (s *SQLiteStore) ListInvoicesByGroup(ctx context.Context, groupID string) ([]*models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM invoices WHERE group_id = ? ORDER BY created_at DESC, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan invoice id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	invoices := make([]*models.Invoice, 0, len(ids))
	for _, id := range ids {
		invoice, err := s.GetInvoice(ctx, id)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, nil
}

// SetRecordPaid flips a debt record's paid flag and returns the updated
// record.
func (s *SQLiteStore) SetRecordPaid(ctx context.Context, recordID string, paid bool) (*models.DebtRecord, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE debt_records SET is_paid = ? WHERE id = ?", paid, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to update debt record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update debt record: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: debt record %s", storage.ErrNotFound, recordID)
	}

	rec := &models.DebtRecord{ID: recordID}
	err = s.db.QueryRowContext(ctx,
		`SELECT invoice_id, debtor_id, debtee_id, nominal, is_paid
		 FROM debt_records WHERE id = ?`,
		recordID,
	).Scan(&rec.InvoiceID, &rec.DebtorID, &rec.DebteeID, &rec.Nominal, &rec.IsPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to reload debt record: %w", err)
	}
	return rec, nil
}
