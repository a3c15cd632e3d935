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

// CreateBill persists a bill with its items and assignments.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Status == "" {
		bill.Status = models.StatusDraft
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, group_id, title, paid_by, tax_rate, discount, service_fee, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.GroupID, bill.Title, bill.PaidBy, bill.TaxRate,
		bill.Discount, bill.ServiceFee, string(bill.Status), bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := insertItems(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, bill *models.Bill) error {
	for i := range bill.Items {
		item := &bill.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO bill_items (id, bill_id, name, quantity, unit_price, position) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, bill.ID, item.Name, item.Quantity, item.UnitPrice, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for j, memberID := range item.AssignedTo {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO item_assignments (item_id, member_id, position) VALUES (?, ?, ?)",
				item.ID, memberID, j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}
	return nil
}

// GetBill retrieves a bill with items and assignments in stored order.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, title, paid_by, tax_rate, discount, service_fee, status, created_at
		 FROM bills WHERE id = ?`,
		billID,
	).Scan(&bill.ID, &bill.GroupID, &bill.Title, &bill.PaidBy, &bill.TaxRate,
		&bill.Discount, &bill.ServiceFee, &status, &bill.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: bill %s", storage.ErrNotFound, billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.Status = models.BillStatus(status)

	if err := s.loadItems(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *SQLiteStore) loadItems(ctx context.Context, bill *models.Bill) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, quantity, unit_price FROM bill_items WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.BillItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		bill.Items = append(bill.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	for i := range bill.Items {
		item := &bill.Items[i]
		assignRows, err := s.db.QueryContext(ctx,
			"SELECT member_id FROM item_assignments WHERE item_id = ? ORDER BY position",
			item.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get item assignments: %w", err)
		}
		for assignRows.Next() {
			var memberID string
			if err := assignRows.Scan(&memberID); err != nil {
				assignRows.Close()
				return fmt.Errorf("failed to scan assignment: %w", err)
			}
			item.AssignedTo = append(item.AssignedTo, memberID)
		}
		if err := assignRows.Err(); err != nil {
			assignRows.Close()
			return fmt.Errorf("failed to iterate assignments: %w", err)
		}
		assignRows.Close()
	}
	return nil
}

// UpdateBill replaces a bill's fields, items and assignments.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE bills SET title = ?, paid_by = ?, tax_rate = ?, discount = ?, service_fee = ?, status = ?
		 WHERE id = ?`,
		bill.Title, bill.PaidBy, bill.TaxRate, bill.Discount, bill.ServiceFee,
		string(bill.Status), bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: bill %s", storage.ErrNotFound, bill.ID)
	}

	// Items are replaced wholesale; assignment rows cascade.
	if _, err := tx.ExecContext(ctx, "DELETE FROM bill_items WHERE bill_id = ?", bill.ID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	for i := range bill.Items {
		// Force fresh item ids so stale assignment rows can never attach.
		bill.Items[i].ID = ""
	}
	if err := insertItems(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteBill removes a bill; items and assignments cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: bill %s", storage.ErrNotFound, billID)
	}
	return nil
}

// ListBillsByGroup retrieves all bills for a group, newest first.
func (s *SQLiteStore) ListBillsByGroup(ctx context.Context, groupID string) ([]*models.Bill, error) {
	return s.listBills(ctx,
		"SELECT id FROM bills WHERE group_id = ? ORDER BY created_at DESC, id", groupID)
}

// ListUnsettledBillsByGroup retrieves the bills not yet frozen into an
// invoice, oldest first so summaries read chronologically.
func (s *SQLiteStore) ListUnsettledBillsByGroup(ctx context.Context, groupID string) ([]*models.Bill, error) {
	return s.listBills(ctx,
		"SELECT id FROM bills WHERE group_id = ? AND status != 'settled' ORDER BY created_at, id", groupID)
}

func (s *SQLiteStore) listBills(ctx context.Context, query, groupID string) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bill id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	bills := make([]*models.Bill, 0, len(ids))
	for _, id := range ids {
		bill, err := s.GetBill(ctx, id)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, nil
}
