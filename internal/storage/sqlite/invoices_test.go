package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/storage"
)

func TestInvoiceStorage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")
	group := seedGroup(t, store, "Trip", alice, bob)

	seedBill := func(t *testing.T) *models.Bill {
		t.Helper()
		bill, err := models.NewBill(group.ID, "lunch", alice.ID, []models.BillItem{
			{Name: "rice", Quantity: 1, UnitPrice: 10000, AssignedTo: []string{bob.ID}},
		}, 0, 0, 0)
		if err != nil {
			t.Fatalf("NewBill() error = %v", err)
		}
		bill.Status = models.StatusAssigned
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill() error = %v", err)
		}
		return bill
	}

	t.Run("create settles bills atomically", func(t *testing.T) {
		bill := seedBill(t)
		invoice := &models.Invoice{
			GroupID:     group.ID,
			DateStart:   bill.CreatedAt,
			DateEnd:     bill.CreatedAt,
			TotalBills:  1,
			TotalAmount: 10000,
			Records: []models.DebtRecord{
				{DebtorID: bob.ID, DebteeID: alice.ID, Nominal: 10000},
			},
		}
		if err := store.CreateInvoice(ctx, invoice, []string{bill.ID}); err != nil {
			t.Fatalf("CreateInvoice() error = %v", err)
		}

		got, err := store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill() error = %v", err)
		}
		if got.Status != models.StatusSettled {
			t.Errorf("bill status = %s after invoice, want settled", got.Status)
		}

		loaded, err := store.GetInvoice(ctx, invoice.ID)
		if err != nil {
			t.Fatalf("GetInvoice() error = %v", err)
		}
		if loaded.TotalAmount != 10000 || loaded.TotalBills != 1 {
			t.Errorf("invoice = %+v", loaded)
		}
		if len(loaded.Records) != 1 {
			t.Fatalf("got %d records, want 1", len(loaded.Records))
		}
		rec := loaded.Records[0]
		if rec.DebtorName != "Bob" || rec.DebteeName != "Alice" {
			t.Errorf("record names = %s -> %s, want Bob -> Alice", rec.DebtorName, rec.DebteeName)
		}
		if rec.IsPaid {
			t.Error("new record marked paid")
		}
	})

	t.Run("settled bill cannot be invoiced again", func(t *testing.T) {
		bill := seedBill(t)
		first := &models.Invoice{GroupID: group.ID, TotalBills: 1, TotalAmount: 10000}
		if err := store.CreateInvoice(ctx, first, []string{bill.ID}); err != nil {
			t.Fatalf("first CreateInvoice() error = %v", err)
		}

		second := &models.Invoice{GroupID: group.ID, TotalBills: 1, TotalAmount: 10000}
		if err := store.CreateInvoice(ctx, second, []string{bill.ID}); err == nil {
			t.Fatal("second CreateInvoice() succeeded, want error")
		}
		// The failed attempt must leave nothing behind.
		if _, err := store.GetInvoice(ctx, second.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetInvoice() after rollback error = %v, want ErrNotFound", err)
		}
	})

	t.Run("list by group newest first", func(t *testing.T) {
		invoices, err := store.ListInvoicesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListInvoicesByGroup() error = %v", err)
		}
		if len(invoices) != 2 {
			t.Fatalf("got %d invoices, want 2", len(invoices))
		}
		for i := 1; i < len(invoices); i++ {
			if invoices[i-1].CreatedAt < invoices[i].CreatedAt {
				t.Errorf("invoices out of order: %d before %d", invoices[i-1].CreatedAt, invoices[i].CreatedAt)
			}
		}
	})

	t.Run("mark record paid", func(t *testing.T) {
		invoices, _ := store.ListInvoicesByGroup(ctx, group.ID)
		var rec models.DebtRecord
		for _, inv := range invoices {
			if len(inv.Records) > 0 {
				rec = inv.Records[0]
				break
			}
		}
		if rec.ID == "" {
			t.Fatal("no debt record found to flip")
		}

		updated, err := store.SetRecordPaid(ctx, rec.ID, true)
		if err != nil {
			t.Fatalf("SetRecordPaid() error = %v", err)
		}
		if !updated.IsPaid {
			t.Error("record not marked paid")
		}

		updated, err = store.SetRecordPaid(ctx, rec.ID, false)
		if err != nil {
			t.Fatalf("SetRecordPaid() unpay error = %v", err)
		}
		if updated.IsPaid {
			t.Error("record still marked paid after unpay")
		}
	})

	t.Run("mark missing record", func(t *testing.T) {
		_, err := store.SetRecordPaid(ctx, "no-such-record", true)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("SetRecordPaid() error = %v, want ErrNotFound", err)
		}
	})
}
