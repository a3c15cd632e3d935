package calculator

import (
	"errors"
	"testing"

	"github.com/patungan/backend/internal/models"
)

func TestResolveBill(t *testing.T) {
	t.Run("emits one record per non-payer member", func(t *testing.T) {
		bill := mustBill(t, []models.BillItem{
			{Name: "Rice", Quantity: 2, UnitPrice: 15000, AssignedTo: []string{"alice", "bob"}},
			{Name: "Tea", Quantity: 1, UnitPrice: 8000, AssignedTo: []string{"bob"}},
		}, "alice", 0.1, 0, 0)

		records, err := ResolveBill(bill)
		if err != nil {
			t.Fatalf("ResolveBill failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		rec := records[0]
		if rec.DebtorID != "bob" || rec.DebteeID != "alice" {
			t.Errorf("record = %s owes %s, want bob owes alice", rec.DebtorID, rec.DebteeID)
		}
		if rec.Nominal != 25300 {
			t.Errorf("nominal = %d, want 25300", rec.Nominal)
		}
	})

	t.Run("no self-debt ever", func(t *testing.T) {
		bill := mustBill(t, []models.BillItem{
			{Name: "Lunch", Quantity: 1, UnitPrice: 60000, AssignedTo: []string{"alice", "bob", "carol"}},
		}, "bob", 0.1, 0, 2000)

		records, err := ResolveBill(bill)
		if err != nil {
			t.Fatalf("ResolveBill failed: %v", err)
		}
		for _, rec := range records {
			if rec.DebtorID == rec.DebteeID {
				t.Errorf("self-debt record for %s", rec.DebtorID)
			}
			if rec.DebtorID == "bob" {
				t.Errorf("payer bob emitted as debtor")
			}
			if rec.Nominal <= 0 {
				t.Errorf("non-positive nominal %d", rec.Nominal)
			}
		}
	})

	t.Run("rejects bill with unassigned items", func(t *testing.T) {
		bill := mustBill(t, []models.BillItem{
			{Name: "A", Quantity: 1, UnitPrice: 1000},
		}, "alice", 0, 0, 0)

		if _, err := ResolveBill(bill); !errors.Is(err, ErrIncompleteBill) {
			t.Errorf("error = %v, want ErrIncompleteBill", err)
		}
	})
}

func TestSummarize(t *testing.T) {
	t.Run("nets opposing debts to a single record", func(t *testing.T) {
		// Bill 1: B owes A 10000. Bill 2: A owes B 4000.
		bill1 := mustBill(t, []models.BillItem{
			{Name: "Dinner", Quantity: 1, UnitPrice: 10000, AssignedTo: []string{"B"}},
		}, "A", 0, 0, 0)
		bill1.CreatedAt = 100
		bill2 := mustBill(t, []models.BillItem{
			{Name: "Coffee", Quantity: 1, UnitPrice: 4000, AssignedTo: []string{"A"}},
		}, "B", 0, 0, 0)
		bill2.CreatedAt = 200

		summary, err := Summarize("group-1", []*models.Bill{bill1, bill2})
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		if len(summary.Records) != 1 {
			t.Fatalf("expected 1 netted record, got %d", len(summary.Records))
		}
		rec := summary.Records[0]
		if rec.DebtorID != "B" || rec.DebteeID != "A" || rec.Nominal != 6000 {
			t.Errorf("record = %s owes %s %d, want B owes A 6000", rec.DebtorID, rec.DebteeID, rec.Nominal)
		}
		if summary.TotalBills != 2 {
			t.Errorf("total bills = %d, want 2", summary.TotalBills)
		}
		if summary.TotalAmount != 6000 {
			t.Errorf("total amount = %d, want 6000", summary.TotalAmount)
		}
		if summary.DateStart != 100 || summary.DateEnd != 200 {
			t.Errorf("date range = [%d, %d], want [100, 200]", summary.DateStart, summary.DateEnd)
		}
	})

	t.Run("zero net emits nothing", func(t *testing.T) {
		bill1 := mustBill(t, []models.BillItem{
			{Name: "X", Quantity: 1, UnitPrice: 5000, AssignedTo: []string{"B"}},
		}, "A", 0, 0, 0)
		bill2 := mustBill(t, []models.BillItem{
			{Name: "Y", Quantity: 1, UnitPrice: 5000, AssignedTo: []string{"A"}},
		}, "B", 0, 0, 0)

		summary, err := Summarize("group-1", []*models.Bill{bill1, bill2})
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		if len(summary.Records) != 0 {
			t.Errorf("expected no records for a fully netted pair, got %d", len(summary.Records))
		}
	})

	t.Run("records ordered by earliest contributing bill", func(t *testing.T) {
		late := mustBill(t, []models.BillItem{
			{Name: "Late", Quantity: 1, UnitPrice: 1000, AssignedTo: []string{"carol"}},
		}, "A", 0, 0, 0)
		late.CreatedAt = 300
		early := mustBill(t, []models.BillItem{
			{Name: "Early", Quantity: 1, UnitPrice: 2000, AssignedTo: []string{"B"}},
		}, "A", 0, 0, 0)
		early.CreatedAt = 100

		summary, err := Summarize("group-1", []*models.Bill{late, early})
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		if len(summary.Records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(summary.Records))
		}
		if summary.Records[0].DebtorID != "B" {
			t.Errorf("first record debtor = %s, want B (earliest bill)", summary.Records[0].DebtorID)
		}
		if summary.Records[1].DebtorID != "carol" {
			t.Errorf("second record debtor = %s, want carol", summary.Records[1].DebtorID)
		}
	})

	t.Run("empty bill list is a benign error", func(t *testing.T) {
		if _, err := Summarize("group-1", nil); !errors.Is(err, ErrNoEligibleBills) {
			t.Errorf("error = %v, want ErrNoEligibleBills", err)
		}
	})

	t.Run("draft bill aborts summarization", func(t *testing.T) {
		ok := mustBill(t, []models.BillItem{
			{Name: "X", Quantity: 1, UnitPrice: 5000, AssignedTo: []string{"B"}},
		}, "A", 0, 0, 0)
		draft := mustBill(t, []models.BillItem{
			{Name: "Y", Quantity: 1, UnitPrice: 5000},
		}, "A", 0, 0, 0)

		if _, err := Summarize("group-1", []*models.Bill{ok, draft}); !errors.Is(err, ErrIncompleteBill) {
			t.Errorf("error = %v, want ErrIncompleteBill", err)
		}
	})
}
