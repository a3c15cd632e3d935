package models

import (
	"errors"
	"reflect"
	"testing"
)

func testItems() []BillItem {
	return []BillItem{
		{Name: "Nasi Goreng", Quantity: 1, UnitPrice: 20000},
		{Name: "Es Teh", Quantity: 2, UnitPrice: 10000},
	}
}

func TestNewBill(t *testing.T) {
	tests := []struct {
		name     string
		items    []BillItem
		paidBy   string
		taxRate  float64
		discount int64
		fee      int64
		wantErr  bool
	}{
		{name: "valid bill", items: testItems(), paidBy: "u1", taxRate: 0.1},
		{name: "empty items", items: nil, paidBy: "u1", wantErr: true},
		{name: "missing payer", items: testItems(), wantErr: true},
		{name: "zero quantity", items: []BillItem{{Name: "X", Quantity: 0, UnitPrice: 100}}, paidBy: "u1", wantErr: true},
		{name: "negative price", items: []BillItem{{Name: "X", Quantity: 1, UnitPrice: -1}}, paidBy: "u1", wantErr: true},
		{name: "free item is fine", items: []BillItem{{Name: "Promo", Quantity: 1, UnitPrice: 0}}, paidBy: "u1"},
		{name: "tax rate above one", items: testItems(), paidBy: "u1", taxRate: 1.5, wantErr: true},
		{name: "negative discount", items: testItems(), paidBy: "u1", discount: -1, wantErr: true},
		{name: "negative fee", items: testItems(), paidBy: "u1", fee: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill, err := NewBill("g1", "title", tt.paidBy, tt.items, tt.taxRate, tt.discount, tt.fee)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("NewBill() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBill() failed: %v", err)
			}
			if bill.Status != StatusDraft {
				t.Errorf("new bill status = %q, want draft", bill.Status)
			}
			if bill.ID == "" || bill.CreatedAt == 0 {
				t.Error("expected generated ID and CreatedAt")
			}
			for _, it := range bill.Items {
				if it.ID == "" {
					t.Errorf("item %q missing generated ID", it.Name)
				}
			}
		})
	}
}

func TestBillTotals(t *testing.T) {
	bill, err := NewBill("g1", "warung", "u1", testItems(), 0.1, 2000, 5000)
	if err != nil {
		t.Fatalf("NewBill failed: %v", err)
	}

	if got := bill.Subtotal(); got != 40000 {
		t.Errorf("Subtotal() = %d, want 40000", got)
	}
	// 40000 + 4000 tax + 5000 service - 2000 discount
	if got := bill.Total(); got != 47000 {
		t.Errorf("Total() = %d, want 47000", got)
	}
}

func TestBillTotalClampsAtZero(t *testing.T) {
	bill, err := NewBill("g1", "voucher", "u1",
		[]BillItem{{Name: "Snack", Quantity: 1, UnitPrice: 3000}}, 0, 10000, 0)
	if err != nil {
		t.Fatalf("NewBill failed: %v", err)
	}
	if got := bill.Total(); got != 0 {
		t.Errorf("Total() = %d, want 0", got)
	}
}

func TestToggleAssignment(t *testing.T) {
	bill, err := NewBill("g1", "title", "u1", testItems(), 0, 0, 0)
	if err != nil {
		t.Fatalf("NewBill failed: %v", err)
	}

	t.Run("toggle twice restores original state", func(t *testing.T) {
		once, err := bill.ToggleAssignment(0, "u2")
		if err != nil {
			t.Fatalf("ToggleAssignment failed: %v", err)
		}
		if !reflect.DeepEqual(once.Items[0].AssignedTo, []string{"u2"}) {
			t.Errorf("after toggle: %v, want [u2]", once.Items[0].AssignedTo)
		}

		twice, err := once.ToggleAssignment(0, "u2")
		if err != nil {
			t.Fatalf("ToggleAssignment failed: %v", err)
		}
		if len(twice.Items[0].AssignedTo) != 0 {
			t.Errorf("after double toggle: %v, want empty", twice.Items[0].AssignedTo)
		}
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		_, err := bill.ToggleAssignment(1, "u3")
		if err != nil {
			t.Fatalf("ToggleAssignment failed: %v", err)
		}
		if len(bill.Items[1].AssignedTo) != 0 {
			t.Errorf("receiver was mutated: %v", bill.Items[1].AssignedTo)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		if _, err := bill.ToggleAssignment(5, "u2"); !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})
}

func TestSplitEqually(t *testing.T) {
	bill, err := NewBill("g1", "title", "u1", testItems(), 0, 0, 0)
	if err != nil {
		t.Fatalf("NewBill failed: %v", err)
	}

	members := []string{"u1", "u2", "u3"}
	split, err := bill.SplitEqually(members)
	if err != nil {
		t.Fatalf("SplitEqually failed: %v", err)
	}
	for i, it := range split.Items {
		if !reflect.DeepEqual(it.AssignedTo, members) {
			t.Errorf("item %d assignees = %v, want %v", i, it.AssignedTo, members)
		}
	}
	if !split.ReadyForSettlement() {
		t.Error("bill should be ready for settlement after SplitEqually")
	}

	if _, err := bill.SplitEqually(nil); !errors.Is(err, ErrValidation) {
		t.Errorf("SplitEqually(nil) error = %v, want ErrValidation", err)
	}
}

func TestParticipants(t *testing.T) {
	bill, err := NewBill("g1", "title", "u1", testItems(), 0, 0, 0)
	if err != nil {
		t.Fatalf("NewBill failed: %v", err)
	}
	bill, _ = bill.ToggleAssignment(0, "u2")
	bill, _ = bill.ToggleAssignment(1, "u3")
	bill, _ = bill.ToggleAssignment(1, "u2")

	got := bill.Participants()
	want := []string{"u2", "u3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Participants() = %v, want %v (first-appearance order)", got, want)
	}
}
