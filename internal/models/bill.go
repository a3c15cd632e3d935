package models

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ErrValidation is the sentinel wrapped by every bill construction failure:
// empty item list, non-positive quantity, negative price, missing payer.
// These are caller-input errors and are never retried.
var ErrValidation = errors.New("bill: validation failed")

// BillStatus tracks a bill through its lifecycle.
type BillStatus string

const (
	// StatusDraft is a bill whose items are not all assigned yet.
	StatusDraft BillStatus = "draft"
	// StatusAssigned is a bill ready for settlement: every item has at
	// least one assignee and the payer is set.
	StatusAssigned BillStatus = "assigned"
	// StatusSettled is a bill already included in a generated invoice.
	// Settled bills are excluded from future invoice generation.
	StatusSettled BillStatus = "settled"
)

// BillItem is one line on a receipt.
type BillItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name is the free-form item description from the receipt.
	Name string

	// Quantity is the number of units, always positive.
	Quantity int64

	// UnitPrice is the price of one unit in smallest currency units.
	UnitPrice int64

	// AssignedTo holds the member IDs responsible for this item's cost,
	// in assignment order. Empty until someone is assigned.
	AssignedTo []string
}

// Nominal returns the line total (unit price times quantity).
func (it BillItem) Nominal() int64 {
	return it.UnitPrice * it.Quantity
}

// Bill represents one receipt to be split.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// GroupID is the owning group.
	GroupID string

	// Title is the human-readable name for the bill.
	Title string

	// PaidBy is the member who fronted the payment.
	PaidBy string

	// Items are the receipt lines, in receipt order.
	Items []BillItem

	// TaxRate is a fraction in [0,1] applied to the item subtotal.
	TaxRate float64

	// Discount is a flat amount subtracted after tax.
	Discount int64

	// ServiceFee is a flat amount added after tax.
	ServiceFee int64

	// Status is the bill's lifecycle state.
	Status BillStatus

	// CreatedAt is the Unix timestamp when the bill was created. Immutable.
	CreatedAt int64
}

// NewBill constructs a validated Draft bill. It fails with ErrValidation if
// the item list is empty, any quantity is non-positive, any unit price is
// negative, the tax rate is out of range, either flat adjustment is
// negative, or the payer is absent. Malformed OCR output (zero-quantity or
// negative-price lines) is rejected here rather than silently coerced.
func NewBill(groupID, title, paidBy string, items []BillItem, taxRate float64, discount, serviceFee int64) (*Bill, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: bill has no items", ErrValidation)
	}
	if paidBy == "" {
		return nil, fmt.Errorf("%w: paid_by is required", ErrValidation)
	}
	if taxRate < 0 || taxRate > 1 {
		return nil, fmt.Errorf("%w: tax rate %v outside [0,1]", ErrValidation, taxRate)
	}
	if discount < 0 {
		return nil, fmt.Errorf("%w: discount must not be negative", ErrValidation)
	}
	if serviceFee < 0 {
		return nil, fmt.Errorf("%w: service fee must not be negative", ErrValidation)
	}

	copied := make([]BillItem, len(items))
	for i, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %q quantity must be positive", ErrValidation, it.Name)
		}
		if it.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: item %q unit price must not be negative", ErrValidation, it.Name)
		}
		copied[i] = it
		if copied[i].ID == "" {
			copied[i].ID = uuid.New().String()
		}
		copied[i].AssignedTo = slices.Clone(it.AssignedTo)
	}

	return &Bill{
		ID:         uuid.New().String(),
		GroupID:    groupID,
		Title:      title,
		PaidBy:     paidBy,
		Items:      copied,
		TaxRate:    taxRate,
		Discount:   discount,
		ServiceFee: serviceFee,
		Status:     StatusDraft,
		CreatedAt:  time.Now().Unix(),
	}, nil
}

// Subtotal returns the sum of all line totals, assigned or not.
func (b *Bill) Subtotal() int64 {
	var sum int64
	for _, it := range b.Items {
		sum += it.Nominal()
	}
	return sum
}

// Total returns subtotal + tax + service fee - discount, clamped at zero.
// The tax component uses half-up rounding on the subtotal.
func (b *Bill) Total() int64 {
	subtotal := b.Subtotal()
	// TaxRate was validated into [0,1], so MultiplyRate cannot fail here;
	// mirror its half-up rounding without importing the money package to
	// keep models dependency-free.
	tax := int64(float64(subtotal)*b.TaxRate + 0.5)
	total := subtotal + tax + b.ServiceFee - b.Discount
	if total < 0 {
		return 0
	}
	return total
}

// ToggleAssignment flips memberID's membership in the item's assignee set
// and returns the updated bill. Toggling twice restores the original set.
func (b *Bill) ToggleAssignment(itemIndex int, memberID string) (*Bill, error) {
	if itemIndex < 0 || itemIndex >= len(b.Items) {
		return nil, fmt.Errorf("%w: item index %d out of range", ErrValidation, itemIndex)
	}

	updated := b.clone()
	item := &updated.Items[itemIndex]
	if i := slices.Index(item.AssignedTo, memberID); i >= 0 {
		item.AssignedTo = slices.Delete(item.AssignedTo, i, i+1)
	} else {
		item.AssignedTo = append(item.AssignedTo, memberID)
	}
	return updated, nil
}

// SplitEqually assigns every item to the full member set: the "divide
// everything evenly among everyone" shortcut.
func (b *Bill) SplitEqually(memberIDs []string) (*Bill, error) {
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("%w: split equally needs at least one member", ErrValidation)
	}
	updated := b.clone()
	for i := range updated.Items {
		updated.Items[i].AssignedTo = slices.Clone(memberIDs)
	}
	return updated, nil
}

// UnassignedItems returns the indexes of items with no assignees.
func (b *Bill) UnassignedItems() []int {
	var idx []int
	for i, it := range b.Items {
		if len(it.AssignedTo) == 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// Participants returns the member IDs taking part in the bill, ordered by
// first appearance across the item assignments.
func (b *Bill) Participants() []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range b.Items {
		for _, id := range it.AssignedTo {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

// ReadyForSettlement reports whether the bill can move Draft → Assigned:
// every item has at least one assignee and the payer is set.
func (b *Bill) ReadyForSettlement() bool {
	return b.PaidBy != "" && len(b.UnassignedItems()) == 0
}

func (b *Bill) clone() *Bill {
	c := *b
	c.Items = make([]BillItem, len(b.Items))
	for i, it := range b.Items {
		c.Items[i] = it
		c.Items[i].AssignedTo = slices.Clone(it.AssignedTo)
	}
	return &c
}
