// Package calculator implements the bill-splitting engine: allocating a
// bill's cost across its assigned members and resolving allocations into
// netted debt records. All computation is pure and synchronous over small
// in-memory structures; amounts are int64 smallest currency units
// throughout.
package calculator

import (
	"errors"
	"fmt"

	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/money"
)

var (
	// ErrUnassignedItems is returned by a strict allocation when some items
	// have no assignees. Recoverable: the caller completes assignment and
	// retries.
	ErrUnassignedItems = errors.New("calculator: bill has unassigned items")
	// ErrIncompleteBill is returned when settlement is invoked on a bill
	// that is not ready (draft, unassigned items, or missing payer).
	ErrIncompleteBill = errors.New("calculator: bill is not ready for settlement")
	// ErrNoEligibleBills is returned by summarization when the window holds
	// no unsettled bills. A benign "nothing to do", not a hard failure.
	ErrNoEligibleBills = errors.New("calculator: no eligible bills to summarize")
)

// Share is one member's computed slice of a bill.
type Share struct {
	MemberID string
	// Subtotal is the member's item share before adjustments.
	Subtotal int64
	// Tax is the member's proportional share of the bill tax.
	Tax int64
	// Fee is the member's per-head share of the flat service fee.
	Fee int64
	// Discount is the amount actually subtracted for this member. It may be
	// less than the proportional discount share when the clamp applies.
	Discount int64
	// Total is Subtotal + Tax + Fee - Discount, never negative.
	Total int64
}

// Allocation is the result of splitting one bill.
type Allocation struct {
	// Shares holds one entry per participating member, payer included, in
	// participant order.
	Shares []Share
	// Subtotal and Tax are the bill-level figures, including lines that
	// were skipped for missing assignees.
	Subtotal int64
	Tax      int64
	// SkippedItems holds the indexes of items excluded from allocation
	// because nobody is assigned to them. Always empty in strict mode.
	SkippedItems []int
}

// ShareFor returns the share for the given member, or nil.
func (a *Allocation) ShareFor(memberID string) *Share {
	for i := range a.Shares {
		if a.Shares[i].MemberID == memberID {
			return &a.Shares[i]
		}
	}
	return nil
}

// Allocate computes each member's monetary share of the bill.
//
// Item totals are split equally across the item's assignees with exact
// remainder handling. Tax is distributed proportionally to the accumulated
// member subtotals, the service fee equally per head, and the discount
// proportionally with a per-member floor at zero. In strict mode any item
// without assignees fails the allocation with ErrUnassignedItems; otherwise
// such items are skipped and reported so the caller can surface a partial
// preview.
func Allocate(bill *models.Bill, strict bool) (*Allocation, error) {
	skipped := bill.UnassignedItems()
	if strict && len(skipped) > 0 {
		return nil, fmt.Errorf("%w: %d of %d items", ErrUnassignedItems, len(skipped), len(bill.Items))
	}

	participants := bill.Participants()
	index := make(map[string]int, len(participants))
	for i, id := range participants {
		index[id] = i
	}

	subtotals := make([]int64, len(participants))
	for _, item := range bill.Items {
		if len(item.AssignedTo) == 0 {
			continue
		}
		parts, err := money.DistributeEqually(item.Nominal(), len(item.AssignedTo))
		if err != nil {
			return nil, err
		}
		for i, memberID := range item.AssignedTo {
			subtotals[index[memberID]] += parts[i]
		}
	}

	alloc := &Allocation{
		Subtotal:     bill.Subtotal(),
		SkippedItems: skipped,
	}

	tax, err := money.MultiplyRate(alloc.Subtotal, bill.TaxRate)
	if err != nil {
		return nil, err
	}
	alloc.Tax = tax

	if len(participants) == 0 {
		return alloc, nil
	}

	taxShares, err := distributeAdjustment(tax, subtotals)
	if err != nil {
		return nil, err
	}
	discountShares, err := distributeAdjustment(bill.Discount, subtotals)
	if err != nil {
		return nil, err
	}
	feeShares, err := distributeAdjustment(bill.ServiceFee, equalWeights(len(participants)))
	if err != nil {
		return nil, err
	}

	alloc.Shares = make([]Share, len(participants))
	for i, memberID := range participants {
		share := Share{
			MemberID: memberID,
			Subtotal: subtotals[i],
			Tax:      taxShares[i],
			Fee:      feeShares[i],
			Discount: discountShares[i],
		}
		gross := share.Subtotal + share.Tax + share.Fee
		if share.Discount > gross {
			// The shortfall is absorbed: no member's share goes negative
			// even if the discount exceeds what they consumed.
			share.Discount = gross
		}
		share.Total = gross - share.Discount
		alloc.Shares[i] = share
	}

	return alloc, nil
}

// distributeAdjustment splits amount proportionally to the weights. When
// every weight is zero (a bill of free items, or a pure-fee preview) it
// falls back to an equal per-head split so the amount is still conserved.
func distributeAdjustment(amount int64, weights []int64) ([]int64, error) {
	if amount == 0 {
		return make([]int64, len(weights)), nil
	}
	var total int64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		weights = equalWeights(len(weights))
	}
	return money.Distribute(amount, weights)
}

func equalWeights(n int) []int64 {
	w := make([]int64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}
