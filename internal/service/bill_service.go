package service

import (
	"context"
	"fmt"

	"github.com/patungan/backend/internal/calculator"
	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/storage"
)

// BillService manages the bill lifecycle: creation, item assignment and
// split previews.
type BillService struct {
	store storage.Store
}

// NewBillService creates a BillService.
func NewBillService(store storage.Store) *BillService {
	return &BillService{store: store}
}

// Create validates and stores a new bill. The payer and every pre-assigned
// member must belong to the group. A bill whose items are all assigned on
// arrival starts out Assigned instead of Draft.
func (s *BillService) Create(ctx context.Context, userID, groupID, title, paidBy string, items []models.BillItem, taxRate float64, discount, serviceFee int64) (*models.Bill, error) {
	group, err := requireMember(ctx, s.store, userID, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(paidBy) {
		return nil, fmt.Errorf("%w: payer %s is not a group member", models.ErrValidation, paidBy)
	}
	for _, item := range items {
		for _, memberID := range item.AssignedTo {
			if !group.HasMember(memberID) {
				return nil, fmt.Errorf("%w: assignee %s is not a group member", models.ErrValidation, memberID)
			}
		}
	}

	bill, err := models.NewBill(groupID, title, paidBy, items, taxRate, discount, serviceFee)
	if err != nil {
		return nil, err
	}
	if bill.ReadyForSettlement() {
		bill.Status = models.StatusAssigned
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// Get returns the bill if the user belongs to its group.
func (s *BillService) Get(ctx context.Context, userID, billID string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, userID, bill.GroupID); err != nil {
		return nil, err
	}
	return bill, nil
}

// Delete removes an unsettled bill. Settled bills are frozen into an
// invoice and cannot be deleted.
func (s *BillService) Delete(ctx context.Context, userID, billID string) error {
	bill, err := s.Get(ctx, userID, billID)
	if err != nil {
		return err
	}
	if bill.Status == models.StatusSettled {
		return fmt.Errorf("%w: bill is already settled", models.ErrValidation)
	}
	return s.store.DeleteBill(ctx, billID)
}

// ListByGroup returns all the group's bills, newest first.
func (s *BillService) ListByGroup(ctx context.Context, userID, groupID string) ([]*models.Bill, error) {
	if _, err := requireMember(ctx, s.store, userID, groupID); err != nil {
		return nil, err
	}
	return s.store.ListBillsByGroup(ctx, groupID)
}

// ToggleAssignment flips a member's assignment on one item and persists the
// result. The bill's status follows its readiness.
func (s *BillService) ToggleAssignment(ctx context.Context, userID, billID string, itemIndex int, memberID string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	group, err := requireMember(ctx, s.store, userID, bill.GroupID)
	if err != nil {
		return nil, err
	}
	if bill.Status == models.StatusSettled {
		return nil, fmt.Errorf("%w: bill is already settled", models.ErrValidation)
	}
	if !group.HasMember(memberID) {
		return nil, fmt.Errorf("%w: assignee %s is not a group member", models.ErrValidation, memberID)
	}

	updated, err := bill.ToggleAssignment(itemIndex, memberID)
	if err != nil {
		return nil, err
	}
	return s.saveWithStatus(ctx, updated)
}

// SplitEqually assigns every item to every group member.
func (s *BillService) SplitEqually(ctx context.Context, userID, billID string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	group, err := requireMember(ctx, s.store, userID, bill.GroupID)
	if err != nil {
		return nil, err
	}
	if bill.Status == models.StatusSettled {
		return nil, fmt.Errorf("%w: bill is already settled", models.ErrValidation)
	}

	memberIDs := make([]string, len(group.Members))
	for i, m := range group.Members {
		memberIDs[i] = m.ID
	}
	updated, err := bill.SplitEqually(memberIDs)
	if err != nil {
		return nil, err
	}
	return s.saveWithStatus(ctx, updated)
}

func (s *BillService) saveWithStatus(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	if bill.ReadyForSettlement() {
		bill.Status = models.StatusAssigned
	} else {
		bill.Status = models.StatusDraft
	}
	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// Preview computes the per-member allocation without requiring all items to
// be assigned; unassigned items are reported as skipped.
func (s *BillService) Preview(ctx context.Context, userID, billID string) (*models.Bill, *calculator.Allocation, error) {
	bill, err := s.Get(ctx, userID, billID)
	if err != nil {
		return nil, nil, err
	}
	alloc, err := calculator.Allocate(bill, false)
	if err != nil {
		return nil, nil, err
	}
	return bill, alloc, nil
}

// Summarize nets the group's unsettled, settlement-ready bills into a
// preview summary without persisting anything. Draft bills are ignored.
func (s *BillService) Summarize(ctx context.Context, userID, groupID string) (*calculator.Summary, error) {
	group, err := requireMember(ctx, s.store, userID, groupID)
	if err != nil {
		return nil, err
	}

	bills, err := s.store.ListUnsettledBillsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ready := make([]*models.Bill, 0, len(bills))
	for _, b := range bills {
		if b.ReadyForSettlement() {
			ready = append(ready, b)
		}
	}

	summary, err := calculator.Summarize(groupID, ready)
	if err != nil {
		return nil, err
	}
	fillRecordNames(summary.Records, group.MemberNames())
	return summary, nil
}

// fillRecordNames resolves member display names onto debt records.
func fillRecordNames(records []models.DebtRecord, names map[string]string) {
	for i := range records {
		if name, ok := names[records[i].DebtorID]; ok {
			records[i].DebtorName = name
		}
		if name, ok := names[records[i].DebteeID]; ok {
			records[i].DebteeName = name
		}
	}
}
