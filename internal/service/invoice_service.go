package service

import (
	"context"
	"fmt"

	"github.com/patungan/backend/internal/calculator"
	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/storage"
)

// InvoiceService generates and serves settlement invoices.
type InvoiceService struct {
	store storage.Store
}

// NewInvoiceService creates an InvoiceService.
func NewInvoiceService(store storage.Store) *InvoiceService {
	return &InvoiceService{store: store}
}

// Generate freezes the group's unsettled, settlement-ready bills into a new
// invoice. The contributing bills are marked settled in the same
// transaction that persists the invoice, so a bill can never be counted in
// two invoices. Returns ErrNoEligibleBills when there is nothing to settle.
func (s *InvoiceService) Generate(ctx context.Context, userID, groupID string) (*models.Invoice, error) {
	group, err := requireMember(ctx, s.store, userID, groupID)
	if err != nil {
		return nil, err
	}

	bills, err := s.store.ListUnsettledBillsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ready := make([]*models.Bill, 0, len(bills))
	billIDs := make([]string, 0, len(bills))
	for _, b := range bills {
		if b.ReadyForSettlement() {
			ready = append(ready, b)
			billIDs = append(billIDs, b.ID)
		}
	}

	summary, err := calculator.Summarize(groupID, ready)
	if err != nil {
		return nil, err
	}
	fillRecordNames(summary.Records, group.MemberNames())

	invoice := &models.Invoice{
		GroupID:     groupID,
		DateStart:   summary.DateStart,
		DateEnd:     summary.DateEnd,
		TotalBills:  summary.TotalBills,
		TotalAmount: summary.TotalAmount,
		Records:     summary.Records,
	}
	if err := s.store.CreateInvoice(ctx, invoice, billIDs); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Get returns the invoice if the user belongs to its group.
func (s *InvoiceService) Get(ctx context.Context, userID, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.store.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, userID, invoice.GroupID); err != nil {
		return nil, err
	}
	return invoice, nil
}

// ListByGroup returns the group's invoices, newest first.
func (s *InvoiceService) ListByGroup(ctx context.Context, userID, groupID string) ([]*models.Invoice, error) {
	if _, err := requireMember(ctx, s.store, userID, groupID); err != nil {
		return nil, err
	}
	return s.store.ListInvoicesByGroup(ctx, groupID)
}

// MarkRecordPaid flips the paid flag on one debt record of the invoice.
func (s *InvoiceService) MarkRecordPaid(ctx context.Context, userID, invoiceID, recordID string, paid bool) (*models.DebtRecord, error) {
	invoice, err := s.Get(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, rec := range invoice.Records {
		if rec.ID == recordID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: record %s in invoice %s", storage.ErrNotFound, recordID, invoiceID)
	}

	rec, err := s.store.SetRecordPaid(ctx, recordID, paid)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, invoice.GroupID)
	if err == nil {
		names := group.MemberNames()
		rec.DebtorName = names[rec.DebtorID]
		rec.DebteeName = names[rec.DebteeID]
	}
	return rec, nil
}
