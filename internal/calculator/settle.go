package calculator

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/patungan/backend/internal/models"
)

// Summary is the netted settlement for a set of bills. It carries the same
// figures an invoice freezes, without being persisted itself.
type Summary struct {
	GroupID     string
	DateStart   int64
	DateEnd     int64
	TotalBills  int
	TotalAmount int64
	Records     []models.DebtRecord
}

// ResolveBill turns one bill's allocation into debt records owed to the
// payer. The bill must be ready for settlement (all items assigned, payer
// set); otherwise ErrIncompleteBill is returned. Members whose share rounds
// to zero, and the payer themselves, produce no record.
func ResolveBill(bill *models.Bill) ([]models.DebtRecord, error) {
	if !bill.ReadyForSettlement() {
		return nil, fmt.Errorf("%w: %q", ErrIncompleteBill, bill.Title)
	}

	alloc, err := Allocate(bill, true)
	if err != nil {
		return nil, err
	}

	var records []models.DebtRecord
	for _, share := range alloc.Shares {
		if share.MemberID == bill.PaidBy || share.Total == 0 {
			continue
		}
		records = append(records, models.DebtRecord{
			ID:       uuid.New().String(),
			DebtorID: share.MemberID,
			DebteeID: bill.PaidBy,
			Nominal:  share.Total,
		})
	}
	return records, nil
}

// pairKey orders a member pair so both debt directions hit the same bucket.
type pairKey struct {
	low, high string
}

type pairDebt struct {
	// net is positive when low owes high, negative when high owes low.
	net int64
	// firstBill is the earliest contributing bill's creation time, used to
	// order the final records.
	firstBill int64
}

// Summarize runs per-bill allocation over the given bills and nets opposing
// debts between each member pair into a single record. Bills must all be
// ready for settlement; an empty bill list yields ErrNoEligibleBills.
// Pairs that net to exactly zero emit no record. Records are ordered by the
// earliest contributing bill, ascending, with the pair ids as a
// deterministic tie-break.
func Summarize(groupID string, bills []*models.Bill) (*Summary, error) {
	if len(bills) == 0 {
		return nil, ErrNoEligibleBills
	}

	summary := &Summary{GroupID: groupID, TotalBills: len(bills)}
	debts := make(map[pairKey]*pairDebt)

	for _, bill := range bills {
		records, err := ResolveBill(bill)
		if err != nil {
			return nil, err
		}

		if summary.DateStart == 0 || bill.CreatedAt < summary.DateStart {
			summary.DateStart = bill.CreatedAt
		}
		if bill.CreatedAt > summary.DateEnd {
			summary.DateEnd = bill.CreatedAt
		}

		for _, rec := range records {
			key := pairKey{low: rec.DebtorID, high: rec.DebteeID}
			amount := rec.Nominal
			if key.low > key.high {
				key.low, key.high = key.high, key.low
				amount = -amount
			}
			debt, ok := debts[key]
			if !ok {
				debt = &pairDebt{firstBill: bill.CreatedAt}
				debts[key] = debt
			}
			debt.net += amount
			if bill.CreatedAt < debt.firstBill {
				debt.firstBill = bill.CreatedAt
			}
		}
	}

	for key, debt := range debts {
		if debt.net == 0 {
			continue
		}
		rec := models.DebtRecord{
			ID:       uuid.New().String(),
			DebtorID: key.low,
			DebteeID: key.high,
			Nominal:  debt.net,
		}
		if debt.net < 0 {
			rec.DebtorID, rec.DebteeID = key.high, key.low
			rec.Nominal = -debt.net
		}
		summary.Records = append(summary.Records, rec)
		summary.TotalAmount += rec.Nominal
	}

	order := make(map[string]int64, len(summary.Records))
	for key, debt := range debts {
		order[key.low+"\x00"+key.high] = debt.firstBill
	}
	sort.Slice(summary.Records, func(i, j int) bool {
		a, b := summary.Records[i], summary.Records[j]
		ka, kb := normalizedKey(a), normalizedKey(b)
		if order[ka] != order[kb] {
			return order[ka] < order[kb]
		}
		return ka < kb
	})

	return summary, nil
}

func normalizedKey(rec models.DebtRecord) string {
	if rec.DebtorID < rec.DebteeID {
		return rec.DebtorID + "\x00" + rec.DebteeID
	}
	return rec.DebteeID + "\x00" + rec.DebtorID
}
