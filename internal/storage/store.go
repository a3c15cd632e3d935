// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/patungan/backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store defines the persistence operations the services need. The
// abstraction allows swapping storage backends without changing the service
// layer.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error

	// Groups. Members are stored as references to users; display names are
	// resolved on read.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// Bills. CreateBill and UpdateBill persist items and assignments in
	// order, so allocation results are reproducible across reads.
	CreateBill(ctx context.Context, bill *models.Bill) error
	GetBill(ctx context.Context, billID string) (*models.Bill, error)
	UpdateBill(ctx context.Context, bill *models.Bill) error
	DeleteBill(ctx context.Context, billID string) error
	ListBillsByGroup(ctx context.Context, groupID string) ([]*models.Bill, error)
	// ListUnsettledBillsByGroup returns the bills not yet frozen into an
	// invoice, oldest first.
	ListUnsettledBillsByGroup(ctx context.Context, groupID string) ([]*models.Bill, error)

	// Invoices. CreateInvoice persists the invoice with its records and
	// marks the contributing bills settled in one transaction, which is
	// what guarantees a bill is counted at most once.
	CreateInvoice(ctx context.Context, invoice *models.Invoice, billIDs []string) error
	GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error)
	ListInvoicesByGroup(ctx context.Context, groupID string) ([]*models.Invoice, error)
	// SetRecordPaid flips the paid flag on a single debt record and returns
	// the updated record.
	SetRecordPaid(ctx context.Context, recordID string, paid bool) (*models.DebtRecord, error)

	// Close releases any resources held by the store.
	Close() error
}
