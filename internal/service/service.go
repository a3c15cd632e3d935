// Package service implements the business logic between the HTTP handlers
// and the storage layer: membership enforcement, bill lifecycle transitions
// and invoice generation.
package service

import (
	"context"
	"errors"

	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/storage"
)

// ErrForbidden is returned when a user acts on a group they do not belong
// to.
var ErrForbidden = errors.New("service: not a member of this group")

// requireMember loads the group and verifies the user belongs to it.
func requireMember(ctx context.Context, store storage.Store, userID, groupID string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrForbidden
	}
	return group, nil
}
