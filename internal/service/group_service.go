package service

import (
	"context"
	"fmt"

	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/storage"
)

// GroupService manages groups and their memberships.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create makes a new group owned by the given user. The owner becomes the
// first member.
func (s *GroupService) Create(ctx context.Context, ownerID, name string) (*models.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", models.ErrValidation)
	}

	group := &models.Group{Name: name, OwnerID: ownerID}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	// Re-read so the member list carries resolved display names.
	return s.store.GetGroup(ctx, group.ID)
}

// Get returns the group if the user is a member.
func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*models.Group, error) {
	return requireMember(ctx, s.store, userID, groupID)
}

// List returns every group the user belongs to.
func (s *GroupService) List(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByUser(ctx, userID)
}

// Join adds the user to the group. Joining a group twice is a no-op.
func (s *GroupService) Join(ctx context.Context, userID, groupID string) (*models.Group, error) {
	if err := s.store.AddGroupMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}
