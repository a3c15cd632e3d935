package models

// Member is a group participant as the engine sees it: an opaque id plus a
// display name. The authoritative list comes from the group directory; the
// engine references members and never invents or deletes them.
type Member struct {
	// ID is the member's user ID.
	ID string

	// Name is the display name, denormalized for rendering debt records.
	Name string
}

// Group represents a circle of users who split bills together.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Kosan Lantai 2").
	Name string

	// OwnerID is the user who created the group.
	OwnerID string

	// Members is the list of group participants, owner included.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether the given user ID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// MemberNames returns a lookup from member ID to display name.
func (g *Group) MemberNames() map[string]string {
	names := make(map[string]string, len(g.Members))
	for _, m := range g.Members {
		names[m.ID] = m.Name
	}
	return names
}
