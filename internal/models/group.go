package models

import "time"

// Group represents a reusable set of members that transactions can be split across.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Goa Trip").
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// AdminID is the user who created the group.
	AdminID string `json:"admin_id"`

	// Members is the ordered list of member phone numbers.
	// Never contains duplicates; the admin's number is always present.
	Members []string `json:"members"`

	// CreatedAt is when the group was created.
	CreatedAt time.Time `json:"created_at"`
}

// HasMember reports whether phoneNumber is in the member list.
func (g *Group) HasMember(phoneNumber string) bool {
	for _, m := range g.Members {
		if m == phoneNumber {
			return true
		}
	}
	return false
}

// GroupSummary is the reduced (id, name) view of a group shown on the dashboard.
type GroupSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
