// File: internal/domain/group.go
package domain

import "time"

// Group is a named conversation with a set of member users. Membership is a
// set: adding an existing member is a no-op. Groups are never deleted.
type Group struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedBy uint      `json:"createdBy" gorm:"not null"`
	Members   []User    `json:"members" gorm:"many2many:group_members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasMember reports whether the user is currently in the group.
func (g *Group) HasMember(userID uint) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
