package users

import "time"

// Roles assignable to tenant members.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Picture   string    `json:"picture,omitempty"`
	Role      string    `json:"role"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
