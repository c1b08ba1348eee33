package domain

import "time"

// Role identifies which side of the marketplace a user acts on.
type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
)

// Valid reports whether the role is one of the three marketplace roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleVendor, RoleCustomer:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Location     string    `json:"location,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
