package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Role labels what a user is allowed to do on the marketplace.
type Role string

const (
	RoleFarmer             Role = "FARMER"
	RoleWholesaler         Role = "WHOLESALER"
	RoleRetailer           Role = "RETAILER"
	RoleCustomer           Role = "CUSTOMER"
	RoleInstitutionalBuyer Role = "INSTITUTIONAL_BUYER"
)

// Roles lists every role accepted at registration.
var Roles = []Role{RoleFarmer, RoleWholesaler, RoleRetailer, RoleCustomer, RoleInstitutionalBuyer}

// Valid reports whether the role is one of the registered set.
func (r Role) Valid() bool {
	for _, candidate := range Roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// User represents a marketplace account, farmer or buyer.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        int64     `bun:",pk,autoincrement"`
	Email     string    `bun:"email,unique,notnull"`
	Phone     string    `bun:"phone"`
	FullName  string    `bun:"full_name,notnull"`
	Role      Role      `bun:"role,notnull"`
	Password  string    `bun:"password,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`
}
