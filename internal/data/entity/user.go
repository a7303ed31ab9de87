package entity

import (
	"github.com/google/uuid"
)

type User struct {
	Base
	Name     string     `db:"name"`
	Phone    string     `db:"phone"`
	Email    string     `db:"email"`
	Role     string     `db:"role"`
	VendorID *uuid.UUID `db:"vendor_id"`
	IsActive bool       `db:"is_active"`
}
