package entity

import (
	"github.com/google/uuid"
)

type Banner struct {
	Base
	VendorID *uuid.UUID `db:"vendor_id"`
	Title    string     `db:"title"`
	Image    string     `db:"image"`
	Position int        `db:"position"`
	IsActive bool       `db:"is_active"`
}
