package entity

type Vendor struct {
	Base
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Image       string  `db:"image"`
	Address     string  `db:"address"`
	Latitude    float64 `db:"latitude"`
	Longitude   float64 `db:"longitude"`
	Phone       string  `db:"phone"`
	Rating      float64 `db:"rating"`
	IsOpen      bool    `db:"is_open"`
	IsActive    bool    `db:"is_active"`
}
