package model

import "storeloft/shared/model"

const (
	TableName  = "storage_locations"
	EntityName = "location"

	FieldID          = "id"
	FieldOwnerID     = "owner_id"
	FieldName        = "name"
	FieldAddress     = "address"
	FieldSizeSqm     = "size_sqm"
	FieldPricePerDay = "price_per_day"
	FieldImage       = "image"
	FieldActive      = "active"
)

// Location is a storage space listed by a lender. price_per_day is
// minor currency units.
type Location struct {
	ID          string  `db:"id"`
	OwnerID     string  `db:"owner_id"`
	Name        string  `db:"name"`
	Address     string  `db:"address"`
	SizeSqm     float64 `db:"size_sqm"`
	PricePerDay int64   `db:"price_per_day"`
	Image       string  `db:"image"`
	Active      bool    `db:"active"`
	model.Metadata
}
