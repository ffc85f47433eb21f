package model

import (
	"storeloft/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldRenterID   = "renter_id"
	FieldLocationID = "location_id"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldTotalPrice = "total_price"
	FieldStatus     = "status"
	FieldPaymentID  = "payment_id"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking occupies a storage location for the half-open date range
// [start_date, end_date). total_price is minor currency units.
type Booking struct {
	ID         string    `db:"id"`
	RenterID   string    `db:"renter_id"`
	LocationID string    `db:"location_id"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	TotalPrice int64     `db:"total_price"`
	Status     string    `db:"status"`
	PaymentID  *string   `db:"payment_id"`
	model.Metadata
}

// Overlaps reports whether [start, end) intersects the booking's own
// range. Ranges that only touch do not overlap, so one booking may end
// on the day another starts.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && start.Before(b.EndDate)
}

// AttachPayment links the booking to its payment record. PaymentID is
// only ever set through this method.
func (b *Booking) AttachPayment(paymentID string) {
	b.PaymentID = &paymentID
}

// Blocks reports whether the booking still occupies its date range.
// Cancelled bookings release their dates.
func (b *Booking) Blocks() bool {
	return b.Status != StatusCancelled
}
