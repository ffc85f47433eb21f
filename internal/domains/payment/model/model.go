package model

import (
	"storeloft/shared/model"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID                = "id"
	FieldBookingID         = "booking_id"
	FieldRenterID          = "renter_id"
	FieldLenderID          = "lender_id"
	FieldStripeInvoiceID   = "stripe_invoice_id"
	FieldAmountCharged     = "amount_charged"
	FieldPlatformFee       = "platform_fee"
	FieldAmountTransferred = "amount_transferred"
	FieldStatus            = "status"
)

// Payment lifecycle. A payment is created as draft together with its
// booking and only moves forward through webhook reconciliation.
const (
	StatusDraft         = "draft"
	StatusPaid          = "paid"
	StatusUncollectible = "uncollectible"
	StatusVoid          = "void"
)

// Payment amounts are minor currency units (cents). amount_charged is
// what the renter pays; platform_fee plus amount_transferred always
// equals amount_charged.
type Payment struct {
	ID                string  `db:"id"`
	BookingID         string  `db:"booking_id"`
	RenterID          string  `db:"renter_id"`
	LenderID          string  `db:"lender_id"`
	StripeInvoiceID   *string `db:"stripe_invoice_id"`
	AmountCharged     int64   `db:"amount_charged"`
	PlatformFee       int64   `db:"platform_fee"`
	AmountTransferred int64   `db:"amount_transferred"`
	Status            string  `db:"status"`
	model.Metadata
}

// SplitAmount splits a charged total into the platform fee and the
// amount transferred to the lender. The fee is rounded half up so the
// two parts always sum back to the total.
func SplitAmount(total, feePercent int64) (fee, transferred int64) {
	fee = (total*feePercent + 50) / 100

	return fee, total - fee
}
