package dto

import (
	"storeloft/internal/domains/payment/model"
	gDto "storeloft/shared/dto"
)

type PaymentResponse struct {
	ID                string  `json:"id"`
	BookingID         string  `json:"booking_id"`
	RenterID          string  `json:"renter_id"`
	LenderID          string  `json:"lender_id"`
	StripeInvoiceID   *string `json:"stripe_invoice_id"`
	AmountCharged     int64   `json:"amount_charged"`
	PlatformFee       int64   `json:"platform_fee"`
	AmountTransferred int64   `json:"amount_transferred"`
	Status            string  `json:"status"`
	gDto.Metadata
}

func (p *PaymentResponse) FromModel(model model.Payment) {
	p.ID = model.ID
	p.BookingID = model.BookingID
	p.RenterID = model.RenterID
	p.LenderID = model.LenderID
	p.StripeInvoiceID = model.StripeInvoiceID
	p.AmountCharged = model.AmountCharged
	p.PlatformFee = model.PlatformFee
	p.AmountTransferred = model.AmountTransferred
	p.Status = model.Status
	p.Metadata.FromModel(model.Metadata)
}
