package dto

import (
	"time"

	"github.com/google/uuid"

	"storeloft/internal/domains/booking/model"
	paymentDto "storeloft/internal/domains/payment/model/dto"
	"storeloft/shared"
	"storeloft/shared/constant"
	gDto "storeloft/shared/dto"
	gModel "storeloft/shared/model"
	"storeloft/shared/timezone"
)

type CreateBookingRequest struct {
	LocationID string `json:"location_id" validate:"required"`
	StartDate  string `json:"start_date"  validate:"required"`
	EndDate    string `json:"end_date"    validate:"required"`
	TotalPrice int64  `json:"total_price" validate:"required,gt=0"`
}

func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	startDate, err := time.Parse(constant.DateOnlyFormat, c.StartDate)
	if err != nil {
		return model.Booking{}, err
	}

	endDate, err := time.Parse(constant.DateOnlyFormat, c.EndDate)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:         uuid.NewString(),
		RenterID:   user,
		LocationID: c.LocationID,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalPrice: c.TotalPrice,
		Status:     model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateBookingRequest struct {
	StartDate  string `json:"start_date"  validate:"omitempty"`
	EndDate    string `json:"end_date"    validate:"omitempty"`
	TotalPrice int64  `json:"total_price" validate:"omitempty,gt=0"`
}

type AvailabilityRequest struct {
	LocationID string `json:"location_id" validate:"required"`
	StartDate  string `json:"start_date"  validate:"required"`
	EndDate    string `json:"end_date"    validate:"required"`
}

type AvailabilityResponse struct {
	LocationID string `json:"location_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Available  bool   `json:"available"`
}

type BookingResponse struct {
	ID         string                     `json:"id"`
	RenterID   string                     `json:"renter_id"`
	LocationID string                     `json:"location_id"`
	StartDate  string                     `json:"start_date"`
	EndDate    string                     `json:"end_date"`
	TotalPrice int64                      `json:"total_price"`
	Status     string                     `json:"status"`
	PaymentID  *string                    `json:"payment_id"`
	Payment    *paymentDto.PaymentResponse `json:"payment,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RenterID = model.RenterID
	r.LocationID = model.LocationID
	r.StartDate = model.StartDate.Format(constant.DateOnlyFormat)
	r.EndDate = model.EndDate.Format(constant.DateOnlyFormat)
	r.TotalPrice = model.TotalPrice
	r.Status = model.Status
	r.PaymentID = model.PaymentID
	r.Metadata.FromModel(model.Metadata)
}

type ConfirmBookingResponse struct {
	Booking       BookingResponse `json:"booking"`
	InvoiceIssued bool            `json:"invoice_issued"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
