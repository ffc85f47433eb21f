package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storeloft/internal/domains/booking/model"
)

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func TestBooking_Overlaps(t *testing.T) {
	booking := model.Booking{
		StartDate: date("2026-03-10"),
		EndDate:   date("2026-03-15"),
	}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{
			name:  "identical range",
			start: "2026-03-10",
			end:   "2026-03-15",
			want:  true,
		},
		{
			name:  "contained range",
			start: "2026-03-11",
			end:   "2026-03-13",
			want:  true,
		},
		{
			name:  "overlaps start",
			start: "2026-03-08",
			end:   "2026-03-11",
			want:  true,
		},
		{
			name:  "overlaps end",
			start: "2026-03-14",
			end:   "2026-03-20",
			want:  true,
		},
		{
			name:  "surrounds range",
			start: "2026-03-01",
			end:   "2026-03-31",
			want:  true,
		},
		{
			name:  "ends on start date",
			start: "2026-03-05",
			end:   "2026-03-10",
			want:  false,
		},
		{
			name:  "starts on end date",
			start: "2026-03-15",
			end:   "2026-03-20",
			want:  false,
		},
		{
			name:  "entirely before",
			start: "2026-03-01",
			end:   "2026-03-05",
			want:  false,
		},
		{
			name:  "entirely after",
			start: "2026-03-20",
			end:   "2026-03-25",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(date(tt.start), date(tt.end)))
		})
	}
}

func TestBooking_AttachPayment(t *testing.T) {
	booking := model.Booking{ID: "booking-1", Status: model.StatusPending}

	assert.Nil(t, booking.PaymentID)

	booking.AttachPayment("payment-1")

	assert.NotNil(t, booking.PaymentID)
	assert.Equal(t, "payment-1", *booking.PaymentID)
}

func TestBooking_Blocks(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{status: model.StatusPending, want: true},
		{status: model.StatusConfirmed, want: true},
		{status: model.StatusCancelled, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			booking := model.Booking{Status: tt.status}

			assert.Equal(t, tt.want, booking.Blocks())
		})
	}
}
