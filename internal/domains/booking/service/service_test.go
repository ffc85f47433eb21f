package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"storeloft/config"
	kafkaMocks "storeloft/infras/kafka/mocks"
	"storeloft/infras/otel/mocks"
	"storeloft/infras/stripe"
	stripeMocks "storeloft/infras/stripe/mocks"
	bookingMocks "storeloft/internal/domains/booking/mocks"
	"storeloft/internal/domains/booking/model"
	"storeloft/internal/domains/booking/model/dto"
	"storeloft/internal/domains/booking/service"
	locationMocks "storeloft/internal/domains/location/mocks"
	locationModel "storeloft/internal/domains/location/model"
	paymentMocks "storeloft/internal/domains/payment/mocks"
	paymentModel "storeloft/internal/domains/payment/model"
	userMocks "storeloft/internal/domains/user/mocks"
	userModel "storeloft/internal/domains/user/model"
	"storeloft/shared/cache"
	cacheMocks "storeloft/shared/cache/mocks"
	"storeloft/shared/constant"
	"storeloft/shared/failure"
)

type fixture struct {
	repo         *bookingMocks.MockBooking
	paymentRepo  *paymentMocks.MockPayment
	locationRepo *locationMocks.MockLocation
	userRepo     *userMocks.MockUser
	cache        *cacheMocks.MockRedisCache
	kafka        *kafkaMocks.MockClient
	invoicer     *stripeMocks.MockInvoicer
	svc          service.Booking
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:         bookingMocks.NewMockBooking(ctrl),
		paymentRepo:  paymentMocks.NewMockPayment(ctrl),
		locationRepo: locationMocks.NewMockLocation(ctrl),
		userRepo:     userMocks.NewMockUser(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		kafka:        kafkaMocks.NewMockClient(ctrl),
		invoicer:     stripeMocks.NewMockInvoicer(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.App.Fee.Percent = 3
	cfg.Kafka.Topics.BookingEvents = "booking.events"

	// Events and cache invalidation run on detached goroutines.
	f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.paymentRepo, f.locationRepo, f.userRepo, cfg, f.cache, mocks.NewOtel(), f.kafka, f.invoicer)

	return f
}

func testContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "renter-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleRenter)
}

func date(value string) time.Time {
	parsed, err := time.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func strPtr(value string) *string {
	return &value
}

func TestBookingService_IsAvailable(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		setupMock func(f *fixture)
		want      bool
		wantCode  int
	}{
		{
			name:  "range is free",
			start: "2026-03-10",
			end:   "2026-03-15",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					ExistConflict(gomock.Any(), "loc-1", date("2026-03-10"), date("2026-03-15"), constant.Empty).
					Return(false, nil)
			},
			want: true,
		},
		{
			name:  "range is taken",
			start: "2026-03-10",
			end:   "2026-03-15",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					ExistConflict(gomock.Any(), "loc-1", gomock.Any(), gomock.Any(), constant.Empty).
					Return(true, nil)
			},
			want: false,
		},
		{
			name:      "start equals end",
			start:     "2026-03-10",
			end:       "2026-03-10",
			setupMock: func(f *fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "start after end",
			start:     "2026-03-15",
			end:       "2026-03-10",
			setupMock: func(f *fixture) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			got, err := f.svc.IsAvailable(testContext(), "loc-1", date(tt.start), date(tt.end))

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBookingService_Create(t *testing.T) {
	location := locationModel.Location{ID: "loc-1", OwnerID: "lender-1"}

	validReq := dto.CreateBookingRequest{
		LocationID: "loc-1",
		StartDate:  "2026-03-10",
		EndDate:    "2026-03-15",
		TotalPrice: 10000,
	}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(f *fixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "creates booking with draft payment",
			req:  validReq,
			setupMock: func(f *fixture) {
				f.locationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(location, nil)
				f.repo.EXPECT().
					CreateWithPayment(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking, payment paymentModel.Payment) error {
						assert.Equal(t, model.StatusPending, booking.Status)
						assert.Equal(t, "renter-1", booking.RenterID)
						assert.Equal(t, paymentModel.StatusDraft, payment.Status)
						assert.Equal(t, booking.ID, payment.BookingID)
						assert.Equal(t, "lender-1", payment.LenderID)
						assert.Equal(t, int64(10000), payment.AmountCharged)
						assert.Equal(t, int64(300), payment.PlatformFee)
						assert.Equal(t, int64(9700), payment.AmountTransferred)
						assert.Equal(t, payment.AmountCharged, payment.PlatformFee+payment.AmountTransferred)

						return nil
					})
			},
		},
		{
			name: "dates already taken",
			req:  validReq,
			setupMock: func(f *fixture) {
				f.locationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(location, nil)
				f.repo.EXPECT().
					CreateWithPayment(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(failure.Conflict("requested dates are no longer available"))
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "location does not exist",
			req:  validReq,
			setupMock: func(f *fixture) {
				f.locationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(locationModel.Location{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "start not before end",
			req: dto.CreateBookingRequest{
				LocationID: "loc-1",
				StartDate:  "2026-03-15",
				EndDate:    "2026-03-10",
				TotalPrice: 10000,
			},
			setupMock: func(f *fixture) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "malformed date",
			req: dto.CreateBookingRequest{
				LocationID: "loc-1",
				StartDate:  "10-03-2026",
				EndDate:    "2026-03-15",
				TotalPrice: 10000,
			},
			setupMock: func(f *fixture) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "non-positive total price",
			req: dto.CreateBookingRequest{
				LocationID: "loc-1",
				StartDate:  "2026-03-10",
				EndDate:    "2026-03-15",
			},
			setupMock: func(f *fixture) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(testContext(), tt.req)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			require.NotNil(t, res.Payment)
			assert.Equal(t, paymentModel.StatusDraft, res.Payment.Status)
			assert.Equal(t, res.Payment.ID, *res.PaymentID)
		})
	}
}

func TestBookingService_Confirm(t *testing.T) {
	pending := model.Booking{
		ID:         "booking-1",
		RenterID:   "renter-1",
		LocationID: "loc-1",
		StartDate:  date("2026-03-10"),
		EndDate:    date("2026-03-15"),
		TotalPrice: 10000,
		Status:     model.StatusPending,
		PaymentID:  strPtr("payment-1"),
	}

	draftPayment := paymentModel.Payment{
		ID:            "payment-1",
		BookingID:     "booking-1",
		RenterID:      "renter-1",
		LenderID:      "lender-1",
		AmountCharged: 10000,
		Status:        paymentModel.StatusDraft,
	}

	renter := userModel.User{
		ID:               "renter-1",
		Role:             constant.RoleRenter,
		StripeCustomerID: strPtr("cus_123"),
	}

	tests := []struct {
		name        string
		setupMock   func(f *fixture)
		wantErr     bool
		wantCode    int
		wantInvoice bool
	}{
		{
			name: "confirms and issues invoice",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				f.paymentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(draftPayment, nil)
				f.repo.EXPECT().
					UpdateStatusGuarded(gomock.Any(), "booking-1", model.StatusPending, gomock.Any()).
					Return(nil)
				f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(renter, nil)
				f.invoicer.EXPECT().
					IssueInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req stripe.IssueInvoiceRequest) (stripe.Invoice, error) {
						assert.Equal(t, "cus_123", req.CustomerID)
						assert.Equal(t, int64(10000), req.Amount)
						assert.Equal(t, "booking-1", req.BookingID)

						return stripe.Invoice{ID: "in_123", Status: "open"}, nil
					})
				f.paymentRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			wantInvoice: true,
		},
		{
			name: "confirmation survives invoicing outage",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				f.paymentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(draftPayment, nil)
				f.repo.EXPECT().
					UpdateStatusGuarded(gomock.Any(), "booking-1", model.StatusPending, gomock.Any()).
					Return(nil)
				f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(renter, nil)
				f.invoicer.EXPECT().
					IssueInvoice(gomock.Any(), gomock.Any()).
					Return(stripe.Invoice{}, errors.New("stripe unavailable"))
			},
			wantInvoice: false,
		},
		{
			name: "renter without billing customer",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				f.paymentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(draftPayment, nil)
				f.repo.EXPECT().
					UpdateStatusGuarded(gomock.Any(), "booking-1", model.StatusPending, gomock.Any()).
					Return(nil)
				f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "renter-1"}, nil)
			},
			wantInvoice: false,
		},
		{
			name: "concurrent confirm loses the race",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				f.paymentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(draftPayment, nil)
				f.repo.EXPECT().
					UpdateStatusGuarded(gomock.Any(), "booking-1", model.StatusPending, gomock.Any()).
					Return(failure.InvalidState("booking is no longer pending"))
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "already confirmed",
			setupMock: func(f *fixture) {
				confirmed := pending
				confirmed.Status = model.StatusConfirmed

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "cancelled booking",
			setupMock: func(f *fixture) {
				cancelled := pending
				cancelled.Status = model.StatusCancelled

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "payment no longer draft",
			setupMock: func(f *fixture) {
				paid := draftPayment
				paid.Status = paymentModel.StatusPaid

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending, nil)
				f.paymentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(paid, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "booking not found",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Confirm(testContext(), "booking-1")

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusConfirmed, res.Booking.Status)
			assert.Equal(t, tt.wantInvoice, res.InvoiceIssued)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *fixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "cancels pending booking",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusPending}, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "cancels confirmed booking",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusConfirmed}, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "already cancelled",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusCancelled}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "booking not found",
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Cancel(testContext(), "booking-1")

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusCancelled, res.Status)
		})
	}
}

func TestBookingService_Update(t *testing.T) {
	existing := model.Booking{
		ID:         "booking-1",
		RenterID:   "renter-1",
		LocationID: "loc-1",
		StartDate:  date("2026-03-10"),
		EndDate:    date("2026-03-15"),
		TotalPrice: 10000,
		Status:     model.StatusPending,
	}

	tests := []struct {
		name      string
		req       dto.UpdateBookingRequest
		setupMock func(f *fixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "moves the booking to a free range",
			req:  dto.UpdateBookingRequest{StartDate: "2026-03-20", EndDate: "2026-03-25"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.repo.EXPECT().
					UpdateGuarded(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, booking model.Booking, fields map[string]any) error {
						assert.Equal(t, date("2026-03-20"), booking.StartDate)
						assert.Equal(t, date("2026-03-25"), booking.EndDate)
						assert.Contains(t, fields, model.FieldStartDate)
						assert.Contains(t, fields, model.FieldEndDate)

						return nil
					})
			},
		},
		{
			name: "new range conflicts",
			req:  dto.UpdateBookingRequest{StartDate: "2026-03-20", EndDate: "2026-03-25"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.repo.EXPECT().
					UpdateGuarded(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(failure.Conflict("requested dates are no longer available"))
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "cancelled booking",
			req:  dto.UpdateBookingRequest{TotalPrice: 12000},
			setupMock: func(f *fixture) {
				cancelled := existing
				cancelled.Status = model.StatusCancelled

				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "new start collapses the range",
			req:  dto.UpdateBookingRequest{StartDate: "2026-03-15"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name:      "empty request",
			req:       dto.UpdateBookingRequest{},
			setupMock: func(f *fixture) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			_, err := f.svc.Update(testContext(), tt.req, "booking-1")

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBookingService_HandleInvoiceEvent(t *testing.T) {
	tracked := paymentModel.Payment{
		ID:              "payment-1",
		BookingID:       "booking-1",
		StripeInvoiceID: strPtr("in_123"),
		Status:          paymentModel.StatusDraft,
	}

	tests := []struct {
		name      string
		eventType string
		setupMock func(f *fixture)
		wantErr   bool
	}{
		{
			name:      "invoice paid",
			eventType: "invoice.paid",
			setupMock: func(f *fixture) {
				f.paymentRepo.EXPECT().GetByInvoiceID(gomock.Any(), "in_123").Return(tracked, nil)
				f.paymentRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ interface{}) error {
						assert.Equal(t, paymentModel.StatusPaid, fields[paymentModel.FieldStatus])

						return nil
					})
			},
		},
		{
			name:      "payment failed marks uncollectible",
			eventType: "invoice.payment_failed",
			setupMock: func(f *fixture) {
				f.paymentRepo.EXPECT().GetByInvoiceID(gomock.Any(), "in_123").Return(tracked, nil)
				f.paymentRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ interface{}) error {
						assert.Equal(t, paymentModel.StatusUncollectible, fields[paymentModel.FieldStatus])

						return nil
					})
			},
		},
		{
			name:      "voided invoice",
			eventType: "invoice.voided",
			setupMock: func(f *fixture) {
				f.paymentRepo.EXPECT().GetByInvoiceID(gomock.Any(), "in_123").Return(tracked, nil)
				f.paymentRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ interface{}) error {
						assert.Equal(t, paymentModel.StatusVoid, fields[paymentModel.FieldStatus])

						return nil
					})
			},
		},
		{
			name:      "redelivery is a no-op",
			eventType: "invoice.paid",
			setupMock: func(f *fixture) {
				paid := tracked
				paid.Status = paymentModel.StatusPaid

				f.paymentRepo.EXPECT().GetByInvoiceID(gomock.Any(), "in_123").Return(paid, nil)
			},
		},
		{
			name:      "untracked invoice is ignored",
			eventType: "invoice.paid",
			setupMock: func(f *fixture) {
				f.paymentRepo.EXPECT().
					GetByInvoiceID(gomock.Any(), "in_123").
					Return(paymentModel.Payment{}, nil)
			},
		},
		{
			name:      "unhandled event type is ignored",
			eventType: "invoice.finalized",
			setupMock: func(f *fixture) {},
		},
		{
			name:      "repository error propagates",
			eventType: "invoice.paid",
			setupMock: func(f *fixture) {
				f.paymentRepo.EXPECT().
					GetByInvoiceID(gomock.Any(), "in_123").
					Return(paymentModel.Payment{}, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.HandleInvoiceEvent(testContext(), tt.eventType, "in_123")

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	booking := model.Booking{
		ID:         "booking-1",
		RenterID:   "renter-1",
		LocationID: "loc-1",
		StartDate:  date("2026-03-10"),
		EndDate:    date("2026-03-15"),
		Status:     model.StatusPending,
		PaymentID:  strPtr("payment-1"),
	}

	t.Run("returns booking with its payment", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.paymentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(paymentModel.Payment{ID: "payment-1", BookingID: "booking-1", Status: paymentModel.StatusDraft}, nil)

		res, err := f.svc.Get(testContext(), "booking-1")

		require.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
		require.NotNil(t, res.Payment)
		assert.Equal(t, paymentModel.StatusDraft, res.Payment.Status)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(testContext(), "booking-1")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
