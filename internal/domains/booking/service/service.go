package service

import (
	"context"
	"fmt"
	"time"

	"storeloft/config"
	"storeloft/infras/kafka"
	"storeloft/infras/otel"
	"storeloft/infras/stripe"
	"storeloft/internal/domains/booking/model"
	"storeloft/internal/domains/booking/model/dto"
	"storeloft/internal/domains/booking/repository"
	locationModel "storeloft/internal/domains/location/model"
	locationRepo "storeloft/internal/domains/location/repository"
	paymentModel "storeloft/internal/domains/payment/model"
	paymentDto "storeloft/internal/domains/payment/model/dto"
	paymentRepo "storeloft/internal/domains/payment/repository"
	userModel "storeloft/internal/domains/user/model"
	userRepo "storeloft/internal/domains/user/repository"
	"storeloft/shared"
	"storeloft/shared/cache"
	"storeloft/shared/constant"
	gDto "storeloft/shared/dto"
	"storeloft/shared/failure"
	"storeloft/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	eventBookingCreated    = "booking.created"
	eventBookingConfirmed  = "booking.confirmed"
	eventBookingCancelled  = "booking.cancelled"
	eventBookingUpdated    = "booking.updated"
	eventPaymentReconciled = "payment.reconciled"
)

// invoiceEventStatus maps Stripe invoice webhook event types to the
// local payment status they settle on.
var invoiceEventStatus = map[string]string{
	"invoice.paid":                 paymentModel.StatusPaid,
	"invoice.payment_failed":       paymentModel.StatusUncollectible,
	"invoice.marked_uncollectible": paymentModel.StatusUncollectible,
	"invoice.voided":               paymentModel.StatusVoid,
}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	IsAvailable(ctx context.Context, locationID string, start, end time.Time) (bool, error)
	Confirm(ctx context.Context, id string) (dto.ConfirmBookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	HandleInvoiceEvent(ctx context.Context, eventType, invoiceID string) error
}

type serviceImpl struct {
	repo         repository.Booking
	paymentRepo  paymentRepo.Payment
	locationRepo locationRepo.Location
	userRepo     userRepo.User
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	kafka        kafka.Client
	invoicer     stripe.Invoicer
}

func New(
	repo repository.Booking,
	paymentRepo paymentRepo.Payment,
	locationRepo locationRepo.Location,
	userRepo userRepo.User,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafkaClient kafka.Client,
	invoicer stripe.Invoicer,
) Booking {
	return &serviceImpl{
		repo:         repo,
		paymentRepo:  paymentRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		kafka:        kafkaClient,
		invoicer:     invoicer,
	}
}

type bookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	LocationID string    `json:"location_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// publishEvent emits a lifecycle event, best effort: a broker outage
// never fails the request that triggered it.
func (s *serviceImpl) publishEvent(ctx context.Context, eventType string, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := bookingEvent{
			Type:       eventType,
			BookingID:  booking.ID,
			LocationID: booking.LocationID,
			Status:     booking.Status,
			OccurredAt: timezone.Now(),
		}

		err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, kafka.Message{
			Key:   booking.ID,
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("event", eventType).Str("bookingID", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func validateRange(start, end time.Time) error {
	if !start.Before(end) {
		return failure.BadRequestFromString("start_date must be before end_date") // nolint:wrapcheck
	}

	return nil
}

// IsAvailable reports whether [start, end) is free of non-cancelled
// bookings for the location. A positive answer is advisory: creation
// re-checks inside its transaction.
func (s *serviceImpl) IsAvailable(ctx context.Context, locationID string, start, end time.Time) (res bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validateRange(start, end); err != nil {
		return false, err
	}

	conflict, err := s.repo.ExistConflict(ctx, locationID, start, end, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to check availability")

		return false, fmt.Errorf("failed to check availability: %w", err)
	}

	return !conflict, nil
}

// Create books the location for the requested range and opens a draft
// payment, both in the same transaction. The platform fee is carved out
// of the total up front so payout amounts never drift from what was
// charged.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := req.ToModel(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking request")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if err = validateRange(booking.StartDate, booking.EndDate); err != nil {
		return res, err
	}

	if booking.TotalPrice <= 0 {
		return res, failure.BadRequestFromString("total_price must be greater than zero") // nolint:wrapcheck
	}

	location, err := s.locationRepo.Get(ctx, shared.FilterByID(booking.LocationID, locationModel.FieldID, locationModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get location")

		return res, fmt.Errorf("failed to get location: %w", err)
	}

	if location.ID == constant.Empty {
		return res, failure.BadRequestFromString("location does not exist") // nolint:wrapcheck
	}

	fee, transferred := paymentModel.SplitAmount(booking.TotalPrice, s.cfg.App.Fee.Percent)

	payment := paymentModel.Payment{
		ID:                uuid.NewString(),
		BookingID:         booking.ID,
		RenterID:          booking.RenterID,
		LenderID:          location.OwnerID,
		AmountCharged:     booking.TotalPrice,
		PlatformFee:       fee,
		AmountTransferred: transferred,
		Status:            paymentModel.StatusDraft,
		Metadata:          booking.Metadata,
	}

	if err = s.repo.CreateWithPayment(ctx, booking, payment); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, err
	}

	booking.AttachPayment(payment.ID)

	s.publishEvent(ctx, eventBookingCreated, booking)
	s.invalidateBookingCaches(ctx, constant.Empty)

	res.FromModel(booking)

	paymentRes := &paymentDto.PaymentResponse{}
	paymentRes.FromModel(payment)
	res.Payment = paymentRes

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	if booking.PaymentID != nil {
		payment, err := s.paymentRepo.Get(ctx, shared.FilterByID(*booking.PaymentID, paymentModel.FieldID, paymentModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking payment")

			return res, fmt.Errorf("failed to get booking payment: %w", err)
		}

		if payment.ID != constant.Empty {
			paymentRes := &paymentDto.PaymentResponse{}
			paymentRes.FromModel(payment)
			res.Payment = paymentRes
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// Confirm moves a pending booking to confirmed and then asks Stripe to
// issue the invoice. The local transition is made durable first: an
// invoicing outage leaves a confirmed booking with a draft payment that
// needs manual attention, never a rolled back confirmation.
func (s *serviceImpl) Confirm(ctx context.Context, id string) (res dto.ConfirmBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status != model.StatusPending {
		return res, failure.InvalidState("only pending bookings can be confirmed") // nolint:wrapcheck
	}

	if booking.PaymentID == nil {
		return res, failure.InvalidState("booking has no payment attached") // nolint:wrapcheck
	}

	payment, err := s.paymentRepo.Get(ctx, shared.FilterByID(*booking.PaymentID, paymentModel.FieldID, paymentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking payment")

		return res, fmt.Errorf("failed to get booking payment: %w", err)
	}

	if payment.Status != paymentModel.StatusDraft {
		return res, failure.InvalidState(fmt.Sprintf("booking payment is %s, expected draft", payment.Status)) // nolint:wrapcheck
	}

	// The guarded update is the arbiter for concurrent confirms: only
	// the transition that still finds the booking pending issues an
	// invoice.
	err = s.repo.UpdateStatusGuarded(ctx, id, model.StatusPending, map[string]any{
		model.FieldStatus:        model.StatusConfirmed,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to confirm booking")

		return res, err
	}

	booking.Status = model.StatusConfirmed

	res.InvoiceIssued = s.issueInvoice(ctx, booking, payment)

	s.publishEvent(ctx, eventBookingConfirmed, booking)
	s.invalidateBookingCaches(ctx, id)

	res.Booking.FromModel(booking)

	return res, nil
}

// issueInvoice is the best-effort half of confirmation. Every failure
// path logs and returns false; the confirmation above it stands.
func (s *serviceImpl) issueInvoice(ctx context.Context, booking model.Booking, payment paymentModel.Payment) bool {
	renter, err := s.userRepo.Get(ctx, shared.FilterByID(booking.RenterID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to load renter for invoicing, needs manual attention")

		return false
	}

	if renter.StripeCustomerID == nil {
		log.Error().Str("bookingID", booking.ID).Str("renterID", booking.RenterID).Msg("renter has no billing customer, invoice needs manual attention")

		return false
	}

	invoice, err := s.invoicer.IssueInvoice(ctx, stripe.IssueInvoiceRequest{
		CustomerID:  *renter.StripeCustomerID,
		Amount:      payment.AmountCharged,
		Description: fmt.Sprintf("Storage booking %s", booking.ID),
		BookingID:   booking.ID,
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to issue invoice, needs manual attention")

		return false
	}

	err = s.paymentRepo.Update(ctx, map[string]any{
		paymentModel.FieldStripeInvoiceID: invoice.ID,
		constant.FieldModifiedAt:          timezone.Now(),
		constant.FieldModifiedBy:          booking.RenterID,
	}, shared.FilterByID(payment.ID, paymentModel.FieldID, paymentModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("invoiceID", invoice.ID).Msg("failed to record invoice id, needs manual attention")

		return false
	}

	return true
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status == model.StatusCancelled {
		return res, failure.InvalidState("booking is already cancelled") // nolint:wrapcheck
	}

	err = s.repo.Update(ctx, map[string]any{
		model.FieldStatus:        model.StatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.Status = model.StatusCancelled

	s.publishEvent(ctx, eventBookingCancelled, booking)
	s.invalidateBookingCaches(ctx, id)

	res.FromModel(booking)

	return res, nil
}

// Update changes dates or price on a live booking. The new range is
// re-validated against every other booking of the location, so moving a
// booking can 409 the same way creating one can.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status == model.StatusCancelled {
		return res, failure.InvalidState("cancelled bookings cannot be updated") // nolint:wrapcheck
	}

	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if req.StartDate != constant.Empty {
		startDate, parseErr := time.Parse(constant.DateOnlyFormat, req.StartDate)
		if parseErr != nil {
			return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", parseErr)) // nolint:wrapcheck
		}

		booking.StartDate = startDate
		fields[model.FieldStartDate] = startDate
	}

	if req.EndDate != constant.Empty {
		endDate, parseErr := time.Parse(constant.DateOnlyFormat, req.EndDate)
		if parseErr != nil {
			return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", parseErr)) // nolint:wrapcheck
		}

		booking.EndDate = endDate
		fields[model.FieldEndDate] = endDate
	}

	if req.TotalPrice > 0 {
		booking.TotalPrice = req.TotalPrice
		fields[model.FieldTotalPrice] = req.TotalPrice
	}

	if err = validateRange(booking.StartDate, booking.EndDate); err != nil {
		return res, err
	}

	if err = s.repo.UpdateGuarded(ctx, booking, fields); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, err
	}

	s.publishEvent(ctx, eventBookingUpdated, booking)
	s.invalidateBookingCaches(ctx, id)

	res.FromModel(booking)

	return res, nil
}

// HandleInvoiceEvent reconciles a Stripe invoice webhook with the local
// payment record. It is idempotent, ignores invoices this system never
// issued, and never touches the booking's own status.
func (s *serviceImpl) HandleInvoiceEvent(ctx context.Context, eventType, invoiceID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleInvoiceEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	target, ok := invoiceEventStatus[eventType]
	if !ok {
		log.Info().Str("event", eventType).Msg("ignoring unhandled invoice event")

		return nil
	}

	payment, err := s.paymentRepo.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoiceID", invoiceID).Msg("failed to resolve invoice")

		return fmt.Errorf("failed to resolve invoice: %w", err)
	}

	if payment.ID == constant.Empty {
		log.Info().Str("invoiceID", invoiceID).Msg("ignoring event for untracked invoice")

		return nil
	}

	if payment.Status == target {
		log.Info().Str("invoiceID", invoiceID).Str("status", target).Msg("payment already reconciled")

		return nil
	}

	err = s.paymentRepo.Update(ctx, map[string]any{
		paymentModel.FieldStatus: target,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: "stripe-webhook",
	}, shared.FilterByID(payment.ID, paymentModel.FieldID, paymentModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("invoiceID", invoiceID).Msg("failed to reconcile payment")

		return fmt.Errorf("failed to reconcile payment: %w", err)
	}

	s.publishEvent(ctx, eventPaymentReconciled, model.Booking{ID: payment.BookingID, Status: target})
	s.invalidateBookingCaches(ctx, payment.BookingID)

	return nil
}
