package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"storeloft/infras/otel"
	"storeloft/infras/stripe"
	"storeloft/internal/domains/booking/service"
	"storeloft/shared/constant"
	"storeloft/shared/failure"
	"storeloft/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	stripeGo "github.com/stripe/stripe-go/v76"
)

const signatureHeader = "Stripe-Signature"

type Handler struct {
	bookingService service.Booking
	invoicer       stripe.Invoicer
	otel           otel.Otel
}

func New(bookingService service.Booking, invoicer stripe.Invoicer, otel otel.Otel) Handler {
	return Handler{
		bookingService: bookingService,
		invoicer:       invoicer,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/webhooks", func(routerGroup chi.Router) {
		routerGroup.Post("/stripe", handler.HandleStripeWebhook)
	})
}

// HandleStripeWebhook ingests invoice lifecycle events from the payment
// provider and reconciles the matching payment records.
// @Summary Handle Stripe webhook events
// @Description Verify and process invoice lifecycle events from Stripe. Events for unknown invoices and redeliveries are acknowledged without changes.
// @Tags Webhook
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Webhook signature"
// @Success 200 {object} response.Message "Event processed"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/webhooks/stripe [post]
func (handler *Handler) HandleStripeWebhook(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".HandleStripeWebhook")
	defer scope.End()

	payload, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, constant.RequestMaxMemory))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read webhook payload")

		response.WithError(writer, failure.BadRequestFromString("failed to read webhook payload"))

		return
	}

	event, err := handler.invoicer.ConstructWebhookEvent(payload, request.Header.Get(signatureHeader))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to verify webhook signature")

		response.WithError(writer, failure.BadRequestFromString("invalid webhook signature"))

		return
	}

	var invoice stripeGo.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("eventType", string(event.Type)).Msg("failed to parse invoice from webhook event")

		response.WithError(writer, failure.BadRequestFromString("failed to parse webhook event"))

		return
	}

	// A verified event is always acknowledged with 200 so the provider
	// stops redelivering it. Reconciliation problems are surfaced through
	// logs and traces instead.
	if err := handler.bookingService.HandleInvoiceEvent(ctx, string(event.Type), invoice.ID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).
			Str("eventType", string(event.Type)).
			Str("invoiceID", invoice.ID).
			Msg("failed to reconcile invoice event")
	}

	scope.AddEvent("Webhook event " + string(event.Type) + " processed")

	response.WithMessage(writer, http.StatusOK, "Event processed")
}
