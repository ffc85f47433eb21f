package stripe

//go:generate go run go.uber.org/mock/mockgen -source=./stripe.go -destination=./mocks/stripe_mock.go -package=mocks

import (
	"context"
	"fmt"
	"storeloft/config"
	"storeloft/infras/otel"
	"storeloft/shared/constant"

	"github.com/rs/zerolog/log"
	stripeGo "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	otelAttrCustomer = "customer_id"
	otelAttrBooking  = "booking_id"
	otelAttrInvoice  = "invoice_id"

	metadataBookingKey = "booking_id"
)

// Invoice is the subset of the provider invoice the booking workflow
// tracks locally.
type Invoice struct {
	ID               string
	Status           string
	HostedInvoiceURL string
}

type IssueInvoiceRequest struct {
	CustomerID  string
	Amount      int64
	Currency    string
	Description string
	BookingID   string
}

type Invoicer interface {
	IssueInvoice(ctx context.Context, req IssueInvoiceRequest) (Invoice, error)
	ConstructWebhookEvent(payload []byte, signature string) (stripeGo.Event, error)
}

type invoicerImpl struct {
	sc   *client.API
	cfg  *config.Config
	otel otel.Otel
}

// New builds the invoicing collaborator. The client is constructed here,
// from configuration, and injected everywhere else.
func New(cfg *config.Config, otl otel.Otel) Invoicer {
	sc := client.New(cfg.External.Stripe.SecretKey, nil)

	log.Info().Msg("Stripe client initialized")

	return &invoicerImpl{
		sc:   sc,
		cfg:  cfg,
		otel: otl,
	}
}

// IssueInvoice creates a send-invoice style invoice for the booking
// amount and emails it to the renter's billing customer.
func (s *invoicerImpl) IssueInvoice(ctx context.Context, req IssueInvoiceRequest) (res Invoice, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelStripeScopeName, constant.OtelStripeScopeName+".IssueInvoice")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		otelAttrCustomer: req.CustomerID,
		otelAttrBooking:  req.BookingID,
	})

	currency := req.Currency
	if currency == constant.Empty {
		currency = s.cfg.External.Stripe.Currency
	}

	invoiceParams := &stripeGo.InvoiceParams{
		Params:                      stripeGo.Params{Context: ctx},
		Customer:                    stripeGo.String(req.CustomerID),
		CollectionMethod:            stripeGo.String(string(stripeGo.InvoiceCollectionMethodSendInvoice)),
		DaysUntilDue:                stripeGo.Int64(s.cfg.External.Stripe.DaysUntilDue),
		PendingInvoiceItemsBehavior: stripeGo.String("exclude"),
	}
	invoiceParams.AddMetadata(metadataBookingKey, req.BookingID)

	inv, err := s.sc.Invoices.New(invoiceParams)
	if err != nil {
		log.Error().Err(err).Str("bookingID", req.BookingID).Msg("failed to create invoice")

		return res, fmt.Errorf("failed to create invoice: %w", err)
	}

	scope.SetAttribute(otelAttrInvoice, inv.ID)

	_, err = s.sc.InvoiceItems.New(&stripeGo.InvoiceItemParams{
		Params:      stripeGo.Params{Context: ctx},
		Customer:    stripeGo.String(req.CustomerID),
		Invoice:     stripeGo.String(inv.ID),
		Amount:      stripeGo.Int64(req.Amount),
		Currency:    stripeGo.String(currency),
		Description: stripeGo.String(req.Description),
	})
	if err != nil {
		log.Error().Err(err).Str("invoiceID", inv.ID).Msg("failed to add invoice item")

		return res, fmt.Errorf("failed to add invoice item: %w", err)
	}

	sent, err := s.sc.Invoices.SendInvoice(inv.ID, &stripeGo.InvoiceSendInvoiceParams{
		Params: stripeGo.Params{Context: ctx},
	})
	if err != nil {
		log.Error().Err(err).Str("invoiceID", inv.ID).Msg("failed to send invoice")

		return res, fmt.Errorf("failed to send invoice: %w", err)
	}

	return Invoice{
		ID:               sent.ID,
		Status:           string(sent.Status),
		HostedInvoiceURL: sent.HostedInvoiceURL,
	}, nil
}

// ConstructWebhookEvent verifies the webhook signature and parses the
// event payload. Callers must reject the request when this fails.
func (s *invoicerImpl) ConstructWebhookEvent(payload []byte, signature string) (stripeGo.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.External.Stripe.WebhookSecret)
	if err != nil {
		return stripeGo.Event{}, fmt.Errorf("failed to verify webhook signature: %w", err)
	}

	return event, nil
}
