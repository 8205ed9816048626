package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/skyetechdotio/Club-Key-sub001/internal/dtos"
	"github.com/skyetechdotio/Club-Key-sub001/internal/services"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

// WebhookSecretSource supplies the current webhook signing secret. With
// dynamic endpoint management the secret only exists after ConnectService
// has registered the endpoint.
type WebhookSecretSource interface {
	WebhookSecret() string
}

// StripeWebhookController receives payment lifecycle events for bookings.
type StripeWebhookController struct {
	secretSource   WebhookSecretSource
	webhookService *services.WebhookService
}

func NewStripeWebhookController(secretSource WebhookSecretSource, webhookService *services.WebhookService) *StripeWebhookController {
	return &StripeWebhookController{
		secretSource:   secretSource,
		webhookService: webhookService,
	}
}

// WebhookHandler -> POST /api/v1/bookings/stripe/webhook
//
// Signature failures and malformed payloads are the only non-2xx outcomes.
// Once the event is verified and recorded in the ledger, downstream store
// hiccups are best-effort: Stripe must not redeliver an event we have
// durably received.
func (c *StripeWebhookController) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	secret := c.secretSource.WebhookSecret()
	if secret == "" {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, "Webhook secret not configured", nil,
		)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidSignature, "Missing stripe-signature header", nil,
		)
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Could not read request body", nil, err,
		)
		return
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, secret)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidSignature, "Invalid signature", nil, err,
		)
		return
	}

	duplicate, err := c.webhookService.RegisterEvent(r.Context(), &event)
	if err != nil {
		// Ledger lookup failed; nothing recorded, so a retry is safe and wanted.
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, "Internal server error", nil, err,
		)
		return
	}
	if duplicate {
		utils.RespondWithJSON(w, http.StatusOK, dtos.WebhookReceivedResponse{Received: true})
		return
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			utils.Logger.WithError(err).Error("Could not parse payment intent in payment_intent.succeeded")
		} else if err := c.webhookService.HandlePaymentIntentSucceeded(r.Context(), &pi); err != nil {
			utils.Logger.WithError(err).Errorf("Failed handling payment_intent.succeeded for %s", pi.ID)
		}

	case stripe.EventTypePaymentIntentPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			utils.Logger.WithError(err).Error("Could not parse payment intent in payment_intent.payment_failed")
		} else if err := c.webhookService.HandlePaymentIntentFailed(r.Context(), &pi); err != nil {
			utils.Logger.WithError(err).Errorf("Failed handling payment_intent.payment_failed for %s", pi.ID)
		}

	case stripe.EventTypeChargeRefunded:
		var ch stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			utils.Logger.WithError(err).Error("Could not parse charge in charge.refunded")
		} else if err := c.webhookService.HandleChargeRefunded(r.Context(), &ch); err != nil {
			utils.Logger.WithError(err).Errorf("Failed handling charge.refunded for %s", ch.ID)
		}

	default:
		utils.Logger.Infof("Unhandled Stripe event type: %s", event.Type)
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.WebhookReceivedResponse{Received: true})
}
