package dtos

// Host Connect onboarding flow status values.
const (
	StripeFlowStatusComplete   = "complete"
	StripeFlowStatusIncomplete = "incomplete"
)

type OnboardingURLResponse struct {
	URL string `json:"url"`
}

type StripeFlowStatusResponse struct {
	Status string `json:"status"`
}

// WebhookReceivedResponse acknowledges a processed (or deliberately skipped)
// webhook delivery so Stripe stops retrying it.
type WebhookReceivedResponse struct {
	Received bool `json:"received"`
}
