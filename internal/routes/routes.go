package routes

const (
	Health = "/health"

	BookingsPaymentIntent = "/api/v1/bookings/payment-intent"
	BookingByID           = "/api/v1/bookings/{id}"
	BookingComplete       = "/api/v1/bookings/{id}/complete"
	BookingsStripeWebhook = "/api/v1/bookings/stripe/webhook"

	Listings      = "/api/v1/listings"
	ListingCancel = "/api/v1/listings/{id}/cancel"

	HostStripeOnboardingURL = "/api/v1/host/stripe/onboarding-url"
	HostStripeStatus        = "/api/v1/host/stripe/status"
	HostStripeFlowReturn    = "/api/v1/host/stripe/flow/return"
	HostStripeFlowRefresh   = "/api/v1/host/stripe/flow/refresh"
)
