package constants

import "time"

// Marketplace fee rates. The application fee is the platform's full cut
// (host side plus guest side) deducted from the destination transfer.
const (
	GuestFeeRate       = 0.05
	HostFeeRate        = 0.10
	ApplicationFeeRate = GuestFeeRate + HostFeeRate
)

// Stripe metadata keys stamped on every PaymentIntent we create, so webhook
// events and Stripe dashboard reconciliation can be traced back to rows here
// without re-deriving any money math.
const (
	WebhookMetadataGeneratedByKey = "generated_by"
	MetadataTeeTimeIDKey          = "tee_time_id"
	MetadataGuestIDKey            = "guest_id"
	MetadataNumberOfPlayersKey    = "number_of_players"
	MetadataHostIDKey             = "host_id"
	MetadataClubNameKey           = "club_name"
	MetadataHostAmountKey         = "host_amount"
	MetadataGuestFeeKey           = "guest_fee"
	MetadataApplicationFeeKey     = "application_fee"
)

// Email subjects and content.
const (
	EmailSubjectBookingConfirmedGuest = "Your tee time is booked!"
	EmailSubjectBookingConfirmedHost  = "Your tee time listing was booked"
	EmailSubjectPaymentFailedGuest    = "We couldn't process your tee time payment"
	EmailSubjectBookingRefundedGuest  = "Your tee time booking was refunded"
)

// Reconciliation job scheduling and timeouts. Listing status is a
// denormalized availability cache; booking status is authoritative. The
// reconciliation job repairs listings that drifted after a soft-warning
// store failure.
const (
	ReconciliationCronSpec   = "*/15 * * * *" // every 15 minutes, UTC
	ReconciliationJobTimeout = 5 * time.Minute
	// A listing younger than this may legitimately sit in pending_payment
	// while the guest finishes the payment sheet.
	ReconciliationPendingGracePeriod = 30 * time.Minute
)
