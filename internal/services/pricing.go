package services

import (
	"math"

	"github.com/skyetechdotio/Club-Key-sub001/internal/constants"
)

// PriceQuote is a booking price breakdown, in dollars. It is computed once
// at intent creation and never recomputed; the webhook path only ever reads
// the persisted copy.
type PriceQuote struct {
	HostAmount     float64
	GuestFee       float64
	TotalAmount    float64
	ApplicationFee float64
}

// QuoteBooking prices a booking:
//
//	hostAmount     = pricePerPlayer * numberOfPlayers
//	guestFee       = round2(hostAmount * 5%)
//	totalAmount    = hostAmount + guestFee
//	applicationFee = round2(hostAmount * 15%)  (10% host fee + 5% guest fee)
//
// All math stays in dollars with 2-decimal rounding; conversion to cents
// happens only at the Stripe gateway boundary so rounding error never
// compounds.
func QuoteBooking(pricePerPlayer float64, numberOfPlayers int) PriceQuote {
	hostAmount := round2(pricePerPlayer * float64(numberOfPlayers))
	guestFee := round2(hostAmount * constants.GuestFeeRate)
	return PriceQuote{
		HostAmount:     hostAmount,
		GuestFee:       guestFee,
		TotalAmount:    round2(hostAmount + guestFee),
		ApplicationFee: round2(hostAmount * constants.ApplicationFeeRate),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
