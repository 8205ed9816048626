package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/skyetechdotio/Club-Key-sub001/internal/dtos"
	"github.com/skyetechdotio/Club-Key-sub001/internal/services"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

var bookingValidate = validator.New()

type BookingController struct {
	paymentIntentService *services.PaymentIntentService
	bookingService       *services.BookingService
}

func NewBookingController(
	paymentIntentService *services.PaymentIntentService,
	bookingService *services.BookingService,
) *BookingController {
	return &BookingController{
		paymentIntentService: paymentIntentService,
		bookingService:       bookingService,
	}
}

// CreatePaymentIntentHandler -> POST /api/v1/bookings/payment-intent
func (c *BookingController) CreatePaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	guestID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req dtos.CreatePaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err,
		)
		return
	}
	if err := bookingValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Missing required fields: tee_time_id and number_of_players are required", nil, err,
		)
		return
	}

	resp, err := c.paymentIntentService.CreateBookingIntent(r.Context(), guestID, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GetBookingHandler -> GET /api/v1/bookings/{id}
func (c *BookingController) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	id, ok := parseBookingID(w, r)
	if !ok {
		return
	}

	booking, err := c.bookingService.GetBooking(r.Context(), userID, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewBookingResponse(booking))
}

// CompleteBookingHandler -> POST /api/v1/bookings/{id}/complete
func (c *BookingController) CompleteBookingHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	id, ok := parseBookingID(w, r)
	if !ok {
		return
	}

	booking, err := c.bookingService.CompleteBooking(r.Context(), userID, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewBookingResponse(booking))
}

func parseBookingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid booking id", nil, err,
		)
		return 0, false
	}
	return id, true
}
