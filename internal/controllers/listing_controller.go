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

var listingValidate = validator.New()

type ListingController struct {
	listingService *services.ListingService
}

func NewListingController(listingService *services.ListingService) *ListingController {
	return &ListingController{listingService: listingService}
}

// CreateListingHandler -> POST /api/v1/listings
func (c *ListingController) CreateListingHandler(w http.ResponseWriter, r *http.Request) {
	hostID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req dtos.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err,
		)
		return
	}
	if err := listingValidate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid listing fields", nil, err,
		)
		return
	}

	listing, err := c.listingService.CreateListing(r.Context(), hostID, &req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewListingResponse(listing))
}

// CancelListingHandler -> POST /api/v1/listings/{id}/cancel
func (c *ListingController) CancelListingHandler(w http.ResponseWriter, r *http.Request) {
	hostID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid listing id", nil, err,
		)
		return
	}

	if err := c.listingService.CancelListing(r.Context(), hostID, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Listing cancelled"})
}
