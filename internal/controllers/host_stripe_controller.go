package controllers

import (
	"errors"
	"net/http"

	"github.com/skyetechdotio/Club-Key-sub001/internal/config"
	"github.com/skyetechdotio/Club-Key-sub001/internal/dtos"
	"github.com/skyetechdotio/Club-Key-sub001/internal/services"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

// Frontend destinations the Stripe-hosted onboarding flow bounces back to.
const (
	hostPayoutSettingsPath = "/host/settings/payouts"
)

type HostStripeController struct {
	cfg            *config.Config
	connectService *services.ConnectService
}

func NewHostStripeController(cfg *config.Config, connectService *services.ConnectService) *HostStripeController {
	return &HostStripeController{
		cfg:            cfg,
		connectService: connectService,
	}
}

// GetOnboardingURLHandler -> GET /api/v1/host/stripe/onboarding-url
func (c *HostStripeController) GetOnboardingURLHandler(w http.ResponseWriter, r *http.Request) {
	hostID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	url, err := c.connectService.GetExpressOnboardingURL(r.Context(), hostID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound, "Profile not found", nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeExternalServiceFailure,
			"Could not create onboarding link", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.OnboardingURLResponse{URL: url})
}

// GetFlowStatusHandler -> GET /api/v1/host/stripe/status
func (c *HostStripeController) GetFlowStatusHandler(w http.ResponseWriter, r *http.Request) {
	hostID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	complete, err := c.connectService.GetFlowStatus(r.Context(), hostID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound, "Profile not found", nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeExternalServiceFailure,
			"Could not check onboarding status", nil, err,
		)
		return
	}

	status := dtos.StripeFlowStatusIncomplete
	if complete {
		status = dtos.StripeFlowStatusComplete
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.StripeFlowStatusResponse{Status: status})
}

// FlowReturnHandler -> GET /api/v1/host/stripe/flow/return
func (c *HostStripeController) FlowReturnHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, c.cfg.AppUrl+hostPayoutSettingsPath, http.StatusFound)
}

// FlowRefreshHandler -> GET /api/v1/host/stripe/flow/refresh
func (c *HostStripeController) FlowRefreshHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, c.cfg.AppUrl+hostPayoutSettingsPath, http.StatusFound)
}
