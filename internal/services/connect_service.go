package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/account"
	"github.com/stripe/stripe-go/v82/accountlink"
	"github.com/stripe/stripe-go/v82/webhookendpoint"

	"github.com/skyetechdotio/Club-Key-sub001/internal/config"
	"github.com/skyetechdotio/Club-Key-sub001/internal/constants"
	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
	"github.com/skyetechdotio/Club-Key-sub001/internal/repositories"
	"github.com/skyetechdotio/Club-Key-sub001/internal/routes"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

const createStripeWebhookMaxRetries = 3

var bookingEvents = []string{
	"payment_intent.succeeded",
	"payment_intent.payment_failed",
	"charge.refunded",
}

// ConnectService manages host Stripe Connect Express onboarding and the
// service's own webhook endpoint registration.
type ConnectService struct {
	cfg         *config.Config
	profileRepo repositories.ProfileRepository
	generatedBy string

	mu            sync.Mutex
	webhookID     string
	webhookSecret string
}

func NewConnectService(cfg *config.Config, profileRepo repositories.ProfileRepository) *ConnectService {
	stripe.Key = cfg.StripeSecretKey

	return &ConnectService{
		cfg:         cfg,
		profileRepo: profileRepo,
		generatedBy: cfg.AppName,
	}
}

// WebhookSecret returns the signing secret for the active webhook endpoint.
func (s *ConnectService) WebhookSecret() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.webhookSecret
}

// Start registers the webhook endpoint with Stripe when dynamic endpoint
// management is enabled; otherwise the statically configured secret is used.
func (s *ConnectService) Start(ctx context.Context) error {
	if !s.cfg.LDFlag_DynamicStripeWebhookEndpoint {
		s.mu.Lock()
		s.webhookSecret = s.cfg.StripeWebhookSecret
		s.mu.Unlock()
		return nil
	}

	dest := s.cfg.AppUrl + routes.BookingsStripeWebhook
	id, secret, err := s.ensureStripeEndpoint(ctx, dest, bookingEvents)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.webhookID = id
	s.webhookSecret = secret
	s.mu.Unlock()
	return nil
}

// Stop removes the dynamically created webhook endpoint, if any.
func (s *ConnectService) Stop(ctx context.Context) error {
	if !s.cfg.LDFlag_DynamicStripeWebhookEndpoint {
		return nil
	}
	s.mu.Lock()
	id := s.webhookID
	s.mu.Unlock()

	if id == "" {
		return nil
	}
	delParams := &stripe.WebhookEndpointParams{}
	delParams.Params.Context = ctx
	if _, err := webhookendpoint.Del(id, delParams); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to delete Stripe webhook endpoint %s", id)
	} else {
		utils.Logger.Infof("Deleted Stripe webhook endpoint %s", id)
	}
	return nil
}

// ensureStripeEndpoint deletes any existing endpoint for the URL, then
// creates a fresh one so we always hold its signing secret.
func (s *ConnectService) ensureStripeEndpoint(ctx context.Context, url string, events []string) (string, string, error) {
	if err := s.cleanupStaleEndpoints(ctx, url); err != nil {
		return "", "", err
	}

	create := &stripe.WebhookEndpointParams{
		URL:           stripe.String(url),
		EnabledEvents: toPtrSlice(events),
		Metadata: map[string]string{
			constants.WebhookMetadataGeneratedByKey: s.generatedBy,
		},
		APIVersion: stripe.String(stripe.APIVersion),
	}
	create.Params.Context = ctx

	var tries int
createAttempt:
	tries++
	ep, err := webhookendpoint.New(create)
	if err == nil {
		utils.Logger.Infof("Created Stripe webhook endpoint %s", ep.ID)
		return ep.ID, ep.Secret, nil
	}

	switch {
	case limitErr(err):
		if tries > createStripeWebhookMaxRetries {
			return "", "", fmt.Errorf("endpoint limit reached; retries exhausted: %w", err)
		}
		utils.Logger.Warn("Endpoint limit hit; deleting one endpoint and retrying")
		if rmErr := s.removeOldestStripeEndpoint(ctx, url); rmErr != nil {
			return "", "", rmErr
		}
		goto createAttempt

	case urlTakenErr(err):
		utils.Logger.Warn("URL already taken; deleting existing matching endpoint and retrying")
		if rmErr := s.cleanupStaleEndpoints(ctx, url); rmErr != nil {
			return "", "", rmErr
		}
		goto createAttempt
	}

	return "", "", err
}

func (s *ConnectService) cleanupStaleEndpoints(ctx context.Context, url string) error {
	lp := &stripe.WebhookEndpointListParams{}
	lp.Limit = stripe.Int64(100)
	lp.Context = ctx
	for it := webhookendpoint.List(lp); it.Next(); {
		ep := it.WebhookEndpoint()
		if ep.URL != url {
			continue
		}
		utils.Logger.Infof("Removing stale Stripe endpoint %s", ep.ID)
		delParams := &stripe.WebhookEndpointParams{}
		delParams.Params.Context = ctx
		if _, err := webhookendpoint.Del(ep.ID, delParams); err != nil {
			return fmt.Errorf("delete stale endpoint %s: %w", ep.ID, err)
		}
	}
	return nil
}

// removeOldestStripeEndpoint deletes an endpoint to free capacity, trying
// oldest first. 404s mean another process won the race; try the next one.
func (s *ConnectService) removeOldestStripeEndpoint(ctx context.Context, targetURL string) error {
	lp := &stripe.WebhookEndpointListParams{}
	lp.Limit = stripe.Int64(100)
	lp.Context = ctx

	var removable []*stripe.WebhookEndpoint
	for it := webhookendpoint.List(lp); it.Next(); {
		ep := it.WebhookEndpoint()
		if ep.URL != targetURL {
			removable = append(removable, ep)
		}
	}
	if len(removable) == 0 {
		return fmt.Errorf("no removable webhook endpoints found")
	}

	sort.Slice(removable, func(i, j int) bool {
		return removable[i].Created < removable[j].Created
	})

	for _, ep := range removable {
		_, err := webhookendpoint.Del(ep.ID, nil)
		if err == nil {
			utils.Logger.Infof("Removed oldest Stripe webhook endpoint %s to free slot", ep.ID)
			return nil
		}
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			utils.Logger.Warnf("Webhook %s was already gone; trying next oldest", ep.ID)
			continue
		}
		return fmt.Errorf("failed to delete webhook %s to free slot: %w", ep.ID, err)
	}

	return fmt.Errorf("could not free a webhook slot; all candidates were deleted by other processes")
}

// GetExpressOnboardingURL creates the host's Connect Express account on first
// call, then returns a fresh one-time onboarding link.
func (s *ConnectService) GetExpressOnboardingURL(ctx context.Context, hostID uuid.UUID) (string, error) {
	host, err := s.profileRepo.GetByID(ctx, hostID)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to retrieve profile for GetExpressOnboardingURL")
		return "", fmt.Errorf("could not retrieve profile: %w", err)
	}
	if host == nil {
		return "", utils.ErrNotFound
	}

	var acctID string
	if host.StripeConnectAccountID == nil || *host.StripeConnectAccountID == "" {
		acctID, err = s.initializeStripeConnectExpressAccount(ctx, host)
		if err != nil {
			utils.Logger.WithError(err).Error("Failed to create Stripe Connect account")
			return "", fmt.Errorf("could not create Stripe Connect account: %w", err)
		}
	} else {
		acctID = *host.StripeConnectAccountID
	}

	linkParams := &stripe.AccountLinkParams{
		Account:    stripe.String(acctID),
		ReturnURL:  stripe.String(s.cfg.AppUrl + routes.HostStripeFlowReturn),
		RefreshURL: stripe.String(s.cfg.AppUrl + routes.HostStripeFlowRefresh),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
		CollectionOptions: &stripe.AccountLinkCollectionOptionsParams{
			Fields: stripe.String(stripe.AccountLinkCollectEventuallyDue),
		},
	}
	linkParams.Params.Context = ctx
	acctLink, err := accountlink.New(linkParams)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to create Stripe AccountLink")
		return "", fmt.Errorf("could not create AccountLink: %w", err)
	}
	return acctLink.URL, nil
}

// GetFlowStatus reports whether the host's Connect account can receive
// destination transfers yet.
func (s *ConnectService) GetFlowStatus(ctx context.Context, hostID uuid.UUID) (bool, error) {
	host, err := s.profileRepo.GetByID(ctx, hostID)
	if err != nil {
		return false, fmt.Errorf("could not retrieve profile: %w", err)
	}
	if host == nil {
		return false, utils.ErrNotFound
	}
	if host.StripeConnectAccountID == nil || *host.StripeConnectAccountID == "" {
		return false, nil
	}

	getParams := &stripe.AccountParams{}
	getParams.Params.Context = ctx
	acct, err := account.GetByID(*host.StripeConnectAccountID, getParams)
	if err != nil {
		return false, fmt.Errorf("could not retrieve Connect account: %w", err)
	}
	return acct.DetailsSubmitted && acct.ChargesEnabled, nil
}

func (s *ConnectService) initializeStripeConnectExpressAccount(ctx context.Context, host *models.Profile) (string, error) {
	acctParams := &stripe.AccountParams{
		Type:         stripe.String(string(stripe.AccountTypeExpress)),
		Country:      stripe.String("US"),
		BusinessType: stripe.String(string(stripe.AccountBusinessTypeIndividual)),
		BusinessProfile: &stripe.AccountBusinessProfileParams{
			ProductDescription: stripe.String("Tee time host on ClubKey"),
		},
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
		Metadata: map[string]string{
			constants.WebhookMetadataGeneratedByKey: s.generatedBy,
		},
	}
	acctParams.Params.Context = ctx

	acct, createErr := account.New(acctParams)
	if createErr != nil {
		return "", fmt.Errorf("could not create Stripe Connect account: %w", createErr)
	}
	acctID := acct.ID

	if err := s.profileRepo.UpdateWithRetry(ctx, host.ID, func(stored *models.Profile) error {
		stored.StripeConnectAccountID = &acctID
		return nil
	}); err != nil {
		utils.Logger.WithError(err).Error("Failed to update profile with new Connect account ID")
		return "", fmt.Errorf("could not update profile with new connect account ID: %w", err)
	}

	return acctID, nil
}

func toPtrSlice(events []string) []*string {
	out := make([]*string, len(events))
	for i, s := range events {
		out[i] = stripe.String(s)
	}
	return out
}

func limitErr(err error) bool {
	if se, ok := err.(*stripe.Error); ok && se.Type == stripe.ErrorTypeInvalidRequest {
		return strings.Contains(se.Msg, "Allowed webhook API limit exceeded") ||
			strings.Contains(se.Msg, "16 test webhook endpoints") ||
			strings.Contains(se.Msg, "16 webhook endpoints")
	}
	return false
}

func urlTakenErr(err error) bool {
	if se, ok := err.(*stripe.Error); ok && se.Type == stripe.ErrorTypeInvalidRequest {
		msg := strings.ToLower(se.Msg)
		return strings.Contains(msg, "url has already been taken") ||
			strings.Contains(msg, "url is already in use")
	}
	return false
}
