package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skyetechdotio/Club-Key-sub001/internal/models"
	"github.com/skyetechdotio/Club-Key-sub001/internal/repositories"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

// Well-known ids for local development and end-to-end tests.
const (
	SeedHostID  = "aaaaaaaa-aaaa-4aaa-aaaa-aaaaaaaaaaa1"
	SeedGuestID = "aaaaaaaa-aaaa-4aaa-aaaa-aaaaaaaaaaa2"

	seedHostConnectAccountID = "acct_seed_clubkey_host"
)

// SeedAllTestData loads a host with a connected Stripe account, a guest, a
// club, and a few available listings. Idempotent: the seed host profile is
// the sentinel; if it already exists nothing is written.
func SeedAllTestData(
	ctx context.Context,
	profileRepo repositories.ProfileRepository,
	clubRepo repositories.ClubRepository,
	listingRepo repositories.ListingRepository,
) error {
	hostID := uuid.MustParse(SeedHostID)
	guestID := uuid.MustParse(SeedGuestID)

	existing, err := profileRepo.GetByID(ctx, hostID)
	if err != nil {
		return fmt.Errorf("failed to check for sentinel profile: %w", err)
	}
	if existing != nil {
		utils.Logger.Info("booking-service: Seed data already present; skipping seeding.")
		return nil
	}

	connectID := seedHostConnectAccountID
	host := &models.Profile{
		ID:                     hostID,
		Email:                  "seed-host@clubkey.golf",
		FirstName:              "Harper",
		LastName:               "Links",
		StripeConnectAccountID: &connectID,
	}
	if err := profileRepo.Create(ctx, host); err != nil {
		return fmt.Errorf("seed host profile: %w", err)
	}

	guest := &models.Profile{
		ID:        guestID,
		Email:     "seed-guest@clubkey.golf",
		FirstName: "Gale",
		LastName:  "Fairway",
	}
	if err := profileRepo.Create(ctx, guest); err != nil {
		return fmt.Errorf("seed guest profile: %w", err)
	}

	club := &models.Club{
		Name:  "Pebble Creek Golf Club",
		City:  "Scottsdale",
		State: "AZ",
	}
	if err := clubRepo.Create(ctx, club); err != nil {
		return fmt.Errorf("seed club: %w", err)
	}

	teeTimes := []struct {
		daysOut int
		hour    int
		price   float64
		players int
	}{
		{3, 8, 95.00, 4},
		{5, 10, 120.00, 2},
		{7, 14, 150.00, 4},
	}
	for _, tt := range teeTimes {
		day := time.Now().UTC().AddDate(0, 0, tt.daysOut)
		listing := &models.Listing{
			HostID:         hostID,
			ClubID:         club.ID,
			TeeTime:        time.Date(day.Year(), day.Month(), day.Day(), tt.hour, 0, 0, 0, time.UTC),
			PricePerPlayer: tt.price,
			PlayersAllowed: tt.players,
			Status:         models.ListingStatusAvailable,
		}
		if err := listingRepo.Create(ctx, listing); err != nil {
			return fmt.Errorf("seed listing: %w", err)
		}
	}

	utils.Logger.Info("booking-service: Seeding completed successfully.")
	return nil
}
