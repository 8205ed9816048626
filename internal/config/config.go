package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/skyetechdotio/Club-Key-sub001/internal/utils"
)

const (
	AppName             = "booking-service"
	LDConnectionTimeout = 5 * time.Second

	defaultFromEmail = "no-reply@clubkey.golf"
)

type Config struct {
	AppName             string
	AppPort             string
	AppUrl              string
	DBUrl               string
	StripeSecretKey     string
	StripeWebhookSecret string
	SendgridAPIKey      string
	RSAPublicKey        *rsa.PublicKey

	LDFlag_DynamicStripeWebhookEndpoint bool
	LDFlag_SeedDbWithTestData           bool
	LDFlag_CORSHighSecurity             bool
	LDFlag_SendgridSandboxMode          bool
	LDFlag_SendgridFromEmail            string
}

func LoadConfig() *Config {
	// Best-effort: a local .env is a dev convenience, not a requirement.
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file loaded; relying on process environment")
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	appPort := mustGetenv("APP_PORT")
	appUrl := mustGetenv("APP_URL")
	dbURL := mustGetenv("DB_URL")
	stripeSecretKey := mustGetenv("STRIPE_SECRET_KEY")

	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		utils.Logger.Warn("SENDGRID_API_KEY not set; booking notification emails disabled")
	}

	pubB64 := mustGetenv("RSA_PUBLIC_KEY_BASE64")
	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not valid base64")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	cfg := &Config{
		AppName:         AppName,
		AppPort:         appPort,
		AppUrl:          appUrl,
		DBUrl:           dbURL,
		StripeSecretKey: stripeSecretKey,
		SendgridAPIKey:  sendgridAPIKey,
		RSAPublicKey:    pubKey,

		LDFlag_SendgridFromEmail: defaultFromEmail,
	}

	loadFeatureFlags(cfg)

	if !cfg.LDFlag_DynamicStripeWebhookEndpoint {
		cfg.StripeWebhookSecret = mustGetenv("STRIPE_WEBHOOK_SECRET")
	}

	return cfg
}

// loadFeatureFlags pulls operational flags from LaunchDarkly. An absent SDK
// key leaves every flag at its default so local development does not need a
// LaunchDarkly account.
func loadFeatureFlags(cfg *Config) {
	ldSDKKey := os.Getenv("LD_SDK_KEY")
	if ldSDKKey == "" {
		utils.Logger.Warn("LD_SDK_KEY not set; using default feature flag values")
		return
	}

	ldClient, err := ld.MakeClient(ldSDKKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	defer ldClient.Close()

	ctx := ldcontext.NewWithKind("service", AppName)

	cfg.LDFlag_DynamicStripeWebhookEndpoint = boolFlag(ldClient, ctx, "dynamic_stripe_webhook_endpoint")
	cfg.LDFlag_SeedDbWithTestData = boolFlag(ldClient, ctx, "seed_db_with_test_data")
	cfg.LDFlag_CORSHighSecurity = boolFlag(ldClient, ctx, "cors_high_security")
	cfg.LDFlag_SendgridSandboxMode = boolFlag(ldClient, ctx, "sendgrid_sandbox_mode")

	fromEmail, err := ldClient.StringVariation("sendgrid_from_email", ctx, "")
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_from_email flag")
	}
	if fromEmail != "" {
		cfg.LDFlag_SendgridFromEmail = fromEmail
	}
}

func boolFlag(client *ld.LDClient, ctx ldcontext.Context, name string) bool {
	val, err := client.BoolVariation(name, ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatalf("Error retrieving %s flag", name)
	}
	utils.Logger.Debugf("%s flag: %t", name, val)
	return val
}

func mustGetenv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", key)
	}
	return v
}
