package config

import (
	"os"
	"strings"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// PublicBaseURL is the frontend origin baked into upload/gallery links and
	// QR targets. Explicit here so the core never reads it from ambient state.
	PublicBaseURL string

	R2               R2Config
	CloudflareImages struct {
		AccountID string
		Token     string
		Hash      string // account hash for Images CDN delivery URLs
	}

	Email struct {
		ResendAPIKey string
		FromAddress  string
		FromName     string
	}

	// TurnstileSecret enables captcha verification on anonymous uploads when
	// set.
	TurnstileSecret string
}

func LoadConfig() *Config {
	cfg := &Config{}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.PublicBaseURL = strings.TrimSuffix(os.Getenv("PUBLIC_BASE_URL"), "/")

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = strings.TrimSuffix(os.Getenv("R2_PUBLIC_URL"), "/")

	cfg.CloudflareImages.AccountID = os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	cfg.CloudflareImages.Token = os.Getenv("CLOUDFLARE_IMAGES_TOKEN")
	cfg.CloudflareImages.Hash = os.Getenv("CLOUDFLARE_IMAGES_HASH")

	cfg.Email.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Email.FromAddress = os.Getenv("EMAIL_FROM_ADDRESS")
	cfg.Email.FromName = os.Getenv("EMAIL_FROM_NAME")

	cfg.TurnstileSecret = os.Getenv("TURNSTILE_SECRET_KEY")

	return cfg
}
