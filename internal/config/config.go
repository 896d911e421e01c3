package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env               string
	Port              string
	DatabaseURL       string
	RedisURL          string
	SessionSecret     string
	AppURL            string // public site URL used in email links (default https://badir.space)
	ResendAPIKey      string
	MailFrom          string // sender, e.g. "منصة بادر <noreply@badir.space>"
	ContactEmail      string // reply-to on transactional emails
	SupabaseURL       string
	SupabaseSecretKey string // must be the service_role key, not the anon key
	FrontendSuffix    string
	AllowCrossSiteDev bool
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	return &Config{
		Env:               env,
		Port:              port,
		DatabaseURL:       viper.GetString("DATABASE_URL"),
		RedisURL:          viper.GetString("REDIS_URL"),
		SessionSecret:     viper.GetString("SESSION_SECRET"),
		AppURL:            appURL(viper.GetString("APP_URL")),
		ResendAPIKey:      viper.GetString("RESEND_API_KEY"),
		MailFrom:          viper.GetString("MAIL_FROM"),
		ContactEmail:      viper.GetString("CONTACT_EMAIL"),
		SupabaseURL:       viper.GetString("SUPABASE_URL"),
		SupabaseSecretKey: viper.GetString("SUPABASE_SECRET_KEY"),
		FrontendSuffix:    viper.GetString("FRONTEND_URL_ENDS_WITH"),
		AllowCrossSiteDev: strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
	}, nil
}

func appURL(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if s == "" {
		return "https://badir.space"
	}
	return s
}
