package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	CookieDomain        string
	DatabaseURL         string
	RedisURL            string
	JWTSecret           string
	TokenTTL            time.Duration
	SystemAdminEmail    string
	SupabaseURL         string // storage sign URLs, e.g. https://<project>.supabase.co
	SupabaseSecretKey   string // service_role key, not the anon key
	DocumentsBucket     string
	FrontendURL         string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	SendinblueAPIKey    string // Brevo key for notification emails
	MailFrom            string
	LogLevel            string
	AuthRatePerSecond   float64
	AuthRateBurst       int
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("TOKEN_TTL", "24h")
	viper.SetDefault("DOCUMENTS_BUCKET", "documents")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("AUTH_RATE_PER_SECOND", 5)
	viper.SetDefault("AUTH_RATE_BURST", 10)
	viper.SetDefault("MAIL_FROM", "noreply@auditnet.sa")

	env := viper.GetString("NODE_ENV")
	if env == "" {
		env = viper.GetString("APP_ENV")
	}
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	ttl := viper.GetDuration("TOKEN_TTL")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		CookieDomain:        viper.GetString("COOKIE_DOMAIN"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		JWTSecret:           jwtSecret(viper.GetString("JWT_SECRET"), viper.GetString("SESSION_SECRET")),
		TokenTTL:            ttl,
		SystemAdminEmail:    strings.ToLower(strings.TrimSpace(viper.GetString("SYSTEM_ADMIN_EMAIL"))),
		SupabaseURL:         viper.GetString("SUPABASE_URL"),
		SupabaseSecretKey:   viper.GetString("SUPABASE_SECRET_KEY"),
		DocumentsBucket:     viper.GetString("DOCUMENTS_BUCKET"),
		FrontendURL:         viper.GetString("FRONTEND_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		SendinblueAPIKey:    viper.GetString("SENDINBLUE_API_KEY"),
		MailFrom:            viper.GetString("MAIL_FROM"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		AuthRatePerSecond:   viper.GetFloat64("AUTH_RATE_PER_SECOND"),
		AuthRateBurst:       viper.GetInt("AUTH_RATE_BURST"),
	}, nil
}

// IsProduction reports whether cookies must be Secure.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// jwtSecret falls back to the session secret so a single secret is enough in development.
func jwtSecret(secret, sessionSecret string) string {
	if s := strings.TrimSpace(secret); s != "" {
		return s
	}
	return sessionSecret
}
