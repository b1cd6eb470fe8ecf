// Package config provides centralized configuration values for the site,
// read once from the environment (and an optional .env file) at start-up.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
		// godotenv.Load never overrides variables already set in the environment.
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Failed to parse .env file: %v", err)
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

// getEnvSecret reads a value that must never be echoed to the log.
func getEnvSecret(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// getEnvFirst returns the first non-empty variable among keys.
func getEnvFirst(defaultValue string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return getEnvString(key, defaultValue)
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	log.Printf("Config override: %s=%s", key, strings.Join(out, ","))
	return out
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	ShutdownTimeout    time.Duration
	SiteURL            string
	SiteName           string
	StaticDir          string
	AllowedOrigins     []string

	// Logging
	LogDirectory string
	LogToFile    bool
	LogJSON      bool
	LogLevel     string

	// CMS
	WordPressAPIURL   string
	CMSTimeout        time.Duration
	ContentCacheTTL   time.Duration
	CacheWarmCron     string
	CleanupInterval   time.Duration
	CleanupVerbose    bool
	ContentStaleGrace time.Duration
	FallbackCopyPath  string

	// Booking widget
	BookingURL           string
	BookingScriptURL     string
	BookingStylesheetURL string
	BookingHost          string
	BookingWarmOrigins   []string
	BookingGracePeriod   time.Duration
	UTMSource            string
	UTMMedium            string
	UTMCampaign          string

	// Email delivery
	EmailProvider    string
	ResendAPIKey     string
	MailgunDomain    string
	MailgunAPIKey    string
	EmailFrom        string
	EmailFromName    string
	ContactRecipient string

	// Mailing lists
	MailchimpAPIKey string
	MailchimpListID string
	BrevoAPIKey     string
	BrevoListIDs    []string
	BrevoBaseURL    string

	// Lead ledger
	DBDriver                 string
	DBDSN                    string
	TursoDatabaseURL         string
	TursoAuthToken           string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	SlowQueryThreshold       time.Duration

	// Security
	JWTSecret            string
	AttributionCookieTTL time.Duration
	RateLimitPerMinute   int
	RateLimitBurst       int

	// Images
	ImageThumbnailCeiling      int
	ImageTinyCeiling           int
	ImageAssumedCanonicalWidth int
	ImageOptimizer             bool
	ImageMaxWidth              int
	ImageQuality               int
	MediaCacheDir              string

	// File proxy
	ProxyTimeout time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	SiteURL = strings.TrimRight(getEnvFirst("https://www.magnetomarketing.co", "SITE_URL", "NEXT_PUBLIC_SITE_URL"), "/")
	SiteName = getEnvString("SITE_NAME", "Magneto Marketing")
	StaticDir = getEnvString("STATIC_DIR", "web/static")
	AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://127.0.0.1:8080",
	})

	// Logging
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogJSON = getEnvBool("LOG_JSON", true)
	LogLevel = getEnvString("LOG_LEVEL", "info")

	// CMS
	WordPressAPIURL = getEnvFirst("https://cms.magnetomarketing.co/graphql/",
		"WORDPRESS_API_URL", "NEXT_PUBLIC_WORDPRESS_API_URL", "NEXT_PUBLIC_WORDPRESS_URL")
	CMSTimeout = getEnvDuration("CMS_TIMEOUT", 10*time.Second)
	ContentCacheTTL = getEnvDuration("CMS_CACHE_TTL", 60*time.Second)
	CacheWarmCron = getEnvString("CACHE_WARM_SCHEDULE", "@every 5m")
	CleanupInterval = getEnvDuration("CACHE_CLEANUP_INTERVAL", 10*time.Minute)
	CleanupVerbose = getEnvBool("CACHE_CLEANUP_VERBOSE", false)
	ContentStaleGrace = getEnvDuration("CMS_STALE_GRACE", time.Hour)
	FallbackCopyPath = getEnvString("FALLBACK_COPY_PATH", "")

	// Booking widget
	BookingURL = getEnvFirst("https://calendly.com/mauriciobayuelo/free-discovery-call", "CALENDLY_URL", "BOOKING_URL")
	BookingScriptURL = getEnvString("BOOKING_SCRIPT_URL", "https://assets.calendly.com/assets/external/widget.js")
	BookingStylesheetURL = getEnvString("BOOKING_CSS_URL", "https://assets.calendly.com/assets/external/widget.css")
	BookingHost = getEnvString("BOOKING_HOST", "calendly.com")
	BookingWarmOrigins = getEnvList("BOOKING_WARM_ORIGINS", []string{"https://assets.calendly.com", "https://calendly.com"})
	BookingGracePeriod = getEnvDuration("BOOKING_GRACE_PERIOD", 100*time.Millisecond)
	UTMSource = getEnvString("UTM_SOURCE", "website")
	UTMMedium = getEnvString("UTM_MEDIUM", "cta")
	UTMCampaign = getEnvString("UTM_CAMPAIGN", "strategy_call")

	// Email delivery
	EmailProvider = strings.ToLower(getEnvString("EMAIL_PROVIDER", "resend"))
	ResendAPIKey = getEnvSecret("RESEND_API_KEY")
	MailgunDomain = getEnvString("MAILGUN_DOMAIN", "")
	MailgunAPIKey = getEnvSecret("MAILGUN_API_KEY")
	EmailFrom = getEnvFirst("noreply@magnetomarketing.co", "EMAIL_FROM", "SMTP_USER")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "Magneto Marketing")
	ContactRecipient = getEnvFirst("hello@magnetomarketing.co", "CONTACT_RECIPIENT", "CONTACT_EMAIL")

	// Mailing lists
	MailchimpAPIKey = getEnvSecret("MAILCHIMP_API_KEY")
	MailchimpListID = getEnvString("MAILCHIMP_LIST_ID", "")
	BrevoAPIKey = getEnvSecret("BREVO_API_KEY")
	BrevoListIDs = getEnvList("BREVO_LIST_IDS", nil)
	BrevoBaseURL = getEnvString("BREVO_BASE_URL", "https://api.brevo.com/v3")

	// Lead ledger
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBDSN = getEnvString("DB_DSN", "file:data/leads.db?_journal_mode=WAL&_busy_timeout=5000")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvSecret("TURSO_AUTH_TOKEN")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 50*time.Millisecond)

	// Security
	JWTSecret = getEnvSecret("JWT_SECRET")
	AttributionCookieTTL = getEnvDuration("ATTRIBUTION_COOKIE_TTL", 24*time.Hour)
	RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", 10)
	RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 3)

	// Images
	ImageThumbnailCeiling = getEnvInt("IMAGE_THUMBNAIL_CEILING", 300)
	ImageTinyCeiling = getEnvInt("IMAGE_TINY_CEILING", 100)
	ImageAssumedCanonicalWidth = getEnvInt("IMAGE_ASSUMED_CANONICAL_WIDTH", 1200)
	ImageOptimizer = getEnvBool("IMAGE_OPTIMIZER", false)
	ImageMaxWidth = getEnvInt("IMAGE_MAX_WIDTH", 2560)
	ImageQuality = getEnvInt("IMAGE_QUALITY", 82)
	MediaCacheDir = getEnvString("MEDIA_CACHE_DIR", "data/media-cache")

	// File proxy
	ProxyTimeout = getEnvDuration("PROXY_TIMEOUT", 20*time.Second)
}
