package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Datastore (Airtable)
	AirtableAPIKey string
	AirtableBaseID string
	AirtableTable  string
	AirtableView   string
	Fields         FieldMap

	// External APIs
	PublicAPIKey    string // building-registry hub service key
	VWorldAPIKey    string
	CodeLookupURL   string // jurisdiction-code lookup endpoint
	RegistryBaseURL string
	VWorldBaseURL   string
	LandStdrYear    string // reference year for land-characteristics lookups

	// Pacing and timeouts
	HTTPTimeout        time.Duration // per external HTTP call
	APIRatePerSecond   int           // shared budget across registry/valuation calls
	RecordDelay        time.Duration // pause between records in a job run
	CodeLookupAttempts int
	CodeLookupDelay    time.Duration

	// Retry ledger
	MaxRetryAttempts int
	RetryResetDays   int

	// Scheduling and HTTP surface
	Schedule string // cron expression for the periodic job
	Port     string

	// Failure notification (SMTP)
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	NotifyTo     string

	// Logging
	LogLevel          string
	LogFormat         string // "json" or "text"
	LogFile           string
	EnableFileLogging bool
}

func Load() *Config {
	httpTimeout, _ := time.ParseDuration(getEnv("HTTP_TIMEOUT", "30s"))
	apiRate, _ := strconv.Atoi(getEnv("API_RATE_PER_SECOND", "4"))
	recordDelay, _ := time.ParseDuration(getEnv("RECORD_DELAY", "250ms"))
	codeAttempts, _ := strconv.Atoi(getEnv("CODE_LOOKUP_ATTEMPTS", "2"))
	codeDelay, _ := time.ParseDuration(getEnv("CODE_LOOKUP_DELAY", "3s"))

	maxRetries, _ := strconv.Atoi(getEnv("MAX_RETRY_ATTEMPTS", "5"))
	resetDays, _ := strconv.Atoi(getEnv("RETRY_RESET_DAYS", "7"))

	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	enableFileLogging, _ := strconv.ParseBool(getEnv("ENABLE_FILE_LOGGING", "false"))

	cfg := &Config{
		AirtableAPIKey: getEnv("AIRTABLE_ACCESS_TOKEN", os.Getenv("AIRTABLE_API_KEY")),
		AirtableBaseID: getEnv("AIRTABLE_BASE_ID", ""),
		AirtableTable:  getEnv("AIRTABLE_TABLE", ""),
		AirtableView:   getEnv("AIRTABLE_VIEW", ""),
		Fields:         LoadFieldMap(os.Getenv("AIRTABLE_FIELDS_PATH")),

		PublicAPIKey:    getEnv("PUBLIC_API_KEY", ""),
		VWorldAPIKey:    getEnv("VWORLD_APIKEY", ""),
		CodeLookupURL:   getEnv("CODE_LOOKUP_URL", ""),
		RegistryBaseURL: getEnv("REGISTRY_BASE_URL", "https://apis.data.go.kr/1613000/BldRgstHubService"),
		VWorldBaseURL:   getEnv("VWORLD_BASE_URL", "https://api.vworld.kr/ned/data"),
		LandStdrYear:    getEnv("LAND_STDR_YEAR", "2024"),

		HTTPTimeout:        httpTimeout,
		APIRatePerSecond:   apiRate,
		RecordDelay:        recordDelay,
		CodeLookupAttempts: codeAttempts,
		CodeLookupDelay:    codeDelay,

		MaxRetryAttempts: maxRetries,
		RetryResetDays:   resetDays,

		Schedule: getEnv("JOB_SCHEDULE", "0 * * * *"),
		Port:     getEnv("PORT", "3003"),

		SMTPHost:     getEnv("SMTP_SERVER", ""),
		SMTPPort:     smtpPort,
		SMTPUser:     getEnv("EMAIL_ADDRESS", ""),
		SMTPPassword: getEnv("EMAIL_PASSWORD", ""),
		NotifyTo:     getEnv("NOTIFICATION_EMAIL_TO", os.Getenv("EMAIL_ADDRESS")),

		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		LogFile:           getEnv("LOG_FILE", "logs/app.log"),
		EnableFileLogging: enableFileLogging,
	}

	if cfg.MaxRetryAttempts <= 0 {
		log.Printf("[Warning] MAX_RETRY_ATTEMPTS=%d is not positive, using 5", cfg.MaxRetryAttempts)
		cfg.MaxRetryAttempts = 5
	}
	if cfg.APIRatePerSecond <= 0 {
		cfg.APIRatePerSecond = 4
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
