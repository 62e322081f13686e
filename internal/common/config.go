package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Twilio    TwilioConfig
	LLM       LLMConfig
	RowStore  RowStoreConfig
	Downloads DownloadConfig
	Archive   ArchiveConfig

	// RequirePersist turns a failed row-store append into a user-visible
	// error reply. Off by default: the user gets the success reply and the
	// failure is only logged, matching the at-most-once intake policy.
	RequirePersist bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// TwilioConfig holds messaging-provider credentials for media download
type TwilioConfig struct {
	AccountSID      string
	AuthToken       string
	DownloadTimeout time.Duration
}

// LLMConfig holds generative-model configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// RowStoreConfig selects and configures the tabular persistence backend.
// When SpreadsheetID is set the Google Sheets backend is used; otherwise
// rows are appended to a local XLSX workbook at XLSXPath.
type RowStoreConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsPath string
	XLSXPath        string
}

// DownloadConfig controls where inbound media lands and how long it is kept
type DownloadConfig struct {
	Dir           string
	KeepDownloads bool
}

// ArchiveConfig configures the optional sqlite intake journal
type ArchiveConfig struct {
	DBPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: getEnv("LISTEN_ADDR", ":8080"),
		},
		Twilio: TwilioConfig{
			AccountSID:      getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:       getEnv("TWILIO_AUTH_TOKEN", ""),
			DownloadTimeout: getEnvAsDuration("MEDIA_DOWNLOAD_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			Model:       getEnv("GEMINI_MODEL", "gemini-flash-latest"),
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
		},
		RowStore: RowStoreConfig{
			SpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
			SheetName:       getEnv("SHEETS_SHEET_NAME", "Sheet1"),
			CredentialsPath: getEnv("SHEETS_CREDENTIALS_PATH", "credentials.json"),
			XLSXPath:        getEnv("XLSX_PATH", "./resume_data.xlsx"),
		},
		Downloads: DownloadConfig{
			Dir:           getEnv("DOWNLOAD_DIR", "./downloads"),
			KeepDownloads: getEnvAsBool("INTAKE_KEEP_DOWNLOADS", true),
		},
		Archive: ArchiveConfig{
			DBPath: getEnv("ARCHIVE_DB_PATH", ""),
		},
		RequirePersist: getEnvAsBool("INTAKE_REQUIRE_PERSIST", false),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "LISTEN_ADDR is required", ErrInvalidInput)
	}
	if c.RowStore.SpreadsheetID == "" && c.RowStore.XLSXPath == "" {
		return NewAppError("CONFIG_ERROR", "either SHEETS_SPREADSHEET_ID or XLSX_PATH is required", ErrInvalidInput)
	}
	return nil
}
