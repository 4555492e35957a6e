package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"pdf-study-assistant/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort     string
	MaxFileSize    int64
	LogLevel       string
	SupabaseURL    string
	SupabaseKey    string
	AllowedOrigins []string

	PDFParser        string
	OCREnabled       bool
	OCRMinTextLength int
	OCRLanguages     []string
	OCRDPI           float64
	OCRWorkers       int
	PageTimeout      time.Duration

	GCPProjectID string
	GCPLocation  string
	GeminiModel  string
	SessionTTL   time.Duration
}

var defaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return LoadConfig()
}

// LoadConfig reads the environment into a concrete AppConfig so callers can
// override individual settings
func LoadConfig() *AppConfig {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:     getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		MaxFileSize:    getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL:    getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:    getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		AllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins),

		PDFParser:        strings.ToLower(getEnvOrDefault("PDF_PARSER", "fitz")),
		OCREnabled:       getEnvBoolOrDefault("OCR_ENABLED", true),
		OCRMinTextLength: getEnvIntOrDefault("OCR_MIN_TEXT_LENGTH", domain.DefaultMinTextLength),
		OCRLanguages:     getEnvListOrDefault("OCR_LANGUAGES", []string{"eng"}),
		OCRDPI:           getEnvFloatOrDefault("OCR_DPI", 300),
		OCRWorkers:       getEnvIntOrDefault("OCR_WORKERS", 2),
		PageTimeout:      time.Duration(getEnvIntOrDefault("PAGE_TIMEOUT_SECONDS", 90)) * time.Second,

		GCPProjectID: getEnvOrDefault("GCP_PROJECT_ID", ""),
		GCPLocation:  getEnvOrDefault("GCP_LOCATION", "us-central1"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		SessionTTL:   time.Duration(getEnvIntOrDefault("SESSION_TTL_MINUTES", 60)) * time.Minute,
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetAllowedOrigins returns the origins allowed by CORS
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetPDFParser returns the text-layer backend name ("fitz" or "ledongthuc")
func (c *AppConfig) GetPDFParser() string {
	return c.PDFParser
}

func (c *AppConfig) GetOCREnabled() bool {
	return c.OCREnabled
}

// GetOCRMinTextLength returns the direct-text length below which OCR runs.
// Zero disables the OCR fallback.
func (c *AppConfig) GetOCRMinTextLength() int {
	return c.OCRMinTextLength
}

func (c *AppConfig) GetOCRLanguages() []string {
	return c.OCRLanguages
}

func (c *AppConfig) GetOCRDPI() float64 {
	return c.OCRDPI
}

func (c *AppConfig) GetOCRWorkers() int {
	return c.OCRWorkers
}

// GetPageTimeout returns the per-page text extraction timeout
func (c *AppConfig) GetPageTimeout() time.Duration {
	return c.PageTimeout
}

func (c *AppConfig) GetGCPProjectID() string {
	return c.GCPProjectID
}

func (c *AppConfig) GetGCPLocation() string {
	return c.GCPLocation
}

func (c *AppConfig) GetGeminiModel() string {
	return c.GeminiModel
}

// GetSessionTTL returns how long study sessions are kept
func (c *AppConfig) GetSessionTTL() time.Duration {
	return c.SessionTTL
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvIntOrDefault rejects negative values
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && intValue >= 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits on commas and '+', so OCR_LANGUAGES accepts
// both "eng,deu" and tesseract's "eng+deu".
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == '+' })
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
