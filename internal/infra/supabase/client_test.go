package supabase

import (
	"errors"
	"testing"
	"time"

	"pdf-study-assistant/internal/domain"
)

type stubConfig struct {
	url, key string
}

func (c stubConfig) GetServerPort() string             { return "8080" }
func (c stubConfig) GetMaxFileSize() int64             { return 0 }
func (c stubConfig) GetLogLevel() string               { return "info" }
func (c stubConfig) GetSupabaseURL() string            { return c.url }
func (c stubConfig) GetSupabaseKey() string            { return c.key }
func (c stubConfig) GetAllowedOrigins() []string       { return nil }
func (c stubConfig) GetPDFParser() string              { return "fitz" }
func (c stubConfig) GetOCREnabled() bool               { return false }
func (c stubConfig) GetOCRMinTextLength() int          { return 100 }
func (c stubConfig) GetOCRLanguages() []string         { return nil }
func (c stubConfig) GetOCRDPI() float64                { return 300 }
func (c stubConfig) GetOCRWorkers() int                { return 1 }
func (c stubConfig) GetPageTimeout() time.Duration     { return time.Second }
func (c stubConfig) GetGCPProjectID() string           { return "" }
func (c stubConfig) GetGCPLocation() string            { return "" }
func (c stubConfig) GetGeminiModel() string            { return "" }
func (c stubConfig) GetSessionTTL() time.Duration      { return time.Hour }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})         {}
func (nopLogger) Error(string, error, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{})        {}
func (nopLogger) Warn(string, ...interface{})         {}

func TestSupabaseClient_IsConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  stubConfig
		want bool
	}{
		{name: "Both set", cfg: stubConfig{url: "https://x.supabase.co", key: "anon"}, want: true},
		{name: "Missing key", cfg: stubConfig{url: "https://x.supabase.co"}, want: false},
		{name: "Missing URL", cfg: stubConfig{key: "anon"}, want: false},
		{name: "Neither", cfg: stubConfig{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSupabaseClient(tt.cfg, nopLogger{}).IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSupabaseClient_InitializeRequiresConfig(t *testing.T) {
	client := NewSupabaseClient(stubConfig{}, nopLogger{})
	if err := client.Initialize(); err == nil {
		t.Error("Expected error when URL and key are missing")
	}
	if _, err := client.ValidateToken("token"); err == nil {
		t.Error("Expected token validation to fail after failed initialization")
	}
}

func TestSupabaseClient_ValidateTokenBeforeInitialize(t *testing.T) {
	client := NewSupabaseClient(stubConfig{url: "https://x.supabase.co", key: "anon"}, nopLogger{})
	_, err := client.ValidateToken("token")
	if err == nil {
		t.Fatal("Expected error for uninitialized client")
	}
	if errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("Uninitialized client should not report an invalid token, got %v", err)
	}
}
