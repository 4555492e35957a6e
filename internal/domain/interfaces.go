package domain

import (
	"context"
	"image"
	"io"
	"time"
)

// PDFParser opens a PDF payload for direct text-layer extraction
type PDFParser interface {
	Name() string
	Open(data []byte) (ParsedDocument, error)
}

// Rasterizer opens a PDF payload for page rendering
type Rasterizer interface {
	Open(data []byte) (RasterDocument, error)
}

// OCREngine recognizes the text of a single rendered page
type OCREngine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// TextExtractor converts a PDF payload into plain text
type TextExtractor interface {
	Extract(ctx context.Context, payload io.ReadSeeker) (*ExtractionResult, error)
}

// StudyAgent produces study material from extracted text
type StudyAgent interface {
	Summarize(ctx context.Context, text string) (string, error)
	GenerateQuiz(ctx context.Context, text string, numQuestions int) ([]QuizQuestion, error)
}

// SessionStore keeps study sessions between requests
type SessionStore interface {
	Save(session *StudySession) error
	Get(id string) (*StudySession, error)
	// Update applies fn to a live session and returns a copy of the result.
	// A missing or expired session is ErrSessionNotFound and is not recreated.
	Update(id string, fn func(*StudySession)) (*StudySession, error)
	Delete(id string) error
}

// StudyService defines the operations exposed to the HTTP and CLI callers.
// Sessions belong to the ownerID they were uploaded with; an empty ownerID
// is the anonymous owner used when authentication is off.
type StudyService interface {
	Extract(ctx context.Context, originalName string, payload io.ReadSeeker, size int64) (*ExtractionResult, error)
	Upload(ctx context.Context, ownerID, originalName string, payload io.ReadSeeker, size int64) (*StudySession, error)
	GetSession(ownerID, id string) (*StudySession, error)
	DeleteSession(ownerID, id string) error
	Summarize(ctx context.Context, ownerID, id string) (*StudySession, error)
	GenerateQuiz(ctx context.Context, ownerID, id string, numQuestions int) (*Quiz, error)
	// RequireAgent reports ErrAgentUnavailable when no study agent is configured
	RequireAgent() error
}

// AuthService validates bearer tokens
type AuthService interface {
	ValidateToken(token string) (*SupabaseUser, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetAllowedOrigins() []string
	GetPDFParser() string
	GetOCREnabled() bool
	GetOCRMinTextLength() int
	GetOCRLanguages() []string
	GetOCRDPI() float64
	GetOCRWorkers() int
	GetPageTimeout() time.Duration
	GetGCPProjectID() string
	GetGCPLocation() string
	GetGeminiModel() string
	GetSessionTTL() time.Duration
}
