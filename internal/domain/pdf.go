package domain

import (
	"errors"
	"image"
	"strings"
)

// ExtractionTier names the strategy that produced an extraction result
type ExtractionTier string

const (
	TierDirect ExtractionTier = "direct"
	TierOCR    ExtractionTier = "ocr"
)

// ExtractionOutcome is the three-way classification callers present to users
type ExtractionOutcome string

const (
	OutcomeText      ExtractionOutcome = "text"
	OutcomeEmpty     ExtractionOutcome = "empty"
	OutcomeMalformed ExtractionOutcome = "malformed"
)

// DefaultMinTextLength is the trimmed direct-text length under which a
// document is treated as scanned.
const DefaultMinTextLength = 100

// ExtractionResult is the output of a single extraction call
type ExtractionResult struct {
	Text             string         `json:"text"`
	Tier             ExtractionTier `json:"tier"`
	PageCount        int            `json:"page_count"`
	DirectTextLength int            `json:"direct_text_length"`
	OCRAttempted     bool           `json:"ocr_attempted"`
	OCRFailure       string         `json:"ocr_failure,omitempty"`

	// OCRErr is set when the OCR tier ran and degraded to the direct text.
	OCRErr error `json:"-"`
}

// Outcome reports whether the result carries any text
func (r *ExtractionResult) Outcome() ExtractionOutcome {
	if r == nil || strings.TrimSpace(r.Text) == "" {
		return OutcomeEmpty
	}
	return OutcomeText
}

// OutcomeOf classifies the return values of TextExtractor.Extract.
// It returns "" for errors that do not wrap ErrMalformedDocument (I/O
// failures reading the payload).
func OutcomeOf(result *ExtractionResult, err error) ExtractionOutcome {
	if err != nil {
		if errors.Is(err, ErrMalformedDocument) {
			return OutcomeMalformed
		}
		return ""
	}
	return result.Outcome()
}

// ParsedDocument is an open PDF exposing its embedded text layer page by page.
// Page indexes are 0-based.
type ParsedDocument interface {
	NumPage() int
	PageText(page int) (string, error)
	Close() error
}

// RasterDocument is an open PDF that renders pages to images. Page indexes
// are 0-based.
type RasterDocument interface {
	NumPage() int
	RenderPage(page int) (image.Image, error)
	Close() error
}
