package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"pdf-study-assistant/internal/domain"

	"golang.org/x/sync/errgroup"
)

// ExtractorOptions tunes the scanned-document fallback
type ExtractorOptions struct {
	// MinTextLength is the trimmed rune count below which the OCR tier runs.
	// Zero disables OCR.
	MinTextLength int
	// OCRWorkers bounds how many pages are rendered and recognized at once,
	// and so how many page images are held in memory.
	OCRWorkers int
}

// DefaultExtractorOptions returns the options used when nothing is configured
func DefaultExtractorOptions() ExtractorOptions {
	return ExtractorOptions{
		MinTextLength: domain.DefaultMinTextLength,
		OCRWorkers:    1,
	}
}

// TextExtractor reads the embedded text layer of a PDF and falls back to
// rasterization + OCR when the layer is too thin to be real text.
type TextExtractor struct {
	parser     domain.PDFParser
	rasterizer domain.Rasterizer
	ocr        domain.OCREngine
	opts       ExtractorOptions
	logger     domain.Logger
}

// NewTextExtractor creates an extractor. rasterizer and ocr may be nil, in
// which case a scanned document degrades to its direct text.
func NewTextExtractor(
	parser domain.PDFParser,
	rasterizer domain.Rasterizer,
	ocr domain.OCREngine,
	opts ExtractorOptions,
	logger domain.Logger,
) *TextExtractor {
	if opts.MinTextLength < 0 {
		opts.MinTextLength = 0
	}
	if opts.OCRWorkers < 1 {
		opts.OCRWorkers = 1
	}
	return &TextExtractor{
		parser:     parser,
		rasterizer: rasterizer,
		ocr:        ocr,
		opts:       opts,
		logger:     logger,
	}
}

// Extract returns the text of the PDF in payload. Only a payload that cannot
// be opened as a PDF is an error (wrapping domain.ErrMalformedDocument); OCR
// problems are recorded on the result and the direct text is returned.
func (e *TextExtractor) Extract(ctx context.Context, payload io.ReadSeeker) (*domain.ExtractionResult, error) {
	data, err := readFromStart(payload)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	direct, pageCount, err := e.extractDirect(data)
	if err != nil {
		return nil, err
	}

	directLength := utf8.RuneCountInString(strings.TrimSpace(direct))
	result := &domain.ExtractionResult{
		Text:             direct,
		Tier:             domain.TierDirect,
		PageCount:        pageCount,
		DirectTextLength: directLength,
	}

	if directLength >= e.opts.MinTextLength {
		e.logger.Debug("Direct text layer accepted", "pages", pageCount, "chars", directLength)
		return result, nil
	}

	e.logger.Info("Direct text below threshold; running OCR", "pages", pageCount, "chars", directLength, "threshold", e.opts.MinTextLength)
	result.OCRAttempted = true

	ocrText, err := e.extractOCR(ctx, payload)
	if err != nil {
		e.logger.Warn("OCR extraction failed; keeping direct text", "error", err, "direct_chars", directLength)
		result.OCRErr = err
		result.OCRFailure = err.Error()
		return result, nil
	}

	result.Text = ocrText
	result.Tier = domain.TierOCR
	return result, nil
}

func (e *TextExtractor) extractDirect(data []byte) (string, int, error) {
	if len(data) == 0 {
		return "", 0, fmt.Errorf("%w: empty payload", domain.ErrMalformedDocument)
	}

	doc, err := e.parser.Open(data)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", domain.ErrMalformedDocument, err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	var sb strings.Builder
	for i := 0; i < numPages; i++ {
		text, err := doc.PageText(i)
		if err != nil {
			e.logger.Warn("Failed to extract text from page", "page", i+1, "total", numPages, "parser", e.parser.Name(), "error", err)
			continue
		}
		sb.WriteString(sanitizeText(text))
	}
	return sb.String(), numPages, nil
}

// extractOCR re-reads the payload and recognizes every page. Page images are
// released as soon as their text is known.
func (e *TextExtractor) extractOCR(ctx context.Context, payload io.ReadSeeker) (string, error) {
	if e.rasterizer == nil || e.ocr == nil {
		return "", domain.ErrOCRUnavailable
	}

	data, err := readFromStart(payload)
	if err != nil {
		return "", fmt.Errorf("re-read payload: %w", err)
	}

	doc, err := e.rasterizer.Open(data)
	if err != nil {
		return "", fmt.Errorf("open for rasterization: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pages := make([]string, numPages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.OCRWorkers)
	for i := 0; i < numPages; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			img, err := doc.RenderPage(i)
			if err != nil {
				return fmt.Errorf("render page %d: %w", i+1, err)
			}
			text, err := e.ocr.Recognize(gctx, img)
			if err != nil {
				return fmt.Errorf("recognize page %d: %w", i+1, err)
			}
			pages[i] = sanitizeText(text)
			e.logger.Debug("OCR page done", "page", i+1, "total", numPages, "engine", e.ocr.Name())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return strings.Join(pages, ""), nil
}

func readFromStart(payload io.ReadSeeker) ([]byte, error) {
	if payload == nil {
		return nil, errors.New("nil payload")
	}
	if _, err := payload.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to start: %w", err)
	}
	return io.ReadAll(payload)
}
