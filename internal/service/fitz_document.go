package service

import (
	"fmt"
	"image"
	"time"

	"pdf-study-assistant/internal/domain"

	"github.com/gen2brain/go-fitz"
)

const (
	defaultPageTimeout = 90 * time.Second
	defaultRenderDPI   = 300.0
)

// FitzParser opens PDFs with MuPDF for text-layer extraction
type FitzParser struct {
	pageTimeout time.Duration
	logger      domain.Logger
}

// NewFitzParser creates a MuPDF-backed parser. A page whose text takes longer
// than pageTimeout to extract is reported as a page error.
func NewFitzParser(pageTimeout time.Duration, logger domain.Logger) *FitzParser {
	if pageTimeout <= 0 {
		pageTimeout = defaultPageTimeout
	}
	return &FitzParser{
		pageTimeout: pageTimeout,
		logger:      logger,
	}
}

func (p *FitzParser) Name() string { return "fitz" }

// Open parses the document from memory
func (p *FitzParser) Open(data []byte) (domain.ParsedDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	meta := doc.Metadata()
	p.logger.Debug("PDF opened", "pages", doc.NumPage(), "title", meta["title"], "author", meta["author"])

	return &fitzTextDocument{doc: doc, pageTimeout: p.pageTimeout}, nil
}

type fitzTextDocument struct {
	doc         *fitz.Document
	pageTimeout time.Duration
}

func (d *fitzTextDocument) NumPage() int { return d.doc.NumPage() }

func (d *fitzTextDocument) PageText(page int) (string, error) {
	type pageResult struct {
		text string
		err  error
	}

	resultCh := make(chan pageResult, 1)
	go func() {
		t, e := d.doc.Text(page)
		resultCh <- pageResult{text: t, err: e}
	}()

	select {
	case res := <-resultCh:
		return res.text, res.err
	case <-time.After(d.pageTimeout):
		// resultCh is buffered, so the extraction goroutine can still exit
		return "", fmt.Errorf("timeout after %v", d.pageTimeout)
	}
}

func (d *fitzTextDocument) Close() error { return d.doc.Close() }

// FitzRasterizer renders PDF pages with MuPDF
type FitzRasterizer struct {
	dpi float64
}

// NewFitzRasterizer creates a rasterizer rendering at dpi
func NewFitzRasterizer(dpi float64) *FitzRasterizer {
	if dpi <= 0 {
		dpi = defaultRenderDPI
	}
	return &FitzRasterizer{dpi: dpi}
}

// Open parses the document from memory for rendering
func (r *FitzRasterizer) Open(data []byte) (domain.RasterDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &fitzRasterDocument{doc: doc, dpi: r.dpi}, nil
}

type fitzRasterDocument struct {
	doc *fitz.Document
	dpi float64
}

func (d *fitzRasterDocument) NumPage() int { return d.doc.NumPage() }

func (d *fitzRasterDocument) RenderPage(page int) (image.Image, error) {
	img, err := d.doc.ImageDPI(page, d.dpi)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (d *fitzRasterDocument) Close() error { return d.doc.Close() }
