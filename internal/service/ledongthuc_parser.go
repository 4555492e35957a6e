package service

import (
	"bytes"
	"fmt"

	"pdf-study-assistant/internal/domain"

	"github.com/ledongthuc/pdf"
)

// LedongthucParser reads the text layer with a pure Go PDF reader. It needs
// no MuPDF install, at the cost of weaker font decoding.
type LedongthucParser struct{}

// NewLedongthucParser creates a pure Go parser
func NewLedongthucParser() *LedongthucParser {
	return &LedongthucParser{}
}

func (p *LedongthucParser) Name() string { return "ledongthuc" }

// Open parses the document from memory
func (p *LedongthucParser) Open(data []byte) (doc domain.ParsedDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("failed to open PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &ledongthucDocument{reader: reader}, nil
}

type ledongthucDocument struct {
	reader *pdf.Reader
}

func (d *ledongthucDocument) NumPage() int { return d.reader.NumPage() }

// PageText extracts one page; the library numbers pages from 1
func (d *ledongthucDocument) PageText(page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: %v", page+1, r)
		}
	}()

	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (d *ledongthucDocument) Close() error { return nil }
