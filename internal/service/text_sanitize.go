package service

import "strings"

// sanitizeText drops invalid UTF-8 sequences (including encoded surrogates)
// and NULL characters. Whitespace and line breaks are left as the backend
// produced them.
func sanitizeText(text string) string {
	if text == "" {
		return text
	}
	text = strings.ToValidUTF8(text, "")
	if strings.IndexByte(text, 0x00) >= 0 {
		text = strings.ReplaceAll(text, "\x00", "")
	}
	return text
}
