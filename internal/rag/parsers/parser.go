package parsers

import "io"

// Page 解析出的一页文本
type Page struct {
	Number int // 页码，从1开始
	Text   string
}

// Parser defines the interface for document parsers
type Parser interface {
	// Parse reads from the reader and extracts text content page by page
	Parse(reader io.Reader) ([]Page, error)

	// SupportedExtensions returns the list of supported file extensions (e.g. ".txt")
	SupportedExtensions() []string

	// CanParse checks if the parser supports the given extension
	CanParse(extension string) bool
}
