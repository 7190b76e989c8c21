package driven

import "context"

// Extraction is the parsed output of a content extraction call.
type Extraction struct {
	// Text is the extracted plain text.
	Text string

	// Metadata holds document metadata reported by the extractor
	// (dc_title, author fields and similar).
	Metadata map[string]string
}

// ContentExtractor extracts text and metadata from binary file
// content. Only the filename is sent for type detection; extractors do
// their own content-type sniffing, which beats guessing a MIME type
// here. Any error is non-fatal to indexing: the caller degrades to a
// reference-only file record.
type ContentExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (*Extraction, error)
}
