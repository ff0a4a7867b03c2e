// internal/models/document.go
package models

import "io"

// PDFDocument is a rendered report streamed from the backend. The receiver
// must close Body.
type PDFDocument struct {
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}
