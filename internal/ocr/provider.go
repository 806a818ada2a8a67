package ocr

import (
	"context"
	"errors"
)

// ErrUnavailable signals that the OCR backend could not be reached or
// refused the request (network, quota, missing credentials). Callers are
// expected to degrade to an empty extraction rather than fail the upload.
var ErrUnavailable = errors.New("ocr provider unavailable")

// Fragment is one positioned piece of recognized text. Position is
// approximate and optional; when absent the fragment order is the only
// layout information available.
type Fragment struct {
	Text        string  `json:"text"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	HasPosition bool    `json:"-"`
}

// Document is the uploaded payload handed to the provider.
type Document struct {
	Filename string
	MIMEType string
	Content  []byte
}

// Result carries whatever the backend produced: positioned fragments when
// the backend supports layout, plus the flattened text in reading order.
type Result struct {
	Fragments []Fragment
	Text      string
}

type Provider interface {
	Extract(ctx context.Context, doc Document) (Result, error)
}

// Disabled is the provider wired when no OCR credentials are configured.
// Every call reports ErrUnavailable so uploads fall back to manual entry.
type Disabled struct{}

func (Disabled) Extract(context.Context, Document) (Result, error) {
	return Result{}, ErrUnavailable
}
