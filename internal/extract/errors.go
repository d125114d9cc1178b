package extract

import "errors"

var (
	// ErrExtraction indicates the document content could not be turned
	// into text.
	ErrExtraction = errors.New("text extraction failed")

	// ErrUnsupportedType indicates a content type no extraction path
	// handles.
	ErrUnsupportedType = errors.New("unsupported content type")
)
