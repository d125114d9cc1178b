package pipeline

import "errors"

var (
	// ErrWorkspace indicates the per-document scratch directory could not
	// be created.
	ErrWorkspace = errors.New("workspace setup failed")

	// ErrExtractFailed indicates extraction produced no usable text.
	ErrExtractFailed = errors.New("extraction failed")

	// ErrRouteFailed indicates the verdict could not be mapped to a sink.
	ErrRouteFailed = errors.New("routing failed")

	// ErrSinkFailed indicates the routed category sink rejected the write.
	ErrSinkFailed = errors.New("sink write failed")

	// ErrAuditFailed indicates the audit record write failed. This is
	// reported alongside the result, never fatal to the document.
	ErrAuditFailed = errors.New("audit write failed")

	// ErrPanic indicates a processing stage panicked. The panic is
	// contained to the document that caused it.
	ErrPanic = errors.New("processing panic")
)
