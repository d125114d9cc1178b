package api

import (
	"github.com/desistd/desist/internal/classifier"
	"github.com/desistd/desist/internal/extract"
	"github.com/desistd/desist/internal/langdetect"
	"github.com/desistd/desist/internal/pipeline"
	"github.com/desistd/desist/internal/records"
	"github.com/desistd/desist/internal/sinks"
)

// Domain holds the systems that comprise the API: the intake pipeline and
// the record query system.
type Domain struct {
	Pipeline *pipeline.Pipeline
	Records  records.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	cfg := runtime.Config
	db := runtime.Database.Connection()
	logger := runtime.Logger

	var recognizer extract.Recognizer
	if cfg.Pipeline.OCRBaseURL != "" {
		recognizer = extract.NewOCRClient(cfg.Pipeline.OCRBaseURL)
	}

	var completer classifier.Completer
	if cfg.Pipeline.Escalation {
		completer = classifier.NewBreakerCompleter(
			classifier.NewAgentCompleter(cfg.Agent),
		)
	}

	p := pipeline.New(pipeline.Deps{
		Source:     extract.New(recognizer, logger),
		Detector:   langdetect.NewTrigram(),
		Classifier: classifier.New(completer, cfg.Pipeline.EscalationTimeoutDuration(), logger),
		Audit:      sinks.NewAuditStore(db, logger),
		Cases:      sinks.NewCaseStore(db, logger),
		Review:     sinks.NewReviewQueue(runtime.Queue, logger),
		Archive:    sinks.NewArchive(runtime.Storage, logger),
		Logger:     logger,
		Workers:    cfg.Pipeline.Workers,
	})

	return &Domain{
		Pipeline: p,
		Records:  records.New(db, logger, runtime.Pagination),
	}
}
