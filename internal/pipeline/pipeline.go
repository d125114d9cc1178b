// Package pipeline coordinates the processing of submitted documents:
// extraction, language tagging, classification, routing, and the sink and
// audit writes. Batches run with bounded concurrency; each document fails
// or succeeds on its own, and results come back in submission order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/desistd/desist/internal/classifier"
	"github.com/desistd/desist/internal/extract"
	"github.com/desistd/desist/internal/langdetect"
	"github.com/desistd/desist/internal/router"
	"github.com/desistd/desist/internal/sinks"
)

// Stage names the last processing step a document completed.
type Stage string

// Processing stages in order.
const (
	StageReceived   Stage = "received"
	StageExtracted  Stage = "extracted"
	StageTagged     Stage = "tagged"
	StageClassified Stage = "classified"
	StageRouted     Stage = "routed"
	StageRecorded   Stage = "recorded"
)

// Item is one document submitted for processing.
type Item struct {
	Filename    string
	ContentType string
	Data        []byte
	PageCount   int
}

// Result reports the outcome of processing one document. Error carries the
// failure that stopped the document, if any. AuditError is reported
// separately because an audit write failure never fails the document.
type Result struct {
	DocumentID uuid.UUID          `json:"document_id"`
	Filename   string             `json:"filename"`
	PageCount  int                `json:"page_count,omitempty"`
	Language   string             `json:"language,omitempty"`
	Verdict    classifier.Verdict `json:"verdict,omitempty"`
	Source     classifier.Source  `json:"source,omitempty"`
	Sink       router.SinkName    `json:"sink,omitempty"`
	Stage      Stage              `json:"stage"`
	Error      string             `json:"error,omitempty"`
	AuditError string             `json:"audit_error,omitempty"`
}

// Deps bundles the collaborators the pipeline nodes require.
type Deps struct {
	Source     extract.Source
	Detector   langdetect.Detector
	Classifier *classifier.Classifier
	Audit      sinks.AuditSink
	Cases      sinks.CaseSink
	Review     sinks.ReviewSink
	Archive    sinks.ArchiveSink
	Logger     *slog.Logger
	Workers    int
}

// Pipeline processes documents end to end.
type Pipeline struct {
	deps    Deps
	workers int
	logger  *slog.Logger
}

// New creates a Pipeline. workers below one defaults to one.
func New(deps Deps) *Pipeline {
	workers := deps.Workers
	if workers < 1 {
		workers = 1
	}

	return &Pipeline{
		deps:    deps,
		workers: workers,
		logger:  deps.Logger.With("system", "pipeline"),
	}
}

// ProcessOne runs a single document through the full pipeline. It always
// returns a Result; failures are captured, never propagated as panics.
func (p *Pipeline) ProcessOne(ctx context.Context, item Item) (result Result) {
	r := newRun(item)

	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("document processing panicked",
				"document_id", r.doc.ID,
				"filename", item.Filename,
				"panic", rec,
			)
			r.err = fmt.Errorf("%w: %v", ErrPanic, rec)
			result = r.result()
		}
	}()

	p.process(ctx, r)
	return r.result()
}

// ProcessBatch processes items with bounded concurrency. The returned
// slice matches the input order position for position, regardless of the
// order documents finish in. A failed document never affects its siblings.
func (p *Pipeline) ProcessBatch(ctx context.Context, items []Item) []Result {
	results := make([]Result, len(items))

	g := new(errgroup.Group)
	g.SetLimit(p.workers)

	for i, item := range items {
		g.Go(func() error {
			results[i] = p.ProcessOne(ctx, item)
			return nil
		})
	}

	// Goroutines always return nil; Wait only synchronizes.
	_ = g.Wait()

	return results
}

func (p *Pipeline) process(ctx context.Context, r *run) {
	workDir, err := os.MkdirTemp("", "desist-intake-*")
	if err != nil {
		r.err = fmt.Errorf("%w: %w", ErrWorkspace, err)
		return
	}
	defer os.RemoveAll(workDir)
	r.workDir = workDir

	graph, err := p.buildGraph(r)
	if err != nil {
		r.err = fmt.Errorf("build graph: %w", err)
		return
	}

	start := time.Now()

	if _, err := graph.Execute(ctx, newGraphState()); err != nil {
		if r.err == nil {
			r.err = err
		}
		return
	}

	if r.err != nil {
		return
	}

	p.logger.Info("document processed",
		"document_id", r.doc.ID,
		"filename", r.doc.Filename,
		"verdict", r.doc.Verdict,
		"source", r.outcome.Source,
		"sink", r.sink,
		"duration", time.Since(start),
	)
}
