package pipeline

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/google/uuid"

	"github.com/desistd/desist/internal/classifier"
	"github.com/desistd/desist/internal/document"
	"github.com/desistd/desist/internal/router"
)

// run carries one document's mutable processing state. Nodes close over
// the run rather than the graph state bag so partial progress survives a
// node error and can still be reported in the Result.
type run struct {
	item     Item
	workDir  string
	doc      document.Document
	outcome  classifier.Outcome
	payload  router.Payload
	sink     router.SinkName
	stage    Stage
	err      error
	auditErr error
}

func newRun(item Item) *run {
	return &run{
		item:  item,
		stage: StageReceived,
		doc: document.Document{
			ID:       uuid.New(),
			Filename: item.Filename,
		},
	}
}

func (r *run) result() Result {
	res := Result{
		DocumentID: r.doc.ID,
		Filename:   r.doc.Filename,
		PageCount:  r.item.PageCount,
		Language:   r.doc.Language,
		Stage:      r.stage,
		Sink:       r.sink,
	}

	if r.doc.Verdict != "" {
		res.Verdict = r.outcome.Verdict
		res.Source = r.outcome.Source
	}

	if r.err != nil {
		res.Error = r.err.Error()
	}
	if r.auditErr != nil {
		res.AuditError = r.auditErr.Error()
	}

	return res
}

func newGraphState() state.State {
	return state.New(nil)
}

// buildGraph assembles the linear processing graph for one document:
// extract → detect → classify → route → record.
func (p *Pipeline) buildGraph(r *run) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("desist-intake")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	nodes := map[string]state.StateNode{
		"extract":  p.extractNode(r),
		"detect":   p.detectNode(r),
		"classify": p.classifyNode(r),
		"route":    p.routeNode(r),
		"record":   p.recordNode(r),
	}
	for name, node := range nodes {
		if err := graph.AddNode(name, node); err != nil {
			return nil, err
		}
	}

	edges := [][2]string{
		{"extract", "detect"},
		{"detect", "classify"},
		{"classify", "route"},
		{"route", "record"},
	}
	for _, e := range edges {
		if err := graph.AddEdge(e[0], e[1], nil); err != nil {
			return nil, err
		}
	}

	if err := graph.SetEntryPoint("extract"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("record"); err != nil {
		return nil, err
	}

	return graph, nil
}

func (p *Pipeline) extractNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		text, err := p.deps.Source.Extract(ctx, r.item.Data, r.item.ContentType, r.workDir)
		if err != nil {
			r.err = fmt.Errorf("%w: %w", ErrExtractFailed, err)
			return s, r.err
		}

		r.doc.RawText = text
		r.stage = StageExtracted
		return s, nil
	})
}

func (p *Pipeline) detectNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r.doc.Language = p.deps.Detector.Detect(r.doc.RawText)
		r.stage = StageTagged
		return s, nil
	})
}

func (p *Pipeline) classifyNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r.outcome = p.deps.Classifier.Classify(ctx, r.doc.RawText, r.doc.Language)
		r.doc.Verdict = r.outcome.Verdict
		r.doc.Timestamp = time.Now().UTC()
		r.stage = StageClassified
		return s, nil
	})
}

func (p *Pipeline) routeNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		payload, err := router.Route(r.doc)
		if err != nil {
			r.err = fmt.Errorf("%w: %w", ErrRouteFailed, err)
			return s, r.err
		}

		r.payload = payload
		r.sink = payload.Sink()
		r.stage = StageRouted
		return s, nil
	})
}

// recordNode writes the routed payload and the audit record. The writes
// use a context detached from batch cancellation so an in-flight durable
// write is not abandoned halfway. A sink failure fails the document; an
// audit failure alone is reported but the document still counts as
// recorded.
func (p *Pipeline) recordNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		writeCtx := context.WithoutCancel(ctx)

		if err := p.dispatch(writeCtx, r.payload); err != nil {
			r.err = fmt.Errorf("%w: %w", ErrSinkFailed, err)
		} else {
			r.stage = StageRecorded
		}

		if err := p.deps.Audit.Record(writeCtx, auditRecord(r)); err != nil {
			r.auditErr = fmt.Errorf("%w: %w", ErrAuditFailed, err)
			p.logger.Error("audit write failed",
				"document_id", r.doc.ID,
				"error", err,
			)
		}

		return s, nil
	})
}

func (p *Pipeline) dispatch(ctx context.Context, payload router.Payload) error {
	switch pl := payload.(type) {
	case router.CasePayload:
		return p.deps.Cases.OpenCase(ctx, pl)
	case router.ReviewPayload:
		return p.deps.Review.Enqueue(ctx, pl)
	case router.ArchivePayload:
		return p.deps.Archive.Archive(ctx, pl)
	default:
		return fmt.Errorf("%w: no sink for %T", router.ErrUnroutableVerdict, payload)
	}
}

func auditRecord(r *run) document.AuditRecord {
	return document.AuditRecord{
		DocumentID: r.doc.ID,
		Filename:   r.doc.Filename,
		Verdict:    r.doc.Verdict,
		Language:   r.doc.Language,
		Source:     string(r.outcome.Source),
		RawText:    r.doc.RawText,
		Timestamp:  r.doc.Timestamp,
	}
}
