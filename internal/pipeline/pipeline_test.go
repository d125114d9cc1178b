package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/desistd/desist/internal/classifier"
	"github.com/desistd/desist/internal/document"
	"github.com/desistd/desist/internal/langdetect"
	"github.com/desistd/desist/internal/pipeline"
	"github.com/desistd/desist/internal/router"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// textSource treats the upload body as the extracted text. Failures and
// latency are keyed by the body so tests can shape individual documents.
type textSource struct {
	failing map[string]error
	delays  map[string]time.Duration
}

func (f *textSource) Extract(ctx context.Context, data []byte, contentType, workDir string) (string, error) {
	text := string(data)

	if d, ok := f.delays[text]; ok {
		time.Sleep(d)
	}
	if err, ok := f.failing[text]; ok {
		return "", err
	}

	return text, nil
}

// panickingDetector stands in for a collaborator that escapes its error
// contract entirely.
type panickingDetector struct{}

func (panickingDetector) Detect(text string) string {
	panic("language detector exploded")
}

type recordingSinks struct {
	mu       sync.Mutex
	caseErr  error
	auditErr error
	cases    []router.CasePayload
	reviews  []router.ReviewPayload
	archives []router.ArchivePayload
	audits   []document.AuditRecord
}

func (s *recordingSinks) OpenCase(ctx context.Context, p router.CasePayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.caseErr != nil {
		return s.caseErr
	}
	s.cases = append(s.cases, p)
	return nil
}

func (s *recordingSinks) Enqueue(ctx context.Context, p router.ReviewPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, p)
	return nil
}

func (s *recordingSinks) Archive(ctx context.Context, p router.ArchivePayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archives = append(s.archives, p)
	return nil
}

func (s *recordingSinks) Record(ctx context.Context, rec document.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.auditErr != nil {
		return s.auditErr
	}
	s.audits = append(s.audits, rec)
	return nil
}

func newPipeline(src *textSource, sinks *recordingSinks, workers int) *pipeline.Pipeline {
	return pipeline.New(pipeline.Deps{
		Source:     src,
		Detector:   langdetect.NewTrigram(),
		Classifier: classifier.New(nil, 0, discard()),
		Audit:      sinks,
		Cases:      sinks,
		Review:     sinks,
		Archive:    sinks,
		Logger:     discard(),
		Workers:    workers,
	})
}

func textItem(filename, text string) pipeline.Item {
	return pipeline.Item{
		Filename:    filename,
		ContentType: "text/plain",
		Data:        []byte(text),
	}
}

func TestProcessOneCease(t *testing.T) {
	sinks := &recordingSinks{}
	p := newPipeline(&textSource{}, sinks, 1)

	text := "You are hereby directed to cease and desist all communications with our client."
	result := p.ProcessOne(context.Background(), textItem("letter.pdf", text))

	if result.Error != "" {
		t.Fatalf("Error = %q, want empty", result.Error)
	}
	if result.Verdict != classifier.VerdictCease {
		t.Errorf("Verdict = %s, want %s", result.Verdict, classifier.VerdictCease)
	}
	if result.Sink != router.SinkCaseStore {
		t.Errorf("Sink = %s, want %s", result.Sink, router.SinkCaseStore)
	}
	if result.Stage != pipeline.StageRecorded {
		t.Errorf("Stage = %s, want %s", result.Stage, pipeline.StageRecorded)
	}
	if len(sinks.cases) != 1 {
		t.Fatalf("case writes = %d, want 1", len(sinks.cases))
	}
	if len(sinks.audits) != 1 {
		t.Fatalf("audit writes = %d, want 1", len(sinks.audits))
	}
	if sinks.audits[0].DocumentID != result.DocumentID {
		t.Errorf("audit DocumentID = %s, want %s", sinks.audits[0].DocumentID, result.DocumentID)
	}
	if sinks.audits[0].Verdict != classifier.VerdictCease {
		t.Errorf("audit Verdict = %s, want %s", sinks.audits[0].Verdict, classifier.VerdictCease)
	}
	if sinks.audits[0].Source != string(classifier.SourceFallback) {
		t.Errorf("audit Source = %q, want %q", sinks.audits[0].Source, classifier.SourceFallback)
	}
}

func TestProcessOnePanicReportsResult(t *testing.T) {
	sinks := &recordingSinks{}
	p := pipeline.New(pipeline.Deps{
		Source:     &textSource{},
		Detector:   panickingDetector{},
		Classifier: classifier.New(nil, 0, discard()),
		Audit:      sinks,
		Cases:      sinks,
		Review:     sinks,
		Archive:    sinks,
		Logger:     discard(),
		Workers:    1,
	})

	result := p.ProcessOne(context.Background(), textItem("boom.txt", "cease and desist"))

	if result.Error == "" {
		t.Fatal("Error is empty, want the panic captured")
	}
	if !strings.Contains(result.Error, "language detector exploded") {
		t.Errorf("Error = %q, want the panic message", result.Error)
	}
	if result.Filename != "boom.txt" {
		t.Errorf("Filename = %q, want boom.txt", result.Filename)
	}
	if result.DocumentID == uuid.Nil {
		t.Error("DocumentID is zero, want the intake-assigned id")
	}
	if result.Stage != pipeline.StageExtracted {
		t.Errorf("Stage = %s, want %s", result.Stage, pipeline.StageExtracted)
	}
	if len(sinks.audits) != 0 {
		t.Errorf("audit writes = %d, want 0", len(sinks.audits))
	}
}

func TestProcessOneUncertainCarriesText(t *testing.T) {
	sinks := &recordingSinks{}
	p := newPipeline(&textSource{}, sinks, 1)

	text := "this request needs clarification before any action is possible"
	result := p.ProcessOne(context.Background(), textItem("note.txt", text))

	if result.Sink != router.SinkReviewQueue {
		t.Fatalf("Sink = %s, want %s", result.Sink, router.SinkReviewQueue)
	}
	if len(sinks.reviews) != 1 {
		t.Fatalf("review writes = %d, want 1", len(sinks.reviews))
	}
	if sinks.reviews[0].RawText != text {
		t.Errorf("review RawText = %q, want %q", sinks.reviews[0].RawText, text)
	}
}

func TestProcessOneEmptyTextArchives(t *testing.T) {
	sinks := &recordingSinks{}
	p := newPipeline(&textSource{}, sinks, 1)

	result := p.ProcessOne(context.Background(), textItem("blank.txt", ""))

	if result.Verdict != classifier.VerdictIrrelevant {
		t.Errorf("Verdict = %s, want %s", result.Verdict, classifier.VerdictIrrelevant)
	}
	if result.Sink != router.SinkArchive {
		t.Errorf("Sink = %s, want %s", result.Sink, router.SinkArchive)
	}
	if len(sinks.archives) != 1 {
		t.Errorf("archive writes = %d, want 1", len(sinks.archives))
	}
}

func TestProcessOneExtractionFailure(t *testing.T) {
	src := &textSource{failing: map[string]error{"broken": errors.New("garbled scan")}}
	sinks := &recordingSinks{}
	p := newPipeline(src, sinks, 1)

	result := p.ProcessOne(context.Background(), textItem("broken.pdf", "broken"))

	if result.Error == "" {
		t.Fatal("Error = empty, want extraction failure")
	}
	if !strings.Contains(result.Error, "extraction failed") {
		t.Errorf("Error = %q, want extraction failure", result.Error)
	}
	if result.Stage != pipeline.StageReceived {
		t.Errorf("Stage = %s, want %s", result.Stage, pipeline.StageReceived)
	}
	if len(sinks.audits) != 0 {
		t.Errorf("audit writes = %d, want 0 for unclassified document", len(sinks.audits))
	}
}

func TestProcessOneSinkFailureStillAudits(t *testing.T) {
	sinks := &recordingSinks{caseErr: errors.New("case store down")}
	p := newPipeline(&textSource{}, sinks, 1)

	result := p.ProcessOne(context.Background(), textItem("letter.txt", "cease and desist"))

	if result.Error == "" {
		t.Fatal("Error = empty, want sink failure")
	}
	if result.Stage != pipeline.StageRouted {
		t.Errorf("Stage = %s, want %s", result.Stage, pipeline.StageRouted)
	}
	if result.AuditError != "" {
		t.Errorf("AuditError = %q, want empty", result.AuditError)
	}
	if len(sinks.audits) != 1 {
		t.Errorf("audit writes = %d, want 1 despite sink failure", len(sinks.audits))
	}
}

func TestProcessOneAuditFailureIsNotFatal(t *testing.T) {
	sinks := &recordingSinks{auditErr: errors.New("audit store down")}
	p := newPipeline(&textSource{}, sinks, 1)

	result := p.ProcessOne(context.Background(), textItem("letter.txt", "cease and desist"))

	if result.Error != "" {
		t.Errorf("Error = %q, want empty", result.Error)
	}
	if result.Stage != pipeline.StageRecorded {
		t.Errorf("Stage = %s, want %s", result.Stage, pipeline.StageRecorded)
	}
	if result.AuditError == "" {
		t.Error("AuditError = empty, want audit failure")
	}
	if len(sinks.cases) != 1 {
		t.Errorf("case writes = %d, want 1", len(sinks.cases))
	}
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	src := &textSource{failing: map[string]error{"second": errors.New("garbled scan")}}
	sinks := &recordingSinks{}
	p := newPipeline(src, sinks, 2)

	items := []pipeline.Item{
		textItem("a.txt", "cease and desist"),
		textItem("b.txt", "second"),
		textItem("c.txt", "please see attached invoice"),
	}

	results := p.ProcessBatch(context.Background(), items)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].Error != "" {
		t.Errorf("results[0].Error = %q, want empty", results[0].Error)
	}
	if results[1].Error == "" {
		t.Error("results[1].Error = empty, want extraction failure")
	}
	if results[2].Error != "" {
		t.Errorf("results[2].Error = %q, want empty", results[2].Error)
	}
	if results[0].Verdict != classifier.VerdictCease {
		t.Errorf("results[0].Verdict = %s, want %s", results[0].Verdict, classifier.VerdictCease)
	}
	if results[2].Verdict != classifier.VerdictIrrelevant {
		t.Errorf("results[2].Verdict = %s, want %s", results[2].Verdict, classifier.VerdictIrrelevant)
	}
}

func TestProcessBatchPreservesOrder(t *testing.T) {
	// The slowest document goes first; completion order inverts submission
	// order, but results must not.
	src := &textSource{delays: map[string]time.Duration{
		"first":  30 * time.Millisecond,
		"second": 15 * time.Millisecond,
		"third":  0,
	}}
	sinks := &recordingSinks{}
	p := newPipeline(src, sinks, 3)

	items := []pipeline.Item{
		textItem("first.txt", "first"),
		textItem("second.txt", "second"),
		textItem("third.txt", "third"),
	}

	results := p.ProcessBatch(context.Background(), items)

	want := []string{"first.txt", "second.txt", "third.txt"}
	for i, filename := range want {
		if results[i].Filename != filename {
			t.Errorf("results[%d].Filename = %q, want %q", i, results[i].Filename, filename)
		}
	}
}

func TestProcessBatchEmptyInput(t *testing.T) {
	p := newPipeline(&textSource{}, &recordingSinks{}, 4)

	results := p.ProcessBatch(context.Background(), nil)

	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestProcessBatchUniqueDocumentIDs(t *testing.T) {
	sinks := &recordingSinks{}
	p := newPipeline(&textSource{}, sinks, 4)

	items := make([]pipeline.Item, 8)
	for i := range items {
		items[i] = textItem("same.txt", "cease and desist")
	}

	results := p.ProcessBatch(context.Background(), items)

	seen := make(map[string]bool)
	for _, r := range results {
		id := r.DocumentID.String()
		if seen[id] {
			t.Fatalf("duplicate document id %s", id)
		}
		seen[id] = true
	}
}
