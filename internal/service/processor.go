package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tradedocs/internal/classify"
	"tradedocs/internal/extract"
	"tradedocs/internal/fields"
	"tradedocs/internal/logging"
	"tradedocs/internal/model"
	"tradedocs/internal/repository"
	"tradedocs/internal/storage"
	"tradedocs/internal/structure"
)

// Confidence assigned to the synthetic fields persisted alongside the
// extracted business fields.
const (
	structureFieldConfidence = 0.9
	rawTextFieldConfidence   = 1.0
)

// DefaultExtractedTextMaxChars bounds how much raw text is persisted as
// the extracted_text field.
const DefaultExtractedTextMaxChars = 5000

// ProcessorMetrics counts processing outcomes.
type ProcessorMetrics struct {
	processedTotal *prometheus.CounterVec
	duration       prometheus.Histogram
}

// NewProcessorMetrics registers processing metrics on the given registry.
func NewProcessorMetrics(reg prometheus.Registerer) (*ProcessorMetrics, error) {
	m := &ProcessorMetrics{
		processedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_processed_total",
				Help: "Total number of document processing runs by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "document_processing_duration_seconds",
				Help:    "Time spent processing one document end to end.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	if err := reg.Register(m.processedTotal); err != nil {
		return nil, err
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// Processor runs the ingestion pipeline for one document: extract text,
// analyze structure, classify, pull business fields and persist everything.
type Processor struct {
	store        storage.Storage
	docs         repository.DocumentRepository
	content      repository.ContentRepository
	log          *logging.Logger
	metrics      *ProcessorMetrics
	maxTextChars int
}

// NewProcessor constructs a Processor. Metrics may be nil.
func NewProcessor(store storage.Storage, docs repository.DocumentRepository, content repository.ContentRepository, log *logging.Logger, metrics *ProcessorMetrics, maxTextChars int) *Processor {
	if maxTextChars <= 0 {
		maxTextChars = DefaultExtractedTextMaxChars
	}
	return &Processor{
		store:        store,
		docs:         docs,
		content:      content,
		log:          log,
		metrics:      metrics,
		maxTextChars: maxTextChars,
	}
}

// Launch starts processing in the background and returns immediately.
// Failures are logged and counted; the document simply never reaches the
// processed status, so callers can observe the stall via its status.
func (p *Processor) Launch(documentID string) {
	go func() {
		ctx := context.Background()
		if err := p.Process(ctx, documentID); err != nil {
			p.log.Error("processing_failed", err, map[string]any{"document_id": documentID})
			p.countOutcome("error")
			return
		}
		p.countOutcome("success")
	}()
}

// Process runs the pipeline synchronously. The document transitions to
// delivered as soon as processing starts and to processed only after every
// extracted field has been persisted.
func (p *Processor) Process(ctx context.Context, documentID string) error {
	start := time.Now()

	doc, err := p.docs.FindByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	if err := p.docs.MarkAsDelivered(ctx, documentID); err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}

	rc, _, err := p.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return fmt.Errorf("fetch content: %w", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	text, err := extract.Extract(doc.OriginalFilename, data)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	docStructure := structure.Analyze(text)

	docType := p.resolveType(ctx, doc, text)

	extracted := fields.Extract(text, docType)
	confidence := fields.Confidence(extracted)

	for name, value := range extracted {
		if _, err := p.content.Upsert(ctx, documentID, name, value, confidence, false); err != nil {
			return fmt.Errorf("persist field %s: %w", name, err)
		}
	}

	structureJSON, err := json.Marshal(docStructure)
	if err != nil {
		return fmt.Errorf("encode structure: %w", err)
	}
	if _, err := p.content.Upsert(ctx, documentID, "document_structure", string(structureJSON), structureFieldConfidence, false); err != nil {
		return fmt.Errorf("persist structure: %w", err)
	}

	rawText := text
	if len(rawText) > p.maxTextChars {
		rawText = rawText[:p.maxTextChars]
	}
	if _, err := p.content.Upsert(ctx, documentID, "extracted_text", rawText, rawTextFieldConfidence, false); err != nil {
		return fmt.Errorf("persist text: %w", err)
	}

	if err := p.docs.MarkAsProcessed(ctx, documentID); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	if p.metrics != nil {
		p.metrics.duration.Observe(time.Since(start).Seconds())
	}
	p.log.Info("document_processed", map[string]any{
		"document_id":   documentID,
		"document_type": string(docType),
		"field_count":   len(extracted),
		"confidence":    confidence,
		"duration_ms":   time.Since(start).Milliseconds(),
	})
	return nil
}

// resolveType keeps a caller-declared type but replaces an
// extension-derived default with the content-based classification.
func (p *Processor) resolveType(ctx context.Context, doc *model.Document, text string) model.DocumentType {
	current := doc.DocumentType
	if current != "" && current != classify.FromExtension(doc.OriginalFilename) {
		return current
	}

	detected := classify.Classify(text)
	if detected == current {
		return current
	}
	if err := p.docs.SetDocumentType(ctx, doc.ID, detected); err != nil {
		p.log.Error("set_document_type_failed", err, map[string]any{"document_id": doc.ID})
		return current
	}
	return detected
}

func (p *Processor) countOutcome(outcome string) {
	if p.metrics != nil {
		p.metrics.processedTotal.WithLabelValues(outcome).Inc()
	}
}
