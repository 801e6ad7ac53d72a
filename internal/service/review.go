package service

import (
	"context"
	"errors"
	"strings"

	"tradedocs/internal/learning"
	"tradedocs/internal/model"
	"tradedocs/internal/repository"
)

// ErrNotProcessed is returned when review is requested before processing
// has finished.
var ErrNotProcessed = errors.New("document is not processed yet")

// reviewableFields are the extracted fields that carry product identifiers
// and therefore get translation suggestions attached.
var reviewableFields = map[string]bool{
	"product_code":        true,
	"product_description": true,
}

// ReviewField is an extracted field annotated with a translation suggestion
// when one applies.
type ReviewField struct {
	model.ExtractedField
	Suggestion *learning.Suggestion `json:"suggestion,omitempty"`
}

// ReviewDocument is the full read model for a human reviewer.
type ReviewDocument struct {
	Document *model.Document `json:"document"`
	Fields   []ReviewField   `json:"fields"`
}

// FieldCorrection is one reviewer-confirmed field value. OriginalValue and
// ConfidenceScore are optional: the original defaults to the persisted field
// value and the confidence to 1.0 (fully verified).
type FieldCorrection struct {
	FieldName       string  `json:"field_name"`
	FieldValue      string  `json:"field_value"`
	OriginalValue   string  `json:"original_value,omitempty"`
	ConfidenceScore float64 `json:"confidence_score,omitempty"`
}

// ReviewService exposes the human-in-the-loop side of ingestion: reading a
// processed document with suggestions and feeding confirmed values back
// into the mapping store.
type ReviewService interface {
	// DocumentForReview returns a processed document with its extracted
	// fields, product fields annotated with translation suggestions.
	DocumentForReview(ctx context.Context, documentID string) (*ReviewDocument, error)

	// ApplyCorrections stores reviewer-confirmed values as verified fields
	// and records product corrections as manual mappings.
	ApplyCorrections(ctx context.Context, documentID, reviewer string, corrections []FieldCorrection) (*ReviewDocument, error)
}

type reviewService struct {
	docs     repository.DocumentRepository
	content  repository.ContentRepository
	mappings repository.MappingRepository
	engine   *learning.Engine
}

// NewReviewService constructs a ReviewService.
func NewReviewService(docs repository.DocumentRepository, content repository.ContentRepository, mappings repository.MappingRepository, engine *learning.Engine) ReviewService {
	return &reviewService{docs: docs, content: content, mappings: mappings, engine: engine}
}

func (s *reviewService) DocumentForReview(ctx context.Context, documentID string) (*ReviewDocument, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != model.StatusProcessed {
		return nil, ErrNotProcessed
	}

	fields, err := s.content.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	review := &ReviewDocument{Document: doc, Fields: make([]ReviewField, 0, len(fields))}
	for _, f := range fields {
		rf := ReviewField{ExtractedField: f}
		if reviewableFields[f.FieldName] && strings.TrimSpace(f.FieldValue) != "" {
			sugg, err := s.suggest(ctx, doc, f.FieldValue)
			if err != nil {
				return nil, err
			}
			if sugg.Method != learning.MethodNone {
				rf.Suggestion = sugg
			}
		}
		review.Fields = append(review.Fields, rf)
	}
	return review, nil
}

// suggest tries the full cascade first and falls back to the blended
// closest-match helper so reviewers always see the nearest known code.
func (s *reviewService) suggest(ctx context.Context, doc *model.Document, value string) (*learning.Suggestion, error) {
	sugg, err := s.engine.Suggest(ctx, doc.SenderCompanyID, doc.RecipientCompanyID, value)
	if err != nil {
		return nil, err
	}
	if sugg.Method != learning.MethodNone {
		return sugg, nil
	}
	return s.engine.SuggestClosest(ctx, doc.SenderCompanyID, doc.RecipientCompanyID, value)
}

func (s *reviewService) ApplyCorrections(ctx context.Context, documentID, reviewer string, corrections []FieldCorrection) (*ReviewDocument, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != model.StatusProcessed {
		return nil, ErrNotProcessed
	}

	existing, err := s.content.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	previous := make(map[string]string, len(existing))
	for _, f := range existing {
		previous[f.FieldName] = f.FieldValue
	}

	for _, c := range corrections {
		value := strings.TrimSpace(c.FieldValue)
		if c.FieldName == "" || value == "" {
			continue
		}
		confidence := c.ConfidenceScore
		if confidence <= 0 || confidence > 1 {
			confidence = 1.0
		}
		if _, err := s.content.Upsert(ctx, documentID, c.FieldName, value, confidence, true); err != nil {
			return nil, err
		}
		if reviewableFields[c.FieldName] {
			original := strings.TrimSpace(c.OriginalValue)
			if original == "" {
				original = previous[c.FieldName]
			}
			if original == "" {
				original = value
			}
			_, err := s.mappings.CreateOrUpdate(ctx, &repository.UpsertMapping{
				FromCompanyID:   doc.SenderCompanyID,
				ToCompanyID:     doc.RecipientCompanyID,
				FromProductCode: original,
				ToProductCode:   value,
				ConfidenceScore: confidence,
				IsManual:        true,
				CreatedBy:       reviewer,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return s.DocumentForReview(ctx, documentID)
}
