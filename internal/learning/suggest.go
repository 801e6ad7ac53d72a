package learning

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"tradedocs/internal/repository"
)

// Suggestion methods, in cascade order.
const (
	MethodExactMatch = "exact_match"
	MethodPattern    = "pattern_based"
	MethodSimilarity = "similarity_based"
	MethodNone       = "none"
)

// Thresholds for the suggestion cascade and training.
const (
	exactMatchThreshold = 0.8
	patternThreshold    = 0.5
	minTrainingMappings = 2
	similarLookupLimit  = 3
)

// Suggestion is the outcome of one translation lookup. Method is always
// set; SuggestedCode is empty when Method is "none".
type Suggestion struct {
	SuggestedCode string  `json:"suggested_code,omitempty"`
	Confidence    float64 `json:"confidence"`
	Method        string  `json:"method"`
	BasedOn       string  `json:"based_on,omitempty"`
	MappingID     string  `json:"mapping_id,omitempty"`
}

// Engine answers product-code translation queries from the mapping store.
type Engine struct {
	repo repository.MappingRepository

	retrainCandidates prometheus.Counter
}

// NewEngine creates a suggestion engine over a mapping repository.
func NewEngine(repo repository.MappingRepository) *Engine {
	return &Engine{repo: repo}
}

// WithRetrainCounter attaches a counter incremented each time feedback
// flags a mapping as a retraining candidate. Optional; nil disables it.
func (e *Engine) WithRetrainCounter(c prometheus.Counter) *Engine {
	e.retrainCandidates = c
	return e
}

// Suggest resolves a source product code for a company pair. It tries, in
// order: a stored high-confidence match, a prediction from the trained
// pattern model, then the most similar known code. Each stage only fires
// above its confidence threshold; when all miss, Method is "none" with
// zero confidence.
func (e *Engine) Suggest(ctx context.Context, fromCompany, toCompany, code string) (*Suggestion, error) {
	best, err := e.repo.FindBestMatch(ctx, fromCompany, toCompany, code)
	if err != nil {
		return nil, err
	}
	if best != nil && best.ConfidenceScore > exactMatchThreshold {
		return &Suggestion{
			SuggestedCode: best.ToProductCode,
			Confidence:    best.ConfidenceScore,
			Method:        MethodExactMatch,
			BasedOn:       best.FromProductCode,
			MappingID:     best.ID,
		}, nil
	}

	mappings, err := e.repo.FindByCompanies(ctx, fromCompany, toCompany)
	if err != nil {
		return nil, err
	}
	if len(mappings) >= minTrainingMappings {
		if pred, ok := BuildModel(mappings).Predict(code); ok && pred.Confidence > patternThreshold {
			return &Suggestion{
				SuggestedCode: pred.ToProductCode,
				Confidence:    pred.Confidence,
				Method:        MethodPattern,
				BasedOn:       patternKey(code),
			}, nil
		}
	}

	similar, err := e.repo.FindSimilar(ctx, fromCompany, toCompany, code, similarLookupLimit)
	if err != nil {
		return nil, err
	}
	// The most similar candidate wins even at similarity zero; ties keep
	// the store's confidence ordering.
	var top *Suggestion
	for _, m := range similar {
		score := Similarity(code, m.FromProductCode)
		if top == nil || score > top.Confidence {
			top = &Suggestion{
				SuggestedCode: m.ToProductCode,
				Confidence:    score,
				Method:        MethodSimilarity,
				BasedOn:       m.FromProductCode,
				MappingID:     m.ID,
			}
		}
	}
	if top != nil {
		return top, nil
	}

	return &Suggestion{Method: MethodNone}, nil
}

// Train rebuilds the pattern model for a company pair and reports its
// size and accuracy. Too little data is a normal outcome, not an error.
func (e *Engine) Train(ctx context.Context, fromCompany, toCompany string) (*TrainResult, error) {
	mappings, err := e.repo.FindByCompanies(ctx, fromCompany, toCompany)
	if err != nil {
		return nil, err
	}
	if len(mappings) < minTrainingMappings {
		return &TrainResult{
			Message:       "Not enough data for training",
			MappingsCount: len(mappings),
		}, nil
	}

	m := BuildModel(mappings)
	samples := 0
	for _, preds := range m.Patterns {
		samples += len(preds)
	}
	return &TrainResult{
		Message:         "Model trained successfully",
		TrainingSamples: samples,
		MappingsCount:   len(mappings),
		ModelAccuracy:   m.Accuracy(mappings),
	}, nil
}
