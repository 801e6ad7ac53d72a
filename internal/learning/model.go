package learning

import (
	"sort"
	"time"

	"tradedocs/internal/model"
)

// Prediction is one candidate target code under a pattern key.
type Prediction struct {
	ToProductCode string  `json:"to_product_code"`
	Confidence    float64 `json:"confidence"`
	UsageCount    int     `json:"usage_count"`
}

// Model is a pattern table built from the mappings of one company pair.
// Keys are the first whitespace-delimited word of the normalized source
// code, values are the candidate targets ranked by confidence. The model
// is a plain value computed on demand, callers decide how long to hold
// on to it.
type Model struct {
	Patterns  map[string][]Prediction `json:"patterns"`
	CreatedAt time.Time               `json:"created_at"`
}

// TrainResult summarizes one training run.
type TrainResult struct {
	Message         string  `json:"message"`
	TrainingSamples int     `json:"training_samples"`
	MappingsCount   int     `json:"mappings_count"`
	ModelAccuracy   float64 `json:"model_accuracy"`
}

// BuildModel groups mappings by the first word of their source code and
// ranks each group's targets by confidence then usage.
func BuildModel(mappings []model.ProductMapping) Model {
	patterns := make(map[string][]Prediction)
	for _, m := range mappings {
		key := patternKey(m.FromProductCode)
		if key == "" {
			continue
		}
		patterns[key] = append(patterns[key], Prediction{
			ToProductCode: m.ToProductCode,
			Confidence:    m.ConfidenceScore,
			UsageCount:    m.UsageCount,
		})
	}
	for key := range patterns {
		preds := patterns[key]
		sort.SliceStable(preds, func(i, j int) bool {
			if preds[i].Confidence != preds[j].Confidence {
				return preds[i].Confidence > preds[j].Confidence
			}
			return preds[i].UsageCount > preds[j].UsageCount
		})
		patterns[key] = preds
	}
	return Model{Patterns: patterns, CreatedAt: time.Now().UTC()}
}

// Predict returns the best candidate for a source code, or (zero, false)
// when the model has no pattern for it.
func (m Model) Predict(fromCode string) (Prediction, bool) {
	preds, ok := m.Patterns[patternKey(fromCode)]
	if !ok || len(preds) == 0 {
		return Prediction{}, false
	}
	return preds[0], true
}

// Accuracy is the fraction of training mappings whose top prediction
// matches their own stored target code.
func (m Model) Accuracy(mappings []model.ProductMapping) float64 {
	if len(mappings) == 0 {
		return 0
	}
	correct := 0
	for _, mp := range mappings {
		if pred, ok := m.Predict(mp.FromProductCode); ok && pred.ToProductCode == mp.ToProductCode {
			correct++
		}
	}
	return float64(correct) / float64(len(mappings))
}

// patternKey shares the feature extractor's word splitting so the model
// and the features agree on what the first word is.
func patternKey(code string) string {
	return ExtractFeatures(code).FirstWord
}
