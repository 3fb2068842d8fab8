package artifact

import (
	"fmt"
	"math"
	"time"
)

// Estimator is a fitted binary classifier serialized by the offline training
// procedure: a logistic model over a fixed, ordered feature set, with the
// categorical encodings learned at fit time. Features lists exactly the
// columns the model is permitted to see; presenting more or fewer is a
// contract violation, not a degradation.
type Estimator struct {
	TrainedAt    time.Time                     `json:"trained_at"`
	Features     []string                      `json:"features"`
	Coefficients map[string]float64            `json:"coefficients"`
	Intercept    float64                       `json:"intercept"`
	Encodings    map[string]map[string]float64 `json:"encodings,omitempty"`
}

// Validate checks internal consistency after deserialization
func (e *Estimator) Validate() error {
	if len(e.Features) == 0 {
		return fmt.Errorf("%w: no features", ErrInvalidArtifact)
	}
	for _, name := range e.Features {
		_, hasCoef := e.Coefficients[name]
		if !hasCoef {
			return fmt.Errorf("%w: feature %q has no coefficient", ErrInvalidArtifact, name)
		}
	}
	return nil
}

// PredictProba returns P(p1 wins) for the projected row. The row's column set
// must equal the estimator's feature contract exactly.
func (e *Estimator) PredictProba(row map[string]interface{}) (float64, error) {
	if err := e.checkContract(row); err != nil {
		return 0, err
	}

	z := e.Intercept
	for _, name := range e.Features {
		value, err := e.encode(name, row[name])
		if err != nil {
			return 0, err
		}
		z += e.Coefficients[name] * value
	}

	return 1.0 / (1.0 + math.Exp(-z)), nil
}

// Predict returns the discrete class: 1 when P(p1 wins) >= 0.5, else 0
func (e *Estimator) Predict(row map[string]interface{}) (int, error) {
	prob, err := e.PredictProba(row)
	if err != nil {
		return 0, err
	}
	if prob >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

// checkContract enforces exact equality between the projected column set and
// the trained feature set, in both directions.
func (e *Estimator) checkContract(row map[string]interface{}) error {
	for _, name := range e.Features {
		if _, ok := row[name]; !ok {
			return fmt.Errorf("%w: missing column %q", ErrFeatureMismatch, name)
		}
	}
	if len(row) != len(e.Features) {
		expected := make(map[string]bool, len(e.Features))
		for _, name := range e.Features {
			expected[name] = true
		}
		for name := range row {
			if !expected[name] {
				return fmt.Errorf("%w: unexpected column %q", ErrFeatureMismatch, name)
			}
		}
	}
	return nil
}

// encode turns a raw column value into the numeric input the model saw at fit
// time. Categorical columns go through the fitted encoding table; categories
// unseen at fit time map to the zero bucket.
func (e *Estimator) encode(name string, raw interface{}) (float64, error) {
	if table, ok := e.Encodings[name]; ok {
		s, ok := raw.(string)
		if !ok {
			return 0, fmt.Errorf("%w: column %q expects a categorical value", ErrFeatureMismatch, name)
		}
		return table[s], nil
	}

	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: column %q expects a numeric value", ErrFeatureMismatch, name)
	}
}
