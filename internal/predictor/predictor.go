// Package predictor applies the feature contract and invokes the resolved
// estimator on a historical match record.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ThomasBury/AceBet/internal/artifact"
	"github.com/ThomasBury/AceBet/internal/dataset"
	"github.com/ThomasBury/AceBet/internal/metrics"
)

// ErrPrediction indicates the estimator invocation failed
var ErrPrediction = errors.New("prediction failed")

// Result is the outcome of one estimator invocation. PlayerName is the
// canonical subject: the row's p1, regardless of how the caller ordered the
// two names. Prob is a percentage rounded to one decimal place.
type Result struct {
	PlayerName string  `json:"player_name"`
	Prob       float64 `json:"prob"`
	Class      int     `json:"class_"`
}

// Invoker scores match records against resolved model artifacts
type Invoker struct {
	timeout time.Duration
	logger  *logrus.Logger
}

// NewInvoker creates an invoker whose estimator calls are bounded by timeout
func NewInvoker(timeout time.Duration, logger *logrus.Logger) *Invoker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Invoker{timeout: timeout, logger: logger}
}

// Predict projects the record onto the feature contract and invokes the
// artifact's estimators. A column set not matching what the artifact expects
// fails with ErrPrediction wrapping the contract detail; so does any other
// estimator failure. The invocation runs under a deadline so a stalled
// estimator cannot hold the request indefinitely.
func (inv *Invoker) Predict(ctx context.Context, art *artifact.ModelArtifact, rec *dataset.MatchRecord) (*Result, error) {
	start := time.Now()
	defer func() {
		metrics.PredictionLatency.Observe(time.Since(start).Seconds())
	}()

	row := rec.Projection()

	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	type outcome struct {
		prob  float64
		class int
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		prob, err := art.Estimator.PredictProba(row)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		class, err := art.Estimator.Predict(row)
		done <- outcome{prob: prob, class: class, err: err}
	}()

	select {
	case <-ctx.Done():
		metrics.PredictionsTotal.WithLabelValues("timeout").Inc()
		return nil, fmt.Errorf("%w: %v", ErrPrediction, ctx.Err())
	case out := <-done:
		if out.err != nil {
			metrics.PredictionsTotal.WithLabelValues("error").Inc()
			inv.logger.WithFields(logrus.Fields{
				"artifact": art.Path,
				"p1":       rec.P1,
				"p2":       rec.P2,
			}).WithError(out.err).Error("Estimator invocation failed")
			return nil, fmt.Errorf("%w: %v", ErrPrediction, out.err)
		}

		metrics.PredictionsTotal.WithLabelValues("ok").Inc()
		return &Result{
			PlayerName: rec.P1,
			Prob:       roundPercent(out.prob),
			Class:      out.class,
		}, nil
	}
}

// roundPercent converts a probability to a percentage with one decimal place
func roundPercent(prob float64) float64 {
	return math.Round(prob*1000) / 10
}
