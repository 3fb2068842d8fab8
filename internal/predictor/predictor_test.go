package predictor

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThomasBury/AceBet/internal/artifact"
	"github.com/ThomasBury/AceBet/internal/dataset"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testArtifact() *artifact.ModelArtifact {
	return &artifact.ModelArtifact{
		Path:    "model_test.json",
		ModTime: time.Now(),
		Estimator: &artifact.Estimator{
			Features:     []string{"p1", "p2", "rank_p1", "rank_p2"},
			Coefficients: map[string]float64{"p1": 0, "p2": 0, "rank_p1": -0.02, "rank_p2": 0.02},
			Intercept:    0.5,
			Encodings: map[string]map[string]float64{
				"p1": {"Fognini F.": 1, "Jarry N.": 2},
				"p2": {"Fognini F.": 1, "Jarry N.": 2},
			},
		},
	}
}

func testRecord() *dataset.MatchRecord {
	return &dataset.MatchRecord{
		P1:   "Fognini F.",
		P2:   "Jarry N.",
		Date: time.Date(2018, 3, 4, 0, 0, 0, 0, time.UTC),
		Features: map[string]float64{
			"rank_p1": 20,
			"rank_p2": 61,
		},
	}
}

// TestPredictSubjectIsRowP1 tests that the result names the row's p1 as
// subject regardless of caller ordering
func TestPredictSubjectIsRowP1(t *testing.T) {
	inv := NewInvoker(time.Second, testLogger())

	res, err := inv.Predict(context.Background(), testArtifact(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, "Fognini F.", res.PlayerName)
}

// TestPredictProbIsPercentage tests that Prob lands in [0, 100] with one
// decimal place
func TestPredictProbIsPercentage(t *testing.T) {
	inv := NewInvoker(time.Second, testLogger())

	res, err := inv.Predict(context.Background(), testArtifact(), testRecord())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Prob, 0.0)
	assert.LessOrEqual(t, res.Prob, 100.0)

	scaled := res.Prob * 10
	assert.InDelta(t, scaled, float64(int64(scaled+0.5)), 1e-9, "expected at most one decimal place")
}

// TestPredictClassBinary tests that the class label is 0 or 1 and consistent
// with the probability
func TestPredictClassBinary(t *testing.T) {
	inv := NewInvoker(time.Second, testLogger())

	res, err := inv.Predict(context.Background(), testArtifact(), testRecord())
	require.NoError(t, err)
	if res.Prob >= 50.0 {
		assert.Equal(t, 1, res.Class)
	} else {
		assert.Equal(t, 0, res.Class)
	}
}

// TestPredictContractViolation tests that a record outside the feature
// contract fails with ErrPrediction rather than degrading silently
func TestPredictContractViolation(t *testing.T) {
	inv := NewInvoker(time.Second, testLogger())

	rec := testRecord()
	rec.Features["surface_hard"] = 1

	_, err := inv.Predict(context.Background(), testArtifact(), rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrediction)
}

// TestPredictMissingFeature tests the other direction of the contract
func TestPredictMissingFeature(t *testing.T) {
	inv := NewInvoker(time.Second, testLogger())

	rec := testRecord()
	delete(rec.Features, "rank_p2")

	_, err := inv.Predict(context.Background(), testArtifact(), rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrediction)
}

func TestRoundPercent(t *testing.T) {
	assert.Equal(t, 62.5, roundPercent(0.625))
	assert.Equal(t, 62.5, roundPercent(0.62549))
	assert.Equal(t, 0.0, roundPercent(0))
	assert.Equal(t, 100.0, roundPercent(1))
}
