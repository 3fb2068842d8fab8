package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEstimator() *Estimator {
	return &Estimator{
		Features:     []string{"p1", "p2", "rank_p1", "rank_p2"},
		Coefficients: map[string]float64{"p1": 0, "p2": 0, "rank_p1": -0.01, "rank_p2": 0.01},
		Intercept:    0,
		Encodings: map[string]map[string]float64{
			"p1": {"Fognini F.": 1, "Jarry N.": 2},
			"p2": {"Fognini F.": 1, "Jarry N.": 2},
		},
	}
}

func testRow() map[string]interface{} {
	return map[string]interface{}{
		"p1":      "Fognini F.",
		"p2":      "Jarry N.",
		"rank_p1": 20.0,
		"rank_p2": 61.0,
	}
}

// TestPredictProbaRange tests that probabilities stay in [0, 1]
func TestPredictProbaRange(t *testing.T) {
	est := testEstimator()
	prob, err := est.PredictProba(testRow())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, prob, 0.0)
	assert.LessOrEqual(t, prob, 1.0)
}

// TestPredictClassThreshold tests the 0.5 class boundary
func TestPredictClassThreshold(t *testing.T) {
	est := testEstimator()

	// rank_p1 < rank_p2 pushes z positive with these coefficients
	class, err := est.Predict(testRow())
	require.NoError(t, err)
	assert.Equal(t, 1, class)

	worse := testRow()
	worse["rank_p1"] = 300.0
	worse["rank_p2"] = 1.0
	class, err = est.Predict(worse)
	require.NoError(t, err)
	assert.Equal(t, 0, class)
}

// TestPredictProbaMissingColumn tests contract enforcement on missing columns
func TestPredictProbaMissingColumn(t *testing.T) {
	est := testEstimator()
	row := testRow()
	delete(row, "rank_p2")

	_, err := est.PredictProba(row)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}

// TestPredictProbaExtraColumn tests contract enforcement on unexpected columns
func TestPredictProbaExtraColumn(t *testing.T) {
	est := testEstimator()
	row := testRow()
	row["surface"] = 1.0

	_, err := est.PredictProba(row)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}

// TestPredictProbaWrongType tests that a numeric value in a categorical slot fails
func TestPredictProbaWrongType(t *testing.T) {
	est := testEstimator()
	row := testRow()
	row["p1"] = 42.0

	_, err := est.PredictProba(row)
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}

// TestEncodeUnseenCategory tests that an unseen player maps to the zero bucket
func TestEncodeUnseenCategory(t *testing.T) {
	est := testEstimator()
	row := testRow()
	row["p1"] = "Unknown Player"

	prob, err := est.PredictProba(row)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, prob, 0.0)
	assert.LessOrEqual(t, prob, 1.0)
}
