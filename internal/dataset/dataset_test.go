package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = "testdata/atp_sample.csv"

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// TestLoadSample tests loading a well-formed snapshot
func TestLoadSample(t *testing.T) {
	ds, err := Load(sampleSnapshot)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
	assert.Contains(t, ds.Columns, "rank_p1")
}

// TestLoadMissingFile tests that a missing snapshot maps to ErrSnapshotMissing
func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does_not_exist.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSnapshotMissing)
}

// TestLoadBadSchema tests that missing required columns fail with ErrSchema
func TestLoadBadSchema(t *testing.T) {
	_, err := Load("testdata/bad_schema.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

// TestLoadBadValues tests that non-numeric feature values fail with ErrSchema
func TestLoadBadValues(t *testing.T) {
	_, err := Load("testdata/bad_values.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

// TestFindSymmetry tests that lookup is order-invariant over the player pair
func TestFindSymmetry(t *testing.T) {
	ds, err := Load(sampleSnapshot)
	require.NoError(t, err)

	date := mustDate(t, "2018-03-04")
	forward, err := ds.Find("Fognini F.", "Jarry N.", date)
	require.NoError(t, err)
	reversed, err := ds.Find("Jarry N.", "Fognini F.", date)
	require.NoError(t, err)

	assert.Equal(t, forward, reversed)
	assert.Equal(t, "Fognini F.", forward.P1)
	assert.Equal(t, "Jarry N.", forward.P2)
}

// TestFindFirstMatchWins tests that duplicate rows resolve to snapshot file order
func TestFindFirstMatchWins(t *testing.T) {
	ds, err := Load(sampleSnapshot)
	require.NoError(t, err)

	rec, err := ds.Find("Nadal R.", "Federer R.", mustDate(t, "2018-03-05"))
	require.NoError(t, err)
	// The snapshot carries two rows for this pair and date; the first wins
	assert.Equal(t, 0, rec.Target)
	assert.Equal(t, 1, rec.SetsP1)
}

// TestFindNormalizesDate tests that timestamps collapse to the calendar day
func TestFindNormalizesDate(t *testing.T) {
	ds, err := Load(sampleSnapshot)
	require.NoError(t, err)

	late := time.Date(2018, 3, 4, 23, 15, 0, 0, time.UTC)
	rec, err := ds.Find("Fognini F.", "Jarry N.", late)
	require.NoError(t, err)
	assert.Equal(t, "Fognini F.", rec.P1)
}

// TestFindNotFound tests the missing-record failure mode
func TestFindNotFound(t *testing.T) {
	ds, err := Load(sampleSnapshot)
	require.NoError(t, err)

	_, err = ds.Find("Fognini F.", "Jarry N.", mustDate(t, "2019-01-01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ds.Find("Nobody", "Jarry N.", mustDate(t, "2018-03-04"))
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestProjectionExcludesOutcomes tests the leakage-safe projection
func TestProjectionExcludesOutcomes(t *testing.T) {
	ds, err := Load(sampleSnapshot)
	require.NoError(t, err)

	rec, err := ds.Find("Fognini F.", "Jarry N.", mustDate(t, "2018-03-04"))
	require.NoError(t, err)

	row := rec.Projection()
	for _, name := range OutcomeColumns {
		assert.NotContains(t, row, name)
	}
	assert.Equal(t, "Fognini F.", row["p1"])
	assert.Equal(t, 20.0, row["rank_p1"])
	assert.Len(t, row, 6) // p1, p2 and the four predictor columns
}

// TestOddsParsedAsDecimal tests that bookmaker odds survive as exact decimals
func TestOddsParsedAsDecimal(t *testing.T) {
	ds, err := Load(sampleSnapshot)
	require.NoError(t, err)

	rec, err := ds.Find("Fognini F.", "Jarry N.", mustDate(t, "2018-03-04"))
	require.NoError(t, err)
	assert.Equal(t, "1.57", rec.OddsB365P1.String())
	assert.Equal(t, "2.46", rec.OddsPSP2.String())
}
