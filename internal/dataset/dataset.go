package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ThomasBury/AceBet/internal/metrics"
)

// requiredColumns must be present for the snapshot to be usable at all
var requiredColumns = []string{"p1", "p2", "date"}

// Dataset is an in-memory view of a snapshot file, rows in file order.
type Dataset struct {
	Columns []string
	rows    []MatchRecord
}

// Load reads a CSV snapshot into memory. The first row is the header; p1, p2
// and date are mandatory, the known outcome columns are parsed into their
// typed fields when present, and every other column is read as a numeric
// predictor feature.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotMissing, path)
		}
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read header: %v", ErrSchema, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, name)
		}
	}

	outcome := make(map[string]bool, len(OutcomeColumns))
	for _, name := range OutcomeColumns {
		outcome[name] = true
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	ds := &Dataset{
		Columns: header,
		rows:    make([]MatchRecord, 0, len(records)),
	}

	for rowNum, row := range records {
		rec, err := parseRow(row, header, index, outcome)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrSchema, rowNum+2, err)
		}
		ds.rows = append(ds.rows, *rec)
	}

	metrics.DatasetRows.Set(float64(len(ds.rows)))
	return ds, nil
}

func parseRow(row, header []string, index map[string]int, outcome map[string]bool) (*MatchRecord, error) {
	rec := &MatchRecord{
		P1:       row[index["p1"]],
		P2:       row[index["p2"]],
		Features: make(map[string]float64),
	}

	date, err := parseDate(row[index["date"]])
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %v", row[index["date"]], err)
	}
	rec.Date = date

	for i, name := range header {
		switch name {
		case "p1", "p2", "date":
			continue
		case "target":
			if rec.Target, err = strconv.Atoi(row[i]); err != nil {
				return nil, fmt.Errorf("bad target %q", row[i])
			}
		case "sets_p1":
			if rec.SetsP1, err = strconv.Atoi(row[i]); err != nil {
				return nil, fmt.Errorf("bad sets_p1 %q", row[i])
			}
		case "sets_p2":
			if rec.SetsP2, err = strconv.Atoi(row[i]); err != nil {
				return nil, fmt.Errorf("bad sets_p2 %q", row[i])
			}
		case "b365_p1", "b365_p2", "ps_p1", "ps_p2":
			odds, err := decimal.NewFromString(row[i])
			if err != nil {
				return nil, fmt.Errorf("bad odds %s=%q", name, row[i])
			}
			switch name {
			case "b365_p1":
				rec.OddsB365P1 = odds
			case "b365_p2":
				rec.OddsB365P2 = odds
			case "ps_p1":
				rec.OddsPSP1 = odds
			case "ps_p2":
				rec.OddsPSP2 = odds
			}
		default:
			if outcome[name] {
				continue
			}
			value, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				return nil, fmt.Errorf("bad numeric value %s=%q", name, row[i])
			}
			rec.Features[name] = value
		}
	}

	return rec, nil
}

// parseDate accepts a calendar date or a full timestamp and normalizes to UTC midnight
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// NormalizeDate truncates a timestamp to its UTC calendar date
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Len returns the number of rows in the snapshot
func (d *Dataset) Len() int {
	return len(d.rows)
}
