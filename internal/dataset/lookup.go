package dataset

import (
	"fmt"
	"time"
)

// Find returns the historical row for an unordered pair of players on a date.
// The match is order-invariant: Find(a, b, d) and Find(b, a, d) return the
// same row. The date is normalized to its calendar day before comparison.
// When several rows qualify the first in snapshot file order wins; the
// snapshot is assumed de-duplicated upstream.
func (d *Dataset) Find(playerX, playerY string, date time.Time) (*MatchRecord, error) {
	day := NormalizeDate(date)

	for i := range d.rows {
		rec := &d.rows[i]
		if !rec.Date.Equal(day) {
			continue
		}
		if (rec.P1 == playerX && rec.P2 == playerY) || (rec.P1 == playerY && rec.P2 == playerX) {
			// Copy, including the feature map, so callers cannot mutate the snapshot
			out := *rec
			out.Features = make(map[string]float64, len(rec.Features))
			for name, value := range rec.Features {
				out.Features[name] = value
			}
			return &out, nil
		}
	}

	return nil, fmt.Errorf("%w: %s vs %s on %s", ErrNotFound, playerX, playerY, day.Format("2006-01-02"))
}
