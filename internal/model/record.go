package model

import (
	"cmp"
	"slices"
	"time"
)

// Record is one observation of the normalized table
type Record struct {
	Category  string    `json:"category" yaml:"category"` // Category label (Japanese until translated)
	Timestamp time.Time `json:"ts" yaml:"ts"`             // First day of the observed month, UTC
	Value     *float64  `json:"value" yaml:"value"`       // nil when the sheet holds a non-numeric marker
}

// MonthStart returns the first day of the given month in UTC
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// Float returns a pointer to v, for building records
func Float(v float64) *float64 {
	return &v
}

type recordKey struct {
	category string
	ts       time.Time
}

// Table is the tidy long-format result of a fetch
type Table []Record

// Sort orders the table by category, then timestamp
func (t Table) Sort() {
	slices.SortStableFunc(t, func(a, b Record) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// Dedupe keeps one record per (category, timestamp).
// When the same pair appears more than once the last occurrence wins, so
// callers concatenate sheets in publication order.
func (t Table) Dedupe() Table {
	out := make(Table, 0, len(t))
	seen := make(map[recordKey]int, len(t))

	for _, r := range t {
		key := recordKey{category: r.Category, ts: r.Timestamp}
		if i, ok := seen[key]; ok {
			out[i] = r
			continue
		}
		seen[key] = len(out)
		out = append(out, r)
	}

	return out
}

// FromYear keeps records whose timestamp year is >= year
func (t Table) FromYear(year int) Table {
	out := make(Table, 0, len(t))
	for _, r := range t {
		if r.Timestamp.Year() >= year {
			out = append(out, r)
		}
	}
	return out
}

// Translate returns a copy of the table with category labels in lang
func (t Table) Translate(lang Lang) Table {
	out := make(Table, len(t))
	for i, r := range t {
		r.Category = TranslateLabel(r.Category, lang)
		out[i] = r
	}
	return out
}

// CountByCategory counts records per category label
func (t Table) CountByCategory() map[string]int {
	counts := make(map[string]int)
	for _, r := range t {
		counts[r.Category]++
	}
	return counts
}

// YearSpan returns the smallest and largest timestamp year, or zeros for an empty table
func (t Table) YearSpan() (minYear, maxYear int) {
	for i, r := range t {
		y := r.Timestamp.Year()
		if i == 0 || y < minYear {
			minYear = y
		}
		if i == 0 || y > maxYear {
			maxYear = y
		}
	}
	return minYear, maxYear
}
