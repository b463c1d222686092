package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/vitalstats/internal/model"
	"github.com/ppiankov/vitalstats/internal/source"
	"github.com/ppiankov/vitalstats/internal/wareki"
)

// Fixed layout of the data block
const (
	DataRows     = 18 // 6 categories x 3 years
	MonthColumns = 12

	colCategory   = 1
	colEraLabel   = 2
	colFirstMonth = 3
)

// ErrShortSheet is returned when a sheet has fewer data rows than the layout needs
var ErrShortSheet = errors.New("sheet has fewer data rows than expected")

// categoryAliases maps spellings seen in older sheets to the canonical label
var categoryAliases = map[string]string{
	"自然増加": model.CategoryNaturalChange.Japanese(),
}

// negativeMarks prefix negative numbers in some sheets
var negativeMarks = []string{"△", "▲"}

// Parse decodes a workbook and normalizes its data block. format is a
// hint: the content decides when it is recognizable.
func Parse(data []byte, format source.Format) ([]model.Record, error) {
	raw, err := Decode(data, DetectFormat(data, format))
	if err != nil {
		return nil, err
	}
	return Normalize(SkipBanner(raw, BannerRows))
}

// Normalize reshapes the data block (banner and header already removed)
// into one record per category and month. Blank month cells produce no
// record; non-numeric markers produce a record with a nil value.
func Normalize(raw RawSheet) ([]model.Record, error) {
	if len(raw) < DataRows {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrShortSheet, len(raw), DataRows)
	}
	rows := raw[:DataRows]

	categories := make([]string, DataRows)
	eraLabels := make([]string, DataRows)

	// Merged cells leave blanks below the first row of a block
	lastCategory, lastEra := "", ""
	for i, row := range rows {
		if c := cell(row, colCategory); c != "" {
			lastCategory = canonicalCategory(c)
		}
		if e := cell(row, colEraLabel); e != "" {
			lastEra = e
		}
		if lastCategory == "" {
			return nil, fmt.Errorf("row %d: no category label", i)
		}
		if _, ok := model.CategoryByLabel(lastCategory); !ok {
			return nil, fmt.Errorf("row %d: unknown category %q", i, lastCategory)
		}
		categories[i] = lastCategory
		eraLabels[i] = lastEra
	}

	years, err := wareki.ToYears(eraLabels)
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, DataRows*MonthColumns)
	for i, row := range rows {
		for m := 0; m < MonthColumns; m++ {
			text := cell(row, colFirstMonth+m)
			if text == "" {
				continue
			}
			records = append(records, model.Record{
				Category:  categories[i],
				Timestamp: model.MonthStart(years[i], time.Month(m+1)),
				Value:     parseValue(text),
			})
		}
	}

	return records, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return cleanCell(row[i])
}

func canonicalCategory(label string) string {
	label = strings.ReplaceAll(wareki.Fold(label), " ", "")
	for alias, canonical := range categoryAliases {
		label = strings.ReplaceAll(label, alias, canonical)
	}
	return label
}

// parseValue reads a count, returning nil for markers such as "-" or "…"
func parseValue(text string) *float64 {
	s := strings.NewReplacer(",", "", " ", "").Replace(wareki.Fold(text))

	negative := false
	for _, mark := range negativeMarks {
		if strings.HasPrefix(s, mark) {
			negative = true
			s = strings.TrimPrefix(s, mark)
			break
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if negative {
		v = -v
	}
	return &v
}
