// Package sheettest builds prompt workbooks in the ministry's layout for
// tests of the sheet and pipeline packages.
package sheettest

import (
	"fmt"
	"strings"

	"github.com/ppiankov/vitalstats/internal/model"
	"github.com/ppiankov/vitalstats/internal/wareki"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// Order of the category blocks in a workbook
var order = []model.Category{
	model.CategoryLiveBirths,
	model.CategoryDeaths,
	model.CategoryNaturalChange,
	model.CategoryFoetalDeaths,
	model.CategoryMarriages,
	model.CategoryDivorces,
}

// Options tweaks the generated layout
type Options struct {
	LegacyNaturalChange bool // label natural change as 自然増加
	FullWidthDigits     bool // print era years with full-width digits
	Markers             bool // put a "-" marker in January of the oldest year
	Revision            float64
}

// Value is the count stored for a category, year and month
func Value(c model.Category, year, month int) float64 {
	v := float64(int(c)*1_000_000 + year*100 + month)
	if c == model.CategoryNaturalChange {
		return -v
	}
	return v
}

var fullWidth = strings.NewReplacer(
	"0", "０", "1", "１", "2", "２", "3", "３", "4", "４",
	"5", "５", "6", "６", "7", "７", "8", "８", "9", "９",
)

func eraLabel(year int, opts Options) string {
	label := wareki.Label(year)
	if year == 2019 {
		label = "平成31年･令和元年"
	}
	if opts.FullWidthDigits {
		label = fullWidth.Replace(label)
	}
	return label
}

// Workbook returns an .xlsx file as published for year and month: the
// three years ending in year, with months after month left blank.
func Workbook(year, month int, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	banner := [][]any{
		{"人口動態統計速報"},
		{fmt.Sprintf("%s%d月分", wareki.Label(year), month)},
		{"", "", "", "", "", "", "", "", "", "", "", "", "", "", "(単位：人)"},
		{"", "", "", "1月", "2月", "3月", "4月", "5月", "6月", "7月", "8月", "9月", "10月", "11月", "12月"},
	}
	for i, row := range banner {
		if err := setRow(f, i+1, row); err != nil {
			return nil, err
		}
	}

	r := len(banner) + 1
	for _, c := range order {
		label := c.Japanese()
		if opts.LegacyNaturalChange && c == model.CategoryNaturalChange {
			label = "自然増加"
		}

		first := r
		for y := year - 2; y <= year; y++ {
			row := []any{"", "", eraLabel(y, opts)}
			if y == year-2 {
				row[1] = "　" + label
			}
			for m := 1; m <= 12; m++ {
				switch {
				case y == year && m > month:
					row = append(row, nil)
				case opts.Markers && y == year-2 && m == 1:
					row = append(row, "-")
				default:
					row = append(row, Value(c, y, m)+opts.Revision)
				}
			}
			if err := setRow(f, r, row); err != nil {
				return nil, err
			}
			r++
		}

		if err := f.MergeCell(sheetName, fmt.Sprintf("B%d", first), fmt.Sprintf("B%d", r-1)); err != nil {
			return nil, err
		}
	}

	if err := setRow(f, r+1, []any{"", "注：数値は速報値である"}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []any) error {
	if len(values) == 0 {
		return nil
	}
	cellName, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheetName, cellName, &values)
}
