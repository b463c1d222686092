// Package sheet decodes the ministry's monthly prompt workbooks and
// reshapes them into long-format records.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/ppiankov/vitalstats/internal/source"
	"github.com/xuri/excelize/v2"
)

// BannerRows is the number of title rows above the header row
const BannerRows = 3

// ErrNoWorksheet is returned for workbooks without a readable first sheet
var ErrNoWorksheet = errors.New("workbook has no worksheet")

// RawSheet is the cell text of a worksheet, row by row
type RawSheet [][]string

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFormat identifies a workbook by its leading bytes, falling back to
// hint when the content is not recognized
func DetectFormat(data []byte, hint source.Format) source.Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return source.FormatXLSX
	case bytes.HasPrefix(data, ole2Magic):
		return source.FormatXLS
	default:
		return hint
	}
}

// Decode reads the first worksheet of a workbook
func Decode(data []byte, format source.Format) (RawSheet, error) {
	switch format {
	case source.FormatXLSX:
		return decodeXLSX(data)
	case source.FormatXLS:
		return decodeXLS(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func decodeXLSX(data []byte) (RawSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func decodeXLS(data []byte) (RawSheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if wb == nil {
		return nil, ErrNoWorksheet
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, ErrNoWorksheet
	}

	// Without cell formats every number is rendered as its raw value.
	// With them, counts under a custom format such as #,##0 would be
	// printed as dates.
	wb.Xfs = nil

	// ReadAllCells stops after the first sheet and leaves missing rows
	// nil, where WorkSheet.Row would dereference a nil row.
	rows := RawSheet(wb.ReadAllCells(int(ws.MaxRow) + 1))
	for _, row := range rows {
		for j, cell := range row {
			row[j] = signedRK(cell)
		}
	}
	return rows, nil
}

// rkOffset is 2^30. RK integers are 30-bit signed, but the reader shifts
// them as unsigned, so negative values arrive offset by 2^30.
const rkOffset = 1 << 30

// signedRK restores the sign of a negative RK integer
func signedRK(cell string) string {
	n, err := strconv.ParseInt(cell, 10, 64)
	if err != nil || n < rkOffset/2 || n >= rkOffset {
		return cell
	}
	return strconv.FormatInt(n-rkOffset, 10)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if cleanCell(c) != "" {
			return false
		}
	}
	return true
}

// SkipBanner drops the banner rows and the header row below them.
// Blank rows are not counted after the banner and are removed from the
// data, matching how the sheets were read historically.
func SkipBanner(raw RawSheet, banner int) RawSheet {
	if banner > len(raw) {
		banner = len(raw)
	}

	out := make(RawSheet, 0, len(raw))
	header := false
	for _, row := range raw[banner:] {
		if blankRow(row) {
			continue
		}
		if !header {
			header = true
			continue
		}
		out = append(out, row)
	}
	return out
}

// cleanCell strips ideographic spaces and surrounding whitespace
func cleanCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "　", ""))
}
