// Package source builds download addresses for the ministry's monthly
// prompt spreadsheets. The archive changed its naming three times, so the
// address depends only on the year and month.
package source

import "fmt"

const (
	// DefaultBaseURL is the root of the monthly prompt archive
	DefaultBaseURL = "https://www.mhlw.go.jp/toukei/saikin/hw/jinkou/geppo"

	// DefaultCatalogURL is the index page linking every published sheet
	DefaultCatalogURL = "https://www.mhlw.go.jp/toukei/list/81-1a.html"
)

// Format is the spreadsheet file format of a published month
type Format string

const (
	FormatXLS  Format = "xls"
	FormatXLSX Format = "xlsx"
)

// Epoch boundaries of the archive naming scheme
const (
	xlsxFromYear     = 2020 // .xlsx instead of .xls
	yearInNameFrom   = 2011 // file name carries the year
	prefixChangeYear = 2007 // directory prefix "s" instead of "m"
)

// FormatFor returns the file format used for the given year
func FormatFor(year int) Format {
	if year >= xlsxFromYear {
		return FormatXLSX
	}
	return FormatXLS
}

func yearSegment(year int) string {
	if year >= yearInNameFrom {
		return fmt.Sprintf("%d", year)
	}
	return ""
}

func prefix(year int) string {
	if year >= prefixChangeYear {
		return "s"
	}
	return "m"
}

// Builder builds addresses below a base URL
type Builder struct {
	BaseURL string
}

// NewBuilder creates a builder; an empty base selects DefaultBaseURL
func NewBuilder(baseURL string) *Builder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Builder{BaseURL: baseURL}
}

// URL returns the address of the spreadsheet for year and month
func (b *Builder) URL(year, month int) string {
	return fmt.Sprintf("%s/%s%d/xls/%s%02d.%s",
		b.BaseURL,
		prefix(year),
		year,
		yearSegment(year),
		month,
		FormatFor(year),
	)
}

// BuildURL returns the address of the spreadsheet for year and month below DefaultBaseURL
func BuildURL(year, month int) string {
	return NewBuilder("").URL(year, month)
}
