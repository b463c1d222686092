// Package wareki converts Japanese era year labels ("平成31年", "Ｒ２年")
// into Gregorian years.
package wareki

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Era is an imperial era with the Gregorian offset of its year numbering
type Era struct {
	Name   string // Kanji name as printed in the ministry's sheets
	Abbrev string // Single letter abbreviation
	Offset int    // Gregorian year = Offset + era year
}

var eras = [...]Era{
	{Name: "昭和", Abbrev: "S", Offset: 1925},
	{Name: "平成", Abbrev: "H", Offset: 1988},
	{Name: "令和", Abbrev: "R", Offset: 2018},
}

// irregularSuffixes appear on the 2019 rows, which span two eras
var irregularSuffixes = []string{"・令和元年", "･令和元年"}

const (
	yearMarker  = "年"
	firstYear   = "元"
	ideographic = "　"
)

// ParseError reports a label that does not follow the era-name + number pattern
type ParseError struct {
	Label  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse era label %q: %s", e.Label, e.Reason)
}

// LookupEra finds an era by kanji name or letter abbreviation
func LookupEra(name string) (Era, bool) {
	for _, e := range eras {
		if name == e.Name || strings.EqualFold(name, e.Abbrev) {
			return e, true
		}
	}
	return Era{}, false
}

// Fold maps full-width ASCII variants and the ideographic space to their
// narrow forms
func Fold(s string) string {
	return width.Fold.String(s)
}

// normalize folds the label and removes everything that is not era name or number
func normalize(label string) string {
	s := Fold(strings.ReplaceAll(label, ideographic, ""))
	for _, suffix := range irregularSuffixes {
		s = strings.ReplaceAll(s, suffix, "")
	}
	s = strings.ReplaceAll(s, yearMarker, "")
	return strings.TrimSpace(s)
}

func isYearNumber(r rune) bool {
	return unicode.IsDigit(r) || string(r) == firstYear
}

// ToYear converts a single era label into a Gregorian year.
//
// A label without an era name ("2020年") is taken as Gregorian. An era
// name that is not recognized is an error.
func ToYear(label string) (int, error) {
	s := normalize(label)
	if s == "" {
		return 0, &ParseError{Label: label, Reason: "empty label"}
	}

	i := strings.IndexFunc(s, isYearNumber)
	if i < 0 {
		return 0, &ParseError{Label: label, Reason: "no year number"}
	}
	name, num := s[:i], s[i:]

	n := 1
	if num != firstYear {
		var err error
		n, err = strconv.Atoi(num)
		if err != nil {
			return 0, &ParseError{Label: label, Reason: fmt.Sprintf("invalid year number %q", num)}
		}
	}

	if name == "" {
		return n, nil
	}

	era, ok := LookupEra(name)
	if !ok {
		return 0, &ParseError{Label: label, Reason: fmt.Sprintf("unknown era %q", name)}
	}
	return era.Offset + n, nil
}

// ToYears converts a column of era labels. Blank entries continue the
// label above them, as produced by merged cells.
func ToYears(labels []string) ([]int, error) {
	years := make([]int, len(labels))
	last := ""

	for i, label := range labels {
		if normalize(label) == "" {
			if last == "" {
				return nil, &ParseError{Label: label, Reason: fmt.Sprintf("row %d is blank with no label above it", i)}
			}
			label = last
		}
		last = label

		y, err := ToYear(label)
		if err != nil {
			return nil, err
		}
		years[i] = y
	}

	return years, nil
}

// Label formats a Gregorian year in the most recent era that contains it.
// Years before the first known era are returned as plain numbers.
func Label(year int) string {
	for i := len(eras) - 1; i >= 0; i-- {
		e := eras[i]
		if n := year - e.Offset; n >= 1 {
			if n == 1 {
				return e.Name + firstYear + yearMarker
			}
			return fmt.Sprintf("%s%d%s", e.Name, n, yearMarker)
		}
	}
	return fmt.Sprintf("%d%s", year, yearMarker)
}
