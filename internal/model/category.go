package model

import "strings"

// Category is one of the six statistic kinds published in the monthly prompt report.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryLiveBirths
	CategoryDeaths
	CategoryFoetalDeaths
	CategoryMarriages
	CategoryDivorces
	CategoryNaturalChange
)

// Lang selects the language of category labels in a result table
type Lang string

const (
	LangEnglish  Lang = "english"
	LangJapanese Lang = "japanese"
)

type categoryLabels struct {
	japanese string
	english  string
}

var categoryTable = map[Category]categoryLabels{
	CategoryLiveBirths:    {japanese: "出生", english: "live births"},
	CategoryDeaths:        {japanese: "死亡", english: "deaths"},
	CategoryFoetalDeaths:  {japanese: "死産", english: "foetal deaths"},
	CategoryMarriages:     {japanese: "婚姻", english: "marriages"},
	CategoryDivorces:      {japanese: "離婚", english: "divorces"},
	CategoryNaturalChange: {japanese: "自然増減", english: "natural change"},
}

// labelIndex maps labels of both languages back to their category
var labelIndex = func() map[string]Category {
	idx := make(map[string]Category, 2*len(categoryTable))
	for c, l := range categoryTable {
		idx[l.japanese] = c
		idx[l.english] = c
	}
	return idx
}()

// Categories returns every known category in a stable order
func Categories() []Category {
	return []Category{
		CategoryLiveBirths,
		CategoryDeaths,
		CategoryFoetalDeaths,
		CategoryMarriages,
		CategoryDivorces,
		CategoryNaturalChange,
	}
}

// Japanese returns the label used by the ministry's spreadsheets
func (c Category) Japanese() string {
	return categoryTable[c].japanese
}

// English returns the English label
func (c Category) English() string {
	return categoryTable[c].english
}

// Label returns the label of c in the given language
func (c Category) Label(lang Lang) string {
	if lang == LangJapanese {
		return c.Japanese()
	}
	return c.English()
}

func (c Category) String() string {
	if c == CategoryUnknown {
		return "unknown"
	}
	return c.English()
}

// CategoryByLabel looks up a category by its Japanese or English label
func CategoryByLabel(label string) (Category, bool) {
	c, ok := labelIndex[label]
	return c, ok
}

// Labels returns the label set of a language
func Labels(lang Lang) []string {
	out := make([]string, 0, len(categoryTable))
	for _, c := range Categories() {
		out = append(out, c.Label(lang))
	}
	return out
}

// ParseLang resolves a user supplied language name.
// "japanese", "ja" and "jp" (any case) select Japanese; everything else is English.
func ParseLang(s string) Lang {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "japanese", "ja", "jp":
		return LangJapanese
	default:
		return LangEnglish
	}
}

// TranslateLabel converts a category label to the given language.
// Labels that are not category labels are returned unchanged.
func TranslateLabel(label string, lang Lang) string {
	c, ok := CategoryByLabel(label)
	if !ok {
		return label
	}
	return c.Label(lang)
}
