package model

import (
	"sort"
	"testing"
)

func TestParseLang(t *testing.T) {
	tests := []struct {
		in   string
		want Lang
	}{
		{"english", LangEnglish},
		{"", LangEnglish},
		{"French", LangEnglish},
		{"japanese", LangJapanese},
		{"Japanese", LangJapanese},
		{"ja", LangJapanese},
		{"JP", LangJapanese},
		{" jp ", LangJapanese},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLang(tt.in); got != tt.want {
				t.Errorf("ParseLang(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoryLabels(t *testing.T) {
	english := Labels(LangEnglish)
	sort.Strings(english)
	want := []string{"deaths", "divorces", "foetal deaths", "live births", "marriages", "natural change"}
	if len(english) != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), len(english))
	}
	for i := range want {
		if english[i] != want[i] {
			t.Errorf("label %d: got %q, want %q", i, english[i], want[i])
		}
	}

	japanese := Labels(LangJapanese)
	seen := make(map[string]bool)
	for _, l := range japanese {
		if seen[l] {
			t.Errorf("duplicate Japanese label %q", l)
		}
		seen[l] = true
	}
	for _, l := range []string{"自然増減", "死産", "婚姻", "出生", "離婚", "死亡"} {
		if !seen[l] {
			t.Errorf("missing Japanese label %q", l)
		}
	}
}

func TestTranslateLabel_RoundTrip(t *testing.T) {
	for _, c := range Categories() {
		en := TranslateLabel(c.Japanese(), LangEnglish)
		if en != c.English() {
			t.Errorf("ja->en for %v: got %q", c, en)
		}
		if back := TranslateLabel(en, LangJapanese); back != c.Japanese() {
			t.Errorf("en->ja for %v: got %q, want %q", c, back, c.Japanese())
		}
		if same := TranslateLabel(c.Japanese(), LangJapanese); same != c.Japanese() {
			t.Errorf("ja->ja for %v changed label to %q", c, same)
		}
	}

	if got := TranslateLabel("人口", LangEnglish); got != "人口" {
		t.Errorf("unknown label should pass through, got %q", got)
	}
}

func TestCategoryByLabel(t *testing.T) {
	c, ok := CategoryByLabel("自然増減")
	if !ok || c != CategoryNaturalChange {
		t.Errorf("expected natural change, got %v (ok=%v)", c, ok)
	}
	c, ok = CategoryByLabel("marriages")
	if !ok || c != CategoryMarriages {
		t.Errorf("expected marriages, got %v (ok=%v)", c, ok)
	}
	if _, ok := CategoryByLabel("自然増加"); ok {
		t.Error("non-canonical label should not resolve")
	}
	if CategoryUnknown.String() != "unknown" {
		t.Errorf("unexpected String for unknown: %q", CategoryUnknown.String())
	}
}
