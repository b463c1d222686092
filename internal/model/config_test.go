package model

import (
	"testing"

	"github.com/ppiankov/vitalstats/internal/source"
)

func TestDefaultConfig_SourceURLs(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Source.BaseURL != source.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Source.BaseURL, source.DefaultBaseURL)
	}
	if cfg.Source.CatalogURL != source.DefaultCatalogURL {
		t.Errorf("CatalogURL = %q, want %q", cfg.Source.CatalogURL, source.DefaultCatalogURL)
	}
}

func TestDefaultConfig_PromptLag(t *testing.T) {
	p := DefaultConfig().Prompt
	if p.YearFrom != 2005 || p.MonthsOffset != 2 || p.DaysOffset != 23 {
		t.Errorf("unexpected prompt defaults: %+v", p)
	}
	if ParseLang(p.Lang) != LangEnglish {
		t.Errorf("default lang = %q, want english", p.Lang)
	}
}
