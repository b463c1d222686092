package sheet

import (
	"os"
	"testing"

	"github.com/ppiankov/vitalstats/internal/source"
)

// xlsFixture is a BIFF8 workbook in the ministry layout for December 2011.
const xlsFixture = "testdata/s2011_201112.xls"

func TestSkipBanner(t *testing.T) {
	raw := RawSheet{
		{"title"},
		{},
		{"unit"},
		{""},
		{"", "", "", "1月"},
		{"", "出生", "令和2年", "1"},
		{"　", ""},
		{"", "", "令和3年", "2"},
	}

	out := SkipBanner(raw, BannerRows)
	if len(out) != 2 {
		t.Fatalf("expected 2 data rows, got %d: %v", len(out), out)
	}
	if out[0][1] != "出生" || out[1][2] != "令和3年" {
		t.Errorf("unexpected rows: %v", out)
	}

	if got := SkipBanner(raw[:2], BannerRows); len(got) != 0 {
		t.Errorf("expected no rows from a banner-only sheet, got %v", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	garbage := []byte("not a workbook")

	if _, err := Decode(garbage, source.FormatXLSX); err == nil {
		t.Error("expected error for invalid xlsx")
	}
	if _, err := Decode(garbage, source.FormatXLS); err == nil {
		t.Error("expected error for invalid xls")
	}
	if _, err := Decode(garbage, source.Format("ods")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		hint source.Format
		want source.Format
	}{
		{"zip", []byte("PK\x03\x04rest"), source.FormatXLS, source.FormatXLSX},
		{"ole2", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0}, source.FormatXLSX, source.FormatXLS},
		{"unknown", []byte("<html>"), source.FormatXLS, source.FormatXLS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data, tt.hint); got != tt.want {
				t.Errorf("DetectFormat = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecode_XLSFixture(t *testing.T) {
	data, err := os.ReadFile(xlsFixture)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	if got := DetectFormat(data, source.FormatXLSX); got != source.FormatXLS {
		t.Fatalf("DetectFormat = %s, want xls", got)
	}

	raw, err := Decode(data, source.FormatXLS)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(raw) != 25 {
		t.Fatalf("expected 25 rows including the missing one, got %d", len(raw))
	}
	if raw[23] != nil {
		t.Errorf("missing row 23 decoded as %v, want nil", raw[23])
	}
	if len(raw[5]) < 15 || raw[5][3] != "1200901" {
		t.Errorf("first data row = %v", raw[5])
	}
	// 死亡 is stored as NUMBER records, 自然増加 as negative MULRK under #,##0.
	if raw[8][3] != "2200901" {
		t.Errorf("NUMBER cell = %q, want 2200901", raw[8][3])
	}
	if raw[11][3] != "-6200901" {
		t.Errorf("negative RK cell = %q, want -6200901", raw[11][3])
	}
}

func TestSignedRK(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1067540923", "-6200901"},
		{"1073741823", "-1"},
		{"536870911", "536870911"},
		{"1200901", "1200901"},
		{"平成21年", "平成21年"},
		{"1.5", "1.5"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := signedRK(tt.in); got != tt.want {
			t.Errorf("signedRK(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
