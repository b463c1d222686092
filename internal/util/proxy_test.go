package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "http://secure.local:3129", "internal.example")

	tests := []struct {
		target string
		want   string
	}{
		{"http://www.mhlw.go.jp/x.xls", "http://proxy.local:3128"},
		{"https://www.mhlw.go.jp/x.xlsx", "http://secure.local:3129"},
		{"https://internal.example/x", ""},
	}

	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, tt.target, nil)
		got, err := proxy(req)
		if err != nil {
			t.Fatalf("proxy(%s) error: %v", tt.target, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tt.want {
			t.Errorf("proxy(%s) = %q, want %q", tt.target, gotStr, tt.want)
		}
	}
}
