package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"toml", TOMLFormat},
		{"t", TOMLFormat},
		{"yaml", YAMLFormat},
		{"y", YAMLFormat},
		{"json", JSONFormat},
		{"j", JSONFormat},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("want ErrBadFormat, got %v", err)
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, f := range AllFormats() {
		d, err := f.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Format
		if err := back.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if back != f {
			t.Errorf("%v -> %s -> %v", f, d, back)
		}
		if f.Suffix() == "" {
			t.Errorf("%v has no suffix", f)
		}
	}
}

func TestByPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"pyproject.toml", TOMLFormat, true},
		{"ci.yaml", YAMLFormat, true},
		{"ci.yml", YAMLFormat, true},
		{"package.json", JSONFormat, true},
		{"README.md", 0, false},
		{"Makefile", 0, false},
		{"src/main.py", 0, false},
	}
	for _, tt := range tests {
		got, ok := ByPath(tt.path)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ByPath(%q) = %v, %v; want %v, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}
