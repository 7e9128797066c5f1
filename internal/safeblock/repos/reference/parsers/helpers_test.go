package parsers

import (
	"strings"
	"testing"
)

func TestIsValidFQDN(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"example.com", true},
		{"a.b.c", true},
		{"xxx-example.net", true},
		{"localhost", false},
		{"", false},
		{"a..com", false},
		{"-bad.com", false},
		{strings.Repeat("a", 64) + ".com", false},
		{strings.Repeat("a.", 128) + "com", false},
	}
	for _, tt := range tests {
		if got := isValidFQDN(tt.in); got != tt.want {
			t.Errorf("isValidFQDN(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Example.COM ", "example.com"},
		{"HTTPS://WWW.Example.com/x", "example.com"},
		{"www.example.com", "example.com"},
		{"example.com/path?query=1", "example.com"},
	}
	for _, tt := range tests {
		if got := normalizeKey(tt.in); got != tt.want {
			t.Errorf("normalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	if e, c := classifyLine("   "); !e || c {
		t.Fatalf("blank line misclassified")
	}
	if e, c := classifyLine("  # x"); e || !c {
		t.Fatalf("comment line misclassified")
	}
	if e, c := classifyLine("a.com # x"); e || c {
		t.Fatalf("data line misclassified")
	}
}

func TestIsWildcardToken(t *testing.T) {
	for _, in := range []string{"*.a.com", ".a.com", "a*.com"} {
		if !isWildcardToken(in) {
			t.Errorf("isWildcardToken(%q) = false", in)
		}
	}
	if isWildcardToken("a.com") {
		t.Errorf("plain domain flagged as wildcard")
	}
}
