package parsers

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/haukened/safe-block/internal/safeblock/common/log"
)

func TestParsePlainList_Basics(t *testing.T) {
	input := "\uFEFF# comment at top\n" +
		"AdultSite.COM   \n" +
		"adultsite.com #inline comment\n" +
		"\n" +
		"https://www.anotherbadsite.org/landing\n" +
		"*.wild.example.com\n" +
		".root.example.org\n" +
		"localhost\n" +
		"xxx-example.net   # trailing\n"

	got, err := ParsePlainList(bytes.NewBufferString(input), "test-source", log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParsePlainList returned error: %v", err)
	}

	want := []string{"adultsite.com", "anotherbadsite.org", "xxx-example.net"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParsePlainList_EmptyAndCommentsOnly(t *testing.T) {
	got, err := ParsePlainList(bytes.NewBufferString("# a\n\n   \n# b\n"), "s", log.NewNoopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no keys, got %v", got)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestParsePlainList_ReadError(t *testing.T) {
	if _, err := ParsePlainList(errReader{}, "s", log.NewNoopLogger()); err == nil {
		t.Fatalf("expected scan error")
	}
}
