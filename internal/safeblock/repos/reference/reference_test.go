package reference

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/haukened/safe-block/internal/safeblock/common/log"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"plain": FormatPlain, " HOSTS ": FormatHosts} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestLoad_EmptyPathUsesBuiltin(t *testing.T) {
	ref, err := Load("", FormatPlain, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"adultsite.com", "anotherbadsite.org", "xxx-example.net"}
	if !slices.Equal(ref.Names(), want) {
		t.Fatalf("Names() = %v", ref.Names())
	}
}

func TestLoad_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adult.txt")
	if err := os.WriteFile(path, []byte("# list\nfirst.example\nsecond.example\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ref, err := Load(path, FormatPlain, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !slices.Equal(ref.Names(), []string{"first.example", "second.example"}) {
		t.Fatalf("Names() = %v", ref.Names())
	}
}

func TestLoad_HostsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts")
	if err := os.WriteFile(path, []byte("0.0.0.0 first.example\n0.0.0.0 second.example\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	ref, err := Load(path, FormatHosts, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ref.Len() != 2 || !ref.Contains("second.example") {
		t.Fatalf("unexpected list: %v", ref.Names())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), FormatPlain, log.NewNoopLogger())
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoad_OpenSeam(t *testing.T) {
	old := openFile
	defer func() { openFile = old }()
	openFile = func(string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("seam.example\n")), nil
	}
	ref, err := Load("virtual", FormatPlain, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ref.Contains("seam.example") {
		t.Fatalf("seam list not used: %v", ref.Names())
	}
}

func TestRead_Errors(t *testing.T) {
	if _, err := Read(strings.NewReader("a.com\n"), Format("csv"), "s", log.NewNoopLogger()); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if _, err := Read(strings.NewReader("# only comments\n"), FormatPlain, "s", log.NewNoopLogger()); err == nil {
		t.Fatalf("expected empty list error")
	}
}
