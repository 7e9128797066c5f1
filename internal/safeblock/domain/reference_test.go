package domain

import (
	"slices"
	"strconv"
	"testing"
)

func TestDefaultReferenceList(t *testing.T) {
	r := DefaultReferenceList()
	want := []string{"adultsite.com", "anotherbadsite.org", "xxx-example.net"}
	if !slices.Equal(r.Names(), want) {
		t.Fatalf("Names() = %v, want %v", r.Names(), want)
	}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d", r.Len())
	}
	for _, n := range want {
		if !r.Contains(n) {
			t.Fatalf("Contains(%q) = false", n)
		}
	}
	if r.Contains("") || r.Contains("www.adultsite.com") {
		t.Fatalf("Contains must be exact on canonical keys")
	}
}

func TestNewReferenceList_CanonicalizesAndDedupes(t *testing.T) {
	r, err := NewReferenceList("https://www.b.com/x", "a.com", "", "b.com", "  ")
	if err != nil {
		t.Fatalf("NewReferenceList: %v", err)
	}
	if !slices.Equal(r.Names(), []string{"b.com", "a.com"}) {
		t.Fatalf("Names() = %v", r.Names())
	}
}

func TestReferenceList_NamesIsCopy(t *testing.T) {
	r := DefaultReferenceList()
	names := r.Names()
	names[0] = "mutated.com"
	if r.Names()[0] != "adultsite.com" {
		t.Fatalf("Names() exposed internal slice")
	}
}

func TestReferenceList_Overflow(t *testing.T) {
	names := make([]string, MaxReferenceEntries+1)
	for i := range names {
		names[i] = "site" + strconv.Itoa(i) + ".com"
	}
	if _, err := NewReferenceList(names...); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestReferenceList_NilSafe(t *testing.T) {
	var r *ReferenceList
	if r.Contains("a.com") || r.Len() != 0 || r.Names() != nil {
		t.Fatalf("nil list must behave as empty")
	}
}

