package suggest

import (
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

var names = []string{
	"Madrid", "Majadahonda", "Barcelona", "Valencia", "Sevilla",
	"Valladolid", "Vilanova i la Geltrú", "Valdemoro", "Vall d'Uixó",
}

func TestMatch(t *testing.T) {
	ix := NewIndex(names)

	tests := []struct {
		query    string
		expected []string
	}{
		{"mad", []string{"Madrid"}},
		{"MAD", []string{"Madrid"}},
		{"maja", []string{"Majadahonda"}},
		{"  madrid  ", []string{"Madrid"}},
		{"lona", []string{"Barcelona"}},
		{"zzz", nil},
		{"ma", nil}, // below the minimum query length
		{"", nil},
	}

	for _, test := range tests {
		got := ix.Match(test.query)
		if !reflect.DeepEqual(got, test.expected) {
			t.Errorf("Match(%q) = %v, expected %v", test.query, got, test.expected)
		}
	}
}

func TestMatchCapsResults(t *testing.T) {
	ix := NewIndex([]string{
		"Valencia", "Valladolid", "Valdemoro", "Vall d'Uixó",
		"Valdepeñas", "Valverde", "Valdés",
	})

	got := ix.Match("val")
	if len(got) != MaxSuggestions {
		t.Fatalf("expected %d matches, got %d", MaxSuggestions, len(got))
	}
	// Matches keep source order.
	if got[0] != "Valencia" {
		t.Errorf("expected Valencia first, got %q", got[0])
	}
}

func TestMatchMinLengthInRunes(t *testing.T) {
	ix := NewIndex([]string{"Cañada"})

	// Three runes, more than three bytes.
	if got := ix.Match("añ"); got != nil {
		t.Errorf("two-rune query should match nothing, got %v", got)
	}
	if got := ix.Match("aña"); len(got) != 1 {
		t.Errorf("three-rune query should match, got %v", got)
	}
}

func TestDebouncerReplacesPending(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var first, second atomic.Int32
	d.Trigger(func() { first.Add(1) })
	d.Trigger(func() { second.Add(1) })

	time.Sleep(100 * time.Millisecond)

	if first.Load() != 0 {
		t.Error("superseded task should not have fired")
	}
	if second.Load() != 1 {
		t.Errorf("expected last task to fire once, fired %d times", second.Load())
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var fired atomic.Int32
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	if fired.Load() != 0 {
		t.Error("stopped task should not have fired")
	}
}
