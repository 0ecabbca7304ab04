// Package suggest implements the municipality autocomplete: a small
// case-insensitive substring index plus the debouncer that paces queries
// while the user is still typing.
package suggest

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	// MinQueryLen is the minimum query length before suggestions kick in.
	MinQueryLen = 3
	// MaxSuggestions caps the number of returned matches.
	MaxSuggestions = 5
	// DefaultDelay is the debounce interval between keystrokes and query.
	DefaultDelay = 300 * time.Millisecond
)

// Index matches a query against a fixed list of names.
type Index struct {
	names []string
	lower []string
}

// NewIndex builds an Index over the given names, preserving their order.
func NewIndex(names []string) *Index {
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}
	return &Index{names: names, lower: lower}
}

// Len returns the number of indexed names.
func (ix *Index) Len() int {
	return len(ix.names)
}

// Match returns up to MaxSuggestions names containing the query,
// case-insensitively. Queries shorter than MinQueryLen yield nothing.
func (ix *Index) Match(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(query) < MinQueryLen {
		return nil
	}

	var matches []string
	for i, l := range ix.lower {
		if strings.Contains(l, query) {
			matches = append(matches, ix.names[i])
			if len(matches) == MaxSuggestions {
				break
			}
		}
	}
	return matches
}

// Debouncer runs at most one scheduled task: triggering again before the
// delay elapses replaces the pending task, so only the last of a burst fires.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer creates a Debouncer with the given delay. A non-positive
// delay falls back to DefaultDelay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the delay, cancelling any pending run.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending run.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
