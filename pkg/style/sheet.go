package style

import (
	"sort"
	"strings"
	"sync"
)

// Global is the process-wide sheet.
var Global = NewSheet()

// Sheet is an append-only set of rules keyed by selector.
type Sheet struct {
	mu    sync.RWMutex
	rules map[string]string
}

// NewSheet creates an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{rules: make(map[string]string)}
}

// Set stores the declarations for selector, replacing earlier ones.
func (s *Sheet) Set(selector, decl string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[selector] = decl
}

// Rule returns the declarations for selector.
func (s *Sheet) Rule(selector string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	decl, ok := s.rules[selector]
	return decl, ok
}

// Len returns the number of rules.
func (s *Sheet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// CSS renders every rule, one per line, sorted by selector.
func (s *Sheet) CSS() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	selectors := make([]string, 0, len(s.rules))
	for sel := range s.rules {
		selectors = append(selectors, sel)
	}
	sort.Strings(selectors)

	var b strings.Builder
	for _, sel := range selectors {
		b.WriteString(sel)
		b.WriteByte('{')
		b.WriteString(s.rules[sel])
		b.WriteString("}\n")
	}
	return b.String()
}
