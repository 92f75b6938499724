package style

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/vango-dev/livetree/pkg/dom"
)

// DefaultPrefix is the class prefix used when none is configured.
const DefaultPrefix = "lt-"

// Manager applies style objects to nodes.
type Manager struct {
	prefix string
	sheet  *Sheet

	mu      sync.Mutex
	classes map[*dom.Node][]string
}

// NewManager creates a manager writing to sheet. A nil sheet uses Global.
func NewManager(prefix string, sheet *Sheet) *Manager {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if sheet == nil {
		sheet = Global
	}
	return &Manager{
		prefix:  prefix,
		sheet:   sheet,
		classes: make(map[*dom.Node][]string),
	}
}

// Sheet returns the sheet rules are written to.
func (m *Manager) Sheet() *Sheet {
	return m.sheet
}

// ClassName returns the scoped class for id.
func (m *Manager) ClassName(id string) string {
	return m.prefix + id
}

// Apply writes the inline part of decl to node's style attribute and the
// nested part to scoped rules, and adds the scoped class to node.
// Applying again with the same id updates the rules in place.
func (m *Manager) Apply(id string, node *dom.Node, decl map[string]any) error {
	class := m.ClassName(id)

	for _, key := range sortedKeys(decl) {
		nested, ok := asMap(decl[key])
		if !ok && !isSelector(key) {
			continue
		}
		m.sheet.Set(selectorFor(class, key), Inline(nested))
	}

	if inline := Inline(decl); inline != "" {
		if err := node.SetAttribute("style", inline); err != nil {
			return err
		}
	} else {
		node.RemoveAttribute("style")
	}

	node.AddClass(class)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.classes[node] {
		if c == class {
			return nil
		}
	}
	m.classes[node] = append(m.classes[node], class)
	return nil
}

// Detach removes the scoped classes Apply added to node. Rules stay in the
// sheet.
func (m *Manager) Detach(node *dom.Node) {
	m.mu.Lock()
	classes := m.classes[node]
	delete(m.classes, node)
	m.mu.Unlock()

	for _, c := range classes {
		node.RemoveClass(c)
	}
}

// Tracked returns how many nodes currently carry scoped classes.
func (m *Manager) Tracked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.classes)
}

// HasNested reports whether decl holds nested or pseudo selectors.
func HasNested(decl map[string]any) bool {
	for key, value := range decl {
		if isSelector(key) {
			return true
		}
		if _, ok := asMap(value); ok {
			return true
		}
	}
	return false
}

// Inline serializes the flat properties of decl as "a: b; c: d", sorted by
// property name. Nested entries and nil values are skipped.
func Inline(decl map[string]any) string {
	parts := make([]string, 0, len(decl))
	for _, key := range sortedKeys(decl) {
		value := decl[key]
		if value == nil || isSelector(key) {
			continue
		}
		if _, ok := asMap(value); ok {
			continue
		}
		parts = append(parts, kebab(key)+": "+valueString(value))
	}
	return strings.Join(parts, "; ")
}

// StableID derives an identifier from a structural position.
func StableID(parts ...string) string {
	return strconv.FormatUint(xxhash.Sum64String(strings.Join(parts, "/")), 36)
}

// InstanceID returns a fresh identifier for nodes whose position is not
// stable across renders.
func InstanceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func isSelector(key string) bool {
	return strings.HasPrefix(key, ":") || strings.HasPrefix(key, "&")
}

func selectorFor(class, key string) string {
	switch {
	case strings.HasPrefix(key, "&"):
		return strings.ReplaceAll(key, "&", "."+class)
	case strings.HasPrefix(key, ":"):
		return "." + class + key
	default:
		return "." + class + " " + key
	}
}

// asMap accepts map[string]any and named map types with string keys.
func asMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func valueString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// kebab converts camelCase property names to CSS names.
func kebab(s string) string {
	if strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
