package slash

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry owns the active command definitions. Built-ins load first; custom
// definitions may shadow a built-in's trigger (the built-in stays addressable
// by id) but never another custom one. Readers and the single writer may
// race; definitions are swapped whole so a reader sees either the old or the
// new definition, never a partial update.
type Registry struct {
	mu       sync.RWMutex
	byID     map[string]*CommandDefinition
	byKey    map[string]*CommandDefinition // trigger and aliases, lowercase
	shadowed map[string]*CommandDefinition // key -> built-in displaced by a custom def
}

// NewRegistry returns an empty registry. The host application owns it and
// passes it by reference wherever command resolution is needed.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[string]*CommandDefinition),
		byKey:    make(map[string]*CommandDefinition),
		shadowed: make(map[string]*CommandDefinition),
	}
}

// keys returns the definition's trigger and aliases, normalized to lowercase.
func keys(def *CommandDefinition) []string {
	out := []string{strings.ToLower(def.Trigger)}
	for _, a := range def.Aliases {
		out = append(out, strings.ToLower(a))
	}
	return out
}

// RegisterBuiltin adds a built-in definition. Built-ins are expected to load
// before any custom registration; colliding built-in triggers are a
// programming error.
func (r *Registry) RegisterBuiltin(def *CommandDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	def.BuiltIn = true
	if _, ok := r.byID[def.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, def.ID)
	}
	for _, k := range keys(def) {
		if _, ok := r.byKey[k]; ok {
			return fmt.Errorf("%w: %s", ErrTriggerConflict, k)
		}
	}
	r.byID[def.ID] = def
	for _, k := range keys(def) {
		r.byKey[k] = def
	}
	return nil
}

// Register adds a custom definition. Shadowing a built-in trigger succeeds
// with a TRIGGER_OVERRIDES_BUILTIN warning; colliding with another custom
// trigger fails with ErrTriggerConflict. The conflict check covers aliases.
func (r *Registry) Register(def *CommandDefinition) ([]ValidationIssue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[def.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, def.ID)
	}

	var warnings []ValidationIssue
	for _, k := range keys(def) {
		existing, ok := r.byKey[k]
		if !ok {
			continue
		}
		if !existing.BuiltIn {
			return nil, fmt.Errorf("%w: %q is used by %s (%s)",
				ErrTriggerConflict, k, existing.Trigger, CodeTriggerConflict)
		}
		warnings = append(warnings, ValidationIssue{
			Code:    CodeTriggerOverridesBuiltin,
			Field:   "trigger",
			Message: fmt.Sprintf("%q overrides the built-in /%s; the built-in stays reachable by id", k, existing.Trigger),
		})
	}

	def.BuiltIn = false
	r.byID[def.ID] = def
	for _, k := range keys(def) {
		if existing, ok := r.byKey[k]; ok && existing.BuiltIn {
			r.shadowed[k] = existing
		}
		r.byKey[k] = def
	}
	return warnings, nil
}

// Unregister removes a definition by id. Built-ins shadowed by the removed
// definition become reachable by trigger again.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unregisterLocked(id)
}

func (r *Registry) unregisterLocked(id string) error {
	def, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}
	delete(r.byID, id)
	for _, k := range keys(def) {
		if r.byKey[k] != def {
			continue
		}
		if builtin, shadow := r.shadowed[k]; shadow {
			r.byKey[k] = builtin
			delete(r.shadowed, k)
		} else {
			delete(r.byKey, k)
		}
	}
	return nil
}

// Update replaces the definition with the same id, re-running trigger
// conflict checks when the trigger or aliases changed.
func (r *Registry) Update(def *CommandDefinition) ([]ValidationIssue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[def.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, def.ID)
	}

	oldKeys := make(map[string]bool)
	for _, k := range keys(old) {
		oldKeys[k] = true
	}

	var warnings []ValidationIssue
	for _, k := range keys(def) {
		if oldKeys[k] {
			continue
		}
		existing, taken := r.byKey[k]
		if !taken {
			continue
		}
		if !existing.BuiltIn {
			return nil, fmt.Errorf("%w: %q is used by %s", ErrTriggerConflict, k, existing.Trigger)
		}
		warnings = append(warnings, ValidationIssue{
			Code:    CodeTriggerOverridesBuiltin,
			Field:   "trigger",
			Message: fmt.Sprintf("%q overrides the built-in /%s", k, existing.Trigger),
		})
	}

	if err := r.unregisterLocked(def.ID); err != nil {
		return nil, err
	}
	def.BuiltIn = old.BuiltIn
	r.byID[def.ID] = def
	for _, k := range keys(def) {
		if existing, taken := r.byKey[k]; taken && existing.BuiltIn && !def.BuiltIn {
			r.shadowed[k] = existing
		}
		r.byKey[k] = def
	}
	return warnings, nil
}

// SetEnabled flips a definition's enabled state. The definition is cloned and
// swapped so concurrent readers never observe a partial write.
func (r *Registry) SetEnabled(id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}
	clone := *def
	clone.Enabled = enabled
	r.byID[id] = &clone
	for _, k := range keys(def) {
		if r.byKey[k] == def {
			r.byKey[k] = &clone
		}
	}
	for k, v := range r.shadowed {
		if v == def {
			r.shadowed[k] = &clone
		}
	}
	return nil
}

// Resolve looks up a trigger or alias, case-insensitively.
func (r *Registry) Resolve(triggerOrAlias string) (*CommandDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byKey[strings.ToLower(triggerOrAlias)]
	return def, ok
}

// Get looks up a definition by id; shadowed built-ins stay reachable here.
func (r *Registry) Get(id string) (*CommandDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.byID[id]
	return def, ok
}

// All returns every registered definition sorted by trigger.
func (r *Registry) All() []*CommandDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*CommandDefinition, 0, len(r.byID))
	for _, def := range r.byID {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Trigger < out[j].Trigger })
	return out
}

// Category returns the definitions in one category, sorted by trigger.
func (r *Registry) Category(category string) []*CommandDefinition {
	var out []*CommandDefinition
	for _, def := range r.All() {
		if def.Category == category {
			out = append(out, def)
		}
	}
	return out
}

// Categories returns the distinct categories in sorted order.
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, def := range r.All() {
		if !seen[def.Category] {
			seen[def.Category] = true
			out = append(out, def.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Search ranks definitions against a query for autocomplete consumers:
// exact id/trigger match first, then description substring, then alias
// match. The ranking is a pure function of the query.
func (r *Registry) Search(query string) []*CommandDefinition {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	type scored struct {
		def   *CommandDefinition
		score int
	}
	var hits []scored
	for _, def := range r.All() {
		score := 0
		switch {
		case strings.ToLower(def.ID) == q || strings.ToLower(def.Trigger) == q:
			score = 3
		case strings.Contains(strings.ToLower(def.Description), q):
			score = 2
		default:
			for _, a := range def.Aliases {
				if strings.ToLower(a) == q {
					score = 1
					break
				}
			}
		}
		if score > 0 {
			hits = append(hits, scored{def, score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].def.Trigger < hits[j].def.Trigger
	})

	out := make([]*CommandDefinition, len(hits))
	for i, h := range hits {
		out[i] = h.def
	}
	return out
}
