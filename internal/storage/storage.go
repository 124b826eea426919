// Package storage persists custom command definitions and per-command
// enabled state in a JSON file store, so administrative edits survive
// restarts. The engine itself never touches this package.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/keshon/datastore"

	"slashkit/pkg/slash"
)

const commandsKey = "custom_commands"

// Storage wraps the datastore with command-definition accessors.
type Storage struct {
	ds *datastore.DataStore
}

// record is the single document stored under commandsKey.
type record struct {
	Definitions map[string]slash.CommandDefinition `json:"definitions"`
	Disabled    map[string]bool                    `json:"disabled"`
}

// New opens (or creates) the store at filePath.
func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// Close flushes and closes the underlying store.
func (s *Storage) Close() error {
	return s.ds.Close()
}

// getRecord loads the command record, creating an empty one on first use.
// The datastore hands back decoded JSON (map[string]any), so the value is
// round-tripped through JSON into the typed record.
func (s *Storage) getRecord() (*record, error) {
	data, exists := s.ds.Get(commandsKey)
	if !exists {
		rec := &record{
			Definitions: map[string]slash.CommandDefinition{},
			Disabled:    map[string]bool{},
		}
		s.ds.Add(commandsKey, rec)
		return rec, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal command record: %w", err)
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal command record: %w", err)
	}
	if rec.Definitions == nil {
		rec.Definitions = map[string]slash.CommandDefinition{}
	}
	if rec.Disabled == nil {
		rec.Disabled = map[string]bool{}
	}
	return &rec, nil
}

// SaveCommand stores (or replaces) a custom command definition.
func (s *Storage) SaveCommand(def *slash.CommandDefinition) error {
	rec, err := s.getRecord()
	if err != nil {
		return err
	}
	rec.Definitions[def.ID] = *def
	s.ds.Add(commandsKey, rec)
	return nil
}

// DeleteCommand removes a custom command definition by id.
func (s *Storage) DeleteCommand(id string) error {
	rec, err := s.getRecord()
	if err != nil {
		return err
	}
	delete(rec.Definitions, id)
	delete(rec.Disabled, id)
	s.ds.Add(commandsKey, rec)
	return nil
}

// ListCommands returns every stored custom definition.
func (s *Storage) ListCommands() ([]slash.CommandDefinition, error) {
	rec, err := s.getRecord()
	if err != nil {
		return nil, err
	}
	out := make([]slash.CommandDefinition, 0, len(rec.Definitions))
	for _, def := range rec.Definitions {
		out = append(out, def)
	}
	return out, nil
}

// SetDisabled records that a command (built-in or custom) is disabled.
func (s *Storage) SetDisabled(id string, disabled bool) error {
	rec, err := s.getRecord()
	if err != nil {
		return err
	}
	if disabled {
		rec.Disabled[id] = true
	} else {
		delete(rec.Disabled, id)
	}
	s.ds.Add(commandsKey, rec)
	return nil
}

// DisabledCommands returns the ids of commands marked disabled.
func (s *Storage) DisabledCommands() ([]string, error) {
	rec, err := s.getRecord()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rec.Disabled))
	for id := range rec.Disabled {
		out = append(out, id)
	}
	return out, nil
}

// Restore loads stored custom definitions and disabled flags into a
// registry. Invalid stored definitions are skipped, not fatal.
func (s *Storage) Restore(reg *slash.Registry) (int, error) {
	defs, err := s.ListCommands()
	if err != nil {
		return 0, err
	}
	restored := 0
	for i := range defs {
		def := defs[i]
		if _, err := reg.Register(&def); err != nil {
			continue
		}
		restored++
	}

	disabled, err := s.DisabledCommands()
	if err != nil {
		return restored, err
	}
	for _, id := range disabled {
		_ = reg.SetEnabled(id, false)
	}
	return restored, nil
}
