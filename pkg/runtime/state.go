package runtime

import (
	"fmt"

	"github.com/goliatone/go-fieldset/pkg/fields"
	"github.com/goliatone/go-fieldset/pkg/rows"
)

// FormState owns the live value tree of one rendered form. It is the single
// writer of that tree: event handlers call SetValue and the row mutation
// entry points, and the visibility controller recomputes hidden flags after
// each relevant change.
type FormState struct {
	schema    []fields.Field
	access    fields.AccessChecker
	top       map[string]any
	groups    map[string]map[string]any
	repeaters map[string]*rows.Coordinator
	hidden    map[string]bool
}

// Option configures a FormState at construction time.
type Option func(*config)

type config struct {
	values map[string]any
	access fields.AccessChecker
}

// WithValues seeds the form with an initial value tree, shaped like the
// schema: scalars at the top level, records for groups, ordered row lists
// for repeaters.
func WithValues(values map[string]any) Option {
	return func(c *config) {
		c.values = values
	}
}

// WithAccessChecker removes inaccessible fields from the form entirely; they
// are treated as absent, not hidden.
func WithAccessChecker(checker fields.AccessChecker) Option {
	return func(c *config) {
		c.access = checker
	}
}

// New builds a FormState over a canonical schema and computes the initial
// visibility flags.
func New(schema []fields.Field, opts ...Option) (*FormState, error) {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	s := &FormState{
		access:    cfg.access,
		top:       make(map[string]any),
		groups:    make(map[string]map[string]any),
		repeaters: make(map[string]*rows.Coordinator),
		hidden:    make(map[string]bool),
	}

	for _, field := range schema {
		if !fields.Accessible(cfg.access, field) {
			continue
		}
		s.schema = append(s.schema, field)

		switch field.Kind {
		case fields.KindGroup:
			record := make(map[string]any, len(field.Children))
			seed, _ := cfg.values[field.Key].(map[string]any)
			for _, child := range field.Children {
				if value, ok := seed[child.Key]; ok {
					record[child.Key] = value
				} else {
					record[child.Key] = child.Default
				}
			}
			s.groups[field.Key] = record

		case fields.KindRepeater:
			coordinator, err := rows.New(field, rows.WithRows(seedRows(cfg.values[field.Key])))
			if err != nil {
				return nil, err
			}
			s.repeaters[field.Key] = coordinator

		default:
			if value, ok := cfg.values[field.Key]; ok {
				s.top[field.Key] = value
			} else if field.Default != nil {
				s.top[field.Key] = field.Default
			}
		}
	}

	s.refreshTopLevel()
	for key := range s.repeaters {
		s.refreshAllRows(key)
	}
	return s, nil
}

func seedRows(raw any) []map[string]any {
	switch typed := raw.(type) {
	case nil:
		return nil
	case []map[string]any:
		return typed
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for _, entry := range typed {
			if record, ok := entry.(map[string]any); ok {
				out = append(out, record)
			}
		}
		return out
	default:
		return nil
	}
}

// SetValue records a field change and re-runs visibility for the affected
// scope: the whole top-level form for a top-level or group change, a single
// row for a row-scoped change. No global re-scan happens on row edits.
func (s *FormState) SetValue(path string, value any) error {
	ref, err := parsePath(path)
	if err != nil {
		return err
	}

	switch {
	case ref.container == "":
		field, ok := s.fieldByKey(ref.key)
		if !ok {
			return fmt.Errorf("runtime: unknown field %q", ref.key)
		}
		if field.Kind.IsContainer() {
			return fmt.Errorf("runtime: %q is a %s, not a scalar field", ref.key, field.Kind)
		}
		s.top[ref.key] = value
		s.refreshTopLevel()

	case ref.index < 0:
		record, ok := s.groups[ref.container]
		if !ok {
			return fmt.Errorf("runtime: unknown group %q", ref.container)
		}
		group, _ := s.fieldByKey(ref.container)
		if _, ok := group.Child(ref.key); !ok {
			return fmt.Errorf("runtime: group %q has no field %q", ref.container, ref.key)
		}
		record[ref.key] = value
		s.refreshTopLevel()

	default:
		coordinator, ok := s.repeaters[ref.container]
		if !ok {
			return fmt.Errorf("runtime: unknown repeater %q", ref.container)
		}
		if err := coordinator.SetValue(ref.index, ref.key, value); err != nil {
			return err
		}
		s.refreshRow(ref.container, ref.index)
	}
	return nil
}

// InsertRow appends a row to the named repeater and re-evaluates conditional
// fields within the new row only. It returns the renumbered row list.
func (s *FormState) InsertRow(repeaterKey string) ([]rows.Row, error) {
	coordinator, ok := s.repeaters[repeaterKey]
	if !ok {
		return nil, fmt.Errorf("runtime: unknown repeater %q", repeaterKey)
	}
	updated, err := coordinator.Insert()
	if err != nil {
		return nil, err
	}
	s.refreshRow(repeaterKey, len(updated)-1)
	return updated, nil
}

// RemoveRow detaches a row and rebuilds the hidden flags of the surviving
// rows, whose paths all shift during renumbering.
func (s *FormState) RemoveRow(repeaterKey string, index int) ([]rows.Row, error) {
	coordinator, ok := s.repeaters[repeaterKey]
	if !ok {
		return nil, fmt.Errorf("runtime: unknown repeater %q", repeaterKey)
	}
	updated, err := coordinator.Remove(index)
	if err != nil {
		return nil, err
	}
	s.refreshAllRows(repeaterKey)
	return updated, nil
}

// ReorderRows applies a permutation of row positions and rebuilds the hidden
// flags of every row in the repeater.
func (s *FormState) ReorderRows(repeaterKey string, order []int) ([]rows.Row, error) {
	coordinator, ok := s.repeaters[repeaterKey]
	if !ok {
		return nil, fmt.Errorf("runtime: unknown repeater %q", repeaterKey)
	}
	updated, err := coordinator.Reorder(order)
	if err != nil {
		return nil, err
	}
	s.refreshAllRows(repeaterKey)
	return updated, nil
}

// Rows returns the named repeater's current rows.
func (s *FormState) Rows(repeaterKey string) ([]rows.Row, error) {
	coordinator, ok := s.repeaters[repeaterKey]
	if !ok {
		return nil, fmt.Errorf("runtime: unknown repeater %q", repeaterKey)
	}
	return coordinator.Rows(), nil
}

// RowTitle renders the heading for one row of the named repeater.
func (s *FormState) RowTitle(repeaterKey string, index int) (string, error) {
	coordinator, ok := s.repeaters[repeaterKey]
	if !ok {
		return "", fmt.Errorf("runtime: unknown repeater %q", repeaterKey)
	}
	return coordinator.Title(index), nil
}

// Hidden reports whether the field at the given path is currently hidden.
// Hidden is presentation only: the field's value stays in the tree either
// way, and only the sanitizer's content rules decide what persists.
func (s *FormState) Hidden(path string) bool {
	return s.hidden[path]
}

// HiddenFields returns a copy of all current hidden flags, keyed by field
// path. Paths absent from the map are visible.
func (s *FormState) HiddenFields() map[string]bool {
	out := make(map[string]bool, len(s.hidden))
	for path, hidden := range s.hidden {
		out[path] = hidden
	}
	return out
}

// Values assembles the full value tree in schema shape, ready for the
// sanitizer.
func (s *FormState) Values() map[string]any {
	out := make(map[string]any, len(s.schema))
	for _, field := range s.schema {
		switch field.Kind {
		case fields.KindGroup:
			record := s.groups[field.Key]
			copied := make(map[string]any, len(record))
			for key, value := range record {
				copied[key] = value
			}
			out[field.Key] = copied
		case fields.KindRepeater:
			out[field.Key] = s.repeaters[field.Key].Values()
		default:
			out[field.Key] = s.top[field.Key]
		}
	}
	return out
}

func (s *FormState) fieldByKey(key string) (fields.Field, bool) {
	for _, field := range s.schema {
		if field.Key == key {
			return field, true
		}
	}
	return fields.Field{}, false
}
