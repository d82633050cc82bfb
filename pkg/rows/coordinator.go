package rows

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

var (
	// ErrRowFloor is returned when removing a row would drop the count below
	// the configured minimum.
	ErrRowFloor = errors.New("rows: row count is at the configured minimum")

	// ErrRowCap is returned when inserting a row would push the count above
	// the configured maximum.
	ErrRowCap = errors.New("rows: row count is at the configured maximum")

	// ErrNotRepeater is returned when a coordinator is built for a field
	// whose kind does not own repeated rows.
	ErrNotRepeater = errors.New("rows: field is not a repeater")
)

// Row is one repeated record together with its current positional index.
// Position is identity: a row has no stable key beyond where it sits.
type Row struct {
	Index  int
	Values map[string]any

	// Paths maps each child key to its fully qualified field path with the
	// row's index embedded, e.g. "sections[2][heading]".
	Paths map[string]string
}

// Coordinator owns the rows of one repeater instance and keeps their indices
// contiguous across mutations.
type Coordinator struct {
	field fields.Field
	rows  []Row
}

// Option configures a coordinator at construction time.
type Option func(*Coordinator)

// WithRows seeds the coordinator with existing row values, in order. Values
// are not copied; the coordinator takes ownership.
func WithRows(values []map[string]any) Option {
	return func(c *Coordinator) {
		c.rows = make([]Row, 0, len(values))
		for _, record := range values {
			if record == nil {
				record = map[string]any{}
			}
			c.rows = append(c.rows, Row{Values: record})
		}
	}
}

// New builds a coordinator for a repeater field.
func New(field fields.Field, opts ...Option) (*Coordinator, error) {
	if field.Kind != fields.KindRepeater {
		return nil, fmt.Errorf("%w: %q has kind %q", ErrNotRepeater, field.Key, field.Kind)
	}
	c := &Coordinator{field: field}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.renumber()
	return c, nil
}

// Count returns the current row count.
func (c *Coordinator) Count() int {
	return len(c.rows)
}

// Rows returns the current rows in order. The slice is a copy; the row value
// maps are shared, since callers mutate rows in place while they exist.
func (c *Coordinator) Rows() []Row {
	out := make([]Row, len(c.rows))
	copy(out, c.rows)
	return out
}

// Row returns the row at the given position.
func (c *Coordinator) Row(index int) (Row, bool) {
	if index < 0 || index >= len(c.rows) {
		return Row{}, false
	}
	return c.rows[index], true
}

// Values returns the row value records in order, the shape the sanitizer
// consumes.
func (c *Coordinator) Values() []map[string]any {
	out := make([]map[string]any, 0, len(c.rows))
	for _, row := range c.rows {
		out = append(out, row.Values)
	}
	return out
}

// Insert appends a new row at position Count, instantiated from a template
// of child defaults rather than a clone of the last row. It returns the
// renumbered row list.
func (c *Coordinator) Insert() ([]Row, error) {
	if limit := c.field.Constraints.MaxItems; limit > 0 && len(c.rows) >= limit {
		return nil, fmt.Errorf("%w (%d)", ErrRowCap, limit)
	}
	c.rows = append(c.rows, Row{Values: c.template()})
	c.renumber()
	return c.Rows(), nil
}

// Remove detaches the row at the given position and renumbers every
// remaining row to its new ordinal. This is a full renumbering pass, not a
// sparse delete: index values are positional identity.
func (c *Coordinator) Remove(index int) ([]Row, error) {
	if index < 0 || index >= len(c.rows) {
		return nil, fmt.Errorf("rows: index %d out of range [0,%d)", index, len(c.rows))
	}
	if floor := c.field.Constraints.MinItems; floor > 0 && len(c.rows) <= floor {
		return nil, fmt.Errorf("%w (%d)", ErrRowFloor, floor)
	}
	c.rows = append(c.rows[:index], c.rows[index+1:]...)
	c.renumber()
	return c.Rows(), nil
}

// Reorder applies a permutation of current positions: order[i] names the old
// position of the row that ends up at position i. The same renumbering pass
// as Remove runs afterwards, since positions change and there is no stable
// identity to preserve.
func (c *Coordinator) Reorder(order []int) ([]Row, error) {
	if len(order) != len(c.rows) {
		return nil, fmt.Errorf("rows: permutation length %d does not match row count %d", len(order), len(c.rows))
	}
	seen := make([]bool, len(order))
	next := make([]Row, len(order))
	for target, source := range order {
		if source < 0 || source >= len(c.rows) {
			return nil, fmt.Errorf("rows: permutation entry %d out of range [0,%d)", source, len(c.rows))
		}
		if seen[source] {
			return nil, fmt.Errorf("rows: permutation names position %d twice", source)
		}
		seen[source] = true
		next[target] = c.rows[source]
	}
	c.rows = next
	c.renumber()
	return c.Rows(), nil
}

// SetValue mutates one child value of the row at the given position.
func (c *Coordinator) SetValue(index int, key string, value any) error {
	if index < 0 || index >= len(c.rows) {
		return fmt.Errorf("rows: index %d out of range [0,%d)", index, len(c.rows))
	}
	if _, ok := c.field.Child(key); !ok {
		return fmt.Errorf("rows: repeater %q has no child %q", c.field.Key, key)
	}
	c.rows[index].Values[key] = value
	return nil
}

// FieldPath formats the fully qualified path of one child field inside one
// row of a repeater.
func FieldPath(repeaterKey string, index int, childKey string) string {
	return fmt.Sprintf("%s[%d][%s]", repeaterKey, index, childKey)
}

// template builds an empty row from the child defaults.
func (c *Coordinator) template() map[string]any {
	record := make(map[string]any, len(c.field.Children))
	for _, child := range c.field.Children {
		record[child.Key] = child.Default
	}
	return record
}

// renumber rewrites each row's index and every descendant path to match its
// current position. It runs after every mutation so consumers always observe
// indices exactly 0..n-1.
func (c *Coordinator) renumber() {
	for i := range c.rows {
		c.rows[i].Index = i
		paths := make(map[string]string, len(c.field.Children))
		for _, child := range c.field.Children {
			paths[child.Key] = FieldPath(c.field.Key, i, child.Key)
		}
		c.rows[i].Paths = paths
	}
}
