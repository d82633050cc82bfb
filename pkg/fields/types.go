package fields

// Kind enumerates the supported field kinds. Scalar kinds carry a primitive
// value, choice kinds validate against an option set, and the two container
// kinds (group, repeater) own child fields.
type Kind string

const (
	KindText        Kind = "text"
	KindTextarea    Kind = "textarea"
	KindNumber      Kind = "number"
	KindCheckbox    Kind = "checkbox"
	KindDate        Kind = "date"
	KindColor       Kind = "color"
	KindURL         Kind = "url"
	KindEmail       Kind = "email"
	KindRichText    Kind = "richtext"
	KindSelect      Kind = "select"
	KindRadio       Kind = "radio"
	KindMultiSelect Kind = "multiselect"
	KindMedia       Kind = "media"
	KindMediaList   Kind = "media_list"
	KindSearch      Kind = "search"
	KindSearchMulti Kind = "search_multi"
	KindDimension   Kind = "dimension"
	KindGroup       Kind = "group"
	KindRepeater    Kind = "repeater"
)

// IsContainer reports whether the kind owns child fields.
func (k Kind) IsContainer() bool {
	return k == KindGroup || k == KindRepeater
}

// IsChoice reports whether the kind validates its value against an option
// set.
func (k Kind) IsChoice() bool {
	switch k {
	case KindSelect, KindRadio, KindMultiSelect:
		return true
	default:
		return false
	}
}

// Sanitizer cleans a raw submitted value into its persisted form. Sanitizers
// never fail; malformed input falls back to the field default.
type Sanitizer func(raw any) any

// Field is one canonical field declaration. Children is non-empty exactly
// when Kind is a container kind; every other kind has no children.
type Field struct {
	Key         string      `json:"key"`
	Kind        Kind        `json:"kind"`
	Label       string      `json:"label,omitempty"`
	Description string      `json:"description,omitempty"`
	Default     any         `json:"default,omitempty"`
	Constraints Constraints `json:"constraints,omitempty"`
	Visibility  []Condition `json:"visibility,omitempty"`
	Children    []Field     `json:"children,omitempty"`

	// Capability names the permission required to see or submit the field.
	// Empty means no check. Fields the caller cannot access are treated as
	// absent, not merely hidden.
	Capability string `json:"capability,omitempty"`

	// Sanitize is resolved once at normalization time: either the kind
	// default or a caller-supplied override. An override fully replaces the
	// kind default.
	Sanitize Sanitizer `json:"-"`
}

// Child returns the child field with the given key, if any.
func (f Field) Child(key string) (Field, bool) {
	for _, child := range f.Children {
		if child.Key == key {
			return child, true
		}
	}
	return Field{}, false
}

// Constraints carries kind-specific limits and presentation hints. Unused
// members stay at their zero value for kinds that do not recognise them.
type Constraints struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`

	// Rows is the textarea height; the normalizer defaults it to 5.
	Rows int `json:"rows,omitempty"`

	// Display selects the widget for choice kinds; defaults to "select".
	Display string `json:"display,omitempty"`

	// Multiple marks choice and search kinds that accept several values.
	Multiple bool `json:"multiple,omitempty"`

	// MinItems/MaxItems bound repeater row counts. Zero means no floor and
	// no cap respectively.
	MinItems int `json:"minItems,omitempty"`
	MaxItems int `json:"maxItems,omitempty"`

	// Options supplies the resolved option set for choice kinds. Providers
	// are invoked fresh at each point of use.
	Options OptionProvider `json:"-"`

	// Units and CompanionKey configure the dimension kind: Units maps unit
	// values to labels and CompanionKey names the field holding the numeric
	// part.
	Units        map[string]string `json:"units,omitempty"`
	CompanionKey string            `json:"companionKey,omitempty"`

	// RowTitle is the repeater row heading template, e.g. "Item {index}:
	// {value}". RowTitleField names the child whose value fills {value}.
	RowTitle      string `json:"rowTitle,omitempty"`
	RowTitleField string `json:"rowTitleField,omitempty"`

	Placeholder string `json:"placeholder,omitempty"`
}

// Operator identifies one comparison in a visibility condition.
type Operator string

const (
	OpEqual          Operator = "="
	OpStrictEqual    Operator = "=="
	OpNotEqual       Operator = "!="
	OpStrictNotEqual Operator = "!=="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpIn             Operator = "in"
	OpNotIn          Operator = "not in"
	OpContains       Operator = "contains"
	OpNotContains    Operator = "not contains"
	OpEmpty          Operator = "empty"
	OpNotEmpty       Operator = "not empty"
)

// KnownOperator reports whether the operator is part of the comparison
// table. Evaluation treats unknown operators as loose equality; linting uses
// this check to surface probable typos before they reach runtime.
func KnownOperator(op Operator) bool {
	switch op {
	case OpEqual, OpStrictEqual, OpNotEqual, OpStrictNotEqual,
		OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual,
		OpIn, OpNotIn, OpContains, OpNotContains,
		OpEmpty, OpNotEmpty:
		return true
	default:
		return false
	}
}

// Condition is one canonical visibility test. Field is a local key, scoped to
// the nearest enclosing container at evaluation time; normalization never
// resolves it.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// AccessChecker answers capability checks for fields that declare one. A nil
// checker grants everything.
type AccessChecker interface {
	CanAccess(capability string) bool
}

// AccessCheckerFunc adapts a function into an AccessChecker.
type AccessCheckerFunc func(capability string) bool

// CanAccess delegates to the underlying function.
func (fn AccessCheckerFunc) CanAccess(capability string) bool {
	return fn(capability)
}

// Accessible reports whether the checker grants the field. Fields without a
// capability are always accessible.
func Accessible(checker AccessChecker, field Field) bool {
	if field.Capability == "" || checker == nil {
		return true
	}
	return checker.CanAccess(field.Capability)
}
