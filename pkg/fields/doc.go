// Package fields defines the canonical field schema consumed by the rest of
// the module: field kinds, constraints, visibility conditions, and the
// normalizer that turns raw declarations into canonical nodes.
package fields
