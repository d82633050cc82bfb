// Package runtime hosts the client-side counterpart of the schema engine: a
// FormState that owns one form's live value tree, the reactive visibility
// controller that recomputes hidden flags as values change, and the row
// mutation entry points. Everything here runs inside a single event-driven
// execution context; no handler blocks and no state is shared across forms.
package runtime
