// Package sanitize walks a canonical schema tree and a raw submitted value
// tree in lockstep, producing a cleaned value tree whose shape always matches
// the schema's shape. Untrusted input never raises: unknown keys are dropped,
// malformed rows are skipped, and wrong-shape values fall back to the field
// default.
package sanitize
