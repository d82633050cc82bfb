// Package export publishes a canonical field schema as an OpenAPI schema,
// so host applications can describe the sanitized submission shape to their
// own API consumers. The mapping follows the sanitizer's output: groups are
// objects, repeaters arrays of objects, choice kinds enumerated strings.
package export
