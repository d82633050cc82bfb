// Package store makes the persistence collaborator concrete: field values
// keyed by content item identity plus field key, with an in-memory
// implementation for tests and embedding hosts and a SQLite implementation
// for standalone use. Values are stored as JSON-encoded trees shaped by the
// sanitizer.
package store
