// Package remotesearch is the remote option source collaborator for
// search-style fields: option providers for type-ahead queries and label
// hydration of pre-selected values, plus a small net/http endpoint that
// serves search results to the client runtime. The component is
// extraction-friendly: it depends on the schema engine only through the
// fields.Option shape.
package remotesearch
