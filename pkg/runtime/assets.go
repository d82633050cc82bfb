package runtime

// Assets tracks which shared asset bundles have been emitted during one
// render pass, so a form with several repeaters still loads its script and
// stylesheet once. The tracker is instance-scoped and travels with the
// request or test that owns it; there is no package-level flag to reset
// between runs.
type Assets struct {
	emitted map[string]struct{}
}

// NewAssets returns an empty tracker.
func NewAssets() *Assets {
	return &Assets{emitted: make(map[string]struct{})}
}

// MarkEmitted records that the named bundle was emitted and reports whether
// this call was the first. Callers emit on true and skip on false.
func (a *Assets) MarkEmitted(name string) bool {
	if _, done := a.emitted[name]; done {
		return false
	}
	a.emitted[name] = struct{}{}
	return true
}

// Emitted reports whether the named bundle was already emitted.
func (a *Assets) Emitted(name string) bool {
	_, done := a.emitted[name]
	return done
}
