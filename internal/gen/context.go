package gen

// Context is the shared mutable state for one generation attempt: fixed grid
// dimensions plus every component produced so far. The embedded store exposes
// the full component surface directly; the context adds no semantics beyond
// dimension storage.
//
// A context lives for exactly one attempt. A safe retry discards it (and
// every component in it) and constructs a brand-new one; there is no partial
// rollback.
type Context struct {
	Width  int
	Height int
	*Store
}

// NewContext creates a context with fixed dimensions. Non-positive width or
// height fails with *InvalidDimensionsError.
func NewContext(width, height int) (*Context, error) {
	if width <= 0 || height <= 0 {
		return nil, &InvalidDimensionsError{Width: width, Height: height}
	}
	return &Context{Width: width, Height: height, Store: NewStore()}, nil
}
