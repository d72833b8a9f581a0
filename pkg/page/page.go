// Package page models a scraped document as a queryable tree of contexts.
//
// A Context is one document scope (the main page or a nested frame). Row
// adapters and the resolver only ever talk to these interfaces, so tests can
// substitute a mock tree and no caller depends on a particular browser
// binding.
package page

import (
	"context"
	"errors"
)

// ErrNoSource is returned when a frame carries neither an active nor a
// deferred source attribute.
var ErrNoSource = errors.New("frame has no source")

// Context is a queryable document scope.
type Context interface {
	// Select returns the elements matching a CSS selector, in document order.
	Select(selector string) []Element

	// Text returns the visible text of the whole scope, whitespace-collapsed.
	Text() string

	// URL returns the address this scope was loaded from.
	URL() string

	// Frames lists the attached sub-documents, in document order.
	Frames() []Frame
}

// Element is a single node within a Context.
type Element interface {
	Select(selector string) []Element
	Text() string
	Attr(name string) string
}

// Frame is an attached sub-document that may need an explicit load.
type Frame interface {
	// Deferred reports whether the frame's content source is lazy-loaded
	// (present only as a deferred-source attribute).
	Deferred() bool

	// Load fetches the frame's document and returns it as a Context. For a
	// deferred frame this forces the load from the deferred source.
	Load(ctx context.Context) (Context, error)
}

// Loader fetches a frame document by source address. The referer is the URL
// of the embedding page; some frame endpoints require it.
type Loader interface {
	LoadFrame(ctx context.Context, src, referer string) (string, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, src, referer string) (string, error)

func (f LoaderFunc) LoadFrame(ctx context.Context, src, referer string) (string, error) {
	return f(ctx, src, referer)
}
