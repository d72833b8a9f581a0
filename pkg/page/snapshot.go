package page

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/washwatch/washwatch/internal/logger"
)

// Deferred-source attributes used by lazyload plugins (WP Rocket and
// friends). Checked in order.
var deferredSrcAttrs = []string{"data-lazy-src", "data-src"}

// Snapshot is a Context over a parsed HTML document.
type Snapshot struct {
	url    string
	base   *url.URL
	doc    *goquery.Document
	loader Loader
}

// NewSnapshot parses HTML into a queryable Context. The loader is used to
// fetch any frames attached to the document; it may be nil for frameless
// documents (Frame.Load then fails with ErrNoSource semantics).
func NewSnapshot(html, pageURL string, loader Loader) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	base, _ := url.Parse(pageURL)
	return &Snapshot{url: pageURL, base: base, doc: doc, loader: loader}, nil
}

func (s *Snapshot) Select(selector string) []Element {
	return wrapSelection(s.doc.Find(selector))
}

func (s *Snapshot) Text() string {
	body := s.doc.Find("body")
	if body.Length() == 0 {
		return collapse(s.doc.Text())
	}
	return collapse(body.Text())
}

func (s *Snapshot) URL() string { return s.url }

func (s *Snapshot) Frames() []Frame {
	var frames []Frame
	s.doc.Find("iframe").Each(func(_ int, sel *goquery.Selection) {
		f := &snapshotFrame{
			src:    strings.TrimSpace(sel.AttrOr("src", "")),
			base:   s.base,
			parent: s.url,
			loader: s.loader,
		}
		for _, attr := range deferredSrcAttrs {
			if v := strings.TrimSpace(sel.AttrOr(attr, "")); v != "" {
				f.deferredSrc = v
				break
			}
		}
		frames = append(frames, f)
	})
	return frames
}

// snapshotElement is an Element over a single goquery node.
type snapshotElement struct {
	sel *goquery.Selection
}

func (e *snapshotElement) Select(selector string) []Element {
	return wrapSelection(e.sel.Find(selector))
}

func (e *snapshotElement) Text() string { return collapse(e.sel.Text()) }

func (e *snapshotElement) Attr(name string) string { return e.sel.AttrOr(name, "") }

// snapshotFrame defers loading until the resolver asks for it.
type snapshotFrame struct {
	src         string
	deferredSrc string
	base        *url.URL
	parent      string
	loader      Loader
}

func (f *snapshotFrame) Deferred() bool {
	return f.src == "" && f.deferredSrc != ""
}

// Load fetches the frame document. For a deferred frame the deferred source
// is promoted to the active one, which is the snapshot equivalent of copying
// data-lazy-src into src on a live page.
func (f *snapshotFrame) Load(ctx context.Context) (Context, error) {
	src := f.src
	if src == "" {
		src = f.deferredSrc
	}
	if src == "" {
		return nil, ErrNoSource
	}
	if f.loader == nil {
		return nil, fmt.Errorf("no loader for frame %q: %w", src, ErrNoSource)
	}

	resolved := src
	if f.base != nil {
		if u, err := url.Parse(src); err == nil {
			resolved = f.base.ResolveReference(u).String()
		}
	}

	logger.Debug("loading frame", "src", resolved, "deferred", f.Deferred())
	html, err := f.loader.LoadFrame(ctx, resolved, f.parent)
	if err != nil {
		return nil, fmt.Errorf("failed to load frame %q: %w", resolved, err)
	}
	return NewSnapshot(html, resolved, f.loader)
}

func wrapSelection(sel *goquery.Selection) []Element {
	elems := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elems = append(elems, &snapshotElement{sel: s})
	})
	return elems
}

// collapse normalizes whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
