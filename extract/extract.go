// Package extract implements the DOM-query side of the harvest: discovering
// detail page links on an index page and pulling the ordered raw field
// values out of a detail page. All selector matching goes through cascadia
// selectors compiled once at construction.
package extract

import (
	"fmt"
	"html"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/aeroharvest/normalize"
)

// Selectors are the site-specific query strings. They rarely change, but a
// site profile can override them when the markup shifts.
type Selectors struct {
	// IndexMarker matches the small info icon that flags each airport
	// entry on an index page. The detail link is the icon's enclosing
	// anchor.
	IndexMarker string

	// DetailField matches the per-field text nodes of a detail page,
	// one per schema key, in layout order.
	DetailField string

	// VisitWebsiteLabel is the literal label text of the website field.
	// That node carries the URL in its inner anchor, not in its text.
	VisitWebsiteLabel string
}

// DefaultSelectors returns the selectors for the current site markup.
func DefaultSelectors() Selectors {
	return Selectors{
		IndexMarker:       `img[src='/images/icon-info.gif']`,
		DetailField:       `.airportdetails span.detail`,
		VisitWebsiteLabel: ": Visit Website (?)",
	}
}

// Extractor holds the compiled selectors.
type Extractor struct {
	marker    cascadia.Selector
	field     cascadia.Selector
	websLabel string
}

// New compiles the given selectors. Invalid selector syntax (possible when
// they come from a profile file) is reported up front rather than at first
// use.
func New(sel Selectors) (*Extractor, error) {
	marker, err := cascadia.Compile(sel.IndexMarker)
	if err != nil {
		return nil, fmt.Errorf("extract: compile index marker selector: %w", err)
	}
	field, err := cascadia.Compile(sel.DetailField)
	if err != nil {
		return nil, fmt.Errorf("extract: compile detail field selector: %w", err)
	}
	return &Extractor{
		marker:    marker,
		field:     field,
		websLabel: sel.VisitWebsiteLabel,
	}, nil
}

// IndexLinks returns the detail page URLs discovered on one index page, in
// document order: every marker icon contributes the href of its enclosing
// anchor, entity-decoded and resolved against base. A page without markers
// yields an empty slice; that is a valid (if empty) index page.
func (e *Extractor) IndexLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	doc.FindMatcher(e.marker).Each(func(_ int, s *goquery.Selection) {
		anchor := s.Closest("a")
		href := anchor.AttrOr("href", "")
		if href == "" {
			return
		}

		// Index markup escapes query separators in hrefs.
		href = html.UnescapeString(href)

		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		links = append(links, resolved.String())
	})
	return links
}

// DetailValues returns the raw field values of a detail page in layout
// order. Every value is run through the cleanup pipeline except the
// website field, whose value is the inner anchor's link target rather than
// the label text. The caller's schema enforces the expected count.
func (e *Extractor) DetailValues(doc *goquery.Document) []*string {
	var values []*string
	doc.FindMatcher(e.field).Each(func(_ int, s *goquery.Selection) {
		text := s.Text()

		if normalize.CollapseSpace(text) == e.websLabel {
			href := s.Find("a").AttrOr("href", "")
			if href == "" {
				values = append(values, nil)
				return
			}
			values = append(values, &href)
			return
		}

		values = append(values, normalize.ClearText(text))
	})
	return values
}
