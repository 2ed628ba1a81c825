package extract

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const indexFixture = `<html><body>
<table>
<tr><td><a href="/us/springfield-abraham-lincoln-capital-spi.html"><img src="/images/icon-info.gif" alt="info"></a></td></tr>
<tr><td><a href="/au/sydney-kingsford-smith-syd.html?from=a&amp;page=1"><img src="/images/icon-info.gif" alt="info"></a></td></tr>
<tr><td><img src="/images/flag-us.gif" alt="not a marker"></td></tr>
<tr><td><a href=""><img src="/images/icon-info.gif"></a></td></tr>
</table>
</body></html>`

func parseDoc(t *testing.T, raw string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := New(DefaultSelectors())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestIndexLinks(t *testing.T) {
	e := newExtractor(t)
	base, _ := url.Parse("https://www.world-airport-codes.com/alphabetical/airport-code/a.html")

	links := e.IndexLinks(parseDoc(t, indexFixture), base)

	want := []string{
		"https://www.world-airport-codes.com/us/springfield-abraham-lincoln-capital-spi.html",
		"https://www.world-airport-codes.com/au/sydney-kingsford-smith-syd.html?from=a&page=1",
	}
	if len(links) != len(want) {
		t.Fatalf("got %d links (%v), want %d", len(links), links, len(want))
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, links[i], want[i])
		}
	}
}

func TestIndexLinks_NoMarkersIsNotAnError(t *testing.T) {
	e := newExtractor(t)
	base, _ := url.Parse("https://www.world-airport-codes.com/")

	links := e.IndexLinks(parseDoc(t, `<html><body><p>No airports for this letter.</p></body></html>`), base)
	if len(links) != 0 {
		t.Errorf("empty index page yielded %v", links)
	}
}

func TestIndexLinks_InvalidSelector(t *testing.T) {
	sel := DefaultSelectors()
	sel.IndexMarker = "img[["
	if _, err := New(sel); err == nil {
		t.Error("New accepted an invalid selector")
	}
}

// detailFixture lays out the 16 fields in schema order, including the
// website field whose value lives in the anchor href rather than the label
// text.
const detailFixture = `<html><body><div class="airportdetails">
<span class="detail">: SPI</span>
<span class="detail">: Abraham Lincoln Capital</span>
<span class="detail">: 7999 ft.</span>
<span class="detail">: 598 ft.</span>
<span class="detail">: Springfield</span>
<span class="detail">: United States</span>
<span class="detail">: US</span>
<span class="detail">: Unavailable</span>
<span class="detail">: 89 40 40W</span>
<span class="detail">: 39 50 38N</span>
<span class="detail">: 41</span>
<span class="detail">: -6</span>
<span class="detail">: 217-788-1060</span>
<span class="detail">: Unknown (add)</span>
<span class="detail">: info@flyspi.com</span>
<span class="detail">: <a href="http://www.flyspi.com/">Visit Website</a> (?)</span>
</div></body></html>`

func TestDetailValues(t *testing.T) {
	e := newExtractor(t)

	values := e.DetailValues(parseDoc(t, detailFixture))
	if len(values) != 16 {
		t.Fatalf("got %d values, want 16", len(values))
	}

	wantText := map[int]string{
		0:  "SPI",
		1:  "Abraham Lincoln Capital",
		2:  "7999",
		3:  "598",
		8:  "89 40 40W",
		9:  "39 50 38N",
		12: "217-788-1060",
		15: "http://www.flyspi.com/",
	}
	for i, want := range wantText {
		if values[i] == nil {
			t.Errorf("values[%d] = nil, want %q", i, want)
			continue
		}
		if *values[i] != want {
			t.Errorf("values[%d] = %q, want %q", i, *values[i], want)
		}
	}

	for _, i := range []int{7, 13} {
		if values[i] != nil {
			t.Errorf("values[%d] = %q, want nil (sentinel)", i, *values[i])
		}
	}
}

func TestDetailValues_WebsiteWithoutAnchor(t *testing.T) {
	e := newExtractor(t)
	doc := parseDoc(t, `<html><body><div class="airportdetails">
<span class="detail">: Visit Website (?)</span>
</div></body></html>`)

	values := e.DetailValues(doc)
	if len(values) != 1 {
		t.Fatalf("got %d values, want 1", len(values))
	}
	if values[0] != nil {
		t.Errorf("values[0] = %q, want nil", *values[0])
	}
}

func TestDetailValues_TruncatedPage(t *testing.T) {
	e := newExtractor(t)
	doc := parseDoc(t, `<html><body><div class="airportdetails">
<span class="detail">: SPI</span>
<span class="detail">: Abraham Lincoln Capital</span>
</div></body></html>`)

	// The extractor reports what it found; the schema mapper is the layer
	// that rejects the short count.
	if got := len(e.DetailValues(doc)); got != 2 {
		t.Errorf("got %d values, want 2", got)
	}
}
