// Package catalog lists the prompt spreadsheets linked from the ministry's
// statistics pages.
package catalog

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/ppiankov/vitalstats/internal/pipeline"
	"github.com/ppiankov/vitalstats/internal/source"
	"golang.org/x/net/html"
)

// DefaultPageURL is the index page of the monthly vital statistics
const DefaultPageURL = source.DefaultCatalogURL

// Entry is a spreadsheet link found on a page
type Entry struct {
	URL    string
	Text   string
	Format source.Format
	// Year and Month are zero when the file name does not follow the
	// ministry's naming scheme
	Year  int
	Month int
}

// Known reports whether the entry's year and month were decoded
func (e Entry) Known() bool {
	return e.Year != 0 && e.Month != 0
}

var filePattern = regexp.MustCompile(`/geppo/[sm](\d{4})/xls/(?:\d{4})?(\d{2})\.xlsx?$`)

// List downloads pageURL and returns the spreadsheets it links to
func List(ctx context.Context, getter pipeline.Getter, pageURL string) ([]Entry, error) {
	if pageURL == "" {
		pageURL = DefaultPageURL
	}

	result, err := getter.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	base := pageURL
	if result.FinalURL != "" {
		base = result.FinalURL
	}
	return Parse(bytes.NewReader(result.Body), base)
}

// Parse extracts spreadsheet links from an HTML document. Relative links
// resolve against pageURL. Entries are unique by URL and sorted by
// (year, month, url).
func Parse(r io.Reader, pageURL string) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	baseURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	seen := make(map[string]bool)
	var entries []Entry
	var walk func(*html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if entry, ok := linkEntry(baseURL, n); ok && !seen[entry.URL] {
				seen[entry.URL] = true
				entries = append(entries, entry)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.Year, b.Year),
			cmp.Compare(a.Month, b.Month),
			strings.Compare(a.URL, b.URL),
		)
	})
	return entries, nil
}

func linkEntry(base *url.URL, n *html.Node) (Entry, bool) {
	href := ""
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = strings.TrimSpace(attr.Val)
		}
	}
	if href == "" || strings.HasPrefix(href, "#") {
		return Entry{}, false
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return Entry{}, false
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return Entry{}, false
	}
	if !strings.Contains(resolved.Path, "/geppo/") {
		return Entry{}, false
	}

	var format source.Format
	switch strings.ToLower(path.Ext(resolved.Path)) {
	case ".xls":
		format = source.FormatXLS
	case ".xlsx":
		format = source.FormatXLSX
	default:
		return Entry{}, false
	}

	entry := Entry{
		URL:    resolved.String(),
		Text:   nodeText(n),
		Format: format,
	}
	if m := filePattern.FindStringSubmatch(resolved.Path); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			entry.Year = year
			entry.Month = month
		}
	}
	return entry, true
}

// nodeText concatenates the text inside n
func nodeText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
