package seocheck

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Document is the subset of a parsed page the rules look at. Every value
// that may be absent from the markup is a pointer; nil means the element
// (or attribute) was not there at all.
type Document struct {
	// Title is the text of the first <title> element.
	Title *string
	// Description is the content attribute of the first
	// <meta name="description">.
	Description *string
	// FirstH1 is the text of the first <h1>.
	FirstH1 *string
	H1Count int
	// RobotsCount is the number of <meta name="robots"> elements.
	RobotsCount int
	// Canonical is the first <link rel="canonical">, if any.
	Canonical *Canonical
	Images    []Image
}

// Canonical is a <link rel="canonical"> element.
type Canonical struct {
	Href *string
}

// Image is an <img> element.
type Image struct {
	Src string
	Alt *string
}

// ParseDocument decodes body using the charset declared by contentType (or
// sniffed from the markup) and extracts the fields the rules need.
func ParseDocument(body io.Reader, contentType string) (*Document, error) {
	r, err := charset.NewReader(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	dom, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &Document{}

	if title := dom.Find("title").First(); title.Length() > 0 {
		doc.Title = ptr(title.Text())
	}

	if meta := metaNamed(dom, "description").First(); meta.Length() > 0 {
		if content, ok := meta.Attr("content"); ok {
			doc.Description = ptr(content)
		}
	}

	h1s := dom.Find("h1")
	doc.H1Count = h1s.Length()
	if doc.H1Count > 0 {
		doc.FirstH1 = ptr(h1s.First().Text())
	}

	doc.RobotsCount = metaNamed(dom, "robots").Length()

	canonical := dom.Find("link[rel]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		return hasToken(rel, "canonical")
	}).First()
	if canonical.Length() > 0 {
		doc.Canonical = &Canonical{}
		if href, ok := canonical.Attr("href"); ok {
			doc.Canonical.Href = ptr(href)
		}
	}

	dom.Find("img").Each(func(_ int, s *goquery.Selection) {
		img := Image{Src: s.AttrOr("src", "")}
		if alt, ok := s.Attr("alt"); ok {
			img.Alt = ptr(alt)
		}
		doc.Images = append(doc.Images, img)
	})

	return doc, nil
}

// metaNamed selects <meta> elements whose name attribute equals name,
// ignoring case and surrounding space.
func metaNamed(dom *goquery.Document, name string) *goquery.Selection {
	return dom.Find("meta[name]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("name")
		return strings.EqualFold(strings.TrimSpace(v), name)
	})
}

// hasToken reports whether the space-separated list contains token.
func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T {
	return &v
}
