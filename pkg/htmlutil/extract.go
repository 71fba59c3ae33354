// Package htmlutil provides HTML processing utilities for profile scraping.
package htmlutil

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/codeGROOVE-dev/handlecheck/pkg/profile"
)

// Parse builds a queryable document from an HTML body.
// A body that cannot be parsed is reported as profile.ErrParse.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w: %w", profile.ErrParse, err)
	}
	return doc, nil
}

// Meta returns the content of the first <meta> tag whose property or name equals key.
func Meta(doc *goquery.Document, key string) string {
	var val string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		prop, _ := s.Attr("property")
		name, _ := s.Attr("name")
		if !strings.EqualFold(prop, key) && !strings.EqualFold(name, key) {
			return true
		}
		content, ok := s.Attr("content")
		if !ok || strings.TrimSpace(content) == "" {
			return true
		}
		val = strings.TrimSpace(content)
		return false
	})
	return val
}

// Title extracts the page title.
// Priority: og:title > <title> > first <h1>.
func Title(doc *goquery.Document) string {
	if t := Meta(doc, "og:title"); t != "" {
		return t
	}
	if t := Text(doc, "title"); t != "" {
		return t
	}
	return Text(doc, "h1")
}

// Description extracts the meta description, falling back to og:description.
func Description(doc *goquery.Document) string {
	if d := Meta(doc, "description"); d != "" {
		return d
	}
	return Meta(doc, "og:description")
}

// Image extracts an image URL from meta tags.
// Priority: og:image > twitter:image.
func Image(doc *goquery.Document) string {
	if img := Meta(doc, "og:image"); img != "" {
		return img
	}
	return Meta(doc, "twitter:image")
}

// Text returns the collapsed text of the first element matching selector.
func Text(doc *goquery.Document, selector string) string {
	return strings.Join(strings.Fields(doc.Find(selector).First().Text()), " ")
}

// IsNotFound detects common "page not found" wording in visible page text.
func IsNotFound(text string) bool {
	lower := strings.ToLower(text)
	patterns := []string{
		"404 not found",
		"page not found",
		"this page isn't available",
		"couldn't find this account",
		"this account doesn't exist",
		"this channel doesn't exist",
		"user not found",
		"account not found",
	}
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
