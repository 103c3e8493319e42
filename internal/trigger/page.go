package trigger

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/codyseavey/pokeprice/internal/models"
)

// PageImage is a scannable image found in a page snapshot
type PageImage struct {
	models.ImageSignal
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ExtractImages returns the <img> elements of a page whose declared width
// and height both exceed MinImageDimension. Relative sources are resolved
// against baseURL; a <base href> in the document takes precedence. Images
// without a declared size are skipped, as are duplicates.
func ExtractImages(r io.Reader, baseURL string) ([]PageImage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	var images []PageImage
	seen := make(map[string]bool)
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		src = strings.TrimSpace(src)
		if !ok || src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		width := dimension(s, "width")
		height := dimension(s, "height")
		if !Eligible(width, height) {
			return
		}

		ref, err := url.Parse(src)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			return
		}
		seen[abs] = true

		alt, _ := s.Attr("alt")
		images = append(images, PageImage{
			ImageSignal: models.ImageSignal{SourceURL: abs, AltText: strings.TrimSpace(alt)},
			Width:       width,
			Height:      height,
		})
	})
	return images, nil
}

// dimension reads a declared size in pixels, e.g. "240" or "240px"
func dimension(s *goquery.Selection, attr string) int {
	v, ok := s.Attr(attr)
	if !ok {
		return 0
	}
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
