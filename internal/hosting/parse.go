package hosting

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vmunix/streamcz/pkg/rank"
)

// parseSearch extracts the hits of one phrasing. Uploads repeated under
// several mirror links (same title and size) are kept once.
func parseSearch(doc *goquery.Document, baseURL, phrasing string) []Source {
	type titleSize struct{ title, size string }
	seen := make(map[titleSize]bool)

	var sources []Source
	doc.Find(".video--link").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find(".video__title").Text())
		link := strings.TrimSpace(s.AttrOr("href", ""))
		if title == "" || link == "" {
			return
		}
		size := strings.TrimSpace(s.Find(".video__tag--size").Text())
		key := titleSize{title, size}
		if seen[key] {
			return
		}
		seen[key] = true

		src := Source{
			ID:        lastSegment(link),
			Title:     title,
			Link:      absoluteURL(baseURL, link),
			Thumbnail: normalizeThumbnail(baseURL, s.Find(".thumb").First().AttrOr("src", "")),
			Duration:  strings.TrimSpace(s.Find(".video__tag--time").Text()),
			Size:      size,
			Score:     rank.Score(title, phrasing),
		}
		if s.Find(".video__tag--format").Length() > 0 {
			src.Quality = rank.QualityHD
		}
		sources = append(sources, src)
	})
	return sources
}

// parseStream reads the optional metadata of a detail page.
func parseStream(doc *goquery.Document, baseURL string) *Stream {
	title := strings.TrimSpace(doc.Find(".video__title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	thumb := doc.Find(".video__thumb img").First().AttrOr("src", "")
	if thumb == "" {
		thumb = doc.Find(".thumb img").First().AttrOr("src", "")
	}
	return &Stream{
		Title:     title,
		Thumbnail: normalizeThumbnail(baseURL, thumb),
		Duration:  strings.TrimSpace(doc.Find(".video__tag--time").First().Text()),
		Size:      strings.TrimSpace(doc.Find(".video__tag--size").First().Text()),
		Quality:   strings.TrimSpace(doc.Find(".video__tag--format").First().Text()),
	}
}

func normalizeThumbnail(baseURL, src string) string {
	switch {
	case src == "":
		return ""
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "/"):
		return baseURL + src
	}
	return src
}

func absoluteURL(baseURL, link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return baseURL + link
}

func lastSegment(link string) string {
	link = strings.TrimRight(link, "/")
	if i := strings.LastIndex(link, "/"); i >= 0 {
		return link[i+1:]
	}
	return link
}
