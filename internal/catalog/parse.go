package catalog

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vmunix/streamcz/pkg/rank"
)

var (
	yearRegex         = regexp.MustCompile(`\((\d{4})\)`)
	episodeCountRegex = regexp.MustCompile(`(\d+)\s+epizod`)
	episodeCodeRegex  = regexp.MustCompile(`S(\d+)E(\d+)`)
	resizedPathRegex  = regexp.MustCompile(`/cache/resized/.*?/`)
	leadingDigits     = regexp.MustCompile(`^\d+`)
)

const (
	seriesLabel   = "seriál"
	directorLabel = "Režie:"
	actorsLabel   = "Hrají:"
)

// parseSearch extracts every search hit with its relevance against query.
// Filtering and ordering are left to the caller.
func parseSearch(doc *goquery.Document, query string) []Title {
	var titles []Title
	doc.Find(".article.article-poster-50").Each(func(_ int, s *goquery.Selection) {
		nameEl := s.Find(".film-title-name").First()
		name := cleanText(nameEl.Text())
		link, ok := nameEl.Attr("href")
		if name == "" || !ok {
			return
		}
		id, ok := titleIDFromLink(link)
		if !ok {
			return
		}

		info := s.Find(".film-title-info").Text()
		t := Title{
			ID:             id,
			Title:          name,
			Year:           parseYear(info),
			Kind:           KindMovie,
			Poster:         normalizePoster(s.Find("img").First().AttrOr("src", "")),
			AdditionalInfo: cleanText(yearRegex.ReplaceAllString(info, "")),
			Score:          rank.Score(name, query),
		}
		if strings.Contains(strings.ToLower(info), seriesLabel) {
			t.Kind = KindSeries
		}

		parts := strings.Split(s.Find(".film-origins-genres .info").Text(), ",")
		t.Origin = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			t.Genre = strings.TrimSpace(strings.Join(parts[1:], ","))
		}

		s.Find(".film-creators").Each(func(_ int, c *goquery.Selection) {
			text := c.Text()
			switch {
			case strings.Contains(text, directorLabel):
				t.Director = cleanText(strings.Replace(text, directorLabel, "", 1))
			case strings.Contains(text, actorsLabel):
				for _, a := range strings.Split(strings.Replace(text, actorsLabel, "", 1), ",") {
					if a = cleanText(a); a != "" {
						t.Actors = append(t.Actors, a)
					}
				}
			}
		})

		titles = append(titles, t)
	})
	return titles
}

// parseSeries reads the season listing, falling back to the older layout
// when the primary block is absent.
func parseSeries(doc *goquery.Document) []Series {
	var series []Series
	doc.Find(".film-episodes-list ul li").Each(func(_ int, s *goquery.Selection) {
		nameEl := s.Find(".film-title-name").First()
		link, ok := nameEl.Attr("href")
		if !ok {
			return
		}
		series = append(series, Series{
			ID:           lastSegment(link),
			Title:        cleanText(nameEl.Text()),
			Year:         parseYear(s.Find(".film-title-info .info").Text()),
			EpisodeCount: parseEpisodeCount(s.Find(".film-title-info").Text()),
		})
	})
	if len(series) > 0 {
		return DedupeSeries(series)
	}

	doc.Find(".series ul li").Each(func(_ int, s *goquery.Selection) {
		a := s.Find("a").First()
		link, ok := a.Attr("href")
		if !ok {
			return
		}
		text := s.Text()
		series = append(series, Series{
			ID:           lastSegment(link),
			Title:        cleanText(a.Text()),
			Year:         parseYear(text),
			EpisodeCount: parseEpisodeCount(text),
		})
	})
	return DedupeSeries(series)
}

// parseEpisodes keeps only rows carrying an SxxEyy code. Repeated rows
// collapse into the last one.
func parseEpisodes(doc *goquery.Document) []Episode {
	var episodes []Episode
	doc.Find(".film-episodes-list ul li").Each(func(_ int, s *goquery.Selection) {
		nameEl := s.Find(".film-title-name").First()
		link, ok := nameEl.Attr("href")
		if !ok {
			return
		}
		m := episodeCodeRegex.FindStringSubmatch(s.Find(".film-title-info .info").Text())
		if m == nil {
			return
		}
		season, _ := strconv.Atoi(m[1])
		episode, _ := strconv.Atoi(m[2])
		episodes = append(episodes, Episode{
			ID:      lastSegment(link),
			Title:   cleanText(nameEl.Text()),
			Season:  season,
			Episode: episode,
		})
	})
	return DedupeEpisodes(episodes)
}

func parseYear(s string) int {
	m := yearRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	year, _ := strconv.Atoi(m[1])
	return year
}

func parseEpisodeCount(s string) int {
	m := episodeCountRegex.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// normalizePoster drops inline images and rewrites resized thumbnails to the
// canonical image URL.
func normalizePoster(src string) string {
	if src == "" || strings.Contains(src, "base64") {
		return ""
	}
	src = resizedPathRegex.ReplaceAllString(src, "/")
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}

// titleIDFromLink reads the numeric id from a "/film/123-slug/" link.
func titleIDFromLink(link string) (int64, bool) {
	segs := pathSegments(link)
	if len(segs) < 2 {
		return 0, false
	}
	digits := leadingDigits.FindString(segs[1])
	if digits == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func lastSegment(link string) string {
	segs := pathSegments(link)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

func pathSegments(link string) []string {
	p := link
	if u, err := url.Parse(link); err == nil {
		p = u.Path
	}
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
