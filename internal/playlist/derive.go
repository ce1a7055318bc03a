package playlist

import (
	"regexp"
	"strconv"
	"strings"
)

// Media type values derived from the stream URL path.
const (
	TypeMovie  = "movie"
	TypeSeries = "series"
)

var (
	reTvgID      = regexp.MustCompile(`tvg-id="([^"]*)"`)
	reTvgName    = regexp.MustCompile(`tvg-name="([^"]*)"`)
	reTvgLogo    = regexp.MustCompile(`tvg-logo="([^"]*)"`)
	reGroupTitle = regexp.MustCompile(`group-title="([^"]*)"`)

	// "The Shawshank Redemption (1994)" — exactly four digits in parens.
	reYear = regexp.MustCompile(`\((\d{4})\)`)
	// "S02 E11", "S02E11", "s2024e6942".
	reSeasonEpisode = regexp.MustCompile(`(?i)S(\d{1,4})\s*E(\d{1,4})`)
	// Same pattern anchored to the end of the title, for base-name stripping.
	reSeasonEpisodeSuffix = regexp.MustCompile(`(?i)\s*S\d{1,4}\s*E\d{1,4}\s*$`)
)

// parseExtinf extracts the recognized key="value" attributes from an
// EXTINF line. An empty attribute value is indistinguishable from a
// missing one: both come back nil.
func parseExtinf(line string) Channel {
	return Channel{
		TvgID:      matchFirstPtr(reTvgID, line),
		TvgName:    matchFirst(reTvgName, line),
		TvgLogo:    matchFirstPtr(reTvgLogo, line),
		GroupTitle: matchFirstPtr(reGroupTitle, line),
	}
}

func matchFirst(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func matchFirstPtr(re *regexp.Regexp, s string) *string {
	v := matchFirst(re, s)
	if v == "" {
		return nil
	}
	return &v
}

// IsMediaURL reports whether a URL points at on-demand media rather than
// a live stream.
func IsMediaURL(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasSuffix(lower, ".mp4") || strings.HasSuffix(lower, ".mkv")
}

// MediaTypeFromURL derives "movie" or "series" from the URL path, or nil
// when neither segment is present.
func MediaTypeFromURL(url string) *string {
	if strings.Contains(url, "/movie/") {
		t := TypeMovie
		return &t
	}
	if strings.Contains(url, "/series/") {
		t := TypeSeries
		return &t
	}
	return nil
}

// ParseYear extracts the first parenthesized 4-digit year from a title,
// or nil when absent.
func ParseYear(title string) *int {
	m := reYear.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &y
}

// ParseSeasonEpisode extracts season and episode numbers from the first
// SxxEyy occurrence in a title. Both are nil when no match is found.
func ParseSeasonEpisode(title string) (season, episode *int) {
	m := reSeasonEpisode.FindStringSubmatch(title)
	if m == nil {
		return nil, nil
	}
	s, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, nil
	}
	e, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, nil
	}
	return &s, &e
}

// SeriesBaseName strips a trailing SXX EXX suffix from a title.
// "DE - Senran Kagura (2013) S02 E11" → "DE - Senran Kagura (2013)".
func SeriesBaseName(title string) string {
	return strings.TrimSpace(reSeasonEpisodeSuffix.ReplaceAllString(title, ""))
}
