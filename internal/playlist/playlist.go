package playlist

import (
	"bufio"
	"strings"
)

// Mode controls which entry classes Parse collects.
type Mode string

const (
	// ModeChannels parses live channels only and stops at the first
	// media-shaped entry.
	ModeChannels Mode = "channels"
	// ModeMedia parses on-demand media only; channel entries are
	// silently skipped.
	ModeMedia Mode = "media"
	// ModeAll parses both classes.
	ModeAll Mode = "all"
)

// Entry is an EXTINF metadata line paired with the URL line that followed it.
type Entry struct {
	Extinf string
	URL    string
}

// Channel is a parsed live-channel entry.
type Channel struct {
	TvgID      *string
	TvgName    string
	TvgLogo    *string
	GroupTitle *string
	StreamURL  string
}

// Media is a parsed on-demand entry with fields derived from the title
// and URL shape.
type Media struct {
	Channel

	MediaType *string // "movie" or "series", from the URL path
	Year      *int
	Season    *int
	Episode   *int

	// Title with the trailing SXX EXX suffix stripped; set only for
	// series entries where a season was found.
	SeriesBaseName *string
}

// Result is the outcome of one Parse call. Malformed input never fails a
// parse; it only increments Skipped. StoppedAtLine is the 1-based line of
// the media URL that halted ModeChannels parsing, 0 otherwise.
type Result struct {
	Channels      []Channel
	Media         []Media
	Skipped       int
	StoppedAtLine int
}

// Some playlists carry very long EXTINF lines.
const maxLineSize = 1024 * 1024

// Parse tokenizes raw M3U content into channel and media entries.
//
// The scanner keeps a single pending EXTINF slot: a second EXTINF before a
// URL counts the stale one as skipped, a URL with no pending EXTINF is an
// orphan and counts as skipped, and a trailing unconsumed EXTINF counts as
// skipped at end of input. Blank lines and other #-comments are ignored.
func Parse(content string, mode Mode) Result {
	var res Result
	var pending string

	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#EXTINF:") {
			if pending != "" {
				res.Skipped++
			}
			pending = line
			continue
		}
		if strings.HasPrefix(line, "#") {
			// Header or unrelated directive.
			continue
		}

		if pending == "" {
			// URL with nothing to pair it to.
			res.Skipped++
			continue
		}

		entry := Entry{Extinf: pending, URL: line}
		pending = ""

		if IsMediaURL(line) {
			if mode == ModeChannels {
				// Channel playlists put all media after the live
				// channels; stopping here skips the long tail.
				res.StoppedAtLine = lineNo
				return res
			}
			if m := ParseMedia(entry); m != nil {
				res.Media = append(res.Media, *m)
			} else {
				res.Skipped++
			}
			continue
		}

		if mode == ModeMedia {
			continue
		}
		if c := ParseChannel(entry); c != nil {
			res.Channels = append(res.Channels, *c)
		} else {
			res.Skipped++
		}
	}

	if pending != "" {
		res.Skipped++
	}
	return res
}

// ParseChannel parses an entry pair into a live channel, or nil when the
// entry is invalid or media-shaped.
func ParseChannel(e Entry) *Channel {
	if !IsValidEntry(e) || IsMediaURL(e.URL) {
		return nil
	}
	c := parseExtinf(e.Extinf)
	c.StreamURL = e.URL
	return &c
}

// ParseMedia parses an entry pair into an on-demand media entry, deriving
// media type, year, and season/episode, or nil when the entry is invalid
// or channel-shaped.
func ParseMedia(e Entry) *Media {
	if !IsValidEntry(e) || !IsMediaURL(e.URL) {
		return nil
	}
	info := parseExtinf(e.Extinf)
	info.StreamURL = e.URL

	season, episode := ParseSeasonEpisode(info.TvgName)
	m := &Media{
		Channel:   info,
		MediaType: MediaTypeFromURL(e.URL),
		Year:      ParseYear(info.TvgName),
		Season:    season,
		Episode:   episode,
	}
	if m.MediaType != nil && *m.MediaType == TypeSeries && season != nil {
		base := SeriesBaseName(info.TvgName)
		m.SeriesBaseName = &base
	}
	return m
}

// IsValidEntry reports whether an entry pair is well formed: EXTINF
// sentinel, http(s) URL, and a non-empty tvg-name attribute.
func IsValidEntry(e Entry) bool {
	if !strings.HasPrefix(e.Extinf, "#EXTINF:") {
		return false
	}
	if !strings.HasPrefix(e.URL, "http") {
		return false
	}
	return matchFirst(reTvgName, e.Extinf) != ""
}
