// Package validate checks edit-form input before it reaches the store.
package validate

import (
	"net/url"
	"strings"

	"github.com/jmales/channelvault/internal/service"
)

// Errors maps field names to human-readable problems. An empty map means
// the input is valid.
type Errors map[string]string

// Any reports whether at least one field failed validation.
func (e Errors) Any() bool { return len(e) > 0 }

// urlField accepts an absent or empty value; a present one must parse as
// an absolute http(s) URL.
func urlField(errs Errors, field string, v *string) {
	if v == nil || *v == "" {
		return
	}
	u, err := url.Parse(*v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs[field] = "must be an absolute http(s) URL"
	}
}

// Channel validates the channel edit form.
func Channel(in service.ChannelInput) Errors {
	errs := Errors{}
	if strings.TrimSpace(in.TvgName) == "" {
		errs["tvgName"] = "is required"
	}
	if in.CountryCode != nil && *in.CountryCode != "" && !ValidCountryCode(*in.CountryCode) {
		errs["countryCode"] = "is not a known ISO 3166-1 alpha-2 code"
	}
	if in.ContentID != nil && *in.ContentID < 0 {
		errs["contentId"] = "must not be negative"
	}
	urlField(errs, "tvgLogo", in.TvgLogo)
	urlField(errs, "streamUrl", in.StreamURL)
	return errs
}

// Media validates the movie edit form.
func Media(in service.MediaInput) Errors {
	errs := Errors{}
	if strings.TrimSpace(in.TvgName) == "" {
		errs["tvgName"] = "is required"
	}
	if in.Year != nil && (*in.Year < 1800 || *in.Year > 3000) {
		errs["year"] = "is out of range"
	}
	if in.Season != nil && *in.Season < 0 {
		errs["season"] = "must not be negative"
	}
	if in.Episode != nil && *in.Episode < 0 {
		errs["episode"] = "must not be negative"
	}
	urlField(errs, "tvgLogo", in.TvgLogo)
	urlField(errs, "streamUrl", in.StreamURL)
	return errs
}

// Series validates the series edit form and its episode rows.
func Series(in service.SeriesInput, episodes []service.EpisodeInput) Errors {
	errs := Errors{}
	if strings.TrimSpace(in.TvgName) == "" {
		errs["tvgName"] = "is required"
	}
	urlField(errs, "tvgLogo", in.TvgLogo)
	for _, ep := range episodes {
		if ep.Season != nil && *ep.Season < 0 {
			errs["episodes"] = "season must not be negative"
		}
		if ep.Episode != nil && *ep.Episode < 0 {
			errs["episodes"] = "episode must not be negative"
		}
		urlField(errs, "episodes", ep.StreamURL)
	}
	return errs
}
