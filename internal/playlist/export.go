package playlist

import (
	"fmt"
	"strings"

	"github.com/jmales/channelvault/internal/models"
)

// GenerateM3U serializes export rows into an M3U playlist. Rows without a
// stream URL are dropped silently. Absent attributes are omitted entirely;
// the attribute order is tvg-id, tvg-name, tvg-logo, group-title, and the
// trailing comma echo repeats tvg-name verbatim.
func GenerateM3U(rows []models.M3UExportRow) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")

	for _, r := range rows {
		if r.StreamURL == nil || *r.StreamURL == "" {
			continue
		}

		b.WriteString("#EXTINF:-1")
		if r.TvgID != nil && *r.TvgID != "" {
			fmt.Fprintf(&b, ` tvg-id="%s"`, *r.TvgID)
		}
		fmt.Fprintf(&b, ` tvg-name="%s"`, r.TvgName)
		if r.TvgLogo != nil && *r.TvgLogo != "" {
			fmt.Fprintf(&b, ` tvg-logo="%s"`, *r.TvgLogo)
		}
		if r.GroupTitle != nil && *r.GroupTitle != "" {
			fmt.Fprintf(&b, ` group-title="%s"`, *r.GroupTitle)
		}
		fmt.Fprintf(&b, ",%s\n%s\n", r.TvgName, *r.StreamURL)
	}

	return b.String()
}
