// Package hascript renders active channels into a Home Assistant script
// configuration block. Home Assistant's YAML loader is strict, so the
// output is emitted line by line with fixed 2-space indentation instead of
// going through a generic YAML marshaller.
package hascript

import (
	"fmt"
	"strings"

	"github.com/jmales/channelvault/internal/models"
)

// Placeholder is returned instead of a script: root when no channel
// qualifies for export.
const Placeholder = "# No channels with scriptAlias and contentId found"

// Skipped records why one channel was left out of the export.
type Skipped struct {
	Reason  string `json:"reason"`
	Channel string `json:"channel"`
}

// Result is the rendered configuration plus export bookkeeping.
type Result struct {
	YAML    string    `json:"yaml"`
	Count   int       `json:"count"`
	Skipped []Skipped `json:"skipped"`
}

// Generate renders the script configuration for rows. A row needs both a
// script alias (the script key) and a non-zero Kodi content id; rows
// missing either are recorded under Skipped. The display label prefers the
// CMS name override, the play action title always uses tvgName.
func Generate(rows []models.ScriptExportRow) Result {
	var lines []string
	skipped := []Skipped{}

	for _, r := range rows {
		name := r.TvgName
		if r.Name != nil && *r.Name != "" {
			name = *r.Name
		}

		if r.ScriptAlias == nil || *r.ScriptAlias == "" {
			skipped = append(skipped, Skipped{Reason: "missing scriptAlias", Channel: name})
			continue
		}
		// Zero means "no id assigned", same as null.
		if r.ContentID == nil || *r.ContentID == 0 {
			skipped = append(skipped, Skipped{Reason: "missing contentId", Channel: name})
			continue
		}

		thumbnail := ""
		if r.TvgLogo != nil {
			thumbnail = *r.TvgLogo
		}

		lines = append(lines,
			fmt.Sprintf("  %s:", *r.ScriptAlias),
			fmt.Sprintf("    alias: %q", name),
			"    icon: mdi:view-stream",
			"    sequence:",
			"      - service: script.play_channel",
			"        data:",
			fmt.Sprintf("          content_id: %d", *r.ContentID),
			fmt.Sprintf("          channel_title: %q", r.TvgName),
			fmt.Sprintf("          channel_thumbnail: %q", thumbnail),
		)
	}

	yaml := Placeholder
	if len(lines) > 0 {
		yaml = "script:\n" + strings.Join(lines, "\n")
	}

	return Result{
		YAML:    yaml,
		Count:   len(rows) - len(skipped),
		Skipped: skipped,
	}
}
