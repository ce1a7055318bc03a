// Command seed imports an M3U playlist into the database: live channels
// with -channels (wiping the channels table first), on-demand media with
// -media. Playlists can come from a local file or an HTTP URL.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jmales/channelvault/internal/config"
	"github.com/jmales/channelvault/internal/playlist"
	"github.com/jmales/channelvault/internal/service"
	"github.com/jmales/channelvault/internal/store"
)

func main() {
	channelsSrc := flag.String("channels", "", "M3U file or URL with live channels (replaces the channels table)")
	mediaSrc := flag.String("media", "", "M3U file or URL with on-demand media")
	contentIDPath := flag.String("contentids", "", "Optional JSON file mapping tvg-name to a Kodi channel id")
	flag.Parse()

	if *channelsSrc == "" && *mediaSrc == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -channels and/or -media")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	svc := service.New(pg)

	if *channelsSrc != "" {
		content, err := loadSource(ctx, cfg, *channelsSrc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "channels: %v\n", err)
			os.Exit(1)
		}
		contentIDs, err := loadContentIDs(*contentIDPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "contentids: %v\n", err)
			os.Exit(1)
		}
		res, err := svc.SeedChannels(ctx, content, contentIDs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed channels: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("channels: %d inserted, %d skipped\n", res.Channels, res.Skipped)
	}

	if *mediaSrc != "" {
		content, err := loadSource(ctx, cfg, *mediaSrc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "media: %v\n", err)
			os.Exit(1)
		}
		res, err := svc.SeedMedia(ctx, content)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed media: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("media: %d movies, %d series with %d episodes, %d skipped\n",
			res.Movies, res.Series, res.Episodes, res.Skipped)
	}
}

// loadSource reads playlist content from a local path or downloads it
// when src looks like a URL.
func loadSource(ctx context.Context, cfg *config.Config, src string) (string, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return playlist.Fetch(ctx, src, cfg.FetchUserAgent, cfg.FetchTimeout)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func loadContentIDs(path string) (map[string]int, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
