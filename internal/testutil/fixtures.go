// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/yotaki/bancheck/internal/config"
	"github.com/yotaki/bancheck/internal/models"
)

// NewConfig returns a Config wired to temporary directories so tests
// never touch the working directory. URL values match the shipped
// defaults.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.ProgramsFile = filepath.Join(dir, "programs.json")
	cfg.Storage.OutputDir = filepath.Join(dir, "output")
	cfg.Cache.Dir = filepath.Join(dir, "cache")
	cfg.Cache.TTLSeconds = 3600
	cfg.SeasonDetection.Threshold = 12
	cfg.SeasonDetection.MaxSeasons = 10
	cfg.Extractor.Path = "yt-dlp"
	cfg.Extractor.TimeoutSeconds = 30
	cfg.Extractor.RatePerSecond = 1000 // don't slow tests down
	cfg.URLs.AbemaBase = "https://abema.tv/video/title"
	cfg.URLs.AbemaEpisodeBase = "https://abema.tv/video/episode"
	cfg.URLs.AbemaSeasonPattern = "https://abema.tv/video/title/%[1]s?s=%[1]s_s%[2]d&eg=%[1]s_eg0"
	cfg.URLs.TVerSeriesBase = "https://tver.jp/series"
	cfg.URLs.TVerEpisodeBase = "https://tver.jp/episodes"
	cfg.URLs.NicoChannelBase = "https://ch.nicovideo.jp"
	cfg.URLs.NicoWatchBase = "https://www.nicovideo.jp/watch"
	return cfg
}

// Episode builds an episode that satisfies the model invariants: a
// downloadable episode always carries at least one format and a
// download URL.
func Episode(id string, number int, downloadable, premium bool) models.Episode {
	ep := models.Episode{
		ID:             id,
		Number:         number,
		Title:          "Episode " + id,
		Description:    "description of " + id,
		Duration:       1440,
		ThumbnailURL:   "https://example.com/" + id + ".jpg",
		IsDownloadable: downloadable,
		IsPremiumOnly:  premium,
	}
	if downloadable {
		ep.DownloadURL = "https://example.com/watch/" + id
		ep.Formats = []models.VideoFormat{
			{FormatID: "hls-1080", Resolution: "1920x1080", Bitrate: 4500.5, URL: "https://example.com/hls/" + id},
		}
	}
	return ep
}

// Program builds a snapshot owning the given episodes, with timestamps
// free of monotonic clock readings so they survive a JSON round trip.
func Program(id string, platform models.Platform, episodes ...models.Episode) *models.Program {
	fetched := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &models.Program{
		ID:                  id,
		Title:               "Program " + id,
		Description:         "description of " + id,
		URL:                 "https://example.com/title/" + id,
		ThumbnailURL:        "https://example.com/" + id + ".png",
		TotalEpisodes:       len(episodes),
		LatestEpisodeNumber: models.LatestRegularEpisode(episodes),
		Episodes:            episodes,
		FetchedAt:           fetched,
		UpdatedAt:           fetched.Add(24 * time.Hour),
		Platform:            platform,
	}
}
