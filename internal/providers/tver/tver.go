// Package tver implements the provider for TVer. The platform is
// ad-supported: there is no premium tier, and an episode stops being
// downloadable by dropping off the series page or losing its formats.
package tver

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yotaki/bancheck/internal/config"
	"github.com/yotaki/bancheck/internal/models"
	"github.com/yotaki/bancheck/internal/providers/extractor"
	"github.com/yotaki/bancheck/internal/providers/fetchcache"
)

var (
	seriesURLPattern = regexp.MustCompile(`/series/(sr\w+)`)
	bareIDPattern    = regexp.MustCompile(`^sr\w+$`)
)

// Provider implements models.Provider for TVer.
type Provider struct {
	cfg    *config.Config
	runner *extractor.Runner
	cache  *fetchcache.Cache
}

// New creates a new instance of the TVer provider.
func New(cfg *config.Config, runner *extractor.Runner) *Provider {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	return &Provider{
		cfg:    cfg,
		runner: runner,
		cache:  fetchcache.New(filepath.Join(cfg.Cache.Dir, "tver"), ttl),
	}
}

// GetInfo returns static information about this provider.
func (p *Provider) GetInfo() models.ProviderInfo {
	return models.ProviderInfo{
		ID:   models.PlatformTVer,
		Name: "TVer",
	}
}

// Resolve recognizes series URLs (https://tver.jp/series/sr12345) and
// bare series ids, which always start with "sr".
func (p *Provider) Resolve(urlOrID string) (string, bool) {
	urlOrID = strings.TrimSpace(urlOrID)
	if strings.Contains(urlOrID, "tver.jp") {
		if m := seriesURLPattern.FindStringSubmatch(urlOrID); m != nil {
			return m[1], true
		}
		return "", false
	}
	if bareIDPattern.MatchString(urlOrID) {
		return urlOrID, true
	}
	return "", false
}

// FetchProgram returns a full snapshot of a TVer series.
func (p *Provider) FetchProgram(ctx context.Context, programID string) (*models.Program, error) {
	var cached extractor.Info
	if p.cache.Get(programID, &cached) {
		return p.build(&cached, programID), nil
	}

	url := fmt.Sprintf("%s/%s", p.cfg.URLs.TVerSeriesBase, programID)
	info, err := p.runner.Dump(ctx, url)
	if err != nil {
		return nil, &models.FetchError{ProgramID: programID, Cause: err}
	}

	p.cache.Put(programID, info)
	return p.build(info, programID), nil
}

func (p *Provider) build(info *extractor.Info, programID string) *models.Program {
	episodes := make([]models.Episode, 0, len(info.Entries))
	for _, entry := range info.Entries {
		if entry == nil {
			continue
		}
		episodes = append(episodes, p.episodeFromEntry(entry))
	}

	program := extractor.BuildProgram(info, episodes, models.PlatformTVer)
	if program.ID == "" {
		program.ID = programID
	}
	if program.URL == "" {
		program.URL = fmt.Sprintf("%s/%s", p.cfg.URLs.TVerSeriesBase, programID)
	}
	return program
}

// episodeFromEntry overrides the generic normalization: TVer has no
// premium tier, so anything with playable formats is downloadable.
func (p *Provider) episodeFromEntry(entry *extractor.Entry) models.Episode {
	ep := extractor.EpisodeFromEntry(entry)
	ep.IsPremiumOnly = false
	ep.IsDownloadable = len(ep.Formats) > 0
	if ep.IsDownloadable && ep.DownloadURL == "" {
		ep.DownloadURL = entry.WebpageURL
	}
	if !ep.IsDownloadable {
		ep.DownloadURL = ""
	}
	return ep
}

// EpisodeURL returns the playback page for an episode.
func (p *Provider) EpisodeURL(ep models.Episode) string {
	return fmt.Sprintf("%s/%s", p.cfg.URLs.TVerEpisodeBase, ep.ID)
}
