// Package nico implements the provider for Nicovideo channels. The
// channel RSS feed lists recent videos; each video is then hydrated
// through the extractor so availability and formats come from the same
// source as the other platforms.
package nico

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yotaki/bancheck/internal/config"
	"github.com/yotaki/bancheck/internal/models"
	"github.com/yotaki/bancheck/internal/providers/extractor"
	"github.com/yotaki/bancheck/internal/providers/fetchcache"
)

// maxFeedVideos caps per-video hydration to the most recent feed items.
const maxFeedVideos = 50

var (
	channelURLPattern = regexp.MustCompile(`ch\.nicovideo\.jp/([^/?]+)`)
	channelIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	videoIDPattern    = regexp.MustCompile(`(?:sm|so|nm)\d+`)
)

// Provider implements models.Provider for Nicovideo channels.
type Provider struct {
	cfg    *config.Config
	runner *extractor.Runner
	client *http.Client
	cache  *fetchcache.Cache
}

// New creates a new instance of the Nicovideo provider.
func New(cfg *config.Config, runner *extractor.Runner) *Provider {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	return &Provider{
		cfg:    cfg,
		runner: runner,
		client: &http.Client{Timeout: 20 * time.Second},
		cache:  fetchcache.New(filepath.Join(cfg.Cache.Dir, "nico"), ttl),
	}
}

// GetInfo returns static information about this provider.
func (p *Provider) GetInfo() models.ProviderInfo {
	return models.ProviderInfo{
		ID:   models.PlatformNico,
		Name: "Nicovideo",
	}
}

// Resolve recognizes channel URLs (https://ch.nicovideo.jp/danime) and
// bare channel names. Channel names act as the catch-all for bare ids
// no other platform claims, so this provider must be registered last.
func (p *Provider) Resolve(urlOrID string) (string, bool) {
	urlOrID = strings.TrimSpace(urlOrID)
	if strings.Contains(urlOrID, "nicovideo.jp") {
		if m := channelURLPattern.FindStringSubmatch(urlOrID); m != nil {
			return m[1], true
		}
		return "", false
	}
	if channelIDPattern.MatchString(urlOrID) {
		return urlOrID, true
	}
	return "", false
}

// rssFeed is the subset of the channel RSS document the provider reads.
type rssFeed struct {
	Channel struct {
		Title       string `xml:"title"`
		Description string `xml:"description"`
		Items       []struct {
			Title string `xml:"title"`
			Link  string `xml:"link"`
		} `xml:"item"`
	} `xml:"channel"`
}

// FetchProgram lists the channel's recent videos via RSS and hydrates
// each one through the extractor. Individual video failures are logged
// and skipped; only a completely unusable feed fails the fetch.
func (p *Provider) FetchProgram(ctx context.Context, programID string) (*models.Program, error) {
	var cached extractor.Info
	if p.cache.Get(programID, &cached) {
		return p.build(&cached, programID), nil
	}

	feed, err := p.fetchFeed(ctx, programID)
	if err != nil {
		return nil, &models.FetchError{ProgramID: programID, Cause: err}
	}

	videoIDs := make([]string, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		if id := videoIDPattern.FindString(item.Link); id != "" {
			videoIDs = append(videoIDs, id)
		}
	}
	if len(videoIDs) == 0 {
		return nil, &models.FetchError{ProgramID: programID, Reason: "no video ids found in RSS feed"}
	}
	if len(videoIDs) > maxFeedVideos {
		videoIDs = videoIDs[:maxFeedVideos]
	}

	entries := make([]*extractor.Entry, 0, len(videoIDs))
	for _, videoID := range videoIDs {
		watchURL := fmt.Sprintf("%s/%s", p.cfg.URLs.NicoWatchBase, videoID)
		entry, err := p.runner.DumpEntry(ctx, watchURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &models.FetchError{ProgramID: programID, Cause: ctx.Err()}
			}
			log.Warn().Str("video_id", videoID).Err(err).Msg("Skipping video that failed to hydrate")
			continue
		}
		entries = append(entries, entry)
	}

	// Synthesize a playlist-shaped payload so cache hits rebuild the
	// snapshot exactly like the other platforms.
	info := &extractor.Info{
		ID:          programID,
		Title:       feed.Channel.Title,
		Description: feed.Channel.Description,
		WebpageURL:  fmt.Sprintf("%s/%s", p.cfg.URLs.NicoChannelBase, programID),
		Entries:     entries,
	}
	p.cache.Put(programID, info)
	return p.build(info, programID), nil
}

func (p *Provider) fetchFeed(ctx context.Context, channel string) (*rssFeed, error) {
	rssURL := fmt.Sprintf("%s/%s/video?rss=2.0", p.cfg.URLs.NicoChannelBase, channel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rssURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("channel feed returned status %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse RSS feed: %w", err)
	}
	return &feed, nil
}

func (p *Provider) build(info *extractor.Info, programID string) *models.Program {
	episodes := make([]models.Episode, 0, len(info.Entries))
	for _, entry := range info.Entries {
		if entry == nil {
			continue
		}
		ep := extractor.EpisodeFromEntry(entry)
		if ep.IsDownloadable {
			// Downstream tooling expects the watch page, not a raw
			// stream URL that expires.
			ep.DownloadURL = entry.WebpageURL
			if ep.DownloadURL == "" {
				ep.DownloadURL = fmt.Sprintf("%s/%s", p.cfg.URLs.NicoWatchBase, ep.ID)
			}
		}
		episodes = append(episodes, ep)
	}

	program := extractor.BuildProgram(info, episodes, models.PlatformNico)
	if program.ID == "" {
		program.ID = programID
	}
	if program.Title == "" {
		program.Title = programID
	}
	if program.URL == "" {
		program.URL = fmt.Sprintf("%s/%s", p.cfg.URLs.NicoChannelBase, programID)
	}
	return program
}

// EpisodeURL returns the watch page for an episode.
func (p *Provider) EpisodeURL(ep models.Episode) string {
	return fmt.Sprintf("%s/%s", p.cfg.URLs.NicoWatchBase, ep.ID)
}
