package extractor

import (
	"time"

	"github.com/yotaki/bancheck/internal/models"
)

// availabilityPremium is the extractor's marker for access-restricted
// videos.
const availabilityPremium = "premium_only"

// EpisodeFromEntry normalizes one extractor entry into an Episode.
// An episode is downloadable only when at least one format exists and
// the video is not premium-restricted; the download URL is carried only
// in that case.
func EpisodeFromEntry(entry *Entry) models.Episode {
	formats := make([]models.VideoFormat, 0, len(entry.Formats))
	for _, f := range entry.Formats {
		formats = append(formats, models.VideoFormat{
			FormatID:   f.FormatID,
			Resolution: f.Resolution,
			Bitrate:    f.TBR,
			URL:        f.URL,
		})
	}
	if len(formats) == 0 {
		formats = nil
	}

	isPremium := entry.Availability == availabilityPremium
	isDownloadable := len(formats) > 0 && !isPremium

	downloadURL := ""
	if isDownloadable {
		downloadURL = entry.URL
		if downloadURL == "" {
			downloadURL = entry.WebpageURL
		}
	}

	return models.Episode{
		ID:             entry.ID,
		Number:         entry.EpisodeNumber,
		Title:          entry.Title,
		Description:    entry.Description,
		Duration:       int(entry.Duration),
		ThumbnailURL:   entry.Thumbnail,
		IsDownloadable: isDownloadable,
		IsPremiumOnly:  isPremium,
		DownloadURL:    downloadURL,
		Formats:        formats,
		UploadDate:     entry.UploadDate,
	}
}

// EpisodesFromInfo converts every non-nil entry of a playlist dump.
func EpisodesFromInfo(info *Info) []models.Episode {
	episodes := make([]models.Episode, 0, len(info.Entries))
	for _, entry := range info.Entries {
		if entry == nil {
			continue
		}
		episodes = append(episodes, EpisodeFromEntry(entry))
	}
	return episodes
}

// BuildProgram assembles a Program snapshot from an info document and
// an already-converted episode list. Both timestamps are stamped to the
// fetch time; the updater rewrites them when it carries an existing
// snapshot forward.
func BuildProgram(info *Info, episodes []models.Episode, platform models.Platform) *models.Program {
	now := time.Now()
	return &models.Program{
		ID:                  info.ID,
		Title:               info.Title,
		Description:         info.Description,
		URL:                 info.WebpageURL,
		ThumbnailURL:        info.Thumbnail,
		TotalEpisodes:       len(episodes),
		LatestEpisodeNumber: models.LatestRegularEpisode(episodes),
		Episodes:            episodes,
		FetchedAt:           now,
		UpdatedAt:           now,
		Platform:            platform,
	}
}
