// This file defines the core data structures (models) for the tracker.
// A Program is a whole-snapshot record of one show on one platform,
// owning its Episodes; snapshots are replaced wholesale, never merged.

package models

import "time"

// Platform identifies which source adapter produced a snapshot.
type Platform string

const (
	PlatformAbema Platform = "abema"
	PlatformTVer  Platform = "tver"
	PlatformNico  Platform = "niconico"
)

// VideoFormat is a single playable rendition of an episode. It has no
// lifecycle of its own; it always belongs to exactly one Episode.
type VideoFormat struct {
	FormatID   string  `json:"formatId"`
	Resolution string  `json:"resolution"`
	Bitrate    float64 `json:"tbr"` // average bitrate in kbps, as reported upstream
	URL        string  `json:"url"`
}

// Episode is one entry of a program's episode list. Identity across
// fetches is the ID field, never the position in the list.
type Episode struct {
	ID             string        `json:"id"`
	Number         int           `json:"number"` // numbers >= 100 denote specials/PVs
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Duration       int           `json:"duration"` // seconds
	ThumbnailURL   string        `json:"thumbnailUrl"`
	IsDownloadable bool          `json:"isDownloadable"`
	IsPremiumOnly  bool          `json:"isPremiumOnly"`
	DownloadURL    string        `json:"downloadUrl,omitempty"` // set only when downloadable
	Formats        []VideoFormat `json:"formats,omitempty"`
	UploadDate     string        `json:"uploadDate,omitempty"`
	ExpirationDate *time.Time    `json:"expirationDate,omitempty"` // platform-dependent (TVer)
}

// Program is the snapshot of a tracked show as of one fetch.
type Program struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	URL                 string    `json:"url"`
	ThumbnailURL        string    `json:"thumbnailUrl"`
	TotalEpisodes       int       `json:"totalEpisodes"`
	LatestEpisodeNumber int       `json:"latestEpisodeNumber"`
	Episodes            []Episode `json:"episodes"`
	FetchedAt           time.Time `json:"fetchedAt"` // first successful fetch, never advanced
	UpdatedAt           time.Time `json:"updatedAt"` // last update that observed a change
	Platform            Platform  `json:"platform"`
}

// LatestRegularEpisode returns the highest episode number below 100.
// Specials and PVs are conventionally numbered 100 and up and are
// excluded. Returns 0 when the list has no regular episodes.
func LatestRegularEpisode(episodes []Episode) int {
	latest := 0
	for _, ep := range episodes {
		if ep.Number > 0 && ep.Number < 100 && ep.Number > latest {
			latest = ep.Number
		}
	}
	return latest
}
